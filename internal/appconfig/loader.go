// Package appconfig loads the remote AppConfig singleton.
package appconfig

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/harentsoaR/colortherapy-api/internal/apperror"
	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/store"
)

// Loader fetches the AppConfig once and serves the cached copy afterwards.
// A failed fetch is not cached, so the next caller tries again.
type Loader struct {
	source store.ConfigStore

	mu     sync.RWMutex
	cached *models.AppConfig
}

func NewLoader(source store.ConfigStore) *Loader {
	return &Loader{source: source}
}

// Load returns the cached config, fetching it on first use.
func (l *Loader) Load(ctx context.Context) (*models.AppConfig, error) {
	l.mu.RLock()
	cfg := l.cached
	l.mu.RUnlock()
	if cfg != nil {
		return cfg, nil
	}
	return l.Reload(ctx)
}

// Reload fetches the three config documents concurrently and replaces the
// cached copy. Any single failure fails the whole load.
func (l *Loader) Reload(ctx context.Context) (*models.AppConfig, error) {
	cfg := &models.AppConfig{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pages, err := l.source.Pages(gctx)
		cfg.Pages = pages
		return err
	})
	g.Go(func() error {
		roles, err := l.source.RolePermissions(gctx)
		cfg.RolePermissions = roles
		return err
	})
	g.Go(func() error {
		emails, err := l.source.NonRemoveableUsers(gctx)
		cfg.NonRemoveableUsers = emails
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.ConfigUnavailable(err)
	}

	l.mu.Lock()
	l.cached = cfg
	l.mu.Unlock()
	return cfg, nil
}

// Cached returns the last loaded config without fetching, or nil.
func (l *Loader) Cached() *models.AppConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cached
}
