// Package access computes what a signed-in user may see and do.
//
// Every decision is derived from two inputs: the user's profile and the
// remote AppConfig. Nothing here touches the network or the database.
package access

import (
	"sort"

	"github.com/harentsoaR/colortherapy-api/internal/models"
)

// Access is the effective permission set of one user.
type Access struct {
	AllowedPages []string                      `json:"allowedPages"`
	Actions      map[string]models.ActionFlags `json:"actions"`
	Unrestricted bool                          `json:"unrestricted"`
}

// Resolve combines a user with the app config.
//
// Protected accounts get every configured page with every action. A user with
// an explicit permission override gets exactly its keys and flags. Everyone
// else gets the role's page list with view-only flags. A role missing from
// the config resolves to no pages at all.
func Resolve(user *models.User, cfg *models.AppConfig) Access {
	a := Access{AllowedPages: []string{}, Actions: map[string]models.ActionFlags{}}
	if user == nil || cfg == nil {
		return a
	}

	if cfg.IsNonRemoveable(user.Email) {
		a.Unrestricted = true
		for _, p := range cfg.Pages {
			a.add(p.Key, models.FullAccess)
		}
		return a
	}

	if len(user.Permissions) > 0 {
		for _, key := range orderedKeys(user.Permissions, cfg.Pages) {
			a.add(key, user.Permissions[key])
		}
		return a
	}

	for _, key := range cfg.RolePermissions[user.Role] {
		a.add(key, models.ActionFlags{View: true})
	}
	return a
}

func (a *Access) add(key string, flags models.ActionFlags) {
	if _, seen := a.Actions[key]; seen {
		return
	}
	a.AllowedPages = append(a.AllowedPages, key)
	a.Actions[key] = flags
}

// HasPage reports whether page is in the allowed set.
func (a Access) HasPage(page string) bool {
	if a.Unrestricted {
		return true
	}
	_, ok := a.Actions[page]
	return ok
}

// Can reports whether action is permitted on page.
func (a Access) Can(page string, action models.Action) bool {
	if a.Unrestricted {
		return true
	}
	return a.Actions[page].Allows(action)
}

// orderedKeys puts override keys in config page order; keys the config does
// not know come last, sorted.
func orderedKeys(perms models.Permissions, pages []models.PageDescriptor) []string {
	keys := make([]string, 0, len(perms))
	known := make(map[string]bool, len(pages))
	for _, p := range pages {
		known[p.Key] = true
		if _, ok := perms[p.Key]; ok {
			keys = append(keys, p.Key)
		}
	}

	var extra []string
	for k := range perms {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
