package auth

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/harentsoaR/colortherapy-api/internal/apperror"
)

// AttemptStore tracks consecutive login failures and lockouts per key.
type AttemptStore interface {
	// LockedFor returns how long key stays locked, zero when it is not.
	LockedFor(ctx context.Context, key string) (time.Duration, error)
	// Fail records a failure and returns the consecutive failure count.
	Fail(ctx context.Context, key string) (int, error)
	// Lock locks key for d and clears its failure count.
	Lock(ctx context.Context, key string, d time.Duration) error
	// Reset clears failures and any lock.
	Reset(ctx context.Context, key string) error
}

// LoginLimiter locks an email out after maxAttempts consecutive failures.
type LoginLimiter struct {
	store       AttemptStore
	maxAttempts int
	cooldown    time.Duration
}

func NewLoginLimiter(store AttemptStore, maxAttempts int, cooldown time.Duration) *LoginLimiter {
	return &LoginLimiter{store: store, maxAttempts: maxAttempts, cooldown: cooldown}
}

// Allow fails with a locked-out error while email is in cooldown.
func (l *LoginLimiter) Allow(ctx context.Context, email string) error {
	left, err := l.store.LockedFor(ctx, NormalizeEmail(email))
	if err != nil {
		return apperror.Remote("login limiter unavailable", err)
	}
	if left > 0 {
		secs := int(math.Ceil(left.Seconds()))
		return apperror.New(apperror.KindLockedOut, fmt.Sprintf("too many failed attempts, try again in %d seconds", secs))
	}
	return nil
}

// Failure records a failed attempt and reports whether it triggered a lock.
func (l *LoginLimiter) Failure(ctx context.Context, email string) (bool, error) {
	key := NormalizeEmail(email)
	n, err := l.store.Fail(ctx, key)
	if err != nil {
		return false, err
	}
	if n < l.maxAttempts {
		return false, nil
	}
	return true, l.store.Lock(ctx, key, l.cooldown)
}

// Success clears the failure history of email.
func (l *LoginLimiter) Success(ctx context.Context, email string) error {
	return l.store.Reset(ctx, NormalizeEmail(email))
}

type attempts struct {
	failures    int
	lockedUntil time.Time
}

// MemoryAttemptStore keeps attempts in process memory; they are lost on restart.
type MemoryAttemptStore struct {
	mu      sync.Mutex
	entries map[string]*attempts
	now     func() time.Time
}

func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{entries: make(map[string]*attempts), now: time.Now}
}

func (s *MemoryAttemptStore) LockedFor(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return 0, nil
	}
	left := e.lockedUntil.Sub(s.now())
	if left <= 0 {
		return 0, nil
	}
	return left, nil
}

func (s *MemoryAttemptStore) Fail(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &attempts{}
		s.entries[key] = e
	}
	e.failures++
	return e.failures, nil
}

func (s *MemoryAttemptStore) Lock(_ context.Context, key string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &attempts{lockedUntil: s.now().Add(d)}
	return nil
}

func (s *MemoryAttemptStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// RedisAttemptStore shares attempts between API replicas.
type RedisAttemptStore struct {
	client     *redis.Client
	failureTTL time.Duration
}

// NewRedisAttemptStore connects to the Redis server at url.
func NewRedisAttemptStore(ctx context.Context, url string) (*RedisAttemptStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisAttemptStore{client: client, failureTTL: 24 * time.Hour}, nil
}

func failKey(key string) string { return "login:fail:" + key }
func lockKey(key string) string { return "login:lock:" + key }

func (s *RedisAttemptStore) LockedFor(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.PTTL(ctx, lockKey(key)).Result()
	if err != nil {
		return 0, err
	}
	// Negative values mean the key is missing or has no expiry.
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (s *RedisAttemptStore) Fail(ctx context.Context, key string) (int, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, failKey(key))
	pipe.Expire(ctx, failKey(key), s.failureTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *RedisAttemptStore) Lock(ctx context.Context, key string, d time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, lockKey(key), 1, d)
	pipe.Del(ctx, failKey(key))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisAttemptStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, failKey(key), lockKey(key)).Err()
}

func (s *RedisAttemptStore) Close() error {
	return s.client.Close()
}
