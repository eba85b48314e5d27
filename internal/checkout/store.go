package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/modumall/storefront-gateway/pkg/errors"
)

type sessionCache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutSessionKey(sessionID string) string
	DispatchLockKey(sessionID string) string
}

// dispatchLockTTL caps how long a crashed submit can hold the lock.
const dispatchLockTTL = 2 * time.Minute

// SessionStore persists checkout sessions in Redis for the checkout TTL.
type SessionStore struct {
	cache sessionCache
	ttl   time.Duration
}

// NewSessionStore wires the store to the shared Redis client.
func NewSessionStore(cache sessionCache, ttl time.Duration) (*SessionStore, error) {
	if cache == nil {
		return nil, fmt.Errorf("session cache required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &SessionStore{cache: cache, ttl: ttl}, nil
}

// Save writes the session, refreshing its TTL. Every selection change and
// state transition goes through here so the stored copy is authoritative.
func (s *SessionStore) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return pkgerrors.New(pkgerrors.CodeInternal, "cannot persist an unidentified session")
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal checkout session")
	}
	if err := s.cache.Set(ctx, s.cache.CheckoutSessionKey(session.ID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist checkout session")
	}
	return nil
}

// Get loads a session by id. A missing or expired session maps to
// CodeNotFound so handlers can tell the shopper to start over.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := s.cache.Get(ctx, s.cache.CheckoutSessionKey(sessionID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found or expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load checkout session")
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unmarshal checkout session")
	}
	return &session, nil
}

// AcquireDispatchLock takes the per-session submit lock. It is a plain SETNX,
// so exactly one concurrent submit wins; everyone else sees false.
func (s *SessionStore) AcquireDispatchLock(ctx context.Context, sessionID string) (bool, error) {
	acquired, err := s.cache.SetNX(ctx, s.cache.DispatchLockKey(sessionID), "1", dispatchLockTTL)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire dispatch lock")
	}
	return acquired, nil
}

// ReleaseDispatchLock drops the submit lock. Safe to call when the lock has
// already expired.
func (s *SessionStore) ReleaseDispatchLock(ctx context.Context, sessionID string) error {
	if err := s.cache.Del(ctx, s.cache.DispatchLockKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release dispatch lock")
	}
	return nil
}

// Delete drops a finished session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.cache.Del(ctx, s.cache.CheckoutSessionKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete checkout session")
	}
	return nil
}
