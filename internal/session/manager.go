package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Signer turns a session key into a cookie value and back.
type Signer interface {
	Sign(subject string) (string, error)
	Parse(token string) (string, error)
}

// Manager loads and saves sessions through a Store, using signed cookie
// values that carry the session key.
type Manager struct {
	store  Store
	signer Signer
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, signer Signer, ttl time.Duration) *Manager {
	return &Manager{store: store, signer: signer, ttl: ttl, now: time.Now}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Load returns the session referenced by cookie. Missing, tampered or expired
// cookies yield a fresh empty session; the error is only set on store failures.
func (m *Manager) Load(ctx context.Context, cookie string) (*Session, error) {
	if cookie == "" {
		return New(), nil
	}
	key, err := m.signer.Parse(cookie)
	if err != nil {
		return New(), nil
	}

	payload, err := m.store.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return New(), nil
	}
	if err != nil {
		return New(), fmt.Errorf("load session: %w", err)
	}

	s := &Session{key: key}
	if err := json.Unmarshal(payload, &s.data); err != nil {
		// unreadable payloads are dropped rather than failing the request
		return New(), nil
	}
	return s, nil
}

// Save persists a modified session and returns the cookie value to send to
// the client. The returned value is empty when nothing had to be written.
// Empty sessions are never stored; one that became empty is deleted and
// loses its key.
func (m *Manager) Save(ctx context.Context, s *Session) (string, error) {
	for _, old := range s.stale {
		if err := m.store.Delete(ctx, old); err != nil {
			return "", fmt.Errorf("delete session: %w", err)
		}
	}
	s.stale = nil

	if !s.modified {
		return "", nil
	}
	if s.Empty() {
		if s.key != "" {
			if err := m.store.Delete(ctx, s.key); err != nil {
				return "", fmt.Errorf("delete session: %w", err)
			}
			s.key = ""
		}
		s.modified = false
		return "", nil
	}
	if s.key == "" {
		s.key = newKey()
	}

	payload, err := json.Marshal(s.data)
	if err != nil {
		return "", err
	}
	if err := m.store.Save(ctx, s.key, payload, m.now().Add(m.ttl)); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	s.modified = false

	return m.signer.Sign(s.key)
}
