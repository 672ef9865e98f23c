package auth

import (
	"context"
	"sync"
	"time"
)

// Session is an authenticated operator session.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions by token.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// MemoryStore keeps sessions in process memory. Sessions vanish on restart.
type MemoryStore struct {
	sessions map[string]Session
	mu       sync.RWMutex
	now      func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Save stores or replaces a session.
func (ms *MemoryStore) Save(_ context.Context, s Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sessions[s.Token] = s
	ms.sweepLocked()
	return nil
}

// Get returns a live session.
func (ms *MemoryStore) Get(_ context.Context, token string) (Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	s, exists := ms.sessions[token]
	if !exists || s.Expired(ms.now()) {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (ms *MemoryStore) Delete(_ context.Context, token string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, token)
	return nil
}

// Len is the number of stored sessions, expired ones included until swept.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.sessions)
}

func (ms *MemoryStore) sweepLocked() {
	now := ms.now()
	for token, s := range ms.sessions {
		if s.Expired(now) {
			delete(ms.sessions, token)
		}
	}
}
