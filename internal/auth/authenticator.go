package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/metrics"
)

// Authenticator drives the Anonymous/Authenticated transitions of a browser
// session: Login creates a session, Logout removes it, Resolve looks it up.
type Authenticator struct {
	gate    *Gate
	store   Store
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewAuthenticator wires a gate to a session store.
func NewAuthenticator(gate *Gate, store Store, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Authenticator{
		gate:    gate,
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.Named("auth"),
		metrics: m,
	}
}

// Login checks the credentials and opens a session.
func (a *Authenticator) Login(ctx context.Context, username, password string) (Session, error) {
	if err := a.gate.Check(username, password); err != nil {
		a.metrics.LoginAttempt(false)
		a.logger.Warn("login rejected", zap.String("username", username))
		return Session{}, err
	}

	now := a.now()
	s := Session{
		Token:     uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(a.ttl),
	}
	if err := a.store.Save(ctx, s); err != nil {
		return Session{}, err
	}

	a.metrics.LoginAttempt(true)
	a.logger.Info("login accepted", zap.String("username", username))
	return s, nil
}

// Logout ends the session. An unknown token is already logged out.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return a.store.Delete(ctx, token)
}

// Resolve returns the live session behind token.
func (a *Authenticator) Resolve(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrSessionNotFound
	}
	s, err := a.store.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			a.logger.Error("session lookup failed", zap.Error(err))
		}
		return Session{}, err
	}
	if s.Expired(a.now()) {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}
