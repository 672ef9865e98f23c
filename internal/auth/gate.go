// Package auth guards the dashboard behind a single configured operator
// account and server-side sessions.
package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for any username/password mismatch.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound is returned for unknown, expired or revoked tokens.
	ErrSessionNotFound = errors.New("session not found")
)

// Gate checks submitted credentials against the configured pair.
type Gate struct {
	username     []byte
	password     []byte
	passwordHash []byte
}

// NewGate builds a Gate. When passwordHash (bcrypt) is set, password is ignored.
func NewGate(username, password, passwordHash string) *Gate {
	g := &Gate{username: []byte(username)}
	if passwordHash != "" {
		g.passwordHash = []byte(passwordHash)
	} else {
		g.password = []byte(password)
	}
	return g
}

// Check succeeds only on an exact match of both fields.
func (g *Gate) Check(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), g.username) == 1

	var passOK bool
	if len(g.passwordHash) > 0 {
		passOK = bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), g.password) == 1
	}

	if !userOK || !passOK || len(g.username) == 0 {
		return ErrInvalidCredentials
	}
	return nil
}
