// Package session holds the authentication state of site visitors.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"disasterprep/models"
)

var (
	// ErrInvalidCredentials is returned by identity providers for a wrong email or passcode.
	ErrInvalidCredentials = errors.New("invalid email or passcode")
	// ErrLoginSuperseded is returned by Login when Logout ran while it was in flight.
	ErrLoginSuperseded = errors.New("login superseded by logout")
)

// Credentials are handed through to the identity provider untouched.
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Passcode string `json:"passcode" binding:"required"`
}

// IdentityProvider performs the actual sign-in. The gate only awaits it.
type IdentityProvider interface {
	Authenticate(ctx context.Context, creds Credentials) (*models.MemberProfile, error)
}

// State is a read-only snapshot of a gate.
type State struct {
	Authenticated bool                  `json:"authenticated"`
	Profile       *models.MemberProfile `json:"member,omitempty"`
}

// Gate is the authentication state of one visitor. It changes only through
// Login and Logout; everything else reads Snapshot.
type Gate struct {
	provider IdentityProvider

	mu            sync.RWMutex
	authenticated bool
	profile       *models.MemberProfile
	generation    uint64 // Bumped by Logout; a login started under an older generation is dropped
}

// NewGate creates an anonymous gate.
func NewGate(provider IdentityProvider) *Gate {
	return &Gate{provider: provider}
}

// Login runs the identity provider and, when it succeeds, marks the gate
// authenticated. A Logout issued while the provider is running wins.
func (g *Gate) Login(ctx context.Context, creds Credentials) (State, error) {
	g.mu.RLock()
	started := g.generation
	g.mu.RUnlock()

	profile, err := g.provider.Authenticate(ctx, creds)
	if err != nil {
		return g.Snapshot(), err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.generation != started {
		zap.L().Named("Session").Info("Dropping login that finished after logout", zap.String("member_id", profile.MemberID))
		return g.snapshotLocked(), ErrLoginSuperseded
	}
	g.authenticated = true
	g.profile = profile
	return g.snapshotLocked(), nil
}

// Logout clears the gate before returning.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.generation++
	g.authenticated = false
	g.profile = nil
}

// Snapshot returns the current state. The profile is a copy.
func (g *Gate) Snapshot() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshotLocked()
}

func (g *Gate) snapshotLocked() State {
	if !g.authenticated {
		return State{}
	}
	profile := *g.profile
	return State{Authenticated: true, Profile: &profile}
}
