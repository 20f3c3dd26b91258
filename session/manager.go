package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type entry struct {
	gate     *Gate
	lastSeen time.Time
}

// Manager maps session ids to gates, one per visitor. It is the only
// process-wide session state.
type Manager struct {
	provider IdentityProvider
	maxAge   time.Duration
	now      func() time.Time
	log      *zap.Logger

	mu    sync.Mutex
	gates map[string]*entry
}

// NewManager creates a Manager whose gates expire after maxAge of inactivity.
func NewManager(provider IdentityProvider, maxAge time.Duration) *Manager {
	return &Manager{
		provider: provider,
		maxAge:   maxAge,
		now:      time.Now,
		log:      zap.L().Named("SessionManager"),
		gates:    make(map[string]*entry),
	}
}

// Lookup returns the live gate for id and marks it as used.
func (m *Manager) Lookup(id string) (*Gate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookupLocked(id)
}

func (m *Manager) lookupLocked(id string) (*Gate, bool) {
	e, ok := m.gates[id]
	if !ok {
		return nil, false
	}
	now := m.now()
	if now.Sub(e.lastSeen) > m.maxAge {
		delete(m.gates, id)
		return nil, false
	}
	e.lastSeen = now
	return e.gate, true
}

// Open returns the gate for id, or a fresh anonymous gate under a new id when
// id is unknown or expired. The returned id is the one to send back.
func (m *Manager) Open(id string) (string, *Gate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != "" {
		if g, ok := m.lookupLocked(id); ok {
			return id, g
		}
	}
	id = uuid.NewString()
	g := NewGate(m.provider)
	m.gates[id] = &entry{gate: g, lastSeen: m.now()}
	m.log.Debug("Opened session", zap.String("session_id", id))
	return id, g
}

// Rotate moves the gate stored under id to a freshly generated id and forgets
// the old one. It reports false when id is unknown or expired.
func (m *Manager) Rotate(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lookupLocked(id); !ok {
		return "", false
	}
	e := m.gates[id]
	delete(m.gates, id)
	next := uuid.NewString()
	m.gates[next] = e
	m.log.Debug("Rotated session id")
	return next, true
}

// Sweep drops expired gates and reports how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, e := range m.gates {
		if now.Sub(e.lastSeen) > m.maxAge {
			delete(m.gates, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Info("Swept expired sessions", zap.Int("removed", removed), zap.Int("remaining", len(m.gates)))
	}
	return removed
}

// Len reports the number of tracked sessions, expired or not.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.gates)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
