package session

import (
	"context"
	"sync"
	"time"

	"github.com/strainnet/portal/backend/internal/util"
	"github.com/strainnet/portal/backend/pkg/logger"
	"github.com/strainnet/portal/backend/pkg/network"
)

// Session is one user's network view: a controller holding the focused
// node, expansion state and query parameters. Sessions are addressed by a
// nanoid and expire after a period of inactivity.
type Session struct {
	ID         string
	UserID     int64
	Controller *network.ViewController

	createdAt time.Time
	lastUsed  time.Time
}

// Manager is the in-memory session registry. All access goes through the
// manager lock; the controllers themselves carry their own lock for state
// transitions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewManager creates a registry whose sessions expire after ttl of
// inactivity. A non-positive ttl defaults to 30 minutes.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create registers a new session for the user and returns it.
func (m *Manager) Create(userID int64, controller *network.ViewController) (*Session, error) {
	id, err := util.NewSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := &Session{
		ID:         id,
		UserID:     userID,
		Controller: controller,
		createdAt:  now,
		lastUsed:   now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s
	return s, nil
}

// Get returns the session and refreshes its inactivity timer.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastUsed = time.Now()
	return s, true
}

// Delete removes a session. Removing an unknown ID is a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep runs until the context is done, dropping sessions that have been
// idle longer than the TTL.
func (m *Manager) Sweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired := m.expire(time.Now())
			if expired > 0 {
				logger.Debug("[Session] Expired idle sessions", "count", expired)
			}
		}
	}
}

func (m *Manager) expire(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	expired := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastUsed) > m.ttl {
			delete(m.sessions, id)
			expired++
		}
	}
	return expired
}
