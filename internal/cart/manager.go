package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager owns every session-scoped cart. Carts are created empty on
// first touch and evicted in-memory after sitting idle for the session
// TTL; nothing survives the process, by contract.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[uuid.UUID]*session

	stop chan struct{}
	done chan struct{}
}

type session struct {
	store    *Store
	lastSeen time.Time
}

// NewManager builds a cart manager. When sweepInterval is positive a
// janitor goroutine evicts idle sessions until Close is called.
func NewManager(ttl, sweepInterval time.Duration) *Manager {
	m := &Manager{
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*session),
	}
	if sweepInterval > 0 {
		m.stop = make(chan struct{})
		m.done = make(chan struct{})
		go m.janitor(sweepInterval)
	}
	return m
}

// Get returns the cart for the session, creating an empty one on first
// touch, and refreshes the session's idle clock.
func (m *Manager) Get(sessionID uuid.UUID) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[sessionID]
	if !ok {
		entry = &session{store: NewStore()}
		m.sessions[sessionID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.store
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle past the TTL and reports how many were
// dropped. A non-positive TTL disables eviction.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, entry := range m.sessions {
		if now.Sub(entry.lastSeen) > m.ttl {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Close stops the janitor, if one is running.
func (m *Manager) Close() error {
	if m.stop == nil {
		return nil
	}
	close(m.stop)
	<-m.done
	m.stop = nil
	return nil
}

func (m *Manager) janitor(interval time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Sweep(time.Now())
		case <-m.stop:
			return
		}
	}
}
