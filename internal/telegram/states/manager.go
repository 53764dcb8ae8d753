package states

import "sync"

// Manager keeps the per-caller pending actions in memory. Entries are
// ephemeral: created on protocol selection, destroyed on flow completion or
// replacement. Each caller maps to an independent slot; concurrent events
// from different callers never observe each other's entry.
type Manager struct {
	mu      sync.RWMutex
	pending map[int64]Pending
}

func NewManager() *Manager {
	return &Manager{
		pending: make(map[int64]Pending),
	}
}

// Get returns the caller's pending action, if any.
func (m *Manager) Get(chatID int64) (Pending, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.pending[chatID]
	return p, ok
}

// GetState returns just the state tag, StateNone when idle.
func (m *Manager) GetState(chatID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.pending[chatID]
	if !ok {
		return StateNone
	}
	return p.State
}

// Set fully replaces any existing entry for the caller.
func (m *Manager) Set(chatID int64, p Pending) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending[chatID] = p
}

// Clear returns the caller to idle.
func (m *Manager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.pending, chatID)
}
