package ws

import "sync"

// broadcaster is the send surface Manager needs from a connection.
type broadcaster interface {
	Send(msg []byte)
}

// Manager tracks dashboard subscribers per boat and fans messages out to them.
type Manager struct {
	mu          sync.RWMutex
	subscribers map[string]map[broadcaster]struct{}
}

// NewManager builds subscriber manager.
func NewManager() *Manager {
	return &Manager{
		subscribers: make(map[string]map[broadcaster]struct{}),
	}
}

// Add registers a subscriber for a boat.
func (m *Manager) Add(boatID string, conn broadcaster) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscribers[boatID] == nil {
		m.subscribers[boatID] = make(map[broadcaster]struct{})
	}
	m.subscribers[boatID][conn] = struct{}{}
}

// Remove drops a subscriber.
func (m *Manager) Remove(boatID string, conn broadcaster) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.subscribers[boatID]
	delete(set, conn)
	if len(set) == 0 {
		delete(m.subscribers, boatID)
	}
}

// Broadcast sends a message to every subscriber of a boat.
func (m *Manager) Broadcast(boatID string, msg []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for conn := range m.subscribers[boatID] {
		conn.Send(msg)
	}
}

// SubscriberCount reports current subscribers for a boat.
func (m *Manager) SubscriberCount(boatID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers[boatID])
}
