package game

import "sync"

// MemoryHistoryStore is the default in-process history store.
type MemoryHistoryStore struct {
	lock    sync.Mutex
	entries map[string][]ActionLogEntry
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{
		entries: make(map[string][]ActionLogEntry),
	}
}

func (m *MemoryHistoryStore) Append(gameCode string, entry ActionLogEntry) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.entries[gameCode] = append(m.entries[gameCode], entry)
	return nil
}

func (m *MemoryHistoryStore) Load(gameCode string) ([]ActionLogEntry, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	stored := m.entries[gameCode]
	out := make([]ActionLogEntry, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *MemoryHistoryStore) Remove(gameCode string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.entries, gameCode)
	return nil
}
