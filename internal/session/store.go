package session

import (
	"context"
	"encoding/json"
	"sync"
)

// Store persists the single session record for one namespace. Load reports
// ok=false both when no record exists and when the stored content fails to
// decode; corruption is absorbed, never surfaced.
type Store interface {
	Load(ctx context.Context) (Session, bool, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the serialized record in memory. It round-trips through
// JSON like the durable backends so tests exercise the same encoding.
type MemoryStore struct {
	mu    sync.Mutex
	rec   []byte
	saves int
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(_ context.Context) (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return Session{}, false, nil
	}
	var s Session
	if err := json.Unmarshal(m.rec, &s); err != nil {
		return Session{}, false, nil
	}
	return s, true, nil
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	buf, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.rec = buf
	m.saves++
	m.mu.Unlock()
	return nil
}

// Saves reports how many times Save has been called. Test helper.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.rec = nil
	m.mu.Unlock()
	return nil
}

// Seed injects a raw record, bypassing Save's marshalling. Test helper for
// rehydration and corruption paths.
func (m *MemoryStore) Seed(raw []byte) {
	m.mu.Lock()
	m.rec = raw
	m.mu.Unlock()
}
