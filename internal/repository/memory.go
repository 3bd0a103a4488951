package repository

import (
	"context"
	"sync"

	"github.com/maxviazov/orgs-directory-service/internal/model"
)

// MemoryStore keeps the document in process memory. Handy for tests and the seed command's dry runs.
type MemoryStore struct {
	mu     sync.Mutex
	doc    model.Document
	writes int
	// FailSave, when set, is returned by Save instead of storing anything.
	FailSave error
}

// NewMemoryStore starts from a copy of doc.
func NewMemoryStore(doc model.Document) *MemoryStore {
	return &MemoryStore{doc: doc.Clone()}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Load(ctx context.Context) (model.Document, error) {
	if err := ctx.Err(); err != nil {
		return model.Document{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, doc model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.doc = doc.Clone()
	m.writes++
	return nil
}

// Writes reports how many successful saves happened.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

var _ DocumentStore = (*MemoryStore)(nil)
