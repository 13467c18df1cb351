package classification

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Classification
}

// NewMemoryRepository creates an empty in-memory classification repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[uuid.UUID]*Classification),
	}
}

// Put seeds a classification record.
func (m *MemoryRepository) Put(record *Classification) {
	if record == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.records[record.ID] = &copied
}

// GetByID retrieves a classification by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Classification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "classification", Key: id.String()}
	}
	copied := *record
	return &copied, nil
}

// ListActiveByKind returns active classifications of the supplied kind.
func (m *MemoryRepository) ListActiveByKind(_ context.Context, kind Kind) ([]*Classification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Classification, 0)
	for _, record := range m.records {
		if record.Kind != kind || !record.IsActive {
			continue
		}
		copied := *record
		out = append(out, &copied)
	}
	return out, nil
}

// ListByIDs returns the classifications matching the supplied identifiers.
// Unknown identifiers are skipped.
func (m *MemoryRepository) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*Classification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Classification, 0, len(ids))
	for _, id := range ids {
		if record, ok := m.records[id]; ok {
			copied := *record
			out = append(out, &copied)
		}
	}
	return out, nil
}
