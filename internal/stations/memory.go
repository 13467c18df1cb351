package stations

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*Station
	slugIndex map[string]uuid.UUID
}

// NewMemoryRepository creates an empty in-memory station repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:   make(map[uuid.UUID]*Station),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Put seeds a station record.
func (m *MemoryRepository) Put(record *Station) {
	if record == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneStation(record)
	m.records[record.ID] = copied
	if record.Slug != "" {
		m.slugIndex[record.Slug] = record.ID
	}
}

// GetByID retrieves a station by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "station", Key: id.String()}
	}
	return cloneStation(record), nil
}

// GetBySlug retrieves a station by slug.
func (m *MemoryRepository) GetBySlug(_ context.Context, slug string) (*Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "station", Key: slug}
	}
	return cloneStation(m.records[id]), nil
}

// ListActive returns every active station.
func (m *MemoryRepository) ListActive(_ context.Context) ([]*Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Station, 0, len(m.records))
	for _, record := range m.records {
		if !record.IsActive {
			continue
		}
		out = append(out, cloneStation(record))
	}
	return out, nil
}

func cloneStation(src *Station) *Station {
	copied := *src
	copied.AllowedLanguageNames = append([]string(nil), src.AllowedLanguageNames...)
	copied.AllowedReligionNames = append([]string(nil), src.AllowedReligionNames...)
	copied.BlockedCategoryIDs = append([]uuid.UUID(nil), src.BlockedCategoryIDs...)
	return &copied
}
