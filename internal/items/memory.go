package items

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/google/uuid"
)

// MemoryRepository is an in-memory implementation for scaffolding and tests.
// RunInTx serialises callers behind one lock, which gives the same
// observable behaviour as a serializable storage transaction.
type MemoryRepository struct {
	mu        sync.RWMutex
	items     map[uuid.UUID]*Item
	slugIndex map[string]uuid.UUID
	links     map[uuid.UUID][]*classification.Classification
}

// NewMemoryRepository creates an empty in-memory item repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:     make(map[uuid.UUID]*Item),
		slugIndex: make(map[string]uuid.UUID),
		links:     make(map[uuid.UUID][]*classification.Classification),
	}
}

// Put seeds an item record without Create side effects.
func (m *MemoryRepository) Put(record *Item) {
	if record == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := cloneItem(record)
	m.items[copied.ID] = copied
	if copied.Slug != "" {
		m.slugIndex[copied.Slug] = copied.ID
	}
}

// SetClassifications seeds classification links for an item.
func (m *MemoryRepository) SetClassifications(itemID uuid.UUID, records ...*classification.Classification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setClassificationsLocked(itemID, records)
}

// Create inserts the supplied item.
func (m *MemoryRepository) Create(_ context.Context, record *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(record)
}

// GetByID retrieves an item by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(id)
}

// GetBySlug retrieves an item by slug.
func (m *MemoryRepository) GetBySlug(_ context.Context, slug string) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "item", Key: slug}
	}
	return cloneItem(m.items[id]), nil
}

// Update replaces the stored item.
func (m *MemoryRepository) Update(_ context.Context, record *Item) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(record)
}

// List returns items matching the supplied options.
func (m *MemoryRepository) List(_ context.Context, opts ListOptions) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(opts)
}

// ListTranslations returns every translation pointing at the parent.
func (m *MemoryRepository) ListTranslations(_ context.Context, parentID uuid.UUID) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listTranslationsLocked(parentID)
}

// ListClassifications returns the classifications linked to an item.
func (m *MemoryRepository) ListClassifications(_ context.Context, itemID uuid.UUID) ([]*classification.Classification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listClassificationsLocked(itemID)
}

// ReplaceClassifications swaps the item's classification links.
func (m *MemoryRepository) ReplaceClassifications(_ context.Context, itemID uuid.UUID, records []*classification.Classification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setClassificationsLocked(itemID, records)
	return nil
}

// RunInTx executes fn under the repository lock. The callback receives a
// view that reuses the already-held lock, so every read inside fn observes
// writes made earlier in the same callback.
func (m *MemoryRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshotLocked()
	if err := fn(ctx, &memoryTxView{repo: m}); err != nil {
		m.restoreLocked(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	items     map[uuid.UUID]*Item
	slugIndex map[string]uuid.UUID
	links     map[uuid.UUID][]*classification.Classification
}

func (m *MemoryRepository) snapshotLocked() memorySnapshot {
	snap := memorySnapshot{
		items:     make(map[uuid.UUID]*Item, len(m.items)),
		slugIndex: make(map[string]uuid.UUID, len(m.slugIndex)),
		links:     make(map[uuid.UUID][]*classification.Classification, len(m.links)),
	}
	for id, record := range m.items {
		snap.items[id] = cloneItem(record)
	}
	for slug, id := range m.slugIndex {
		snap.slugIndex[slug] = id
	}
	for id, records := range m.links {
		snap.links[id] = cloneClassifications(records)
	}
	return snap
}

func (m *MemoryRepository) restoreLocked(snap memorySnapshot) {
	m.items = snap.items
	m.slugIndex = snap.slugIndex
	m.links = snap.links
}

// memoryTxView proxies repository calls to the locked parent so transaction
// callbacks do not deadlock on re-entry.
type memoryTxView struct {
	repo *MemoryRepository
}

func (v *memoryTxView) Create(_ context.Context, record *Item) (*Item, error) {
	return v.repo.createLocked(record)
}

func (v *memoryTxView) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	return v.repo.getLocked(id)
}

func (v *memoryTxView) GetBySlug(_ context.Context, slug string) (*Item, error) {
	id, ok := v.repo.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "item", Key: slug}
	}
	return cloneItem(v.repo.items[id]), nil
}

func (v *memoryTxView) Update(_ context.Context, record *Item) (*Item, error) {
	return v.repo.updateLocked(record)
}

func (v *memoryTxView) List(_ context.Context, opts ListOptions) ([]*Item, error) {
	return v.repo.listLocked(opts)
}

func (v *memoryTxView) ListTranslations(_ context.Context, parentID uuid.UUID) ([]*Item, error) {
	return v.repo.listTranslationsLocked(parentID)
}

func (v *memoryTxView) ListClassifications(_ context.Context, itemID uuid.UUID) ([]*classification.Classification, error) {
	return v.repo.listClassificationsLocked(itemID)
}

func (v *memoryTxView) ReplaceClassifications(_ context.Context, itemID uuid.UUID, records []*classification.Classification) error {
	v.repo.setClassificationsLocked(itemID, records)
	return nil
}

func (v *memoryTxView) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	// Already inside the lock; nested transactions flatten.
	return fn(ctx, v)
}

func (m *MemoryRepository) createLocked(record *Item) (*Item, error) {
	copied := cloneItem(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.items[copied.ID] = copied
	if copied.Slug != "" {
		m.slugIndex[copied.Slug] = copied.ID
	}
	return cloneItem(copied), nil
}

func (m *MemoryRepository) getLocked(id uuid.UUID) (*Item, error) {
	record, ok := m.items[id]
	if !ok {
		return nil, &NotFoundError{Resource: "item", Key: id.String()}
	}
	return cloneItem(record), nil
}

func (m *MemoryRepository) updateLocked(record *Item) (*Item, error) {
	existing, ok := m.items[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "item", Key: record.ID.String()}
	}
	if existing.Slug != record.Slug {
		delete(m.slugIndex, existing.Slug)
		if record.Slug != "" {
			m.slugIndex[record.Slug] = record.ID
		}
	}
	copied := cloneItem(record)
	m.items[copied.ID] = copied
	return cloneItem(copied), nil
}

func (m *MemoryRepository) listLocked(opts ListOptions) ([]*Item, error) {
	out := make([]*Item, 0, len(m.items))
	for _, record := range m.items {
		if opts.Stage != "" && record.Stage != opts.Stage {
			continue
		}
		if opts.AuthorID != uuid.Nil && record.AuthorID != opts.AuthorID {
			continue
		}
		if opts.Visibility != nil && !m.visibleLocked(record, opts.Visibility) {
			continue
		}
		out = append(out, cloneItem(record))
	}

	if opts.OrderByPublishedDesc {
		sort.Slice(out, func(i, j int) bool {
			left, right := out[i].PublishedAt, out[j].PublishedAt
			switch {
			case left == nil:
				return false
			case right == nil:
				return true
			default:
				return left.After(*right)
			}
		})
	} else {
		sort.Slice(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []*Item{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *MemoryRepository) visibleLocked(record *Item, vis *VisibilityOptions) bool {
	if record.Stage != domain.StagePublished {
		return false
	}
	if record.CategoryID != nil {
		for _, blocked := range vis.BlockedCategoryIDs {
			if *record.CategoryID == blocked {
				return false
			}
		}
	}
	linked := make(map[uuid.UUID]struct{})
	for _, cl := range m.links[record.ID] {
		linked[cl.ID] = struct{}{}
	}
	return containsAny(linked, vis.LanguageIDs) && containsAny(linked, vis.ReligionIDs)
}

func containsAny(linked map[uuid.UUID]struct{}, wanted []uuid.UUID) bool {
	for _, id := range wanted {
		if _, ok := linked[id]; ok {
			return true
		}
	}
	return false
}

func (m *MemoryRepository) listTranslationsLocked(parentID uuid.UUID) ([]*Item, error) {
	out := make([]*Item, 0)
	for _, record := range m.items {
		if record.IsTranslation && record.OriginalItemID != nil && *record.OriginalItemID == parentID {
			out = append(out, cloneItem(record))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) listClassificationsLocked(itemID uuid.UUID) ([]*classification.Classification, error) {
	return cloneClassifications(m.links[itemID]), nil
}

func (m *MemoryRepository) setClassificationsLocked(itemID uuid.UUID, records []*classification.Classification) {
	m.links[itemID] = cloneClassifications(records)
}

func cloneItem(src *Item) *Item {
	if src == nil {
		return nil
	}
	copied := *src
	if src.AssignedReviewerID != nil {
		v := *src.AssignedReviewerID
		copied.AssignedReviewerID = &v
	}
	if src.AssignedApproverID != nil {
		v := *src.AssignedApproverID
		copied.AssignedApproverID = &v
	}
	if src.CategoryID != nil {
		v := *src.CategoryID
		copied.CategoryID = &v
	}
	if src.OriginalItemID != nil {
		v := *src.OriginalItemID
		copied.OriginalItemID = &v
	}
	if src.PublishedAt != nil {
		v := *src.PublishedAt
		copied.PublishedAt = &v
	}
	if src.PublishedBy != nil {
		v := *src.PublishedBy
		copied.PublishedBy = &v
	}
	return &copied
}

func cloneClassifications(src []*classification.Classification) []*classification.Classification {
	if src == nil {
		return nil
	}
	out := make([]*classification.Classification, 0, len(src))
	for _, record := range src {
		if record == nil {
			continue
		}
		copied := *record
		out = append(out, &copied)
	}
	return out
}

// MemoryCategoryRepository is an in-memory category lookup for tests.
type MemoryCategoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Category
}

// NewMemoryCategoryRepository creates an empty in-memory category repository.
func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{records: make(map[uuid.UUID]*Category)}
}

// Put seeds a category record.
func (m *MemoryCategoryRepository) Put(record *Category) {
	if record == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.records[record.ID] = &copied
}

// GetByID retrieves a category by identifier.
func (m *MemoryCategoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "category", Key: id.String()}
	}
	copied := *record
	return &copied, nil
}
