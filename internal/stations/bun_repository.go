package stations

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func newStationRepository(db *bun.DB) repository.Repository[*Station] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Station]{
		NewRecord: func() *Station { return &Station{} },
		GetID: func(s *Station) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Station, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(s *Station) string {
			return s.Slug
		},
	})
}

// BunRepository is the SQL-backed station repository.
type BunRepository struct {
	repo repository.Repository[*Station]
}

// NewBunRepository constructs a station repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a station repository with an optional
// read-through cache. Station rows are read on every feed request and change
// rarely.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := newStationRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunRepository{repo: base}
}

// GetByID retrieves a station by identifier.
func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Station, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return result, nil
}

// GetBySlug retrieves a station by slug.
func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*Station, error) {
	result, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return result, nil
}

// ListActive returns every active station.
func (r *BunRepository) ListActive(ctx context.Context) ([]*Station, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.is_active = ?", true).
				Order("st.name ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("station repository error: %w", err)
	}
	return records, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: "station",
			Key:      key,
		}
	}
	return fmt.Errorf("station repository error: %w", err)
}
