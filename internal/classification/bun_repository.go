package classification

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

func newClassificationRepository(db *bun.DB) repository.Repository[*Classification] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Classification]{
		NewRecord: func() *Classification { return &Classification{} },
		GetID: func(c *Classification) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Classification, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(c *Classification) string {
			return c.Name
		},
	})
}

// BunRepository is the SQL-backed classification repository.
type BunRepository struct {
	repo repository.Repository[*Classification]
}

// NewBunRepository constructs a classification repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a classification repository with an
// optional read-through cache. Classification rows are small, hot, and
// referentially stable, which makes them the main beneficiary of per-station
// allow-list resolution caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	base := newClassificationRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunRepository{repo: base}
}

// GetByID retrieves a classification by identifier.
func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Classification, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return result, nil
}

// ListActiveByKind returns active classifications of the supplied kind.
func (r *BunRepository) ListActiveByKind(ctx context.Context, kind Kind) ([]*Classification, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.kind = ?", string(kind)).
				Where("?TableAlias.is_active = ?", true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("classification repository error: %w", err)
	}
	return records, nil
}

// ListByIDs returns the classifications matching the supplied identifiers.
func (r *BunRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Classification, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id IN (?)", bun.In(ids))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("classification repository error: %w", err)
	}
	return records, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: "classification",
			Key:      key,
		}
	}
	return fmt.Errorf("classification repository error: %w", err)
}
