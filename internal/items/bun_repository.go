package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var itemColumns = []string{
	"slug",
	"title",
	"body",
	"stage",
	"status",
	"language",
	"author_id",
	"assigned_reviewer_id",
	"assigned_approver_id",
	"category_id",
	"is_translation",
	"original_item_id",
	"published_at",
	"published_by",
	"updated_at",
}

// BunRepository is the SQL-backed item repository. Multi-row effects (a
// stage mutation plus its cascade) run through RunInTx so they commit or
// roll back as one unit.
type BunRepository struct {
	// db is nil on transaction-scoped views; idb is always usable.
	db  *bun.DB
	idb bun.IDB
}

// NewBunRepository constructs the item repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db, idb: db}
}

// Create inserts the supplied item.
func (r *BunRepository) Create(ctx context.Context, record *Item) (*Item, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if _, err := r.idb.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, fmt.Errorf("item repository error: %w", err)
	}
	return record, nil
}

// GetByID retrieves an item with its category and classification links.
func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	record := &Item{}
	err := r.idb.NewSelect().
		Model(record).
		Relation("Category").
		Relation("Classifications").
		Relation("Classifications.Classification").
		Where("it.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, mapItemError(err, id.String())
	}
	return record, nil
}

// GetBySlug retrieves an item by slug.
func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*Item, error) {
	record := &Item{}
	err := r.idb.NewSelect().
		Model(record).
		Relation("Category").
		Where("it.slug = ?", slug).
		Scan(ctx)
	if err != nil {
		return nil, mapItemError(err, slug)
	}
	return record, nil
}

// Update writes the mutable item columns.
func (r *BunRepository) Update(ctx context.Context, record *Item) (*Item, error) {
	record.UpdatedAt = time.Now().UTC()
	res, err := r.idb.NewUpdate().
		Model(record).
		Column(itemColumns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("item repository error: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, &NotFoundError{Resource: "item", Key: record.ID.String()}
	}
	return record, nil
}

// List returns items matching the supplied options.
func (r *BunRepository) List(ctx context.Context, opts ListOptions) ([]*Item, error) {
	var records []*Item
	q := r.idb.NewSelect().Model(&records)

	if opts.Stage != "" {
		q = q.Where("it.stage = ?", string(opts.Stage))
	}
	if opts.AuthorID != uuid.Nil {
		q = q.Where("it.author_id = ?", opts.AuthorID)
	}
	if vis := opts.Visibility; vis != nil {
		q = applyVisibility(q, vis)
	}
	if opts.OrderByPublishedDesc {
		q = q.Order("it.published_at DESC")
	} else {
		q = q.Order("it.created_at ASC")
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("item repository error: %w", err)
	}
	return records, nil
}

// applyVisibility encodes the station predicate: published stage, category
// not blocked, and one EXISTS clause per required classification kind. Both
// clauses must hold; matching on language alone excludes the item.
func applyVisibility(q *bun.SelectQuery, vis *VisibilityOptions) *bun.SelectQuery {
	q = q.Where("it.stage = ?", "published")

	if len(vis.BlockedCategoryIDs) > 0 {
		q = q.Where("(it.category_id IS NULL OR it.category_id NOT IN (?))", bun.In(vis.BlockedCategoryIDs))
	}

	q = q.Where(
		"EXISTS (SELECT 1 FROM item_classifications lic WHERE lic.item_id = it.id AND lic.classification_id IN (?))",
		bun.In(idsOrImpossible(vis.LanguageIDs)),
	)
	q = q.Where(
		"EXISTS (SELECT 1 FROM item_classifications ric WHERE ric.item_id = it.id AND ric.classification_id IN (?))",
		bun.In(idsOrImpossible(vis.ReligionIDs)),
	)
	return q
}

// idsOrImpossible keeps the IN clause syntactically valid when a station's
// allow-list resolved to nothing; the nil UUID never matches a real link.
func idsOrImpossible(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return []uuid.UUID{uuid.Nil}
	}
	return ids
}

// ListTranslations returns every translation pointing at the parent.
func (r *BunRepository) ListTranslations(ctx context.Context, parentID uuid.UUID) ([]*Item, error) {
	var records []*Item
	err := r.idb.NewSelect().
		Model(&records).
		Where("it.is_translation = ?", true).
		Where("it.original_item_id = ?", parentID).
		Order("it.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("item repository error: %w", err)
	}
	return records, nil
}

// ListClassifications returns the classifications linked to an item.
func (r *BunRepository) ListClassifications(ctx context.Context, itemID uuid.UUID) ([]*classification.Classification, error) {
	var records []*classification.Classification
	err := r.idb.NewSelect().
		Model(&records).
		Join("JOIN item_classifications AS icl ON icl.classification_id = cl.id").
		Where("icl.item_id = ?", itemID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("item repository error: %w", err)
	}
	return records, nil
}

// ReplaceClassifications swaps the item's classification links.
func (r *BunRepository) ReplaceClassifications(ctx context.Context, itemID uuid.UUID, records []*classification.Classification) error {
	if _, err := r.idb.NewDelete().
		Model((*ItemClassification)(nil)).
		Where("item_id = ?", itemID).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete item classifications: %w", err)
	}

	if len(records) == 0 {
		return nil
	}

	now := time.Now().UTC()
	links := make([]*ItemClassification, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		links = append(links, &ItemClassification{
			ID:               uuid.New(),
			ItemID:           itemID,
			ClassificationID: record.ID,
			CreatedAt:        now,
		})
	}
	if _, err := r.idb.NewInsert().Model(&links).Exec(ctx); err != nil {
		return fmt.Errorf("insert item classifications: %w", err)
	}
	return nil
}

// RunInTx executes fn against a transaction-scoped repository view. Nested
// calls flatten onto the outer transaction.
func (r *BunRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	if r.db == nil {
		return fn(ctx, r)
	}
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	return r.db.RunInTx(ctx, opts, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &BunRepository{idb: tx})
	})
}

// BunCategoryRepository resolves categories via go-repository-bun.
type BunCategoryRepository struct {
	repo repository.Repository[*Category]
}

// NewBunCategoryRepository constructs the category lookup repository.
func NewBunCategoryRepository(db *bun.DB) *BunCategoryRepository {
	return &BunCategoryRepository{
		repo: repository.MustNewRepository(db, repository.ModelHandlers[*Category]{
			NewRecord: func() *Category { return &Category{} },
			GetID: func(c *Category) uuid.UUID {
				return c.ID
			},
			SetID: func(c *Category, id uuid.UUID) {
				c.ID = id
			},
			GetIdentifier: func() string {
				return "name"
			},
			GetIdentifierValue: func(c *Category) string {
				return c.Name
			},
		}),
	}
}

// GetByID retrieves a category by identifier.
func (r *BunCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{Resource: "category", Key: id.String()}
		}
		return nil, fmt.Errorf("category repository error: %w", err)
	}
	return result, nil
}

func mapItemError(err error, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: "item", Key: key}
	}
	return fmt.Errorf("item repository error: %w", err)
}
