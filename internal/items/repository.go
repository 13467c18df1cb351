package items

import (
	"context"
	"fmt"

	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/google/uuid"
)

// NotFoundError reports a missing item entity.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// Repository abstracts storage for items and their classification links.
//
// RunInTx is the engine's atomicity boundary: a stage mutation plus its
// cascade always executes against the transactional repository handed to the
// callback, so a failed cascade rolls back the triggering mutation too.
type Repository interface {
	Create(ctx context.Context, record *Item) (*Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	GetBySlug(ctx context.Context, slug string) (*Item, error)
	Update(ctx context.Context, record *Item) (*Item, error)
	List(ctx context.Context, opts ListOptions) ([]*Item, error)

	// ListTranslations derives the reverse side of the translation foreign
	// key: every item whose original_item_id points at the supplied parent.
	ListTranslations(ctx context.Context, parentID uuid.UUID) ([]*Item, error)

	ListClassifications(ctx context.Context, itemID uuid.UUID) ([]*classification.Classification, error)
	ReplaceClassifications(ctx context.Context, itemID uuid.UUID, records []*classification.Classification) error

	// RunInTx executes fn against a repository view scoped to a single
	// storage transaction. Reads inside fn observe the transaction, so
	// sibling-completeness checks cannot act on a stale snapshot.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error
}

// CategoryRepository resolves categories.
type CategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
}
