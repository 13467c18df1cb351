package stations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError reports a missing station entity.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// Repository abstracts storage for stations.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Station, error)
	GetBySlug(ctx context.Context, slug string) (*Station, error)
	ListActive(ctx context.Context) ([]*Station, error)
}
