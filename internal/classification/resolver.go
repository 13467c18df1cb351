package classification

import (
	"context"
	"fmt"

	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	"github.com/google/uuid"
)

// NotFoundError reports a missing classification entity.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// Repository abstracts storage operations for classifications.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Classification, error)
	ListActiveByKind(ctx context.Context, kind Kind) ([]*Classification, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Classification, error)
}

// Resolver maps station-configured allow-list names onto canonical
// classification identifiers. Pure read; resolution results are safe to
// cache per station.
type Resolver interface {
	// ResolveNames matches names against active classifications of the given
	// kind. Matching is exact and case-sensitive; unmatched names are
	// silently dropped so a misconfigured station degrades to an empty feed
	// slice rather than a failed feed.
	ResolveNames(ctx context.Context, names []string, kind Kind) ([]uuid.UUID, error)
}

type resolver struct {
	store  Repository
	logger interfaces.Logger
}

// ResolverOption configures the resolver.
type ResolverOption func(*resolver)

// WithLogger wires the module logger used for resolution diagnostics.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a Resolver backed by the supplied repository.
func NewResolver(store Repository, opts ...ResolverOption) Resolver {
	r := &resolver{
		store:  store,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *resolver) ResolveNames(ctx context.Context, names []string, kind Kind) ([]uuid.UUID, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if !kind.Known() {
		return nil, fmt.Errorf("classification: unknown kind %q", kind)
	}

	active, err := r.store.ListActiveByKind(ctx, kind)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]uuid.UUID, len(active))
	for _, record := range active {
		byName[record.Name] = record.ID
	}

	resolved := make([]uuid.UUID, 0, len(names))
	seen := make(map[uuid.UUID]struct{}, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			r.logger.Debug("classification.resolve.unmatched", "kind", string(kind), "name", name)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		resolved = append(resolved, id)
	}
	return resolved, nil
}
