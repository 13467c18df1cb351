package items

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/internal/identity"
	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/pkg/activity"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Service exposes item lifecycle use-cases outside the transition engine:
// authors create drafts here; every stage change afterwards goes through the
// workflow engine.
type Service interface {
	Create(ctx context.Context, req CreateItemRequest) (*Item, error)
	Get(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, opts ListOptions) ([]*Item, error)
	Translations(ctx context.Context, parentID uuid.UUID) ([]*Item, error)
}

// CreateItemRequest captures the information required to start a draft.
type CreateItemRequest struct {
	Title             string
	Slug              string
	Body              string
	Language          string
	Author            identity.Actor
	CategoryID        *uuid.UUID
	ClassificationIDs []uuid.UUID
}

var (
	ErrTitleRequired    = errors.New("items: title is required")
	ErrLanguageRequired = errors.New("items: language is required")
	ErrAuthorRequired   = errors.New("items: author is required")
	ErrSlugInvalid      = errors.New("items: slug contains invalid characters")
	ErrSlugExists       = errors.New("items: slug already exists")
)

type service struct {
	store           Repository
	categories      CategoryRepository
	classifications classification.Repository
	logger          interfaces.Logger
	activity        *activity.Emitter
	now             func() time.Time
}

// ServiceOption configures the item service.
type ServiceOption func(*service)

// WithClock overrides the time source (primarily for testing).
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger wires the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithActivityEmitter wires the activity emitter used for item events.
func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		if emitter != nil {
			s.activity = emitter
		}
	}
}

// NewService constructs the item service.
func NewService(store Repository, categories CategoryRepository, classifications classification.Repository, opts ...ServiceOption) Service {
	s := &service{
		store:           store,
		categories:      categories,
		classifications: classifications,
		logger:          logging.NoOp(),
		activity:        activity.NewEmitter(nil, activity.Config{}),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateItemRequest) (*Item, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Language) == "" {
		return nil, ErrLanguageRequired
	}
	if req.Author.ID == uuid.Nil {
		return nil, ErrAuthorRequired
	}

	slugValue, err := s.resolveSlug(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	var links []*classification.Classification
	if len(req.ClassificationIDs) > 0 {
		links, err = s.classifications.ListByIDs(ctx, req.ClassificationIDs)
		if err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	record := &Item{
		ID:         uuid.New(),
		Slug:       slugValue,
		Title:      strings.TrimSpace(req.Title),
		Body:       req.Body,
		Language:   strings.TrimSpace(req.Language),
		AuthorID:   req.Author.ID,
		CategoryID: req.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	record.SetStage(domain.StageDraft)

	created, err := s.store.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	if len(links) > 0 {
		if err := s.store.ReplaceClassifications(ctx, created.ID, links); err != nil {
			return nil, err
		}
	}

	s.logger.Info("items.create", "item_id", created.ID.String(), "slug", created.Slug)
	s.emitItemActivity(ctx, "create", created, req.Author)

	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.store.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Item, error) {
	return s.store.List(ctx, opts)
}

func (s *service) Translations(ctx context.Context, parentID uuid.UUID) ([]*Item, error) {
	return s.store.ListTranslations(ctx, parentID)
}

func (s *service) resolveSlug(ctx context.Context, req CreateItemRequest) (string, error) {
	candidate := strings.TrimSpace(req.Slug)
	if candidate == "" {
		candidate = req.Title
	}
	normalized, err := slug.Normalize(candidate)
	if err != nil || normalized == "" {
		return "", ErrSlugInvalid
	}

	if existing, err := s.store.GetBySlug(ctx, normalized); err == nil && existing != nil {
		return "", ErrSlugExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return "", err
		}
	}
	return normalized, nil
}

func (s *service) emitItemActivity(ctx context.Context, verb string, record *Item, actor identity.Actor) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	_ = s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor.ID.String(),
		ObjectType: "item",
		ObjectID:   record.ID.String(),
		Metadata: map[string]any{
			"slug":     record.Slug,
			"stage":    string(record.Stage),
			"language": record.Language,
		},
	})
}
