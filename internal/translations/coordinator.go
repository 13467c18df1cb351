package translations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/internal/identity"
	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/pkg/activity"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	slug "github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

var (
	ErrParentNotApproved   = errors.New("translations: parent must be approved before fan-out")
	ErrParentIsTranslation = errors.New("translations: cannot fan out a translation")
	ErrAlreadyFannedOut    = errors.New("translations: translations already exist for this item")
	ErrNoTargetLanguages   = errors.New("translations: at least one target language is required")
	ErrTranslationNotReady = errors.New("translations: translation is not ready to publish")
)

// FanOutTarget names one translation to create: the target language and the
// translator who will own the resulting draft.
type FanOutTarget struct {
	Language   string
	AssigneeID uuid.UUID
}

// FanOutRequest asks the coordinator to create one translation per target
// for an approved parent item.
type FanOutRequest struct {
	ParentID uuid.UUID
	Actor    identity.Actor
	Targets  []FanOutTarget
}

// Progress summarizes the translation state of a parent item.
type Progress struct {
	Total     int `json:"total"`
	Complete  int `json:"complete"`
	Published int `json:"published"`
}

// Coordinator owns the parent/translation lifecycle coupling: fan-out on
// approval, parent advancement when the last sibling completes, and the
// publication cascade. The completion and cascade callbacks run inside the
// transition engine's storage transaction.
type Coordinator struct {
	store           items.Repository
	classifications classification.Repository
	logger          interfaces.Logger
	activity        *activity.Emitter
	strictPublish   bool
	now             func() time.Time
}

// Option configures the coordinator.
type Option func(*Coordinator)

// WithLogger wires the module logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source (primarily for testing).
func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithActivityEmitter wires the emitter used for fan-out events.
func WithActivityEmitter(emitter *activity.Emitter) Option {
	return func(c *Coordinator) {
		if emitter != nil {
			c.activity = emitter
		}
	}
}

// WithStrictPublishCascade makes the publication cascade refuse parents whose
// translations are not all in the translated stage. The default cascade is
// unconditional: it publishes every translation regardless of stage.
func WithStrictPublishCascade(strict bool) Option {
	return func(c *Coordinator) {
		c.strictPublish = strict
	}
}

// NewCoordinator constructs a coordinator over the supplied stores.
func NewCoordinator(store items.Repository, classifications classification.Repository, opts ...Option) *Coordinator {
	coordinator := &Coordinator{
		store:           store,
		classifications: classifications,
		logger:          logging.NoOp(),
		activity:        activity.NewEmitter(nil, activity.Config{}),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(coordinator)
	}
	return coordinator
}

// FanOut creates one draft translation per target language. The parent must
// be approved and must not have translations yet; all translations are
// created in a single transaction. Each translation copies the parent's
// title, body, category and non-language classifications, and swaps the
// language classification for the target language when one resolves.
func (c *Coordinator) FanOut(ctx context.Context, req FanOutRequest) ([]*items.Item, error) {
	if req.ParentID == uuid.Nil {
		return nil, &items.NotFoundError{Resource: "item", Key: uuid.Nil.String()}
	}
	if !req.Actor.Valid() {
		return nil, errors.New("translations: actor is required")
	}

	targets := dedupeTargets(req.Targets)
	if len(targets) == 0 {
		return nil, ErrNoTargetLanguages
	}

	languageOptions, err := c.classifications.ListActiveByKind(ctx, classification.KindLanguage)
	if err != nil {
		return nil, err
	}

	now := c.now().UTC()
	var created []*items.Item

	err = c.store.RunInTx(ctx, func(ctx context.Context, tx items.Repository) error {
		parent, err := tx.GetByID(ctx, req.ParentID)
		if err != nil {
			return err
		}
		if parent.IsTranslation {
			return ErrParentIsTranslation
		}
		if parent.Stage != domain.StageApproved {
			return fmt.Errorf("%w: stage is %q", ErrParentNotApproved, parent.Stage)
		}

		existing, err := tx.ListTranslations(ctx, parent.ID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrAlreadyFannedOut
		}

		parentLinks, err := tx.ListClassifications(ctx, parent.ID)
		if err != nil {
			return err
		}

		for _, target := range targets {
			if strings.EqualFold(target.Language, parent.Language) {
				continue
			}
			translation, err := c.createTranslation(ctx, tx, parent, parentLinks, languageOptions, target, req.Actor, now)
			if err != nil {
				return err
			}
			created = append(created, translation)
		}
		if len(created) == 0 {
			return ErrNoTargetLanguages
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("translations.fanout",
		"parent_id", req.ParentID.String(),
		"count", len(created),
	)
	_ = c.activity.Emit(ctx, activity.Event{
		Verb:       "fanout",
		ActorID:    req.Actor.ID.String(),
		ObjectType: "item",
		ObjectID:   req.ParentID.String(),
		Metadata: map[string]any{
			"translations": len(created),
		},
		OccurredAt: now,
	})

	return created, nil
}

func (c *Coordinator) createTranslation(ctx context.Context, tx items.Repository, parent *items.Item, parentLinks []*classification.Classification, languageOptions []*classification.Classification, target FanOutTarget, actor identity.Actor, now time.Time) (*items.Item, error) {
	suffix, err := slug.Normalize(target.Language)
	if err != nil || suffix == "" {
		return nil, fmt.Errorf("translations: invalid target language %q", target.Language)
	}

	// The translator named in the target owns the new draft; without one
	// the requesting actor does.
	author := target.AssigneeID
	if author == uuid.Nil {
		author = actor.ID
	}

	record := &items.Item{
		ID:             uuid.New(),
		Slug:           parent.Slug + "-" + suffix,
		Title:          parent.Title,
		Body:           parent.Body,
		Language:       target.Language,
		AuthorID:       author,
		CategoryID:     parent.CategoryID,
		IsTranslation:  true,
		OriginalItemID: &parent.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	record.SetStage(domain.StageDraft)

	created, err := tx.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	links := translationLinks(parentLinks, languageOptions, target.Language)
	if len(links) > 0 {
		if err := tx.ReplaceClassifications(ctx, created.ID, links); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// translationLinks copies every non-language classification from the parent
// and swaps in the target language's classification when an active one
// matches the target name. No match means the translation starts without a
// language link and the approval gate holds it until one is assigned.
func translationLinks(parentLinks []*classification.Classification, languageOptions []*classification.Classification, language string) []*classification.Classification {
	var links []*classification.Classification
	for _, link := range parentLinks {
		if link.Kind == classification.KindLanguage {
			continue
		}
		links = append(links, link)
	}
	for _, option := range languageOptions {
		if strings.EqualFold(option.Name, language) {
			links = append(links, option)
			break
		}
	}
	return links
}

// TranslationApproved advances the parent to translated when the supplied
// translation's completion makes every sibling complete. It runs inside the
// engine's transaction against the transactional repository view.
func (c *Coordinator) TranslationApproved(ctx context.Context, tx items.Repository, translation *items.Item, now time.Time) (bool, error) {
	if translation.OriginalItemID == nil {
		return false, nil
	}

	parent, err := tx.GetByID(ctx, *translation.OriginalItemID)
	if err != nil {
		return false, err
	}
	if parent.Stage != domain.StageApproved {
		return false, nil
	}

	siblings, err := tx.ListTranslations(ctx, parent.ID)
	if err != nil {
		return false, err
	}
	for _, sibling := range siblings {
		if !domain.TranslationComplete(sibling.Stage) {
			return false, nil
		}
	}

	parent.SetStage(domain.StageTranslated)
	parent.UpdatedAt = now
	if _, err := tx.Update(ctx, parent); err != nil {
		return false, err
	}

	c.logger.Info("translations.parent_advanced",
		"parent_id", parent.ID.String(),
		"translation_id", translation.ID.String(),
	)
	return true, nil
}

// PublishCascade publishes every translation of a freshly published parent
// and reports how many it moved. In strict mode any translation outside the
// translated stage aborts the cascade, which rolls back the parent's
// publication too.
func (c *Coordinator) PublishCascade(ctx context.Context, tx items.Repository, parent *items.Item, publishedAt time.Time, publishedBy uuid.UUID) (int, error) {
	siblings, err := tx.ListTranslations(ctx, parent.ID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, sibling := range siblings {
		if sibling.Stage == domain.StagePublished {
			continue
		}
		if c.strictPublish && sibling.Stage != domain.StageTranslated {
			return 0, fmt.Errorf("%w: item %s is %q", ErrTranslationNotReady, sibling.ID, sibling.Stage)
		}
		sibling.SetStage(domain.StagePublished)
		at := publishedAt
		by := publishedBy
		sibling.PublishedAt = &at
		sibling.PublishedBy = &by
		sibling.UpdatedAt = publishedAt
		if _, err := tx.Update(ctx, sibling); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

// HasTranslations reports whether the parent has any translations.
func (c *Coordinator) HasTranslations(ctx context.Context, tx items.Repository, parentID uuid.UUID) (bool, error) {
	siblings, err := tx.ListTranslations(ctx, parentID)
	if err != nil {
		return false, err
	}
	return len(siblings) > 0, nil
}

// Progress summarizes translation completion for a parent item.
func (c *Coordinator) Progress(ctx context.Context, parentID uuid.UUID) (*Progress, error) {
	siblings, err := c.store.ListTranslations(ctx, parentID)
	if err != nil {
		return nil, err
	}
	progress := &Progress{Total: len(siblings)}
	for _, sibling := range siblings {
		if domain.TranslationComplete(sibling.Stage) {
			progress.Complete++
		}
		if sibling.Stage == domain.StagePublished {
			progress.Published++
		}
	}
	return progress, nil
}

func dedupeTargets(targets []FanOutTarget) []FanOutTarget {
	seen := map[string]bool{}
	var out []FanOutTarget
	for _, target := range targets {
		trimmed := strings.TrimSpace(target.Language)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		target.Language = trimmed
		out = append(out, target)
	}
	return out
}
