package di_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-newsroom/internal/classification"
	workflowcmd "github.com/goliatone/go-newsroom/internal/commands/workflow"
	"github.com/goliatone/go-newsroom/internal/di"
	"github.com/goliatone/go-newsroom/internal/domain"
	"github.com/goliatone/go-newsroom/internal/identity"
	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/runtimeconfig"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	"github.com/google/uuid"
)

func TestNewContainer_DefaultsToMemoryRepositories(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if container.BunDB() != nil {
		t.Fatal("expected no database handle for memory storage")
	}
	if container.ItemService() == nil {
		t.Fatal("expected item service to be wired")
	}
	if container.TransitionEngine() == nil {
		t.Fatal("expected transition engine to be wired")
	}
	if container.TranslationCoordinator() == nil {
		t.Fatal("expected translation coordinator to be wired")
	}
	if container.FeedService() == nil {
		t.Fatal("expected feed service to be wired")
	}
	if container.API() != nil {
		t.Fatal("expected HTTP facade to stay disabled by default")
	}
}

func TestNewContainer_RejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "mongodb"
	cfg.Storage.DSN = "mongodb://localhost"

	_, err := di.NewContainer(cfg)
	if !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestNewContainer_SeedsVocabulary(t *testing.T) {
	ctx := context.Background()

	cfg := runtimeconfig.DefaultConfig()
	cfg.Seeds.Languages = []string{"English", "Xhosa", "english"}
	cfg.Seeds.Religions = []string{"Christian"}

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	languages, err := container.ClassificationRepository().ListActiveByKind(ctx, classification.KindLanguage)
	if err != nil {
		t.Fatalf("ListActiveByKind returned error: %v", err)
	}
	if len(languages) != 2 {
		t.Fatalf("expected duplicate language seed to collapse, got %d entries", len(languages))
	}

	want := identity.ClassificationUUID("language", "English")
	found := false
	for _, record := range languages {
		if record.ID == want {
			found = true
		}
	}
	if !found {
		t.Fatal("expected deterministic identifier for seeded language")
	}

	ids, err := container.ClassificationResolver().ResolveNames(ctx, []string{"english", "Zulu"}, classification.KindLanguage)
	if err != nil {
		t.Fatalf("ResolveNames returned error: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected only seeded names to resolve, got %d", len(ids))
	}
}

func TestNewContainer_SeedsStations(t *testing.T) {
	ctx := context.Background()

	cfg := runtimeconfig.DefaultConfig()
	cfg.Seeds.Stations = []runtimeconfig.StationSeedConfig{
		{
			Slug:             "Community-FM",
			Name:             "Community FM",
			AllowedLanguages: []string{"Xhosa"},
			AllowedReligions: []string{"Christian"},
		},
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	station, err := container.StationRepository().GetBySlug(ctx, "community-fm")
	if err != nil {
		t.Fatalf("GetBySlug returned error: %v", err)
	}
	if station.ID != identity.StationUUID("community-fm") {
		t.Fatal("expected deterministic station identifier")
	}
	if len(station.AllowedLanguageNames) != 1 || station.AllowedLanguageNames[0] != "Xhosa" {
		t.Fatalf("unexpected allowed languages: %v", station.AllowedLanguageNames)
	}
}

func TestNewContainer_AppliesWorkflowOverrides(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Workflow.Overrides = []runtimeconfig.WorkflowOverrideConfig{
		{FromStage: "translated", Action: "publish", MinRole: "admin"},
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	rule, ok := container.TransitionTable().Lookup(domain.StageTranslated, domain.ActionPublish)
	if !ok {
		t.Fatal("expected publish rule to exist")
	}
	if rule.MinRole != domain.RoleAdmin {
		t.Fatalf("expected overridden minimum role admin, got %s", rule.MinRole)
	}

	unchanged, ok := container.TransitionTable().Lookup(domain.StageDraft, domain.ActionSubmitForReview)
	if !ok {
		t.Fatal("expected submit rule to exist")
	}
	if unchanged.MinRole != domain.RoleReviewer {
		t.Fatalf("expected untouched rule to keep its threshold, got %s", unchanged.MinRole)
	}
}

type roleDirectory map[uuid.UUID]interfaces.Role

func (d roleDirectory) RoleOf(_ context.Context, id uuid.UUID) (interfaces.Role, error) {
	role, ok := d[id]
	if !ok {
		return "", errors.New("unknown user")
	}
	return role, nil
}

func TestNewContainer_CommandHandlersShareEngine(t *testing.T) {
	ctx := context.Background()

	journalist := uuid.New()
	reviewer := uuid.New()

	cfg := runtimeconfig.DefaultConfig()
	container, err := di.NewContainer(cfg, di.WithUserDirectory(roleDirectory{
		journalist: "journalist",
		reviewer:   "reviewer",
	}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if container.FanOutTranslationsHandler() == nil {
		t.Fatal("expected fan-out handler to be wired")
	}
	if container.PublishItemHandler() == nil {
		t.Fatal("expected publish handler to be wired")
	}

	repo, ok := container.ItemRepository().(*items.MemoryRepository)
	if !ok {
		t.Fatal("expected memory item repository")
	}
	record := &items.Item{
		ID:       uuid.New(),
		Slug:     "wired-story",
		Title:    "Wired Story",
		Language: "english",
		AuthorID: journalist,
	}
	record.SetStage(domain.StageDraft)
	repo.Put(record)

	assignee := reviewer
	err = container.TransitionItemHandler().Execute(ctx, workflowcmd.TransitionItemCommand{
		ItemID:     record.ID,
		ActorID:    journalist,
		ActorRole:  "journalist",
		Action:     "submit_for_review",
		AssigneeID: &assignee,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	updated, err := repo.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if updated.Stage != domain.StageNeedsReviewerReview {
		t.Fatalf("expected submitted stage, got %s", updated.Stage)
	}
	if updated.AssignedReviewerID == nil || *updated.AssignedReviewerID != reviewer {
		t.Fatal("expected reviewer assignment to stick")
	}
}

func TestNewContainer_HTTPFeatureBuildsAPI(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.HTTP = true

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.API() == nil {
		t.Fatal("expected HTTP facade when the feature is enabled")
	}
}
