package di

import (
	"strings"
	"time"

	"github.com/goliatone/go-newsroom/internal/classification"
	workflowcmd "github.com/goliatone/go-newsroom/internal/commands/workflow"
	"github.com/goliatone/go-newsroom/internal/domain"
	newsroomhttp "github.com/goliatone/go-newsroom/internal/http"
	"github.com/goliatone/go-newsroom/internal/identity"
	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/internal/logging/gologger"
	"github.com/goliatone/go-newsroom/internal/runtimeconfig"
	"github.com/goliatone/go-newsroom/internal/stations"
	"github.com/goliatone/go-newsroom/internal/translations"
	"github.com/goliatone/go-newsroom/internal/workflow"
	"github.com/goliatone/go-newsroom/pkg/activity"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires module dependencies. Repositories default to the in-memory
// implementations until a bun handle is supplied.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	activityHooks  activity.Hooks
	emitter        *activity.Emitter

	auth  interfaces.AuthProvider
	users interfaces.UserDirectory
	clock func() time.Time

	itemRepo           items.Repository
	categoryRepo       items.CategoryRepository
	classificationRepo classification.Repository
	stationRepo        stations.Repository

	memoryClassificationRepo *classification.MemoryRepository
	memoryStationRepo        *stations.MemoryRepository

	itemSvc     items.Service
	resolver    classification.Resolver
	coordinator *translations.Coordinator
	table       *workflow.Table
	engine      *workflow.Engine
	feedSvc     *stations.FeedService
	api         *newsroomhttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds repositories to an existing bun handle instead of opening
// one from the storage configuration.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service used by the cached read
// repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithAuthProvider binds the host application's actor resolution.
func WithAuthProvider(auth interfaces.AuthProvider) Option {
	return func(c *Container) {
		c.auth = auth
	}
}

// WithUserDirectory binds the host application's role directory used for
// assignee validation.
func WithUserDirectory(users interfaces.UserDirectory) Option {
	return func(c *Container) {
		c.users = users
	}
}

// WithActivityHook appends a hook to the audit/notification emitter.
func WithActivityHook(hook activity.Hook) Option {
	return func(c *Container) {
		if hook != nil {
			c.activityHooks = append(c.activityHooks, hook)
		}
	}
}

// WithClock overrides the time source used by the wired services.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithItemService overrides the default item service binding.
func WithItemService(svc items.Service) Option {
	return func(c *Container) {
		c.itemSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	memoryItemRepo := items.NewMemoryRepository()
	memoryCategoryRepo := items.NewMemoryCategoryRepository()
	memoryClassificationRepo := classification.NewMemoryRepository()
	memoryStationRepo := stations.NewMemoryRepository()

	c := &Container{
		Config:                   cfg,
		cacheTTL:                 cacheTTL,
		itemRepo:                 memoryItemRepo,
		categoryRepo:             memoryCategoryRepo,
		classificationRepo:       memoryClassificationRepo,
		stationRepo:              memoryStationRepo,
		memoryClassificationRepo: memoryClassificationRepo,
		memoryStationRepo:        memoryStationRepo,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureRepositories()
	c.seedVocabulary()
	c.seedStations()
	c.configureServices()

	return c, nil
}

// Close releases the database handle when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	return c.bunDB.Close()
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	format := logCfg.Format
	if strings.EqualFold(strings.TrimSpace(logCfg.Provider), "console") && strings.TrimSpace(format) == "" {
		format = "console"
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     logCfg.Level,
		Format:    format,
		AddSource: logCfg.AddSource,
		Focus:     logCfg.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil {
		return nil
	}
	db, err := OpenDB(c.Config.Storage)
	if err != nil {
		return err
	}
	if db != nil {
		c.bunDB = db
		c.ownsDB = true
	}
	return nil
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	c.itemRepo = items.NewBunRepository(c.bunDB)
	c.categoryRepo = items.NewBunCategoryRepository(c.bunDB)
	c.classificationRepo = classification.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.stationRepo = stations.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)

	c.memoryClassificationRepo = nil
	c.memoryStationRepo = nil
}

// seedVocabulary materialises configured classification names into the
// memory repository. Database-backed deployments seed through migrations.
func (c *Container) seedVocabulary() {
	if c.memoryClassificationRepo == nil {
		return
	}

	put := func(kind classification.Kind, names []string) {
		seen := map[string]struct{}{}
		for _, name := range names {
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				continue
			}
			lower := strings.ToLower(trimmed)
			if _, ok := seen[lower]; ok {
				continue
			}
			seen[lower] = struct{}{}
			c.memoryClassificationRepo.Put(&classification.Classification{
				ID:       identity.ClassificationUUID(string(kind), trimmed),
				Kind:     kind,
				Name:     trimmed,
				IsActive: true,
			})
		}
	}

	put(classification.KindLanguage, c.Config.Seeds.Languages)
	put(classification.KindReligion, c.Config.Seeds.Religions)
	put(classification.KindLocality, c.Config.Seeds.Localities)
}

func (c *Container) seedStations() {
	if c.memoryStationRepo == nil {
		return
	}

	for _, seed := range c.Config.Seeds.Stations {
		slug := strings.ToLower(strings.TrimSpace(seed.Slug))
		if slug == "" {
			continue
		}
		name := strings.TrimSpace(seed.Name)
		if name == "" {
			name = slug
		}
		c.memoryStationRepo.Put(&stations.Station{
			ID:                   identity.StationUUID(slug),
			Slug:                 slug,
			Name:                 name,
			AllowedLanguageNames: append([]string(nil), seed.AllowedLanguages...),
			AllowedReligionNames: append([]string(nil), seed.AllowedReligions...),
			IsActive:             true,
		})
	}
}

func (c *Container) configureServices() {
	c.emitter = activity.NewEmitter(c.activityHooks, activity.Config{
		Enabled: c.Config.Activity.Enabled,
		Channel: c.Config.Activity.Channel,
	})

	c.resolver = classification.NewResolver(
		c.classificationRepo,
		classification.WithLogger(logging.ClassificationLogger(c.loggerProvider)),
	)

	coordinatorOpts := []translations.Option{
		translations.WithLogger(logging.TranslationsLogger(c.loggerProvider)),
		translations.WithActivityEmitter(c.emitter),
		translations.WithStrictPublishCascade(c.Config.Features.StrictPublishCascade),
	}
	if c.clock != nil {
		coordinatorOpts = append(coordinatorOpts, translations.WithClock(c.clock))
	}
	c.coordinator = translations.NewCoordinator(c.itemRepo, c.classificationRepo, coordinatorOpts...)

	c.table = workflow.DefaultTable()
	for _, override := range c.Config.Workflow.Overrides {
		c.table.OverrideMinRole(
			domain.NormalizeStage(override.FromStage),
			domain.NormalizeAction(override.Action),
			domain.NormalizeRole(override.MinRole),
		)
	}

	engineOpts := []workflow.EngineOption{
		workflow.WithTable(c.table),
		workflow.WithCascadeCoordinator(c.coordinator),
		workflow.WithLogger(logging.WorkflowLogger(c.loggerProvider)),
		workflow.WithActivityEmitter(c.emitter),
	}
	if c.clock != nil {
		engineOpts = append(engineOpts, workflow.WithClock(c.clock))
	}
	c.engine = workflow.NewEngine(c.itemRepo, c.users, engineOpts...)

	if c.itemSvc == nil {
		itemOpts := []items.ServiceOption{
			items.WithLogger(logging.ItemsLogger(c.loggerProvider)),
			items.WithActivityEmitter(c.emitter),
		}
		if c.clock != nil {
			itemOpts = append(itemOpts, items.WithClock(c.clock))
		}
		c.itemSvc = items.NewService(c.itemRepo, c.categoryRepo, c.classificationRepo, itemOpts...)
	}

	c.feedSvc = stations.NewFeedService(
		c.stationRepo,
		c.itemRepo,
		c.resolver,
		stations.WithLogger(logging.StationsLogger(c.loggerProvider)),
	)

	if c.Config.Features.HTTP {
		c.api = newsroomhttp.NewAPI(
			newsroomhttp.WithBasePath(c.Config.HTTP.BasePath),
			newsroomhttp.WithItemService(c.itemSvc),
			newsroomhttp.WithTransitionEngine(c.engine),
			newsroomhttp.WithTranslationCoordinator(c.coordinator),
			newsroomhttp.WithFeedService(c.feedSvc),
			newsroomhttp.WithAuthProvider(c.auth),
			newsroomhttp.WithLogger(logging.ModuleLogger(c.loggerProvider, "newsroom.http")),
		)
	}
}

// BunDB exposes the bound database handle, if any.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// ActivityEmitter exposes the audit/notification emitter.
func (c *Container) ActivityEmitter() *activity.Emitter {
	return c.emitter
}

// AuthProvider exposes the configured auth provider.
func (c *Container) AuthProvider() interfaces.AuthProvider {
	return c.auth
}

// ItemRepository exposes the configured item repository.
func (c *Container) ItemRepository() items.Repository {
	return c.itemRepo
}

// CategoryRepository exposes the configured category repository.
func (c *Container) CategoryRepository() items.CategoryRepository {
	return c.categoryRepo
}

// ClassificationRepository exposes the configured classification repository.
func (c *Container) ClassificationRepository() classification.Repository {
	return c.classificationRepo
}

// StationRepository exposes the configured station repository.
func (c *Container) StationRepository() stations.Repository {
	return c.stationRepo
}

// ItemService returns the configured item service.
func (c *Container) ItemService() items.Service {
	return c.itemSvc
}

// ClassificationResolver returns the station allow-list resolver.
func (c *Container) ClassificationResolver() classification.Resolver {
	return c.resolver
}

// TransitionEngine returns the configured workflow engine.
func (c *Container) TransitionEngine() interfaces.TransitionEngine {
	return c.engine
}

// TransitionTable returns the effective transition table, including any
// configured role overrides.
func (c *Container) TransitionTable() *workflow.Table {
	return c.table
}

// TranslationCoordinator returns the configured cascade coordinator.
func (c *Container) TranslationCoordinator() *translations.Coordinator {
	return c.coordinator
}

// FeedService returns the station feed service.
func (c *Container) FeedService() *stations.FeedService {
	return c.feedSvc
}

// API returns the HTTP facade when the HTTP feature is enabled.
func (c *Container) API() *newsroomhttp.API {
	return c.api
}

// TransitionItemHandler returns a command handler bound to the transition
// engine, for hosts dispatching stage changes through a command bus.
func (c *Container) TransitionItemHandler() *workflowcmd.TransitionItemHandler {
	return workflowcmd.NewTransitionItemHandler(c.engine, logging.WorkflowLogger(c.loggerProvider))
}

// FanOutTranslationsHandler returns a command handler bound to the cascade
// coordinator.
func (c *Container) FanOutTranslationsHandler() *workflowcmd.FanOutTranslationsHandler {
	return workflowcmd.NewFanOutTranslationsHandler(c.coordinator, logging.WorkflowLogger(c.loggerProvider))
}

// PublishItemHandler returns a command handler that publishes through the
// transition engine, cascade included.
func (c *Container) PublishItemHandler() *workflowcmd.PublishItemHandler {
	return workflowcmd.NewPublishItemHandler(c.engine, logging.WorkflowLogger(c.loggerProvider))
}

