package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/logging"
	"github.com/goliatone/go-newsroom/internal/stations"
	"github.com/goliatone/go-newsroom/internal/translations"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// API registers the editorial endpoints: item creation and reads, the
// action-oriented transition endpoint, its read-only readiness companion,
// translation fan-out, and station feeds.
type API struct {
	basePath     string
	items        items.Service
	engine       interfaces.TransitionEngine
	translations *translations.Coordinator
	feeds        *stations.FeedService
	auth         interfaces.AuthProvider
	logger       interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath: "/api",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *API) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithItemService wires the item service.
func WithItemService(service items.Service) Option {
	return func(api *API) {
		if api != nil {
			api.items = service
		}
	}
}

// WithTransitionEngine wires the workflow engine.
func WithTransitionEngine(engine interfaces.TransitionEngine) Option {
	return func(api *API) {
		if api != nil {
			api.engine = engine
		}
	}
}

// WithTranslationCoordinator wires the fan-out coordinator.
func WithTranslationCoordinator(coordinator *translations.Coordinator) Option {
	return func(api *API) {
		if api != nil {
			api.translations = coordinator
		}
	}
}

// WithFeedService wires the station feed service.
func WithFeedService(feeds *stations.FeedService) Option {
	return func(api *API) {
		if api != nil {
			api.feeds = feeds
		}
	}
}

// WithAuthProvider wires the host application's authentication collaborator.
// Requests without a resolvable actor receive 401.
func WithAuthProvider(auth interfaces.AuthProvider) Option {
	return func(api *API) {
		if api != nil {
			api.auth = auth
		}
	}
}

// WithLogger wires the module logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

// Register mounts all routes onto the supplied mux.
func (api *API) Register(mux *http.ServeMux) {
	if api == nil || mux == nil {
		return
	}
	api.registerItemRoutes(mux, api.basePath)
	api.registerStationRoutes(mux, api.basePath)
}

// currentActor resolves the acting user. A nil auth provider means the host
// did not wire authentication; every actor-bearing request is then rejected.
func (api *API) currentActor(r *http.Request) (interfaces.Actor, bool) {
	if api.auth == nil {
		return interfaces.Actor{}, false
	}
	actor, err := api.auth.CurrentActor(r.Context())
	if err != nil {
		return interfaces.Actor{}, false
	}
	return actor, true
}
