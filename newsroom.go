package newsroom

import (
	"net/http"

	"github.com/goliatone/go-newsroom/internal/classification"
	"github.com/goliatone/go-newsroom/internal/di"
	newsroomhttp "github.com/goliatone/go-newsroom/internal/http"
	"github.com/goliatone/go-newsroom/internal/items"
	"github.com/goliatone/go-newsroom/internal/stations"
	"github.com/goliatone/go-newsroom/internal/translations"
	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// ItemService exports the item service contract for consumers of the
// newsroom package.
type ItemService = items.Service

// TransitionEngine exports the workflow engine contract.
type TransitionEngine = interfaces.TransitionEngine

// TranslationCoordinator exports the translation cascade coordinator.
type TranslationCoordinator = *translations.Coordinator

// FeedService exports the station feed service.
type FeedService = *stations.FeedService

// ClassificationResolver exports the allow-list name resolver.
type ClassificationResolver = classification.Resolver

// Module represents the top level newsroom runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a newsroom module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases resources held by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Items returns the configured item service.
func (m *Module) Items() ItemService {
	return m.container.ItemService()
}

// Workflow returns the configured transition engine.
func (m *Module) Workflow() TransitionEngine {
	return m.container.TransitionEngine()
}

// Translations returns the configured cascade coordinator.
func (m *Module) Translations() TranslationCoordinator {
	return m.container.TranslationCoordinator()
}

// Feeds returns the configured station feed service.
func (m *Module) Feeds() FeedService {
	return m.container.FeedService()
}

// Classifications returns the allow-list resolver.
func (m *Module) Classifications() ClassificationResolver {
	return m.container.ClassificationResolver()
}

// API returns the HTTP facade when the HTTP feature is enabled.
func (m *Module) API() *newsroomhttp.API {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.API()
}

// RegisterRoutes mounts the HTTP API on the supplied mux. It is a no-op when
// the HTTP feature is disabled.
func (m *Module) RegisterRoutes(mux *http.ServeMux) {
	api := m.API()
	if api == nil || mux == nil {
		return
	}
	api.Register(mux)
}
