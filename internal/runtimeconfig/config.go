package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-newsroom/internal/domain"
)

// ErrStorageDriverUnknown rejects drivers the module cannot open.
var ErrStorageDriverUnknown = errors.New("newsroom config: storage driver is invalid")

// ErrStorageDSNRequired ensures database-backed storage carries a DSN.
var ErrStorageDSNRequired = errors.New("newsroom config: storage DSN is required when a database driver is configured")

// ErrCacheTTLInvalid rejects negative cache TTLs.
var ErrCacheTTLInvalid = errors.New("newsroom config: cache TTL must be zero or positive")

var ErrWorkflowOverrideStageUnknown = errors.New("newsroom config: workflow override stage is invalid")
var ErrWorkflowOverrideActionUnknown = errors.New("newsroom config: workflow override action is invalid")
var ErrWorkflowOverrideRoleUnknown = errors.New("newsroom config: workflow override role is invalid")
var ErrStationSeedSlugRequired = errors.New("newsroom config: station seed slug is required")
var ErrLoggingProviderRequired = errors.New("newsroom config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("newsroom config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("newsroom config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("newsroom config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the newsroom
// module. Fields intentionally use simple types so host applications can
// extend them later.
type Config struct {
	Enabled  bool
	Storage  StorageConfig
	Cache    CacheConfig
	Workflow WorkflowConfig
	Activity ActivityConfig
	Seeds    SeedConfig
	HTTP     HTTPConfig
	Features Features
	Logging  LoggingConfig
}

// StorageConfig selects the persistence backend. An empty driver keeps the
// in-memory repositories, which is the default for embedded and test use.
type StorageConfig struct {
	Driver string
	DSN    string
}

// CacheConfig captures cache behaviour for the hot read repositories.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// WorkflowConfig tunes the transition table without replacing it.
type WorkflowConfig struct {
	Overrides []WorkflowOverrideConfig
}

// WorkflowOverrideConfig raises or lowers the role threshold for one edge of
// the transition table.
type WorkflowOverrideConfig struct {
	FromStage string
	Action    string
	MinRole   string
}

// ActivityConfig controls the audit/notification event emitter.
type ActivityConfig struct {
	Enabled bool
	Channel string
}

// SeedConfig lists vocabulary entries materialised into the classification
// and station repositories at startup. Seed identifiers are deterministic so
// repeated boots converge on the same rows.
type SeedConfig struct {
	Languages  []string
	Religions  []string
	Localities []string
	Stations   []StationSeedConfig
}

// StationSeedConfig mirrors the station model's distribution profile.
type StationSeedConfig struct {
	Slug             string
	Name             string
	AllowedLanguages []string
	AllowedReligions []string
}

// HTTPConfig captures mount-point options for the HTTP API.
type HTTPConfig struct {
	BasePath string
}

// Features toggles module functionality.
type Features struct {
	HTTP bool
	// StrictPublishCascade restricts the publish cascade to translations
	// that already reached the completion set; the default cascade publishes
	// every translation alongside the parent.
	StrictPublishCascade bool
	Logger               bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for an embedded deployment.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Workflow: WorkflowConfig{},
		Activity: ActivityConfig{
			Enabled: true,
			Channel: "newsroom",
		},
		Seeds: SeedConfig{},
		HTTP: HTTPConfig{
			BasePath: "/api",
		},
		Features: Features{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if driver := normalizeDriver(cfg.Storage.Driver); driver != "" {
		if !isSupportedDriver(driver) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	for _, override := range cfg.Workflow.Overrides {
		if !domain.NormalizeStage(override.FromStage).Known() {
			return fmt.Errorf("%w: %s", ErrWorkflowOverrideStageUnknown, override.FromStage)
		}
		if !domain.NormalizeAction(override.Action).Known() {
			return fmt.Errorf("%w: %s", ErrWorkflowOverrideActionUnknown, override.Action)
		}
		if !domain.NormalizeRole(override.MinRole).Known() {
			return fmt.Errorf("%w: %s", ErrWorkflowOverrideRoleUnknown, override.MinRole)
		}
	}
	for _, station := range cfg.Seeds.Stations {
		if strings.TrimSpace(station.Slug) == "" {
			return ErrStationSeedSlugRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeDriver(driver string) string {
	return strings.ToLower(strings.TrimSpace(driver))
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite", "sqlite3", "postgres", "pg":
		return true
	default:
		return false
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
