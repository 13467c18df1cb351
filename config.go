package newsroom

import "github.com/goliatone/go-newsroom/internal/runtimeconfig"

var (
	ErrStorageDriverUnknown          = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired            = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid               = runtimeconfig.ErrCacheTTLInvalid
	ErrWorkflowOverrideStageUnknown  = runtimeconfig.ErrWorkflowOverrideStageUnknown
	ErrWorkflowOverrideActionUnknown = runtimeconfig.ErrWorkflowOverrideActionUnknown
	ErrWorkflowOverrideRoleUnknown   = runtimeconfig.ErrWorkflowOverrideRoleUnknown
	ErrStationSeedSlugRequired       = runtimeconfig.ErrStationSeedSlugRequired
	ErrLoggingProviderRequired       = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown        = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid           = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid          = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config                 = runtimeconfig.Config
	StorageConfig          = runtimeconfig.StorageConfig
	CacheConfig            = runtimeconfig.CacheConfig
	WorkflowConfig         = runtimeconfig.WorkflowConfig
	WorkflowOverrideConfig = runtimeconfig.WorkflowOverrideConfig
	ActivityConfig         = runtimeconfig.ActivityConfig
	SeedConfig             = runtimeconfig.SeedConfig
	StationSeedConfig      = runtimeconfig.StationSeedConfig
	HTTPConfig             = runtimeconfig.HTTPConfig
	Features               = runtimeconfig.Features
	LoggingConfig          = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
