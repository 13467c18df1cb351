package logging

import (
	"context"

	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

const (
	rootModule           = "newsroom"
	itemsModule          = "newsroom.items"
	workflowModule       = "newsroom.workflow"
	translationsModule   = "newsroom.translations"
	stationsModule       = "newsroom.stations"
	classificationModule = "newsroom.classification"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ItemsLogger returns the logger namespace reserved for item services.
func ItemsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, itemsModule)
}

// WorkflowLogger returns the logger namespace reserved for the transition engine.
func WorkflowLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, workflowModule)
}

// TranslationsLogger returns the logger namespace reserved for the cascade coordinator.
func TranslationsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, translationsModule)
}

// StationsLogger returns the logger namespace reserved for station feeds.
func StationsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, stationsModule)
}

// ClassificationLogger returns the logger namespace for classification resolution.
func ClassificationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, classificationModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
