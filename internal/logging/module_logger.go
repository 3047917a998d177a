package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

const (
	rootModule      = "press"
	markdownModule  = "press.markdown"
	lintModule      = "press.lint"
	storeModule     = "press.store"
	generatorModule = "press.generator"
	scaffoldModule  = "press.scaffold"
	serverModule    = "press.server"
)

const (
	fieldPostPath = "post_path"
	fieldPostSlug = "slug"
	fieldAction   = "action"
)

// ModuleLogger returns a logger scoped to module, falling back to the shared
// no-op logger when provider is nil. Every entry carries the module name as a
// structured field so output can be filtered per subsystem.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	var logger interfaces.Logger
	if provider != nil {
		logger = provider.GetLogger(module)
	}
	if logger == nil {
		logger = NoOp()
	}

	return WithFields(logger, map[string]any{"module": module})
}

// MarkdownLogger returns the logger namespace reserved for markdown workflows.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// LintLogger returns the logger namespace reserved for corpus linting.
func LintLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, lintModule)
}

// StoreLogger returns the logger namespace reserved for the corpus index.
func StoreLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storeModule)
}

// GeneratorLogger returns the logger namespace reserved for site builds.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// ScaffoldLogger returns the logger namespace reserved for post scaffolding.
func ScaffoldLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, scaffoldModule)
}

// ServerLogger returns the logger namespace reserved for the preview server.
func ServerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, serverModule)
}

// WithPostContext enriches the provided logger with common corpus fields such
// as file path, slug, and the action being performed. Empty values are ignored.
func WithPostContext(logger interfaces.Logger, path, slug, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPostPath] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldPostSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry. Services use it whenever
// logging is disabled or unconfigured.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

// NoOpProvider returns a provider whose loggers drop every entry.
func NoOpProvider() interfaces.LoggerProvider {
	return noopProvider{}
}

type (
	noopProvider struct{}
	noopLogger   struct{}
)

var (
	_ interfaces.LoggerProvider = noopProvider{}
	_ interfaces.Logger         = noopLogger{}
)

func (noopProvider) GetLogger(string) interfaces.Logger { return NoOp() }

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
