package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrContentDirRequired = errors.New("press config: content directory is required")
var ErrGeneratorOutputDirRequired = errors.New("press config: generator output directory is required when the generator is enabled")
var ErrGeneratorWorkersInvalid = errors.New("press config: generator workers must be zero or positive")
var ErrGeneratorPostsPerFeedInvalid = errors.New("press config: generator posts per feed must be zero or positive")
var ErrPreviewOutputDirRequired = errors.New("press config: generator output directory is required when preview is enabled")
var ErrServerDebounceInvalid = errors.New("press config: server debounce must be zero or positive")
var ErrStorageDriverUnknown = errors.New("press config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("press config: storage DSN is required for the sqlite driver")
var ErrLintTitleLengthInvalid = errors.New("press config: lint max title length must be zero or positive")
var ErrLoggingProviderUnknown = errors.New("press config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("press config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("press config: logging format is invalid")

// Config aggregates site metadata, feature flags, and per-service settings.
// Fields intentionally use simple types so host applications can extend them
// later.
type Config struct {
	SiteTitle       string
	SiteDescription string
	BaseURL         string
	ContentDir      string
	DefaultAuthors  []string
	Features        Features
	Markdown        MarkdownConfig
	Lint            LintConfig
	Generator       GeneratorConfig
	Server          ServerConfig
	Storage         StorageConfig
	Cache           CacheConfig
	Logging         LoggingConfig
}

// Features toggles the optional corpus workflows. Loading and rendering are
// always available.
type Features struct {
	Lint      bool
	Generator bool
	Preview   bool
	Index     bool
	Scaffold  bool
}

// MarkdownConfig captures filesystem and parser behaviour for corpus loading.
type MarkdownConfig struct {
	Pattern   string
	Recursive bool
	Parser    MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime
// configuration. An empty Extensions list keeps the parser defaults.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// LintConfig tunes the optional lint checks.
type LintConfig struct {
	ExtraLanguages []string
	DisabledRules  []string
	MaxTitleLength int
	Schema         map[string]any
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	OutputDir       string
	TemplateDir     string
	CleanBuild      bool
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	PostsPerFeed    int
	Workers         int
}

// ServerConfig captures the preview server settings.
type ServerConfig struct {
	Addr     string
	Watch    bool
	Debounce time.Duration
}

// StorageConfig selects the corpus index backend.
type StorageConfig struct {
	// Driver is "memory" or "sqlite". Empty selects memory.
	Driver string
	// DSN is the sqlite connection string, for example "file:press.db".
	DSN string
}

// CacheConfig toggles read-through caching for the corpus index
// repositories.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	// Provider is "console", "gologger", or "noop". Empty selects console.
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the corpus conventions: posts under
// site/content/posts, lint and scaffold on, console logging.
func DefaultConfig() Config {
	return Config{
		SiteTitle:  "Press",
		ContentDir: "site/content/posts",
		Features: Features{
			Lint:     true,
			Scaffold: true,
			Index:    true,
		},
		Markdown: MarkdownConfig{
			Pattern:   "*.md",
			Recursive: true,
		},
		Generator: GeneratorConfig{
			OutputDir:       "dist",
			CleanBuild:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeeds:   true,
			PostsPerFeed:    20,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			Watch:    true,
			Debounce: 400 * time.Millisecond,
		},
		Storage: StorageConfig{
			Driver: "memory",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.ContentDir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Features.Generator {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
	}
	if cfg.Features.Preview {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrPreviewOutputDirRequired
		}
	}
	if cfg.Generator.Workers < 0 {
		return ErrGeneratorWorkersInvalid
	}
	if cfg.Generator.PostsPerFeed < 0 {
		return ErrGeneratorPostsPerFeedInvalid
	}
	if cfg.Server.Debounce < 0 {
		return ErrServerDebounceInvalid
	}
	if cfg.Lint.MaxTitleLength < 0 {
		return ErrLintTitleLengthInvalid
	}

	switch driver := normalizeKey(cfg.Storage.Driver); driver {
	case "", "memory":
	case "sqlite":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}

	provider := normalizeKey(cfg.Logging.Provider)
	if provider != "" && !oneOf(provider, loggingProviders) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := cfg.Logging.Level; strings.TrimSpace(level) != "" && !oneOf(level, loggingLevels) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, strings.TrimSpace(level))
	}
	// Format only matters to the gologger provider; console ignores it.
	if provider == "gologger" {
		if format := cfg.Logging.Format; strings.TrimSpace(format) != "" && !oneOf(format, loggingFormats) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, strings.TrimSpace(format))
		}
	}
	return nil
}

var (
	loggingProviders = []string{"console", "gologger", "noop"}
	loggingLevels    = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal"}
	loggingFormats   = []string{"json", "console", "pretty"}
)

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func oneOf(value string, allowed []string) bool {
	value = normalizeKey(value)
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
