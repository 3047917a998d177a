package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"

	"github.com/goliatone/go-press"
	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/store"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Options captures configuration shared by the press CLI binaries.
type Options struct {
	ContentDir  string
	Pattern     string
	OutputDir   string
	BaseURL     string
	SiteTitle   string
	Workers     int
	Incremental bool
	Generator   bool
	Preview     bool
	Addr        string
	Watch       *bool
	// StorageDSN switches the corpus index onto sqlite. Empty keeps the
	// in-memory repository.
	StorageDSN     string
	LogLevel       string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the press module and the services the CLIs drive.
type Module struct {
	Press     *press.Module
	Markdown  interfaces.MarkdownService
	Lint      interfaces.LintService
	Store     interfaces.StoreService
	Generator press.GeneratorService
	Scaffold  press.ScaffoldService
	Server    press.ServerService
	Logger    interfaces.Logger

	db *bun.DB
}

// Close releases the storage handle when one was opened.
func (m *Module) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

// BuildModule constructs a press module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := press.DefaultConfig()
	if trimmed := strings.TrimSpace(opts.ContentDir); trimmed != "" {
		cfg.ContentDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Markdown.Pattern = trimmed
	}
	cfg.Features.Generator = opts.Generator
	cfg.Features.Preview = opts.Preview
	if trimmed := strings.TrimSpace(opts.OutputDir); trimmed != "" {
		cfg.Generator.OutputDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.BaseURL); trimmed != "" {
		cfg.BaseURL = trimmed
	}
	if trimmed := strings.TrimSpace(opts.SiteTitle); trimmed != "" {
		cfg.SiteTitle = trimmed
	}
	if opts.Workers > 0 {
		cfg.Generator.Workers = opts.Workers
	}
	cfg.Generator.Incremental = opts.Incremental
	if trimmed := strings.TrimSpace(opts.Addr); trimmed != "" {
		cfg.Server.Addr = trimmed
	}
	if opts.Watch != nil {
		cfg.Server.Watch = *opts.Watch
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	var bunDB *bun.DB
	if dsn := strings.TrimSpace(opts.StorageDSN); dsn != "" {
		cfg.Storage.Driver = "sqlite"
		cfg.Storage.DSN = dsn

		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		bunDB = bun.NewDB(sqlDB, sqlitedialect.New())
		if err := store.EnsureSchema(context.Background(), bunDB); err != nil {
			_ = bunDB.Close()
			return nil, err
		}
		diOpts = append(diOpts, di.WithBunDB(bunDB))
	}

	module, err := press.New(cfg, diOpts...)
	if err != nil {
		if bunDB != nil {
			_ = bunDB.Close()
		}
		return nil, fmt.Errorf("initialise press module: %w", err)
	}

	return &Module{
		Press:     module,
		Markdown:  module.Markdown(),
		Lint:      module.Lint(),
		Store:     module.Index(),
		Generator: module.Generator(),
		Scaffold:  module.Scaffold(),
		Server:    module.Server(),
		Logger:    logging.ModuleLogger(module.Container().LoggerProvider(), "press.cli"),
		db:        bunDB,
	}, nil
}

// SplitList parses a comma separated flag value into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
