package press

import (
	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/internal/scaffold"
	"github.com/goliatone/go-press/internal/server"
	"github.com/goliatone/go-press/pkg/generator"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// MarkdownService exports the corpus loading contract for consumers of the press package.
type MarkdownService = interfaces.MarkdownService

// Document exports the parsed post document DTO.
type Document = interfaces.Document

// FrontMatter exports the parsed front matter DTO.
type FrontMatter = interfaces.FrontMatter

// LintService exports the content lint contract.
type LintService = interfaces.LintService

// LintReport exports the aggregated lint report.
type LintReport = interfaces.LintReport

// Diagnostic exports a single lint finding.
type Diagnostic = interfaces.Diagnostic

// StoreService exports the corpus index contract.
type StoreService = interfaces.StoreService

// ImportOptions exports the corpus import options.
type ImportOptions = interfaces.ImportOptions

// SyncOptions exports the corpus sync options.
type SyncOptions = interfaces.SyncOptions

// ImportResult exports the corpus import summary.
type ImportResult = interfaces.ImportResult

// SyncResult exports the corpus sync summary.
type SyncResult = interfaces.SyncResult

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// BuildOptions exports the generator build options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the generator build summary.
type BuildResult = generator.BuildResult

// ScaffoldService exports the post scaffolding contract.
type ScaffoldService = scaffold.Service

// ScaffoldInput exports the scaffold creation input.
type ScaffoldInput = scaffold.CreateInput

// CreatedPost exports the scaffold creation summary.
type CreatedPost = scaffold.CreatedPost

// ScaffoldExistsError exports the error reported when a scaffold target
// already exists, so embedders can errors.As without importing internals.
type ScaffoldExistsError = scaffold.ExistsError

// ServerService exports the preview server contract.
type ServerService = server.Service

// Module represents the top level corpus engine runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a press module using the provided configuration and optional DI overrides.
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

// Markdown returns the configured corpus loading service.
func (m *Module) Markdown() MarkdownService {
	return m.container.MarkdownService()
}

// Lint returns the configured content lint service.
func (m *Module) Lint() LintService {
	return m.container.LintService()
}

// Index returns the configured corpus index service.
func (m *Module) Index() StoreService {
	return m.container.StoreService()
}

// Generator returns the configured static site generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Scaffold returns the configured post scaffolding service.
func (m *Module) Scaffold() ScaffoldService {
	return m.container.ScaffoldService()
}

// Server returns the configured preview server.
func (m *Module) Server() ServerService {
	return m.container.ServerService()
}
