// Package generator exposes the static site generation API for go-press hosts.
// Use NewService with Config and Dependencies to render the corpus into pages,
// feeds, and a sitemap, or NewTemplateEngine for the default template set.
package generator

import internal "github.com/goliatone/go-press/internal/generator"

type (
	Service          = internal.Service
	PostSource       = internal.PostSource
	Config           = internal.Config
	BuildOptions     = internal.BuildOptions
	BuildResult      = internal.BuildResult
	RenderedPage     = internal.RenderedPage
	RenderDiagnostic = internal.RenderDiagnostic
	Dependencies     = internal.Dependencies
	TemplateContext  = internal.TemplateContext
	SiteMetadata     = internal.SiteMetadata
	PageContext      = internal.PageContext
	PostView         = internal.PostView
	TemplateEngine   = internal.TemplateEngine
)

var ErrServiceDisabled = internal.ErrServiceDisabled

// NewService wires a static site generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return internal.NewDisabledService()
}

// NewTemplateEngine parses the embedded template set, overlaying any *.tmpl
// files found in overrideDir.
func NewTemplateEngine(overrideDir string) (*TemplateEngine, error) {
	return internal.NewTemplateEngine(overrideDir)
}
