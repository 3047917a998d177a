package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// Config controls how the Markdown service discovers and parses files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Service implements interfaces.MarkdownService for filesystem-backed
// documents.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
}

// NewService constructs a Markdown service rooted at cfg.BasePath. When
// parser is nil, a Goldmark parser with the provided default options is
// created.
func NewService(cfg Config, parser interfaces.MarkdownParser) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}
	return NewServiceWithFS(filesystem, cfg, parser), nil
}

// NewServiceWithFS constructs a Markdown service over an arbitrary fs.FS.
// Tests and in-memory corpora use this entry point.
func NewServiceWithFS(filesystem fs.FS, cfg Config, parser interfaces.MarkdownParser) *Service {
	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser)
	}

	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})

	return &Service{
		cfg:    cfg,
		parser: parser,
		loader: loader,
	}
}

// Loader exposes the underlying file loader so callers that need raw source
// bytes (linting, checksum comparison) can reuse discovery.
func (s *Service) Loader() *Loader {
	return s.loader
}

// Load reads, parses, and renders a single Markdown document. Paths are
// resolved relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(path), LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	})
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, result.Document, opts.Parser); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads every matching Markdown document under dir, renders
// each body, and returns the documents ordered by file path.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	})
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, len(results))
	for i, result := range results {
		if err := s.hydrate(ctx, result.Document, opts.Parser); err != nil {
			return nil, err
		}
		docs[i] = result.Document
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].FilePath < docs[j].FilePath })
	return docs, nil
}

// Render parses Markdown bytes into HTML, merging per-call options over the
// service defaults.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// RenderDocument converts the document's Markdown body into HTML and stores
// the result on the document.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown service: document is nil")
	}
	html, err := s.Render(ctx, doc.Body, opts)
	if err != nil {
		return nil, err
	}
	doc.BodyHTML = html
	return html, nil
}

// hydrate renders doc in place, annotating failures with the file path so
// directory loads point at the offending document.
func (s *Service) hydrate(ctx context.Context, doc *interfaces.Document, overrides interfaces.ParseOptions) error {
	if doc == nil {
		return nil
	}
	if _, err := s.RenderDocument(ctx, doc, overrides); err != nil {
		return fmt.Errorf("markdown: render %s: %w", doc.FilePath, err)
	}
	return nil
}

// normalisePath maps caller paths onto the loader's slash-separated,
// base-relative form. Absolute paths are rebased when a base path is set.
func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) || strings.TrimSpace(s.cfg.BasePath) == "" {
		return filepath.ToSlash(clean)
	}
	if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(clean)
}

// mergeParseOptions overlays per-call parse options on the service defaults.
// Boolean options are sticky: a default of true cannot be switched off per
// call.
func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	merged := base
	merged.Sanitize = base.Sanitize || override.Sanitize
	merged.HardWraps = base.HardWraps || override.HardWraps
	merged.SafeMode = base.SafeMode || override.SafeMode
	if len(override.Extensions) > 0 {
		merged.Extensions = append([]string(nil), override.Extensions...)
	}
	return merged
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
