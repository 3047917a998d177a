package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// GoldmarkParser implements interfaces.MarkdownParser using the goldmark
// engine. The parser is stateless apart from its immutable sanitiser policy,
// so callers can reuse a single instance across requests without locking.
type GoldmarkParser struct {
	defaultOptions interfaces.ParseOptions
	policy         *bluemonday.Policy
}

// NewGoldmarkParser constructs a parser with sensible defaults (GFM
// extensions, hard wraps disabled, raw HTML allowed unless sanitised).
// Callers can override behaviour per invocation through ParseWithOptions.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{
		defaultOptions: defaults,
		policy:         bluemonday.UGCPolicy(),
	}
}

// Parse renders Markdown into HTML using the parser's default options.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaultOptions)
}

// ParseWithOptions renders Markdown into HTML with per-call options. When
// Sanitize is set the rendered HTML is scrubbed through a UGC policy after
// conversion.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := engineFor(opts).Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	out := buf.Bytes()
	if opts.Sanitize {
		out = p.policy.SanitizeBytes(out)
	}
	return out, nil
}

// engineFor assembles a goldmark instance configured for one parse call.
func engineFor(opts interfaces.ParseOptions) goldmark.Markdown {
	rendererOpts := []renderer.Option{}
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	// SafeMode escapes raw HTML at the renderer; Sanitize scrubs it after the
	// fact. Raw HTML passes through only when neither is requested.
	if !opts.SafeMode {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	return goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
		goldmark.WithExtensions(resolveExtenders(opts.Extensions)...),
	)
}

// defaultExtenders applies when the caller names no extensions.
var defaultExtenders = []goldmark.Extender{
	extension.GFM,
	extension.Linkify,
	extension.TaskList,
}

// resolveExtenders maps extension names to goldmark extenders, skipping
// blanks, duplicates, and names the engine does not know.
func resolveExtenders(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return defaultExtenders
	}

	seen := make(map[string]struct{}, len(names))
	extenders := make([]goldmark.Extender, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if ext, ok := extenderFor(name); ok {
			extenders = append(extenders, ext)
		}
	}
	return extenders
}

func extenderFor(name string) (goldmark.Extender, bool) {
	switch name {
	case "gfm":
		return extension.GFM, true
	case "table", "tables":
		return extension.Table, true
	case "strikethrough":
		return extension.Strikethrough, true
	case "linkify", "autolink":
		return extension.Linkify, true
	case "tasklist":
		return extension.TaskList, true
	case "definition":
		return extension.DefinitionList, true
	case "footnote":
		return extension.Footnote, true
	}
	return nil, false
}
