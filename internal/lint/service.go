package lint

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Config controls which optional checks a lint run performs.
type Config struct {
	// Schema optionally validates the whole front matter mapping against a
	// JSON Schema or a fields-list definition (see NormalizeSchema).
	Schema map[string]any
	// ExtraLanguages extends the built-in fence language registry.
	ExtraLanguages []string
	// DisabledRules suppresses diagnostics by rule ID. Other rules are
	// unaffected.
	DisabledRules []string
	// MaxTitleLength warns on titles longer than this many characters.
	// Zero disables the check.
	MaxTitleLength int
	// Pattern selects corpus files (defaults to "*.md").
	Pattern string
}

// Service implements interfaces.LintService.
type Service struct {
	cfg       Config
	schema    *jsonschema.Schema
	languages map[string]struct{}
	disabled  map[string]struct{}
	logger    interfaces.Logger
}

// Option customises service construction.
type Option func(*Service)

// WithLogger attaches a logger. The service defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a lint service, compiling the optional front matter schema up
// front so a bad schema fails construction instead of every run.
func New(cfg Config, opts ...Option) (*Service, error) {
	svc := &Service{
		cfg:    cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}

	if normalized := NormalizeSchema(cfg.Schema); normalized != nil {
		compiled, err := compileSchema(normalized)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
		}
		svc.schema = compiled
	}

	svc.languages = languageRegistry(cfg.ExtraLanguages)

	if len(cfg.DisabledRules) > 0 {
		svc.disabled = make(map[string]struct{}, len(cfg.DisabledRules))
		for _, rule := range cfg.DisabledRules {
			key := strings.TrimSpace(rule)
			if key != "" {
				svc.disabled[key] = struct{}{}
			}
		}
	}

	return svc, nil
}

// LintSource checks a single file. A front matter parse failure suppresses
// the field rules so one broken document reports a single cause.
func (s *Service) LintSource(path string, source []byte) []interfaces.Diagnostic {
	fc := &fileContext{
		path:  path,
		slug:  markdown.SlugFromPath(path),
		block: splitFrontMatter(source),
	}

	var diags []interfaces.Diagnostic

	if fc.block.Found && fc.block.Closed {
		entries, err := fc.block.parseFields()
		if err != nil {
			diags = append(diags, checkFrontMatterShape(fc, err)...)
		} else {
			fc.entries = entries
			diags = append(diags, checkTitle(fc)...)
			diags = append(diags, checkTitleLength(fc, s.cfg.MaxTitleLength)...)
			diags = append(diags, checkDate(fc)...)
			diags = append(diags, checkTags(fc)...)
			diags = append(diags, checkAuthors(fc)...)
			diags = append(diags, s.checkSchema(fc)...)
		}
	} else {
		diags = append(diags, checkFrontMatterShape(fc, nil)...)
	}

	diags = append(diags, checkSlug(fc)...)
	if fc.block.Closed || !fc.block.Found {
		diags = append(diags, checkFences(fc, s.languages)...)
	}

	diags = s.filterDisabled(diags)
	sortDiagnostics(diags)
	return diags
}

// filterDisabled drops diagnostics whose rule is switched off. Rules still
// run so their side effects (such as the title feeding the slug check) stay
// intact.
func (s *Service) filterDisabled(diags []interfaces.Diagnostic) []interfaces.Diagnostic {
	if len(s.disabled) == 0 {
		return diags
	}
	kept := diags[:0]
	for _, diag := range diags {
		if _, off := s.disabled[diag.Rule]; off {
			continue
		}
		kept = append(kept, diag)
	}
	return kept
}

// Run lints a set of raw files and applies the corpus-wide rules.
func (s *Service) Run(ctx context.Context, files []*markdown.RawFile) (*interfaces.LintReport, error) {
	report := &interfaces.LintReport{Files: len(files)}
	slugOwners := make(map[string][]string, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Diagnostics = append(report.Diagnostics, s.LintSource(file.Path, file.Source)...)
		slug := markdown.SlugFromPath(file.Path)
		slugOwners[slug] = append(slugOwners[slug], file.Path)
	}

	report.Diagnostics = append(report.Diagnostics, s.filterDisabled(duplicateSlugs(slugOwners))...)
	sortDiagnostics(report.Diagnostics)

	errCount, warnCount := report.Counts()
	s.logger.Debug("lint run complete",
		"files", report.Files,
		"errors", errCount,
		"warnings", warnCount,
	)
	return report, nil
}

// LintDirectory loads every matching file under dir and lints the corpus.
func (s *Service) LintDirectory(ctx context.Context, dir string) (*interfaces.LintReport, error) {
	root := strings.TrimSpace(dir)
	if root == "" {
		root = "."
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("lint: stat corpus root %s: %w", root, err)
	}

	loader := markdown.NewLoader(os.DirFS(root), markdown.LoaderConfig{
		BasePath:  root,
		Pattern:   s.cfg.Pattern,
		Recursive: true,
	})
	files, err := loader.ReadDirectory(ctx, ".", markdown.LoadParams{})
	if err != nil {
		return nil, fmt.Errorf("lint: read corpus: %w", err)
	}

	s.logger.Debug("lint corpus", "dir", root, "files", len(files))
	return s.Run(ctx, files)
}

// LintFile reads and lints a single file. Corpus-wide rules such as
// duplicate slug detection do not apply.
func (s *Service) LintFile(ctx context.Context, path string) ([]interfaces.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lint: read %s: %w", path, err)
	}
	return s.LintSource(path, source), nil
}

// checkSchema validates the raw front matter mapping against the configured
// schema, mapping instance locations back to key lines where possible.
func (s *Service) checkSchema(fc *fileContext) []interfaces.Diagnostic {
	if s.schema == nil {
		return nil
	}
	payload, err := fc.block.decodeRaw()
	if err != nil {
		// The parse rule owns malformed YAML.
		return nil
	}

	validationErr := validateAgainst(s.schema, payload)
	if validationErr == nil {
		return nil
	}

	issues := Issues(validationErr)
	diags := make([]interfaces.Diagnostic, 0, len(issues))
	for _, issue := range issues {
		location := strings.TrimSpace(issue.Location)
		message := issue.Message
		if location != "" {
			message = fmt.Sprintf("#%s: %s", location, issue.Message)
		}
		diags = append(diags, errorAt(fc.path, locationLine(fc, location), RuleFrontMatterSchema, message))
	}
	return diags
}

// locationLine resolves a JSON pointer's first segment to the line of the
// corresponding top-level front matter key.
func locationLine(fc *fileContext, location string) int {
	segments := strings.Split(strings.TrimPrefix(location, "/"), "/")
	if len(segments) > 0 && segments[0] != "" {
		if entry, ok := fc.entries[segments[0]]; ok {
			return entry.Line
		}
	}
	return 1
}

func duplicateSlugs(owners map[string][]string) []interfaces.Diagnostic {
	var diags []interfaces.Diagnostic
	for slug, paths := range owners {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		for _, path := range paths[1:] {
			message := fmt.Sprintf("slug %q already used by %s", slug, paths[0])
			diags = append(diags, errorAt(path, 1, RuleDuplicateSlug, message))
		}
	}
	return diags
}

func sortDiagnostics(diags []interfaces.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Path != diags[j].Path {
			return diags[i].Path < diags[j].Path
		}
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Rule < diags[j].Rule
	})
}
