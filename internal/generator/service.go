package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
	"github.com/goliatone/go-press/post"
)

const defaultMaxWorkers = 4

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled   = errors.New("generator: service disabled")
	errRendererRequired  = errors.New("generator: template renderer is required")
	errSourceRequired    = errors.New("generator: post source is required")
	errOutputDirRequired = errors.New("generator: output directory is required")
	errOutputDirUnsafe   = errors.New("generator: output directory must name a dedicated build directory")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	BuildPost(ctx context.Context, slug string) error
	Clean(ctx context.Context) error
}

// PostSource lists the posts a build renders. The corpus index repositories
// and the direct document source both satisfy it.
type PostSource interface {
	List(ctx context.Context) ([]*post.Post, error)
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	SiteTitle       string
	SiteDescription string
	CleanBuild      bool
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	Workers         int
	TemplateDir     string
	PostsPerFeed    int
}

// BuildOptions narrows the scope of a generator run. A non-empty Slugs filter
// builds only the matching post pages; feeds, sitemap, and listings are left
// untouched on partial builds.
type BuildOptions struct {
	DryRun        bool
	Force         bool
	IncludeFuture bool
	Slugs         []string
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt   int
	PagesSkipped int
	FeedsBuilt   int
	SitemapBuilt bool
	RobotsBuilt  bool
	Duration     time.Duration
	Rendered     []RenderedPage
	Diagnostics  []RenderDiagnostic
	Errors       []error
	DryRun       bool
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Source   PostSource
	Renderer interfaces.TemplateRenderer
	Logger   interfaces.Logger
	Clock    func() time.Time
}

// NewService wires a generator with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		writer: newArtifactWriter(strings.TrimSpace(cfg.OutputDir)),
		logger: logger,
		now:    now,
	}
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	writer artifactWriter
	logger interfaces.Logger
	now    func() time.Time
}

type disabledService struct{}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if s.deps.Source == nil {
		return nil, errSourceRequired
	}
	if strings.TrimSpace(s.cfg.OutputDir) == "" && !opts.DryRun {
		return nil, errOutputDirRequired
	}

	start := time.Now()

	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.Clean(ctx); err != nil {
			return nil, err
		}
	}

	buildCtx, err := s.loadContext(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		DryRun:      opts.DryRun,
		Diagnostics: make([]RenderDiagnostic, 0, len(buildCtx.Pages)),
	}

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedPage, 0, len(buildCtx.Pages))
		errorsSlice []error
		pageKeys    = map[string]struct{}{}
	)

	manifest := newBuildManifest()
	if s.cfg.Incremental && !opts.Force {
		loaded, manifestErr := s.loadManifest(ctx)
		if manifestErr != nil {
			errorsSlice = append(errorsSlice, manifestErr)
		} else if loaded != nil {
			manifest = loaded
		}
	}

	siteMeta := SiteMetadata{
		BaseURL:     strings.TrimRight(strings.TrimSpace(s.cfg.BaseURL), "/"),
		Title:       s.siteTitle(),
		Description: strings.TrimSpace(s.cfg.SiteDescription),
	}

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if key := manifest.pageKey(outcome.page.Output); key != "" {
			pageKeys[key] = struct{}{}
		}
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.PagesSkipped++
			return
		}
		result.PagesBuilt++
		if !opts.DryRun {
			rendered = append(rendered, outcome.page)
		}
	}

	workerCount := s.effectiveWorkerCount(len(buildCtx.Pages))
	if workerCount <= 1 || len(buildCtx.Pages) <= 1 {
		for _, page := range buildCtx.Pages {
			select {
			case <-ctx.Done():
				collect(renderOutcome{
					diagnostic: RenderDiagnostic{
						Kind:  page.Kind,
						Slug:  page.Slug,
						Route: page.Route,
						Err:   ctx.Err(),
					},
					err: ctx.Err(),
				})
				return result, ctx.Err()
			default:
				collect(s.renderPage(ctx, siteMeta, buildCtx, page, manifest))
			}
		}
	} else {
		if err := s.renderConcurrently(ctx, siteMeta, buildCtx, workerCount, manifest, collect); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		s.logBuild(result)
		if len(errorsSlice) > 0 {
			result.Errors = append(result.Errors, errorsSlice...)
			return result, errors.Join(errorsSlice...)
		}
		return result, nil
	}

	if err := s.persistPages(ctx, s.writer, rendered); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	if !buildCtx.Partial {
		if s.cfg.GenerateFeeds {
			count, feedErr := s.writeFeeds(ctx, s.writer, buildCtx)
			result.FeedsBuilt = count
			if feedErr != nil {
				errorsSlice = append(errorsSlice, feedErr)
			}
		}
		if s.cfg.GenerateSitemap {
			if sitemapErr := s.writeSitemap(ctx, s.writer, buildCtx); sitemapErr != nil {
				errorsSlice = append(errorsSlice, sitemapErr)
			} else {
				result.SitemapBuilt = true
			}
		}
		if s.cfg.GenerateRobots {
			if robotsErr := s.writeRobots(ctx, s.writer, buildCtx); robotsErr != nil {
				errorsSlice = append(errorsSlice, robotsErr)
			} else {
				result.RobotsBuilt = true
			}
		}
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = buildCtx.GeneratedAt
		for _, page := range rendered {
			if strings.TrimSpace(page.Output) == "" || strings.TrimSpace(page.Checksum) == "" {
				continue
			}
			manifest.setPage(manifestPage{
				Kind:         page.Kind,
				Slug:         page.Slug,
				Route:        page.Route,
				Output:       page.Output,
				Template:     page.Template,
				Hash:         page.Hash,
				Checksum:     page.Checksum,
				LastModified: page.LastModified,
				RenderedAt:   buildCtx.GeneratedAt,
			})
		}
		if !buildCtx.Partial {
			manifest.prunePages(pageKeys)
		}
		if err := s.persistManifest(ctx, s.writer, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	s.logBuild(result)
	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		return result, errors.Join(errorsSlice...)
	}
	return result, nil
}

// BuildPost renders a single post page, leaving listings and feeds alone.
func (s *service) BuildPost(ctx context.Context, slug string) error {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return post.ErrSlugRequired
	}
	result, err := s.Build(ctx, BuildOptions{Slugs: []string{trimmed}})
	if err != nil {
		return err
	}
	if result.PagesBuilt+result.PagesSkipped == 0 {
		return &post.NotFoundError{Resource: "post", Key: trimmed}
	}
	return nil
}

// Clean removes the output directory. Ambiguous targets such as the working
// directory or the filesystem root are refused.
func (s *service) Clean(ctx context.Context) error {
	dir := strings.TrimSpace(s.cfg.OutputDir)
	if dir == "" {
		return errOutputDirRequired
	}
	clean := filepath.Clean(dir)
	if clean == "." || clean == string(filepath.Separator) {
		return errOutputDirUnsafe
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("generator: clean %s: %w", clean, err)
	}
	return nil
}

func (s *service) renderConcurrently(
	ctx context.Context,
	siteMeta SiteMetadata,
	buildCtx *BuildContext,
	workers int,
	manifest *buildManifest,
	collect func(renderOutcome),
) error {
	jobs := make(chan *pageSpec)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				select {
				case <-ctx.Done():
					collect(renderOutcome{
						diagnostic: RenderDiagnostic{
							Kind:  page.Kind,
							Slug:  page.Slug,
							Route: page.Route,
							Err:   ctx.Err(),
						},
						err: ctx.Err(),
					})
					return
				default:
					collect(s.renderPage(ctx, siteMeta, buildCtx, page, manifest))
				}
			}
		}()
	}

	var feedErr error
	for _, page := range buildCtx.Pages {
		select {
		case <-ctx.Done():
			feedErr = ctx.Err()
		case jobs <- page:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()
	return feedErr
}

func (s *service) renderPage(
	ctx context.Context,
	siteMeta SiteMetadata,
	buildCtx *BuildContext,
	spec *pageSpec,
	manifest *buildManifest,
) renderOutcome {
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			Kind:     spec.Kind,
			Slug:     spec.Slug,
			Route:    spec.Route,
			Template: spec.Template,
		},
	}
	outcome.page.Output = spec.Output

	select {
	case <-ctx.Done():
		outcome.err = ctx.Err()
		outcome.diagnostic.Err = ctx.Err()
		return outcome
	default:
	}

	if s.cfg.Incremental && !buildCtx.Options.Force && manifest.shouldSkipPage(spec.Output, spec.Hash) {
		outcome.skipped = true
		outcome.diagnostic.Skipped = true
		return outcome
	}

	templateCtx := TemplateContext{
		Site: siteMeta,
		Page: PageContext{
			Kind:      spec.Kind,
			Title:     spec.Title,
			Permalink: absoluteURL(siteMeta.BaseURL, spec.Route),
			Tag:       spec.Tag,
			Post:      newPostView(spec.Post, siteMeta.BaseURL),
			Posts:     newPostViews(spec.Posts, siteMeta.BaseURL),
		},
		Build: BuildMetadata{
			GeneratedAt: buildCtx.GeneratedAt,
			Options:     buildCtx.Options,
		},
	}

	start := time.Now()
	rendered, err := s.deps.Renderer.RenderTemplate(spec.Template, templateCtx)
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("generator: render template %q for %s %q: %w", spec.Template, spec.Kind, spec.Route, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}

	outcome.page = RenderedPage{
		Kind:         spec.Kind,
		Slug:         spec.Slug,
		Route:        spec.Route,
		Output:       spec.Output,
		Template:     spec.Template,
		HTML:         rendered,
		Hash:         spec.Hash,
		LastModified: spec.LastModified,
		Duration:     duration,
	}
	return outcome
}

func (s *service) persistPages(ctx context.Context, writer artifactWriter, pages []RenderedPage) error {
	if len(pages) == 0 {
		return nil
	}
	dirCache := map[string]struct{}{}
	for i := range pages {
		if err := ensureDir(ctx, writer, dirCache, path.Dir(pages[i].Output)); err != nil {
			return err
		}
		checksum := computeHashFromString(pages[i].HTML)
		pages[i].Checksum = checksum

		metadata := map[string]string{
			"kind":  pages[i].Kind,
			"route": pages[i].Route,
		}
		if pages[i].Slug != "" {
			metadata["slug"] = pages[i].Slug
		}
		if s.cfg.Incremental {
			metadata["incremental"] = "true"
		}
		req := writeFileRequest{
			Path:        pages[i].Output,
			Content:     strings.NewReader(pages[i].HTML),
			Size:        int64(len(pages[i].HTML)),
			Category:    categoryPage,
			ContentType: "text/html; charset=utf-8",
			Checksum:    checksum,
			Metadata:    metadata,
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) writeArtifact(ctx context.Context, writer artifactWriter, req writeFileRequest) error {
	return writer.WriteFile(ctx, req)
}

func (s *service) writeSitemap(ctx context.Context, writer artifactWriter, buildCtx *BuildContext) error {
	content, err := buildSitemap(s.cfg.BaseURL, buildCtx.Pages, buildCtx.GeneratedAt)
	if err != nil {
		return err
	}
	return s.writeArtifact(ctx, writer, writeFileRequest{
		Path:        "sitemap.xml",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": buildCtx.GeneratedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) writeRobots(ctx context.Context, writer artifactWriter, buildCtx *BuildContext) error {
	content := buildRobots(s.cfg.BaseURL, s.cfg.GenerateSitemap)
	return s.writeArtifact(ctx, writer, writeFileRequest{
		Path:        "robots.txt",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": buildCtx.GeneratedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) loadManifest(ctx context.Context) (*buildManifest, error) {
	reader, ok := s.writer.(artifactReader)
	if !ok {
		return newBuildManifest(), nil
	}
	data, err := reader.ReadFile(ctx, manifestFileName)
	if err != nil {
		return nil, fmt.Errorf("generator: read manifest: %w", err)
	}
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	return parseManifest(data)
}

func (s *service) persistManifest(ctx context.Context, writer artifactWriter, manifest *buildManifest) error {
	if manifest == nil {
		return nil
	}
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	metadata := map[string]string{
		"version": strconv.Itoa(manifest.Version),
	}
	if !manifest.GeneratedAt.IsZero() {
		metadata["generated_at"] = manifest.GeneratedAt.UTC().Format(time.RFC3339)
	}
	return s.writeArtifact(ctx, writer, writeFileRequest{
		Path:        manifestFileName,
		Content:     strings.NewReader(string(data)),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata:    metadata,
	})
}

func (s *service) effectiveWorkerCount(pageCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > defaultMaxWorkers {
			workers = defaultMaxWorkers
		}
	}
	if workers < 1 {
		workers = 1
	}
	if pageCount > 0 && workers > pageCount {
		return pageCount
	}
	return workers
}

func (s *service) logBuild(result *BuildResult) {
	s.logger.Info("site build",
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"feeds_built", result.FeedsBuilt,
		"duration", result.Duration.String(),
		"dry_run", result.DryRun,
	)
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) BuildPost(context.Context, string) error {
	return ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}
