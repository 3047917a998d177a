package di

import (
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/lint"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/logging/console"
	"github.com/goliatone/go-press/internal/logging/gologger"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/internal/runtimeconfig"
	"github.com/goliatone/go-press/internal/scaffold"
	"github.com/goliatone/go-press/internal/server"
	"github.com/goliatone/go-press/internal/store"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Container wires the corpus services from a single configuration. Services
// are built once at construction; overrides come in through options.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	postRepo store.Repository
	parser   interfaces.MarkdownParser
	source   generator.PostSource
	clock    func() time.Time

	markdownSvc  interfaces.MarkdownService
	lintSvc      interfaces.LintService
	storeSvc     interfaces.StoreService
	generatorSvc generator.Service
	scaffoldSvc  scaffold.Service
	serverSvc    server.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB backs the corpus index with a bun database instead of the
// default in-memory repository.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCacheProvider overrides the repository cache service and key
// serializer used by the bun-backed index.
func WithCacheProvider(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithPostRepository overrides the corpus index repository binding.
func WithPostRepository(repo store.Repository) Option {
	return func(c *Container) {
		c.postRepo = repo
	}
}

// WithMarkdownParser overrides the default Goldmark parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// WithPostSource overrides where site builds read posts from. The default
// source parses the corpus directory; pass the post repository to build from
// the index instead.
func WithPostSource(source generator.PostSource) Option {
	return func(c *Container) {
		c.source = source
	}
}

// WithClock overrides the time source used by the index, scaffolder, and
// generator.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithMarkdownService overrides the default markdown service binding.
func WithMarkdownService(svc interfaces.MarkdownService) Option {
	return func(c *Container) {
		c.markdownSvc = svc
	}
}

// WithLintService overrides the default lint service binding.
func WithLintService(svc interfaces.LintService) Option {
	return func(c *Container) {
		c.lintSvc = svc
	}
}

// WithStoreService overrides the default corpus index service binding.
func WithStoreService(svc interfaces.StoreService) Option {
	return func(c *Container) {
		c.storeSvc = svc
	}
}

// WithGeneratorService overrides the default generator binding.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		c.generatorSvc = svc
	}
}

// WithScaffoldService overrides the default scaffold binding.
func WithScaffoldService(svc scaffold.Service) Option {
	return func(c *Container) {
		c.scaffoldSvc = svc
	}
}

// WithServerService overrides the default preview server binding.
func WithServerService(svc server.Service) Option {
	return func(c *Container) {
		c.serverSvc = svc
	}
}

// NewContainer validates the configuration and wires the corpus services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepository()
	if err := c.configureServices(); err != nil {
		return nil, err
	}

	return c, nil
}

// configureLogging builds a provider from the logging config unless one was
// injected. Validation already rejected unknown providers.
func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}

	logCfg := c.Config.Logging
	switch normalizeProvider(logCfg.Provider) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "noop":
		c.loggerProvider = logging.NoOpProvider()
	default:
		options := console.Options{}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			options.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(options)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if ttl := c.Config.Cache.DefaultTTL; ttl > 0 {
			cfg.TTL = ttl
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepository() {
	if c.postRepo != nil {
		return
	}
	repository := "memory"
	if c.bunDB != nil {
		repository = "bun"
		c.postRepo = store.NewBunPostRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	} else {
		c.postRepo = store.NewMemoryRepository()
	}
	logging.StoreLogger(c.loggerProvider).Info("index.configured", "repository", repository)
}

// configureServices builds every service that was not injected. Feature
// flags swap disabled implementations in for the workflows they switch off;
// loading, rendering, and linting are always available.
func (c *Container) configureServices() error {
	cfg := c.Config

	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(parseOptions(cfg.Markdown.Parser))
	}

	if c.markdownSvc == nil {
		// os.DirFS defers the existence check to first use so scaffolding
		// can run against a corpus directory that does not exist yet.
		c.markdownSvc = markdown.NewServiceWithFS(os.DirFS(cfg.ContentDir), markdown.Config{
			BasePath:  cfg.ContentDir,
			Pattern:   cfg.Markdown.Pattern,
			Recursive: cfg.Markdown.Recursive,
			Parser:    parseOptions(cfg.Markdown.Parser),
		}, c.parser)
	}

	if c.lintSvc == nil {
		svc, err := lint.New(lint.Config{
			Schema:         cfg.Lint.Schema,
			ExtraLanguages: cfg.Lint.ExtraLanguages,
			DisabledRules:  cfg.Lint.DisabledRules,
			MaxTitleLength: cfg.Lint.MaxTitleLength,
			Pattern:        cfg.Markdown.Pattern,
		}, lint.WithLogger(logging.LintLogger(c.loggerProvider)))
		if err != nil {
			return err
		}
		c.lintSvc = svc
	}

	if c.storeSvc == nil {
		c.storeSvc = store.NewIndexer(store.IndexerConfig{
			Repository: c.postRepo,
			Markdown:   c.markdownSvc,
			Logger:     logging.StoreLogger(c.loggerProvider),
			Clock:      c.clock,
		})
	}

	if c.source == nil {
		c.source = store.NewDocumentSource(c.markdownSvc, ".")
	}

	if c.generatorSvc == nil {
		if cfg.Features.Generator || cfg.Features.Preview {
			engine, err := generator.NewTemplateEngine(cfg.Generator.TemplateDir)
			if err != nil {
				return err
			}
			c.generatorSvc = generator.NewService(generator.Config{
				OutputDir:       cfg.Generator.OutputDir,
				BaseURL:         cfg.BaseURL,
				SiteTitle:       cfg.SiteTitle,
				SiteDescription: cfg.SiteDescription,
				CleanBuild:      cfg.Generator.CleanBuild,
				Incremental:     cfg.Generator.Incremental,
				GenerateSitemap: cfg.Generator.GenerateSitemap,
				GenerateRobots:  cfg.Generator.GenerateRobots,
				GenerateFeeds:   cfg.Generator.GenerateFeeds,
				Workers:         cfg.Generator.Workers,
				TemplateDir:     cfg.Generator.TemplateDir,
				PostsPerFeed:    cfg.Generator.PostsPerFeed,
			}, generator.Dependencies{
				Source:   c.source,
				Renderer: engine,
				Logger:   logging.GeneratorLogger(c.loggerProvider),
				Clock:    c.clock,
			})
		} else {
			c.generatorSvc = generator.NewDisabledService()
		}
	}

	if c.scaffoldSvc == nil {
		if cfg.Features.Scaffold {
			c.scaffoldSvc = scaffold.NewService(scaffold.Config{
				ContentDir:     cfg.ContentDir,
				DefaultAuthors: cfg.DefaultAuthors,
			}, scaffold.Dependencies{
				Logger: logging.ScaffoldLogger(c.loggerProvider),
				Clock:  c.clock,
			})
		} else {
			c.scaffoldSvc = scaffold.NewDisabledService()
		}
	}

	if c.serverSvc == nil {
		if cfg.Features.Preview {
			c.serverSvc = server.NewService(server.Config{
				Addr:       cfg.Server.Addr,
				OutputDir:  cfg.Generator.OutputDir,
				ContentDir: cfg.ContentDir,
				Watch:      cfg.Server.Watch,
				Debounce:   cfg.Server.Debounce,
			}, server.Dependencies{
				Builder: c.generatorSvc,
				Logger:  logging.ServerLogger(c.loggerProvider),
			})
		} else {
			c.serverSvc = server.NewDisabledService()
		}
	}

	return nil
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// PostRepository exposes the configured corpus index repository.
func (c *Container) PostRepository() store.Repository {
	return c.postRepo
}

// MarkdownParser exposes the configured parser.
func (c *Container) MarkdownParser() interfaces.MarkdownParser {
	return c.parser
}

// MarkdownService returns the corpus loading and rendering service.
func (c *Container) MarkdownService() interfaces.MarkdownService {
	return c.markdownSvc
}

// LintService returns the content lint service.
func (c *Container) LintService() interfaces.LintService {
	return c.lintSvc
}

// StoreService returns the corpus index service.
func (c *Container) StoreService() interfaces.StoreService {
	return c.storeSvc
}

// GeneratorService returns the site generator, or a disabled implementation
// when neither the generator nor preview feature is on.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// ScaffoldService returns the post scaffolder, or a disabled implementation
// when the feature is off.
func (c *Container) ScaffoldService() scaffold.Service {
	return c.scaffoldSvc
}

// ServerService returns the preview server, or a disabled implementation
// when the feature is off.
func (c *Container) ServerService() server.Service {
	return c.serverSvc
}

func parseOptions(cfg runtimeconfig.MarkdownParserConfig) interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: cfg.Extensions,
		Sanitize:   cfg.Sanitize,
		HardWraps:  cfg.HardWraps,
		SafeMode:   cfg.SafeMode,
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}
