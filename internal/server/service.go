package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const (
	defaultAddr     = ":8080"
	defaultDebounce = 400 * time.Millisecond
	shutdownTimeout = 10 * time.Second
)

var (
	// ErrServiceDisabled indicates the preview feature is disabled.
	ErrServiceDisabled = errors.New("server: service disabled")
	// ErrOutputDirRequired indicates no directory to serve was configured.
	ErrOutputDirRequired = errors.New("server: output directory is required")
)

// Config captures preview server behaviour.
type Config struct {
	Addr       string
	OutputDir  string
	ContentDir string
	Watch      bool
	Debounce   time.Duration
}

// Dependencies lists the collaborators the preview server uses. Builder is
// required only when watching; Logger defaults to a no-op.
type Dependencies struct {
	Builder generator.Service
	Logger  interfaces.Logger
}

// Service serves the built site until the context is cancelled.
type Service interface {
	Run(ctx context.Context) error
}

// NewService wires a preview server.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{cfg: cfg, deps: deps, logger: logger}
}

// NewDisabledService returns a Service that fails Run with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
}

type disabledService struct{}

// Run serves OutputDir until ctx is cancelled, rebuilding on corpus changes
// when watching is enabled. Rebuild failures keep the previous output online.
func (s *service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	outputDir := strings.TrimSpace(s.cfg.OutputDir)
	if outputDir == "" {
		return ErrOutputDirRequired
	}

	app := s.buildApp(outputDir)

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()

	var wg sync.WaitGroup
	if s.watchEnabled() {
		watcher, err := s.newWatcher()
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer watcher.Close()
			s.watchLoop(watchCtx, watcher)
		}()
	}

	addr := strings.TrimSpace(s.cfg.Addr)
	if addr == "" {
		addr = defaultAddr
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", addr, "dir", outputDir)
		if err := app.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		cancelWatch()
		wg.Wait()
		if err != nil {
			return fmt.Errorf("server: listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	cancelWatch()
	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	<-errCh
	s.logger.Info("preview server stopped")
	return nil
}

func (s *service) buildApp(outputDir string) *echo.Echo {
	app := echo.New()
	app.HideBanner = true
	app.HidePort = true

	app.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error == nil {
				s.logger.Info("request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
				)
			} else {
				s.logger.Error("request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error(),
				)
			}
			return nil
		},
	}))
	app.Use(middleware.Recover())
	app.Use(middleware.Gzip())

	app.Static("/", outputDir)
	return app
}

func (s *service) watchEnabled() bool {
	return s.cfg.Watch && s.deps.Builder != nil && strings.TrimSpace(s.cfg.ContentDir) != ""
}

// newWatcher watches the content directory and every directory below it.
func (s *service) newWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("server: create watcher: %w", err)
	}

	root := strings.TrimSpace(s.cfg.ContentDir)
	walkErr := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if walkErr != nil {
		watcher.Close()
		return nil, fmt.Errorf("server: watch %s: %w", root, walkErr)
	}
	return watcher, nil
}

func (s *service) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	debounce := s.cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	trigger := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						s.logger.Error("watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !relevantEvent(event) {
				continue
			}
			s.logger.Debug("corpus change detected", "path", event.Name, "op", event.Op.String())
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("watcher error", "error", err)
		case <-timerC:
			timer = nil
			timerC = nil
			s.rebuild(ctx)
		}
	}
}

// relevantEvent filters out editor noise: only markdown writes, creates,
// removes, and renames trigger a rebuild.
func relevantEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) &&
		!event.Op.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasSuffix(strings.ToLower(event.Name), ".md")
}

func (s *service) rebuild(ctx context.Context) {
	start := time.Now()
	result, err := s.deps.Builder.Build(ctx, generator.BuildOptions{})
	if err != nil {
		s.logger.Error("rebuild failed, serving previous output", "error", err)
		return
	}
	s.logger.Info("site rebuilt",
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"duration", time.Since(start).String(),
	)
}

func (disabledService) Run(context.Context) error {
	return ErrServiceDisabled
}
