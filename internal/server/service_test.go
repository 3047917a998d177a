package server

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/pkg/interfaces"
)

type stubBuilder struct {
	mu     sync.Mutex
	builds int
	err    error
}

func (b *stubBuilder) Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.builds++
	if b.err != nil {
		return nil, b.err
	}
	return &generator.BuildResult{PagesBuilt: 3}, nil
}

func (b *stubBuilder) BuildPost(context.Context, string) error { return nil }

func (b *stubBuilder) Clean(context.Context) error { return nil }

func (b *stubBuilder) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.builds
}

type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.record(msg) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.record(msg) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record(msg) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record(msg) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record(msg) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.record(msg) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *recordingLogger) has(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m == msg {
			return true
		}
	}
	return false
}

func writeOutputFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	pages := map[string]string{
		"index.html":             "<html><body>Archive</body></html>",
		"posts/hello/index.html": "<html><body>Hello, world</body></html>",
		"tags/go/index.html":     "<html><body>Posts tagged go</body></html>",
		"feed.xml":               `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"></rss>`,
	}
	for name, body := range pages {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestBuildAppServesOutputDir(t *testing.T) {
	outputDir := writeOutputFixture(t)

	svc, ok := NewService(Config{OutputDir: outputDir}, Dependencies{}).(*service)
	if !ok {
		t.Fatal("expected *service implementation")
	}
	app := svc.buildApp(outputDir)

	cases := []struct {
		path   string
		status int
		body   string
	}{
		{path: "/", status: http.StatusOK, body: "Archive"},
		{path: "/posts/hello/", status: http.StatusOK, body: "Hello, world"},
		{path: "/tags/go/", status: http.StatusOK, body: "Posts tagged go"},
		{path: "/feed.xml", status: http.StatusOK, body: "rss"},
		{path: "/posts/missing/", status: http.StatusNotFound, body: ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		if rec.Code != tc.status {
			t.Fatalf("GET %s status = %d, want %d", tc.path, rec.Code, tc.status)
		}
		if tc.body != "" && !strings.Contains(rec.Body.String(), tc.body) {
			t.Fatalf("GET %s body %q missing %q", tc.path, rec.Body.String(), tc.body)
		}
	}
}

func TestBuildAppCompressesResponses(t *testing.T) {
	outputDir := writeOutputFixture(t)

	svc := NewService(Config{OutputDir: outputDir}, Dependencies{}).(*service)
	app := svc.buildApp(outputDir)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}

	reader, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "Archive") {
		t.Fatalf("decompressed body %q missing archive page", body)
	}
}

func TestRunRequiresOutputDir(t *testing.T) {
	svc := NewService(Config{OutputDir: "   "}, Dependencies{})

	if err := svc.Run(context.Background()); !errors.Is(err, ErrOutputDirRequired) {
		t.Fatalf("Run error = %v, want ErrOutputDirRequired", err)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	outputDir := writeOutputFixture(t)

	svc := NewService(Config{
		Addr:      "127.0.0.1:0",
		OutputDir: outputDir,
	}, Dependencies{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestRunRebuildsOnCorpusChange(t *testing.T) {
	outputDir := writeOutputFixture(t)
	contentDir := t.TempDir()
	builder := &stubBuilder{}

	svc := NewService(Config{
		Addr:       "127.0.0.1:0",
		OutputDir:  outputDir,
		ContentDir: contentDir,
		Watch:      true,
		Debounce:   25 * time.Millisecond,
	}, Dependencies{Builder: builder})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for builder.count() == 0 && time.Now().Before(deadline) {
		content := fmt.Sprintf("# Draft %d\n", time.Now().UnixNano())
		if err := os.WriteFile(filepath.Join(contentDir, "draft.md"), []byte(content), 0o644); err != nil {
			t.Fatalf("write corpus file: %v", err)
		}
		time.Sleep(150 * time.Millisecond)
	}
	if builder.count() == 0 {
		t.Fatal("builder was never invoked after corpus change")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestWatchLoopCollapsesBurstsAndIgnoresNoise(t *testing.T) {
	contentDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(contentDir, "drafts"), 0o755); err != nil {
		t.Fatalf("mkdir drafts: %v", err)
	}
	builder := &stubBuilder{}

	svc := NewService(Config{
		OutputDir:  t.TempDir(),
		ContentDir: contentDir,
		Watch:      true,
		Debounce:   300 * time.Millisecond,
	}, Dependencies{Builder: builder}).(*service)

	watcher, err := svc.newWatcher()
	if err != nil {
		t.Fatalf("newWatcher: %v", err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		svc.watchLoop(ctx, watcher)
	}()

	names := []string{"first.md", "second.md", filepath.Join("drafts", "third.md")}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(contentDir, name), []byte("# Post\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for builder.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if got := builder.count(); got != 1 {
		t.Fatalf("builds after burst = %d, want 1", got)
	}

	// A quiet period plus a non-markdown write must not retrigger.
	time.Sleep(500 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(contentDir, "scratch.tmp"), []byte("noise"), 0o644); err != nil {
		t.Fatalf("write noise file: %v", err)
	}
	time.Sleep(500 * time.Millisecond)
	if got := builder.count(); got != 1 {
		t.Fatalf("builds after noise = %d, want 1", got)
	}

	cancel()
	select {
	case <-loopDone:
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not exit after cancel")
	}
}

func TestRebuildFailureKeepsPreviousOutput(t *testing.T) {
	builder := &stubBuilder{err: errors.New("generator: boom")}
	logger := &recordingLogger{}

	svc := NewService(Config{OutputDir: t.TempDir()}, Dependencies{
		Builder: builder,
		Logger:  logger,
	}).(*service)

	svc.rebuild(context.Background())

	if builder.count() != 1 {
		t.Fatalf("builds = %d, want 1", builder.count())
	}
	if !logger.has("rebuild failed, serving previous output") {
		t.Fatalf("rebuild failure was not logged, got %v", logger.messages)
	}
}

func TestRebuildLogsResult(t *testing.T) {
	builder := &stubBuilder{}
	logger := &recordingLogger{}

	svc := NewService(Config{OutputDir: t.TempDir()}, Dependencies{
		Builder: builder,
		Logger:  logger,
	}).(*service)

	svc.rebuild(context.Background())

	if !logger.has("site rebuilt") {
		t.Fatalf("rebuild success was not logged, got %v", logger.messages)
	}
}

func TestRelevantEvent(t *testing.T) {
	cases := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "markdown write", event: fsnotify.Event{Name: "site/content/posts/hello.md", Op: fsnotify.Write}, want: true},
		{name: "markdown create", event: fsnotify.Event{Name: "site/content/posts/new.md", Op: fsnotify.Create}, want: true},
		{name: "markdown remove", event: fsnotify.Event{Name: "site/content/posts/old.md", Op: fsnotify.Remove}, want: true},
		{name: "markdown rename", event: fsnotify.Event{Name: "site/content/posts/moved.md", Op: fsnotify.Rename}, want: true},
		{name: "uppercase extension", event: fsnotify.Event{Name: "site/content/posts/HELLO.MD", Op: fsnotify.Write}, want: true},
		{name: "chmod only", event: fsnotify.Event{Name: "site/content/posts/hello.md", Op: fsnotify.Chmod}, want: false},
		{name: "editor swap file", event: fsnotify.Event{Name: "site/content/posts/.hello.md.swp", Op: fsnotify.Write}, want: false},
		{name: "temp file", event: fsnotify.Event{Name: "site/content/posts/hello.tmp", Op: fsnotify.Write}, want: false},
	}
	for _, tc := range cases {
		if got := relevantEvent(tc.event); got != tc.want {
			t.Fatalf("%s: relevantEvent = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestWatchEnabledRequiresCollaborators(t *testing.T) {
	builder := &stubBuilder{}

	cases := []struct {
		name string
		cfg  Config
		deps Dependencies
		want bool
	}{
		{name: "all present", cfg: Config{Watch: true, ContentDir: "site/content/posts"}, deps: Dependencies{Builder: builder}, want: true},
		{name: "watch disabled", cfg: Config{Watch: false, ContentDir: "site/content/posts"}, deps: Dependencies{Builder: builder}, want: false},
		{name: "no builder", cfg: Config{Watch: true, ContentDir: "site/content/posts"}, deps: Dependencies{}, want: false},
		{name: "no content dir", cfg: Config{Watch: true, ContentDir: "  "}, deps: Dependencies{Builder: builder}, want: false},
	}
	for _, tc := range cases {
		svc := NewService(tc.cfg, tc.deps).(*service)
		if got := svc.watchEnabled(); got != tc.want {
			t.Fatalf("%s: watchEnabled = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDisabledServiceRefusesRun(t *testing.T) {
	svc := NewDisabledService()

	if err := svc.Run(context.Background()); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("Run error = %v, want ErrServiceDisabled", err)
	}
}
