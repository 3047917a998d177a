package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/logging/console"
	"github.com/goliatone/go-press/pkg/interfaces"
)

func capture(buf *bytes.Buffer, min console.Level, clock func() time.Time) interfaces.LoggerProvider {
	return console.NewProvider(console.Options{Writer: buf, TimeFunc: clock, MinLevel: &min})
}

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2025, 6, 2, 9, 30, 12, 250000000, time.UTC)
	provider := capture(&buf, console.LevelDebug, func() time.Time { return at })

	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"correlation_id": "req-5150",
	})
	logger := logging.WithFields(provider.GetLogger("press.index"), map[string]any{
		"module": "press.index",
	}).WithContext(ctx)

	postID := uuid.MustParse("1f0af4d2-9c63-4c57-8f4d-6a93f3cf02b1")
	logger.Info("post.indexed",
		"post_id", postID,
		"published_at", time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC),
	)

	want := "2025-06-02T09:30:12.25Z INFO post.indexed correlation_id=req-5150 logger=press.index module=press.index post_id=1f0af4d2-9c63-4c57-8f4d-6a93f3cf02b1 published_at=2025-06-01T07:00:00Z"
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := capture(&buf, console.LevelWarn, time.Now).GetLogger("press.test")

	logger.Trace("skipped.trace")
	logger.Debug("skipped.debug")
	logger.Info("skipped.info")
	logger.Warn("kept.warn")
	logger.Error("kept.error")

	out := strings.TrimSpace(buf.String())
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two log lines, got %d: %q", len(lines), out)
	}
	for _, line := range lines {
		if strings.Contains(line, "skipped.") {
			t.Fatalf("suppressed level leaked through: %s", line)
		}
	}
	if !strings.Contains(lines[0], "kept.warn") || !strings.Contains(lines[1], "kept.error") {
		t.Fatalf("unexpected ordering: %q", out)
	}
}

func TestConsoleLogger_QuotesAwkwardValues(t *testing.T) {
	var buf bytes.Buffer
	logger := capture(&buf, console.LevelDebug, time.Now).GetLogger("press.lint")

	logger.Info("lint.report",
		"message", "title exceeds 80 characters",
		"path", "site/content/posts/hello.md",
	)

	line := buf.String()
	if !strings.Contains(line, `message="title exceeds 80 characters"`) {
		t.Fatalf("expected value with spaces to be quoted, got %s", line)
	}
	if !strings.Contains(line, "path=site/content/posts/hello.md") {
		t.Fatalf("expected bare token to stay unquoted, got %s", line)
	}
}

func TestConsoleLogger_DanglingArgumentGetsPositionalKey(t *testing.T) {
	var buf bytes.Buffer
	logger := capture(&buf, console.LevelDebug, time.Now).GetLogger("press.store")

	logger.Info("sync.finished", "orphan")

	if line := buf.String(); !strings.Contains(line, "field_0=orphan") {
		t.Fatalf("expected positional key for dangling argument, got %s", line)
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name string
		want console.Level
		ok   bool
	}{
		{"trace", console.LevelTrace, true},
		{" WARN ", console.LevelWarn, true},
		{"warning", console.LevelWarn, true},
		{"fatal", console.LevelFatal, true},
		{"verbose", console.LevelInfo, false},
	}
	for _, tc := range cases {
		got, ok := console.ParseLevel(tc.name)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseLevel(%q) = %v, %v, want %v, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}
