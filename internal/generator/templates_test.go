package generator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func postTemplateContext() TemplateContext {
	record := corpusPost("hello-world", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), []string{"go"}, "hello body")
	return TemplateContext{
		Site: SiteMetadata{
			BaseURL: "https://blog.example.com",
			Title:   "Example Engineering",
		},
		Page: PageContext{
			Kind:      kindPost,
			Title:     record.Title,
			Permalink: "https://blog.example.com/posts/hello-world/",
			Post:      newPostView(record, "https://blog.example.com"),
		},
		Build: BuildMetadata{GeneratedAt: buildTime},
	}
}

func TestTemplateEngineRendersEmbeddedPost(t *testing.T) {
	engine, err := NewTemplateEngine("")
	if err != nil {
		t.Fatalf("template engine: %v", err)
	}

	html, err := engine.RenderTemplate(templatePost, postTemplateContext())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<h1>Post hello-world</h1>") {
		t.Fatalf("missing post title:\n%s", html)
	}
	if !strings.Contains(html, "<p>hello body</p>") {
		t.Fatalf("markdown body must pass through unescaped:\n%s", html)
	}
	if !strings.Contains(html, `datetime="2025-03-10"`) {
		t.Fatalf("missing iso date:\n%s", html)
	}
	if !strings.Contains(html, "https://blog.example.com/tags/go/") {
		t.Fatalf("missing tag link:\n%s", html)
	}
}

func TestTemplateEngineAppliesOverrides(t *testing.T) {
	overrideDir := t.TempDir()
	override := `{{define "post"}}<article data-theme="custom">{{.Page.Post.Title}}</article>{{end}}`
	if err := os.WriteFile(filepath.Join(overrideDir, "post.tmpl"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	engine, err := NewTemplateEngine(overrideDir)
	if err != nil {
		t.Fatalf("template engine: %v", err)
	}

	html, err := engine.RenderTemplate(templatePost, postTemplateContext())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `data-theme="custom"`) {
		t.Fatalf("override template must win:\n%s", html)
	}

	// templates the override directory does not define keep their defaults
	archiveCtx := postTemplateContext()
	archiveCtx.Page = PageContext{Kind: kindArchive, Title: "Posts"}
	archive, err := engine.RenderTemplate(templateArchive, archiveCtx)
	if err != nil {
		t.Fatalf("render archive: %v", err)
	}
	if !strings.Contains(archive, "No posts yet.") {
		t.Fatalf("default archive template must survive:\n%s", archive)
	}
}

func TestTemplateEngineCopiesToWriters(t *testing.T) {
	engine, err := NewTemplateEngine("")
	if err != nil {
		t.Fatalf("template engine: %v", err)
	}

	var buf bytes.Buffer
	html, err := engine.RenderTemplate(templatePost, postTemplateContext(), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != html {
		t.Fatal("writer copy must match returned output")
	}
}

func TestTemplateEngineUnknownTemplate(t *testing.T) {
	engine, err := NewTemplateEngine("")
	if err != nil {
		t.Fatalf("template engine: %v", err)
	}
	if _, err := engine.RenderTemplate("missing", postTemplateContext()); err == nil {
		t.Fatal("expected unknown template error")
	}
}
