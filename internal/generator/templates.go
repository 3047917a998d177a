package generator

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-press/pkg/interfaces"
	"github.com/goliatone/go-press/post"
)

const (
	templatePost    = "post"
	templateArchive = "archive"
	templateTag     = "tag"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// TemplateEngine renders pages with html/template. The embedded defaults
// cover every page kind; templates parsed from an override directory replace
// same-named definitions.
type TemplateEngine struct {
	templates *template.Template
}

var _ interfaces.TemplateRenderer = (*TemplateEngine)(nil)

// NewTemplateEngine parses the embedded template set, then overlays *.tmpl
// files from overrideDir when one is configured.
func NewTemplateEngine(overrideDir string) (*TemplateEngine, error) {
	root := template.New("press").Funcs(templateFuncs())
	root, err := root.ParseFS(defaultTemplates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("generator: parse embedded templates: %w", err)
	}
	if dir := strings.TrimSpace(overrideDir); dir != "" {
		root, err = root.ParseGlob(filepath.Join(dir, "*.tmpl"))
		if err != nil {
			return nil, fmt.Errorf("generator: parse template overrides: %w", err)
		}
	}
	return &TemplateEngine{templates: root}, nil
}

// RenderTemplate executes the named template and returns the rendered output.
func (e *TemplateEngine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templates == nil {
		return "", fmt.Errorf("generator: template engine not initialised")
	}
	var buf strings.Builder
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	rendered := buf.String()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return rendered, err
		}
	}
	return rendered, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string { return t.Format("January 2, 2006") },
		"isoDate":    func(t time.Time) string { return t.Format("2006-01-02") },
		"join":       strings.Join,
		"tagURL": func(base, tag string) string {
			slug, err := post.Slugify(tag)
			if err != nil || slug == "" {
				return absoluteURL(base, "/")
			}
			return absoluteURL(base, tagRoute(slug))
		},
	}
}
