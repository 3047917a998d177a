package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
	"github.com/goliatone/go-press/post"
)

var (
	// ErrServiceDisabled indicates the scaffold feature is disabled.
	ErrServiceDisabled = errors.New("scaffold: service disabled")
	// ErrTitleRequired indicates the create input carried no title.
	ErrTitleRequired = errors.New("scaffold: title is required")
	// ErrDirRequired indicates no content directory was configured or supplied.
	ErrDirRequired = errors.New("scaffold: content directory is required")
)

// ExistsError reports a scaffold target that already exists on disk.
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("scaffold: %s already exists", e.Path)
}

// CreateInput describes the post file to scaffold. Slug is derived from Title
// when empty; Dir overrides the configured content directory.
type CreateInput struct {
	Title   string
	Slug    string
	Tags    []string
	Authors []string
	Date    time.Time
	Dir     string
	Force   bool
}

// CreatedPost reports what Create wrote.
type CreatedPost struct {
	Slug string
	Path string
	Date time.Time
}

// Service creates new corpus post files.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CreatedPost, error)
}

// Config captures scaffold defaults.
type Config struct {
	ContentDir     string
	DefaultAuthors []string
}

// Dependencies lists optional collaborators.
type Dependencies struct {
	Logger interfaces.Logger
	Clock  func() time.Time
}

// NewService wires a scaffolder with the provided configuration.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &service{cfg: cfg, logger: logger, now: now}
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	logger interfaces.Logger
	now    func() time.Time
}

type disabledService struct{}

func (s *service) Create(ctx context.Context, input CreateInput) (*CreatedPost, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	postSlug := strings.TrimSpace(input.Slug)
	if postSlug == "" {
		derived, err := post.Slugify(title)
		if err != nil {
			return nil, fmt.Errorf("scaffold: derive slug from %q: %w", title, err)
		}
		postSlug = derived
	} else if !post.IsValidSlug(postSlug) {
		return nil, fmt.Errorf("scaffold: slug %q is not kebab-case", postSlug)
	}

	dir := strings.TrimSpace(input.Dir)
	if dir == "" {
		dir = strings.TrimSpace(s.cfg.ContentDir)
	}
	if dir == "" {
		return nil, ErrDirRequired
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}
	date = date.UTC().Truncate(time.Second)

	authors := normaliseList(input.Authors)
	if len(authors) == 0 {
		authors = normaliseList(s.cfg.DefaultAuthors)
	}

	content, err := renderPostFile(title, date, normaliseList(input.Tags), authors)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(dir, postSlug+".md")
	if !input.Force {
		if _, statErr := os.Stat(target); statErr == nil {
			return nil, &ExistsError{Path: target}
		} else if !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("scaffold: stat %s: %w", target, statErr)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("scaffold: create %s: %w", dir, err)
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return nil, fmt.Errorf("scaffold: write %s: %w", target, err)
	}

	logging.WithPostContext(s.logger, target, postSlug, "scaffold").Info("post scaffolded")
	return &CreatedPost{Slug: postSlug, Path: target, Date: date}, nil
}

// postFrontMatter fixes the key order corpus files use. Tags render in flow
// style so an empty list stays an explicit [].
type postFrontMatter struct {
	Title   string    `yaml:"title"`
	Date    time.Time `yaml:"date"`
	Tags    []string  `yaml:"tags,flow"`
	Authors []string  `yaml:"authors,flow,omitempty"`
}

func renderPostFile(title string, date time.Time, tags, authors []string) ([]byte, error) {
	meta := postFrontMatter{
		Title:   title,
		Date:    date,
		Tags:    tags,
		Authors: authors,
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("scaffold: encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("scaffold: encode front matter: %w", err)
	}
	buf.WriteString("---\n")
	buf.WriteString("\n")
	buf.WriteString("Write your post here.\n")
	return buf.Bytes(), nil
}

func normaliseList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (disabledService) Create(context.Context, CreateInput) (*CreatedPost, error) {
	return nil, ErrServiceDisabled
}
