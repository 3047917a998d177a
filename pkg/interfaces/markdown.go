package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw markdown bytes are converted into HTML.
// Implementations should be reusable across documents and honour per-call
// option overrides so hosts can tailor rendering without rebuilding the
// parser.
type MarkdownParser interface {
	// Parse converts markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService exposes the file-centric corpus workflows: loading post
// documents from the content root and converting their bodies into HTML.
// Index and sync workflows build on these primitives in the store layer.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// Document represents a markdown post file with parsed metadata and content.
// The struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract.
type Document struct {
	FilePath     string
	Slug         string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	Fences       []CodeFence
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content so sync
	// workflows can detect changes without re-importing unchanged files.
	Checksum []byte
}

// FrontMatter models the post metadata block: title, date and tags are the
// required trio, authors is optional. Unknown keys are preserved in Custom
// and the full decoded mapping in Raw for schema-driven validation.
type FrontMatter struct {
	Title   string         `yaml:"title" json:"title"`
	Date    time.Time      `yaml:"date" json:"date"`
	Tags    []string       `yaml:"tags" json:"tags"`
	Authors []string       `yaml:"authors" json:"authors,omitempty"`
	Summary string         `yaml:"summary" json:"summary,omitempty"`
	Custom  map[string]any `yaml:",inline" json:"custom,omitempty"`
	Raw     map[string]any `yaml:"-" json:"raw,omitempty"`
}

// CodeFence captures a fenced code block found in a post body. Language is
// the first info-string token lowercased; Line is the 1-based line number of
// the opening fence within the body.
type CodeFence struct {
	Language string
	Info     string
	Body     string
	Line     int
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}
