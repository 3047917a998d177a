package post

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is the atomic unit of the corpus: one markdown file under the content
// root, identified by its kebab-case slug.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID         uuid.UUID `bun:",pk,type:uuid"            json:"id"`
	Slug       string    `bun:"slug,notnull,unique"      json:"slug"`
	Title      string    `bun:"title,notnull"            json:"title"`
	Date       time.Time `bun:"date,notnull"             json:"date"`
	Tags       []string  `bun:"tags,type:jsonb"          json:"tags"`
	Authors    []string  `bun:"authors,type:jsonb"       json:"authors,omitempty"`
	Summary    *string   `bun:"summary"                  json:"summary,omitempty"`
	Body       string    `bun:"body,notnull"             json:"body"`
	BodyHTML   string    `bun:"body_html"                json:"body_html,omitempty"`
	SourcePath string    `bun:"source_path,notnull"      json:"source_path"`
	Checksum   string    `bun:"checksum,notnull"         json:"checksum"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Validate reports the first contract violation on the record. Tags must be
// present (an empty list is fine); a nil slice means the front matter never
// carried the key.
func (p *Post) Validate() error {
	if p == nil {
		return ErrPostRequired
	}
	if strings.TrimSpace(p.Slug) == "" {
		return ErrSlugRequired
	}
	if !IsValidSlug(p.Slug) {
		return ErrSlugInvalid
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if p.Date.IsZero() {
		return ErrDateRequired
	}
	if p.Tags == nil {
		return ErrTagsRequired
	}
	return nil
}

// HasTag reports whether the post carries the given tag (case-insensitive).
func (p *Post) HasTag(tag string) bool {
	if p == nil {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(tag))
	if needle == "" {
		return false
	}
	for _, candidate := range p.Tags {
		if strings.ToLower(strings.TrimSpace(candidate)) == needle {
			return true
		}
	}
	return false
}

// Published reports whether the post's date is at or before the supplied
// reference time. Posts dated in the future are treated as scheduled.
func (p *Post) Published(now time.Time) bool {
	if p == nil || p.Date.IsZero() {
		return false
	}
	return !p.Date.After(now)
}
