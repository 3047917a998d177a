package scaffoldcmd

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-press/post"
)

const scaffoldPostMessageType = "press.scaffold.create"

// ScaffoldPostCommand creates a new markdown post skeleton in the corpus.
// The slug is derived from Title unless an explicit kebab-case Slug is given.
type ScaffoldPostCommand struct {
	// Title names the post and seeds the slug.
	Title string `json:"title"`
	// Slug overrides the derived slug; it must already be kebab-case.
	Slug string `json:"slug,omitempty"`
	// Tags seed the front matter tag list.
	Tags []string `json:"tags,omitempty"`
	// Authors seed the front matter author list.
	Authors []string `json:"authors,omitempty"`
	// Date stamps the post; the zero value defaults to the current time.
	Date time.Time `json:"date,omitempty"`
	// Directory overrides the configured content directory.
	Directory string `json:"directory,omitempty"`
	// Force overwrites an existing post file.
	Force bool `json:"force,omitempty"`
}

// Type implements command.Message.
func (ScaffoldPostCommand) Type() string { return scaffoldPostMessageType }

// Validate ensures the title is present and any explicit slug is canonical.
func (cmd ScaffoldPostCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Title, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.scaffold.create.title_required", "title is required")
			}
			return nil
		})),
		validation.Field(&cmd.Slug, validation.By(func(value any) error {
			slug := strings.TrimSpace(value.(string))
			if slug == "" {
				return nil
			}
			if !post.IsValidSlug(slug) {
				return validation.NewError("press.scaffold.create.slug_invalid", "slug must be kebab-case")
			}
			return nil
		})),
	)
}
