package generator

import (
	"html/template"
	"time"

	"github.com/goliatone/go-press/post"
)

const (
	kindPost    = "post"
	kindArchive = "archive"
	kindTag     = "tag"
)

// pageSpec describes one output page before rendering. Post pages carry a
// single post; archive and tag pages carry the listing they render.
type pageSpec struct {
	Kind         string
	Slug         string
	Route        string
	Output       string
	Template     string
	Title        string
	Post         *post.Post
	Posts        []*post.Post
	Tag          string
	Hash         string
	LastModified time.Time
}

// TemplateContext is the data contract handed to every template execution.
type TemplateContext struct {
	Site  SiteMetadata
	Page  PageContext
	Build BuildMetadata
}

// SiteMetadata exposes site-wide values to templates.
type SiteMetadata struct {
	BaseURL     string
	Title       string
	Description string
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	GeneratedAt time.Time
	Options     BuildOptions
}

// PageContext contains the resolved data for a single page.
type PageContext struct {
	Kind      string
	Title     string
	Permalink string
	Tag       string
	Post      *PostView
	Posts     []*PostView
}

// PostView adapts a post record for template consumption: the rendered body
// is exposed as trusted HTML, everything else stays escapable text.
type PostView struct {
	Slug      string
	Title     string
	Date      time.Time
	Tags      []string
	Authors   []string
	Summary   string
	Content   template.HTML
	Permalink string
}

func newPostView(record *post.Post, baseURL string) *PostView {
	if record == nil {
		return nil
	}
	view := &PostView{
		Slug:      record.Slug,
		Title:     record.Title,
		Date:      record.Date,
		Tags:      append([]string{}, record.Tags...),
		Authors:   append([]string{}, record.Authors...),
		Content:   template.HTML(record.BodyHTML),
		Permalink: absoluteURL(baseURL, postRoute(record.Slug)),
	}
	if record.Summary != nil {
		view.Summary = *record.Summary
	}
	return view
}

func newPostViews(records []*post.Post, baseURL string) []*PostView {
	views := make([]*PostView, 0, len(records))
	for _, record := range records {
		if view := newPostView(record, baseURL); view != nil {
			views = append(views, view)
		}
	}
	return views
}

// RenderedPage captures the rendered HTML output for a page.
type RenderedPage struct {
	Kind         string
	Slug         string
	Route        string
	Output       string
	Template     string
	HTML         string
	Hash         string
	LastModified time.Time
	Duration     time.Duration
	Checksum     string
}

// RenderDiagnostic records rendering timing and errors for individual pages.
type RenderDiagnostic struct {
	Kind     string
	Slug     string
	Route    string
	Template string
	Duration time.Duration
	Skipped  bool
	Err      error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}
