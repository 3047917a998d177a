package post

import (
	"errors"
	"fmt"
)

var (
	// ErrPostRequired indicates a nil post was handed to an operation.
	ErrPostRequired = errors.New("post: post is required")
	// ErrSlugRequired indicates the slug was empty.
	ErrSlugRequired = errors.New("post: slug is required")
	// ErrSlugInvalid indicates the slug is not canonical kebab-case.
	ErrSlugInvalid = errors.New("post: slug contains invalid characters")
	// ErrSlugExists indicates another post already owns the slug.
	ErrSlugExists = errors.New("post: slug already exists")
	// ErrTitleRequired indicates the title was empty.
	ErrTitleRequired = errors.New("post: title is required")
	// ErrDateRequired indicates the publication date was missing.
	ErrDateRequired = errors.New("post: date is required")
	// ErrTagsRequired indicates the tags key was absent. An empty list
	// satisfies the contract; a missing key does not.
	ErrTagsRequired = errors.New("post: tags must be present")
	// ErrNotFound indicates no post matched the lookup.
	ErrNotFound = errors.New("post: not found")
)

// NotFoundError describes a missing record with enough context for callers
// to build a useful message.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// DuplicateSlugError reports a slug collision between two source files.
type DuplicateSlugError struct {
	Slug         string
	Path         string
	ExistingPath string
}

func (e *DuplicateSlugError) Error() string {
	if e.ExistingPath != "" {
		return fmt.Sprintf("slug %q in %s already claimed by %s", e.Slug, e.Path, e.ExistingPath)
	}
	return fmt.Sprintf("slug %q already exists", e.Slug)
}

func (e *DuplicateSlugError) Unwrap() error {
	return ErrSlugExists
}
