package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-press/pkg/interfaces"
	"github.com/goliatone/go-press/post"
)

// DocumentSource lists posts straight from the markdown corpus on disk,
// letting site builds run without a repository in between.
type DocumentSource struct {
	markdown interfaces.MarkdownService
	dir      string
	clock    func() time.Time
}

// NewDocumentSource builds a source over the corpus rooted at dir.
func NewDocumentSource(markdown interfaces.MarkdownService, dir string) *DocumentSource {
	return &DocumentSource{
		markdown: markdown,
		dir:      dir,
		clock:    time.Now,
	}
}

// List parses every document under the corpus directory and maps it to a post
// record, sorted by slug. Invalid documents and duplicate slugs fail the
// listing rather than silently dropping posts from a build.
func (s *DocumentSource) List(ctx context.Context) ([]*post.Post, error) {
	if s.markdown == nil {
		return nil, ErrMarkdownRequired
	}
	docs, err := s.markdown.LoadDirectory(ctx, s.dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("store: load corpus %s: %w", s.dir, err)
	}

	now := s.clock()
	records := make([]*post.Post, 0, len(docs))
	seen := make(map[string]string, len(docs))
	for _, doc := range sortDocuments(docs) {
		record, err := buildPostRecord(doc, now)
		if err != nil {
			return nil, err
		}
		key := normaliseSlug(record.Slug)
		if previous, ok := seen[key]; ok {
			return nil, &post.DuplicateSlugError{
				Slug:         record.Slug,
				Path:         record.SourcePath,
				ExistingPath: previous,
			}
		}
		seen[key] = record.SourcePath
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Slug < records[j].Slug
	})
	return records, nil
}
