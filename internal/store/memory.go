package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-press/internal/identity"
	"github.com/goliatone/go-press/post"
)

// MemoryRepository is an in-memory Repository for embedded use and tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	posts     map[uuid.UUID]*post.Post
	slugIndex map[string]uuid.UUID
}

// NewMemoryRepository creates an empty in-memory post repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		posts:     make(map[uuid.UUID]*post.Post),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied post. Records without an ID get the
// deterministic identifier derived from their slug.
func (m *MemoryRepository) Create(_ context.Context, record *post.Post) (*post.Post, error) {
	if record == nil {
		return nil, post.ErrPostRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	slug := normaliseSlug(record.Slug)
	if existingID, ok := m.slugIndex[slug]; ok {
		existing := m.posts[existingID]
		return nil, &post.DuplicateSlugError{
			Slug:         record.Slug,
			Path:         record.SourcePath,
			ExistingPath: existing.SourcePath,
		}
	}

	copied := clonePost(record)
	if copied.ID == uuid.Nil {
		copied.ID = identity.PostUUID(copied.Slug)
	}
	m.posts[copied.ID] = copied
	m.slugIndex[slug] = copied.ID
	return clonePost(copied), nil
}

// Update replaces the stored record, keyed by ID.
func (m *MemoryRepository) Update(_ context.Context, record *post.Post) (*post.Post, error) {
	if record == nil {
		return nil, post.ErrPostRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.posts[record.ID]
	if !ok {
		return nil, &post.NotFoundError{Resource: "post", Key: record.ID.String()}
	}

	copied := clonePost(record)
	delete(m.slugIndex, normaliseSlug(current.Slug))
	m.posts[copied.ID] = copied
	m.slugIndex[normaliseSlug(copied.Slug)] = copied.ID
	return clonePost(copied), nil
}

// GetByID retrieves a post by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.posts[id]
	if !ok {
		return nil, &post.NotFoundError{Resource: "post", Key: id.String()}
	}
	return clonePost(record), nil
}

// GetBySlug retrieves a post by slug, returning NotFoundError when absent.
func (m *MemoryRepository) GetBySlug(_ context.Context, slug string) (*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[normaliseSlug(slug)]
	if !ok {
		return nil, &post.NotFoundError{Resource: "post", Key: slug}
	}
	return clonePost(m.posts[id]), nil
}

// List returns all posts ordered by slug.
func (m *MemoryRepository) List(_ context.Context) ([]*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*post.Post, 0, len(m.posts))
	for _, record := range m.posts {
		out = append(out, clonePost(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

// ListByTag returns posts carrying the tag, ordered by slug.
func (m *MemoryRepository) ListByTag(ctx context.Context, tag string) ([]*post.Post, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*post.Post, 0, len(all))
	for _, record := range all {
		if record.HasTag(tag) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

// DeleteBySlug removes a post, returning NotFoundError when absent.
func (m *MemoryRepository) DeleteBySlug(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := normaliseSlug(slug)
	id, ok := m.slugIndex[key]
	if !ok {
		return &post.NotFoundError{Resource: "post", Key: slug}
	}
	delete(m.posts, id)
	delete(m.slugIndex, key)
	return nil
}

func normaliseSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func clonePost(src *post.Post) *post.Post {
	if src == nil {
		return nil
	}

	copied := *src
	if src.Tags != nil {
		copied.Tags = append([]string{}, src.Tags...)
	}
	if src.Authors != nil {
		copied.Authors = append([]string{}, src.Authors...)
	}
	if src.Summary != nil {
		summary := *src.Summary
		copied.Summary = &summary
	}
	return &copied
}
