package store

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-press/post"
)

const postNamespace = "post"

// BunPostRepository implements Repository on top of go-repository-bun with
// optional read-through caching.
type BunPostRepository struct {
	repo         repository.Repository[*post.Post]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunPostRepository creates a post repository without caching.
func NewBunPostRepository(db *bun.DB) *BunPostRepository {
	return NewBunPostRepositoryWithCache(db, nil, nil)
}

// NewBunPostRepositoryWithCache creates a post repository with caching
// services. Both the cache service and the key serializer must be supplied
// for caching to engage.
func NewBunPostRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunPostRepository {
	base := NewPostRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(postNamespace)
	}
	return &BunPostRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunPostRepository) Create(ctx context.Context, record *post.Post) (*post.Post, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunPostRepository) Update(ctx context.Context, record *post.Post) (*post.Post, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post", id.String())
	}
	return record, nil
}

func (r *BunPostRepository) GetBySlug(ctx context.Context, slug string) (*post.Post, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "post", slug)
	}
	return record, nil
}

func (r *BunPostRepository) List(ctx context.Context) ([]*post.Post, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

// ListByTag filters in Go rather than SQL. Tags live in a JSON column and
// the containment operators differ per dialect; corpus sizes stay small
// enough that a full scan is the portable choice.
func (r *BunPostRepository) ListByTag(ctx context.Context, tag string) ([]*post.Post, error) {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*post.Post, 0, len(records))
	for _, record := range records {
		if record.HasTag(tag) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func (r *BunPostRepository) DeleteBySlug(ctx context.Context, slug string) error {
	record, err := r.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, record); err != nil {
		return fmt.Errorf("post repository delete %s: %w", slug, err)
	}
	return r.invalidateCache(ctx)
}

func (r *BunPostRepository) invalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &post.NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
