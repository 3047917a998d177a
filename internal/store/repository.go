package store

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-press/post"
)

// Repository persists posts. Implementations must treat slugs as unique.
type Repository interface {
	Create(ctx context.Context, record *post.Post) (*post.Post, error)
	Update(ctx context.Context, record *post.Post) (*post.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	GetBySlug(ctx context.Context, slug string) (*post.Post, error)
	List(ctx context.Context) ([]*post.Post, error)
	ListByTag(ctx context.Context, tag string) ([]*post.Post, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

// NewPostRepository builds the generic bun repository for posts with the
// slug as natural identifier.
func NewPostRepository(db *bun.DB) repository.Repository[*post.Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*post.Post]{
		NewRecord: func() *post.Post { return &post.Post{} },
		GetID: func(p *post.Post) uuid.UUID {
			return p.ID
		},
		SetID: func(p *post.Post, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *post.Post) string {
			return p.Slug
		},
	})
}
