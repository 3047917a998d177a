package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-press/post"
)

// EnsureSchema creates the posts table when it does not exist. Callers that
// manage migrations themselves can skip it.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return fmt.Errorf("store: ensure schema: nil db")
	}
	if _, err := db.NewCreateTable().
		Model((*post.Post)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}
