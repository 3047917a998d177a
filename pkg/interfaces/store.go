package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// ImportOptions control how documents are persisted.
type ImportOptions struct {
	// DryRun reports what would change without touching the repository.
	DryRun bool
}

// SyncOptions extend imports with orphan handling.
type SyncOptions struct {
	ImportOptions
	// DeleteOrphaned removes stored posts whose source file disappeared.
	DeleteOrphaned bool
}

// ImportResult summarises a corpus import.
type ImportResult struct {
	Created []uuid.UUID
	Updated []uuid.UUID
	Skipped []uuid.UUID
	Errors  []error
}

// SyncResult summarises a corpus synchronisation.
type SyncResult struct {
	Created int
	Updated int
	Skipped int
	Deleted int
	Errors  []error
}

// StoreService mirrors a markdown corpus into the post repository.
type StoreService interface {
	// ImportDirectory persists every document under dir.
	ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error)
	// SyncDirectory imports dir and optionally prunes posts whose files
	// are gone.
	SyncDirectory(ctx context.Context, dir string, opts SyncOptions) (*SyncResult, error)
}
