package storecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importCorpusMessageType = "press.store.import"
	syncCorpusMessageType   = "press.store.sync"
)

// ImportCorpusCommand walks the corpus under Directory and persists every
// post into the repository. The command mirrors StoreService.ImportDirectory
// semantics, so DryRun reports the outcome without writing anything.
type ImportCorpusCommand struct {
	// Directory selects the corpus path (relative or absolute) to load posts from.
	Directory string `json:"directory"`
	// DryRun toggles preview mode to collect the import outcome without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportCorpusCommand) Type() string { return importCorpusMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportCorpusCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.store.import.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// SyncCorpusCommand orchestrates a corpus sync run for the provided
// Directory, optionally pruning repository posts whose source files are gone.
type SyncCorpusCommand struct {
	// Directory selects the corpus path (relative or absolute) to load posts from.
	Directory string `json:"directory"`
	// DryRun toggles preview mode to collect the sync outcome without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// DeleteOrphaned removes stored posts without matching markdown files when true.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
}

// Type implements command.Message.
func (SyncCorpusCommand) Type() string { return syncCorpusMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncCorpusCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.store.sync.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
