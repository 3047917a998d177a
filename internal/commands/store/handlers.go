package storecmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	importOperation = "store.import_corpus"
	syncOperation   = "store.sync_corpus"
)

// ErrIndexFeatureDisabled is returned when the index feature flag is disabled at runtime.
var ErrIndexFeatureDisabled = errors.New("store command: feature disabled")

var (
	_ command.Commander[ImportCorpusCommand] = (*ImportCorpusHandler)(nil)
	_ command.Commander[SyncCorpusCommand]   = (*SyncCorpusHandler)(nil)
)

// ImportCorpusHandler orchestrates corpus imports via the shared command handler foundation.
type ImportCorpusHandler struct {
	inner *commands.Handler[ImportCorpusCommand]
}

// NewImportCorpusHandler creates a handler bound to the supplied store service.
func NewImportCorpusHandler(service interfaces.StoreService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ImportCorpusCommand]) *ImportCorpusHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportCorpusCommand) error {
		if !gates.indexEnabled() {
			return ErrIndexFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.ImportDirectory(ctx, msg.Directory, interfaces.ImportOptions{
			DryRun: msg.DryRun,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": len(result.Created),
				"updated_count": len(result.Updated),
				"skipped_count": len(result.Skipped),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("store.command.import_corpus.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportCorpusCommand]{
		commands.WithLogger[ImportCorpusCommand](baseLogger),
		commands.WithOperation[ImportCorpusCommand](importOperation),
		commands.WithMessageFields(func(msg ImportCorpusCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportCorpusCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportCorpusHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportCorpusCommand].
func (h *ImportCorpusHandler) Execute(ctx context.Context, msg ImportCorpusCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncCorpusHandler orchestrates corpus sync workflows via the shared command handler foundation.
type SyncCorpusHandler struct {
	inner *commands.Handler[SyncCorpusCommand]
}

// NewSyncCorpusHandler creates a handler bound to the supplied store service.
func NewSyncCorpusHandler(service interfaces.StoreService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SyncCorpusCommand]) *SyncCorpusHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SyncCorpusCommand) error {
		if !gates.indexEnabled() {
			return ErrIndexFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.SyncDirectory(ctx, msg.Directory, interfaces.SyncOptions{
			ImportOptions: interfaces.ImportOptions{
				DryRun: msg.DryRun,
			},
			DeleteOrphaned: msg.DeleteOrphaned,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count":   result.Created,
				"updated_count":   result.Updated,
				"skipped_count":   result.Skipped,
				"deleted_count":   result.Deleted,
				"error_count":     len(result.Errors),
				"dry_run":         msg.DryRun,
				"delete_orphaned": msg.DeleteOrphaned,
			}).Info("store.command.sync_corpus.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncCorpusCommand]{
		commands.WithLogger[SyncCorpusCommand](baseLogger),
		commands.WithOperation[SyncCorpusCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncCorpusCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.DeleteOrphaned {
				fields["delete_orphaned"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncCorpusCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncCorpusHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncCorpusCommand].
func (h *SyncCorpusHandler) Execute(ctx context.Context, msg SyncCorpusCommand) error {
	return h.inner.Execute(ctx, msg)
}
