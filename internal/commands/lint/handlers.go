package lintcmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const lintOperation = "lint.corpus"

// ErrLintFeatureDisabled is returned when the lint feature flag is disabled at runtime.
var ErrLintFeatureDisabled = errors.New("lint command: feature disabled")

var _ command.Commander[LintCorpusCommand] = (*LintCorpusHandler)(nil)

// LintCorpusHandler runs corpus lint checks via the shared command handler foundation.
type LintCorpusHandler struct {
	inner *commands.Handler[LintCorpusCommand]
}

// NewLintCorpusHandler creates a handler bound to the supplied lint service.
// The command fails when the corpus has error diagnostics, or any diagnostics
// at all under Strict.
func NewLintCorpusHandler(service interfaces.LintService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[LintCorpusCommand]) *LintCorpusHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg LintCorpusCommand) error {
		if !gates.lintEnabled() {
			return ErrLintFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		report, err := service.LintDirectory(ctx, msg.Directory)
		if err != nil {
			return err
		}

		var files, errCount, warnCount int
		if report != nil {
			files = report.Files
			errCount, warnCount = report.Counts()
		}
		logging.WithFields(baseLogger, map[string]any{
			"files":         files,
			"error_count":   errCount,
			"warning_count": warnCount,
			"strict":        msg.Strict,
		}).Info("lint.command.corpus.completed")

		if errCount > 0 {
			return fmt.Errorf("lint: corpus has %d error diagnostics", errCount)
		}
		if msg.Strict && warnCount > 0 {
			return fmt.Errorf("lint: corpus has %d warning diagnostics in strict mode", warnCount)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LintCorpusCommand]{
		commands.WithLogger[LintCorpusCommand](baseLogger),
		commands.WithOperation[LintCorpusCommand](lintOperation),
		commands.WithMessageFields(func(msg LintCorpusCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Strict {
				fields["strict"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[LintCorpusCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LintCorpusHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LintCorpusCommand].
func (h *LintCorpusHandler) Execute(ctx context.Context, msg LintCorpusCommand) error {
	return h.inner.Execute(ctx, msg)
}
