package scaffoldcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/scaffold"
	"github.com/goliatone/go-press/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const scaffoldOperation = "scaffold.create"

// ErrScaffoldFeatureDisabled is returned when the scaffold feature flag is disabled at runtime.
var ErrScaffoldFeatureDisabled = errors.New("scaffold command: feature disabled")

var _ command.Commander[ScaffoldPostCommand] = (*ScaffoldPostHandler)(nil)

// ScaffoldPostHandler creates post skeletons via the shared command handler foundation.
type ScaffoldPostHandler struct {
	inner *commands.Handler[ScaffoldPostCommand]
}

// NewScaffoldPostHandler creates a handler bound to the supplied scaffold service.
func NewScaffoldPostHandler(service scaffold.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ScaffoldPostCommand]) *ScaffoldPostHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ScaffoldPostCommand) error {
		if !gates.scaffoldEnabled() {
			return ErrScaffoldFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		created, err := service.Create(ctx, scaffold.CreateInput{
			Title:   msg.Title,
			Slug:    msg.Slug,
			Tags:    msg.Tags,
			Authors: msg.Authors,
			Date:    msg.Date,
			Dir:     msg.Directory,
			Force:   msg.Force,
		})
		if err != nil {
			return err
		}
		if created != nil {
			logging.WithFields(baseLogger, map[string]any{
				"slug": created.Slug,
				"path": created.Path,
			}).Info("scaffold.command.create.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ScaffoldPostCommand]{
		commands.WithLogger[ScaffoldPostCommand](baseLogger),
		commands.WithOperation[ScaffoldPostCommand](scaffoldOperation),
		commands.WithMessageFields(func(msg ScaffoldPostCommand) map[string]any {
			fields := map[string]any{
				"title": msg.Title,
			}
			if msg.Slug != "" {
				fields["slug"] = msg.Slug
			}
			if msg.Force {
				fields["force"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ScaffoldPostCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ScaffoldPostHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ScaffoldPostCommand].
func (h *ScaffoldPostHandler) Execute(ctx context.Context, msg ScaffoldPostCommand) error {
	return h.inner.Execute(ctx, msg)
}
