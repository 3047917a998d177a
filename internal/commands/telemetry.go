package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// TelemetryStatus classifies how a command execution ended.
type TelemetryStatus string

const (
	// TelemetryStatusSuccess marks executions that completed without error.
	TelemetryStatusSuccess TelemetryStatus = "success"
	// TelemetryStatusFailed marks executions whose handler returned an error.
	TelemetryStatusFailed TelemetryStatus = "failed"
	// TelemetryStatusContextError marks executions cut short by context
	// cancellation or deadline expiry.
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// event names the log event DefaultTelemetry emits for this status.
func (s TelemetryStatus) event() string {
	switch s {
	case TelemetryStatusSuccess:
		return "command.execute.success"
	case TelemetryStatusContextError:
		return "command.execute.context_error"
	default:
		return "command.execute.failed"
	}
}

// TelemetryInfo describes one command execution outcome. Fields carries the
// handler's structured log fields so telemetry entries line up with the
// handler's own logging.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is an optional callback invoked after every command execution,
// successful or not.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry returns a callback that logs each outcome with the
// supplied logger. Successes log at info level, everything else at error
// level with the wrapped error attached.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = EnsureLogger(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		if info.Status == TelemetryStatusSuccess {
			entry.Info(info.Status.event(), args...)
			return
		}
		entry.Error(info.Status.event(), append(args, "error", info.Error)...)
	}
}
