package commands

import (
	"context"
	"maps"
	"time"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// DefaultCommandTimeout bounds command execution unless WithTimeout overrides
// it.
const DefaultCommandTimeout = 30 * time.Second

// Handler wraps a command function with the concerns every press command
// shares: message validation, context and timeout management, structured
// logging, error tagging, and telemetry.
type Handler[T command.Message] struct {
	exec          command.CommandFunc[T]
	logger        interfaces.Logger
	timeout       time.Duration
	operation     string
	messageFields func(T) map[string]any
	telemetry     Telemetry[T]
}

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// NewHandler builds a handler satisfying go-command's Commander interface
// around fn. Options adjust the timeout, logger, operation name, message
// field extraction, and telemetry callback.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute conforms to command.Commander[T].Execute. It validates the message,
// applies the configured timeout, runs the wrapped function, and reports the
// outcome through telemetry with tagged errors.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}

	ctx = EnsureContext(ctx)
	ctx, cancel := WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return WrapContextError(err)
	}

	fields := h.logFields(msg)
	logger := logging.WithFields(h.logger, fields)
	logger.Debug("command.execute.start")

	started := time.Now()
	if err := h.exec(ctx, msg); err != nil {
		h.finish(ctx, msg, fields, logger, time.Since(started), err, TelemetryStatusFailed)
		return WrapExecuteError(err)
	}
	if err := ctx.Err(); err != nil {
		h.finish(ctx, msg, fields, logger, time.Since(started), err, TelemetryStatusContextError)
		return WrapContextError(err)
	}

	h.finish(ctx, msg, fields, logger, time.Since(started), nil, TelemetryStatusSuccess)
	return nil
}

// logFields assembles the structured fields attached to every log entry and
// telemetry callback for one execution.
func (h *Handler[T]) logFields(msg T) map[string]any {
	fields := map[string]any{
		"command": command.GetMessageType(msg),
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.messageFields != nil {
		maps.Copy(fields, h.messageFields(msg))
	}
	return fields
}

// finish reports the execution outcome either through the configured
// telemetry callback or, when none is set, through the handler logger.
func (h *Handler[T]) finish(ctx context.Context, msg T, fields map[string]any, logger interfaces.Logger, duration time.Duration, err error, status TelemetryStatus) {
	if h.telemetry != nil {
		h.telemetry(ctx, msg, TelemetryInfo{
			Command:   command.GetMessageType(msg),
			Operation: h.operation,
			Fields:    fields,
			Duration:  duration,
			Error:     err,
			Status:    status,
			Logger:    logger,
		})
		return
	}

	if status == TelemetryStatusSuccess {
		logger.Info(status.event())
		return
	}
	logger.Error(status.event(), "error", err)
}

// WithTimeout overrides the default execution timeout. Zero or negative
// values disable the deadline entirely.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout <= 0 {
			h.timeout = 0
			return
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger used during execution. Nil loggers fall back
// to the no-op logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = EnsureLogger(logger)
	}
}

// WithOperation names the operation in every log entry and telemetry
// callback emitted for the handler.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields registers an extractor that turns the message into
// structured log fields attached to every entry for the execution.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.messageFields = fn
	}
}

// WithTelemetry registers a callback invoked once per execution with the
// outcome. When set it replaces the handler's own success/failure logging.
func WithTelemetry[T command.Message](telemetry Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = telemetry
	}
}

// EnsureContext returns ctx, or context.Background when ctx is nil.
func EnsureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithCommandTimeout derives a deadline-bearing context. Non-positive
// timeouts leave ctx untouched and return a no-op cancel.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
