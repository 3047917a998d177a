package interfaces

import "context"

// Logger is the leveled logging contract used throughout press. The method
// set matches github.com/goliatone/go-logger, so hosts already using that
// package can hand their loggers straight in.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers. An implementation may scope
// children per name or return one shared instance.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is an optional extension for loggers that can attach
// persistent structured fields. The returned logger repeats the supplied
// fields on every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
