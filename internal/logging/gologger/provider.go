// Package gologger adapts github.com/goliatone/go-logger to the press
// logging interfaces so hosts can opt into its structured JSON, console, or
// pretty output instead of the built-in console provider.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Config captures the options exposed by the go-logger adapter.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Provider hands out module loggers backed by a shared go-logger root.
type Provider struct {
	root *glog.BaseLogger
}

var glogLevels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// NewProvider builds the go-logger root from cfg. An empty format selects
// JSON; unknown formats fail so a config typo is not silently downgraded.
func NewProvider(cfg Config) (*Provider, error) {
	output, err := formatOption(cfg.Format)
	if err != nil {
		return nil, err
	}

	options := []glog.Option{output}
	if level, ok := glogLevels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		options = append(options, glog.WithLevel(level))
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	root := glog.NewLogger(options...)
	if focus := trimmedNames(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}

	return &Provider{root: root}, nil
}

func formatOption(format string) (glog.Option, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return glog.WithLoggerTypeJSON(), nil
	case "console":
		return glog.WithLoggerTypeConsole(), nil
	case "pretty":
		return glog.WithLoggerTypePretty(), nil
	}
	return nil, fmt.Errorf("logging: unsupported go-logger format %q", format)
}

// GetLogger satisfies interfaces.LoggerProvider. An empty name returns the
// root logger; anything else a named child.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return wrap(p.root)
	}
	return wrap(p.root.GetLogger(name))
}

func wrap(logger glog.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return &adapter{base: logger}
}

// adapter narrows a go-logger Logger to the press logging contract.
type adapter struct {
	base glog.Logger
}

func (l *adapter) Trace(msg string, args ...any) { l.base.Trace(msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.base.Debug(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.base.Info(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.base.Warn(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.base.Error(msg, args...) }
func (l *adapter) Fatal(msg string, args ...any) { l.base.Fatal(msg, args...) }

// WithFields prefers the inner FieldsLogger extension and hands it a copy so
// callers can keep mutating their map. Loggers without the extension get the
// fields as sorted key/value pairs through With.
func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}

	if with, ok := l.base.(glog.FieldsLogger); ok {
		return wrap(with.WithFields(maps.Clone(fields)))
	}

	args := make([]any, 0, len(fields)*2)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, key, fields[key])
	}
	if with, ok := l.base.(interface{ With(...any) *glog.BaseLogger }); ok {
		return wrap(with.With(args...))
	}
	return l
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return wrap(l.base.WithContext(ctx))
}

func trimmedNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
