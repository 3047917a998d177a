package commands

import (
	"strings"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const commandModuleRoot = "press.commands"

// CommandLogger returns a module-scoped logger for command handlers. Entries
// carry component and command_module fields so executions can be filtered
// alongside the owning module's own logging.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := commandModuleName(module)
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}

func commandModuleName(module string) string {
	if name := strings.TrimSpace(module); name != "" {
		return name
	}
	return "core"
}

// EnsureLogger returns logger, or the shared no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
