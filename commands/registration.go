package commands

import (
	"errors"
	"strings"

	internalcmd "github.com/goliatone/go-press/internal/commands"
	generatorcmd "github.com/goliatone/go-press/internal/commands/generator"
	lintcmd "github.com/goliatone/go-press/internal/commands/lint"
	scaffoldcmd "github.com/goliatone/go-press/internal/commands/scaffold"
	storecmd "github.com/goliatone/go-press/internal/commands/store"
	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// CommandRegistry records command handlers so hosts can expose them over a
// CLI or scheduler.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher
// implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription tears down one dispatcher subscription.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during
// construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// SyncCorpusCron overrides the cron expression applied to the scheduled
	// corpus sync. Empty selects the default daily run.
	SyncCorpusCron string
}

// RegistrationResult captures the constructed handlers plus any dispatcher
// subscriptions so hosts can unsubscribe during shutdown.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

const defaultSyncCorpusCron = "@daily"

// registrar fans each handler out to the configured registry and dispatcher,
// accumulating registration failures without aborting the remaining wiring.
type registrar struct {
	registry   CommandRegistry
	dispatcher CommandDispatcher
	result     *RegistrationResult
	errs       error
}

func (r *registrar) add(handler any) {
	if handler == nil {
		return
	}
	r.result.Handlers = append(r.result.Handlers, handler)

	if r.registry != nil {
		if err := r.registry.RegisterCommand(handler); err != nil {
			r.fail(err)
		}
	}
	if r.dispatcher == nil {
		return
	}
	sub, err := r.dispatcher.RegisterCommand(handler)
	if err != nil {
		r.fail(err)
		return
	}
	if sub != nil {
		r.result.Subscriptions = append(r.result.Subscriptions, sub)
	}
}

func (r *registrar) fail(err error) {
	r.errs = errors.Join(r.errs, err)
}

// RegisterContainerCommands builds command handlers for every enabled press
// feature on the container and optionally registers them with the provided
// registry, dispatcher, and cron integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}
	if container == nil {
		return result, nil
	}

	cfg := container.Config
	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	wireCronRegistry(opts.Registry, opts.CronRegistrar)

	reg := &registrar{
		registry:   opts.Registry,
		dispatcher: opts.Dispatcher,
		result:     result,
	}
	loggerFor := func(module string) interfaces.Logger {
		return internalcmd.CommandLogger(provider, module)
	}

	// Corpus index commands.
	if service := container.StoreService(); service != nil && cfg.Features.Index {
		gates := storecmd.FeatureGates{
			IndexEnabled: func() bool { return cfg.Features.Index },
		}
		handlerSet, err := storecmd.RegisterStoreCommands(nil, service, provider, gates)
		switch {
		case err != nil:
			reg.fail(err)
		case handlerSet != nil:
			reg.add(handlerSet.Import)
			reg.add(handlerSet.Sync)
			if opts.CronRegistrar != nil {
				if err := scheduleCorpusSync(opts, handlerSet.Sync); err != nil {
					reg.fail(err)
				}
			}
		}
	}

	// Lint commands.
	if service := container.LintService(); service != nil && cfg.Features.Lint {
		gates := lintcmd.FeatureGates{
			LintEnabled: func() bool { return cfg.Features.Lint },
		}
		reg.add(lintcmd.NewLintCorpusHandler(service, loggerFor("lint"), gates))
	}

	// Site generator commands.
	if service := container.GeneratorService(); service != nil && cfg.Features.Generator {
		gates := generatorcmd.FeatureGates{
			GeneratorEnabled: func() bool { return cfg.Features.Generator },
		}
		generatorLogger := loggerFor("generator")
		reg.add(generatorcmd.NewBuildSiteHandler(service, generatorLogger, gates))
		reg.add(generatorcmd.NewCleanSiteHandler(service, generatorLogger, gates))
	}

	// Scaffold commands.
	if service := container.ScaffoldService(); service != nil && cfg.Features.Scaffold {
		gates := scaffoldcmd.FeatureGates{
			ScaffoldEnabled: func() bool { return cfg.Features.Scaffold },
		}
		reg.add(scaffoldcmd.NewScaffoldPostHandler(service, loggerFor("scaffold"), gates))
	}

	if len(result.Handlers) == 0 {
		if reg.errs != nil {
			return result, reg.errs
		}
		return result, errors.New("no command handlers registered; ensure services are configured and required features enabled")
	}

	return result, reg.errs
}

// wireCronRegistry hands the cron registrar to registries that support
// scheduled command registration.
func wireCronRegistry(registry CommandRegistry, cron CronRegistrar) {
	if registry == nil || cron == nil {
		return
	}
	if reg, ok := registry.(interface {
		SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
	}); ok && reg != nil {
		reg.SetCronRegister(cron)
	}
}

// scheduleCorpusSync registers the sync handler with the host scheduler,
// defaulting to a daily run over the corpus root.
func scheduleCorpusSync(opts RegistrationOptions, handler *storecmd.SyncCorpusHandler) error {
	expression := strings.TrimSpace(opts.SyncCorpusCron)
	if expression == "" {
		expression = defaultSyncCorpusCron
	}
	return storecmd.RegisterSyncCron(
		storecmd.CronRegistrar(opts.CronRegistrar),
		handler,
		command.HandlerConfig{Expression: expression},
		storecmd.SyncCorpusCommand{Directory: "."},
	)
}
