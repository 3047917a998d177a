package commands

import (
	"testing"

	"github.com/goliatone/go-press/internal/commands/fixtures"
	generatorcmd "github.com/goliatone/go-press/internal/commands/generator"
	scaffoldcmd "github.com/goliatone/go-press/internal/commands/scaffold"
	storecmd "github.com/goliatone/go-press/internal/commands/store"
	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/internal/runtimeconfig"
)

func newTestContainer(t *testing.T, cfg runtimeconfig.Config) *di.Container {
	t.Helper()
	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	return container
}

func TestRegisterContainerCommandsBuildsHandlers(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Generator = true

	registry := fixtures.NewRecordingRegistry()
	dispatcher := &dispatchRecorder{}
	cron := fixtures.NewCronRecorder()

	result, err := RegisterContainerCommands(newTestContainer(t, cfg), RegistrationOptions{
		Registry:      registry,
		Dispatcher:    dispatcher,
		CronRegistrar: cron.Registrar(),
	})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if len(result.Handlers) == 0 {
		t.Fatal("expected command handlers to be constructed")
	}
	if len(result.Handlers) != len(registry.Handlers) {
		t.Fatalf("registry saw %d handlers, result has %d", len(registry.Handlers), len(result.Handlers))
	}
	if len(dispatcher.subs) == 0 {
		t.Fatal("expected dispatcher subscriptions when a dispatcher is provided")
	}
	if len(cron.Registrations) == 0 {
		t.Fatal("expected cron registrations when a cron registrar is provided")
	}
	if got := cron.Registrations[0].Config.Expression; got != "@daily" {
		t.Fatalf("expected default sync cron expression, got %q", got)
	}
}

func TestRegisterContainerCommandsSyncCronOverride(t *testing.T) {
	cron := fixtures.NewCronRecorder()

	if _, err := RegisterContainerCommands(newTestContainer(t, runtimeconfig.DefaultConfig()), RegistrationOptions{
		CronRegistrar:  cron.Registrar(),
		SyncCorpusCron: "@weekly",
	}); err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if len(cron.Registrations) != 1 {
		t.Fatalf("expected one cron registration, got %d", len(cron.Registrations))
	}
	if got := cron.Registrations[0].Config.Expression; got != "@weekly" {
		t.Fatalf("expected sync cron expression override, got %q", got)
	}
}

func TestRegisterContainerCommandsWithoutRegistrars(t *testing.T) {
	result, err := RegisterContainerCommands(newTestContainer(t, runtimeconfig.DefaultConfig()), RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) == 0 {
		t.Fatal("expected handlers even when no registrars are supplied")
	}
	if len(result.Subscriptions) != 0 {
		t.Fatalf("expected zero subscriptions without a dispatcher, got %d", len(result.Subscriptions))
	}
}

func TestRegisterContainerCommandsSkipsGeneratorWhenDisabled(t *testing.T) {
	result, err := RegisterContainerCommands(newTestContainer(t, runtimeconfig.DefaultConfig()), RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	for _, handler := range result.Handlers {
		if _, ok := handler.(*generatorcmd.BuildSiteHandler); ok {
			t.Fatal("expected build handler not to be registered when the generator is disabled")
		}
	}
}

func TestRegisterContainerCommandsScaffoldGate(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Scaffold = false

	result, err := RegisterContainerCommands(newTestContainer(t, cfg), RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	for _, handler := range result.Handlers {
		if _, ok := handler.(*scaffoldcmd.ScaffoldPostHandler); ok {
			t.Fatal("expected scaffold handler not to be registered when scaffolding is disabled")
		}
	}
}

func TestRegisterContainerCommandsNilContainer(t *testing.T) {
	result, err := RegisterContainerCommands(nil, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) != 0 {
		t.Fatalf("expected no handlers for nil container, got %d", len(result.Handlers))
	}
}

func TestRegisterContainerCommandsRequiresEnabledFeatures(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Lint = false
	cfg.Features.Index = false
	cfg.Features.Scaffold = false

	if _, err := RegisterContainerCommands(newTestContainer(t, cfg), RegistrationOptions{}); err == nil {
		t.Fatal("expected an error when every command feature is disabled")
	}
}

func TestRegisterContainerCommandsRegistersStoreHandlers(t *testing.T) {
	result, err := RegisterContainerCommands(newTestContainer(t, runtimeconfig.DefaultConfig()), RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	var hasImport, hasSync bool
	for _, handler := range result.Handlers {
		switch handler.(type) {
		case *storecmd.ImportCorpusHandler:
			hasImport = true
		case *storecmd.SyncCorpusHandler:
			hasSync = true
		}
	}
	if !hasImport {
		t.Fatal("expected import corpus handler to be registered")
	}
	if !hasSync {
		t.Fatal("expected sync corpus handler to be registered")
	}
}

type dispatchRecorder struct {
	subs []*stubSubscription
	fail error
}

func (d *dispatchRecorder) RegisterCommand(handler any) (CommandSubscription, error) {
	if d.fail != nil {
		return nil, d.fail
	}
	sub := &stubSubscription{handler: handler}
	d.subs = append(d.subs, sub)
	return sub, nil
}

type stubSubscription struct {
	handler   any
	cancelled bool
}

func (s *stubSubscription) Unsubscribe() { s.cancelled = true }
