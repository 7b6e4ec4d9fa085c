package staticcmd

import (
	"context"
	"errors"
	"testing"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-docsite/internal/commands"
	"github.com/goliatone/go-docsite/internal/commands/fixtures"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/logging"
)

func TestRegisterStaticCommandsHandlerOptionsApplied(t *testing.T) {
	applied := map[string]bool{}

	_, err := RegisterStaticCommands(nil, &fakeGeneratorService{}, nil, FeatureGates{GeneratorEnabled: alwaysTrue},
		WithBuildHandlerOptions(func(*commands.Handler[BuildSiteCommand]) { applied["build"] = true }),
		WithDiffHandlerOptions(func(*commands.Handler[DiffSiteCommand]) { applied["diff"] = true }),
		WithCleanHandlerOptions(func(*commands.Handler[CleanSiteCommand]) { applied["clean"] = true }),
		WithSitemapHandlerOptions(func(*commands.Handler[BuildSitemapCommand]) { applied["sitemap"] = true }),
	)
	if err != nil {
		t.Fatalf("register static commands: %v", err)
	}
	for _, name := range []string{"build", "diff", "clean", "sitemap"} {
		if !applied[name] {
			t.Fatalf("expected %s handler options applied", name)
		}
	}
}

func TestRegisterStaticCommandsRegistersHandlers(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()

	set, err := RegisterStaticCommands(reg, &fakeGeneratorService{}, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	if err != nil {
		t.Fatalf("register static commands: %v", err)
	}
	if set == nil || set.Build == nil || set.Diff == nil || set.Clean == nil || set.Sitemap == nil {
		t.Fatalf("expected all handlers built, got %#v", set)
	}
	if len(reg.Handlers) != 4 {
		t.Fatalf("expected four handlers registered, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != set.Build {
		t.Fatalf("expected build handler registered first, got %#v", reg.Handlers[0])
	}
	if reg.Handlers[3] != set.Sitemap {
		t.Fatalf("expected sitemap handler registered last, got %#v", reg.Handlers[3])
	}
}

func TestRegisterStaticCommandsPropagatesRegistryError(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	reg.Err = errors.New("registry closed")

	if _, err := RegisterStaticCommands(reg, &fakeGeneratorService{}, nil, FeatureGates{}); !errors.Is(err, reg.Err) {
		t.Fatalf("expected registry error, got %v", err)
	}
}

func TestRegisterStaticCommandsNilServiceError(t *testing.T) {
	if _, err := RegisterStaticCommands(nil, nil, nil, FeatureGates{}); err == nil {
		t.Fatal("expected error when service nil")
	}
}

func TestRegisterStaticCronRegistersHandler(t *testing.T) {
	var captured generator.BuildOptions
	svc := &fakeGeneratorService{
		buildFunc: func(_ context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			captured = opts
			return &generator.BuildResult{}, nil
		},
	}
	handler := NewBuildSiteHandler(svc, logging.NoOp(), FeatureGates{GeneratorEnabled: alwaysTrue})
	recorder := fixtures.NewCronRecorder()

	cfg := command.HandlerConfig{Expression: "@daily"}
	msg := BuildSiteCommand{Force: true}

	if err := RegisterStaticCron(recorder.Registrar(), handler, cfg, msg); err != nil {
		t.Fatalf("register static cron: %v", err)
	}
	if len(recorder.Registrations) != 1 {
		t.Fatalf("expected one cron registration, got %d", len(recorder.Registrations))
	}
	reg := recorder.Registrations[0]
	if reg.Config.Expression != cfg.Expression {
		t.Fatalf("expected cron expression %q, got %q", cfg.Expression, reg.Config.Expression)
	}
	if reg.Handler == nil {
		t.Fatal("expected cron handler function recorded")
	}
	if err := reg.Handler(); err != nil {
		t.Fatalf("executing cron handler: %v", err)
	}
	if !captured.Force {
		t.Fatal("expected cron build to carry the scheduled message")
	}
}

func TestRegisterStaticCronNoOpWhenRegistrarNil(t *testing.T) {
	handler := NewBuildSiteHandler(&fakeGeneratorService{}, logging.NoOp(), FeatureGates{GeneratorEnabled: alwaysTrue})
	if err := RegisterStaticCron(nil, handler, command.HandlerConfig{}, BuildSiteCommand{}); err != nil {
		t.Fatalf("expected nil error when registrar nil, got %v", err)
	}
}

func TestRegisterStaticCronNoOpWhenHandlerNil(t *testing.T) {
	recorder := fixtures.NewCronRecorder()
	if err := RegisterStaticCron(recorder.Registrar(), nil, command.HandlerConfig{}, BuildSiteCommand{}); err != nil {
		t.Fatalf("expected nil error when handler nil, got %v", err)
	}
	if len(recorder.Registrations) != 0 {
		t.Fatalf("expected no registrations when handler nil, got %d", len(recorder.Registrations))
	}
}

func TestRegisterStaticCronPropagatesRegistrarError(t *testing.T) {
	handler := NewBuildSiteHandler(&fakeGeneratorService{}, logging.NoOp(), FeatureGates{GeneratorEnabled: alwaysTrue})
	recorder := fixtures.NewCronRecorder()
	boom := errors.New("scheduler offline")
	recorder.Fail(boom)

	err := RegisterStaticCron(recorder.Registrar(), handler, command.HandlerConfig{Expression: "@hourly"}, BuildSiteCommand{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected registrar error, got %v", err)
	}
}

func TestDispatcherRegistryRoutesMessages(t *testing.T) {
	cleaned := 0
	svc := &fakeGeneratorService{
		cleanFunc: func(context.Context) error {
			cleaned++
			return nil
		},
	}
	reg := NewDispatcherRegistry()
	t.Cleanup(reg.Close)

	if _, err := RegisterStaticCommands(reg, svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue}); err != nil {
		t.Fatalf("register static commands: %v", err)
	}
	if err := dispatcher.Dispatch(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("dispatch clean: %v", err)
	}
	if cleaned != 1 {
		t.Fatalf("expected clean to run once, got %d", cleaned)
	}
}

func TestDispatcherRegistryRejectsUnknownHandlers(t *testing.T) {
	reg := NewDispatcherRegistry()
	if err := reg.RegisterCommand("not a handler"); err == nil {
		t.Fatal("expected unsupported handler error")
	}
}
