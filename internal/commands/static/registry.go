package staticcmd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-docsite/internal/commands"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the static command handlers produced by RegisterStaticCommands.
type HandlerSet struct {
	Build   *BuildSiteHandler
	Diff    *DiffSiteHandler
	Clean   *CleanSiteHandler
	Sitemap *BuildSitemapHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	buildHandlerOpts   []commands.HandlerOption[BuildSiteCommand]
	diffHandlerOpts    []commands.HandlerOption[DiffSiteCommand]
	cleanHandlerOpts   []commands.HandlerOption[CleanSiteCommand]
	sitemapHandlerOpts []commands.HandlerOption[BuildSitemapCommand]
}

// WithBuildHandlerOptions forwards options to the BuildSiteHandler constructor.
func WithBuildHandlerOptions(opts ...commands.HandlerOption[BuildSiteCommand]) Option {
	return func(cfg *options) {
		cfg.buildHandlerOpts = append(cfg.buildHandlerOpts, opts...)
	}
}

// WithDiffHandlerOptions forwards options to the DiffSiteHandler constructor.
func WithDiffHandlerOptions(opts ...commands.HandlerOption[DiffSiteCommand]) Option {
	return func(cfg *options) {
		cfg.diffHandlerOpts = append(cfg.diffHandlerOpts, opts...)
	}
}

// WithCleanHandlerOptions forwards options to the CleanSiteHandler constructor.
func WithCleanHandlerOptions(opts ...commands.HandlerOption[CleanSiteCommand]) Option {
	return func(cfg *options) {
		cfg.cleanHandlerOpts = append(cfg.cleanHandlerOpts, opts...)
	}
}

// WithSitemapHandlerOptions forwards options to the BuildSitemapHandler constructor.
func WithSitemapHandlerOptions(opts ...commands.HandlerOption[BuildSitemapCommand]) Option {
	return func(cfg *options) {
		cfg.sitemapHandlerOpts = append(cfg.sitemapHandlerOpts, opts...)
	}
}

// RegisterStaticCommands builds the static command handlers and registers them with the provided
// registry. A nil registry only constructs the handlers.
func RegisterStaticCommands(reg CommandRegistry, service generator.Service, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("static command registration: generator service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "static")

	set := &HandlerSet{
		Build:   NewBuildSiteHandler(service, logger, gates, cfg.buildHandlerOpts...),
		Diff:    NewDiffSiteHandler(service, logger, gates, cfg.diffHandlerOpts...),
		Clean:   NewCleanSiteHandler(service, logger, gates, cfg.cleanHandlerOpts...),
		Sitemap: NewBuildSitemapHandler(service, logger, gates, cfg.sitemapHandlerOpts...),
	}

	if reg != nil {
		for _, handler := range []any{set.Build, set.Diff, set.Clean, set.Sitemap} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// RegisterStaticCron wires the build handler into a cron registrar so the site can be rebuilt on
// a schedule. The handler is executed with a background context.
func RegisterStaticCron(reg CronRegistrar, handler *BuildSiteHandler, cfg command.HandlerConfig, msg BuildSiteCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}

type subscription interface {
	Unsubscribe()
}

// DispatcherRegistry subscribes static handlers to the go-command dispatcher so callers can
// trigger them with dispatcher.Dispatch.
type DispatcherRegistry struct {
	mu   sync.Mutex
	subs []subscription
}

// NewDispatcherRegistry returns an empty registry.
func NewDispatcherRegistry() *DispatcherRegistry {
	return &DispatcherRegistry{}
}

// RegisterCommand implements CommandRegistry.
func (r *DispatcherRegistry) RegisterCommand(handler any) error {
	var sub subscription
	switch h := handler.(type) {
	case *BuildSiteHandler:
		sub = dispatcher.SubscribeCommand(h)
	case *DiffSiteHandler:
		sub = dispatcher.SubscribeCommand(h)
	case *CleanSiteHandler:
		sub = dispatcher.SubscribeCommand(h)
	case *BuildSitemapHandler:
		sub = dispatcher.SubscribeCommand(h)
	default:
		return fmt.Errorf("static command registration: unsupported handler %T", handler)
	}

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()
	return nil
}

// Close removes every subscription made through the registry.
func (r *DispatcherRegistry) Close() {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}
