package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-docsite"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// Options captures the config overrides exposed as CLI flags. Zero values keep
// the defaults from docsite.DefaultConfig.
type Options struct {
	ContentDir    string
	OutputDir     string
	BaseURL       string
	AnalyticsID   string
	DefaultLocale string
	Locales       []string
	Workers       int
	Incremental   bool
	CleanBuild    bool
	NoSitemap     bool
	NoRobots      bool
	RenderTimeout time.Duration
	Addr          string

	LoggerProvider interfaces.LoggerProvider
	Storage        interfaces.StorageProvider
}

// Module wraps the docsite module plus the config it was built from.
type Module struct {
	Module *docsite.Module
	Config docsite.Config
}

// Config applies opts over the default configuration.
func Config(opts Options) docsite.Config {
	cfg := docsite.DefaultConfig()
	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if dir := strings.TrimSpace(opts.OutputDir); dir != "" {
		cfg.Generator.OutputDir = dir
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.Site.BaseURL = base
	}
	if id := strings.TrimSpace(opts.AnalyticsID); id != "" {
		cfg.Analytics.TrackingID = id
	}
	if def := strings.TrimSpace(opts.DefaultLocale); def != "" {
		cfg.DefaultLocale = def
	}
	if len(opts.Locales) > 0 {
		cfg.I18N.Locales = cloneStrings(opts.Locales)
	}
	if opts.Workers > 0 {
		cfg.Generator.Workers = opts.Workers
	}
	cfg.Generator.Incremental = opts.Incremental
	cfg.Generator.CleanBuild = opts.CleanBuild
	if opts.NoSitemap {
		cfg.Generator.GenerateSitemap = false
	}
	if opts.NoRobots {
		cfg.Generator.GenerateRobots = false
	}
	if opts.RenderTimeout > 0 {
		cfg.Generator.RenderTimeout = opts.RenderTimeout
	}
	if addr := strings.TrimSpace(opts.Addr); addr != "" {
		cfg.Server.Addr = addr
	}
	return cfg
}

// BuildModule constructs a docsite module configured from opts.
func BuildModule(ctx context.Context, opts Options) (*Module, error) {
	cfg := Config(opts)

	var moduleOpts []docsite.Option
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, docsite.WithLoggerProvider(opts.LoggerProvider))
	}
	if opts.Storage != nil {
		moduleOpts = append(moduleOpts, docsite.WithStorage(opts.Storage))
	}

	module, err := docsite.New(ctx, cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise docsite module: %w", err)
	}
	return &Module{Module: module, Config: cfg}, nil
}

// SplitLocales parses a comma separated locale list into a trimmed slice.
func SplitLocales(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	locales := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			locales = append(locales, trimmed)
		}
	}
	return locales
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
