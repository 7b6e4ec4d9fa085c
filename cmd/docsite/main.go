package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docsite"
	"github.com/goliatone/go-docsite/cmd/docsite/internal/bootstrap"
	"github.com/goliatone/go-docsite/internal/adapters/noop"
	staticcmd "github.com/goliatone/go-docsite/internal/commands/static"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/logging/console"
	"github.com/goliatone/go-docsite/internal/logging/gologger"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const usage = "usage: docsite <build|diff|clean|sitemap|serve> [flags]"

var (
	moduleBuilder           = buildModule
	logOutput     io.Writer = os.Stderr
	reportOutput  io.Writer = os.Stdout
	serveHTTP               = listenAndServe
)

type moduleOptions struct {
	bootstrap.Options
}

type handlerSet struct {
	build   command.Commander[staticcmd.BuildSiteCommand]
	diff    command.Commander[staticcmd.DiffSiteCommand]
	clean   command.Commander[staticcmd.CleanSiteCommand]
	sitemap command.Commander[staticcmd.BuildSitemapCommand]
}

type moduleResources struct {
	handlers handlerSet
	site     http.Handler
	server   docsite.ServerConfig
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "docsite: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand; %s", usage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "build":
		return runBuild(ctx, args[1:])
	case "diff":
		return runDiff(ctx, args[1:])
	case "clean":
		return runClean(ctx, args[1:])
	case "sitemap":
		return runSitemap(ctx, args[1:])
	case "serve":
		return runServe(ctx, args[1:])
	default:
		return fmt.Errorf("unknown subcommand %q; %s", args[0], usage)
	}
}

func buildModule(opts moduleOptions) (*moduleResources, error) {
	module, err := bootstrap.BuildModule(context.Background(), opts.Options)
	if err != nil {
		return nil, err
	}
	site, err := module.Module.Handler()
	if err != nil {
		return nil, err
	}
	set := module.Module.StaticCommands()
	return &moduleResources{
		handlers: handlerSet{
			build:   set.Build,
			diff:    set.Diff,
			clean:   set.Clean,
			sitemap: set.Sitemap,
		},
		site:   site,
		server: module.Config.Server,
	}, nil
}

func runBuild(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("docsite build", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	var pages, locales listFlag
	fs.Var(&pages, "page", "Page path to build (repeatable, e.g. docs/quickstart)")
	fs.Var(&locales, "locale", "Locale to build (repeatable or comma separated)")
	force := fs.Bool("force", false, "Ignore the incremental manifest")
	dryRun := fs.Bool("dry-run", false, "Render without writing artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources, logger, err := prepare(common)
	if err != nil {
		return err
	}
	if resources.handlers.build == nil {
		return errors.New("build handler not configured")
	}

	cmd := staticcmd.BuildSiteCommand{
		Pages:          pages.values(),
		Locales:        locales.values(),
		Force:          *force,
		DryRun:         *dryRun,
		ResultCallback: reportResult(logger),
	}
	if err := resources.handlers.build.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	return nil
}

func runDiff(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("docsite diff", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	var pages, locales listFlag
	fs.Var(&pages, "page", "Page path to diff (repeatable)")
	fs.Var(&locales, "locale", "Locale to diff (repeatable or comma separated)")
	force := fs.Bool("force", false, "Ignore the incremental manifest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources, logger, err := prepare(common)
	if err != nil {
		return err
	}
	if resources.handlers.diff == nil {
		return errors.New("diff handler not configured")
	}

	cmd := staticcmd.DiffSiteCommand{
		Pages:          pages.values(),
		Locales:        locales.values(),
		Force:          *force,
		ResultCallback: reportResult(logger),
	}
	if err := resources.handlers.diff.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	return nil
}

func runClean(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("docsite clean", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources, logger, err := prepare(common)
	if err != nil {
		return err
	}
	if resources.handlers.clean == nil {
		return errors.New("clean handler not configured")
	}
	if err := resources.handlers.clean.Execute(ctx, staticcmd.CleanSiteCommand{}); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	logger.Info("static.clean", "operation", "clean", "output_dir", common.outputDir())
	return nil
}

func runSitemap(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("docsite sitemap", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources, logger, err := prepare(common)
	if err != nil {
		return err
	}
	if resources.handlers.sitemap == nil {
		return errors.New("sitemap handler not configured")
	}
	if err := resources.handlers.sitemap.Execute(ctx, staticcmd.BuildSitemapCommand{}); err != nil {
		return fmt.Errorf("sitemap: %w", err)
	}
	logger.Info("static.sitemap", "operation", "build_sitemap")
	return nil
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("docsite serve", flag.ContinueOnError)
	common := registerCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	resources, logger, err := prepare(common, func(opts *moduleOptions) {
		opts.Storage = noop.Storage()
	})
	if err != nil {
		return err
	}
	if resources.site == nil {
		return errors.New("site handler not configured")
	}

	srv := &http.Server{
		Addr:         resources.server.Addr,
		Handler:      resources.site,
		ReadTimeout:  resources.server.ReadTimeout,
		WriteTimeout: resources.server.WriteTimeout,
	}
	logger.Info("server.listen", "addr", srv.Addr)
	if err := serveHTTP(ctx, srv); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("server.stopped", "addr", srv.Addr)
	return nil
}

func prepare(common *commonFlags, mutators ...func(*moduleOptions)) (*moduleResources, interfaces.Logger, error) {
	provider, err := common.loggerProvider()
	if err != nil {
		return nil, nil, err
	}
	opts := common.options()
	opts.LoggerProvider = provider
	for _, mutate := range mutators {
		mutate(&opts)
	}

	resources, err := moduleBuilder(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap module: %w", err)
	}
	if resources == nil {
		return nil, nil, errors.New("bootstrap module: no resources")
	}
	return resources, logging.ModuleLogger(provider, "docsite.cli"), nil
}

func reportResult(logger interfaces.Logger) staticcmd.ResultCallback {
	return func(env staticcmd.ResultEnvelope) {
		operation, _ := env.Metadata["operation"].(string)
		if env.Result == nil {
			args := []any{"operation", operation}
			for _, key := range []string{"page", "locale"} {
				if value, ok := env.Metadata[key]; ok {
					args = append(args, key, value)
				}
			}
			logger.Info("static."+operation, args...)
			return
		}

		result := env.Result
		logger.Info("static.build.summary",
			"operation", operation,
			"pages_built", result.PagesBuilt,
			"pages_skipped", result.PagesSkipped,
			"redirects", result.RedirectsBuilt,
			"locales", strings.Join(result.Locales, ","),
			"errors", len(result.Errors),
			"dry_run", result.DryRun,
			"duration", result.Duration,
		)
		if result.DryRun {
			for _, page := range result.Rendered {
				fmt.Fprintf(reportOutput, "%-9s %-6s %s -> %s\n", page.Kind, page.Locale, page.Route, page.Output)
			}
		}
	}
}

func listenAndServe(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type commonFlags struct {
	contentDir    *string
	output        *string
	baseURL       *string
	analyticsID   *string
	defaultLocale *string
	locales       *string
	workers       *int
	incremental   *bool
	clean         *bool
	noSitemap     *bool
	noRobots      *bool
	timeout       *time.Duration
	addr          *string
	logProvider   *string
	logLevel      *string
	logFormat     *string
}

func registerCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		contentDir:    fs.String("content", "", "Directory holding page sources (defaults to embedded content)"),
		output:        fs.String("output", "", "Output directory for generated artifacts"),
		baseURL:       fs.String("base-url", "", "Absolute site URL used for canonical links and the sitemap"),
		analyticsID:   fs.String("analytics-id", "", "Analytics tracking ID; empty disables the snippet"),
		defaultLocale: fs.String("default-locale", "", "Default locale served without a prefix"),
		locales:       fs.String("locales", "", "Comma separated list of supported locales"),
		workers:       fs.Int("workers", 0, "Render workers (0 uses GOMAXPROCS)"),
		incremental:   fs.Bool("incremental", false, "Skip pages unchanged since the last build"),
		clean:         fs.Bool("clean", false, "Remove the output directory before building"),
		noSitemap:     fs.Bool("no-sitemap", false, "Do not write sitemap.xml"),
		noRobots:      fs.Bool("no-robots", false, "Do not write robots.txt"),
		timeout:       fs.Duration("timeout", 0, "Command timeout for build and diff"),
		addr:          fs.String("addr", "", "Listen address for serve"),
		logProvider:   fs.String("log-provider", "console", "Logging provider (console|gologger)"),
		logLevel:      fs.String("log-level", "info", "Minimum log level"),
		logFormat:     fs.String("log-format", "", "go-logger format (json|console|pretty)"),
	}
}

func (c *commonFlags) options() moduleOptions {
	return moduleOptions{Options: bootstrap.Options{
		ContentDir:    *c.contentDir,
		OutputDir:     *c.output,
		BaseURL:       *c.baseURL,
		AnalyticsID:   *c.analyticsID,
		DefaultLocale: *c.defaultLocale,
		Locales:       bootstrap.SplitLocales(*c.locales),
		Workers:       *c.workers,
		Incremental:   *c.incremental,
		CleanBuild:    *c.clean,
		NoSitemap:     *c.noSitemap,
		NoRobots:      *c.noRobots,
		RenderTimeout: *c.timeout,
		Addr:          *c.addr,
	}}
}

func (c *commonFlags) outputDir() string {
	if dir := strings.TrimSpace(*c.output); dir != "" {
		return dir
	}
	return docsite.DefaultConfig().Generator.OutputDir
}

func (c *commonFlags) loggerProvider() (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(*c.logProvider)) {
	case "", "console":
		level := console.ParseLevel(*c.logLevel)
		return console.NewProvider(console.Options{Writer: logOutput, MinLevel: &level}), nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:  *c.logLevel,
			Format: *c.logFormat,
		})
	default:
		return nil, fmt.Errorf("unknown log provider %q", *c.logProvider)
	}
}

// listFlag collects repeatable, comma separated flag values.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			*l = append(*l, trimmed)
		}
	}
	return nil
}

func (l listFlag) values() []string {
	if len(l) == 0 {
		return nil
	}
	return append([]string(nil), l...)
}
