package di

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-docsite/internal/adapters/storage"
	"github.com/goliatone/go-docsite/internal/commands"
	staticcmd "github.com/goliatone/go-docsite/internal/commands/static"
	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/generator"
	sitehttp "github.com/goliatone/go-docsite/internal/http"
	"github.com/goliatone/go-docsite/internal/i18n"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/logging/console"
	"github.com/goliatone/go-docsite/internal/logging/gologger"
	"github.com/goliatone/go-docsite/internal/markdown"
	"github.com/goliatone/go-docsite/internal/routing"
	"github.com/goliatone/go-docsite/internal/runtimeconfig"
	"github.com/goliatone/go-docsite/internal/templates"
	"github.com/goliatone/go-docsite/pkg/interfaces"
	"github.com/goliatone/go-docsite/site"
)

// Container wires module dependencies. Everything is built eagerly so load
// errors surface before the first request or build.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	storage        interfaces.StorageProvider
	template       interfaces.TemplateRenderer
	parser         interfaces.MarkdownParser
	registry       staticcmd.CommandRegistry

	contentFS   fs.FS
	contentRoot string
	messages    map[string]map[string]string

	i18nSvc      i18n.Service
	catalog      *content.Catalog
	resolver     *routing.Resolver
	urls         *routing.URLBuilder
	generatorSvc generator.Service
	staticCmds   *staticcmd.HandlerSet
	siteAPI      *sitehttp.SiteAPI
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithStorage overrides the filesystem storage rooted at the generator output directory.
func WithStorage(sp interfaces.StorageProvider) Option {
	return func(c *Container) {
		c.storage = sp
	}
}

// WithTemplate overrides the embedded html/template views.
func WithTemplate(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.template = tr
	}
}

// WithMarkdownParser overrides the goldmark parser used for page bodies.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// WithContentFS reads page sources from fsys under root instead of the
// embedded site content.
func WithContentFS(fsys fs.FS, root string) Option {
	return func(c *Container) {
		c.contentFS = fsys
		c.contentRoot = root
	}
}

// WithMessages replaces the embedded UI strings catalog.
func WithMessages(messages map[string]map[string]string) Option {
	return func(c *Container) {
		c.messages = messages
	}
}

// WithI18nService overrides the default i18n service binding.
func WithI18nService(svc i18n.Service) Option {
	return func(c *Container) {
		c.i18nSvc = svc
	}
}

// WithGeneratorService overrides the generator built from Config.Generator.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		c.generatorSvc = svc
	}
}

// WithCommandRegistry registers the static command handlers with reg.
func WithCommandRegistry(reg staticcmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func(context.Context) error{
		c.configureLoggerProvider,
		c.configureI18n,
		c.configureContent,
		c.configureRouting,
		c.configureTemplates,
		c.configureGenerator,
		c.configureCommands,
		c.configureHTTP,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLoggerProvider(context.Context) error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level := strings.TrimSpace(c.Config.Logging.Level); level != "" {
			parsed := console.ParseLevel(level)
			opts.MinLevel = &parsed
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) i18nConfig() i18n.Config {
	return i18n.NewConfig(c.Config.DefaultLocale, c.Config.NormalizedLocales())
}

func (c *Container) configureI18n(context.Context) error {
	if c.i18nSvc != nil {
		return nil
	}
	messages := c.messages
	if messages == nil {
		fixture, err := i18n.DefaultFixture()
		if err != nil {
			return err
		}
		messages = fixture.Messages
	}
	svc, err := i18n.NewInMemoryService(c.i18nConfig(), messages)
	if err != nil {
		return err
	}
	c.i18nSvc = svc
	return nil
}

func (c *Container) configureContent(ctx context.Context) error {
	if c.contentFS == nil {
		if dir := strings.TrimSpace(c.Config.Content.Dir); dir != "" {
			c.contentFS = os.DirFS(dir)
			c.contentRoot = "."
		} else {
			c.contentFS = site.FS()
			c.contentRoot = site.ContentRoot
		}
	}
	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(interfaces.ParseOptions{})
	}

	catalog, err := content.Load(ctx, c.contentFS, content.LoadOptions{
		Root:   c.contentRoot,
		Config: c.i18nConfig(),
		Parser: c.parser,
	})
	if err != nil {
		return err
	}
	c.catalog = catalog
	logging.ContentLogger(c.loggerProvider).Debug("content.catalog.loaded",
		"pages", len(catalog.Paths()),
		"locales", len(catalog.Config().Locales),
	)
	return nil
}

func (c *Container) configureRouting(context.Context) error {
	c.resolver = routing.NewResolver(c.i18nConfig())
	urls, err := routing.NewURLBuilder(c.Config.Site.BaseURL, c.resolver, c.catalog.Paths())
	if err != nil {
		return fmt.Errorf("di: configure urls: %w", err)
	}
	c.urls = urls
	return nil
}

func (c *Container) configureTemplates(context.Context) error {
	if c.template != nil {
		return nil
	}
	renderer, err := templates.New(templates.Options{
		Funcs: template.FuncMap(c.i18nSvc.TemplateHelpers(interfaces.HelperConfig{})),
	})
	if err != nil {
		return err
	}
	c.template = renderer
	return nil
}

func (c *Container) configureGenerator(context.Context) error {
	if c.generatorSvc != nil {
		return nil
	}
	gen := c.Config.Generator
	if !gen.Enabled {
		c.generatorSvc = generator.NewDisabledService()
		return nil
	}
	if c.storage == nil {
		c.storage = storage.NewFilesystemStorage(gen.OutputDir, gen.OutputDir)
	}
	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:       gen.OutputDir,
		BaseURL:         c.Config.Site.BaseURL,
		SiteName:        c.Config.Site.Name,
		AnalyticsID:     c.Config.Analytics.TrackingID,
		CleanBuild:      gen.CleanBuild,
		Incremental:     gen.Incremental,
		GenerateSitemap: gen.GenerateSitemap,
		GenerateRobots:  gen.GenerateRobots,
		Workers:         gen.Workers,
	}, generator.Dependencies{
		Catalog:  c.catalog,
		Resolver: c.resolver,
		URLs:     c.urls,
		I18N:     c.i18nSvc,
		Renderer: c.template,
		Storage:  c.storage,
		Logger:   logging.GeneratorLogger(c.loggerProvider),
	})
	return nil
}

func (c *Container) configureCommands(context.Context) error {
	enabled := c.Config.Generator.Enabled
	gates := staticcmd.FeatureGates{
		GeneratorEnabled: func() bool { return enabled },
	}

	var opts []staticcmd.Option
	if timeout := c.Config.Generator.RenderTimeout; timeout > 0 {
		opts = append(opts,
			staticcmd.WithBuildHandlerOptions(commands.WithTimeout[staticcmd.BuildSiteCommand](timeout)),
			staticcmd.WithDiffHandlerOptions(commands.WithTimeout[staticcmd.DiffSiteCommand](timeout)),
		)
	}

	set, err := staticcmd.RegisterStaticCommands(c.registry, c.generatorSvc, c.loggerProvider, gates, opts...)
	if err != nil {
		return err
	}
	c.staticCmds = set
	return nil
}

func (c *Container) configureHTTP(context.Context) error {
	c.siteAPI = sitehttp.NewSiteAPI(
		sitehttp.WithCatalog(c.catalog),
		sitehttp.WithResolver(c.resolver),
		sitehttp.WithGenerator(c.generatorSvc),
		sitehttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
	return nil
}

// LoggerProvider returns the provider every module logger is scoped from.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// StorageProvider returns the storage the generator writes to. It is nil
// when the generator is disabled or overridden.
func (c *Container) StorageProvider() interfaces.StorageProvider {
	return c.storage
}

// TemplateRenderer returns the configured template renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.template
}

// I18nService returns the UI strings service.
func (c *Container) I18nService() i18n.Service {
	return c.i18nSvc
}

// Catalog returns the loaded content catalog.
func (c *Container) Catalog() *content.Catalog {
	return c.catalog
}

// Resolver returns the locale resolver.
func (c *Container) Resolver() *routing.Resolver {
	return c.resolver
}

// URLBuilder returns the absolute URL builder.
func (c *Container) URLBuilder() *routing.URLBuilder {
	return c.urls
}

// GeneratorService returns the static generator.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// StaticCommands returns the static command handlers.
func (c *Container) StaticCommands() *staticcmd.HandlerSet {
	return c.staticCmds
}

// SiteAPI returns the dynamic HTTP adapter.
func (c *Container) SiteAPI() *sitehttp.SiteAPI {
	return c.siteAPI
}
