package docsite

import (
	"context"
	"net/http"

	staticcmd "github.com/goliatone/go-docsite/internal/commands/static"
	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/di"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/routing"
	"github.com/goliatone/go-docsite/internal/seo"
)

// GeneratorService exports the static generator contract.
type GeneratorService = generator.Service

// BuildOptions exports the generator build filters.
type BuildOptions = generator.BuildOptions

// BuildResult exports the generator build summary.
type BuildResult = generator.BuildResult

// Decision exports the locale resolver outcome.
type Decision = routing.Decision

// StaticParams exports one static path parameter set.
type StaticParams = routing.Params

// Metadata exports the selected page metadata.
type Metadata = seo.Metadata

// StaticCommands exports the static command handler set.
type StaticCommands = staticcmd.HandlerSet

// Option customises module wiring.
type Option = di.Option

var (
	WithLoggerProvider  = di.WithLoggerProvider
	WithStorage         = di.WithStorage
	WithTemplate        = di.WithTemplate
	WithContentFS       = di.WithContentFS
	WithMessages        = di.WithMessages
	WithCommandRegistry = di.WithCommandRegistry
)

// Module is the entry point for hosts embedding the docs site.
type Module struct {
	container *di.Container
}

// New loads content and wires every service for cfg. Load errors (front
// matter, missing default entries, unknown locales) are returned here.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container.
func (m *Module) Container() *di.Container {
	return m.container
}

// Generator returns the static generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// StaticCommands returns the build, diff, clean and sitemap handlers.
func (m *Module) StaticCommands() *StaticCommands {
	return m.container.StaticCommands()
}

// Handler returns the dynamic site as an http.Handler.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.SiteAPI().Handler()
}

// Resolve decides between redirect and render for a /{locale}/{page} request.
func (m *Module) Resolve(locale, page string) Decision {
	return m.container.Resolver().Resolve(locale, page)
}

// StaticParams enumerates one parameter set per supported locale.
func (m *Module) StaticParams() []StaticParams {
	return m.container.Resolver().StaticParams()
}

// Metadata selects page metadata for locale, field by field falling back to
// the default locale.
func (m *Module) Metadata(page, locale string) (Metadata, error) {
	p, err := m.container.Catalog().Page(page)
	if err != nil {
		return Metadata{}, err
	}
	return p.Metadata().Select(locale, m.container.Resolver().DefaultLocale()), nil
}

// Pages lists the logical page paths in catalog order.
func (m *Module) Pages() []string {
	return m.container.Catalog().Paths()
}

// ErrPageNotFound is returned for page paths missing from the catalog.
var ErrPageNotFound = content.ErrPageNotFound
