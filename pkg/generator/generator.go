// Package generator exposes the static docs generator for hosts that wire
// their own catalog, resolver and storage. Most hosts use docsite.New instead.
package generator

import internal "github.com/goliatone/go-docsite/internal/generator"

type (
	Service          = internal.Service
	Config           = internal.Config
	BuildOptions     = internal.BuildOptions
	BuildResult      = internal.BuildResult
	RenderedPage     = internal.RenderedPage
	RenderDiagnostic = internal.RenderDiagnostic
	Dependencies     = internal.Dependencies
	VariantKind      = internal.VariantKind
)

var (
	ErrServiceDisabled   = internal.ErrServiceDisabled
	ErrLocaleUnsupported = internal.ErrLocaleUnsupported
)

// NewService wires a static generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return internal.NewDisabledService()
}
