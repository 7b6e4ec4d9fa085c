package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/routing"
	"github.com/goliatone/go-docsite/internal/seo"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// SiteAPI serves pages through the locale resolver plus sitemap, robots and
// metadata endpoints.
type SiteAPI struct {
	basePath  string
	catalog   *content.Catalog
	resolver  *routing.Resolver
	generator generator.Service
	logger    interfaces.Logger
}

// SiteOption mutates the SiteAPI configuration.
type SiteOption func(*SiteAPI)

// NewSiteAPI constructs a SiteAPI instance.
func NewSiteAPI(opts ...SiteOption) *SiteAPI {
	api := &SiteAPI{
		basePath:  "/api",
		generator: generator.NewDisabledService(),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the JSON API prefix (defaults to "/api").
func WithBasePath(path string) SiteOption {
	return func(api *SiteAPI) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithCatalog wires the content catalog.
func WithCatalog(catalog *content.Catalog) SiteOption {
	return func(api *SiteAPI) {
		if api != nil {
			api.catalog = catalog
		}
	}
}

// WithResolver wires the locale resolver.
func WithResolver(resolver *routing.Resolver) SiteOption {
	return func(api *SiteAPI) {
		if api != nil {
			api.resolver = resolver
		}
	}
}

// WithGenerator wires the renderer used for page responses.
func WithGenerator(service generator.Service) SiteOption {
	return func(api *SiteAPI) {
		if api != nil && service != nil {
			api.generator = service
		}
	}
}

// WithLogger wires the request logger.
func WithLogger(logger interfaces.Logger) SiteOption {
	return func(api *SiteAPI) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the site endpoints to the provided mux.
func (api *SiteAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: site api is nil")
	}
	if api.catalog == nil || api.resolver == nil {
		return fmt.Errorf("http: catalog and resolver are required")
	}

	base := joinPath(api.basePath, "")
	mux.HandleFunc("GET /healthz", api.handleHealth)
	mux.HandleFunc("GET /sitemap.xml", api.handleSitemap)
	mux.HandleFunc("GET /robots.txt", api.handleRobots)
	mux.HandleFunc("GET "+joinPath(base, "metadata")+"/{path...}", api.handleMetadata)
	mux.HandleFunc("GET /{path...}", api.handlePage)
	return nil
}

// Handler returns a mux with every route registered, wrapped in request logging.
func (api *SiteAPI) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	return RequestLogger(api.logger)(mux), nil
}

// route is the outcome of matching a request path against the catalog and
// the resolver.
type route struct {
	page     string
	locale   string
	redirect string
	found    bool
}

// match maps a request path to a page and locale. A supported locale prefix
// goes through the resolver and is redirected to its lower-case form. Any
// other first segment followed by a known page is an unsupported locale and
// redirects too. Everything else is a page lookup in the default locale.
func (api *SiteAPI) match(requestPath string) route {
	defaultLocale := api.resolver.DefaultLocale()
	clean := routing.CleanPage(requestPath)
	first, rest, _ := strings.Cut(clean, "/")

	if locale, page, ok := api.resolver.SplitLocale(requestPath); ok {
		matched := api.decide(locale, page)
		if matched.redirect == "" && matched.found && first != locale {
			matched.redirect = api.resolver.LocalizedPath(locale, page)
		}
		return matched
	}

	if clean == "" || rest == "" || api.catalog.IsPageRoot(first) {
		_, err := api.catalog.Page(clean)
		return route{page: clean, locale: defaultLocale, found: err == nil}
	}
	if _, err := api.catalog.Page(rest); err == nil {
		return api.decide(first, rest)
	}
	return route{page: clean, locale: defaultLocale}
}

func (api *SiteAPI) decide(locale, page string) route {
	decision := api.resolver.Resolve(locale, page)
	if decision.IsRedirect() {
		return route{page: routing.CleanPage(page), redirect: decision.Path, found: true}
	}
	_, err := api.catalog.Page(page)
	return route{page: routing.CleanPage(page), locale: decision.Locale, found: err == nil}
}

func (api *SiteAPI) handlePage(w http.ResponseWriter, r *http.Request) {
	matched := api.match(r.PathValue("path"))
	logger := logging.WithPageContext(api.logger.WithContext(r.Context()), matched.page, matched.locale, decisionName(matched))

	if matched.redirect != "" {
		logger.Debug("http.page.redirect", "target", matched.redirect)
		http.Redirect(w, r, redirectTarget(matched.redirect, r), http.StatusTemporaryRedirect)
		return
	}
	if !matched.found {
		http.NotFound(w, r)
		return
	}

	rendered, err := api.generator.RenderPage(r.Context(), matched.page, matched.locale)
	if err != nil {
		logger.Error("http.page.render_failed", "error", err)
		status, _ := mapError(err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Language", matched.locale)
	writeText(w, http.StatusOK, "text/html; charset=utf-8", rendered.HTML)
}

func (api *SiteAPI) handleMetadata(w http.ResponseWriter, r *http.Request) {
	matched := api.match(r.PathValue("path"))
	locale := matched.locale
	if matched.redirect != "" && locale == "" {
		locale = api.resolver.DefaultLocale()
		matched.page = routing.CleanPage(matched.redirect)
	}
	page, err := api.catalog.Page(matched.page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metadataResponse{
		Page:     routing.CanonicalPath(page.Path),
		Locale:   locale,
		Metadata: page.Metadata().Select(locale, api.resolver.DefaultLocale()),
	})
}

type metadataResponse struct {
	Page     string       `json:"page"`
	Locale   string       `json:"locale"`
	Metadata seo.Metadata `json:"metadata"`
}

func (api *SiteAPI) handleSitemap(w http.ResponseWriter, r *http.Request) {
	body, err := api.generator.Sitemap(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, "application/xml; charset=utf-8", body)
}

func (api *SiteAPI) handleRobots(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "text/plain; charset=utf-8", api.generator.Robots())
}

func (api *SiteAPI) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "pages": len(api.catalog.Paths())})
}

func decisionName(r route) string {
	if r.redirect != "" {
		return routing.Redirect.String()
	}
	if !r.found {
		return ""
	}
	return routing.Render.String()
}
