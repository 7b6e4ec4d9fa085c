package generator

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-docsite/internal/routing"
	"github.com/goliatone/go-docsite/internal/seo"
)

// TemplateContext is the data contract passed to the page template.
type TemplateContext struct {
	Site    SiteMetadata
	Page    PageRenderingContext
	Build   BuildMetadata
	Helpers TemplateHelpers
}

// SiteMetadata exposes site-wide, locale-aware values to templates.
type SiteMetadata struct {
	Name          string
	BaseURL       string
	DefaultLocale string
	AnalyticsID   string
	Year          int
	Locales       []LocaleLink
}

// LocaleLink is one entry of the language switcher.
type LocaleLink struct {
	Code   string
	Name   string
	Path   string
	Active bool
}

// NavLink is one navigation entry.
type NavLink struct {
	Label  string
	Path   string
	Active bool
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	GeneratedAt time.Time
	Options     BuildOptions
}

// PageRenderingContext holds the resolved view of one page in one locale.
type PageRenderingContext struct {
	ID         uuid.UUID
	Path       string
	Locale     string
	Metadata   seo.Metadata
	HeadTitle  string
	URL        string
	Canonical  string
	Alternates []routing.Alternate
	Navigation []NavLink
	Body       template.HTML
	// Fallback is set when the locale has no entry and the default body is shown.
	Fallback bool
}

// RedirectContext feeds the static redirect stub.
type RedirectContext struct {
	Locale    string
	Target    string
	TargetURL string
}

// TemplateHelpers exposes locale-aware path helpers to templates.
type TemplateHelpers struct {
	locale        string
	defaultLocale string
	baseURL       string
}

func newTemplateHelpers(defaultLocale, locale, baseURL string) TemplateHelpers {
	return TemplateHelpers{
		locale:        locale,
		defaultLocale: defaultLocale,
		baseURL:       strings.TrimRight(baseURL, "/"),
	}
}

// Locale returns the active locale code.
func (h TemplateHelpers) Locale() string { return h.locale }

// IsDefaultLocale reports whether the active locale is the default one.
func (h TemplateHelpers) IsDefaultLocale() bool {
	return strings.EqualFold(h.locale, h.defaultLocale)
}

// LocalePrefix returns "" for the default locale and "/{locale}" otherwise.
func (h TemplateHelpers) LocalePrefix() string {
	if h.IsDefaultLocale() {
		return ""
	}
	return "/" + h.locale
}

// Path returns the public path of page in the active locale.
func (h TemplateHelpers) Path(page string) string {
	return routing.LocalizedPath(h.locale, h.defaultLocale, page)
}

// WithBaseURL prefixes path with the site base URL.
func (h TemplateHelpers) WithBaseURL(path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return h.baseURL + path
}

// RenderedPage captures the output of one page variant.
type RenderedPage struct {
	PageID   uuid.UUID
	Page     string
	Locale   string
	Kind     VariantKind
	Route    string
	Output   string
	Template string
	HTML     string
	Metadata DependencyMetadata
	Duration time.Duration
	Checksum string
}

// RenderDiagnostic records timing and errors per variant.
type RenderDiagnostic struct {
	PageID   uuid.UUID
	Page     string
	Locale   string
	Kind     VariantKind
	Route    string
	Template string
	Duration time.Duration
	Skipped  bool
	Err      error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}

func (s *service) pageContext(data *PageData, generatedAt time.Time) (TemplateContext, error) {
	page := data.Page
	locale := data.Locale.Code
	cfg := s.deps.Resolver.Config()

	meta := page.Metadata().Select(locale, cfg.DefaultLocale)
	entry := page.Resolve(locale)

	url, err := s.deps.URLs.Localized(locale, page.Path)
	if err != nil {
		return TemplateContext{}, err
	}
	canonical := url
	if !page.HasLocale(locale) {
		if canonical, err = s.deps.URLs.Canonical(page.Path); err != nil {
			return TemplateContext{}, err
		}
	}
	alternates, err := s.deps.URLs.Alternates(page.Path, page.HasLocale)
	if err != nil {
		return TemplateContext{}, err
	}

	helpers := newTemplateHelpers(cfg.DefaultLocale, locale, s.deps.URLs.BaseURL())

	switcher := make([]LocaleLink, 0, len(cfg.Locales))
	for _, code := range cfg.Locales {
		spec := s.localeSpec(code)
		switcher = append(switcher, LocaleLink{
			Code:   code,
			Name:   spec.Name,
			Path:   routing.LocalizedPath(code, cfg.DefaultLocale, page.Path),
			Active: code == locale,
		})
	}

	items := s.deps.Catalog.Navigation(locale)
	nav := make([]NavLink, 0, len(items))
	for _, item := range items {
		nav = append(nav, NavLink{
			Label:  item.Label,
			Path:   helpers.Path(item.Page),
			Active: item.Page == page.Path,
		})
	}

	return TemplateContext{
		Site: SiteMetadata{
			Name:          s.cfg.SiteName,
			BaseURL:       s.deps.URLs.BaseURL(),
			DefaultLocale: cfg.DefaultLocale,
			AnalyticsID:   strings.TrimSpace(s.cfg.AnalyticsID),
			Year:          generatedAt.Year(),
			Locales:       switcher,
		},
		Page: PageRenderingContext{
			ID:         page.ID,
			Path:       page.Path,
			Locale:     locale,
			Metadata:   meta,
			HeadTitle:  seo.WithSiteName(meta.Title, s.cfg.SiteName),
			URL:        url,
			Canonical:  canonical,
			Alternates: alternates,
			Navigation: nav,
			Body:       template.HTML(entry.BodyHTML),
			Fallback:   !page.HasLocale(locale),
		},
		Build: BuildMetadata{
			GeneratedAt: generatedAt,
		},
		Helpers: helpers,
	}, nil
}

func (s *service) renderVariant(data *PageData, generatedAt time.Time, opts BuildOptions) (RenderedPage, error) {
	var payload any
	if data.Kind == VariantRedirect {
		targetURL, err := s.deps.URLs.Canonical(data.Page.Path)
		if err != nil {
			return RenderedPage{}, err
		}
		payload = RedirectContext{Locale: data.Locale.Code, Target: data.Target, TargetURL: targetURL}
	} else {
		tplCtx, err := s.pageContext(data, generatedAt)
		if err != nil {
			return RenderedPage{}, err
		}
		tplCtx.Build.Options = opts
		payload = tplCtx
	}

	start := time.Now()
	html, err := s.deps.Renderer.RenderTemplate(data.Template, payload)
	if err != nil {
		return RenderedPage{}, fmt.Errorf("generator: render %q for %s: %w", data.Template, data.Route, err)
	}
	return RenderedPage{
		PageID:   data.Page.ID,
		Page:     data.Page.Path,
		Locale:   data.Locale.Code,
		Kind:     data.Kind,
		Route:    data.Route,
		Output:   data.Output,
		Template: data.Template,
		HTML:     html,
		Metadata: data.Metadata,
		Duration: time.Since(start),
		Checksum: computeHashFromString(html),
	}, nil
}
