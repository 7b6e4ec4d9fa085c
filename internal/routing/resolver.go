package routing

import (
	"path"
	"strings"

	"github.com/goliatone/go-docsite/internal/i18n"
)

// DecisionKind tags the outcome of resolving a locale-prefixed request.
type DecisionKind int

const (
	// Redirect sends the client to Decision.Path without rendering a body.
	Redirect DecisionKind = iota
	// Render serves the page in Decision.Locale.
	Render
)

func (k DecisionKind) String() string {
	switch k {
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decision is the tagged outcome returned by Resolver.Resolve.
type Decision struct {
	Kind   DecisionKind
	Locale string
	Path   string
}

// IsRedirect reports whether the decision asks for a redirect.
func (d Decision) IsRedirect() bool { return d.Kind == Redirect }

// Params is one static path parameter set.
type Params struct {
	Locale string `json:"locale"`
}

// Resolver decides between redirect and render for /{locale}/{page} requests.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	cfg i18n.Config
}

// NewResolver builds a resolver over the closed locale set in cfg.
func NewResolver(cfg i18n.Config) *Resolver {
	return &Resolver{cfg: i18n.NewConfig(cfg.DefaultLocale, cfg.Locales)}
}

// Config returns the normalised locale configuration.
func (r *Resolver) Config() i18n.Config { return r.cfg }

// DefaultLocale returns the canonical, unprefixed locale.
func (r *Resolver) DefaultLocale() string { return r.cfg.DefaultLocale }

// Resolve never fails: unknown locales and the default locale both redirect
// to the canonical path, every other supported locale renders.
func (r *Resolver) Resolve(locale, page string) Decision {
	code := i18n.NormalizeCode(locale)
	if !r.cfg.IsSupported(code) || r.cfg.IsDefault(code) {
		return Decision{Kind: Redirect, Path: CanonicalPath(page)}
	}
	return Decision{Kind: Render, Locale: code, Path: LocalizedPath(code, r.cfg.DefaultLocale, page)}
}

// StaticParams returns one entry per supported locale, default included, in configured order.
func (r *Resolver) StaticParams() []Params {
	params := make([]Params, 0, len(r.cfg.Locales))
	for _, code := range r.cfg.Locales {
		params = append(params, Params{Locale: code})
	}
	return params
}

// LocalizedPath returns the public path of page in locale.
func (r *Resolver) LocalizedPath(locale, page string) string {
	return LocalizedPath(i18n.NormalizeCode(locale), r.cfg.DefaultLocale, page)
}

// SplitLocale separates a leading supported-locale segment from a request
// path. ok is false when the first segment is not a supported locale.
func (r *Resolver) SplitLocale(requestPath string) (locale, page string, ok bool) {
	first, rest := splitFirst(requestPath)
	if r.cfg.IsSupported(first) {
		return i18n.NormalizeCode(first), rest, true
	}
	return "", CleanPage(requestPath), false
}

// CleanPage trims slashes and collapses the logical page path. The home page is "".
func CleanPage(page string) string {
	page = strings.TrimSpace(page)
	if page == "" {
		return ""
	}
	clean := path.Clean("/" + page)
	return strings.Trim(clean, "/")
}

// CanonicalPath returns the unprefixed public path of page.
func CanonicalPath(page string) string {
	clean := CleanPage(page)
	if clean == "" {
		return "/"
	}
	return "/" + clean
}

// LocalizedPath prefixes page with locale unless locale is the default one.
func LocalizedPath(locale, defaultLocale, page string) string {
	locale = i18n.NormalizeCode(locale)
	if locale == "" || locale == i18n.NormalizeCode(defaultLocale) {
		return CanonicalPath(page)
	}
	clean := CleanPage(page)
	if clean == "" {
		return "/" + locale
	}
	return "/" + locale + "/" + clean
}

func splitFirst(requestPath string) (string, string) {
	clean := CleanPage(requestPath)
	first, rest, _ := strings.Cut(clean, "/")
	return first, rest
}
