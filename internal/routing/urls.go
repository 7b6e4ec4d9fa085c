package routing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-docsite/internal/i18n"
)

const (
	siteGroup = "site"
	homeRoute = "home"
)

// ErrUnknownPage is returned when an URL is requested for a page that was not registered.
var ErrUnknownPage = errors.New("routing: unknown page")

// Alternate is one hreflang entry.
type Alternate struct {
	Locale string
	URL    string
}

// URLBuilder produces absolute canonical and alternate URLs through go-urlkit
// route groups: a root group for the default locale with one child group per
// alternate locale mounted at /{locale}.
type URLBuilder struct {
	resolver *Resolver
	manager  *urlkit.RouteManager
	baseURL  string
	routes   map[string]string
}

// NewURLBuilder registers one named route per page.
func NewURLBuilder(baseURL string, resolver *Resolver, pages []string) (*URLBuilder, error) {
	if resolver == nil {
		return nil, errors.New("routing: resolver is required")
	}
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("routing: base URL is required")
	}

	routes := make(map[string]string, len(pages))
	paths := make(map[string]string, len(pages))
	for _, page := range pages {
		name := RouteName(page)
		routes[CleanPage(page)] = name
		paths[name] = CanonicalPath(page)
	}

	children := make([]urlkit.GroupConfig, 0, len(resolver.cfg.Locales))
	for _, code := range resolver.cfg.Alternates() {
		children = append(children, urlkit.GroupConfig{
			Name:  code,
			Path:  "/" + code,
			Paths: paths,
		})
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    siteGroup,
				BaseURL: base,
				Paths:   paths,
				Groups:  children,
			},
		},
	})

	return &URLBuilder{
		resolver: resolver,
		manager:  manager,
		baseURL:  base,
		routes:   routes,
	}, nil
}

// BaseURL returns the configured site origin without a trailing slash.
func (b *URLBuilder) BaseURL() string { return b.baseURL }

// RouteName derives the urlkit route name of a page ("docs/api-reference" -> "docs.api-reference").
func RouteName(page string) string {
	clean := CleanPage(page)
	if clean == "" {
		return homeRoute
	}
	return strings.ReplaceAll(clean, "/", ".")
}

// Canonical returns the absolute canonical URL of page.
func (b *URLBuilder) Canonical(page string) (string, error) {
	return b.Localized(b.resolver.DefaultLocale(), page)
}

// Localized returns the absolute URL of page in locale. Unknown locales and the
// default locale map to the canonical URL.
func (b *URLBuilder) Localized(locale, page string) (string, error) {
	route, ok := b.routes[CleanPage(page)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}

	group, err := lookupGroup(b.manager, siteGroup)
	if err != nil {
		return "", err
	}
	code := i18n.NormalizeCode(locale)
	localized := b.resolver.cfg.IsSupported(code) && !b.resolver.cfg.IsDefault(code)
	if localized {
		if group, err = lookupChildGroup(group, code); err != nil {
			return "", err
		}
	}

	url, err := safeBuild(group, route)
	if err != nil {
		return "", err
	}
	if localized && route == homeRoute {
		url = strings.TrimSuffix(url, "/")
	}
	return url, nil
}

// Alternates returns one entry per supported locale for which has(locale)
// is true, followed by an x-default entry pointing at the canonical URL.
func (b *URLBuilder) Alternates(page string, has func(locale string) bool) ([]Alternate, error) {
	out := make([]Alternate, 0, len(b.resolver.cfg.Locales)+1)
	for _, code := range b.resolver.cfg.Locales {
		if has != nil && !has(code) {
			continue
		}
		url, err := b.Localized(code, page)
		if err != nil {
			return nil, err
		}
		out = append(out, Alternate{Locale: code, URL: url})
	}
	canonical, err := b.Canonical(page)
	if err != nil {
		return nil, err
	}
	return append(out, Alternate{Locale: "x-default", URL: canonical}), nil
}

func safeBuild(group *urlkit.Group, route string) (url string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routing: urlkit route %q: %v", route, rec)
		}
	}()
	return group.Builder(route).Build()
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, errors.New("routing: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routing: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, errors.New("routing: parent group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routing: child group %q not found", name)
		}
	}()
	return parent.Group(name), nil
}
