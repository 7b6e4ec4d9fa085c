package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/i18n"
	"github.com/goliatone/go-docsite/internal/routing"
	"github.com/goliatone/go-docsite/internal/templates"
)

// ErrLocaleUnsupported is returned when a build or render names a locale outside the set.
var ErrLocaleUnsupported = errors.New("generator: locale is not supported")

// VariantKind tells which artifact a page variant produces.
type VariantKind string

const (
	// VariantCanonical is the unprefixed page in the default locale.
	VariantCanonical VariantKind = "canonical"
	// VariantLocalized is /{locale}/{page} rendered in an alternate locale.
	VariantLocalized VariantKind = "localized"
	// VariantRedirect is a /{locale}/{page} stub pointing at the canonical path.
	VariantRedirect VariantKind = "redirect"
)

// BuildContext aggregates the page variants a static build renders.
type BuildContext struct {
	GeneratedAt   time.Time
	DefaultLocale string
	Locales       []LocaleSpec
	Pages         []*PageData
	Options       BuildOptions
}

// LocaleSpec captures resolved locale information for a build.
type LocaleSpec struct {
	Code      string
	Name      string
	IsDefault bool
}

// PageData is one page variant.
type PageData struct {
	Page     *content.Page
	Locale   LocaleSpec
	Kind     VariantKind
	Route    string
	Target   string
	Output   string
	Template string
	Metadata DependencyMetadata
}

// DependencyMetadata tracks hashes and timestamps for incremental builds.
type DependencyMetadata struct {
	Hash         string
	LastModified time.Time
}

func (s *service) loadContext(opts BuildOptions) (*BuildContext, error) {
	cfg := s.deps.Resolver.Config()

	selected, err := s.selectPages(opts.Pages)
	if err != nil {
		return nil, err
	}
	locales, includeCanonical, err := s.selectLocales(cfg, opts.Locales)
	if err != nil {
		return nil, err
	}

	navSignatures := map[string]string{}
	signature := func(locale string) string {
		if sig, ok := navSignatures[locale]; ok {
			return sig
		}
		h := sha256.New()
		fmt.Fprintf(h, "%s|%s|%s|%s|", s.cfg.BaseURL, s.cfg.SiteName, s.cfg.AnalyticsID, s.cfg.TemplateVersion)
		for _, item := range s.deps.Catalog.Navigation(locale) {
			fmt.Fprintf(h, "%s=%s;", item.Page, item.Label)
		}
		navSignatures[locale] = hex.EncodeToString(h.Sum(nil))
		return navSignatures[locale]
	}

	defaultSpec := s.localeSpec(cfg.DefaultLocale)
	var variants []*PageData
	for _, page := range selected {
		if includeCanonical {
			variants = append(variants, &PageData{
				Page:     page,
				Locale:   defaultSpec,
				Kind:     VariantCanonical,
				Route:    routing.CanonicalPath(page.Path),
				Output:   buildOutputPath(page.Path, ""),
				Template: templates.Page,
				Metadata: s.dependencyMetadata(page, cfg.DefaultLocale, VariantCanonical, signature),
			})
		}
		for _, spec := range locales {
			decision := s.deps.Resolver.Resolve(spec.Code, page.Path)
			data := &PageData{
				Page:   page,
				Locale: spec,
				Route:  prefixedRoute(spec.Code, page.Path),
				Output: buildOutputPath(page.Path, spec.Code),
			}
			if decision.IsRedirect() {
				data.Kind = VariantRedirect
				data.Target = decision.Path
				data.Template = templates.Redirect
			} else {
				data.Kind = VariantLocalized
				data.Template = templates.Page
			}
			data.Metadata = s.dependencyMetadata(page, spec.Code, data.Kind, signature)
			variants = append(variants, data)
		}
	}

	specs := make([]LocaleSpec, 0, len(locales)+1)
	if includeCanonical && !slices.ContainsFunc(locales, func(l LocaleSpec) bool { return l.IsDefault }) {
		specs = append(specs, defaultSpec)
	}
	specs = append(specs, locales...)

	return &BuildContext{
		GeneratedAt:   s.now(),
		DefaultLocale: cfg.DefaultLocale,
		Locales:       specs,
		Pages:         variants,
		Options:       opts,
	}, nil
}

func (s *service) selectPages(filter []string) ([]*content.Page, error) {
	if len(filter) == 0 {
		return s.deps.Catalog.Pages(), nil
	}
	selected := make([]*content.Page, 0, len(filter))
	seen := map[string]struct{}{}
	for _, raw := range filter {
		page, err := s.deps.Catalog.Page(routing.CleanPage(raw))
		if err != nil {
			return nil, err
		}
		if _, ok := seen[page.Path]; ok {
			continue
		}
		seen[page.Path] = struct{}{}
		selected = append(selected, page)
	}
	return selected, nil
}

// selectLocales narrows the static params. The canonical variant belongs to
// the default locale and is only built when that locale is selected.
func (s *service) selectLocales(cfg i18n.Config, filter []string) ([]LocaleSpec, bool, error) {
	params := s.deps.Resolver.StaticParams()
	if len(filter) == 0 {
		specs := make([]LocaleSpec, 0, len(params))
		for _, p := range params {
			specs = append(specs, s.localeSpec(p.Locale))
		}
		return specs, true, nil
	}

	wanted := map[string]struct{}{}
	for _, raw := range filter {
		code := i18n.NormalizeCode(raw)
		if !cfg.IsSupported(code) {
			return nil, false, fmt.Errorf("%w: %q", ErrLocaleUnsupported, raw)
		}
		wanted[code] = struct{}{}
	}
	var specs []LocaleSpec
	for _, p := range params {
		if _, ok := wanted[p.Locale]; ok {
			specs = append(specs, s.localeSpec(p.Locale))
		}
	}
	_, includeCanonical := wanted[cfg.DefaultLocale]
	return specs, includeCanonical, nil
}

func (s *service) localeSpec(code string) LocaleSpec {
	name := code
	if s.deps.I18N != nil {
		name = s.deps.I18N.LanguageName(code)
	}
	return LocaleSpec{
		Code:      code,
		Name:      name,
		IsDefault: s.deps.Resolver.Config().IsDefault(code),
	}
}

func (s *service) dependencyMetadata(page *content.Page, locale string, kind VariantKind, signature func(string) string) DependencyMetadata {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|", kind, page.Hash(locale))
	h.Write([]byte(signature(locale)))
	return DependencyMetadata{
		Hash:         hex.EncodeToString(h.Sum(nil)),
		LastModified: page.LastModified,
	}
}
