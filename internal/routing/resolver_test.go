package routing

import (
	"testing"

	"github.com/goliatone/go-docsite/internal/i18n"
)

func newTestResolver() *Resolver {
	return NewResolver(i18n.NewConfig("en", []string{"en", "zh", "fr", "de", "ja", "ko", "es", "hi", "ru"}))
}

func TestResolveRedirectsUnsupportedLocales(t *testing.T) {
	resolver := newTestResolver()

	for _, locale := range []string{"xx", "", "pt", "EN-GB", "../etc"} {
		got := resolver.Resolve(locale, "docs/api-reference")
		if got.Kind != Redirect {
			t.Fatalf("locale %q: expected redirect, got %v", locale, got.Kind)
		}
		if got.Path != "/docs/api-reference" {
			t.Fatalf("locale %q: expected canonical path, got %q", locale, got.Path)
		}
	}
}

func TestResolveRedirectsDefaultLocale(t *testing.T) {
	resolver := newTestResolver()

	for _, locale := range []string{"en", "EN", " en "} {
		got := resolver.Resolve(locale, "docs/changelog")
		if !got.IsRedirect() || got.Path != "/docs/changelog" {
			t.Fatalf("locale %q: expected redirect to /docs/changelog, got %+v", locale, got)
		}
	}
}

func TestResolveRendersSupportedLocales(t *testing.T) {
	resolver := newTestResolver()

	for _, locale := range resolver.Config().Alternates() {
		got := resolver.Resolve(locale, "/docs/examples/")
		if got.Kind != Render {
			t.Fatalf("locale %q: expected render, got %v", locale, got.Kind)
		}
		if got.Locale != locale {
			t.Fatalf("expected locale %q, got %q", locale, got.Locale)
		}
		if want := "/" + locale + "/docs/examples"; got.Path != want {
			t.Fatalf("expected path %q, got %q", want, got.Path)
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	resolver := newTestResolver()

	for _, locale := range []string{"zh", "en", "xx"} {
		first := resolver.Resolve(locale, "docs/faq")
		second := resolver.Resolve(locale, "docs/faq")
		if first != second {
			t.Fatalf("locale %q: decisions differ: %+v vs %+v", locale, first, second)
		}
	}
}

func TestStaticParamsCoverEveryLocaleOnce(t *testing.T) {
	resolver := NewResolver(i18n.NewConfig("en", []string{"zh", "en", "ZH", "fr"}))

	params := resolver.StaticParams()
	want := []string{"zh", "en", "fr"}
	if len(params) != len(want) {
		t.Fatalf("expected %d params, got %+v", len(want), params)
	}
	seen := map[string]bool{}
	for i, p := range params {
		if p.Locale != want[i] {
			t.Fatalf("param %d: expected %q, got %q", i, want[i], p.Locale)
		}
		if seen[p.Locale] {
			t.Fatalf("duplicate locale %q", p.Locale)
		}
		seen[p.Locale] = true
	}
}

func TestStaticParamsAddsMissingDefaultFirst(t *testing.T) {
	resolver := NewResolver(i18n.NewConfig("en", []string{"zh", "fr"}))

	params := resolver.StaticParams()
	if len(params) != 3 || params[0].Locale != "en" || params[1].Locale != "zh" || params[2].Locale != "fr" {
		t.Fatalf("expected default prepended to configured order, got %+v", params)
	}
}

func TestSplitLocale(t *testing.T) {
	resolver := newTestResolver()

	cases := []struct {
		path   string
		locale string
		page   string
		ok     bool
	}{
		{path: "/zh/docs/examples", locale: "zh", page: "docs/examples", ok: true},
		{path: "/FR", locale: "fr", page: "", ok: true},
		{path: "/docs/faq", page: "docs/faq"},
		{path: "/xx/docs/faq", page: "xx/docs/faq"},
		{path: "/", page: ""},
	}
	for _, tc := range cases {
		locale, page, ok := resolver.SplitLocale(tc.path)
		if locale != tc.locale || page != tc.page || ok != tc.ok {
			t.Fatalf("SplitLocale(%q) = (%q, %q, %v), want (%q, %q, %v)", tc.path, locale, page, ok, tc.locale, tc.page, tc.ok)
		}
	}
}

func TestPathHelpers(t *testing.T) {
	if got := CanonicalPath(""); got != "/" {
		t.Fatalf("expected /, got %q", got)
	}
	if got := CanonicalPath("docs//quickstart/"); got != "/docs/quickstart" {
		t.Fatalf("unexpected canonical path %q", got)
	}
	if got := LocalizedPath("ja", "en", ""); got != "/ja" {
		t.Fatalf("unexpected localized home %q", got)
	}
	if got := LocalizedPath("en", "en", "docs/faq"); got != "/docs/faq" {
		t.Fatalf("default locale must stay unprefixed, got %q", got)
	}
}
