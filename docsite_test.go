package docsite_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-docsite"
	"github.com/goliatone/go-docsite/internal/adapters/storage"
	staticcmd "github.com/goliatone/go-docsite/internal/commands/static"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }

func newModule(t *testing.T) *docsite.Module {
	t.Helper()
	module, err := docsite.New(context.Background(), docsite.DefaultConfig(),
		docsite.WithStorage(storage.NewMemoryStorage()),
		docsite.WithLoggerProvider(noopProvider{}),
	)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	return module
}

func TestModuleResolveRedirectsUnsupportedAndDefaultLocales(t *testing.T) {
	module := newModule(t)

	cases := []struct {
		locale   string
		redirect bool
		path     string
	}{
		{locale: "xx", redirect: true, path: "/docs/examples"},
		{locale: "en", redirect: true, path: "/docs/examples"},
		{locale: "zh", redirect: false, path: "/zh/docs/examples"},
		{locale: "FR", redirect: false, path: "/fr/docs/examples"},
	}
	for _, tc := range cases {
		t.Run(tc.locale, func(t *testing.T) {
			decision := module.Resolve(tc.locale, "docs/examples")
			if decision.IsRedirect() != tc.redirect {
				t.Fatalf("expected redirect=%v, got %#v", tc.redirect, decision)
			}
			if decision.Path != tc.path {
				t.Fatalf("expected path %q, got %q", tc.path, decision.Path)
			}
		})
	}
}

func TestModuleStaticParamsCoverEverySupportedLocale(t *testing.T) {
	module := newModule(t)

	params := module.StaticParams()
	if len(params) != len(docsite.DefaultLocales) {
		t.Fatalf("expected %d params, got %d", len(docsite.DefaultLocales), len(params))
	}
	seen := map[string]bool{}
	for _, p := range params {
		if seen[p.Locale] {
			t.Fatalf("duplicate locale %q", p.Locale)
		}
		seen[p.Locale] = true
	}
	for _, code := range docsite.DefaultLocales {
		if !seen[code] {
			t.Fatalf("missing locale %q", code)
		}
	}
}

func TestModuleMetadataFallsBackPerField(t *testing.T) {
	module := newModule(t)

	zh, err := module.Metadata("docs/examples", "zh")
	if err != nil {
		t.Fatalf("zh metadata: %v", err)
	}
	if zh.Title != "示例代码" || zh.OpenGraph.Title != "示例代码" {
		t.Fatalf("expected zh title, got %#v", zh)
	}

	en, err := module.Metadata("docs/examples", "en")
	if err != nil {
		t.Fatalf("en metadata: %v", err)
	}
	fr, err := module.Metadata("docs/examples", "fr")
	if err != nil {
		t.Fatalf("fr metadata: %v", err)
	}
	if fr != en {
		t.Fatalf("expected fr metadata to equal en metadata, got %#v vs %#v", fr, en)
	}
	if en.OpenGraph.Type != "article" {
		t.Fatalf("expected article og type, got %q", en.OpenGraph.Type)
	}

	if _, err := module.Metadata("docs/missing", "en"); !errors.Is(err, docsite.ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestModuleHandlerServesSitemap(t *testing.T) {
	module := newModule(t)

	handler, err := module.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestModuleStaticCommandsBuildSite(t *testing.T) {
	module := newModule(t)

	var result *docsite.BuildResult
	err := module.StaticCommands().Build.Execute(context.Background(), staticcmd.BuildSiteCommand{
		Locales: []string{"en", "zh"},
		ResultCallback: func(env staticcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result == nil || result.PagesBuilt == 0 {
		t.Fatalf("expected pages built, got %#v", result)
	}
	if len(module.Pages()) != 10 {
		t.Fatalf("expected 10 pages, got %d", len(module.Pages()))
	}
}
