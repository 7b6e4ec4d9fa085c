package generator

import (
	"html/template"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/i18n"
	"github.com/goliatone/go-docsite/internal/routing"
	"github.com/goliatone/go-docsite/internal/templates"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

const testBaseURL = "https://docs.example.com"

type siteFixture struct {
	Config   Config
	Catalog  *content.Catalog
	Resolver *routing.Resolver
	URLs     *routing.URLBuilder
	I18N     i18n.Service
	Renderer interfaces.TemplateRenderer
}

func (f siteFixture) deps(renderer interfaces.TemplateRenderer, storage interfaces.StorageProvider) Dependencies {
	if renderer == nil {
		renderer = f.Renderer
	}
	return Dependencies{
		Catalog:  f.Catalog,
		Resolver: f.Resolver,
		URLs:     f.URLs,
		I18N:     f.I18N,
		Renderer: renderer,
		Storage:  storage,
	}
}

func newSiteFixture(t *testing.T, modified time.Time) siteFixture {
	t.Helper()

	cfg := i18n.NewConfig("en", []string{"en", "zh", "es"})
	doc := func(page, locale, title, description, body string) *interfaces.Document {
		return &interfaces.Document{
			FilePath: page + "/" + locale + ".md",
			Page:     page,
			Locale:   locale,
			FrontMatter: interfaces.FrontMatter{
				Title:       title,
				Description: description,
				Keywords:    interfaces.Keywords{"gemini", "cli"},
			},
			BodyHTML:     []byte(body),
			LastModified: modified,
			Checksum:     []byte(page + locale + title),
		}
	}
	docs := []*interfaces.Document{
		doc("", "en", "Gemini CLI", "Bring Gemini to your terminal.", "<h1>Gemini CLI</h1>"),
		doc("", "zh", "Gemini CLI", "在终端中使用 Gemini。", "<h1>Gemini CLI 中文</h1>"),
		doc("docs/examples", "en", "Examples", "Worked examples.", "<h1>Examples</h1>"),
		doc("docs/examples", "zh", "示例代码", "", "<h1>示例</h1>"),
		doc("docs/faq", "en", "FAQ", "Frequently asked questions.", "<h1>FAQ</h1>"),
	}
	catalog, err := content.FromDocuments(cfg, docs)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	svc, err := i18n.NewInMemoryService(cfg, map[string]map[string]string{
		"en": {
			"nav.home":             "Home",
			"nav.language":         "Language",
			"page.fallback_notice": "This page is not yet translated.",
			"footer.tagline":       "Built for the terminal.",
			"footer.copyright":     "© %d Gemini CLI contributors",
			"redirect.notice":      "Redirecting to %s",
		},
		"zh": {
			"nav.home": "首页",
		},
	})
	if err != nil {
		t.Fatalf("i18n: %v", err)
	}

	renderer, err := templates.New(templates.Options{
		Funcs: template.FuncMap(svc.TemplateHelpers(interfaces.HelperConfig{})),
	})
	if err != nil {
		t.Fatalf("templates: %v", err)
	}

	resolver := routing.NewResolver(cfg)
	urls, err := routing.NewURLBuilder(testBaseURL, resolver, catalog.Paths())
	if err != nil {
		t.Fatalf("urls: %v", err)
	}

	return siteFixture{
		Config: Config{
			OutputDir:       "dist",
			BaseURL:         testBaseURL,
			SiteName:        "Gemini CLI",
			GenerateSitemap: true,
			GenerateRobots:  true,
			Workers:         1,
		},
		Catalog:  catalog,
		Resolver: resolver,
		URLs:     urls,
		I18N:     svc,
		Renderer: renderer,
	}
}

type recordingRenderer struct {
	inner interfaces.TemplateRenderer
	delay time.Duration

	mu      sync.Mutex
	names   []string
	active  int32
	maxSeen int32
}

func (r *recordingRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

func (r *recordingRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	current := atomic.AddInt32(&r.active, 1)
	for {
		seen := atomic.LoadInt32(&r.maxSeen)
		if current <= seen || atomic.CompareAndSwapInt32(&r.maxSeen, seen, current) {
			break
		}
	}
	defer atomic.AddInt32(&r.active, -1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.mu.Lock()
	r.names = append(r.names, name)
	r.mu.Unlock()
	return r.inner.RenderTemplate(name, data, out...)
}

func (r *recordingRenderer) RenderString(content string, data any, out ...io.Writer) (string, error) {
	return r.inner.RenderString(content, data, out...)
}

func (r *recordingRenderer) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.names)
}

type failingRenderer struct {
	err error
}

func (f failingRenderer) Render(string, any, ...io.Writer) (string, error) { return "", f.err }

func (f failingRenderer) RenderTemplate(string, any, ...io.Writer) (string, error) {
	return "", f.err
}

func (f failingRenderer) RenderString(string, any, ...io.Writer) (string, error) { return "", f.err }
