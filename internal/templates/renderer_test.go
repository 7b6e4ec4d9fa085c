package templates

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"testing/fstest"
)

type testHelpers struct{ prefix string }

func (h testHelpers) Path(page string) string { return h.prefix + "/" + page }

type testLocale struct {
	Code, Name, Path string
	Active           bool
}

type testAlternate struct{ Locale, URL string }

type testNav struct {
	Label, Path string
	Active      bool
}

type testMeta struct {
	Title, Description, Keywords string
	OpenGraph                    struct{ Title, Description, Type string }
}

type testPage struct {
	Path, Locale, HeadTitle, URL, Canonical string
	Metadata                                testMeta
	Alternates                              []testAlternate
	Navigation                              []testNav
	Body                                    template.HTML
	Fallback                                bool
}

type testSite struct {
	Name        string
	AnalyticsID string
	Year        int
	Locales     []testLocale
}

type testContext struct {
	Site    testSite
	Page    testPage
	Helpers testHelpers
}

func newTestContext(analyticsID string) testContext {
	meta := testMeta{Title: "示例代码", Description: "Gemini CLI 实用示例。", Keywords: "gemini cli, 示例"}
	meta.OpenGraph.Title = meta.Title
	meta.OpenGraph.Description = meta.Description
	meta.OpenGraph.Type = "article"
	return testContext{
		Site: testSite{
			Name:        "Gemini CLI",
			AnalyticsID: analyticsID,
			Year:        2025,
			Locales: []testLocale{
				{Code: "en", Name: "English", Path: "/docs/examples"},
				{Code: "zh", Name: "中文", Path: "/zh/docs/examples", Active: true},
			},
		},
		Page: testPage{
			Path:      "docs/examples",
			Locale:    "zh",
			HeadTitle: "示例代码 | Gemini CLI",
			URL:       "https://geminicli.example.com/zh/docs/examples",
			Canonical: "https://geminicli.example.com/docs/examples",
			Metadata:  meta,
			Alternates: []testAlternate{
				{Locale: "en", URL: "https://geminicli.example.com/docs/examples"},
				{Locale: "zh", URL: "https://geminicli.example.com/zh/docs/examples"},
				{Locale: "x-default", URL: "https://geminicli.example.com/docs/examples"},
			},
			Navigation: []testNav{{Label: "示例代码", Path: "/zh/docs/examples", Active: true}},
			Body:       template.HTML("<h1 id=\"示例代码\">示例代码</h1>"),
		},
		Helpers: testHelpers{prefix: "/zh"},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := New(Options{Funcs: template.FuncMap{
		"t": func(locale, key string, args ...any) string {
			if key == "footer.copyright" {
				return "© 2025"
			}
			return locale + ":" + key
		},
	}})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func TestRenderPageHead(t *testing.T) {
	html, err := newTestRenderer(t).Render(Page, newTestContext(""))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		`<html lang="zh">`,
		`<title>示例代码 | Gemini CLI</title>`,
		`<meta name="keywords" content="gemini cli, 示例">`,
		`<meta property="og:type" content="article">`,
		`<link rel="canonical" href="https://geminicli.example.com/docs/examples">`,
		`<link rel="alternate" hreflang="x-default" href="https://geminicli.example.com/docs/examples">`,
		`<h1 id="示例代码">示例代码</h1>`,
		`aria-current="page"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
	if strings.Contains(html, "googletagmanager") {
		t.Fatalf("analytics must be omitted without a tracking id")
	}
	if strings.Contains(html, "fallback-notice") {
		t.Fatalf("fallback notice must be omitted for translated pages")
	}
}

func TestRenderPageInjectsAnalyticsOnce(t *testing.T) {
	html, err := newTestRenderer(t).Render(Page, newTestContext("G-TEST123"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.Count(html, "googletagmanager.com/gtag/js?id=G-TEST123"); got != 1 {
		t.Fatalf("expected a single analytics include, got %d", got)
	}
	if !strings.Contains(html, `gtag('config', "G-TEST123")`) {
		t.Fatalf("expected escaped tracking id in config call:\n%s", html)
	}
}

func TestRenderPageFallbackNotice(t *testing.T) {
	ctx := newTestContext("")
	ctx.Page.Fallback = true

	var buf bytes.Buffer
	if _, err := newTestRenderer(t).RenderTemplate(Page, ctx, &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "zh:page.fallback_notice") {
		t.Fatalf("expected fallback notice, got:\n%s", buf.String())
	}
}

func TestRenderRedirectStub(t *testing.T) {
	html, err := newTestRenderer(t).Render(Redirect, map[string]any{
		"Locale":    "en",
		"Target":    "/docs/changelog",
		"TargetURL": "https://geminicli.example.com/docs/changelog",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `content="0; url=/docs/changelog"`) {
		t.Fatalf("expected meta refresh, got:\n%s", html)
	}
	if !strings.Contains(html, `<link rel="canonical" href="https://geminicli.example.com/docs/changelog">`) {
		t.Fatalf("expected canonical link, got:\n%s", html)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := newTestRenderer(t).Render("missing", nil); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}

func TestRenderStringAndOverrides(t *testing.T) {
	renderer, err := New(Options{Files: fstest.MapFS{
		"hello.html": {Data: []byte(`{{define "hello"}}<p>{{t "en" "greeting"}} {{.}}</p>{{end}}`)},
	}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := renderer.Render("hello", "<b>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<p>greeting &lt;b&gt;</p>" {
		t.Fatalf("unexpected output %q", out)
	}

	inline, err := renderer.RenderString(`{{safeHTML .}}`, "<em>ok</em>")
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if inline != "<em>ok</em>" {
		t.Fatalf("unexpected inline output %q", inline)
	}
}
