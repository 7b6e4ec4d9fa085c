package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	staticcmd "github.com/goliatone/go-docsite/internal/commands/static"
	"github.com/goliatone/go-docsite/internal/generator"
)

type stubHandlers struct {
	build   *stubBuildHandler
	diff    *stubDiffHandler
	clean   *stubCleanHandler
	sitemap *stubSitemapHandler
}

type stubBuildHandler struct {
	last staticcmd.BuildSiteCommand
}

func (s *stubBuildHandler) Execute(ctx context.Context, msg staticcmd.BuildSiteCommand) error {
	s.last = msg
	if msg.ResultCallback == nil {
		return nil
	}
	if len(msg.Pages) == 1 && len(msg.Locales) == 1 {
		msg.ResultCallback(staticcmd.ResultEnvelope{
			Metadata: map[string]any{
				"operation": "build_page",
				"page":      "/" + msg.Pages[0],
				"locale":    strings.TrimSpace(msg.Locales[0]),
			},
		})
		return nil
	}
	msg.ResultCallback(staticcmd.ResultEnvelope{
		Result: &generator.BuildResult{
			PagesBuilt:     9,
			RedirectsBuilt: 3,
			Locales:        []string{"en", "zh"},
			Duration:       123 * time.Millisecond,
		},
		Metadata: map[string]any{"operation": "build"},
	})
	return nil
}

type stubDiffHandler struct {
	last staticcmd.DiffSiteCommand
}

func (s *stubDiffHandler) Execute(ctx context.Context, msg staticcmd.DiffSiteCommand) error {
	s.last = msg
	if msg.ResultCallback != nil {
		msg.ResultCallback(staticcmd.ResultEnvelope{
			Result: &generator.BuildResult{
				DryRun:     true,
				PagesBuilt: 1,
				Rendered: []generator.RenderedPage{{
					Page:   "docs/examples",
					Locale: "fr",
					Kind:   generator.VariantLocalized,
					Route:  "/fr/docs/examples",
					Output: "dist/fr/docs/examples/index.html",
				}},
			},
			Metadata: map[string]any{"operation": "diff"},
		})
	}
	return nil
}

type stubCleanHandler struct {
	calls int
	err   error
}

func (s *stubCleanHandler) Execute(ctx context.Context, msg staticcmd.CleanSiteCommand) error {
	s.calls++
	return s.err
}

type stubSitemapHandler struct {
	calls int
	err   error
}

func (s *stubSitemapHandler) Execute(ctx context.Context, msg staticcmd.BuildSitemapCommand) error {
	s.calls++
	return s.err
}

var activeStubHandlers *stubHandlers

func withStubModule(t *testing.T) *moduleOptions {
	t.Helper()
	original := moduleBuilder
	stubs := &stubHandlers{
		build:   &stubBuildHandler{},
		diff:    &stubDiffHandler{},
		clean:   &stubCleanHandler{},
		sitemap: &stubSitemapHandler{},
	}
	activeStubHandlers = stubs

	captured := &moduleOptions{}
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		*captured = opts
		return &moduleResources{
			handlers: handlerSet{
				build:   stubs.build,
				diff:    stubs.diff,
				clean:   stubs.clean,
				sitemap: stubs.sitemap,
			},
			site: http.NotFoundHandler(),
		}, nil
	}

	t.Cleanup(func() {
		moduleBuilder = original
		activeStubHandlers = nil
	})
	return captured
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logOutput
	logOutput = &buf
	t.Cleanup(func() { logOutput = prev })
	return &buf
}

func captureReport(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := reportOutput
	reportOutput = &buf
	t.Cleanup(func() { reportOutput = prev })
	return &buf
}

func TestRunBuild_UsesCommandHandler(t *testing.T) {
	opts := withStubModule(t)
	buf := captureLogs(t)

	err := run([]string{"build", "--page", "docs/examples", "--locale", "en,zh", "--force", "--output", "public", "--workers", "4"})
	if err != nil {
		t.Fatalf("run build: %v", err)
	}

	got := activeStubHandlers.build.last
	if len(got.Pages) != 1 || got.Pages[0] != "docs/examples" {
		t.Fatalf("expected page docs/examples, got %#v", got.Pages)
	}
	if len(got.Locales) != 2 || got.Locales[1] != "zh" {
		t.Fatalf("expected locales en,zh, got %#v", got.Locales)
	}
	if !got.Force || got.DryRun {
		t.Fatalf("unexpected flags %#v", got)
	}
	if opts.OutputDir != "public" || opts.Workers != 4 {
		t.Fatalf("expected config overrides forwarded, got %#v", opts.Options)
	}
	if opts.LoggerProvider == nil {
		t.Fatal("expected logger provider forwarded to the module")
	}

	logs := buf.String()
	if !strings.Contains(logs, "static.build.summary") || !strings.Contains(logs, "pages_built=9") {
		t.Fatalf("expected build summary log, got %q", logs)
	}
	if !strings.Contains(logs, "module=docsite.cli") {
		t.Fatalf("expected cli module field, got %q", logs)
	}
}

func TestRunBuild_SinglePageLogsOperation(t *testing.T) {
	withStubModule(t)
	buf := captureLogs(t)

	if err := run([]string{"build", "--page", "docs/faq", "--locale", "zh"}); err != nil {
		t.Fatalf("run build page: %v", err)
	}
	if !strings.Contains(buf.String(), "static.build_page") || !strings.Contains(buf.String(), "locale=zh") {
		t.Fatalf("expected build_page log, got %q", buf.String())
	}
}

func TestRunDiff_UsesCommandHandler(t *testing.T) {
	withStubModule(t)
	captureLogs(t)
	report := captureReport(t)

	if err := run([]string{"diff", "--force", "--locale", "fr"}); err != nil {
		t.Fatalf("run diff: %v", err)
	}

	got := activeStubHandlers.diff.last
	if !got.Force {
		t.Fatal("expected force flag to propagate")
	}
	if len(got.Locales) != 1 || got.Locales[0] != "fr" {
		t.Fatalf("expected locale fr, got %#v", got.Locales)
	}
	if !strings.Contains(report.String(), "/fr/docs/examples -> dist/fr/docs/examples/index.html") {
		t.Fatalf("expected diff report line, got %q", report.String())
	}
}

func TestRunClean_UsesCommandHandler(t *testing.T) {
	withStubModule(t)
	buf := captureLogs(t)

	if err := run([]string{"clean"}); err != nil {
		t.Fatalf("run clean: %v", err)
	}
	if activeStubHandlers.clean.calls != 1 {
		t.Fatalf("expected clean handler called once, got %d", activeStubHandlers.clean.calls)
	}
	if !strings.Contains(buf.String(), "static.clean") || !strings.Contains(buf.String(), "output_dir=dist") {
		t.Fatalf("expected clean log, got %q", buf.String())
	}
}

func TestRunSitemap_UsesCommandHandler(t *testing.T) {
	withStubModule(t)
	buf := captureLogs(t)

	if err := run([]string{"sitemap"}); err != nil {
		t.Fatalf("run sitemap: %v", err)
	}
	if activeStubHandlers.sitemap.calls != 1 {
		t.Fatalf("expected sitemap handler called once, got %d", activeStubHandlers.sitemap.calls)
	}
	if !strings.Contains(buf.String(), "operation=build_sitemap") {
		t.Fatalf("expected build_sitemap log, got %q", buf.String())
	}
}

func TestRunSitemap_HandlerMissing(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		return &moduleResources{
			handlers: handlerSet{
				build: &stubBuildHandler{},
				diff:  &stubDiffHandler{},
				clean: &stubCleanHandler{},
			},
		}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })
	captureLogs(t)

	err := run([]string{"sitemap"})
	if err == nil || !strings.Contains(err.Error(), "sitemap handler not configured") {
		t.Fatalf("expected sitemap handler error, got %v", err)
	}
}

func TestRunServe_UsesSiteHandler(t *testing.T) {
	opts := withStubModule(t)
	buf := captureLogs(t)

	original := serveHTTP
	var served *http.Server
	serveHTTP = func(ctx context.Context, srv *http.Server) error {
		served = srv
		return nil
	}
	t.Cleanup(func() { serveHTTP = original })

	if err := run([]string{"serve"}); err != nil {
		t.Fatalf("run serve: %v", err)
	}
	if served == nil || served.Handler == nil {
		t.Fatal("expected server with site handler")
	}
	if opts.Storage == nil {
		t.Fatal("expected serve to use discard storage")
	}
	if !strings.Contains(buf.String(), "server.listen") {
		t.Fatalf("expected listen log, got %q", buf.String())
	}
}

func TestRun_ErrorsWhenHandlersMissing(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		return &moduleResources{}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })
	captureLogs(t)

	for _, sub := range []string{"build", "diff", "clean", "serve"} {
		err := run([]string{sub})
		if err == nil || !strings.Contains(err.Error(), "not configured") {
			t.Fatalf("%s: expected handler error, got %v", sub, err)
		}
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	err := run([]string{"unknown"})
	if err == nil || !strings.Contains(err.Error(), "unknown subcommand") {
		t.Fatalf("expected unknown subcommand error, got %v", err)
	}
}

func TestRun_NoArgs(t *testing.T) {
	err := run([]string{})
	if err == nil || !strings.Contains(err.Error(), "missing subcommand") {
		t.Fatalf("expected missing subcommand error, got %v", err)
	}
}

func TestRun_UnknownLogProvider(t *testing.T) {
	withStubModule(t)
	err := run([]string{"build", "--log-provider", "syslog"})
	if err == nil || !strings.Contains(err.Error(), "unknown log provider") {
		t.Fatalf("expected log provider error, got %v", err)
	}
}

func TestRunHandlersPropagateErrors(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		return &moduleResources{
			handlers: handlerSet{
				build: &stubBuildHandlerWithError{err: errors.New("boom")},
				diff:  &stubDiffHandler{},
				clean: &stubCleanHandler{},
			},
		}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })
	captureLogs(t)

	err := run([]string{"build"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestRunBootstrapErrorIsWrapped(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		return nil, errors.New("bad content")
	}
	t.Cleanup(func() { moduleBuilder = original })
	captureLogs(t)

	err := run([]string{"build"})
	if err == nil || !strings.Contains(err.Error(), "bootstrap module: bad content") {
		t.Fatalf("expected bootstrap error, got %v", err)
	}
}

type stubBuildHandlerWithError struct {
	err error
}

func (s *stubBuildHandlerWithError) Execute(ctx context.Context, msg staticcmd.BuildSiteCommand) error {
	return s.err
}

func TestListFlagSplitsValues(t *testing.T) {
	var l listFlag
	_ = l.Set("en, zh")
	_ = l.Set("fr")
	if got := l.values(); len(got) != 3 || got[2] != "fr" {
		t.Fatalf("unexpected values %v", got)
	}
	if l.String() != "en,zh,fr" {
		t.Fatalf("unexpected string %q", l.String())
	}
}
