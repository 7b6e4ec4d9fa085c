package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/i18n"
	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/internal/routing"
	"github.com/goliatone/go-docsite/internal/templates"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled   = errors.New("generator: service disabled")
	errRendererRequired  = errors.New("generator: template renderer is required")
	errCatalogRequired   = errors.New("generator: content catalog is required")
	errResolverRequired  = errors.New("generator: locale resolver is required")
	errURLBuilderMissing = errors.New("generator: url builder is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	BuildPage(ctx context.Context, page string, locale string) error
	BuildSitemap(ctx context.Context) error
	Clean(ctx context.Context) error
	RenderPage(ctx context.Context, page string, locale string) (*RenderedPage, error)
	Sitemap(ctx context.Context) (string, error)
	Robots() string
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	SiteName        string
	AnalyticsID     string
	TemplateVersion string
	CleanBuild      bool
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	Workers         int
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	Locales []string
	Pages   []string
	DryRun  bool
	// Force ignores the incremental manifest.
	Force bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt     int
	PagesSkipped   int
	RedirectsBuilt int
	Locales        []string
	Duration       time.Duration
	Rendered       []RenderedPage
	Diagnostics    []RenderDiagnostic
	Errors         []error
	DryRun         bool
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Catalog  *content.Catalog
	Resolver *routing.Resolver
	URLs     *routing.URLBuilder
	I18N     i18n.Service
	Renderer interfaces.TemplateRenderer
	Storage  interfaces.StorageProvider
	Logger   interfaces.Logger
}

// NewService wires a generator with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	if strings.TrimSpace(cfg.TemplateVersion) == "" {
		cfg.TemplateVersion = "1"
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		now:    time.Now,
		logger: deps.Logger,
	}
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	now    func() time.Time
	logger interfaces.Logger
}

type disabledService struct{}

func (s *service) validateDeps() error {
	switch {
	case s.deps.Renderer == nil:
		return errRendererRequired
	case s.deps.Catalog == nil:
		return errCatalogRequired
	case s.deps.Resolver == nil:
		return errResolverRequired
	case s.deps.URLs == nil:
		return errURLBuilderMissing
	}
	return nil
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validateDeps(); err != nil {
		return nil, err
	}

	start := time.Now()
	buildCtx, err := s.loadContext(opts)
	if err != nil {
		return nil, err
	}
	logger := logging.WithFields(s.logger, map[string]any{"dry_run": opts.DryRun, "force": opts.Force})
	logger.Info("generator.build.start", "variants", len(buildCtx.Pages), "locales", len(buildCtx.Locales))

	result := &BuildResult{
		Locales:     make([]string, 0, len(buildCtx.Locales)),
		DryRun:      opts.DryRun,
		Diagnostics: make([]RenderDiagnostic, 0, len(buildCtx.Pages)),
	}
	for _, spec := range buildCtx.Locales {
		result.Locales = append(result.Locales, spec.Code)
	}

	writer := newArtifactWriter(s.deps.Storage)
	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.clean(ctx, writer); err != nil {
			return nil, err
		}
	}

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedPage, 0, len(buildCtx.Pages))
		errorsSlice []error
	)

	manifest, manifestErr := s.loadManifest(ctx)
	if manifestErr != nil {
		errorsSlice = append(errorsSlice, manifestErr)
	}
	if manifest == nil {
		manifest = newBuildManifest()
	}
	useManifest := s.cfg.Incremental && !opts.Force && !s.cfg.CleanBuild

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.PagesSkipped++
			return
		}
		if outcome.page.Kind == VariantRedirect {
			result.RedirectsBuilt++
		} else {
			result.PagesBuilt++
		}
		if !opts.DryRun {
			rendered = append(rendered, outcome.page)
		}
	}

	render := func(data *PageData) renderOutcome {
		return s.renderPage(ctx, buildCtx, data, manifest, useManifest)
	}

	workerCount := s.effectiveWorkerCount(len(buildCtx.Locales))
	if workerCount <= 1 || len(buildCtx.Pages) <= 1 {
		for _, data := range buildCtx.Pages {
			if err := ctx.Err(); err != nil {
				collect(cancelledOutcome(data, err))
				return result, err
			}
			collect(render(data))
		}
	} else if err := s.renderConcurrently(ctx, buildCtx, workerCount, render, collect); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	if opts.DryRun {
		result.Duration = time.Since(start)
		logger.Info("generator.build.dry_run", "built", result.PagesBuilt, "redirects", result.RedirectsBuilt, "skipped", result.PagesSkipped)
		if len(errorsSlice) > 0 {
			result.Errors = append(result.Errors, errorsSlice...)
			return result, errors.Join(errorsSlice...)
		}
		return result, nil
	}

	if err := s.persistPages(ctx, writer, rendered); err != nil {
		errorsSlice = append(errorsSlice, err)
	}
	if s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, writer, buildCtx.GeneratedAt); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}
	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = buildCtx.GeneratedAt
		for _, page := range rendered {
			manifest.setPage(manifestPage{
				PageID:       page.PageID.String(),
				Page:         page.Page,
				Locale:       page.Locale,
				Route:        page.Route,
				Output:       page.Output,
				Template:     page.Template,
				Hash:         page.Metadata.Hash,
				Checksum:     page.Checksum,
				LastModified: page.Metadata.LastModified,
				RenderedAt:   buildCtx.GeneratedAt,
			})
		}
		if err := s.persistManifest(ctx, writer, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		logger.Error("generator.build.failed", "errors", len(errorsSlice))
		return result, errors.Join(errorsSlice...)
	}
	logger.Info("generator.build.complete",
		"built", result.PagesBuilt,
		"redirects", result.RedirectsBuilt,
		"skipped", result.PagesSkipped,
		"duration", result.Duration.String(),
	)
	return result, nil
}

func (s *service) renderConcurrently(
	ctx context.Context,
	buildCtx *BuildContext,
	workers int,
	render func(*PageData) renderOutcome,
	collect func(renderOutcome),
) error {
	grouped := groupPagesByLocale(buildCtx.Pages)
	if len(grouped) == 0 {
		return nil
	}

	jobs := make(chan []*PageData)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				for _, data := range batch {
					if err := ctx.Err(); err != nil {
						collect(cancelledOutcome(data, err))
						return
					}
					collect(render(data))
				}
			}
		}()
	}

	for _, locale := range buildCtx.Locales {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- grouped[locale.Code]:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

func (s *service) renderPage(
	ctx context.Context,
	buildCtx *BuildContext,
	data *PageData,
	manifest *buildManifest,
	useManifest bool,
) renderOutcome {
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			PageID:   data.Page.ID,
			Page:     data.Page.Path,
			Locale:   data.Locale.Code,
			Kind:     data.Kind,
			Route:    data.Route,
			Template: data.Template,
		},
	}
	if err := ctx.Err(); err != nil {
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}

	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	if useManifest && manifest.shouldSkipPage(data.Page.ID, data.Route, data.Metadata.Hash, joinOutputPath(baseDir, data.Output)) {
		outcome.skipped = true
		outcome.diagnostic.Skipped = true
		return outcome
	}

	page, err := s.renderVariant(data, buildCtx.GeneratedAt, buildCtx.Options)
	if err != nil {
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}
	page.Output = joinOutputPath(baseDir, data.Output)
	outcome.diagnostic.Duration = page.Duration
	outcome.page = page
	return outcome
}

func cancelledOutcome(data *PageData, err error) renderOutcome {
	return renderOutcome{
		diagnostic: RenderDiagnostic{
			PageID: data.Page.ID,
			Page:   data.Page.Path,
			Locale: data.Locale.Code,
			Kind:   data.Kind,
			Route:  data.Route,
			Err:    err,
		},
		err: err,
	}
}

func (s *service) persistPages(ctx context.Context, writer artifactWriter, pages []RenderedPage) error {
	if len(pages) == 0 {
		return nil
	}
	dirCache := map[string]struct{}{}
	for i := range pages {
		if err := ensureDir(ctx, writer, dirCache, path.Dir(pages[i].Output)); err != nil {
			return err
		}
		category := categoryPage
		if pages[i].Kind == VariantRedirect {
			category = categoryRedirect
		}
		metadata := map[string]string{
			"page_id":  pages[i].PageID.String(),
			"route":    pages[i].Route,
			"template": pages[i].Template,
			"variant":  string(pages[i].Kind),
		}
		if s.cfg.Incremental {
			metadata["incremental"] = "true"
		}
		req := writeFileRequest{
			Path:        pages[i].Output,
			Content:     strings.NewReader(pages[i].HTML),
			Size:        int64(len(pages[i].HTML)),
			Locale:      pages[i].Locale,
			Category:    category,
			ContentType: "text/html; charset=utf-8",
			Checksum:    pages[i].Checksum,
			Metadata:    metadata,
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) BuildPage(ctx context.Context, page string, locale string) error {
	opts := BuildOptions{Pages: []string{page}, Force: true}
	if strings.TrimSpace(locale) != "" {
		opts.Locales = []string{locale}
	}
	_, err := s.Build(ctx, opts)
	return err
}

func (s *service) BuildSitemap(ctx context.Context) error {
	if err := s.validateDeps(); err != nil {
		return err
	}
	writer := newArtifactWriter(s.deps.Storage)
	if err := s.writeSitemap(ctx, writer, s.now()); err != nil {
		return err
	}
	if s.cfg.GenerateRobots {
		return s.writeRobots(ctx, writer)
	}
	return nil
}

func (s *service) Clean(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.clean(ctx, newArtifactWriter(s.deps.Storage))
}

func (s *service) clean(ctx context.Context, writer artifactWriter) error {
	target := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	if target == "" || target == "." {
		return errors.New("generator: refusing to clean without an output directory")
	}
	if err := writer.Remove(ctx, target); err != nil {
		return fmt.Errorf("generator: clean %s: %w", target, err)
	}
	s.logger.Info("generator.clean.complete", "output_dir", target)
	return nil
}

// RenderPage renders page in locale without touching storage. The default
// locale renders the canonical variant.
func (s *service) RenderPage(ctx context.Context, page string, locale string) (*RenderedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validateDeps(); err != nil {
		return nil, err
	}
	record, err := s.deps.Catalog.Page(page)
	if err != nil {
		return nil, err
	}
	cfg := s.deps.Resolver.Config()
	code := i18n.NormalizeCode(locale)
	if !cfg.IsSupported(code) {
		return nil, fmt.Errorf("%w: %q", ErrLocaleUnsupported, locale)
	}

	data := &PageData{
		Page:     record,
		Locale:   s.localeSpec(code),
		Kind:     VariantLocalized,
		Route:    routing.LocalizedPath(code, cfg.DefaultLocale, record.Path),
		Template: templates.Page,
	}
	if cfg.IsDefault(code) {
		data.Kind = VariantCanonical
	}
	rendered, err := s.renderVariant(data, s.now(), BuildOptions{})
	if err != nil {
		return nil, err
	}
	return &rendered, nil
}

// Sitemap lists canonical URLs only.
func (s *service) Sitemap(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.validateDeps(); err != nil {
		return "", err
	}
	pages := s.deps.Catalog.Pages()
	entries := make([]sitemapEntry, 0, len(pages))
	for _, page := range pages {
		location, err := s.deps.URLs.Canonical(page.Path)
		if err != nil {
			return "", err
		}
		entries = append(entries, sitemapEntry{
			Location:   location,
			LastMod:    page.LastModified,
			ChangeFreq: page.ChangeFreq,
			Priority:   page.Priority,
		})
	}
	return buildSitemap(entries, s.now())
}

func (s *service) Robots() string {
	return buildRobots(s.siteBaseURL(), s.cfg.GenerateSitemap)
}

func (s *service) siteBaseURL() string {
	if s.deps.URLs != nil {
		return s.deps.URLs.BaseURL()
	}
	return s.cfg.BaseURL
}

func (s *service) loadManifest(ctx context.Context) (*buildManifest, error) {
	data, ok, err := readArtifact(ctx, s.deps.Storage, s.manifestTargetPath())
	if err != nil {
		return nil, fmt.Errorf("generator: read manifest: %w", err)
	}
	if !ok {
		return newBuildManifest(), nil
	}
	return parseManifest(data)
}

func (s *service) manifestTargetPath() string {
	return joinOutputPath(strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/"), manifestFileName)
}

func (s *service) persistManifest(ctx context.Context, writer artifactWriter, manifest *buildManifest) error {
	data, err := manifest.marshal()
	if err != nil || len(data) == 0 {
		return err
	}
	target := s.manifestTargetPath()
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(target)); err != nil {
		return err
	}
	metadata := map[string]string{
		"version": strconv.Itoa(manifest.Version),
	}
	if !manifest.GeneratedAt.IsZero() {
		metadata["generated_at"] = manifest.GeneratedAt.UTC().Format(time.RFC3339)
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        target,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata:    metadata,
	})
}

func (s *service) writeSitemap(ctx context.Context, writer artifactWriter, generatedAt time.Time) error {
	body, err := s.Sitemap(ctx)
	if err != nil {
		return err
	}
	fullPath := joinOutputPath(strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/"), "sitemap.xml")
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(body),
		Size:        int64(len(body)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    computeHashFromString(body),
		Metadata: map[string]string{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) writeRobots(ctx context.Context, writer artifactWriter) error {
	body := s.Robots()
	fullPath := joinOutputPath(strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/"), "robots.txt")
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(body),
		Size:        int64(len(body)),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
		Checksum:    computeHashFromString(body),
		Metadata: map[string]string{
			"generated_at": s.now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) effectiveWorkerCount(localeCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if localeCount > 0 && workers > localeCount {
		return localeCount
	}
	return workers
}

func groupPagesByLocale(pages []*PageData) map[string][]*PageData {
	grouped := make(map[string][]*PageData, len(pages))
	for _, page := range pages {
		if page == nil {
			continue
		}
		grouped[page.Locale.Code] = append(grouped[page.Locale.Code], page)
	}
	return grouped
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) BuildPage(context.Context, string, string) error {
	return ErrServiceDisabled
}

func (disabledService) BuildSitemap(context.Context) error {
	return ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}

func (disabledService) RenderPage(context.Context, string, string) (*RenderedPage, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Sitemap(context.Context) (string, error) {
	return "", ErrServiceDisabled
}

func (disabledService) Robots() string {
	return ""
}
