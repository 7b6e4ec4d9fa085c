package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-docsite/internal/i18n"
	"github.com/goliatone/go-docsite/internal/identity"
	"github.com/goliatone/go-docsite/internal/markdown"
	"github.com/goliatone/go-docsite/internal/seo"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	ErrDefaultLocaleMissing = errors.New("content: default locale entry is required")
	ErrUnknownLocale        = errors.New("content: unknown locale")
	ErrPagePathInvalid      = errors.New("content: page path contains invalid segments")
	ErrEmptyCatalog         = errors.New("content: no pages found")
	ErrPageNotFound         = errors.New("content: page not found")
)

const (
	defaultChangeFreq = "weekly"
	defaultPriority   = 0.5
	homePriority      = 1.0
)

// Entry is the display record of one page in one locale.
type Entry struct {
	Locale      string
	Title       string
	Description string
	Keywords    []string
	NavLabel    string
	BodyHTML    string
	Checksum    string
}

// Page is a LocalizedContentBundle: one logical page with its per-locale
// entries. The default-locale entry always exists. Pages are immutable after load.
type Page struct {
	ID            uuid.UUID
	Path          string
	OpenGraphType string
	NavOrder      int
	ChangeFreq    string
	Priority      float64
	LastModified  time.Time

	defaultLocale string
	entries       map[string]Entry
}

// HasLocale reports whether the page defines its own entry for locale.
func (p *Page) HasLocale(locale string) bool {
	_, ok := p.entries[i18n.NormalizeCode(locale)]
	return ok
}

// Locales returns the locales with an entry, sorted.
func (p *Page) Locales() []string {
	out := make([]string, 0, len(p.entries))
	for code := range p.entries {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Entry returns the exact entry for locale without fallback.
func (p *Page) Entry(locale string) (Entry, bool) {
	entry, ok := p.entries[i18n.NormalizeCode(locale)]
	return entry, ok
}

// Resolve returns the entry for locale with every field falling back
// independently to the default-locale entry.
func (p *Page) Resolve(locale string) Entry {
	def := p.entries[p.defaultLocale]
	entry, ok := p.entries[i18n.NormalizeCode(locale)]
	if !ok {
		return def
	}
	if entry.Title == "" {
		entry.Title = def.Title
	}
	if entry.Description == "" {
		entry.Description = def.Description
	}
	if len(entry.Keywords) == 0 {
		entry.Keywords = def.Keywords
	}
	if entry.NavLabel == "" {
		entry.NavLabel = def.NavLabel
	}
	if strings.TrimSpace(entry.BodyHTML) == "" {
		entry.BodyHTML = def.BodyHTML
	}
	return entry
}

// Body returns the rendered HTML body in locale, or the default body.
func (p *Page) Body(locale string) string {
	return p.Resolve(locale).BodyHTML
}

// Metadata exposes the page's SEO strings as a selector dictionary.
func (p *Page) Metadata() seo.Dictionary {
	dict := seo.Dictionary{OpenGraphType: p.OpenGraphType}
	for code, entry := range p.entries {
		dict.Set(code, entry.Title, entry.Description, seo.JoinKeywords(entry.Keywords))
	}
	return dict
}

// Hash fingerprints everything a render of locale depends on.
func (p *Page) Hash(locale string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|", p.Path, i18n.NormalizeCode(locale), p.OpenGraphType, p.NavOrder)
	h.Write([]byte(p.entries[p.defaultLocale].Checksum))
	if entry, ok := p.entries[i18n.NormalizeCode(locale)]; ok {
		h.Write([]byte(entry.Checksum))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// NavItem is one navigation link.
type NavItem struct {
	Page  string
	Label string
	Order int
}

// Catalog holds every page loaded from the content source.
type Catalog struct {
	cfg   i18n.Config
	pages map[string]*Page
	order []string
}

// LoadOptions configures Load.
type LoadOptions struct {
	Root   string
	Config i18n.Config
	Parser interfaces.MarkdownParser
}

// Load reads every source under opts.Root and groups them into pages. It fails
// on unknown locales, invalid page paths and pages without a default entry.
func Load(ctx context.Context, fsys fs.FS, opts LoadOptions) (*Catalog, error) {
	cfg := i18n.NewConfig(opts.Config.DefaultLocale, opts.Config.Locales)
	if cfg.DefaultLocale == "" {
		return nil, ErrDefaultLocaleMissing
	}

	docs, err := markdown.NewLoader(fsys, markdown.LoaderConfig{Root: opts.Root, Parser: opts.Parser}).LoadDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("content: load sources: %w", err)
	}
	return FromDocuments(cfg, docs)
}

// FromDocuments builds a catalog from already parsed documents.
func FromDocuments(cfg i18n.Config, docs []*interfaces.Document) (*Catalog, error) {
	cfg = i18n.NewConfig(cfg.DefaultLocale, cfg.Locales)
	grouped := map[string][]*interfaces.Document{}
	var keys []string
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		page := strings.Trim(doc.Page, "/")
		if err := validatePagePath(page); err != nil {
			return nil, fmt.Errorf("%s: %w", doc.FilePath, err)
		}
		if !cfg.IsSupported(doc.Locale) {
			return nil, fmt.Errorf("%s: %w %q", doc.FilePath, ErrUnknownLocale, doc.Locale)
		}
		if _, ok := grouped[page]; !ok {
			keys = append(keys, page)
		}
		grouped[page] = append(grouped[page], doc)
	}

	catalog := &Catalog{cfg: cfg, pages: map[string]*Page{}}
	for _, key := range keys {
		page, err := buildPage(cfg, key, grouped[key])
		if err != nil {
			return nil, err
		}
		if page == nil {
			continue
		}
		catalog.pages[key] = page
		catalog.order = append(catalog.order, key)
	}
	if len(catalog.order) == 0 {
		return nil, ErrEmptyCatalog
	}
	sort.Strings(catalog.order)
	return catalog, nil
}

func buildPage(cfg i18n.Config, path string, docs []*interfaces.Document) (*Page, error) {
	var base *interfaces.Document
	for _, doc := range docs {
		if cfg.IsDefault(doc.Locale) {
			base = doc
		}
	}
	if base == nil {
		return nil, fmt.Errorf("%w: page %q has no %s source", ErrDefaultLocaleMissing, path, cfg.DefaultLocale)
	}
	if base.FrontMatter.Draft {
		return nil, nil
	}

	page := &Page{
		ID:            identity.PageUUID(path),
		Path:          path,
		OpenGraphType: strings.TrimSpace(base.FrontMatter.OGType),
		NavOrder:      base.FrontMatter.NavOrder,
		ChangeFreq:    strings.TrimSpace(base.FrontMatter.ChangeFreq),
		Priority:      base.FrontMatter.Priority,
		defaultLocale: cfg.DefaultLocale,
		entries:       make(map[string]Entry, len(docs)),
	}
	if page.ChangeFreq == "" {
		page.ChangeFreq = defaultChangeFreq
	}
	if page.Priority <= 0 {
		page.Priority = defaultPriority
		if path == "" {
			page.Priority = homePriority
		}
	}

	for _, doc := range docs {
		if doc.FrontMatter.Draft {
			continue
		}
		if doc.LastModified.After(page.LastModified) {
			page.LastModified = doc.LastModified
		}
		fm := doc.FrontMatter
		page.entries[i18n.NormalizeCode(doc.Locale)] = Entry{
			Locale:      i18n.NormalizeCode(doc.Locale),
			Title:       strings.TrimSpace(fm.Title),
			Description: strings.TrimSpace(fm.Description),
			Keywords:    append([]string(nil), fm.Keywords...),
			NavLabel:    strings.TrimSpace(fm.NavLabel),
			BodyHTML:    string(doc.BodyHTML),
			Checksum:    hex.EncodeToString(doc.Checksum),
		}
	}
	return page, nil
}

func validatePagePath(page string) error {
	if page == "" {
		return nil
	}
	for _, segment := range strings.Split(page, "/") {
		if !slug.IsValid(segment) {
			return fmt.Errorf("%w: %q", ErrPagePathInvalid, page)
		}
	}
	return nil
}

// Config returns the locale configuration the catalog was loaded with.
func (c *Catalog) Config() i18n.Config { return c.cfg }

// Page returns the page at path ("" is the home page).
func (c *Catalog) Page(path string) (*Page, error) {
	page, ok := c.pages[strings.Trim(strings.TrimSpace(path), "/")]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPageNotFound, path)
	}
	return page, nil
}

// Pages returns every page ordered by path.
func (c *Catalog) Pages() []*Page {
	out := make([]*Page, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.pages[key])
	}
	return out
}

// Paths returns every page path ordered.
func (c *Catalog) Paths() []string {
	return append([]string(nil), c.order...)
}

// IsPageRoot reports whether segment is the first segment of any page path.
func (c *Catalog) IsPageRoot(segment string) bool {
	segment = strings.Trim(segment, "/")
	if segment == "" {
		return false
	}
	for _, key := range c.order {
		if key == segment || strings.HasPrefix(key, segment+"/") {
			return true
		}
	}
	return false
}

// Navigation lists every page except the home page for locale, ordered by
// nav_order then path. Labels fall back to titles.
func (c *Catalog) Navigation(locale string) []NavItem {
	items := make([]NavItem, 0, len(c.order))
	for _, key := range c.order {
		if key == "" {
			continue
		}
		page := c.pages[key]
		entry := page.Resolve(locale)
		label := entry.NavLabel
		if label == "" {
			label = entry.Title
		}
		items = append(items, NavItem{Page: key, Label: label, Order: page.NavOrder})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order == items[j].Order {
			return items[i].Page < items[j].Page
		}
		return items[i].Order < items[j].Order
	})
	return items
}
