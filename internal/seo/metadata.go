package seo

import (
	"strings"

	"github.com/goliatone/go-docsite/internal/i18n"
)

// DefaultOpenGraphType is used when a page does not declare og_type.
const DefaultOpenGraphType = "website"

// Dictionary holds per-locale SEO strings for one page. Each map is resolved
// independently so a partially translated page falls back field by field.
type Dictionary struct {
	Titles        map[string]string
	Descriptions  map[string]string
	Keywords      map[string]string
	OpenGraphType string
}

// OpenGraph mirrors the Open Graph subset emitted in page heads.
type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Metadata is the resolved, immutable page metadata for one locale.
type Metadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Keywords    string    `json:"keywords"`
	OpenGraph   OpenGraph `json:"openGraph"`
}

// Select resolves the dictionary for locale. It never fails.
func (d Dictionary) Select(locale, defaultLocale string) Metadata {
	title := i18n.Resolve(d.Titles, locale, defaultLocale)
	description := i18n.Resolve(d.Descriptions, locale, defaultLocale)
	ogType := strings.TrimSpace(d.OpenGraphType)
	if ogType == "" {
		ogType = DefaultOpenGraphType
	}
	return Metadata{
		Title:       title,
		Description: description,
		Keywords:    i18n.Resolve(d.Keywords, locale, defaultLocale),
		OpenGraph: OpenGraph{
			Title:       title,
			Description: description,
			Type:        ogType,
		},
	}
}

// Set records the strings for one locale, skipping blanks.
func (d *Dictionary) Set(locale, title, description, keywords string) {
	code := i18n.NormalizeCode(locale)
	put := func(target *map[string]string, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if *target == nil {
			*target = map[string]string{}
		}
		(*target)[code] = value
	}
	put(&d.Titles, title)
	put(&d.Descriptions, description)
	put(&d.Keywords, keywords)
}

// JoinKeywords renders a keyword list in the comma separated form used by
// the keywords meta tag.
func JoinKeywords(keywords []string) string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return strings.Join(out, ", ")
}

// WithSiteName appends the site name to a title ("Quickstart | Gemini CLI"),
// leaving titles that already mention it untouched.
func WithSiteName(title, siteName string) string {
	title = strings.TrimSpace(title)
	siteName = strings.TrimSpace(siteName)
	switch {
	case siteName == "":
		return title
	case title == "":
		return siteName
	case strings.Contains(title, siteName):
		return title
	default:
		return title + " | " + siteName
	}
}
