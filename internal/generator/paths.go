package generator

import (
	"path"
	"strings"

	"github.com/goliatone/go-docsite/internal/routing"
)

// buildOutputPath maps a page to its index.html file. An empty prefix is the
// canonical variant; otherwise the file lives under /{prefix}/, including the
// default locale whose prefixed variant holds a redirect stub.
func buildOutputPath(page string, prefix string) string {
	clean := routing.CleanPage(page)
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")

	switch {
	case prefix == "" && clean == "":
		return "index.html"
	case prefix == "":
		return path.Join(clean, "index.html")
	case clean == "":
		return path.Join(prefix, "index.html")
	default:
		return path.Join(prefix, clean, "index.html")
	}
}

// prefixedRoute is the public path of page under /{locale}, without the
// default-locale collapsing done by routing.LocalizedPath.
func prefixedRoute(locale, page string) string {
	clean := routing.CleanPage(page)
	if clean == "" {
		return "/" + locale
	}
	return "/" + locale + "/" + clean
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(strings.Trim(base, "/"), rel)
}
