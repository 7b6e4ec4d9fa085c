package generator

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapEntry struct {
	Location   string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}

type sitemapURL struct {
	Location   string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// buildSitemap renders canonical entries only, sorted by location.
func buildSitemap(entries []sitemapEntry, fallback time.Time) (string, error) {
	sorted := append([]sitemapEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Location < sorted[j].Location
	})

	set := sitemapURLSet{XMLNS: sitemapNamespace}
	seen := map[string]struct{}{}
	for _, entry := range sorted {
		if _, ok := seen[entry.Location]; ok {
			continue
		}
		seen[entry.Location] = struct{}{}

		lastMod := entry.LastMod
		if lastMod.IsZero() {
			lastMod = fallback
		}
		item := sitemapURL{
			Location:   entry.Location,
			ChangeFreq: entry.ChangeFreq,
		}
		if !lastMod.IsZero() {
			item.LastMod = lastMod.UTC().Format(time.RFC3339)
		}
		if entry.Priority > 0 {
			item.Priority = strconv.FormatFloat(entry.Priority, 'f', 1, 64)
		}
		set.URLs = append(set.URLs, item)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("generator: encode sitemap: %w", err)
	}
	return xml.Header + string(body) + "\n", nil
}

func buildRobots(baseURL string, includeSitemap bool) string {
	var builder strings.Builder
	builder.WriteString("User-agent: *\n")
	builder.WriteString("Allow: /\n")
	if includeSitemap {
		base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if base == "" {
			base = "http://localhost"
		}
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf("Sitemap: %s/sitemap.xml\n", base))
	}
	return builder.String()
}
