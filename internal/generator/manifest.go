package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	manifestFileName    = ".docsite-manifest.json"
	manifestFileVersion = 1
)

// buildManifest records the last successful render of every page variant so
// incremental runs can skip unchanged output.
type buildManifest struct {
	Version     int                     `json:"version"`
	GeneratedAt time.Time               `json:"generated_at"`
	Pages       map[string]manifestPage `json:"pages"`
}

type manifestPage struct {
	PageID       string    `json:"page_id"`
	Page         string    `json:"page"`
	Locale       string    `json:"locale"`
	Route        string    `json:"route"`
	Output       string    `json:"output"`
	Template     string    `json:"template"`
	Hash         string    `json:"hash"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"last_modified"`
	RenderedAt   time.Time `json:"rendered_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version: manifestFileVersion,
		Pages:   map[string]manifestPage{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var stored struct {
		Version     int            `json:"version"`
		GeneratedAt time.Time      `json:"generated_at"`
		Pages       []manifestPage `json:"pages"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	manifest := newBuildManifest()
	manifest.GeneratedAt = stored.GeneratedAt
	if stored.Version != 0 {
		manifest.Version = stored.Version
	}
	for _, entry := range stored.Pages {
		manifest.setPage(entry)
	}
	return manifest, nil
}

// marshal writes pages as a sorted list for deterministic output.
func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	ordered := struct {
		Version     int            `json:"version"`
		GeneratedAt time.Time      `json:"generated_at"`
		Pages       []manifestPage `json:"pages"`
	}{
		Version:     m.Version,
		GeneratedAt: m.GeneratedAt,
		Pages:       make([]manifestPage, 0, len(m.Pages)),
	}
	if ordered.Version == 0 {
		ordered.Version = manifestFileVersion
	}
	for _, entry := range m.Pages {
		ordered.Pages = append(ordered.Pages, entry)
	}
	sort.Slice(ordered.Pages, func(i, j int) bool {
		if ordered.Pages[i].PageID == ordered.Pages[j].PageID {
			return ordered.Pages[i].Route < ordered.Pages[j].Route
		}
		return ordered.Pages[i].PageID < ordered.Pages[j].PageID
	})
	return json.MarshalIndent(ordered, "", "  ")
}

// pageKey identifies one variant: the canonical and /en/ variants of a page
// share a locale but not a route.
func (m *buildManifest) pageKey(pageID uuid.UUID, route string) string {
	return strings.ToLower(pageID.String()) + "::" + strings.TrimSpace(route)
}

func (m *buildManifest) lookupPage(pageID uuid.UUID, route string) (manifestPage, bool) {
	if m == nil || len(m.Pages) == 0 {
		return manifestPage{}, false
	}
	entry, ok := m.Pages[m.pageKey(pageID, route)]
	return entry, ok
}

func (m *buildManifest) setPage(entry manifestPage) {
	if m == nil {
		return
	}
	if m.Pages == nil {
		m.Pages = map[string]manifestPage{}
	}
	id, err := uuid.Parse(strings.TrimSpace(entry.PageID))
	if err != nil {
		return
	}
	m.Pages[m.pageKey(id, entry.Route)] = entry
}

func (m *buildManifest) shouldSkipPage(pageID uuid.UUID, route, hash, output string) bool {
	entry, ok := m.lookupPage(pageID, route)
	if !ok {
		return false
	}
	return entry.Hash == hash && strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}
