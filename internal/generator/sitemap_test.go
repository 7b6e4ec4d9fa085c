package generator

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSitemapDeduplicatesAndSorts(t *testing.T) {
	fallback := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	body, err := buildSitemap([]sitemapEntry{
		{Location: "https://docs.example.com/docs", Priority: 0.5},
		{Location: "https://docs.example.com/", Priority: 1},
		{Location: "https://docs.example.com/docs", Priority: 0.5},
	}, fallback)
	if err != nil {
		t.Fatalf("sitemap: %v", err)
	}
	if !strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("expected xml header:\n%s", body)
	}
	if strings.Count(body, "<url>") != 2 {
		t.Fatalf("expected deduplicated urls:\n%s", body)
	}
	if strings.Index(body, "https://docs.example.com/</loc>") > strings.Index(body, "https://docs.example.com/docs</loc>") {
		t.Fatalf("expected sorted locations:\n%s", body)
	}
	if !strings.Contains(body, "<lastmod>2025-05-01T00:00:00Z</lastmod>") {
		t.Fatalf("expected fallback lastmod:\n%s", body)
	}
	if !strings.Contains(body, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Fatalf("expected sitemap namespace:\n%s", body)
	}
}

func TestBuildRobotsWithoutSitemap(t *testing.T) {
	robots := buildRobots("https://docs.example.com", false)
	if strings.Contains(robots, "Sitemap:") {
		t.Fatalf("unexpected sitemap reference:\n%s", robots)
	}
	if !strings.HasPrefix(robots, "User-agent: *\n") {
		t.Fatalf("unexpected robots:\n%s", robots)
	}
}
