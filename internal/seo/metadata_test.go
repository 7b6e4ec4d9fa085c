package seo

import (
	"encoding/json"
	"testing"
)

func examplesDictionary() Dictionary {
	return Dictionary{
		Titles: map[string]string{
			"en": "Examples",
			"zh": "示例代码",
		},
		Descriptions: map[string]string{
			"en": "Practical Gemini CLI examples.",
			"zh": "Gemini CLI 实用示例。",
		},
		Keywords: map[string]string{
			"en": "gemini cli, examples",
			"zh": "gemini cli, 示例",
		},
	}
}

func TestSelectUsesLocaleEntries(t *testing.T) {
	got := examplesDictionary().Select("zh", "en")

	if got.Title != "示例代码" {
		t.Fatalf("expected Chinese title, got %q", got.Title)
	}
	if got.OpenGraph.Title != got.Title || got.OpenGraph.Description != got.Description {
		t.Fatalf("open graph must mirror title and description, got %+v", got.OpenGraph)
	}
	if got.OpenGraph.Type != DefaultOpenGraphType {
		t.Fatalf("expected default og type, got %q", got.OpenGraph.Type)
	}
}

func TestSelectFallsBackToDefaultForMissingLocale(t *testing.T) {
	dict := examplesDictionary()

	got := dict.Select("fr", "en")
	want := dict.Select("en", "en")
	if got != want {
		t.Fatalf("expected default metadata %+v, got %+v", want, got)
	}
}

func TestSelectFallsBackPerField(t *testing.T) {
	dict := examplesDictionary()
	dict.Titles["de"] = "Beispiele"
	dict.Keywords["de"] = ""

	got := dict.Select("de", "en")
	if got.Title != "Beispiele" {
		t.Fatalf("expected German title, got %q", got.Title)
	}
	if got.Description != "Practical Gemini CLI examples." {
		t.Fatalf("expected English description, got %q", got.Description)
	}
	if got.Keywords != "gemini cli, examples" {
		t.Fatalf("empty keywords must fall back, got %q", got.Keywords)
	}
}

func TestSelectIsIdempotent(t *testing.T) {
	dict := examplesDictionary()
	if dict.Select("ja", "en") != dict.Select("ja", "en") {
		t.Fatalf("repeated selection must be identical")
	}
}

func TestMetadataJSONShape(t *testing.T) {
	dict := examplesDictionary()
	dict.OpenGraphType = "article"

	raw, err := json.Marshal(dict.Select("en", "en"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"title", "description", "keywords", "openGraph"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("expected key %q in %s", key, raw)
		}
	}
	og := decoded["openGraph"].(map[string]any)
	if og["type"] != "article" {
		t.Fatalf("expected article og type, got %v", og["type"])
	}
}

func TestDictionarySetAndHelpers(t *testing.T) {
	var dict Dictionary
	dict.Set("ZH", " 常见问题 ", "", JoinKeywords([]string{"faq", " ", "gemini"}))

	if dict.Titles["zh"] != "常见问题" {
		t.Fatalf("expected trimmed title, got %+v", dict.Titles)
	}
	if dict.Descriptions != nil {
		t.Fatalf("blank description should not allocate, got %+v", dict.Descriptions)
	}
	if dict.Keywords["zh"] != "faq, gemini" {
		t.Fatalf("unexpected keywords %q", dict.Keywords["zh"])
	}
	if got := WithSiteName("FAQ", "Gemini CLI"); got != "FAQ | Gemini CLI" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := WithSiteName("Gemini CLI docs", "Gemini CLI"); got != "Gemini CLI docs" {
		t.Fatalf("unexpected title %q", got)
	}
}
