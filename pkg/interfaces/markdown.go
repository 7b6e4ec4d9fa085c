package interfaces

import (
	"strings"
	"time"
)

// MarkdownParser converts Markdown bodies into HTML fragments.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown rendering. Names stay readable for
// configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// Document is one localized page source: front matter plus Markdown body.
type Document struct {
	FilePath     string
	Page         string
	Locale       string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum is the SHA-256 of the raw file and feeds incremental builds.
	Checksum []byte
}

// FrontMatter is the metadata header of a page source.
type FrontMatter struct {
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Keywords    Keywords       `yaml:"keywords" json:"keywords"`
	OGType      string         `yaml:"og_type" json:"og_type"`
	NavLabel    string         `yaml:"nav_label" json:"nav_label"`
	NavOrder    int            `yaml:"nav_order" json:"nav_order"`
	ChangeFreq  string         `yaml:"changefreq" json:"changefreq"`
	Priority    float64        `yaml:"priority" json:"priority"`
	Draft       bool           `yaml:"draft" json:"draft"`
	Custom      map[string]any `yaml:",inline" json:"custom"`
}

// Keywords accepts either a YAML list or a comma separated string.
type Keywords []string

// UnmarshalYAML implements the yaml.v2 style unmarshaler used by front matter decoding.
func (k *Keywords) UnmarshalYAML(unmarshal func(any) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*k = cleanKeywords(list)
		return nil
	}
	var single string
	if err := unmarshal(&single); err != nil {
		return err
	}
	*k = cleanKeywords(strings.Split(single, ","))
	return nil
}

func cleanKeywords(values []string) Keywords {
	out := make(Keywords, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
