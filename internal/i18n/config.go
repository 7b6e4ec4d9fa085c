package i18n

import (
	"slices"
	"strings"
)

// Config describes the closed locale set. DefaultLocale must be one of Locales.
type Config struct {
	DefaultLocale string   `json:"default_locale"`
	Locales       []string `json:"locales"`
}

// NewConfig normalises codes to lower case, drops blanks and duplicates, and
// makes sure the default locale is part of the set.
func NewConfig(defaultLocale string, locales []string) Config {
	def := NormalizeCode(defaultLocale)
	out := make([]string, 0, len(locales)+1)
	for _, raw := range locales {
		code := NormalizeCode(raw)
		if code == "" || slices.Contains(out, code) {
			continue
		}
		out = append(out, code)
	}
	if def != "" && !slices.Contains(out, def) {
		out = append([]string{def}, out...)
	}
	return Config{DefaultLocale: def, Locales: out}
}

// NormalizeCode trims and lower-cases a locale code.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Supported returns a copy of the locale set in configured order.
func (c Config) Supported() []string {
	return append([]string(nil), c.Locales...)
}

// IsSupported reports whether code belongs to the locale set.
func (c Config) IsSupported(code string) bool {
	code = NormalizeCode(code)
	return code != "" && slices.Contains(c.Locales, code)
}

// IsDefault reports whether code is the default locale.
func (c Config) IsDefault(code string) bool {
	return NormalizeCode(code) == c.DefaultLocale && c.DefaultLocale != ""
}

// Alternates returns every supported locale except the default one.
func (c Config) Alternates() []string {
	out := make([]string, 0, len(c.Locales))
	for _, code := range c.Locales {
		if code != c.DefaultLocale {
			out = append(out, code)
		}
	}
	return out
}
