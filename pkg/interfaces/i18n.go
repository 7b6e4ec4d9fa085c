package interfaces

// Translator resolves UI strings for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides what a template helper prints when a key is unknown.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// HelperConfig configures translation template helpers.
type HelperConfig struct {
	TemplateHelperKey string
	OnMissing         MissingTranslationHandler
}

// TranslationService exposes the translator plus template helpers for the configured locales.
type TranslationService interface {
	Translator() Translator
	TemplateHelpers(cfg HelperConfig) map[string]any
	DefaultLocale() string
}
