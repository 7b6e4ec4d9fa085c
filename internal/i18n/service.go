package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

var (
	// ErrMissingTranslation is returned when neither the requested nor the default locale defines a key.
	ErrMissingTranslation = errors.New("i18n: missing translation")
	errDefaultLocaleMissing = errors.New("i18n: default locale is required")
)

const defaultHelperKey = "t"

// Service exposes the UI strings catalog and locale metadata.
type Service interface {
	interfaces.TranslationService
	Config() Config
	LanguageName(code string) string
}

type memoryService struct {
	cfg      Config
	messages map[string]map[string]string
}

// NewInMemoryService builds a Service over an already decoded catalog.
func NewInMemoryService(cfg Config, messages map[string]map[string]string) (Service, error) {
	cfg = NewConfig(cfg.DefaultLocale, cfg.Locales)
	if cfg.DefaultLocale == "" {
		return nil, errDefaultLocaleMissing
	}
	copied := make(map[string]map[string]string, len(messages))
	for code, entries := range messages {
		inner := make(map[string]string, len(entries))
		for key, value := range entries {
			inner[key] = value
		}
		copied[NormalizeCode(code)] = inner
	}
	return &memoryService{cfg: cfg, messages: copied}, nil
}

func (s *memoryService) Config() Config { return s.cfg }

func (s *memoryService) DefaultLocale() string { return s.cfg.DefaultLocale }

func (s *memoryService) Translator() interfaces.Translator { return s }

// Translate looks the key up in the locale, its regional parent ("pt-br" ->
// "pt") and finally the default locale. Args are applied with fmt verbs.
func (s *memoryService) Translate(locale, key string, args ...any) (string, error) {
	for _, code := range s.chain(locale) {
		if value, ok := s.messages[code][key]; ok && value != "" {
			if len(args) > 0 {
				return fmt.Sprintf(value, args...), nil
			}
			return value, nil
		}
	}
	return key, fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
}

func (s *memoryService) chain(locale string) []string {
	code := NormalizeCode(locale)
	chain := make([]string, 0, 3)
	if code != "" {
		chain = append(chain, code)
		if idx := strings.IndexAny(code, "-_"); idx > 0 {
			chain = append(chain, code[:idx])
		}
	}
	return append(chain, s.cfg.DefaultLocale)
}

// TemplateHelpers registers a translate helper under cfg.TemplateHelperKey
// (default "t"). Missing keys render the key itself unless OnMissing says otherwise.
func (s *memoryService) TemplateHelpers(cfg interfaces.HelperConfig) map[string]any {
	key := strings.TrimSpace(cfg.TemplateHelperKey)
	if key == "" {
		key = defaultHelperKey
	}
	return map[string]any{
		key: func(locale, msgKey string, args ...any) string {
			value, err := s.Translate(locale, msgKey, args...)
			if err != nil && cfg.OnMissing != nil {
				return cfg.OnMissing(locale, msgKey, args, err)
			}
			return value
		},
	}
}

// LanguageName returns the language's own name ("中文" for zh), falling back
// to the code when the tag is unknown.
func (s *memoryService) LanguageName(code string) string {
	tag, err := language.Parse(NormalizeCode(code))
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}
