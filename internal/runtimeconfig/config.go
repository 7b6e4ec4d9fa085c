package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

var ErrDefaultLocaleRequired = errors.New("docsite config: default locale is required")

// ErrDefaultLocaleUnsupported flags a default locale missing from the supported list.
var ErrDefaultLocaleUnsupported = errors.New("docsite config: default locale must be listed in i18n locales")
var ErrLocaleInvalid = errors.New("docsite config: locale is not a valid language tag")
var ErrLocaleDuplicate = errors.New("docsite config: locale listed more than once")
var ErrBaseURLInvalid = errors.New("docsite config: site base url must be absolute http(s)")
var ErrGeneratorOutputDirRequired = errors.New("docsite config: generator output directory is required when generator is enabled")
var ErrGeneratorWorkersInvalid = errors.New("docsite config: generator workers must be zero or positive")
var ErrServerAddrRequired = errors.New("docsite config: server address is required")
var ErrLoggingProviderUnknown = errors.New("docsite config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("docsite config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("docsite config: logging format is invalid")

// DefaultLocales lists the locales the site ships translations for.
var DefaultLocales = []string{"en", "zh", "fr", "de", "ja", "ko", "es", "hi", "ru"}

// Config aggregates the settings for building and serving the site.
type Config struct {
	DefaultLocale string
	I18N          I18NConfig
	Site          SiteConfig
	Analytics     AnalyticsConfig
	Content       ContentConfig
	Generator     GeneratorConfig
	Server        ServerConfig
	Logging       LoggingConfig
}

// I18NConfig lists the supported locales (default included).
type I18NConfig struct {
	Locales []string
}

// SiteConfig captures values rendered into every page.
type SiteConfig struct {
	Name    string
	BaseURL string
}

// AnalyticsConfig holds the tracking identifier injected into the layout.
// An empty TrackingID disables the snippet.
type AnalyticsConfig struct {
	TrackingID string
}

// ContentConfig selects where Markdown documents are read from. An empty Dir
// uses the content embedded in the binary.
type ContentConfig struct {
	Dir string
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	Enabled         bool
	OutputDir       string
	CleanBuild      bool
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	Workers         int
	RenderTimeout   time.Duration
}

// ServerConfig configures the dynamic HTTP mode.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the configuration used by the published site.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		I18N: I18NConfig{
			Locales: append([]string(nil), DefaultLocales...),
		},
		Site: SiteConfig{
			Name:    "Gemini CLI",
			BaseURL: "https://geminicli.example.com",
		},
		Generator: GeneratorConfig{
			Enabled:         true,
			OutputDir:       "dist",
			CleanBuild:      false,
			Incremental:     false,
			GenerateSitemap: true,
			GenerateRobots:  true,
			Workers:         0,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks across sections.
func (cfg Config) Validate() error {
	def := strings.ToLower(strings.TrimSpace(cfg.DefaultLocale))
	if def == "" {
		return ErrDefaultLocaleRequired
	}
	seen := map[string]struct{}{}
	for _, raw := range cfg.I18N.Locales {
		code := strings.ToLower(strings.TrimSpace(raw))
		if _, err := language.Parse(code); err != nil || code == "" {
			return fmt.Errorf("%w: %q", ErrLocaleInvalid, raw)
		}
		if _, ok := seen[code]; ok {
			return fmt.Errorf("%w: %s", ErrLocaleDuplicate, code)
		}
		seen[code] = struct{}{}
	}
	if _, ok := seen[def]; !ok {
		return fmt.Errorf("%w: %s", ErrDefaultLocaleUnsupported, def)
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			return fmt.Errorf("%w: %s", ErrBaseURLInvalid, base)
		}
	}
	if cfg.Generator.Enabled && strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}
	if cfg.Generator.Workers < 0 {
		return ErrGeneratorWorkersInvalid
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
	switch provider {
	case "", "console", "gologger":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// NormalizedLocales returns the configured locales lower-cased and trimmed, in order.
func (cfg Config) NormalizedLocales() []string {
	out := make([]string, 0, len(cfg.I18N.Locales))
	for _, raw := range cfg.I18N.Locales {
		if code := strings.ToLower(strings.TrimSpace(raw)); code != "" {
			out = append(out, code)
		}
	}
	return out
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
