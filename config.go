package docsite

import "github.com/goliatone/go-docsite/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired      = runtimeconfig.ErrDefaultLocaleRequired
	ErrDefaultLocaleUnsupported   = runtimeconfig.ErrDefaultLocaleUnsupported
	ErrLocaleInvalid              = runtimeconfig.ErrLocaleInvalid
	ErrLocaleDuplicate            = runtimeconfig.ErrLocaleDuplicate
	ErrBaseURLInvalid             = runtimeconfig.ErrBaseURLInvalid
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorWorkersInvalid    = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrServerAddrRequired         = runtimeconfig.ErrServerAddrRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	I18NConfig      = runtimeconfig.I18NConfig
	SiteConfig      = runtimeconfig.SiteConfig
	AnalyticsConfig = runtimeconfig.AnalyticsConfig
	ContentConfig   = runtimeconfig.ContentConfig
	GeneratorConfig = runtimeconfig.GeneratorConfig
	ServerConfig    = runtimeconfig.ServerConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

// DefaultLocales lists the locales the published site ships.
var DefaultLocales = runtimeconfig.DefaultLocales

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
