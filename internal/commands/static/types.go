package staticcmd

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/routing"
)

const (
	buildSiteMessageType    = "docsite.static.build"
	diffSiteMessageType     = "docsite.static.diff"
	cleanSiteMessageType    = "docsite.static.clean"
	buildSitemapMessageType = "docsite.static.sitemap"
)

var localePattern = regexp.MustCompile(`^\s*[A-Za-z]{2,3}([-_][A-Za-z0-9]{2,8})*\s*$`)

// ResultCallback receives build results produced by generator operations. The callback is optional
// and is invoked synchronously from the handler when a BuildResult is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a static command execution that generated a BuildResult.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand executes a generator build using the provided filters.
type BuildSiteCommand struct {
	Pages          []string       `json:"pages,omitempty"`
	Locales        []string       `json:"locales,omitempty"`
	Force          bool           `json:"force,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate ensures locales are locale shaped and page paths are slug segments.
func (m BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Locales, localeRules("docsite.static.build")...),
		validation.Field(&m.Pages, validation.Each(pageRule("docsite.static.build"))),
	)
}

// DiffSiteCommand performs a dry-run build to surface differences without writing artifacts.
type DiffSiteCommand struct {
	Pages          []string       `json:"pages,omitempty"`
	Locales        []string       `json:"locales,omitempty"`
	Force          bool           `json:"force,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (DiffSiteCommand) Type() string { return diffSiteMessageType }

// Validate ensures locales and page paths are well-formed.
func (m DiffSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Locales, localeRules("docsite.static.diff")...),
		validation.Field(&m.Pages, validation.Each(pageRule("docsite.static.diff"))),
	)
}

// CleanSiteCommand clears generator artifacts from the configured storage backend.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }

// BuildSitemapCommand regenerates sitemap.xml (and robots.txt when enabled).
type BuildSitemapCommand struct{}

// Type implements command.Message.
func (BuildSitemapCommand) Type() string { return buildSitemapMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (BuildSitemapCommand) Validate() error { return nil }

// FeatureGates exposes runtime switches used to guard handler execution.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return false
	}
	return g.GeneratorEnabled()
}

func localeRules(prefix string) []validation.Rule {
	return []validation.Rule{
		validation.Each(
			validation.Required.ErrorObject(validation.NewError(prefix+".locale_empty", "locales must not contain empty values")),
			validation.Match(localePattern).ErrorObject(validation.NewError(prefix+".locale_invalid", "locales must be language codes such as en or pt-br")),
		),
	}
}

func pageRule(prefix string) validation.Rule {
	return validation.By(func(value any) error {
		raw, _ := value.(string)
		clean := routing.CleanPage(raw)
		if clean == "" {
			return nil
		}
		for _, segment := range strings.Split(clean, "/") {
			if !slug.IsValid(segment) {
				return validation.NewError(prefix+".page_invalid", "pages must be slug paths such as docs/quickstart")
			}
		}
		return nil
	})
}
