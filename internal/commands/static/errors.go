package staticcmd

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-docsite/internal/commands"
	"github.com/goliatone/go-docsite/internal/content"
	"github.com/goliatone/go-docsite/internal/generator"
)

const (
	codeGeneratorDisabled = "GENERATOR_DISABLED"
	codePageNotFound      = "PAGE_NOT_FOUND"
	codeLocaleUnsupported = "LOCALE_UNSUPPORTED"
)

// classify maps generator sentinels to go-errors categories. Anything else is
// left for the command handler to tag.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, generator.ErrServiceDisabled):
		return commands.Categorize(err, goerrors.CategoryOperation, "static generator is disabled", codeGeneratorDisabled)
	case errors.Is(err, content.ErrPageNotFound):
		return commands.Categorize(err, goerrors.CategoryNotFound, "page not found", codePageNotFound)
	case errors.Is(err, generator.ErrLocaleUnsupported):
		return commands.Categorize(err, goerrors.CategoryBadInput, "locale is not supported", codeLocaleUnsupported)
	default:
		return err
	}
}
