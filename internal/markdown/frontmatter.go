package markdown

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// ParseFrontMatter splits source into its metadata header and Markdown body.
// Sources without a header yield a zero FrontMatter and the full body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta interfaces.FrontMatter

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	return meta, body, nil
}

// BuildDocument assembles a Document for page/locale. BodyHTML is left empty
// so callers decide when to render.
func BuildDocument(filePath, page, locale string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	sum := sha256.Sum256(source)

	return &interfaces.Document{
		FilePath:     filePath,
		Page:         page,
		Locale:       locale,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
		Checksum:     sum[:],
	}, nil
}
