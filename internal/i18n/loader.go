package i18n

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrCatalogInvalid wraps schema violations found in a messages catalog.
var ErrCatalogInvalid = errors.New("i18n: messages catalog invalid")

// Fixture is a serialised locale configuration plus UI strings keyed by locale.
type Fixture struct {
	Config   Config                       `json:"config"`
	Messages map[string]map[string]string `json:"messages"`
}

//go:embed messages.json
var defaultCatalog []byte

//go:embed messages.schema.json
var catalogSchema []byte

// DefaultFixture loads the UI strings shipped with the binary.
func DefaultFixture() (*Fixture, error) {
	return decodeFixture(defaultCatalog)
}

// Loader reads a messages catalog from disk.
type Loader struct {
	path string
}

// NewLoader constructs a loader that reads the provided file path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses and validates the configured catalog file.
func (l *Loader) Load(ctx context.Context) (*Fixture, error) {
	if l == nil || strings.TrimSpace(l.path) == "" {
		return nil, errors.New("i18n: loader path cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read catalog %q: %w", l.path, err)
	}
	return decodeFixture(data)
}

func decodeFixture(data []byte) (*Fixture, error) {
	if err := validateCatalog(data); err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var fx Fixture
	if err := decoder.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("i18n: decode catalog: %w", err)
	}

	fx.Config = NewConfig(fx.Config.DefaultLocale, fx.Config.Locales)
	normalized := make(map[string]map[string]string, len(fx.Messages))
	for code, messages := range fx.Messages {
		normalized[NormalizeCode(code)] = messages
	}
	fx.Messages = normalized
	return &fx, nil
}

func validateCatalog(data []byte) error {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("messages.schema.json", bytes.NewReader(catalogSchema)); err != nil {
		return fmt.Errorf("i18n: load catalog schema: %w", err)
	}
	schema, err := compiler.Compile("messages.schema.json")
	if err != nil {
		return fmt.Errorf("i18n: compile catalog schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("i18n: decode catalog: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%w: %s", ErrCatalogInvalid, firstIssue(verr))
		}
		return fmt.Errorf("%w: %v", ErrCatalogInvalid, err)
	}
	return nil
}

func firstIssue(err *jsonschema.ValidationError) string {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	location := err.InstanceLocation
	if location == "" {
		location = "#"
	}
	return location + ": " + err.Message
}
