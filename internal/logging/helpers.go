package logging

import (
	"maps"

	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// WithFields scopes logger to fields when it implements FieldsLogger and
// returns it unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if scoped, ok := logger.(interfaces.FieldsLogger); ok {
		return scoped.WithFields(maps.Clone(fields))
	}
	return logger
}
