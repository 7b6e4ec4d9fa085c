package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Keys must be prefixed by entity kind to avoid cross-entity collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PageUUID identifies a logical page regardless of locale. The home page is "".
func PageUUID(page string) uuid.UUID {
	return UUID("docsite:page:/" + strings.Trim(strings.TrimSpace(page), "/"))
}

// NewRequestID returns a random identifier for request correlation.
func NewRequestID() string {
	return uuid.NewString()
}
