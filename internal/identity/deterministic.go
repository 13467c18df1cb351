package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
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

// ClassificationUUID derives a stable identifier for a classification seed.
func ClassificationUUID(kind, name string) uuid.UUID {
	return UUID("go-newsroom:classification:" + strings.ToLower(strings.TrimSpace(kind)) + ":" + strings.ToLower(strings.TrimSpace(name)))
}

// CategoryUUID derives a stable identifier for a category seed.
func CategoryUUID(name string) uuid.UUID {
	return UUID("go-newsroom:category:" + strings.ToLower(strings.TrimSpace(name)))
}

// StationUUID derives a stable identifier for a station seed.
func StationUUID(code string) uuid.UUID {
	return UUID("go-newsroom:station:" + strings.ToLower(strings.TrimSpace(code)))
}
