package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid. Key
// construction must prevent cross-entity collisions, so callers prefix by
// domain and type.
func UUID(key string) uuid.UUID {
	key = strings.TrimSpace(key)
	if key == "" {
		return uuid.Nil
	}

	uid, err := hashid.NewUUID(key,
		hashid.WithHashAlgorithm(hashid.SHA256),
		hashid.WithNormalization(true),
	)
	if err != nil || uid == uuid.Nil {
		// Name-based SHA1 keeps the identifier stable when hashid cannot.
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
	}
	return uid
}

// PostUUID returns the stable identifier for a post slug. Re-importing the
// same corpus always yields the same IDs.
func PostUUID(slug string) uuid.UUID {
	return UUID("go-press:post:" + strings.ToLower(strings.TrimSpace(slug)))
}

// TagUUID returns the stable identifier for a tag archive.
func TagUUID(tag string) uuid.UUID {
	return UUID("go-press:tag:" + strings.ToLower(strings.TrimSpace(tag)))
}
