package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Keys should carry a type prefix so ids from different kinds of records never collide.
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

// PostUUID identifies a post by slug. It stays stable when the post's
// categories, and with them its canonical URL, change.
func PostUUID(slug string) uuid.UUID {
	return UUID("go-blog:post:" + strings.TrimSpace(slug))
}

// FeedUUID identifies a feed by its public base URL.
func FeedUUID(baseURL string) uuid.UUID {
	return UUID("go-blog:feed:" + strings.TrimRight(strings.TrimSpace(baseURL), "/"))
}

// URN renders id in the urn:uuid form used for Atom identifiers.
func URN(id uuid.UUID) string {
	return id.URN()
}
