// Package idgen produces the opaque, collision-resistant identifiers
// spec.md §3 requires (≥22 chars of URL-safe entropy) for every board
// entity — nodes, pins, layers, comments, variables, runs, rooms.
package idgen

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// New returns a fresh 22-character URL-safe id: a random UUIDv4's 16
// raw bytes, base64-url-encoded without padding. This carries the
// same entropy as the textual UUID form but avoids hyphens, making the
// id safe to use verbatim as a storage path segment (spec.md §6).
func New() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// Prefixed returns New() with a short human-readable prefix, used for
// run ids, where a glance at a log line should hint at
// the kind of id without a lookup.
func Prefixed(prefix string) string {
	return prefix + "_" + New()
}
