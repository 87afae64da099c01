package types

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// SentinelEmptyHash is the well-known ref key that always resolves to
// the empty string, regardless of what (if anything) is stored under
// it in a board's refs map — spec.md §3.
const SentinelEmptyHash = "16248035215404677707"

// Refs is a board's schema-reference interning table: long strings
// (typically serialized JSON Schema) are stored once, keyed by a
// deterministic 64-bit hash, so repeated pin schemas don't duplicate
// the same text across every pin that shares it.
type Refs map[string]string

// Intern returns the key under which s is (or will be) stored in r.
// The empty string always maps to the sentinel key and is never
// actually written into r, matching spec.md §3's "sentinel hash always
// resolves to the empty string" rule without needing a real map entry
// for it.
func Intern(r Refs, s string) string {
	if s == "" {
		return SentinelEmptyHash
	}
	key := hashKey(s)
	if r != nil {
		r[key] = s
	}
	return key
}

// Resolve returns the string a ref key stands for: r[key] if present,
// "" for the sentinel, or key itself unchanged if it isn't a known
// hash (spec.md §4.1's resolve_ref) — callers may also pass a raw,
// non-interned string directly, in which case it round-trips as-is.
func Resolve(key string, r Refs) string {
	if key == SentinelEmptyHash {
		return ""
	}
	if r != nil {
		if v, ok := r[key]; ok {
			return v
		}
	}
	return key
}

func hashKey(s string) string {
	return strconv.FormatUint(xxhash.Sum64String(s), 10)
}
