package types

import "testing"

func TestInternResolveRoundTrip(t *testing.T) {
	refs := Refs{}
	key := Intern(refs, `{"type":"object"}`)
	if key == SentinelEmptyHash {
		t.Fatalf("non-empty string must not intern to the sentinel")
	}
	got := Resolve(key, refs)
	if got != `{"type":"object"}` {
		t.Fatalf("resolve mismatch: got %q", got)
	}
}

func TestInternEmptyStringIsSentinel(t *testing.T) {
	refs := Refs{}
	key := Intern(refs, "")
	if key != SentinelEmptyHash {
		t.Fatalf("expected sentinel key, got %q", key)
	}
	if _, stored := refs[SentinelEmptyHash]; stored {
		t.Fatalf("sentinel must not be written into refs")
	}
}

func TestResolveSentinelAlwaysEmpty(t *testing.T) {
	refs := Refs{SentinelEmptyHash: "should be ignored"}
	if got := Resolve(SentinelEmptyHash, refs); got != "" {
		t.Fatalf("sentinel must always resolve to empty, got %q", got)
	}
}

func TestResolveUnknownKeyPassesThrough(t *testing.T) {
	if got := Resolve("not-a-hash", nil); got != "not-a-hash" {
		t.Fatalf("unknown key should round-trip unchanged, got %q", got)
	}
}

func TestInternIsDeterministic(t *testing.T) {
	a := Intern(Refs{}, "same text")
	b := Intern(Refs{}, "same text")
	if a != b {
		t.Fatalf("intern must be deterministic: %q != %q", a, b)
	}
}

func TestColorForKnownAndUnknown(t *testing.T) {
	if ColorFor(DataString) != colorTable[DataString] {
		t.Fatalf("known data type should hit the table directly")
	}
	if ColorFor(DataType("totally-unknown")) != colorTable[DataGeneric] {
		t.Fatalf("unknown data type should fall back to Generic's color")
	}
}
