package board

import (
	"encoding/json"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// hashable mirrors the fields of Node/Layer/Comment that participate
// in change detection, deliberately omitting the Hash field itself —
// hashing a struct that carries its own hash would never stabilize.
// Canonical JSON (Go's map-key-sorted encoding) then xxhash gives a
// cheap, deterministic 64-bit fingerprint (spec.md §4.2).

type hashableNode struct {
	ID            string
	Name          string
	Category      string
	Coordinates   Coordinates
	Comment       string
	Icon          string
	Pins          map[string]Pin
	Layer         string
	Start         bool
	LongRunning   bool
	OnlyOffline   bool
	EventCallback bool
	FnRefs        *FnRefs
	WASMPackageID string
}

// ComputeNodeHash fingerprints everything about a node that affects
// its behavior or connectivity, for the change-detection spec.md §4.2
// asks board diffing to use.
func ComputeNodeHash(n Node) uint64 {
	h := hashableNode{
		ID: n.ID, Name: n.Name, Category: n.Category, Coordinates: n.Coordinates,
		Comment: n.Comment, Icon: n.Icon, Pins: n.Pins, Layer: n.Layer,
		Start: n.Start, LongRunning: n.LongRunning, OnlyOffline: n.OnlyOffline,
		EventCallback: n.EventCallback, FnRefs: n.FnRefs, WASMPackageID: n.WASMPackageID,
	}
	return hashValue(h)
}

type hashableLayer struct {
	ID       string
	ParentID string
	Name     string
	Type     LayerType
	Pins     map[string]Pin
	NodeIDs  []string
}

// ComputeLayerHash fingerprints a layer's boundary and membership, not
// its children's own hashes — a child node's hash change is already
// visible by walking into it, so layer hashing stays O(pins+ids).
func ComputeLayerHash(l Layer) uint64 {
	ids := make([]string, 0, len(l.Nodes))
	for id := range l.Nodes {
		ids = append(ids, id)
	}
	h := hashableLayer{ID: l.ID, ParentID: l.ParentID, Name: l.Name, Type: l.Type, Pins: l.Pins, NodeIDs: sortedStrings(ids)}
	return hashValue(h)
}

type hashableComment struct {
	ID          string
	CommentType CommentType
	Content     string
	Coordinates Coordinates
	Width       *float64
	Height      *float64
	ZIndex      *int
	IsLocked    bool
	Layer       string
}

// ComputeCommentHash fingerprints a comment's editable content,
// excluding Timestamp, so two comments that differ only in Timestamp
// hash the same. Timestamp is stored as supplied; neither this package
// nor the command layer sets it.
func ComputeCommentHash(c Comment) uint64 {
	h := hashableComment{
		ID: c.ID, CommentType: c.CommentType, Content: c.Content, Coordinates: c.Coordinates,
		Width: c.Width, Height: c.Height, ZIndex: c.ZIndex, IsLocked: c.IsLocked, Layer: c.Layer,
	}
	return hashValue(h)
}

func hashValue(v any) uint64 {
	// json.Marshal sorts map keys, so the encoding is stable across
	// calls regardless of Go's randomized map iteration order.
	data, err := json.Marshal(v)
	if err != nil {
		// Every hashable type here is a plain struct of JSON-safe
		// fields; Marshal can only fail on cyclic or unsupported types,
		// neither of which this package constructs.
		panic("board: unhashable value: " + err.Error())
	}
	return xxhash.Sum64(data)
}

func sortedStrings(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}
