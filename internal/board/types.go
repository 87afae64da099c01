// Package board implements the typed dataflow graph model (spec.md
// §3–§4.2, component C2): nodes, pins, edges, layers, comments, and
// variables, plus the invariants that make a board well-formed.
package board

import (
	"sort"

	"github.com/silexa/boardcore/internal/types"
)

// StringSet is a small id set that marshals as a sorted JSON array so
// two structurally-equal sets always hash and serialize identically —
// required for the content-hashing in hash.go and for the undo
// round-trip property in spec.md §8.
type StringSet map[string]struct{}

// NewStringSet builds a set from a slice of ids.
func NewStringSet(ids ...string) StringSet {
	s := make(StringSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s StringSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s StringSet) Add(id string) { s[id] = struct{}{} }

func (s StringSet) Remove(id string) { delete(s, id) }

// Slice returns the set's members in sorted order.
func (s StringSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return marshalJSON(s.Slice())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := unmarshalJSON(data, &ids); err != nil {
		return err
	}
	*s = NewStringSet(ids...)
	return nil
}

// Coordinates is a node/layer/comment's position on the canvas. Z is
// the layer-stacking axis (spec.md §3's [x,y,z] triple).
type Coordinates struct {
	X, Y, Z float64
}

// PinType/DataType/ValueType/PinOptions are re-exported from the type
// layer so callers importing board don't also need to import types
// for the common case.
type (
	PinType    = types.PinType
	DataType   = types.DataType
	ValueType  = types.ValueType
	PinOptions = types.PinOptions
	Refs       = types.Refs
)

const (
	PinInput  = types.PinInput
	PinOutput = types.PinOutput
)

// Pin is a typed port on a node or layer boundary (spec.md §3).
type Pin struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	FriendlyName  string      `json:"friendly_name"`
	Description   string      `json:"description"`
	PinType       PinType     `json:"pin_type"`
	DataType      DataType    `json:"data_type"`
	ValueType     ValueType   `json:"value_type"`
	Index         int         `json:"index"`
	ConnectedTo   StringSet   `json:"connected_to,omitempty"`
	DependsOn     StringSet   `json:"depends_on,omitempty"`
	DefaultValue  []byte      `json:"default_value,omitempty"`
	Schema        string      `json:"schema,omitempty"`
	Options       *PinOptions `json:"options,omitempty"`
	Dynamic       bool        `json:"dynamic,omitempty"`
}

// Shape returns the (data_type, value_type) pair doPinsMatch reasons
// about.
func (p Pin) Shape() types.PinShape {
	return types.PinShape{DataType: p.DataType, ValueType: p.ValueType}
}

// FnRefs describes a node's participation in the function-reference
// graph (spec.md §3) — nodes that call other nodes as functions.
type FnRefs struct {
	CanReferenceFns     bool     `json:"can_reference_fns,omitempty"`
	CanBeReferencedByFn bool     `json:"can_be_referenced_by_fns,omitempty"`
	FnRefs              []string `json:"fn_refs,omitempty"`
}

// Scores carries the optional per-node quality ratings spec.md §3
// lists; all are opaque to the engine beyond being stored and
// returned verbatim.
type Scores struct {
	Privacy     float64 `json:"privacy,omitempty"`
	Security    float64 `json:"security,omitempty"`
	Performance float64 `json:"performance,omitempty"`
	Governance  float64 `json:"governance,omitempty"`
	Reliability float64 `json:"reliability,omitempty"`
	Cost        float64 `json:"cost,omitempty"`
}

// Node is a single opaque computation step in the graph (spec.md §3).
// The engine never interprets what a node does — only its declared
// pin schema and the metadata flags that affect scheduling
// (start/long_running/only_offline/event_callback).
type Node struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	FriendlyName string         `json:"friendly_name"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Coordinates  Coordinates    `json:"coordinates"`
	Comment      string         `json:"comment,omitempty"`
	Icon         string         `json:"icon,omitempty"`
	Pins         map[string]Pin `json:"pins"`
	Layer        string         `json:"layer,omitempty"`
	Start        bool           `json:"start,omitempty"`
	LongRunning  bool           `json:"long_running,omitempty"`
	OnlyOffline  bool           `json:"only_offline,omitempty"`
	EventCallback bool          `json:"event_callback,omitempty"`
	Error        string         `json:"error,omitempty"`
	FnRefs       *FnRefs        `json:"fn_refs,omitempty"`
	Scores       *Scores        `json:"scores,omitempty"`
	// WASMPackageID is an engine extension (SPEC_FULL.md §2, C4): when
	// set, the node must run through the local WASM host and the run
	// is forced Local regardless of the board's execution_mode.
	WASMPackageID string `json:"wasm_package_id,omitempty"`
	Hash         uint64  `json:"hash,omitempty"`
}

// InputPins returns the node's input pins sorted by index.
func (n Node) InputPins() []Pin { return pinsByType(n.Pins, PinInput) }

// OutputPins returns the node's output pins sorted by index.
func (n Node) OutputPins() []Pin { return pinsByType(n.Pins, PinOutput) }

func pinsByType(pins map[string]Pin, pt PinType) []Pin {
	out := make([]Pin, 0, len(pins))
	for _, p := range pins {
		if p.PinType == pt {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// LayerType distinguishes a subgraph's collapsing semantics.
type LayerType string

const (
	LayerCollapsed LayerType = "Collapsed"
	LayerFunction  LayerType = "Function"
	LayerMacro     LayerType = "Macro"
)

// Layer is a named subgraph with its own pin boundary (spec.md §3).
type Layer struct {
	ID           string         `json:"id"`
	ParentID     string         `json:"parent_id,omitempty"`
	Name         string         `json:"name"`
	Type         LayerType      `json:"type"`
	Coordinates  Coordinates    `json:"coordinates"`
	InCoordinates  *Coordinates `json:"in_coordinates,omitempty"`
	OutCoordinates *Coordinates `json:"out_coordinates,omitempty"`
	Pins         map[string]Pin `json:"pins"`
	Nodes        map[string]Node `json:"nodes"`
	Comments     map[string]Comment `json:"comments"`
	Variables    map[string]Variable `json:"variables"`
	Hash         uint64         `json:"hash,omitempty"`
}

// CommentType distinguishes a canvas annotation's media kind.
type CommentType string

const (
	CommentText  CommentType = "Text"
	CommentImage CommentType = "Image"
	CommentVideo CommentType = "Video"
)

// Comment is a canvas annotation (spec.md §3).
type Comment struct {
	ID          string      `json:"id"`
	CommentType CommentType `json:"comment_type"`
	Content     string      `json:"content"`
	Coordinates Coordinates `json:"coordinates"`
	Width       *float64    `json:"width,omitempty"`
	Height      *float64    `json:"height,omitempty"`
	ZIndex      *int        `json:"z_index,omitempty"`
	IsLocked    bool        `json:"is_locked,omitempty"`
	Timestamp   int64       `json:"timestamp"`
	Layer       string      `json:"layer,omitempty"`
	Hash        uint64      `json:"hash,omitempty"`
}

// Variable is a board-scoped named value (spec.md §3).
type Variable struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Category          string    `json:"category,omitempty"`
	DataType          DataType  `json:"data_type"`
	ValueType         ValueType `json:"value_type"`
	DefaultValue      []byte    `json:"default_value"`
	Exposed           bool      `json:"exposed"`
	Secret            bool      `json:"secret"`
	Editable          bool      `json:"editable"`
	RuntimeConfigured bool      `json:"runtime_configured,omitempty"`
	Schema            string    `json:"schema,omitempty"`
}

// ExecutionMode governs where a board's nodes may run (spec.md §4.4).
type ExecutionMode string

const (
	ExecutionLocal  ExecutionMode = "Local"
	ExecutionRemote ExecutionMode = "Remote"
	ExecutionHybrid ExecutionMode = "Hybrid"
)

// Board is the unit of execution: a typed graph plus its variables,
// comments, and interned schema strings (spec.md §3).
type Board struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Nodes         map[string]Node     `json:"nodes"`
	Comments      map[string]Comment  `json:"comments"`
	Layers        map[string]Layer    `json:"layers"`
	Variables     map[string]Variable `json:"variables"`
	Refs          Refs                `json:"refs"`
	ExecutionMode ExecutionMode       `json:"execution_mode"`
	LogLevel      string              `json:"log_level"`
	Stage         string              `json:"stage"`
}

// New returns an empty, well-formed board ready for commands.
func New(id, name string) *Board {
	return &Board{
		ID:            id,
		Name:          name,
		Nodes:         map[string]Node{},
		Comments:      map[string]Comment{},
		Layers:        map[string]Layer{},
		Variables:     map[string]Variable{},
		Refs:          Refs{},
		ExecutionMode: ExecutionLocal,
	}
}

// Clone deep-copies a board so commands can mutate a working copy and
// discard it on validation failure without touching the original.
func (b *Board) Clone() *Board {
	out := &Board{
		ID: b.ID, Name: b.Name, Description: b.Description,
		ExecutionMode: b.ExecutionMode, LogLevel: b.LogLevel, Stage: b.Stage,
		Nodes: make(map[string]Node, len(b.Nodes)),
		Comments: make(map[string]Comment, len(b.Comments)),
		Layers: make(map[string]Layer, len(b.Layers)),
		Variables: make(map[string]Variable, len(b.Variables)),
		Refs: make(Refs, len(b.Refs)),
	}
	for id, n := range b.Nodes {
		out.Nodes[id] = cloneNode(n)
	}
	for id, c := range b.Comments {
		out.Comments[id] = c
	}
	for id, l := range b.Layers {
		out.Layers[id] = cloneLayer(l)
	}
	for id, v := range b.Variables {
		out.Variables[id] = v
	}
	for k, v := range b.Refs {
		out.Refs[k] = v
	}
	return out
}

func cloneNode(n Node) Node {
	out := n
	out.Pins = make(map[string]Pin, len(n.Pins))
	for id, p := range n.Pins {
		out.Pins[id] = clonePin(p)
	}
	return out
}

func clonePin(p Pin) Pin {
	out := p
	out.ConnectedTo = p.ConnectedTo.Clone()
	out.DependsOn = p.DependsOn.Clone()
	if p.DefaultValue != nil {
		out.DefaultValue = append([]byte(nil), p.DefaultValue...)
	}
	return out
}

func cloneLayer(l Layer) Layer {
	out := l
	out.Pins = make(map[string]Pin, len(l.Pins))
	for id, p := range l.Pins {
		out.Pins[id] = clonePin(p)
	}
	out.Nodes = make(map[string]Node, len(l.Nodes))
	for id, n := range l.Nodes {
		out.Nodes[id] = cloneNode(n)
	}
	out.Comments = make(map[string]Comment, len(l.Comments))
	for id, c := range l.Comments {
		out.Comments[id] = c
	}
	out.Variables = make(map[string]Variable, len(l.Variables))
	for id, v := range l.Variables {
		out.Variables[id] = v
	}
	return out
}
