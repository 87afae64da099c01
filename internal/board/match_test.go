package board

import (
	"testing"

	"github.com/silexa/boardcore/internal/types"
)

func stringPin(pt PinType, idx int) Pin {
	return Pin{ID: "p", PinType: pt, DataType: types.DataString, ValueType: types.ValueNormal, Index: idx}
}

func TestDoPinsMatchCompatible(t *testing.T) {
	out := stringPin(PinOutput, 1)
	in := stringPin(PinInput, 1)
	if !DoPinsMatch(out, in, nil) {
		t.Fatalf("expected compatible String/Normal pins to match")
	}
}

func TestDoPinsMatchRejectsTypeMismatch(t *testing.T) {
	out := stringPin(PinOutput, 1)
	in := stringPin(PinInput, 1)
	in.DataType = types.DataInteger
	if DoPinsMatch(out, in, nil) {
		t.Fatalf("String vs Integer must not match")
	}
}

func TestDoPinsMatchRejectsSamePinType(t *testing.T) {
	a := stringPin(PinOutput, 1)
	b := stringPin(PinOutput, 2)
	if DoPinsMatch(a, b, nil) {
		t.Fatalf("two outputs must never match")
	}
}

func TestDoPinsMatchGenericBridgesNonExecution(t *testing.T) {
	out := Pin{PinType: PinOutput, DataType: types.DataGeneric, ValueType: types.ValueNormal}
	in := stringPin(PinInput, 1)
	if !DoPinsMatch(out, in, nil) {
		t.Fatalf("Generic output should bridge a String input")
	}
}

func TestDoPinsMatchExecutionNeverUnifiesWithGeneric(t *testing.T) {
	out := Pin{PinType: PinOutput, DataType: types.DataExecution}
	in := Pin{PinType: PinInput, DataType: types.DataGeneric}
	if DoPinsMatch(out, in, nil) {
		t.Fatalf("Execution must never unify with Generic")
	}
}

func TestDoPinsMatchRoutingSentinelBridgesAnything(t *testing.T) {
	route := Pin{Name: PinRouteIn, PinType: PinInput, DataType: types.DataGeneric}
	exec := Pin{PinType: PinOutput, DataType: types.DataExecution}
	if !DoPinsMatch(route, exec, nil) {
		t.Fatalf("route_in sentinel must bridge unconditionally")
	}
}

func TestDoPinsMatchSchemaMismatchRejected(t *testing.T) {
	refs := Refs{}
	aKey := types.Intern(refs, `{"type":"object","props":"a"}`)
	bKey := types.Intern(refs, `{"type":"object","props":"b"}`)
	a := Pin{PinType: PinOutput, DataType: types.DataStruct, ValueType: types.ValueNormal, Schema: aKey}
	b := Pin{PinType: PinInput, DataType: types.DataStruct, ValueType: types.ValueNormal, Schema: bKey}
	if DoPinsMatch(a, b, refs) {
		t.Fatalf("mismatched schemas must reject the connection")
	}
}

func TestDoPinsMatchEnforceSchemaRequiresBothSet(t *testing.T) {
	refs := Refs{}
	key := types.Intern(refs, `{"type":"object"}`)
	a := Pin{PinType: PinOutput, DataType: types.DataStruct, ValueType: types.ValueNormal, Schema: key,
		Options: &types.PinOptions{EnforceSchema: true}}
	b := Pin{PinType: PinInput, DataType: types.DataStruct, ValueType: types.ValueNormal}
	if DoPinsMatch(a, b, refs) {
		t.Fatalf("enforce_schema must reject a peer with no schema set")
	}
}

func TestDoPinsMatchEnforceSchemaExemptsValueRef(t *testing.T) {
	refs := Refs{}
	key := types.Intern(refs, `{"type":"object"}`)
	a := Pin{PinType: PinOutput, DataType: types.DataStruct, ValueType: types.ValueNormal, Schema: key,
		Options: &types.PinOptions{EnforceSchema: true}}
	b := Pin{Name: PinValueRef, PinType: PinInput, DataType: types.DataStruct, ValueType: types.ValueNormal}
	if !DoPinsMatch(a, b, refs) {
		t.Fatalf("value_ref sentinel must be exempt from enforce_schema")
	}
}

func TestInvertBoundaryPin(t *testing.T) {
	p := Pin{PinType: PinInput}
	inverted := InvertBoundaryPin(p)
	if inverted.PinType != PinOutput {
		t.Fatalf("expected boundary input to invert to output")
	}
	if InvertBoundaryPin(inverted).PinType != PinInput {
		t.Fatalf("inversion must be its own inverse")
	}
}

func TestValidateIndexDensityRejectsGaps(t *testing.T) {
	b := New("b1", "board")
	n := Node{ID: "n1", Pins: map[string]Pin{
		"p1": {ID: "p1", PinType: PinInput, Index: 1},
		"p2": {ID: "p2", PinType: PinInput, Index: 3},
	}}
	b.Nodes[n.ID] = n
	if err := Validate(b); err == nil {
		t.Fatalf("expected index density violation")
	}
}

func TestValidateEdgeSymmetry(t *testing.T) {
	b := New("b1", "board")
	b.Nodes["n1"] = Node{ID: "n1", Pins: map[string]Pin{
		"p1": {ID: "p1", PinType: PinOutput, Index: 1, ConnectedTo: NewStringSet("p2")},
	}}
	b.Nodes["n2"] = Node{ID: "n2", Pins: map[string]Pin{
		"p2": {ID: "p2", PinType: PinInput, Index: 1},
	}}
	if err := Validate(b); err == nil {
		t.Fatalf("expected asymmetric edge to fail validation")
	}
	n2 := b.Nodes["n2"]
	p2 := n2.Pins["p2"]
	p2.ConnectedTo = NewStringSet("p1")
	n2.Pins["p2"] = p2
	b.Nodes["n2"] = n2
	if err := Validate(b); err != nil {
		t.Fatalf("expected symmetric edges to validate, got %v", err)
	}
}

func TestComputeNodeHashStableAndSensitive(t *testing.T) {
	n := Node{ID: "n1", Name: "a"}
	h1 := ComputeNodeHash(n)
	h2 := ComputeNodeHash(n)
	if h1 != h2 {
		t.Fatalf("hash must be deterministic")
	}
	n.Name = "b"
	if ComputeNodeHash(n) == h1 {
		t.Fatalf("hash must change when content changes")
	}
}
