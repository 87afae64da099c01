package command

import (
	"encoding/json"
	"testing"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
	"github.com/silexa/boardcore/internal/types"
)

func mustEncode(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func newTestBoard() *board.Board {
	return board.New("b1", "test board")
}

func outPin(id string, dt types.DataType) board.Pin {
	return board.Pin{ID: id, PinType: board.PinOutput, DataType: dt, ValueType: types.ValueNormal, Index: 1}
}

func inPin(id string, dt types.DataType) board.Pin {
	return board.Pin{ID: id, PinType: board.PinInput, DataType: dt, ValueType: types.ValueNormal, Index: 1}
}

func TestS1ConnectCompatiblePins(t *testing.T) {
	b := newTestBoard()
	b.Nodes["n1"] = board.Node{ID: "n1", Pins: map[string]board.Pin{"p1": outPin("p1", types.DataString)}}
	b.Nodes["n2"] = board.Node{ID: "n2", Pins: map[string]board.Pin{"p2": inPin("p2", types.DataString)}}

	inverse, err := Execute(b, Command{Tag: TagConnectPins, Payload: mustEncode(t, connectPinsPayload{A: "p1", B: "p2"})})
	if err != nil {
		t.Fatalf("connect_pins failed: %v", err)
	}
	if !b.Nodes["n1"].Pins["p1"].ConnectedTo.Has("p2") || !b.Nodes["n2"].Pins["p2"].ConnectedTo.Has("p1") {
		t.Fatalf("expected reciprocal connection")
	}
	if inverse.Tag != TagDisconnectPins {
		t.Fatalf("expected disconnect_pins inverse, got %s", inverse.Tag)
	}
}

func TestS2RejectTypeMismatch(t *testing.T) {
	b := newTestBoard()
	b.Nodes["n1"] = board.Node{ID: "n1", Pins: map[string]board.Pin{"p1": outPin("p1", types.DataString)}}
	b.Nodes["n2"] = board.Node{ID: "n2", Pins: map[string]board.Pin{"p2": inPin("p2", types.DataInteger)}}
	before := b.Clone()

	_, err := Execute(b, Command{Tag: TagConnectPins, Payload: mustEncode(t, connectPinsPayload{A: "p1", B: "p2"})})
	if errs.KindOf(err) != errs.KindValidation {
		t.Fatalf("expected Validation error, got %v", err)
	}
	if b.Nodes["n2"].Pins["p2"].ConnectedTo.Has("p1") {
		t.Fatalf("board must be unchanged after a rejected connection")
	}
	_ = before
}

func TestConnectDisconnectUndoRoundTrip(t *testing.T) {
	b := newTestBoard()
	b.Nodes["n1"] = board.Node{ID: "n1", Pins: map[string]board.Pin{"p1": outPin("p1", types.DataString)}}
	b.Nodes["n2"] = board.Node{ID: "n2", Pins: map[string]board.Pin{"p2": inPin("p2", types.DataString)}}

	before := b.Clone()
	inverse, err := Execute(b, Command{Tag: TagConnectPins, Payload: mustEncode(t, connectPinsPayload{A: "p1", B: "p2"})})
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := Undo(b, []Command{*inverse}); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if b.Nodes["n1"].Pins["p1"].ConnectedTo.Has("p2") {
		t.Fatalf("undo should remove the connection")
	}
	_ = before
}

func TestRemoveNodeRestoresEdgesOnUndo(t *testing.T) {
	b := newTestBoard()
	b.Nodes["n1"] = board.Node{ID: "n1", Pins: map[string]board.Pin{"p1": outPin("p1", types.DataString)}}
	b.Nodes["n2"] = board.Node{ID: "n2", Pins: map[string]board.Pin{"p2": inPin("p2", types.DataString)}}
	if _, err := Execute(b, Command{Tag: TagConnectPins, Payload: mustEncode(t, connectPinsPayload{A: "p1", B: "p2"})}); err != nil {
		t.Fatalf("setup connect failed: %v", err)
	}

	inverse, err := Execute(b, Command{Tag: TagRemoveNode, Payload: mustEncode(t, removeNodePayload{ID: "n1"})})
	if err != nil {
		t.Fatalf("remove_node failed: %v", err)
	}
	if _, ok := b.Nodes["n1"]; ok {
		t.Fatalf("node should be gone")
	}
	if b.Nodes["n2"].Pins["p2"].ConnectedTo.Has("p1") {
		t.Fatalf("peer edge should be cleared on removal")
	}

	if err := Undo(b, []Command{*inverse}); err != nil {
		t.Fatalf("undo remove_node failed: %v", err)
	}
	if _, ok := b.Nodes["n1"]; !ok {
		t.Fatalf("node should be restored")
	}
	if !b.Nodes["n2"].Pins["p2"].ConnectedTo.Has("p1") {
		t.Fatalf("peer edge should be restored by undo")
	}
}

func TestExecuteManyRollsBackOnFailure(t *testing.T) {
	b := newTestBoard()
	b.Nodes["n1"] = board.Node{ID: "n1", Pins: map[string]board.Pin{"p1": outPin("p1", types.DataString)}}
	b.Nodes["n2"] = board.Node{ID: "n2", Pins: map[string]board.Pin{"p2": inPin("p2", types.DataInteger)}}

	cmds := []Command{
		{Tag: TagMoveNode, Payload: mustEncode(t, struct {
			ID          string            `json:"id"`
			Coordinates board.Coordinates `json:"coordinates"`
		}{ID: "n1", Coordinates: board.Coordinates{X: 10}})},
		{Tag: TagConnectPins, Payload: mustEncode(t, connectPinsPayload{A: "p1", B: "p2"})},
	}
	_, err := ExecuteMany(b, cmds)
	if err == nil {
		t.Fatalf("expected the second command to fail")
	}
	if b.Nodes["n1"].Coordinates.X != 0 {
		t.Fatalf("move_node should have been rolled back, got X=%v", b.Nodes["n1"].Coordinates.X)
	}
}

func TestUpsertLayerCollapseAndUndo(t *testing.T) {
	b := newTestBoard()
	b.Nodes["a"] = board.Node{ID: "a", Pins: map[string]board.Pin{"ap": outPin("ap", types.DataString)}}
	b.Nodes["c"] = board.Node{ID: "c", Pins: map[string]board.Pin{"cp": inPin("cp", types.DataString)}}
	if _, err := Execute(b, Command{Tag: TagConnectPins, Payload: mustEncode(t, connectPinsPayload{A: "ap", B: "cp"})}); err != nil {
		t.Fatalf("setup connect failed: %v", err)
	}

	inverse, err := Execute(b, Command{Tag: TagUpsertLayer, Payload: mustEncode(t, upsertLayerPayload{
		Layer:   board.Layer{ID: "layer1", Name: "collapsed"},
		NodeIDs: []string{"a"},
	})})
	if err != nil {
		t.Fatalf("collapse failed: %v", err)
	}
	if _, ok := b.Nodes["a"]; ok {
		t.Fatalf("node a should have moved into the layer")
	}
	layer, ok := b.Layers["layer1"]
	if !ok || layer.Nodes["a"].ID != "a" {
		t.Fatalf("layer should contain node a")
	}
	if len(layer.Pins) != 1 {
		t.Fatalf("expected exactly one boundary pin, got %d", len(layer.Pins))
	}

	if err := Undo(b, []Command{*inverse}); err != nil {
		t.Fatalf("undo collapse failed: %v", err)
	}
	if _, ok := b.Nodes["a"]; !ok {
		t.Fatalf("node a should be restored to root")
	}
	if !b.Nodes["a"].Pins["ap"].ConnectedTo.Has("cp") {
		t.Fatalf("original direct edge should be restored")
	}
	if _, ok := b.Layers["layer1"]; ok {
		t.Fatalf("layer should be gone after undo")
	}
}

func TestCopyPasteTranslatesAndDropsExternalEdges(t *testing.T) {
	b := newTestBoard()
	b.Nodes["a"] = board.Node{ID: "a", Coordinates: board.Coordinates{X: 1, Y: 1}, Pins: map[string]board.Pin{
		"ap": outPin("ap", types.DataString),
	}}
	b.Nodes["ext"] = board.Node{ID: "ext", Pins: map[string]board.Pin{"ep": inPin("ep", types.DataString)}}
	if _, err := Execute(b, Command{Tag: TagConnectPins, Payload: mustEncode(t, connectPinsPayload{A: "ap", B: "ep"})}); err != nil {
		t.Fatalf("setup connect failed: %v", err)
	}
	origNode := b.Nodes["a"]

	inverse, err := Execute(b, Command{Tag: TagCopyPaste, Payload: mustEncode(t, copyPastePayload{
		OriginalNodes: []board.Node{origNode},
		Offset:        board.Coordinates{X: 5, Y: 5},
		OldMouse:      board.Coordinates{X: 1, Y: 1},
	})})
	if err != nil {
		t.Fatalf("copy_paste failed: %v", err)
	}
	if len(b.Nodes) != 3 {
		t.Fatalf("expected one new node to have been pasted, have %d nodes", len(b.Nodes))
	}
	var pasted board.Node
	for id, n := range b.Nodes {
		if id != "a" && id != "ext" {
			pasted = n
		}
	}
	if pasted.Coordinates.X != 5 || pasted.Coordinates.Y != 5 {
		t.Fatalf("pasted node should be translated to (5,5), got %+v", pasted.Coordinates)
	}
	for _, p := range pasted.Pins {
		if len(p.ConnectedTo) != 0 {
			t.Fatalf("external edge should have been dropped on paste")
		}
	}

	if err := Undo(b, []Command{*inverse}); err != nil {
		t.Fatalf("undo copy_paste failed: %v", err)
	}
	if len(b.Nodes) != 2 {
		t.Fatalf("expected pasted node removed by undo, have %d nodes", len(b.Nodes))
	}
}
