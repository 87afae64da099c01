package engine

import (
	"testing"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/types"
)

func nodeWithPin(id string, dependsOn ...string) board.Node {
	pin := board.Pin{ID: id + ":in", Name: "in", PinType: board.PinInput, DataType: types.DataGeneric}
	if len(dependsOn) > 0 {
		pin.DependsOn = board.NewStringSet(dependsOn...)
	}
	return board.Node{ID: id, Name: id, Pins: map[string]board.Pin{pin.ID: pin}}
}

func TestBuildPlanOrdersByDependsOn(t *testing.T) {
	b := board.New("b1", "test")
	a := nodeWithPin("a")
	c := nodeWithPin("c", "a:in")
	d := nodeWithPin("d", "c:in")
	b.Nodes[a.ID] = a
	b.Nodes[c.ID] = c
	b.Nodes[d.ID] = d

	plan, err := BuildPlan(b)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Groups) != 3 {
		t.Fatalf("expected 3 groups, got %d: %v", len(plan.Groups), plan.Groups)
	}
	if plan.Groups[0][0] != "a" || plan.Groups[1][0] != "c" || plan.Groups[2][0] != "d" {
		t.Fatalf("unexpected group order: %v", plan.Groups)
	}
}

func TestBuildPlanDetectsCycle(t *testing.T) {
	b := board.New("b1", "test")
	a := nodeWithPin("a", "c:in")
	c := nodeWithPin("c", "a:in")
	b.Nodes[a.ID] = a
	b.Nodes[c.ID] = c

	if _, err := BuildPlan(b); err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestBuildPlanParallelizesIndependentNodes(t *testing.T) {
	b := board.New("b1", "test")
	b.Nodes["a"] = nodeWithPin("a")
	b.Nodes["b"] = nodeWithPin("b")

	plan, err := BuildPlan(b)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Groups) != 1 || len(plan.Groups[0]) != 2 {
		t.Fatalf("expected a single group of 2, got %v", plan.Groups)
	}
}

func TestStartNodes(t *testing.T) {
	b := board.New("b1", "test")
	a := nodeWithPin("a")
	a.Start = true
	b.Nodes["a"] = a
	b.Nodes["b"] = nodeWithPin("b")

	got := StartNodes(b)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected [a], got %v", got)
	}
}
