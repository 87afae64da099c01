package engine

import (
	"sort"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
)

// Plan is the board resolved into sequential groups of node ids; every
// node in a group may run concurrently, but a group only starts once
// every earlier group has finished (spec.md §4.4's execution routing
// operates per group).
type Plan struct {
	Groups [][]string
}

// BuildPlan derives a node's execution order from the depends_on
// closure: node A depends on node B if any of A's pins lists a pin
// owned by B in depends_on. Only depends_on is read; connected_to
// does not order nodes here.
func BuildPlan(b *board.Board) (Plan, error) {
	nodes := allNodes(b)
	deps := map[string]map[string]struct{}{}
	for id := range nodes {
		deps[id] = map[string]struct{}{}
	}
	for id, n := range nodes {
		for _, pin := range n.Pins {
			for depPin := range pin.DependsOn {
				if owner, ok := board.NodeOwning(b, depPin); ok && owner != id {
					deps[id][owner] = struct{}{}
				}
			}
		}
	}

	var plan Plan
	done := map[string]bool{}
	remaining := len(nodes)
	for remaining > 0 {
		var group []string
		for id := range nodes {
			if done[id] {
				continue
			}
			ready := true
			for dep := range deps[id] {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				group = append(group, id)
			}
		}
		if len(group) == 0 {
			return Plan{}, errs.New(errs.KindValidation, "execution plan has a dependency cycle")
		}
		sort.Strings(group)
		plan.Groups = append(plan.Groups, group)
		for _, id := range group {
			done[id] = true
		}
		remaining -= len(group)
	}
	return plan, nil
}

func allNodes(b *board.Board) map[string]board.Node {
	out := make(map[string]board.Node, len(b.Nodes))
	for id, n := range b.Nodes {
		out[id] = n
	}
	for _, l := range b.Layers {
		for id, n := range l.Nodes {
			out[id] = n
		}
	}
	return out
}

// StartNodes returns the ids of every node flagged as a run entry
// point (spec.md §3's start flag).
func StartNodes(b *board.Board) []string {
	var out []string
	for id, n := range allNodes(b) {
		if n.Start {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
