package board

import (
	"sort"

	"github.com/silexa/boardcore/internal/errs"
)

// Validate checks every global invariant spec.md §3/§8 states for a
// board: edge symmetry, pin-index density, layer acyclicity,
// fn_refs/layer referential integrity, and owner-id
// consistency. It returns the first violation found, wrapped as a
// Validation error.
func Validate(b *Board) error {
	allPins := collectPins(b)

	if err := validateEdgeSymmetry(allPins); err != nil {
		return err
	}
	if err := validateIndexDensity(b); err != nil {
		return err
	}
	if err := validateLayerForest(b); err != nil {
		return err
	}
	if err := validateLayerRefs(b); err != nil {
		return err
	}
	if err := validateFnRefs(b); err != nil {
		return err
	}
	if err := validateOwnerIDs(b); err != nil {
		return err
	}
	return nil
}

// collectPins gathers every pin on the board — the board's root nodes/layers
// and every layer's own nodes/boundary pins — into one map keyed by pin id.
func collectPins(b *Board) map[string]Pin {
	out := map[string]Pin{}
	for _, n := range b.Nodes {
		for id, p := range n.Pins {
			out[id] = p
		}
	}
	for _, l := range b.Layers {
		for id, p := range l.Pins {
			out[id] = p
		}
		for _, n := range l.Nodes {
			for id, p := range n.Pins {
				out[id] = p
			}
		}
	}
	return out
}

func validateEdgeSymmetry(pins map[string]Pin) error {
	for id, p := range pins {
		for peer := range p.ConnectedTo {
			peerPin, ok := pins[peer]
			if !ok {
				return errs.New(errs.KindValidation, "pin %s connects to unknown pin %s", id, peer)
			}
			if !peerPin.ConnectedTo.Has(id) {
				return errs.New(errs.KindValidation, "edge asymmetry: %s -> %s is not reciprocated", id, peer)
			}
		}
	}
	return nil
}

func validateIndexDensity(b *Board) error {
	check := func(pins map[string]Pin, owner string) error {
		byType := map[PinType][]int{}
		for _, p := range pins {
			byType[p.PinType] = append(byType[p.PinType], p.Index)
		}
		for pt, indices := range byType {
			sort.Ints(indices)
			for i, idx := range indices {
				if idx != i+1 {
					return errs.New(errs.KindValidation, "owner %s %s pins are not densely indexed 1..N", owner, pt)
				}
			}
		}
		return nil
	}
	for _, n := range b.Nodes {
		if err := check(n.Pins, n.ID); err != nil {
			return err
		}
	}
	for _, l := range b.Layers {
		if err := check(l.Pins, l.ID); err != nil {
			return err
		}
		for _, n := range l.Nodes {
			if err := check(n.Pins, n.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateLayerForest(b *Board) error {
	// state: 0=unvisited, 1=visiting, 2=done.
	state := map[string]int{}
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case 2:
			return nil
		case 1:
			return errs.New(errs.KindValidation, "layer cycle detected at %s", id)
		}
		state[id] = 1
		l, ok := b.Layers[id]
		if ok && l.ParentID != "" {
			if _, exists := b.Layers[l.ParentID]; !exists {
				return errs.New(errs.KindValidation, "layer %s references missing parent %s", id, l.ParentID)
			}
			if err := visit(l.ParentID); err != nil {
				return err
			}
		}
		state[id] = 2
		return nil
	}
	for id := range b.Layers {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

func validateLayerRefs(b *Board) error {
	for _, n := range b.Nodes {
		if n.Layer != "" {
			if _, ok := b.Layers[n.Layer]; !ok {
				return errs.New(errs.KindValidation, "node %s references missing layer %s", n.ID, n.Layer)
			}
		}
	}
	for _, c := range b.Comments {
		if c.Layer != "" {
			if _, ok := b.Layers[c.Layer]; !ok {
				return errs.New(errs.KindValidation, "comment %s references missing layer %s", c.ID, c.Layer)
			}
		}
	}
	return nil
}

func validateFnRefs(b *Board) error {
	exists := func(id string) bool {
		if _, ok := b.Nodes[id]; ok {
			return true
		}
		for _, l := range b.Layers {
			if _, ok := l.Nodes[id]; ok {
				return true
			}
		}
		return false
	}
	check := func(n Node) error {
		if n.FnRefs == nil {
			return nil
		}
		for _, ref := range n.FnRefs.FnRefs {
			if !exists(ref) {
				return errs.New(errs.KindValidation, "node %s fn_refs references missing node %s", n.ID, ref)
			}
		}
		return nil
	}
	for _, n := range b.Nodes {
		if err := check(n); err != nil {
			return err
		}
	}
	for _, l := range b.Layers {
		for _, n := range l.Nodes {
			if err := check(n); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateOwnerIDs(b *Board) error {
	for id, n := range b.Nodes {
		if n.ID != id {
			return errs.New(errs.KindValidation, "node map key %s does not match node.id %s", id, n.ID)
		}
		for pid, p := range n.Pins {
			if p.ID != pid {
				return errs.New(errs.KindValidation, "pin map key %s does not match pin.id %s", pid, p.ID)
			}
		}
	}
	for id, l := range b.Layers {
		if l.ID != id {
			return errs.New(errs.KindValidation, "layer map key %s does not match layer.id %s", id, l.ID)
		}
	}
	for id, c := range b.Comments {
		if c.ID != id {
			return errs.New(errs.KindValidation, "comment map key %s does not match comment.id %s", id, c.ID)
		}
	}
	for id, v := range b.Variables {
		if v.ID != id {
			return errs.New(errs.KindValidation, "variable map key %s does not match variable.id %s", id, v.ID)
		}
	}
	return nil
}
