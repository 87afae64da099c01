package board

// LookupPin finds a pin by id anywhere in the board: a root node, a
// layer's own boundary, or a node nested inside a layer.
func LookupPin(b *Board, id string) (Pin, bool) {
	for _, n := range b.Nodes {
		if p, ok := n.Pins[id]; ok {
			return p, true
		}
	}
	for _, l := range b.Layers {
		if p, ok := l.Pins[id]; ok {
			return p, true
		}
		for _, n := range l.Nodes {
			if p, ok := n.Pins[id]; ok {
				return p, true
			}
		}
	}
	return Pin{}, false
}

// MutatePin locates the pin by id and applies fn to a copy of it,
// writing the result back wherever the pin actually lives. Reports
// whether the pin was found.
func MutatePin(b *Board, id string, fn func(*Pin)) bool {
	for nid, n := range b.Nodes {
		if p, ok := n.Pins[id]; ok {
			fn(&p)
			n.Pins[id] = p
			b.Nodes[nid] = n
			return true
		}
	}
	for lid, l := range b.Layers {
		if p, ok := l.Pins[id]; ok {
			fn(&p)
			l.Pins[id] = p
			b.Layers[lid] = l
			return true
		}
		for nid, n := range l.Nodes {
			if p, ok := n.Pins[id]; ok {
				fn(&p)
				n.Pins[id] = p
				l.Nodes[nid] = n
				b.Layers[lid] = l
				return true
			}
		}
	}
	return false
}

// NodeOwning returns the id of the node (root or nested in a layer)
// that owns the given pin id, if any.
func NodeOwning(b *Board, pinID string) (string, bool) {
	for _, n := range b.Nodes {
		if _, ok := n.Pins[pinID]; ok {
			return n.ID, true
		}
	}
	for _, l := range b.Layers {
		for _, n := range l.Nodes {
			if _, ok := n.Pins[pinID]; ok {
				return n.ID, true
			}
		}
	}
	return "", false
}
