package command

import (
	"encoding/json"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/idgen"
)

type copyPastePayload struct {
	OriginalNodes    []board.Node    `json:"original_nodes"`
	OriginalComments []board.Comment `json:"original_comments"`
	OriginalLayers   []board.Layer   `json:"original_layers"`
	Offset           board.Coordinates `json:"offset"`
	OldMouse         board.Coordinates `json:"old_mouse"`
}

type removePastedPayload struct {
	NodeIDs    []string `json:"node_ids"`
	CommentIDs []string `json:"comment_ids"`
	LayerIDs   []string `json:"layer_ids"`
}

// handleCopyPaste inserts a bulk clipboard payload as new entities
// with fresh ids, translating every coordinate by offset-old_mouse.
// Internal edges (both endpoints pasted) are preserved under the new
// ids; edges to anything outside the pasted set are dropped, matching
// spec.md §4.3's copy_paste semantics. A pasted layer's boundary pins
// are pasted with no connections, so edges that touch a layer
// boundary pin are dropped even when both endpoints are pasted.
func handleCopyPaste(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[copyPastePayload](payload)
	if err != nil {
		return nil, err
	}
	dx := p.Offset.X - p.OldMouse.X
	dy := p.Offset.Y - p.OldMouse.Y
	dz := p.Offset.Z - p.OldMouse.Z

	nodeIDMap := map[string]string{}
	pinIDMap := map[string]string{}
	layerIDMap := map[string]string{}

	for _, n := range p.OriginalNodes {
		nodeIDMap[n.ID] = idgen.New()
		for pid := range n.Pins {
			pinIDMap[pid] = idgen.New()
		}
	}
	for _, l := range p.OriginalLayers {
		layerIDMap[l.ID] = idgen.New()
	}

	var newNodeIDs, newCommentIDs, newLayerIDs []string

	for _, n := range p.OriginalNodes {
		nn := n
		nn.ID = nodeIDMap[n.ID]
		nn.Coordinates = translate(n.Coordinates, dx, dy, dz)
		if mapped, ok := layerIDMap[n.Layer]; ok {
			nn.Layer = mapped
		} else {
			nn.Layer = ""
		}
		nn.Pins = make(map[string]board.Pin, len(n.Pins))
		for pid, pin := range n.Pins {
			np := pin
			np.ID = pinIDMap[pid]
			np.ConnectedTo = remapInternal(pin.ConnectedTo, pinIDMap)
			np.DependsOn = remapInternal(pin.DependsOn, pinIDMap)
			nn.Pins[np.ID] = np
		}
		nn.Hash = board.ComputeNodeHash(nn)
		b.Nodes[nn.ID] = nn
		newNodeIDs = append(newNodeIDs, nn.ID)
	}

	for _, c := range p.OriginalComments {
		nc := c
		nc.ID = idgen.New()
		nc.Coordinates = translate(c.Coordinates, dx, dy, dz)
		if mapped, ok := layerIDMap[c.Layer]; ok {
			nc.Layer = mapped
		} else {
			nc.Layer = ""
		}
		nc.Hash = board.ComputeCommentHash(nc)
		b.Comments[nc.ID] = nc
		newCommentIDs = append(newCommentIDs, nc.ID)
	}

	for _, l := range p.OriginalLayers {
		nl := l
		nl.ID = layerIDMap[l.ID]
		if mapped, ok := layerIDMap[l.ParentID]; ok {
			nl.ParentID = mapped
		} else {
			nl.ParentID = ""
		}
		nl.Coordinates = translate(l.Coordinates, dx, dy, dz)
		nl.Pins = map[string]board.Pin{}
		for pid, pin := range l.Pins {
			np := pin
			np.ID = idgen.New()
			np.ConnectedTo = board.NewStringSet()
			nl.Pins[np.ID] = np
		}
		nl.Nodes = map[string]board.Node{}
		nl.Comments = map[string]board.Comment{}
		nl.Variables = map[string]board.Variable{}
		nl.Hash = board.ComputeLayerHash(nl)
		b.Layers[nl.ID] = nl
		newLayerIDs = append(newLayerIDs, nl.ID)
	}

	return encode(TagRemovePasted, removePastedPayload{NodeIDs: newNodeIDs, CommentIDs: newCommentIDs, LayerIDs: newLayerIDs}), nil
}

// TagRemovePasted is the internal inverse-only counterpart of
// copy_paste: it deletes exactly the entities copy_paste created,
// without needing to reconstruct any external linkage since pasted
// entities never connect to anything outside the paste (spec.md
// §4.3's copy_paste semantics drop external edges).
const TagRemovePasted Tag = "remove_pasted"

func handleRemovePasted(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[removePastedPayload](payload)
	if err != nil {
		return nil, err
	}
	for _, id := range p.NodeIDs {
		delete(b.Nodes, id)
	}
	for _, id := range p.CommentIDs {
		delete(b.Comments, id)
	}
	for _, id := range p.LayerIDs {
		delete(b.Layers, id)
	}
	// Irreversible by design: re-pasting after a redo creates fresh ids
	// again rather than restoring the deleted ones, so this command has
	// no further inverse.
	return encode(TagRemovePasted, removePastedPayload{}), nil
}

func translate(c board.Coordinates, dx, dy, dz float64) board.Coordinates {
	return board.Coordinates{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

func remapInternal(set board.StringSet, idMap map[string]string) board.StringSet {
	out := board.NewStringSet()
	for id := range set {
		if mapped, ok := idMap[id]; ok {
			out.Add(mapped)
		}
	}
	return out
}
