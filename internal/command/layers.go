package command

import (
	"encoding/json"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
	"github.com/silexa/boardcore/internal/idgen"
)

type upsertLayerPayload struct {
	Layer   board.Layer `json:"layer"`
	NodeIDs []string    `json:"node_ids,omitempty"`
}

// boundaryLink records one external edge that upsert_layer's collapse
// rewired through a synthetic boundary pin, so the inverse can put the
// original direct edge back.
type boundaryLink struct {
	BoundaryPinID string `json:"boundary_pin_id"`
	InternalPinID string `json:"internal_pin_id"`
	ExternalPinID string `json:"external_pin_id"`
}

type uncollapseLayerPayload struct {
	LayerID string       `json:"layer_id"`
	Nodes   []board.Node `json:"nodes"`
	Links   []boundaryLink `json:"links"`
}

// handleUpsertLayer either replaces a layer in place (NodeIDs empty)
// or collapses the given root nodes into a freshly created layer,
// rerouting their external edges through synthetic boundary pins
// (spec.md §4.3's upsert_layer).
func handleUpsertLayer(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[upsertLayerPayload](payload)
	if err != nil {
		return nil, err
	}
	if p.Layer.ID == "" {
		return nil, errs.New(errs.KindValidation, "upsert_layer requires a layer id")
	}
	if len(p.NodeIDs) == 0 {
		return handlePlainUpsertLayer(b, p.Layer)
	}
	return handleCollapseLayer(b, p.Layer, p.NodeIDs)
}

func handlePlainUpsertLayer(b *board.Board, layer board.Layer) (*Command, error) {
	if layer.Pins == nil {
		layer.Pins = map[string]board.Pin{}
	}
	if layer.Nodes == nil {
		layer.Nodes = map[string]board.Node{}
	}
	if layer.Comments == nil {
		layer.Comments = map[string]board.Comment{}
	}
	if layer.Variables == nil {
		layer.Variables = map[string]board.Variable{}
	}
	if layer.ParentID != "" {
		if _, ok := b.Layers[layer.ParentID]; !ok {
			return nil, errs.New(errs.KindValidation, "upsert_layer: parent %s does not exist", layer.ParentID)
		}
	}
	layer.Hash = board.ComputeLayerHash(layer)
	prior, existed := b.Layers[layer.ID]
	b.Layers[layer.ID] = layer
	if !existed {
		return encode(TagRemoveLayer, removeLayerPayload{ID: layer.ID, PreserveNodes: false}), nil
	}
	return encode(TagUpsertLayer, upsertLayerPayload{Layer: prior}), nil
}

func handleCollapseLayer(b *board.Board, layer board.Layer, nodeIDs []string) (*Command, error) {
	if _, exists := b.Layers[layer.ID]; exists {
		return nil, errs.New(errs.KindConflict, "upsert_layer: layer %s already exists", layer.ID)
	}
	inSet := board.NewStringSet(nodeIDs...)
	orig := make([]board.Node, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		n, ok := b.Nodes[id]
		if !ok {
			return nil, errs.New(errs.KindNotFound, "upsert_layer: node %s does not exist", id)
		}
		orig = append(orig, cloneNodeForSnapshot(n))
	}

	layer.Pins = map[string]board.Pin{}
	layer.Nodes = map[string]board.Node{}
	if layer.Comments == nil {
		layer.Comments = map[string]board.Comment{}
	}
	if layer.Variables == nil {
		layer.Variables = map[string]board.Variable{}
	}

	var links []boundaryLink
	for _, id := range nodeIDs {
		n := b.Nodes[id]
		for pinID, pin := range n.Pins {
			for peer := range pin.ConnectedTo {
				peerOwner, _ := board.NodeOwning(b, peer)
				if inSet.Has(peerOwner) {
					continue // internal edge, left untouched
				}
				boundary := board.Pin{
					ID:        idgen.New(),
					Name:      boundaryPinName(pin.PinType),
					PinType:   pin.PinType,
					DataType:  pin.DataType,
					ValueType: pin.ValueType,
					Index:     1,
					ConnectedTo: board.NewStringSet(peer, pinID),
				}
				layer.Pins[boundary.ID] = boundary
				links = append(links, boundaryLink{BoundaryPinID: boundary.ID, InternalPinID: pinID, ExternalPinID: peer})

				board.MutatePin(b, peer, func(pp *board.Pin) {
					pp.ConnectedTo.Remove(pinID)
					pp.ConnectedTo.Add(boundary.ID)
				})
				n.Pins[pinID] = withConnectedTo(pin, peer, boundary.ID)
				pin = n.Pins[pinID]
			}
		}
		reindexPins(n.Pins)
		n.Layer = layer.ID
		n.Hash = board.ComputeNodeHash(n)
		layer.Nodes[id] = n
		delete(b.Nodes, id)
	}
	for pt := range map[board.PinType]struct{}{board.PinInput: {}, board.PinOutput: {}} {
		reindexBoundaryPins(layer.Pins, pt)
	}

	layer.Hash = board.ComputeLayerHash(layer)
	b.Layers[layer.ID] = layer

	return encode(TagRestoreLayer, uncollapseLayerPayload{LayerID: layer.ID, Nodes: orig, Links: links}), nil
}

func boundaryPinName(pt board.PinType) string {
	if pt == board.PinInput {
		return board.PinRouteIn
	}
	return board.PinRouteOut
}

func withConnectedTo(pin board.Pin, oldTarget, newTarget string) board.Pin {
	if pin.ConnectedTo.Has(oldTarget) {
		pin.ConnectedTo.Remove(oldTarget)
		pin.ConnectedTo.Add(newTarget)
	}
	return pin
}

func cloneNodeForSnapshot(n board.Node) board.Node {
	out := n
	out.Pins = make(map[string]board.Pin, len(n.Pins))
	for id, p := range n.Pins {
		cp := p
		cp.ConnectedTo = p.ConnectedTo.Clone()
		cp.DependsOn = p.DependsOn.Clone()
		out.Pins[id] = cp
	}
	return out
}

func reindexBoundaryPins(pins map[string]board.Pin, pt board.PinType) {
	var ids []string
	for id, p := range pins {
		if p.PinType == pt {
			ids = append(ids, id)
		}
	}
	for i, id := range ids {
		p := pins[id]
		p.Index = i + 1
		pins[id] = p
	}
}

type removeLayerPayload struct {
	ID            string `json:"id"`
	PreserveNodes bool   `json:"preserve_nodes"`
}

// handleRemoveLayer deletes a plain (non-collapsed-in-this-session)
// layer: when PreserveNodes, its child nodes are re-parented to the
// layer's parent; otherwise they are deleted along with it.
func handleRemoveLayer(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[removeLayerPayload](payload)
	if err != nil {
		return nil, err
	}
	l, ok := b.Layers[p.ID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "remove_layer: layer %s does not exist", p.ID)
	}
	if p.PreserveNodes {
		for id, n := range l.Nodes {
			n.Layer = l.ParentID
			b.Nodes[id] = n
		}
	}
	delete(b.Layers, p.ID)
	return encode(TagUpsertLayer, upsertLayerPayload{Layer: l}), nil
}

// TagRestoreLayer is the internal inverse-only counterpart of a
// collapsing upsert_layer, analogous to TagRestoreNode.
const TagRestoreLayer Tag = "restore_layer"

func handleRestoreLayer(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[uncollapseLayerPayload](payload)
	if err != nil {
		return nil, err
	}
	for _, n := range p.Nodes {
		b.Nodes[n.ID] = n
	}
	for _, link := range p.Links {
		board.MutatePin(b, link.ExternalPinID, func(pp *board.Pin) {
			pp.ConnectedTo.Remove(link.BoundaryPinID)
			pp.ConnectedTo.Add(link.InternalPinID)
		})
	}
	delete(b.Layers, p.LayerID)

	ids := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		ids = append(ids, n.ID)
	}
	return encode(TagUpsertLayer, upsertLayerPayload{
		Layer:   board.Layer{ID: p.LayerID},
		NodeIDs: ids,
	}), nil
}
