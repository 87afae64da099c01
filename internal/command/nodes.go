package command

import (
	"encoding/json"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
)

type upsertNodePayload struct {
	Node board.Node `json:"node"`
}

// handleUpsertNode inserts or replaces a node by id. Its inverse is
// either remove_node (the node was new) or upsert_node with the prior
// value (the node was replaced), matching spec.md §4.3's table.
func handleUpsertNode(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[upsertNodePayload](payload)
	if err != nil {
		return nil, err
	}
	n := p.Node
	if n.ID == "" {
		return nil, errs.New(errs.KindValidation, "upsert_node requires a node id")
	}
	reindexPins(n.Pins)
	n.Hash = board.ComputeNodeHash(n)

	prior, existed := b.Nodes[n.ID]
	b.Nodes[n.ID] = n

	if !existed {
		return encode(TagRemoveNode, removeNodePayload{ID: n.ID}), nil
	}
	return encode(TagUpsertNode, upsertNodePayload{Node: prior}), nil
}

// handleUpdateNode is upsert_node restricted to existing nodes — the
// structural-update path spec.md §4.3 lists separately from creation.
func handleUpdateNode(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[upsertNodePayload](payload)
	if err != nil {
		return nil, err
	}
	if _, ok := b.Nodes[p.Node.ID]; !ok {
		return nil, errs.New(errs.KindNotFound, "update_node: node %s does not exist", p.Node.ID)
	}
	return handleUpsertNode(b, payload)
}

type removeNodePayload struct {
	ID string `json:"id"`
}

type restoreNodePayload struct {
	Node  board.Node `json:"node"`
	Links []peerLink `json:"links"`
}

type peerLink struct {
	PeerPinID string `json:"peer_pin_id"`
	OwnPinID  string `json:"own_pin_id"`
	DependsOn bool   `json:"depends_on"`
}

func handleRemoveNode(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[removeNodePayload](payload)
	if err != nil {
		return nil, err
	}
	n, ok := b.Nodes[p.ID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "remove_node: node %s does not exist", p.ID)
	}

	var links []peerLink
	for ownPinID, pin := range n.Pins {
		for peer := range pin.ConnectedTo {
			links = append(links, peerLink{PeerPinID: peer, OwnPinID: ownPinID})
			board.MutatePin(b, peer, func(pp *board.Pin) { pp.ConnectedTo.Remove(ownPinID) })
		}
		for peer := range pin.DependsOn {
			links = append(links, peerLink{PeerPinID: peer, OwnPinID: ownPinID, DependsOn: true})
			board.MutatePin(b, peer, func(pp *board.Pin) { pp.DependsOn.Remove(ownPinID) })
		}
	}

	delete(b.Nodes, p.ID)
	return encode(TagRestoreNode, restoreNodePayload{Node: n, Links: links}), nil
}

func handleMoveNode(b *board.Board, payload json.RawMessage) (*Command, error) {
	type movePayload struct {
		ID          string            `json:"id"`
		Coordinates board.Coordinates `json:"coordinates"`
	}
	p, err := decode[movePayload](payload)
	if err != nil {
		return nil, err
	}
	n, ok := b.Nodes[p.ID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "move_node: node %s does not exist", p.ID)
	}
	prior := n.Coordinates
	n.Coordinates = p.Coordinates
	n.Hash = board.ComputeNodeHash(n)
	b.Nodes[p.ID] = n
	return encode(TagMoveNode, movePayload{ID: p.ID, Coordinates: prior}), nil
}

func handleRestoreNode(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[restoreNodePayload](payload)
	if err != nil {
		return nil, err
	}
	b.Nodes[p.Node.ID] = p.Node
	for _, link := range p.Links {
		field := func(pp *board.Pin) {
			if link.DependsOn {
				pp.DependsOn.Add(link.OwnPinID)
			} else {
				pp.ConnectedTo.Add(link.OwnPinID)
			}
		}
		board.MutatePin(b, link.PeerPinID, field)
	}
	return encode(TagRemoveNode, removeNodePayload{ID: p.Node.ID}), nil
}
