package command

import (
	"encoding/json"

	"github.com/silexa/boardcore/internal/board"
	"github.com/silexa/boardcore/internal/errs"
)

type upsertPinPayload struct {
	NodeID string     `json:"node_id"`
	Pin    board.Pin  `json:"pin"`
}

func handleUpsertPin(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[upsertPinPayload](payload)
	if err != nil {
		return nil, err
	}
	n, ok := b.Nodes[p.NodeID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "upsert_pin: node %s does not exist", p.NodeID)
	}
	prior, existed := n.Pins[p.Pin.ID]
	n.Pins[p.Pin.ID] = p.Pin
	reindexPins(n.Pins)
	n.Hash = board.ComputeNodeHash(n)
	b.Nodes[p.NodeID] = n

	if !existed {
		return encode(TagRemovePin, removePinPayload{NodeID: p.NodeID, PinID: p.Pin.ID}), nil
	}
	return encode(TagUpsertPin, upsertPinPayload{NodeID: p.NodeID, Pin: prior}), nil
}

type removePinPayload struct {
	NodeID string `json:"node_id"`
	PinID  string `json:"pin_id"`
}

func handleRemovePin(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[removePinPayload](payload)
	if err != nil {
		return nil, err
	}
	n, ok := b.Nodes[p.NodeID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "remove_pin: node %s does not exist", p.NodeID)
	}
	pin, ok := n.Pins[p.PinID]
	if !ok {
		return nil, errs.New(errs.KindNotFound, "remove_pin: pin %s does not exist on node %s", p.PinID, p.NodeID)
	}
	for peer := range pin.ConnectedTo {
		board.MutatePin(b, peer, func(pp *board.Pin) { pp.ConnectedTo.Remove(p.PinID) })
	}
	for peer := range pin.DependsOn {
		board.MutatePin(b, peer, func(pp *board.Pin) { pp.DependsOn.Remove(p.PinID) })
	}
	delete(n.Pins, p.PinID)
	reindexPins(n.Pins)
	n.Hash = board.ComputeNodeHash(n)
	b.Nodes[p.NodeID] = n

	return encode(TagUpsertPin, upsertPinPayload{NodeID: p.NodeID, Pin: pin}), nil
}

type connectPinsPayload struct {
	A string `json:"a"`
	B string `json:"b"`
}

// handleConnectPins joins two pins if doPinsMatch allows it, rejecting
// self-loops (same owning node on both ends) per spec.md §4.3.
func handleConnectPins(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[connectPinsPayload](payload)
	if err != nil {
		return nil, err
	}
	pa, ok := board.LookupPin(b, p.A)
	if !ok {
		return nil, errs.New(errs.KindNotFound, "connect_pins: pin %s does not exist", p.A)
	}
	pb, ok := board.LookupPin(b, p.B)
	if !ok {
		return nil, errs.New(errs.KindNotFound, "connect_pins: pin %s does not exist", p.B)
	}
	ownerA, _ := board.NodeOwning(b, p.A)
	ownerB, _ := board.NodeOwning(b, p.B)
	if ownerA != "" && ownerA == ownerB {
		return nil, errs.New(errs.KindValidation, "connect_pins: self-loops are not allowed (%s)", ownerA)
	}
	if !board.DoPinsMatch(pa, pb, b.Refs) {
		return nil, errs.New(errs.KindValidation, "connect_pins: pins %s and %s are not compatible", p.A, p.B)
	}
	board.MutatePin(b, p.A, func(pp *board.Pin) {
		if pp.ConnectedTo == nil {
			pp.ConnectedTo = board.NewStringSet()
		}
		pp.ConnectedTo.Add(p.B)
	})
	board.MutatePin(b, p.B, func(pp *board.Pin) {
		if pp.ConnectedTo == nil {
			pp.ConnectedTo = board.NewStringSet()
		}
		pp.ConnectedTo.Add(p.A)
	})
	return encode(TagDisconnectPins, connectPinsPayload{A: p.A, B: p.B}), nil
}

func handleDisconnectPins(b *board.Board, payload json.RawMessage) (*Command, error) {
	p, err := decode[connectPinsPayload](payload)
	if err != nil {
		return nil, err
	}
	if _, ok := board.LookupPin(b, p.A); !ok {
		return nil, errs.New(errs.KindNotFound, "disconnect_pins: pin %s does not exist", p.A)
	}
	if _, ok := board.LookupPin(b, p.B); !ok {
		return nil, errs.New(errs.KindNotFound, "disconnect_pins: pin %s does not exist", p.B)
	}
	board.MutatePin(b, p.A, func(pp *board.Pin) { pp.ConnectedTo.Remove(p.B) })
	board.MutatePin(b, p.B, func(pp *board.Pin) { pp.ConnectedTo.Remove(p.A) })
	return encode(TagConnectPins, connectPinsPayload{A: p.A, B: p.B}), nil
}
