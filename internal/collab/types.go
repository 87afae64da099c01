// Package collab implements the per-room awareness hub (SPEC_FULL.md
// §2, component C5): lightweight presence and cursor broadcast over
// gorilla/websocket, independent of the command/engine packages. No
// document content is synchronized here, only peer state.
package collab

import "time"

// RoomID identifies an awareness room: app_id+":"+board_id.
type RoomID string

// NewRoomID builds the canonical room key for an app/board pair.
func NewRoomID(appID, boardID string) RoomID {
	return RoomID(appID + ":" + boardID)
}

// ClientStatus is the lifecycle state a room broadcasts for each peer
// on its status stream.
type ClientStatus string

const (
	StatusConnected    ClientStatus = "connected"
	StatusDisconnected ClientStatus = "disconnected"
	StatusReconnecting ClientStatus = "reconnecting"
)

// Cursor is a peer's last-known canvas position, optional because an
// idle peer may not be pointing at anything.
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PeerState is one client's contribution to a room's aggregate
// awareness view.
type PeerState struct {
	ClientID    string    `json:"client_id"`
	UserID      string    `json:"user_id"`
	Cursor      *Cursor   `json:"cursor,omitempty"`
	LayerPath   []string  `json:"layer_path,omitempty"`
	Selection   []string  `json:"selection,omitempty"`
	BoardUpdate *string   `json:"board_update,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EnvelopeKind distinguishes the handful of message shapes a room
// exchanges with its clients.
type EnvelopeKind string

const (
	EnvelopePeerState EnvelopeKind = "peer_state"
	EnvelopeAggregate EnvelopeKind = "aggregate"
	EnvelopeStatus    EnvelopeKind = "status"
	EnvelopeLeave     EnvelopeKind = "leave"
)

// Envelope is the wire message exchanged over the websocket, tagged
// with a per-room monotonic clock so a client can tell a redelivered
// message (at-least-once fan-out, SPEC_FULL.md §2) from a new one.
type Envelope struct {
	Kind     EnvelopeKind `json:"kind"`
	Room     RoomID       `json:"room"`
	Clock    uint64       `json:"clock"`
	ClientID string       `json:"client_id,omitempty"`
	Peers    []PeerState  `json:"peers,omitempty"`
	Status   ClientStatus `json:"status,omitempty"`
}
