package collab

import (
	"sync"
	"time"
)

// sendBuffer is the per-client outbound queue depth. A client that
// falls behind drops its oldest pending envelope rather than stalling
// the room's broadcast loop, the same bounded-channel shape
// internal/engine's ChannelSink uses for run events.
const sendBuffer = 32

// Room is a single app_id:board_id awareness session. Peer state is
// aggregated in memory only; nothing here touches internal/storage.
type Room struct {
	id RoomID

	mu      sync.Mutex
	clients map[string]*roomClient
	peers   map[string]PeerState
	clock   uint64
}

type roomClient struct {
	send  chan Envelope
	valid bool
}

func newRoom(id RoomID) *Room {
	return &Room{id: id, clients: map[string]*roomClient{}, peers: map[string]PeerState{}}
}

// Hub owns every live room, created lazily on first join.
type Hub struct {
	mu    sync.Mutex
	rooms map[RoomID]*Room
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: map[RoomID]*Room{}}
}

func (h *Hub) room(id RoomID) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[id]
	if !ok {
		r = newRoom(id)
		h.rooms[id] = r
	}
	return r
}

// Join registers clientID in room, replacing any prior connection
// registered under the same id. Reusing an id is how a reconnecting
// client resumes its session: its previously published peer state is
// preserved across the gap instead of being cleared, and the room
// broadcasts Reconnecting/Connected rather than Disconnected/Connected
// for the transition, per SPEC_FULL.md §2.
func (h *Hub) Join(roomID RoomID, clientID string) (*Room, <-chan Envelope) {
	room := h.room(roomID)
	room.mu.Lock()
	defer room.mu.Unlock()

	_, reconnect := room.clients[clientID]
	room.clients[clientID] = &roomClient{send: make(chan Envelope, sendBuffer), valid: true}

	status := StatusConnected
	if reconnect {
		status = StatusReconnecting
	}
	room.broadcastLocked(Envelope{Kind: EnvelopeStatus, Room: roomID, ClientID: clientID, Status: status})
	if reconnect {
		room.broadcastLocked(Envelope{Kind: EnvelopeStatus, Room: roomID, ClientID: clientID, Status: StatusConnected})
	}
	return room, room.clients[clientID].send
}

// Leave removes clientID from the room and drops its contribution to
// the aggregate, emitting a final Disconnected status.
func (h *Hub) Leave(roomID RoomID, clientID string) {
	room := h.room(roomID)
	room.mu.Lock()
	defer room.mu.Unlock()

	delete(room.clients, clientID)
	delete(room.peers, clientID)
	room.broadcastLocked(Envelope{Kind: EnvelopeStatus, Room: roomID, ClientID: clientID, Status: StatusDisconnected})
}

// SetValid marks clientID's token state. An invalid token excludes
// the peer from the aggregate view without closing its socket,
// exactly the behavior SPEC_FULL.md §2 asks for when a short-lived
// access token expires mid-session.
func (h *Hub) SetValid(roomID RoomID, clientID string, valid bool) {
	room := h.room(roomID)
	room.mu.Lock()
	defer room.mu.Unlock()
	if c, ok := room.clients[clientID]; ok {
		c.valid = valid
	}
	room.broadcastAggregateLocked()
}

// UpdatePeerState records clientID's latest awareness state and fans
// the new aggregate out to every client in the room, the sender included.
func (h *Hub) UpdatePeerState(roomID RoomID, state PeerState) {
	room := h.room(roomID)
	room.mu.Lock()
	defer room.mu.Unlock()

	c, ok := room.clients[state.ClientID]
	if !ok || !c.valid {
		return
	}
	state.UpdatedAt = time.Now()
	room.peers[state.ClientID] = state
	room.broadcastAggregateLocked()
}

func (r *Room) broadcastAggregateLocked() {
	peers := make([]PeerState, 0, len(r.peers))
	for id, c := range r.clients {
		if !c.valid {
			continue
		}
		if p, ok := r.peers[id]; ok {
			peers = append(peers, p)
		}
	}
	r.broadcastLocked(Envelope{Kind: EnvelopeAggregate, Room: r.id, Peers: peers})
}

// broadcastLocked stamps env with the room's next clock value and
// fans it out, dropping the oldest queued envelope for any client
// whose send buffer is already full rather than blocking the caller.
func (r *Room) broadcastLocked(env Envelope) {
	r.clock++
	env.Clock = r.clock
	for _, c := range r.clients {
		select {
		case c.send <- env:
		default:
			select {
			case <-c.send:
			default:
			}
			select {
			case c.send <- env:
			default:
			}
		}
	}
}
