package collab

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/silexa/boardcore/internal/xlog"
)

const (
	keepAliveInterval = 30 * time.Second
	pongWait          = 2 * keepAliveInterval
	writeWait         = 10 * time.Second
)

// Conn pumps Envelopes between a room's send channel and a single
// websocket connection, matching the read-loop/stats shape
// WebSocketConnection uses in the mesh transport this hub borrows its
// keep-alive cadence from, adapted to a server-accepted connection
// instead of a dialed one.
type Conn struct {
	ws       *websocket.Conn
	hub      *Hub
	room     RoomID
	clientID string
	send     <-chan Envelope
	logger   xlog.Logger
}

// NewConn wires an accepted websocket to room via hub, returning a
// Conn whose Serve method blocks until the socket closes.
func NewConn(ws *websocket.Conn, hub *Hub, room RoomID, clientID string, logger xlog.Logger) *Conn {
	_, send := hub.Join(room, clientID)
	return &Conn{ws: ws, hub: hub, room: room, clientID: clientID, send: send, logger: logger}
}

// Serve runs the read and write pumps and blocks until either side
// closes the connection, then removes the client from its room.
func (c *Conn) Serve() {
	done := make(chan struct{})
	go c.writePump(done)
	c.readPump()
	close(done)
	c.hub.Leave(c.room, c.clientID)
}

func (c *Conn) readPump() {
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Printf("collab: unexpected close for %s/%s: %v", c.room, c.clientID, err)
			}
			return
		}
		var state PeerState
		if err := json.Unmarshal(data, &state); err != nil {
			continue
		}
		state.ClientID = c.clientID
		c.hub.UpdatePeerState(c.room, state)
	}
}

func (c *Conn) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case env, ok := <-c.send:
			if !ok {
				return
			}
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			data, err := json.Marshal(env)
			if err != nil {
				continue
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
