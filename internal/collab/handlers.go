package collab

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/silexa/boardcore/internal/xlog"
)

// defaultAccessTTL bounds how long a minted room token is valid
// before a client must call getRealtimeAccess again.
const defaultAccessTTL = 5 * time.Minute

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Handlers exposes getRealtimeAccess, getRealtimeJwks, and the room
// websocket upgrade as plain net/http handlers a façade router can
// mount alongside its own routes.
type Handlers struct {
	Hub    *Hub
	Keys   *KeySet
	Logger xlog.Logger
}

// NewHandlers wires a hub and signing keyset into HTTP handlers.
func NewHandlers(hub *Hub, keys *KeySet, logger xlog.Logger) *Handlers {
	return &Handlers{Hub: hub, Keys: keys, Logger: logger}
}

type accessRequest struct {
	Sub         string   `json:"sub"`
	Permissions []string `json:"permissions"`
}

// GetRealtimeAccess issues a short-lived, room-scoped token for the
// app/board named in the route.
func (h *Handlers) GetRealtimeAccess(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")
	boardID := chi.URLParam(r, "board_id")

	var req accessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Sub == "" {
		http.Error(w, "sub required", http.StatusBadRequest)
		return
	}

	room := string(NewRoomID(appID, boardID))
	token, err := h.Keys.IssueAccess(req.Sub, room, req.Permissions, defaultAccessTTL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"room":       room,
		"expires_in": int(defaultAccessTTL.Seconds()),
	})
}

// GetRealtimeJwks publishes the verifying public key set.
func (h *Handlers) GetRealtimeJwks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Keys.JWKS())
}

// ServeRoom upgrades the request to a websocket and joins the client
// to its room after verifying the supplied access token.
func (h *Handlers) ServeRoom(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "app_id")
	boardID := chi.URLParam(r, "board_id")
	clientID := r.URL.Query().Get("client_id")
	token := r.URL.Query().Get("token")
	if clientID == "" || token == "" {
		http.Error(w, "client_id and token required", http.StatusBadRequest)
		return
	}

	room := NewRoomID(appID, boardID)
	if _, err := h.Keys.VerifyAccess(token, string(room)); err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Printf("collab: upgrade failed for %s: %v", room, err)
		return
	}

	conn := NewConn(ws, h.Hub, room, clientID, h.Logger)
	conn.Serve()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
