// Package ws relays community chat messages and reminder notifications to
// connected websocket clients.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mindwell-server/internal/schemas"
	"mindwell-server/internal/utils"
)

// communityRoom is the only chat room. The room concept is kept in the
// protocol so clients built for multiple rooms keep working.
const communityRoom = "community"

// AuthFunc validates the token from the auth handshake and resolves it to
// an account.
type AuthFunc func(token string) (userId uuid.UUID, username string, err error)

// PersistFunc stores an incoming chat message and returns the persisted
// row including the server-assigned id and timestamp.
type PersistFunc func(ctx context.Context, userId uuid.UUID, username, message string) (*schemas.ChatMessage, error)

// Event is the envelope for every frame after the auth handshake.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browsers enforce the bearer-style auth handshake cannot be
		// forged cross-origin, the token never lives in a cookie.
		return true
	},
}

// Hub tracks the connected clients and their room membership. All access
// to the maps goes through the Run goroutine or the mutex.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage

	authFunc    AuthFunc
	persistFunc PersistFunc
}

type roomMessage struct {
	room    string
	payload []byte
}

func NewHub(authFunc AuthFunc, persistFunc PersistFunc) *Hub {
	return &Hub{
		clients:     make(map[*Client]struct{}),
		rooms:       make(map[string]map[*Client]struct{}),
		register:    make(chan *Client, 16),
		unregister:  make(chan *Client, 16),
		broadcast:   make(chan roomMessage, 256),
		authFunc:    authFunc,
		persistFunc: persistFunc,
	}
}

// Run is the hub's main loop. It owns the client and room maps and stops
// when the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			utils.LogMessage("info", "Websocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			utils.LogMessage("info", "Websocket client connected: "+client.Username)

		case client := <-h.unregister:
			h.removeClient(client)
			utils.LogMessage("info", "Websocket client disconnected: "+client.Username)

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for _, members := range h.rooms {
		delete(members, client)
	}
	client.closeSend()
}

// deliver fans a payload out to every member of the room. A client whose
// send buffer is full is dropped rather than blocking the hub.
func (h *Hub) deliver(message roomMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.rooms[message.room] {
		if client.trySend(message.payload) {
			continue
		}
		delete(h.clients, client)
		for _, members := range h.rooms {
			delete(members, client)
		}
		client.closeSend()
	}
}

func (h *Hub) joinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
}

// BroadcastChat relays a persisted chat message to the community room.
func (h *Hub) BroadcastChat(message *schemas.ChatMessage) {
	payload, err := marshalEvent("receive_message", message)
	if err != nil {
		utils.LogMessage("error", "Could not encode chat message: "+err.Error())
		return
	}

	select {
	case h.broadcast <- roomMessage{room: communityRoom, payload: payload}:
	default:
		utils.LogMessage("warn", "Broadcast channel full, chat message dropped")
	}
}

// SendToUser pushes an event to every connection of the given user.
// Offline users are skipped silently.
func (h *Hub) SendToUser(userId uuid.UUID, eventType string, data interface{}) {
	payload, err := marshalEvent(eventType, data)
	if err != nil {
		utils.LogMessage("error", "Could not encode event: "+err.Error())
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.UserId == userId {
			if !client.trySend(payload) {
				utils.LogMessage("warn", "Dropped event for user "+userId.String())
			}
		}
	}
}

// IsUserConnected reports whether the user has at least one open connection.
func (h *Hub) IsUserConnected(userId uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.UserId == userId {
			return true
		}
	}
	return false
}

func marshalEvent(eventType string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Event{Type: eventType, Data: raw})
}

// ServeWS upgrades the request and runs the auth handshake: the first frame
// must carry a valid token, otherwise the connection is closed.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.LogMessage("error", "Websocket upgrade failed: "+err.Error())
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(authTimeout))

	var authFrame struct {
		Token string `json:"token"`
	}
	if err = conn.ReadJSON(&authFrame); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseProtocolError, "authentication timeout"))
		_ = conn.Close()
		return
	}

	userId, username, err := h.authFunc(authFrame.Token)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "invalid token"})
		_ = conn.Close()
		utils.LogMessage("warn", "Websocket auth rejected: "+err.Error())
		return
	}

	client := &Client{
		UserId:   userId,
		Username: username,
		conn:     conn,
		send:     make(chan []byte, 64),
		hub:      h,
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.register <- client
	_ = conn.WriteJSON(map[string]string{"status": "authenticated", "user_id": userId.String()})

	go client.writePump()
	go client.readPump()
}
