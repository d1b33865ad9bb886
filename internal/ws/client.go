package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mindwell-server/internal/utils"
)

const (
	// authTimeout bounds the wait for the first (auth) frame.
	authTimeout = 5 * time.Second

	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 8192

	persistTimeout = 10 * time.Second
)

// Client is one authenticated websocket connection. Both the hub and the
// client's own readPump queue frames on send, so the channel is guarded by
// a closed flag: closeSend closes it exactly once and every later trySend
// is a no-op.
type Client struct {
	UserId   uuid.UUID
	Username string

	conn *websocket.Conn
	hub  *Hub

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// trySend queues a payload for the write pump. It reports false when the
// client was already dropped or its buffer is full.
func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// closeSend marks the client dropped and closes the send channel. Safe to
// call more than once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump consumes frames from the connection until it breaks. It handles
// the chat protocol: join_room to enter the community room, send_message to
// persist and relay a message.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.LogMessage("warn", "Websocket read error: "+err.Error())
			}
			return
		}

		event := Event{}
		if err = json.Unmarshal(raw, &event); err != nil {
			c.sendError("invalid frame")
			continue
		}

		switch event.Type {
		case "join_room":
			c.handleJoinRoom(event.Data)
		case "send_message":
			c.handleSendMessage(event.Data)
		default:
			c.sendError("unknown event type")
		}
	}
}

func (c *Client) handleJoinRoom(data json.RawMessage) {
	var payload struct {
		Room string `json:"room"`
	}
	// A missing room defaults to the community room.
	_ = json.Unmarshal(data, &payload)
	if payload.Room != "" && payload.Room != communityRoom {
		c.sendError("unknown room")
		return
	}

	c.hub.joinRoom(c, communityRoom)
	c.sendEvent("room_joined", map[string]string{"room": communityRoom})
}

func (c *Client) handleSendMessage(data json.RawMessage) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Message == "" {
		c.sendError("message is required")
		return
	}
	if len(payload.Message) > 1000 {
		c.sendError("message must be at most 1000 characters")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	message, err := c.hub.persistFunc(ctx, c.UserId, c.Username, payload.Message)
	if err != nil {
		utils.LogMessage("error", "Could not persist chat message: "+err.Error())
		c.sendError("message could not be stored")
		return
	}

	c.hub.BroadcastChat(message)
}

func (c *Client) sendEvent(eventType string, data interface{}) {
	payload, err := marshalEvent(eventType, data)
	if err != nil {
		return
	}
	c.trySend(payload)
}

func (c *Client) sendError(message string) {
	c.sendEvent("error", map[string]string{"message": message})
}

// writePump drains the send channel into the connection and keeps the
// connection alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
