package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindwell-server/internal/schemas"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub
}

func newTestClient(hub *Hub, username string) *Client {
	return &Client{
		UserId:   uuid.New(),
		Username: username,
		send:     make(chan []byte, 4),
		hub:      hub,
	}
}

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()

	select {
	case payload, ok := <-client.send:
		require.True(t, ok, "send channel closed unexpectedly")
		event := Event{}
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBroadcastChatReachesRoomMembers(t *testing.T) {
	hub := startHub(t)

	member := newTestClient(hub, "alice")
	bystander := newTestClient(hub, "bob")

	hub.register <- member
	hub.register <- bystander
	require.Eventually(t, func() bool {
		return hub.IsUserConnected(member.UserId) && hub.IsUserConnected(bystander.UserId)
	}, time.Second, 10*time.Millisecond)

	// Only the member joins the room, the bystander stays connected but
	// must not receive chat messages.
	hub.joinRoom(member, communityRoom)

	message := &schemas.ChatMessage{
		MessageId: uuid.New(),
		UserId:    member.UserId,
		Message:   "hello everyone",
		Username:  "alice",
		CreatedAt: time.Now(),
	}
	hub.BroadcastChat(message)

	event := receiveEvent(t, member)
	assert.Equal(t, "receive_message", event.Type)

	received := schemas.ChatMessage{}
	require.NoError(t, json.Unmarshal(event.Data, &received))
	assert.Equal(t, "hello everyone", received.Message)
	assert.Equal(t, "alice", received.Username)

	select {
	case payload := <-bystander.send:
		t.Fatalf("bystander received unexpected payload: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSendToUserTargetsAllConnectionsOfUser(t *testing.T) {
	hub := startHub(t)

	first := newTestClient(hub, "alice")
	second := newTestClient(hub, "alice")
	second.UserId = first.UserId
	other := newTestClient(hub, "bob")

	hub.register <- first
	hub.register <- second
	hub.register <- other
	require.Eventually(t, func() bool {
		return hub.IsUserConnected(first.UserId) && hub.IsUserConnected(other.UserId)
	}, time.Second, 10*time.Millisecond)

	reminder := &schemas.Reminder{
		ReminderId:   uuid.New(),
		UserId:       first.UserId,
		ReminderType: "mood",
		ReminderText: "log your mood",
		ReminderTime: "08:30",
		IsActive:     true,
	}
	hub.SendToUser(first.UserId, "reminder", reminder)

	for _, client := range []*Client{first, second} {
		event := receiveEvent(t, client)
		assert.Equal(t, "reminder", event.Type)
	}

	select {
	case payload := <-other.send:
		t.Fatalf("unrelated user received payload: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterRemovesClient(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(hub, "alice")
	hub.register <- client
	require.Eventually(t, func() bool {
		return hub.IsUserConnected(client.UserId)
	}, time.Second, 10*time.Millisecond)

	hub.joinRoom(client, communityRoom)
	hub.unregister <- client
	require.Eventually(t, func() bool {
		return !hub.IsUserConnected(client.UserId)
	}, time.Second, 10*time.Millisecond)

	// The send channel is closed on removal and broadcasts no longer
	// reach the client.
	_, ok := <-client.send
	assert.False(t, ok)

	hub.BroadcastChat(&schemas.ChatMessage{Message: "after removal"})
}

func TestSlowClientDroppedSafely(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(hub, "alice")
	hub.register <- client
	require.Eventually(t, func() bool {
		return hub.IsUserConnected(client.UserId)
	}, time.Second, 10*time.Millisecond)

	hub.joinRoom(client, communityRoom)

	// Fill the send buffer so the next delivery drops the client.
	for i := 0; i < cap(client.send); i++ {
		require.True(t, client.trySend([]byte("backlog")))
	}

	payload, err := marshalEvent("receive_message", &schemas.ChatMessage{Message: "overflow"})
	require.NoError(t, err)
	hub.deliver(roomMessage{room: communityRoom, payload: payload})

	assert.False(t, hub.IsUserConnected(client.UserId))

	// The read side keeps handling frames for a moment after the drop.
	// Those sends must degrade to no-ops instead of hitting the closed
	// channel.
	require.NotPanics(t, func() {
		client.sendEvent("room_joined", map[string]string{"room": communityRoom})
		client.sendError("unknown room")
	})

	// The regular disconnect path runs afterwards and must not close the
	// channel a second time.
	require.NotPanics(t, func() {
		hub.removeClient(client)
	})
}
