package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForRoomSize(t *testing.T, h *Hub, code string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		got := len(h.rooms[code])
		h.mu.RUnlock()
		if got == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("room %s never reached %d clients", code, want)
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case payload := <-c.send:
		var msg Message
		require.NoError(t, json.Unmarshal(payload, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func TestBroadcastStaysInRoom(t *testing.T) {
	h := NewHub()
	go h.Run()

	a := newClient(h, nil, "AAAAAA")
	b := newClient(h, nil, "BBBBBB")
	h.register <- a
	h.register <- b
	waitForRoomSize(t, h, "AAAAAA", 1)
	waitForRoomSize(t, h, "BBBBBB", 1)

	h.Broadcast("AAAAAA", EventAnnouncement, map[string]string{"text": "five minutes left"})

	msg := receive(t, a)
	assert.Equal(t, EventAnnouncement, msg.Type)

	select {
	case payload := <-b.send:
		t.Fatalf("client in another room received %s", payload)
	default:
	}
}

func TestBroadcastToOthersExcludesSender(t *testing.T) {
	h := NewHub()
	go h.Run()

	sender := newClient(h, nil, "CCCCCC")
	peer := newClient(h, nil, "CCCCCC")
	h.register <- sender
	h.register <- peer
	waitForRoomSize(t, h, "CCCCCC", 2)

	h.BroadcastToOthers(sender, EventChatMessage, map[string]string{"text": "hi"})

	msg := receive(t, peer)
	assert.Equal(t, EventChatMessage, msg.Type)
	assert.Empty(t, sender.send)
}

func TestBroadcastAfterClientLeaves(t *testing.T) {
	h := NewHub()
	go h.Run()

	stayer := newClient(h, nil, "DDDDDD")
	leaver := newClient(h, nil, "DDDDDD")
	h.register <- stayer
	h.register <- leaver
	waitForRoomSize(t, h, "DDDDDD", 2)

	h.unregister <- leaver
	waitForRoomSize(t, h, "DDDDDD", 1)

	// A broadcaster that snapshotted the room before the departure still
	// holds a reference to the leaver; delivery must be a silent no-op,
	// never a send on a dead channel.
	leaver.enqueue(mustMarshal(Message{Type: EventState}))
	assert.Empty(t, leaver.send)

	h.Broadcast("DDDDDD", EventScoreUpdate, nil)
	msg := receive(t, stayer)
	assert.Equal(t, EventScoreUpdate, msg.Type)
}
