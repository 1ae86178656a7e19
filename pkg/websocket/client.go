package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one connected socket inside a session room.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	// done is closed by the hub on unregister. send is never closed:
	// broadcasters race against unregistration, and a send on a closed
	// channel would panic the whole process.
	done chan struct{}
	code string
	id   string
	// isHost controls whether state snapshots include correct answers and
	// whether advance requests are honored. Declared in the hello message.
	isHost bool
}

func newClient(hub *Hub, conn *websocket.Conn, code string) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
		code: code,
		id:   uuid.NewString(),
	}
}

// enqueue hands a payload to the client's writer. Payloads for departed
// clients and full buffers are dropped rather than blocking or panicking
// the broadcaster.
func (c *Client) enqueue(payload []byte) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- payload:
	case <-c.done:
	default:
		log.Printf("Send buffer full for client %s; unregistering", c.id)
		c.hub.unregister <- c
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close from client %s: %v", c.id, err)
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Error unmarshaling message from client %s: %v", c.id, err)
		return
	}

	switch msg.Type {
	case "hello":
		if data, ok := msg.Data.(map[string]interface{}); ok {
			if isHost, ok := data["is_host"].(bool); ok {
				c.isHost = isHost
			}
		}
		c.sendSnapshot()

	case "state_request":
		c.sendSnapshot()

	case "chat_message":
		// Relayed verbatim to the rest of the room, never persisted.
		c.hub.BroadcastToOthers(c, EventChatMessage, msg.Data)

	case "advance_request":
		if !c.isHost {
			log.Printf("Ignoring advance request from non-host client %s in session %s", c.id, c.code)
			return
		}
		if c.hub.sessions == nil {
			log.Printf("Session service not initialized")
			return
		}
		if err := c.hub.sessions.AdvanceSlide(c.code); err != nil {
			log.Printf("Error advancing slide for session %s: %v", c.code, err)
			return
		}
		c.hub.Broadcast(c.code, EventAdvanceConfirmed, nil)

	default:
		log.Printf("Unknown message type %q from client %s", msg.Type, c.id)
	}
}

func (c *Client) sendSnapshot() {
	if c.hub.sessions == nil {
		log.Printf("Session service not initialized")
		return
	}
	state, err := c.hub.sessions.Snapshot(c.code, c.isHost)
	if err != nil {
		log.Printf("Error building snapshot for session %s: %v", c.code, err)
		c.enqueue(mustMarshal(Message{Type: "error", Data: map[string]string{"message": err.Error()}}))
		return
	}
	c.enqueue(mustMarshal(Message{Type: EventState, Data: state}))
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Error writing to client %s: %v", c.id, err)
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
