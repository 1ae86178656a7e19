package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Message is the envelope for everything exchanged over a session socket.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Event types pushed by the server. Clients that connect late or miss an
// event request a full snapshot with "state_request" instead of polling.
const (
	EventConnected        = "connected"
	EventState            = "state"
	EventPlayerList       = "player_list"
	EventPlayerKicked     = "player_kicked"
	EventGameStarted      = "game_started"
	EventGameEnded        = "game_ended"
	EventSlideChanged     = "slide_changed"
	EventScoreUpdate      = "score_update"
	EventAnnouncement     = "announcement"
	EventChatMessage      = "chat_message"
	EventAdvanceConfirmed = "advance_confirmed"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins. Adjust this in production!
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SessionService is the slice of the session layer the hub needs to serve
// snapshot requests and host-driven slide advances arriving over the socket.
type SessionService interface {
	Snapshot(code string, isHost bool) (interface{}, error)
	AdvanceSlide(code string) error
}

// Hub tracks connected clients grouped into rooms keyed by join code.
// Broadcasts never cross rooms, so a client only ever sees events for the
// game it joined.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	sessions   SessionService
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetSessionService wires the session layer in after construction; the hub
// and the session service reference each other.
func (h *Hub) SetSessionService(service SessionService) {
	h.sessions = service
}

// Run processes registrations and departures. Must run in its own
// goroutine for the hub's lifetime.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[client.code]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[client.code] = room
				log.Printf("Created room for session %s", client.code)
			}
			room[client] = true
			log.Printf("Client %s joined room %s (%d connected)", client.id, client.code, len(room))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.code]; ok {
				if _, connected := room[client]; connected {
					delete(room, client)
					// Closing done, never send, lets broadcasters that
					// already snapshotted this client finish safely.
					close(client.done)
					if len(room) == 0 {
						delete(h.rooms, client.code)
					}
					log.Printf("Client %s left room %s (%d remaining)", client.id, client.code, len(room))
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a typed message to every socket in a session's room.
func (h *Hub) Broadcast(code string, messageType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: messageType, Data: data})
	if err != nil {
		log.Printf("Error marshaling %s message for session %s: %v", messageType, code, err)
		return
	}
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[code]))
	for client := range h.rooms[code] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.enqueue(payload)
	}
}

// BroadcastToOthers sends a message to everyone in the room except the
// originating client. Used for chat relay.
func (h *Hub) BroadcastToOthers(sender *Client, messageType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: messageType, Data: data})
	if err != nil {
		log.Printf("Error marshaling %s message for session %s: %v", messageType, sender.code, err)
		return
	}
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[sender.code]))
	for client := range h.rooms[sender.code] {
		if client != sender {
			clients = append(clients, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.enqueue(payload)
	}
}

// HandleWebSocket upgrades GET /ws/{code} and starts the client pumps.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if code == "" {
		http.Error(w, "Missing session code", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := newClient(h, conn, code)
	h.register <- client

	go client.writePump()
	go client.readPump()

	client.enqueue(mustMarshal(Message{Type: EventConnected, Data: map[string]string{"id": client.id}}))
}

func mustMarshal(msg Message) []byte {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return []byte(`{"type":"error"}`)
	}
	return payload
}
