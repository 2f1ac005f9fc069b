package websocket

import (
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/pkg/logger"
)

// Server-emitted lifecycle events.
const (
	EventNewBookingRequest   = "new-booking-request"
	EventBookingStatusUpdate = "booking-status-update"
	EventReceiveMessage      = "receive-message"
	EventWelcome             = "welcome"
)

// Client-emitted events.
const (
	eventJoinChat    = "join-chat"
	eventLeaveChat   = "leave-chat"
	eventSendMessage = "send-message"
)

// Message is the wire envelope for hub events. Event carries the event name,
// Data the payload; Room is set server side only.
type Message struct {
	Event     string                 `json:"event"`
	Room      string                 `json:"room,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func UserRoom(userID primitive.ObjectID) string {
	return "user-" + userID.Hex()
}

func OwnerRoom(ownerID primitive.ObjectID) string {
	return "owner-" + ownerID.Hex()
}

func ChatRoom(bookingID primitive.ObjectID) string {
	return "chat-" + bookingID.Hex()
}

// Hub tracks live connections and their room membership. Room membership is
// derived from the authenticated identity on register; clients can only
// request chat rooms, and those requests go through the ChatGate.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mutex      sync.RWMutex
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true

	// Identity rooms come from the verified token, never from the client.
	switch client.Role {
	case "owner":
		h.joinRoom(client, OwnerRoom(client.UserID))
	default:
		h.joinRoom(client, UserRoom(client.UserID))
	}

	h.log.WithField("user_id", client.UserID.Hex()).Debug("websocket client registered")

	h.sendToClient(client, Message{
		Event:     EventWelcome,
		Timestamp: time.Now().Unix(),
		Data:      map[string]interface{}{"message": "Connected successfully"},
	})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		h.dropClient(client)
		h.log.WithField("user_id", client.UserID.Hex()).Debug("websocket client unregistered")
	}
}

// dropClient removes the client from every room it joined, then closes its
// send channel exactly once. A dropped client must leave all rooms: a stale
// membership would make the next emit send on the closed channel. Callers
// must hold the mutex.
func (h *Hub) dropClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	for roomID := range client.rooms {
		if room, exists := h.rooms[roomID]; exists {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, roomID)
			}
		}
		delete(client.rooms, roomID)
	}

	close(client.send)
}

// Emit delivers an event to every connection in a room. Delivery is
// best-effort, at most once; a slow client is dropped rather than blocking the
// emitter.
func (h *Hub) Emit(room, event string, data map[string]interface{}) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	members, exists := h.rooms[room]
	if !exists {
		return
	}

	message := Message{
		Event:     event,
		Room:      room,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}
	payload := message.encode()

	for client := range members {
		select {
		case client.send <- payload:
		default:
			h.dropClient(client)
		}
	}
}

func (h *Hub) EmitToUser(userID primitive.ObjectID, event string, data map[string]interface{}) {
	h.Emit(UserRoom(userID), event, data)
}

func (h *Hub) EmitToOwner(ownerID primitive.ObjectID, event string, data map[string]interface{}) {
	h.Emit(OwnerRoom(ownerID), event, data)
}

func (h *Hub) EmitToChat(bookingID primitive.ObjectID, event string, data map[string]interface{}) {
	h.Emit(ChatRoom(bookingID), event, data)
}

func (h *Hub) joinRoom(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
}

func (h *Hub) JoinChat(client *Client, bookingID primitive.ObjectID) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.joinRoom(client, ChatRoom(bookingID))
}

func (h *Hub) LeaveRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if room, exists := h.rooms[roomID]; exists {
		delete(room, client)
		delete(client.rooms, roomID)

		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func (h *Hub) sendToClient(client *Client, message Message) {
	select {
	case client.send <- message.encode():
	default:
		h.dropClient(client)
	}
}
