package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	chatOpTimeout = 10 * time.Second
)

func (m Message) encode() []byte {
	data, _ := json.Marshal(m)
	return data
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	UserID primitive.ObjectID
	Role   string
	rooms  map[string]bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID primitive.ObjectID, role string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		UserID: userID,
		Role:   role,
		rooms:  make(map[string]bool),
	}
}

func (c *Client) readPump(gate ChatGate) {
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
				c.hub.log.WithError(err).Debug("websocket read error")
			}
			break
		}

		c.handleMessage(gate, message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes client-originated events. Chat joins and message
// relays are gated on booking participation; everything else is dropped.
func (c *Client) handleMessage(gate ChatGate, message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		c.hub.log.WithError(err).Debug("dropping malformed websocket message")
		return
	}

	switch msg.Event {
	case eventJoinChat:
		bookingID, ok := objectIDField(msg.Data, "bookingId")
		if !ok || gate == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), chatOpTimeout)
		defer cancel()

		if !gate.CanJoin(ctx, bookingID, c.UserID) {
			c.hub.log.WithFields(map[string]interface{}{
				"user_id":    c.UserID.Hex(),
				"booking_id": bookingID.Hex(),
			}).Warn("rejected chat join for non-participant")
			return
		}
		c.hub.JoinChat(c, bookingID)

	case eventLeaveChat:
		if bookingID, ok := objectIDField(msg.Data, "bookingId"); ok {
			c.hub.LeaveRoom(c, ChatRoom(bookingID))
		}

	case eventSendMessage:
		if gate == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), chatOpTimeout)
		defer cancel()

		gate.HandleChatMessage(ctx, c.UserID, msg.Data)

	default:
		// Clients have no other business broadcasting.
	}
}

func objectIDField(data map[string]interface{}, key string) (primitive.ObjectID, bool) {
	raw, ok := data[key].(string)
	if !ok {
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
