package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Configure properly in production
	},
}

// ChatGate decides whether a connection may enter a booking's chat room and
// handles inbound chat messages (persist + relay). Implemented by the chat
// service; injected here to keep the transport free of storage concerns.
type ChatGate interface {
	CanJoin(ctx context.Context, bookingID, userID primitive.ObjectID) bool
	HandleChatMessage(ctx context.Context, senderID primitive.ObjectID, payload map[string]interface{})
}

type Handler struct {
	hub  *Hub
	gate ChatGate
	log  *logger.Logger
}

func NewHandler(log *logger.Logger) *Handler {
	hub := NewHub(log)
	go hub.Run()

	return &Handler{
		hub: hub,
		log: log,
	}
}

// SetChatGate wires the chat service in after construction; the chat service
// itself needs the hub to emit, so the two are connected in main.
func (h *Handler) SetChatGate(gate ChatGate) {
	h.gate = gate
}

func (h *Handler) Hub() *Hub {
	return h.hub
}

// HandleWebSocket upgrades an authenticated request. Identity comes from the
// auth middleware; the connection is joined to its role room on register.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	role, exists := c.Get("role")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found"})
		return
	}

	userObjectID, ok := userID.(primitive.ObjectID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	roleStr, ok := role.(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Error("websocket upgrade failed")
		return
	}

	client := NewClient(h.hub, conn, userObjectID, roleStr)
	h.hub.register <- client

	go client.writePump()
	go client.readPump(h.gate)
}
