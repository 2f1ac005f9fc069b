package routes

import (
	"github.com/gin-gonic/gin"

	"gorent/internal/handlers"
)

func SetupChatRoutes(rg *gin.RouterGroup, handler *handlers.ChatHandler, auth gin.HandlerFunc) {
	chat := rg.Group("/chat")
	chat.Use(auth)
	{
		chat.GET("/:bookingId", handler.GetMessages)
		chat.POST("", handler.SendMessage)
		chat.PATCH("/:bookingId/read", handler.MarkRead)
	}
}
