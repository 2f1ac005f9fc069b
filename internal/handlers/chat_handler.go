package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/middleware"
	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/internal/validators"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// GetMessages handles GET /api/chat/:bookingId.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Unauthorized")
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("bookingId"))
	if err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid booking id"))
		return
	}

	messages, svcErr := h.chatService.GetMessages(c.Request.Context(), bookingID, userID)
	if svcErr != nil {
		utils.AppErrorResponse(c, svcErr)
		return
	}

	utils.SuccessResponse(c, "", gin.H{"messages": messages})
}

// SendMessage handles POST /api/chat.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Unauthorized")
		return
	}

	var request models.SendMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid request body"))
		return
	}

	if errs := validators.ValidateStruct(&request); errs != nil {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), userID, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "", gin.H{"message": message})
}

// MarkRead handles PATCH /api/chat/:bookingId/read.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Unauthorized")
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("bookingId"))
	if err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid booking id"))
		return
	}

	if err := h.chatService.MarkRead(c.Request.Context(), bookingID, userID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Messages marked as read", nil)
}
