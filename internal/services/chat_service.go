package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/pkg/logger"
	"gorent/pkg/websocket"
)

type ChatService interface {
	SendMessage(ctx context.Context, senderID primitive.ObjectID, request *models.SendMessageRequest) (*models.Message, error)
	GetMessages(ctx context.Context, bookingID, requesterID primitive.ObjectID) ([]*models.Message, error)
	MarkRead(ctx context.Context, bookingID, readerID primitive.ObjectID) error

	// websocket.ChatGate
	CanJoin(ctx context.Context, bookingID, userID primitive.ObjectID) bool
	HandleChatMessage(ctx context.Context, senderID primitive.ObjectID, payload map[string]interface{})
}

type chatService struct {
	chatRepo    interfaces.ChatRepository
	bookingRepo interfaces.BookingRepository
	userRepo    interfaces.UserRepository
	notifier    Notifier
	log         *logger.Logger
}

func NewChatService(
	chatRepo interfaces.ChatRepository,
	bookingRepo interfaces.BookingRepository,
	userRepo interfaces.UserRepository,
	notifier Notifier,
	log *logger.Logger,
) ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		log:         log,
	}
}

// SendMessage persists a message between the booking's participants and
// relays it to the chat room. The receiver is always the counterpart of the
// sender on the booking, never a caller-supplied id.
func (s *chatService) SendMessage(ctx context.Context, senderID primitive.ObjectID, request *models.SendMessageRequest) (*models.Message, error) {
	if len(request.Message) == 0 || len(request.Message) > utils.MaxMessageLength {
		return nil, utils.NewValidationError("Message must be between 1 and 1000 characters")
	}

	booking, err := s.bookingRepo.GetByID(ctx, request.BookingID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Booking not found")
		}
		return nil, utils.NewInternalError(err)
	}

	var receiverID primitive.ObjectID
	switch senderID {
	case booking.UserID:
		receiverID = booking.OwnerID
	case booking.OwnerID:
		receiverID = booking.UserID
	default:
		return nil, utils.NewForbiddenError("Not a participant of this booking")
	}

	message := &models.Message{
		BookingID:  booking.ID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    request.Message,
	}

	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.notifier.EmitToChat(booking.ID, websocket.EventReceiveMessage, map[string]interface{}{
		"messageId":  message.ID.Hex(),
		"bookingId":  booking.ID.Hex(),
		"senderId":   senderID.Hex(),
		"receiverId": receiverID.Hex(),
		"message":    message.Message,
		"timestamp":  message.Timestamp,
	})

	return message, nil
}

func (s *chatService) GetMessages(ctx context.Context, bookingID, requesterID primitive.ObjectID) ([]*models.Message, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Booking not found")
		}
		return nil, utils.NewInternalError(err)
	}

	if booking.UserID != requesterID && booking.OwnerID != requesterID {
		return nil, utils.NewForbiddenError("Not a participant of this booking")
	}

	messages, err := s.chatRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	for _, message := range messages {
		if sender, err := s.userRepo.GetByID(ctx, message.SenderID); err == nil {
			message.Sender = sender
		}
		if receiver, err := s.userRepo.GetByID(ctx, message.ReceiverID); err == nil {
			message.Receiver = receiver
		}
	}

	return messages, nil
}

func (s *chatService) MarkRead(ctx context.Context, bookingID, readerID primitive.ObjectID) error {
	if err := s.chatRepo.MarkRead(ctx, bookingID, readerID); err != nil {
		return utils.NewInternalError(err)
	}
	return nil
}

// CanJoin gates chat room membership on booking participation.
func (s *chatService) CanJoin(ctx context.Context, bookingID, userID primitive.ObjectID) bool {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return false
	}
	return booking.UserID == userID || booking.OwnerID == userID
}

// HandleChatMessage services send-message events arriving over a live
// connection. Errors are logged, not surfaced: the transport is
// fire-and-forget.
func (s *chatService) HandleChatMessage(ctx context.Context, senderID primitive.ObjectID, payload map[string]interface{}) {
	rawBookingID, _ := payload["bookingId"].(string)
	bookingID, err := primitive.ObjectIDFromHex(rawBookingID)
	if err != nil {
		s.log.Debug("dropping chat message without booking id")
		return
	}

	text, _ := payload["message"].(string)

	if _, err := s.SendMessage(ctx, senderID, &models.SendMessageRequest{
		BookingID: bookingID,
		Message:   text,
	}); err != nil {
		s.log.WithError(err).WithFields(map[string]interface{}{
			"booking_id": bookingID.Hex(),
			"sender_id":  senderID.Hex(),
		}).Warn("chat message rejected")
	}
}
