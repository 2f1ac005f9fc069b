package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
)

type ChatRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetByBookingID(ctx context.Context, bookingID primitive.ObjectID) ([]*models.Message, error)

	// MarkRead flags every message in the booking addressed to readerID.
	MarkRead(ctx context.Context, bookingID, readerID primitive.ObjectID) error
}
