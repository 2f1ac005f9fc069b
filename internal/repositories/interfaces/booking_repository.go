package interfaces

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
)

// ErrNotFound is returned by repositories when a document does not exist.
// Services translate it into the API-level not-found failure.
var ErrNotFound = errors.New("not found")

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// FindConflicting returns a booking on the vehicle that is approved, has
	// received money, and whose date range overlaps [start, end] inclusively.
	// Returns (nil, nil) when the range is free.
	FindConflicting(ctx context.Context, vehicleID primitive.ObjectID, start, end time.Time) (*models.Booking, error)

	GetByRenter(ctx context.Context, userID primitive.ObjectID, paidOnly bool) ([]*models.Booking, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Booking, error)

	// DeleteStaleUnpaid removes every approved booking with pending payment
	// created at or before cutoff, returning the number deleted.
	DeleteStaleUnpaid(ctx context.Context, cutoff time.Time) (int64, error)
}
