package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// SetAvailability flips the coarse listing flag. Conflict detection never
	// reads this flag; date-range overlap against paid bookings is the
	// authority.
	SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error

	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Vehicle, error)
	ListAvailable(ctx context.Context) ([]*models.Vehicle, error)
	FindNearby(ctx context.Context, longitude, latitude, maxDistanceMeters float64) ([]*models.Vehicle, error)
}
