package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleType string

const (
	VehicleTypeCar  VehicleType = "car"
	VehicleTypeBike VehicleType = "bike"
)

type Vehicle struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	OwnerID     primitive.ObjectID `json:"ownerId" bson:"ownerId" validate:"required"`
	VehicleType VehicleType        `json:"vehicleType" bson:"vehicleType" validate:"required,oneof=car bike"`
	Brand       string             `json:"brand" bson:"brand" validate:"required"`
	Model       string             `json:"model" bson:"model" validate:"required"`
	RentPerDay  float64            `json:"rentPerDay" bson:"rentPerDay" validate:"required,gt=0"`
	Location    string             `json:"location" bson:"location" validate:"required"`
	LocationGeo GeoPoint           `json:"locationGeo" bson:"locationGeo"`
	Images      []string           `json:"images" bson:"images" validate:"required,min=1"`
	Available   bool               `json:"available" bson:"available"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
