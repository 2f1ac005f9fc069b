package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coordinates is the client-facing lat/lng pair; converted to a GeoPoint
// before storage.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

func (c Coordinates) ToGeoPoint() GeoPoint {
	return NewGeoPoint(c.Longitude, c.Latitude)
}

// BookingRequest is a renter's ask for a vehicle over a date range.
type BookingRequest struct {
	VehicleID    primitive.ObjectID `json:"vehicleId" validate:"required"`
	UserID       primitive.ObjectID `json:"-"`
	StartDate    time.Time          `json:"startDate" validate:"required"`
	EndDate      time.Time          `json:"endDate" validate:"required"`
	TotalDays    int                `json:"totalDays" validate:"required,gt=0"`
	TotalPrice   float64            `json:"totalPrice" validate:"required,gt=0"`
	UserLocation Coordinates        `json:"userLocation"`
}

type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionReject  DecisionAction = "reject"
)

// PaymentVerification is the externally-asserted payment proof handed back by
// the gateway checkout flow. Field names follow the gateway callback.
type PaymentVerification struct {
	BookingID primitive.ObjectID `json:"bookingId" validate:"required"`
	OrderID   string             `json:"razorpay_order_id" validate:"required"`
	PaymentID string             `json:"razorpay_payment_id" validate:"required"`
	Signature string             `json:"razorpay_signature" validate:"required"`
	Amount    float64            `json:"amount" validate:"required,gt=0"`
}

type SendMessageRequest struct {
	BookingID primitive.ObjectID `json:"bookingId" validate:"required"`
	Message   string             `json:"message" validate:"required,max=1000"`
}

type VehicleRequest struct {
	VehicleType VehicleType `json:"vehicleType" validate:"required,oneof=car bike"`
	Brand       string      `json:"brand" validate:"required"`
	Model       string      `json:"model" validate:"required"`
	RentPerDay  float64     `json:"rentPerDay" validate:"required,gt=0"`
	Location    string      `json:"location"`
	Latitude    float64     `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64     `json:"longitude" validate:"gte=-180,lte=180"`
	Images      []string    `json:"images" validate:"required,min=1"`
}
