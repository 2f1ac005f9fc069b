package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string
type PaymentStatus string

const (
	BookingStatusPending            BookingStatus = "pending"
	BookingStatusWaitingForApproval BookingStatus = "waiting_for_approval"
	BookingStatusApproved           BookingStatus = "approved"
	BookingStatusOnTheWay           BookingStatus = "on_the_way"
	BookingStatusCompleted          BookingStatus = "completed"
	BookingStatusRejected           BookingStatus = "rejected"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusHalfPaid PaymentStatus = "half_paid"
	PaymentStatusFullPaid PaymentStatus = "full_paid"
)

// bookingTransitions is the allowed lifecycle graph. Rejected and completed
// are terminal; payment gating is handled separately by the payment service.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:            {BookingStatusWaitingForApproval, BookingStatusApproved, BookingStatusRejected},
	BookingStatusWaitingForApproval: {BookingStatusApproved, BookingStatusRejected},
	BookingStatusApproved:           {BookingStatusOnTheWay, BookingStatusCompleted},
	BookingStatusOnTheWay:           {BookingStatusCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusWaitingForApproval, BookingStatusApproved,
		BookingStatusOnTheWay, BookingStatusCompleted, BookingStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle graph allows moving from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentReceipt holds the gateway proof recorded after successful
// reconciliation. Stored under "razorpay" for compatibility with existing
// booking documents.
type PaymentReceipt struct {
	OrderID   string `json:"orderId" bson:"orderId,omitempty"`
	PaymentID string `json:"paymentId" bson:"paymentId,omitempty"`
	Signature string `json:"signature" bson:"signature,omitempty"`
}

type Booking struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId" validate:"required"`
	VehicleID       primitive.ObjectID `json:"vehicleId" bson:"vehicleId" validate:"required"`
	OwnerID         primitive.ObjectID `json:"ownerId" bson:"ownerId" validate:"required"`
	StartDate       time.Time          `json:"startDate" bson:"startDate" validate:"required"`
	EndDate         time.Time          `json:"endDate" bson:"endDate" validate:"required"`
	TotalDays       int                `json:"totalDays" bson:"totalDays" validate:"required,gt=0"`
	TotalPrice      float64            `json:"totalPrice" bson:"totalPrice" validate:"required,gt=0"`
	Status          BookingStatus      `json:"status" bson:"status" default:"pending"`
	PaymentStatus   PaymentStatus      `json:"paymentStatus" bson:"paymentStatus" default:"pending"`
	AdvancePaid     float64            `json:"advancePaid" bson:"advancePaid"`
	RemainingAmount float64            `json:"remainingAmount" bson:"remainingAmount"`
	Razorpay        PaymentReceipt     `json:"razorpay" bson:"razorpay,omitempty"`
	UserLocation    GeoPoint           `json:"userLocation" bson:"userLocation"`
	OwnerLocation   GeoPoint           `json:"ownerLocation" bson:"ownerLocation"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Populated on reads that join related documents, never persisted.
	Vehicle *Vehicle `json:"vehicle,omitempty" bson:"-"`
	Renter  *User    `json:"renter,omitempty" bson:"-"`
	Owner   *User    `json:"owner,omitempty" bson:"-"`
}

// IsPaid reports whether the booking holds money, i.e. counts toward
// date-range conflicts.
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusHalfPaid || b.PaymentStatus == PaymentStatusFullPaid
}

// Overlaps reports whether [start, end] overlaps the booking's date range,
// inclusive on both bounds.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return !b.StartDate.After(end) && !b.EndDate.Before(start)
}
