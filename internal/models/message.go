package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a persisted chat message between the renter and the owner of a
// booking. Live delivery goes through the websocket hub; this record is what
// survives a missed delivery.
type Message struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	BookingID  primitive.ObjectID `json:"bookingId" bson:"bookingId" validate:"required"`
	SenderID   primitive.ObjectID `json:"senderId" bson:"senderId" validate:"required"`
	ReceiverID primitive.ObjectID `json:"receiverId" bson:"receiverId" validate:"required"`
	Message    string             `json:"message" bson:"message" validate:"required,max=1000"`
	Timestamp  time.Time          `json:"timestamp" bson:"timestamp"`
	Read       bool               `json:"read" bson:"read"`

	Sender   *User `json:"sender,omitempty" bson:"-"`
	Receiver *User `json:"receiver,omitempty" bson:"-"`
}
