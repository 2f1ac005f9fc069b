package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleOwner UserRole = "owner"
)

type User struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required"`
	Email        string             `json:"email" bson:"email" validate:"required,email"`
	Mobile       string             `json:"mobile" bson:"mobile,omitempty"`
	Address      string             `json:"address" bson:"address,omitempty"`
	ProfileImage string             `json:"profileImage" bson:"profileImage,omitempty"`
	Pincode      int                `json:"pincode" bson:"pincode,omitempty"`
	City         string             `json:"city" bson:"city,omitempty"`
	State        string             `json:"state" bson:"state,omitempty"`
	Landmark     string             `json:"landmark" bson:"landmark,omitempty"`
	Role         UserRole           `json:"role" bson:"role" validate:"required,oneof=user owner"`
	Location     GeoPoint           `json:"location" bson:"location"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}
