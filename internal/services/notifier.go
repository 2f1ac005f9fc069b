package services

import "go.mongodb.org/mongo-driver/bson/primitive"

// Notifier is the live fan-out surface the services emit lifecycle events
// through. Satisfied by the websocket hub; faked in tests.
type Notifier interface {
	EmitToUser(userID primitive.ObjectID, event string, data map[string]interface{})
	EmitToOwner(ownerID primitive.ObjectID, event string, data map[string]interface{})
	EmitToChat(bookingID primitive.ObjectID, event string, data map[string]interface{})
}
