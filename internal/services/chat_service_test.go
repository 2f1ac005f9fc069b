package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/pkg/logger"
)

type chatFixture struct {
	chats    *fakeChatRepo
	bookings *fakeBookingRepo
	users    *fakeUserRepo
	notifier *fakeNotifier
	service  services.ChatService

	renter  primitive.ObjectID
	owner   primitive.ObjectID
	booking *models.Booking
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	f := &chatFixture{
		chats:    newFakeChatRepo(),
		bookings: newFakeBookingRepo(),
		users:    newFakeUserRepo(),
		notifier: newFakeNotifier(),
		renter:   primitive.NewObjectID(),
		owner:    primitive.NewObjectID(),
	}
	f.booking = f.bookings.seed(&models.Booking{
		UserID:    f.renter,
		VehicleID: primitive.NewObjectID(),
		OwnerID:   f.owner,
		StartDate: date(10),
		EndDate:   date(13),
		Status:    models.BookingStatusApproved,
	})
	f.service = services.NewChatService(f.chats, f.bookings, f.users, f.notifier, logger.NewTestLogger())
	return f
}

func TestSendMessage(t *testing.T) {
	t.Run("renter message goes to owner and is relayed to the room", func(t *testing.T) {
		f := newChatFixture(t)

		message, err := f.service.SendMessage(context.Background(), f.renter, &models.SendMessageRequest{
			BookingID: f.booking.ID,
			Message:   "Where do I pick up the car?",
		})
		require.NoError(t, err)

		assert.Equal(t, f.renter, message.SenderID)
		assert.Equal(t, f.owner, message.ReceiverID, "receiver derived from booking, not the caller")
		assert.False(t, message.Read)

		events := f.notifier.recorded()
		require.Len(t, events, 1)
		assert.Equal(t, "chat-"+f.booking.ID.Hex(), events[0].Room)
		assert.Equal(t, "receive-message", events[0].Event)
		assert.Equal(t, "Where do I pick up the car?", events[0].Data["message"])
	})

	t.Run("owner message goes to renter", func(t *testing.T) {
		f := newChatFixture(t)

		message, err := f.service.SendMessage(context.Background(), f.owner, &models.SendMessageRequest{
			BookingID: f.booking.ID,
			Message:   "Outside the station at 9.",
		})
		require.NoError(t, err)
		assert.Equal(t, f.renter, message.ReceiverID)
	})

	t.Run("non-participant is refused", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.service.SendMessage(context.Background(), primitive.NewObjectID(), &models.SendMessageRequest{
			BookingID: f.booking.ID,
			Message:   "hello",
		})
		requireAppCode(t, err, utils.CodeForbidden)
		assert.Empty(t, f.notifier.recorded())
		assert.Empty(t, f.chats.messages)
	})

	t.Run("message length limits", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.service.SendMessage(context.Background(), f.renter, &models.SendMessageRequest{
			BookingID: f.booking.ID,
			Message:   "",
		})
		requireAppCode(t, err, utils.CodeValidation)

		_, err = f.service.SendMessage(context.Background(), f.renter, &models.SendMessageRequest{
			BookingID: f.booking.ID,
			Message:   strings.Repeat("a", utils.MaxMessageLength+1),
		})
		requireAppCode(t, err, utils.CodeValidation)

		_, err = f.service.SendMessage(context.Background(), f.renter, &models.SendMessageRequest{
			BookingID: f.booking.ID,
			Message:   strings.Repeat("a", utils.MaxMessageLength),
		})
		assert.NoError(t, err)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newChatFixture(t)

		_, err := f.service.SendMessage(context.Background(), f.renter, &models.SendMessageRequest{
			BookingID: primitive.NewObjectID(),
			Message:   "hello",
		})
		requireAppCode(t, err, utils.CodeNotFound)
	})
}

func TestGetMessages(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.service.SendMessage(context.Background(), f.renter, &models.SendMessageRequest{
		BookingID: f.booking.ID,
		Message:   "first",
	})
	require.NoError(t, err)

	t.Run("participant reads history", func(t *testing.T) {
		messages, err := f.service.GetMessages(context.Background(), f.booking.ID, f.owner)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "first", messages[0].Message)
	})

	t.Run("stranger is refused", func(t *testing.T) {
		_, err := f.service.GetMessages(context.Background(), f.booking.ID, primitive.NewObjectID())
		requireAppCode(t, err, utils.CodeForbidden)
	})
}

func TestMarkRead(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.service.SendMessage(context.Background(), f.renter, &models.SendMessageRequest{
		BookingID: f.booking.ID,
		Message:   "ping",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.MarkRead(context.Background(), f.booking.ID, f.owner))

	messages, err := f.service.GetMessages(context.Background(), f.booking.ID, f.owner)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].Read)
}

func TestCanJoin(t *testing.T) {
	f := newChatFixture(t)

	assert.True(t, f.service.CanJoin(context.Background(), f.booking.ID, f.renter))
	assert.True(t, f.service.CanJoin(context.Background(), f.booking.ID, f.owner))
	assert.False(t, f.service.CanJoin(context.Background(), f.booking.ID, primitive.NewObjectID()))
	assert.False(t, f.service.CanJoin(context.Background(), primitive.NewObjectID(), f.renter))
}

func TestHandleChatMessage(t *testing.T) {
	t.Run("valid payload persists and relays", func(t *testing.T) {
		f := newChatFixture(t)

		f.service.HandleChatMessage(context.Background(), f.renter, map[string]interface{}{
			"bookingId": f.booking.ID.Hex(),
			"message":   "sent over the socket",
		})

		messages, err := f.service.GetMessages(context.Background(), f.booking.ID, f.renter)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "sent over the socket", messages[0].Message)
		assert.Len(t, f.notifier.recorded(), 1)
	})

	t.Run("malformed payloads are dropped silently", func(t *testing.T) {
		f := newChatFixture(t)

		f.service.HandleChatMessage(context.Background(), f.renter, map[string]interface{}{
			"message": "no booking id",
		})
		f.service.HandleChatMessage(context.Background(), f.renter, map[string]interface{}{
			"bookingId": "not-an-object-id",
			"message":   "hello",
		})

		assert.Empty(t, f.chats.messages)
		assert.Empty(t, f.notifier.recorded())
	})
}
