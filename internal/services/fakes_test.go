package services_test

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
)

// fakeBookingRepo is an in-memory BookingRepository mirroring the mongo
// implementation's conflict and reclaim filters.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking
	failWith error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	if r.failWith != nil {
		return r.failWith
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	clone := *booking
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *booking
	return &clone, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	if r.failWith != nil {
		return r.failWith
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return interfaces.ErrNotFound
	}

	for key, value := range updates {
		switch key {
		case "status":
			booking.Status = value.(models.BookingStatus)
		case "paymentStatus":
			booking.PaymentStatus = value.(models.PaymentStatus)
		case "advancePaid":
			booking.AdvancePaid = value.(float64)
		case "remainingAmount":
			booking.RemainingAmount = value.(float64)
		case "razorpay":
			booking.Razorpay = value.(models.PaymentReceipt)
		case "razorpay.orderId":
			booking.Razorpay.OrderID = value.(string)
		}
	}
	booking.UpdatedAt = time.Now()
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if r.failWith != nil {
		return r.failWith
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) FindConflicting(_ context.Context, vehicleID primitive.ObjectID, start, end time.Time) (*models.Booking, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, booking := range r.bookings {
		if booking.VehicleID != vehicleID {
			continue
		}
		if booking.Status != models.BookingStatusApproved || !booking.IsPaid() {
			continue
		}
		if booking.Overlaps(start, end) {
			clone := *booking
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) GetByRenter(_ context.Context, userID primitive.ObjectID, paidOnly bool) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Booking
	for _, booking := range r.bookings {
		if booking.UserID != userID {
			continue
		}
		if paidOnly && !booking.IsPaid() {
			continue
		}
		clone := *booking
		result = append(result, &clone)
	}
	return result, nil
}

func (r *fakeBookingRepo) GetByOwner(_ context.Context, ownerID primitive.ObjectID) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Booking
	for _, booking := range r.bookings {
		if booking.OwnerID == ownerID {
			clone := *booking
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) DeleteStaleUnpaid(_ context.Context, cutoff time.Time) (int64, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, booking := range r.bookings {
		if booking.Status == models.BookingStatusApproved &&
			booking.PaymentStatus == models.PaymentStatusPending &&
			!booking.CreatedAt.After(cutoff) {
			delete(r.bookings, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeBookingRepo) seed(booking *models.Booking) *models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	clone := *booking
	r.bookings[booking.ID] = &clone
	return booking
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[primitive.ObjectID]*models.Vehicle)}
}

func (r *fakeVehicleRepo) Create(_ context.Context, vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle.ID = primitive.NewObjectID()
	vehicle.CreatedAt = time.Now()
	clone := *vehicle
	r.vehicles[vehicle.ID] = &clone
	return nil
}

func (r *fakeVehicleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *vehicle
	return &clone, nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if available, exists := updates["available"]; exists {
		vehicle.Available = available.(bool)
	}
	return nil
}

func (r *fakeVehicleRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.vehicles, id)
	return nil
}

func (r *fakeVehicleRepo) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	return r.Update(ctx, id, map[string]interface{}{"available": available})
}

func (r *fakeVehicleRepo) GetByOwnerID(_ context.Context, ownerID primitive.ObjectID) ([]*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Vehicle
	for _, vehicle := range r.vehicles {
		if vehicle.OwnerID == ownerID {
			clone := *vehicle
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeVehicleRepo) ListAvailable(_ context.Context) ([]*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Vehicle
	for _, vehicle := range r.vehicles {
		if vehicle.Available {
			clone := *vehicle
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeVehicleRepo) FindNearby(ctx context.Context, _, _, _ float64) ([]*models.Vehicle, error) {
	return r.ListAvailable(ctx)
}

func (r *fakeVehicleRepo) seed(vehicle *models.Vehicle) *models.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if vehicle.ID.IsZero() {
		vehicle.ID = primitive.NewObjectID()
	}
	clone := *vehicle
	r.vehicles[vehicle.ID] = &clone
	return vehicle
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = primitive.NewObjectID()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, _ primitive.ObjectID, _ map[string]interface{}) error {
	return nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	messages []*models.Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{}
}

func (r *fakeChatRepo) CreateMessage(_ context.Context, message *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	message.ID = primitive.NewObjectID()
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	clone := *message
	r.messages = append(r.messages, &clone)
	return nil
}

func (r *fakeChatRepo) GetByBookingID(_ context.Context, bookingID primitive.ObjectID) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Message
	for _, message := range r.messages {
		if message.BookingID == bookingID {
			clone := *message
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeChatRepo) MarkRead(_ context.Context, bookingID, readerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, message := range r.messages {
		if message.BookingID == bookingID && message.ReceiverID == readerID {
			message.Read = true
		}
	}
	return nil
}

// recordedEvent captures a fan-out emission for assertions.
type recordedEvent struct {
	Room  string
	Event string
	Data  map[string]interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{}
}

func (n *fakeNotifier) EmitToUser(userID primitive.ObjectID, event string, data map[string]interface{}) {
	n.record("user-"+userID.Hex(), event, data)
}

func (n *fakeNotifier) EmitToOwner(ownerID primitive.ObjectID, event string, data map[string]interface{}) {
	n.record("owner-"+ownerID.Hex(), event, data)
}

func (n *fakeNotifier) EmitToChat(bookingID primitive.ObjectID, event string, data map[string]interface{}) {
	n.record("chat-"+bookingID.Hex(), event, data)
}

func (n *fakeNotifier) record(room, event string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{Room: room, Event: event, Data: data})
}

func (n *fakeNotifier) recorded() []recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedEvent(nil), n.events...)
}
