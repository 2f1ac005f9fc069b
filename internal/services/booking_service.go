package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/pkg/logger"
	"gorent/pkg/websocket"
)

type BookingService interface {
	RequestBooking(ctx context.Context, request *models.BookingRequest) (*models.Booking, error)
	Decide(ctx context.Context, bookingID primitive.ObjectID, action models.DecisionAction) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, actorID primitive.ObjectID, status models.BookingStatus) (*models.Booking, error)
	Delete(ctx context.Context, bookingID primitive.ObjectID) error
	GetByID(ctx context.Context, bookingID primitive.ObjectID) (*models.Booking, error)
	ListForRenter(ctx context.Context, userID primitive.ObjectID) ([]*models.Booking, error)
	ListForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Booking, error)

	// LockVehicle serializes booking mutations per vehicle; the payment
	// service shares the same lock so a payment and a new request for one
	// vehicle cannot race each other's conflict checks.
	LockVehicle(vehicleID primitive.ObjectID) func()
}

type bookingService struct {
	bookingRepo  interfaces.BookingRepository
	vehicleRepo  interfaces.VehicleRepository
	userRepo     interfaces.UserRepository
	notifier     Notifier
	vehicleLocks *keyedMutex
	log          *logger.Logger
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	vehicleRepo interfaces.VehicleRepository,
	userRepo interfaces.UserRepository,
	notifier Notifier,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		vehicleRepo:  vehicleRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		vehicleLocks: newKeyedMutex(),
		log:          log,
	}
}

func (s *bookingService) LockVehicle(vehicleID primitive.ObjectID) func() {
	return s.vehicleLocks.Lock(vehicleID.Hex())
}

// RequestBooking checks the availability ledger and creates a pending booking,
// snapshotting the vehicle's owner and location. The owner is notified on
// their room.
func (s *bookingService) RequestBooking(ctx context.Context, request *models.BookingRequest) (*models.Booking, error) {
	if err := validateBookingDates(request.StartDate, request.EndDate, request.TotalDays); err != nil {
		return nil, err
	}

	unlock := s.LockVehicle(request.VehicleID)
	defer unlock()

	vehicle, err := s.vehicleRepo.GetByID(ctx, request.VehicleID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Vehicle not found")
		}
		return nil, utils.NewInternalError(err)
	}

	conflict, err := s.bookingRepo.FindConflicting(ctx, request.VehicleID, request.StartDate, request.EndDate)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if conflict != nil {
		return nil, utils.NewConflictError("Vehicle is already booked for these dates. Please select different dates.")
	}

	booking := &models.Booking{
		UserID:        request.UserID,
		VehicleID:     vehicle.ID,
		OwnerID:       vehicle.OwnerID,
		StartDate:     request.StartDate,
		EndDate:       request.EndDate,
		TotalDays:     request.TotalDays,
		TotalPrice:    request.TotalPrice,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		UserLocation:  request.UserLocation.ToGeoPoint(),
		OwnerLocation: vehicle.LocationGeo,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.log.WithFields(map[string]interface{}{
		"booking_id": booking.ID.Hex(),
		"vehicle_id": vehicle.ID.Hex(),
		"user_id":    request.UserID.Hex(),
	}).Info("booking requested")

	s.notifier.EmitToOwner(vehicle.OwnerID, websocket.EventNewBookingRequest, map[string]interface{}{
		"bookingId":  booking.ID.Hex(),
		"vehicle":    vehicle.Brand + " " + vehicle.Model,
		"startDate":  booking.StartDate,
		"endDate":    booking.EndDate,
		"totalPrice": booking.TotalPrice,
	})

	return booking, nil
}

// Decide records the owner's approval or rejection and notifies the renter.
// Only an undecided booking can be decided; a duplicate call gets a conflict
// instead of a second notification.
func (s *bookingService) Decide(ctx context.Context, bookingID primitive.ObjectID, action models.DecisionAction) (*models.Booking, error) {
	if action != models.ActionApprove && action != models.ActionReject {
		return nil, utils.NewValidationError(fmt.Sprintf("Unknown action %q", action))
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Booking not found")
		}
		return nil, utils.NewInternalError(err)
	}

	if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusWaitingForApproval {
		return nil, utils.NewConflictError("Booking has already been decided")
	}

	newStatus := models.BookingStatusApproved
	if action == models.ActionReject {
		newStatus = models.BookingStatusRejected
	}

	if err := s.bookingRepo.Update(ctx, bookingID, map[string]interface{}{"status": newStatus}); err != nil {
		return nil, utils.NewInternalError(err)
	}
	booking.Status = newStatus

	s.log.WithFields(map[string]interface{}{
		"booking_id": bookingID.Hex(),
		"status":     newStatus,
	}).Info("booking decided")

	s.notifier.EmitToUser(booking.UserID, websocket.EventBookingStatusUpdate, map[string]interface{}{
		"bookingId": booking.ID.Hex(),
		"status":    booking.Status,
		"message":   fmt.Sprintf("Booking %sd by owner", action),
	})

	return booking, nil
}

// UpdateStatus moves a booking along the post-approval lifecycle. The move
// must be allowed by the transition graph and the actor must be the renter or
// the owner of the booking.
func (s *bookingService) UpdateStatus(ctx context.Context, bookingID, actorID primitive.ObjectID, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, utils.NewValidationError(fmt.Sprintf("Unknown status %q", status))
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Booking not found")
		}
		return nil, utils.NewInternalError(err)
	}

	if booking.UserID != actorID && booking.OwnerID != actorID {
		return nil, utils.NewForbiddenError("Not a participant of this booking")
	}

	if !booking.Status.CanTransitionTo(status) {
		return nil, utils.NewValidationError(
			fmt.Sprintf("Cannot move booking from %q to %q", booking.Status, status))
	}

	if err := s.bookingRepo.Update(ctx, bookingID, map[string]interface{}{"status": status}); err != nil {
		return nil, utils.NewInternalError(err)
	}
	booking.Status = status

	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, bookingID primitive.ObjectID) error {
	if err := s.bookingRepo.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return utils.NewNotFoundError("Booking not found")
		}
		return utils.NewInternalError(err)
	}

	return nil
}

func (s *bookingService) GetByID(ctx context.Context, bookingID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Booking not found")
		}
		return nil, utils.NewInternalError(err)
	}

	s.populate(ctx, booking)

	return booking, nil
}

func (s *bookingService) ListForRenter(ctx context.Context, userID primitive.ObjectID) ([]*models.Booking, error) {
	bookings, err := s.bookingRepo.GetByRenter(ctx, userID, true)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	for _, booking := range bookings {
		s.populate(ctx, booking)
	}

	return bookings, nil
}

func (s *bookingService) ListForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Booking, error) {
	bookings, err := s.bookingRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	for _, booking := range bookings {
		s.populate(ctx, booking)
	}

	return bookings, nil
}

// populate attaches related documents for API reads. Lookup failures leave
// the reference empty rather than failing the read.
func (s *bookingService) populate(ctx context.Context, booking *models.Booking) {
	if vehicle, err := s.vehicleRepo.GetByID(ctx, booking.VehicleID); err == nil {
		booking.Vehicle = vehicle
	}
	if renter, err := s.userRepo.GetByID(ctx, booking.UserID); err == nil {
		booking.Renter = renter
	}
	if owner, err := s.userRepo.GetByID(ctx, booking.OwnerID); err == nil {
		booking.Owner = owner
	}
}

// validateBookingDates enforces that the range is ordered and that the
// claimed day count matches the span.
func validateBookingDates(start, end time.Time, totalDays int) error {
	if !start.Before(end) {
		return utils.NewValidationError("Start date must be before end date")
	}

	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	if totalDays != days {
		return utils.NewValidationError(
			fmt.Sprintf("Total days %d does not match date span of %d days", totalDays, days))
	}

	return nil
}
