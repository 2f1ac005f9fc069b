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
	"gorent/pkg/payment"
)

type PaymentService interface {
	// CreateOrder asks the gateway for an order covering amount on an
	// approved booking. The order id is recorded on the booking so a later
	// verification can be tied back to it.
	CreateOrder(ctx context.Context, bookingID primitive.ObjectID, amount float64) (*payment.Order, error)

	// VerifyPayment reconciles a gateway payment proof: signature check,
	// payment gate, conflict re-check, then the paid-state write and the
	// vehicle availability flip.
	VerifyPayment(ctx context.Context, request *models.PaymentVerification) (*models.Booking, error)
}

type paymentService struct {
	gateway     payment.Gateway
	bookingRepo interfaces.BookingRepository
	vehicleRepo interfaces.VehicleRepository
	bookings    BookingService
	currency    string
	log         *logger.Logger
}

func NewPaymentService(
	gateway payment.Gateway,
	bookingRepo interfaces.BookingRepository,
	vehicleRepo interfaces.VehicleRepository,
	bookings BookingService,
	currency string,
	log *logger.Logger,
) PaymentService {
	return &paymentService{
		gateway:     gateway,
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		bookings:    bookings,
		currency:    currency,
		log:         log,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, bookingID primitive.ObjectID, amount float64) (*payment.Order, error) {
	if amount <= 0 {
		return nil, utils.NewValidationError("Amount must be positive")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Booking not found")
		}
		return nil, utils.NewInternalError(err)
	}

	if booking.Status != models.BookingStatusApproved {
		return nil, utils.NewConflictError("Booking is not approved for payment")
	}
	if amount > booking.TotalPrice {
		return nil, utils.NewValidationError("Amount exceeds total price")
	}

	conflict, err := s.bookingRepo.FindConflicting(ctx, booking.VehicleID, booking.StartDate, booking.EndDate)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if conflict != nil && conflict.ID != booking.ID {
		return nil, utils.NewConflictError("Vehicle is already booked for these dates. Please select different dates.")
	}

	order, err := s.gateway.CreateOrder(ctx, &payment.OrderRequest{
		Amount:   amount,
		Currency: s.currency,
		Receipt:  fmt.Sprintf("%s%d", utils.ReceiptPrefix, time.Now().UnixMilli()),
		Notes:    map[string]interface{}{"bookingId": booking.ID.Hex()},
	})
	if err != nil {
		// No compensating action: nothing was written, the caller just retries.
		return nil, utils.NewInternalError(err)
	}

	if err := s.bookingRepo.Update(ctx, booking.ID, map[string]interface{}{
		"razorpay.orderId": order.OrderID,
	}); err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.log.WithFields(map[string]interface{}{
		"booking_id": booking.ID.Hex(),
		"order_id":   order.OrderID,
		"amount":     amount,
	}).Info("payment order created")

	return order, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, request *models.PaymentVerification) (*models.Booking, error) {
	// Signature first: nothing is trusted, and nothing changes, until the
	// proof checks out.
	if !s.gateway.VerifySignature(request.OrderID, request.PaymentID, request.Signature) {
		s.log.WithField("order_id", request.OrderID).Warn("payment signature mismatch")
		return nil, utils.NewInvalidSignatureError("Invalid signature")
	}

	booking, err := s.bookingRepo.GetByID(ctx, request.BookingID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Booking not found")
		}
		return nil, utils.NewInternalError(err)
	}

	if booking.Status != models.BookingStatusApproved {
		return nil, utils.NewConflictError("Booking is not approved for payment")
	}

	// The proof must reference the order recorded on this booking; a valid
	// signature over some unrelated order proves nothing about this one.
	if booking.Razorpay.OrderID != "" && booking.Razorpay.OrderID != request.OrderID {
		s.log.WithFields(map[string]interface{}{
			"booking_id": booking.ID.Hex(),
			"order_id":   request.OrderID,
		}).Warn("payment proof for a different order")
		return nil, utils.NewInvalidSignatureError("Payment does not match the booking's order")
	}

	remaining := booking.TotalPrice - request.Amount
	if remaining < 0 {
		return nil, utils.NewValidationError("Amount exceeds total price")
	}

	unlock := s.bookings.LockVehicle(booking.VehicleID)
	defer unlock()

	vehicle, err := s.vehicleRepo.GetByID(ctx, booking.VehicleID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Vehicle not found")
		}
		return nil, utils.NewInternalError(err)
	}

	// The range could have been taken by another paying booking between
	// approval and now; re-check under the vehicle lock.
	conflict, err := s.bookingRepo.FindConflicting(ctx, booking.VehicleID, booking.StartDate, booking.EndDate)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	if conflict != nil && conflict.ID != booking.ID {
		return nil, utils.NewConflictError("Vehicle is already booked for these dates. Please select different dates.")
	}

	paymentStatus := models.PaymentStatusHalfPaid
	if request.Amount >= booking.TotalPrice {
		paymentStatus = models.PaymentStatusFullPaid
	}

	receipt := models.PaymentReceipt{
		OrderID:   request.OrderID,
		PaymentID: request.PaymentID,
		Signature: request.Signature,
	}

	if err := s.bookingRepo.Update(ctx, booking.ID, map[string]interface{}{
		"paymentStatus":   paymentStatus,
		"advancePaid":     request.Amount,
		"remainingAmount": remaining,
		"razorpay":        receipt,
	}); err != nil {
		return nil, utils.NewInternalError(err)
	}

	booking.PaymentStatus = paymentStatus
	booking.AdvancePaid = request.Amount
	booking.RemainingAmount = remaining
	booking.Razorpay = receipt

	// Second, separate write: the listing flag is a coarse signal only, so a
	// crash here cannot cause a double booking, just a stale listing.
	if err := s.vehicleRepo.SetAvailability(ctx, vehicle.ID, false); err != nil {
		s.log.WithError(err).WithField("vehicle_id", vehicle.ID.Hex()).
			Error("failed to clear vehicle availability after payment")
	}

	s.log.WithFields(map[string]interface{}{
		"booking_id":     booking.ID.Hex(),
		"payment_status": paymentStatus,
		"advance_paid":   request.Amount,
		"remaining":      remaining,
	}).Info("payment reconciled")

	return booking, nil
}
