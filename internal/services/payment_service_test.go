package services_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/pkg/logger"
	"gorent/pkg/payment"
)

const testSecret = "test_key_secret"

// stubGateway signs and verifies with a real HMAC but never talks to the
// network.
type stubGateway struct {
	nextOrderID string
	orderErr    error
	orders      []*payment.OrderRequest
}

func (g *stubGateway) CreateOrder(_ context.Context, request *payment.OrderRequest) (*payment.Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.orders = append(g.orders, request)
	return &payment.Order{
		OrderID:  g.nextOrderID,
		Amount:   request.Amount,
		Currency: request.Currency,
		Receipt:  request.Receipt,
		Status:   "created",
	}, nil
}

func (g *stubGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return sign(orderID, paymentID) == signature
}

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

type paymentFixture struct {
	bookings *fakeBookingRepo
	vehicles *fakeVehicleRepo
	gateway  *stubGateway
	service  services.PaymentService

	owner   primitive.ObjectID
	renter  primitive.ObjectID
	vehicle *models.Vehicle
	booking *models.Booking
}

// newPaymentFixture seeds a vehicle and an approved, still unpaid booking for
// 10..13 March at a total of 3000.
func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	f := &paymentFixture{
		bookings: newFakeBookingRepo(),
		vehicles: newFakeVehicleRepo(),
		gateway:  &stubGateway{nextOrderID: "order_test_1"},
		owner:    primitive.NewObjectID(),
		renter:   primitive.NewObjectID(),
	}
	f.vehicle = f.vehicles.seed(&models.Vehicle{
		OwnerID:   f.owner,
		Brand:     "Hero",
		Model:     "Splendor",
		Available: true,
	})
	f.booking = f.bookings.seed(&models.Booking{
		UserID:        f.renter,
		VehicleID:     f.vehicle.ID,
		OwnerID:       f.owner,
		StartDate:     date(10),
		EndDate:       date(13),
		TotalDays:     3,
		TotalPrice:    3000,
		Status:        models.BookingStatusApproved,
		PaymentStatus: models.PaymentStatusPending,
	})

	log := logger.NewTestLogger()
	bookingSvc := services.NewBookingService(f.bookings, f.vehicles, newFakeUserRepo(), newFakeNotifier(), log)
	f.service = services.NewPaymentService(f.gateway, f.bookings, f.vehicles, bookingSvc, "INR", log)
	return f
}

func (f *paymentFixture) proof(amount float64) *models.PaymentVerification {
	return &models.PaymentVerification{
		BookingID: f.booking.ID,
		OrderID:   "order_test_1",
		PaymentID: "pay_test_1",
		Signature: sign("order_test_1", "pay_test_1"),
		Amount:    amount,
	}
}

func TestCreateOrder(t *testing.T) {
	t.Run("records order id on booking", func(t *testing.T) {
		f := newPaymentFixture(t)

		order, err := f.service.CreateOrder(context.Background(), f.booking.ID, 1500)
		require.NoError(t, err)
		assert.Equal(t, "order_test_1", order.OrderID)

		require.Len(t, f.gateway.orders, 1)
		assert.Equal(t, 1500.0, f.gateway.orders[0].Amount)
		assert.Equal(t, "INR", f.gateway.orders[0].Currency)
		assert.Equal(t, f.booking.ID.Hex(), f.gateway.orders[0].Notes["bookingId"])

		stored, err := f.bookings.GetByID(context.Background(), f.booking.ID)
		require.NoError(t, err)
		assert.Equal(t, "order_test_1", stored.Razorpay.OrderID)
	})

	t.Run("rejects unapproved booking", func(t *testing.T) {
		tests := []models.BookingStatus{
			models.BookingStatusPending,
			models.BookingStatusWaitingForApproval,
			models.BookingStatusRejected,
			models.BookingStatusCompleted,
		}
		for _, status := range tests {
			t.Run(string(status), func(t *testing.T) {
				f := newPaymentFixture(t)
				require.NoError(t, f.bookings.Update(context.Background(), f.booking.ID,
					map[string]interface{}{"status": status}))

				_, err := f.service.CreateOrder(context.Background(), f.booking.ID, 1500)
				requireAppCode(t, err, utils.CodeConflict)
				assert.Empty(t, f.gateway.orders, "no order placed")
			})
		}
	})

	t.Run("rejects non-positive and excessive amounts", func(t *testing.T) {
		f := newPaymentFixture(t)

		_, err := f.service.CreateOrder(context.Background(), f.booking.ID, 0)
		requireAppCode(t, err, utils.CodeValidation)

		_, err = f.service.CreateOrder(context.Background(), f.booking.ID, 3000.01)
		requireAppCode(t, err, utils.CodeValidation)
	})

	t.Run("conflicting paid booking blocks the order", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.bookings.seed(&models.Booking{
			VehicleID:     f.vehicle.ID,
			OwnerID:       f.owner,
			StartDate:     date(11),
			EndDate:       date(14),
			Status:        models.BookingStatusApproved,
			PaymentStatus: models.PaymentStatusFullPaid,
		})

		_, err := f.service.CreateOrder(context.Background(), f.booking.ID, 1500)
		requireAppCode(t, err, utils.CodeConflict)
	})

	t.Run("gateway failure surfaces without a write", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.gateway.orderErr = errors.New("gateway down")

		_, err := f.service.CreateOrder(context.Background(), f.booking.ID, 1500)
		requireAppCode(t, err, utils.CodeInternal)

		stored, err := f.bookings.GetByID(context.Background(), f.booking.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Razorpay.OrderID)
	})
}

func TestVerifyPayment(t *testing.T) {
	t.Run("half payment", func(t *testing.T) {
		f := newPaymentFixture(t)

		booking, err := f.service.VerifyPayment(context.Background(), f.proof(1500))
		require.NoError(t, err)

		assert.Equal(t, models.PaymentStatusHalfPaid, booking.PaymentStatus)
		assert.Equal(t, 1500.0, booking.AdvancePaid)
		assert.Equal(t, 1500.0, booking.RemainingAmount)
		assert.Equal(t, "pay_test_1", booking.Razorpay.PaymentID)

		vehicle, err := f.vehicles.GetByID(context.Background(), f.vehicle.ID)
		require.NoError(t, err)
		assert.False(t, vehicle.Available, "listing flag cleared after payment")
	})

	t.Run("full payment", func(t *testing.T) {
		f := newPaymentFixture(t)

		booking, err := f.service.VerifyPayment(context.Background(), f.proof(3000))
		require.NoError(t, err)

		assert.Equal(t, models.PaymentStatusFullPaid, booking.PaymentStatus)
		assert.Equal(t, 0.0, booking.RemainingAmount)
	})

	t.Run("tampered signature changes nothing", func(t *testing.T) {
		f := newPaymentFixture(t)
		proof := f.proof(1500)
		proof.Signature = sign("order_test_1", "pay_someone_else")

		_, err := f.service.VerifyPayment(context.Background(), proof)
		requireAppCode(t, err, utils.CodeInvalidSignature)

		stored, err := f.bookings.GetByID(context.Background(), f.booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
		assert.Zero(t, stored.AdvancePaid)

		vehicle, err := f.vehicles.GetByID(context.Background(), f.vehicle.ID)
		require.NoError(t, err)
		assert.True(t, vehicle.Available)
	})

	t.Run("signature over wrong order id fails", func(t *testing.T) {
		f := newPaymentFixture(t)
		proof := f.proof(1500)
		proof.OrderID = "order_test_2"

		_, err := f.service.VerifyPayment(context.Background(), proof)
		requireAppCode(t, err, utils.CodeInvalidSignature)
	})

	t.Run("proof for another order than the one recorded", func(t *testing.T) {
		f := newPaymentFixture(t)

		// CreateOrder ties order_test_1 to the booking; a proof correctly
		// signed for a different order must not settle it.
		_, err := f.service.CreateOrder(context.Background(), f.booking.ID, 1500)
		require.NoError(t, err)

		proof := f.proof(1500)
		proof.OrderID = "order_rogue"
		proof.Signature = sign("order_rogue", proof.PaymentID)

		_, err = f.service.VerifyPayment(context.Background(), proof)
		requireAppCode(t, err, utils.CodeInvalidSignature)

		stored, err := f.bookings.GetByID(context.Background(), f.booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
		assert.Zero(t, stored.AdvancePaid)
	})

	t.Run("payment gate on unapproved booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		require.NoError(t, f.bookings.Update(context.Background(), f.booking.ID,
			map[string]interface{}{"status": models.BookingStatusPending}))

		_, err := f.service.VerifyPayment(context.Background(), f.proof(1500))
		requireAppCode(t, err, utils.CodeConflict)
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		f := newPaymentFixture(t)

		_, err := f.service.VerifyPayment(context.Background(), f.proof(3500))
		requireAppCode(t, err, utils.CodeValidation)

		stored, err := f.bookings.GetByID(context.Background(), f.booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
	})

	t.Run("range taken by another paid booking after approval", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.bookings.seed(&models.Booking{
			VehicleID:     f.vehicle.ID,
			OwnerID:       f.owner,
			StartDate:     date(12),
			EndDate:       date(15),
			Status:        models.BookingStatusApproved,
			PaymentStatus: models.PaymentStatusHalfPaid,
		})

		_, err := f.service.VerifyPayment(context.Background(), f.proof(1500))
		requireAppCode(t, err, utils.CodeConflict)

		stored, err := f.bookings.GetByID(context.Background(), f.booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
	})

	t.Run("own paid booking does not conflict with itself", func(t *testing.T) {
		f := newPaymentFixture(t)

		// First installment succeeds; the booking now matches the conflict
		// filter itself, but must not block its own second verification.
		_, err := f.service.VerifyPayment(context.Background(), f.proof(1500))
		require.NoError(t, err)

		booking, err := f.service.VerifyPayment(context.Background(), f.proof(3000))
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusFullPaid, booking.PaymentStatus)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		proof := f.proof(1500)
		proof.BookingID = primitive.NewObjectID()

		_, err := f.service.VerifyPayment(context.Background(), proof)
		requireAppCode(t, err, utils.CodeNotFound)
	})
}
