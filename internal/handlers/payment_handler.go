package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/internal/validators"
)

type PaymentHandler struct {
	paymentService services.PaymentService
	razorpayKeyID  string
}

func NewPaymentHandler(paymentService services.PaymentService, razorpayKeyID string) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		razorpayKeyID:  razorpayKeyID,
	}
}

// CreateOrder handles POST /api/payments/create. The key id goes back to the
// client so it can open the gateway checkout against the created order.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var body struct {
		BookingID string  `json:"bookingId" validate:"required,object_id"`
		Amount    float64 `json:"amount" validate:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid request body"))
		return
	}

	if errs := validators.ValidateStruct(&body); errs != nil {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	bookingID, _ := primitive.ObjectIDFromHex(body.BookingID)

	order, err := h.paymentService.CreateOrder(c.Request.Context(), bookingID, body.Amount)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "", gin.H{
		"order": order,
		"keyId": h.razorpayKeyID,
	})
}

// VerifyPayment handles POST /api/payments/verifyPayment.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var request models.PaymentVerification
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid request body"))
		return
	}

	if errs := validators.ValidateStruct(&request); errs != nil {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	booking, err := h.paymentService.VerifyPayment(c.Request.Context(), &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Payment verified", gin.H{"booking": booking})
}
