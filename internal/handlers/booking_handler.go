package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/middleware"
	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/internal/validators"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// CreateBookingRequest handles POST /api/bookings/request.
func (h *BookingHandler) CreateBookingRequest(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Unauthorized")
		return
	}

	var request models.BookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid request body"))
		return
	}

	if errs := validators.ValidateStruct(&request); errs != nil {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	request.UserID = userID

	booking, err := h.bookingService.RequestBooking(c.Request.Context(), &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking request sent to owner", gin.H{
		"bookingId": booking.ID.Hex(),
		"booking":   booking,
	})
}

// HandleApproval handles PUT /api/bookings/approve/:bookingId?action=approve|reject.
func (h *BookingHandler) HandleApproval(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("bookingId"))
	if err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid booking id"))
		return
	}

	action := models.DecisionAction(c.Query("action"))

	booking, svcErr := h.bookingService.Decide(c.Request.Context(), bookingID, action)
	if svcErr != nil {
		utils.AppErrorResponse(c, svcErr)
		return
	}

	utils.SuccessResponse(c, "Booking "+string(action)+"d successfully", gin.H{
		"status": booking.Status,
	})
}

// UpdateStatus handles PUT /api/bookings/:id.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Unauthorized")
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid booking id"))
		return
	}

	var body struct {
		Status models.BookingStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid request body"))
		return
	}

	booking, svcErr := h.bookingService.UpdateStatus(c.Request.Context(), bookingID, userID, body.Status)
	if svcErr != nil {
		utils.AppErrorResponse(c, svcErr)
		return
	}

	utils.SuccessResponse(c, "Booking status updated", booking)
}

// Delete handles DELETE /api/bookings/rejected/:id.
func (h *BookingHandler) Delete(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid booking id"))
		return
	}

	if err := h.bookingService.Delete(c.Request.Context(), bookingID); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking deleted successfully", nil)
}

// GetByID handles GET /api/bookings/:id.
func (h *BookingHandler) GetByID(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid booking id"))
		return
	}

	booking, svcErr := h.bookingService.GetByID(c.Request.Context(), bookingID)
	if svcErr != nil {
		utils.AppErrorResponse(c, svcErr)
		return
	}

	utils.SuccessResponse(c, "", gin.H{"booking": booking})
}

// MyBookings handles GET /api/bookings/my-bookings; only paid bookings are
// listed for the renter.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Unauthorized")
		return
	}

	bookings, err := h.bookingService.ListForRenter(c.Request.Context(), userID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", gin.H{"bookings": bookings}, &utils.Meta{Count: len(bookings)})
}

// OwnerBookings handles GET /api/bookings/owner-bookings.
func (h *BookingHandler) OwnerBookings(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Unauthorized")
		return
	}

	bookings, err := h.bookingService.ListForOwner(c.Request.Context(), ownerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", gin.H{"bookings": bookings}, &utils.Meta{Count: len(bookings)})
}
