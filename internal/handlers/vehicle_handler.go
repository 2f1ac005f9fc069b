package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/middleware"
	"gorent/internal/models"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/internal/validators"
)

type VehicleHandler struct {
	vehicleService services.VehicleService
}

func NewVehicleHandler(vehicleService services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
	}
}

// AddVehicle handles POST /api/vehicles. Image upload happens upstream; the
// request carries the stored URLs.
func (h *VehicleHandler) AddVehicle(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Unauthorized")
		return
	}

	var request models.VehicleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid request body"))
		return
	}

	if errs := validators.ValidateStruct(&request); errs != nil {
		utils.ValidationErrorResponse(c, errs)
		return
	}

	vehicle, err := h.vehicleService.AddVehicle(c.Request.Context(), ownerID, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Vehicle added successfully", gin.H{"vehicle": vehicle})
}

// ListAvailable handles GET /api/vehicles.
func (h *VehicleHandler) ListAvailable(c *gin.Context) {
	vehicles, err := h.vehicleService.ListAvailable(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", gin.H{"vehicles": vehicles}, &utils.Meta{Count: len(vehicles)})
}

// MyVehicles handles GET /api/vehicles/my-vehicles.
func (h *VehicleHandler) MyVehicles(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Unauthorized")
		return
	}

	vehicles, err := h.vehicleService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "", gin.H{"vehicles": vehicles})
}

// Nearby handles GET /api/vehicles/nearby?lat=..&lng=..&maxDistance=..
func (h *VehicleHandler) Nearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Latitude and longitude are required"))
		return
	}

	maxDistance, _ := strconv.ParseFloat(c.DefaultQuery("maxDistance", "50000"), 64)

	vehicles, err := h.vehicleService.FindNearby(c.Request.Context(), lng, lat, maxDistance)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", gin.H{"vehicles": vehicles}, &utils.Meta{Count: len(vehicles)})
}

// GetByID handles GET /api/vehicles/:id.
func (h *VehicleHandler) GetByID(c *gin.Context) {
	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.AppErrorResponse(c, utils.NewValidationError("Invalid vehicle id"))
		return
	}

	vehicle, svcErr := h.vehicleService.GetByID(c.Request.Context(), vehicleID)
	if svcErr != nil {
		utils.AppErrorResponse(c, svcErr)
		return
	}

	utils.SuccessResponse(c, "", gin.H{"vehicle": vehicle})
}
