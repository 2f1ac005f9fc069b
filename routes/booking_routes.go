package routes

import (
	"github.com/gin-gonic/gin"

	"gorent/internal/handlers"
)

func SetupBookingRoutes(rg *gin.RouterGroup, handler *handlers.BookingHandler, auth gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	bookings.Use(auth)
	{
		bookings.POST("/request", handler.CreateBookingRequest)
		bookings.PUT("/approve/:bookingId", handler.HandleApproval)
		bookings.GET("/my-bookings", handler.MyBookings)
		bookings.GET("/owner-bookings", handler.OwnerBookings)
		bookings.DELETE("/rejected/:id", handler.Delete)
		bookings.PUT("/:id", handler.UpdateStatus)
		bookings.GET("/:id", handler.GetByID)
	}
}
