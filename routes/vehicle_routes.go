package routes

import (
	"github.com/gin-gonic/gin"

	"gorent/internal/handlers"
	"gorent/internal/middleware"
)

func SetupVehicleRoutes(rg *gin.RouterGroup, handler *handlers.VehicleHandler, auth gin.HandlerFunc) {
	vehicles := rg.Group("/vehicles")
	{
		vehicles.GET("", handler.ListAvailable)
		vehicles.GET("/nearby", handler.Nearby)
		vehicles.GET("/my-vehicles", auth, handler.MyVehicles)
		vehicles.POST("", auth, middleware.OwnerRequired(), handler.AddVehicle)
		vehicles.GET("/:id", handler.GetByID)
	}
}
