package routes

import (
	"github.com/gin-gonic/gin"

	"gorent/internal/handlers"
)

func SetupPaymentRoutes(rg *gin.RouterGroup, handler *handlers.PaymentHandler, auth gin.HandlerFunc) {
	payments := rg.Group("/payments")
	payments.Use(auth)
	{
		payments.POST("/create", handler.CreateOrder)
		payments.POST("/verifyPayment", handler.VerifyPayment)
	}
}
