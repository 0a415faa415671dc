package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/controllers"
	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/websocket"
)

// RegisterPaymentRoutes sets up the payment request routes
func RegisterPaymentRoutes(e *echo.Echo, db *mongo.Database, hub *websocket.Hub) {
	paymentController := controllers.NewPaymentController(db, hub)

	// Bank details are shown before login on the submission wizard
	e.GET("/api/payment/settings", paymentController.GetPaymentSettings)

	protected := e.Group("/api/payment")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/create", paymentController.CreatePaymentRequest)
	protected.GET("/my", paymentController.GetMyPaymentRequests)
	protected.GET("/:id", paymentController.GetPaymentStatus)
}
