package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/controllers"
	"github.com/mdrafiul/localmart_backend/middleware"
)

// RegisterNotificationRoutes sets up the in-app notification feed routes
func RegisterNotificationRoutes(e *echo.Echo, db *mongo.Database) {
	notificationController := controllers.NewNotificationController(db)

	protected := e.Group("/api/notifications")
	protected.Use(middleware.JWTMiddleware())
	protected.GET("", notificationController.GetNotifications)
	protected.PUT("/read-all", notificationController.MarkAllNotificationsRead)
	protected.PUT("/:id/read", notificationController.MarkNotificationRead)
}
