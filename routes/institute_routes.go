package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/controllers"
	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/websocket"
)

// RegisterInstituteRoutes sets up public and owner-facing institute routes
func RegisterInstituteRoutes(e *echo.Echo, db *mongo.Database, hub *websocket.Hub) {
	instituteController := controllers.NewInstituteController(db, hub)

	// Public listing
	e.GET("/api/institutes", instituteController.GetInstitutes)
	e.GET("/api/institutes/:id", instituteController.GetInstitute)

	// Owner routes
	protected := e.Group("/api/institutes")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("", instituteController.CreateInstitute)
	protected.GET("/my", instituteController.GetMyInstitutes)
	protected.PUT("/:id", instituteController.UpdateInstitute)
	protected.DELETE("/:id", instituteController.DeleteInstitute)
	protected.GET("/:id/agent-qr", controllers.AgentQRHandler(db, models.KindInstitute))
}
