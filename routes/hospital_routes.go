package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/controllers"
	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/websocket"
)

// RegisterHospitalRoutes sets up public and owner-facing hospital routes
func RegisterHospitalRoutes(e *echo.Echo, db *mongo.Database, hub *websocket.Hub) {
	hospitalController := controllers.NewHospitalController(db, hub)

	// Public listing
	e.GET("/api/hospitals", hospitalController.GetHospitals)
	e.GET("/api/hospitals/:id", hospitalController.GetHospital)

	// Owner routes
	protected := e.Group("/api/hospitals")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("", hospitalController.CreateHospital)
	protected.GET("/my", hospitalController.GetMyHospitals)
	protected.PUT("/:id", hospitalController.UpdateHospital)
	protected.DELETE("/:id", hospitalController.DeleteHospital)
	protected.GET("/:id/agent-qr", controllers.AgentQRHandler(db, models.KindHospital))
}
