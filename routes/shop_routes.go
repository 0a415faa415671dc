package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/controllers"
	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/websocket"
)

// RegisterShopRoutes sets up public and owner-facing shop routes
func RegisterShopRoutes(e *echo.Echo, db *mongo.Database, hub *websocket.Hub) {
	shopController := controllers.NewShopController(db, hub)

	// Public listing
	e.GET("/api/shops", shopController.GetShops)
	e.GET("/api/shops/:id", shopController.GetShop)

	// Owner routes
	protected := e.Group("/api/shops")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("", shopController.CreateShop)
	protected.GET("/my", shopController.GetMyShops)
	protected.PUT("/:id", shopController.UpdateShop)
	protected.DELETE("/:id", shopController.DeleteShop)
	protected.GET("/:id/agent-qr", controllers.AgentQRHandler(db, models.KindShop))
}
