package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/controllers"
	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/websocket"
)

// RegisterMarketplaceRoutes sets up public and owner-facing product routes
func RegisterMarketplaceRoutes(e *echo.Echo, db *mongo.Database, hub *websocket.Hub) {
	marketplaceController := controllers.NewMarketplaceController(db, hub)

	// Public listing
	e.GET("/api/marketplace", marketplaceController.GetProducts)
	e.GET("/api/marketplace/:id", marketplaceController.GetProduct)

	// Owner routes
	protected := e.Group("/api/marketplace")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("", marketplaceController.CreateProduct)
	protected.GET("/my", marketplaceController.GetMyProducts)
	protected.PUT("/:id", marketplaceController.UpdateProduct)
	protected.DELETE("/:id", marketplaceController.DeleteProduct)
	protected.GET("/:id/agent-qr", controllers.AgentQRHandler(db, models.KindMarketplace))
}
