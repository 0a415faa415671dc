package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/websocket"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions
func SetupRoutes(e *echo.Echo, client *mongo.Client, db *mongo.Database, hub *websocket.Hub) {
	RegisterAuthRoutes(e, client, db)
	RegisterShopRoutes(e, db, hub)
	RegisterInstituteRoutes(e, db, hub)
	RegisterHospitalRoutes(e, db, hub)
	RegisterMarketplaceRoutes(e, db, hub)
	RegisterPaymentRoutes(e, db, hub)
	RegisterNotificationRoutes(e, db)
	RegisterAdminRoutes(e, db)

	// Live notification stream; admins also receive review-queue events
	ws := e.Group("/ws")
	ws.Use(middleware.JWTMiddleware())
	ws.GET("", func(c echo.Context) error {
		userID, err := middleware.ExtractUserID(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}
		isAdmin := middleware.ExtractUserType(c) == "admin"
		return websocket.HandleWebSocket(c, hub, objID, isAdmin)
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
