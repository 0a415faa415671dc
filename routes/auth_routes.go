package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/controllers"
	"github.com/mdrafiul/localmart_backend/middleware"
)

// RegisterAuthRoutes sets up authentication and session routes
func RegisterAuthRoutes(e *echo.Echo, client *mongo.Client, db *mongo.Database) {
	authController := controllers.NewAuthController(client, db)

	e.POST("/api/auth/signup", authController.Signup)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/remember-me", authController.LoginWithRememberToken)
	e.POST("/api/auth/refresh-token", authController.RefreshToken)
	e.GET("/api/auth/validate-token", authController.ValidateToken)
	e.GET("/api/auth/csrf", authController.CSRFToken)

	// Logout needs the parsed token to compute the blacklist expiry
	logout := e.Group("/api/auth/logout")
	logout.Use(middleware.JWTMiddleware())
	logout.POST("", authController.Logout)
}
