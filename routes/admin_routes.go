package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/controllers"
	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/repositories"
	"github.com/mdrafiul/localmart_backend/services"
)

// RegisterAdminRoutes sets up the moderation dashboard routes
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Database) {
	adminController := controllers.NewAdminController(db)

	approvalService := services.NewApprovalService(
		repositories.NewEntityRepository(db),
		repositories.NewPaymentRepository(db),
	)
	approvalController := controllers.NewApprovalController(
		approvalService,
		controllers.NewDecisionNotifier(db),
	)

	admin := e.Group("/api/admin")

	// Public admin routes
	admin.POST("/login", adminController.AdminLogin)

	// Protected routes (require admin authentication)
	protected := admin.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.Use(middleware.RequireAdmin())

	protected.GET("/users", adminController.GetUsers)
	protected.GET("/pending-entities", adminController.GetPendingEntities)

	// Payment verification
	protected.GET("/payment-requests", adminController.GetPaymentRequests)
	protected.PUT("/payment-requests/:id/status", adminController.UpdatePaymentStatus)
	protected.PUT("/payment-settings", adminController.UpdatePaymentSettings)

	// Approval workflow
	protected.POST("/approve-entity", approvalController.ApproveEntity)
	for _, kind := range models.EntityKinds() {
		protected.PUT("/"+kind.Info().Collection+"/:id/approval", approvalController.DecideEntity(kind))
	}
}
