package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/services"
)

// DecisionNotifier delivers approval/rejection notifications to listing
// owners. Delivery is best effort and never blocks the response.
type DecisionNotifier interface {
	EntityDecision(ownerID primitive.ObjectID, kind models.EntityKind, entityName, status, notes string)
}

// ApprovalController exposes the entity approval workflow to admins
type ApprovalController struct {
	Service  *services.ApprovalService
	Notifier DecisionNotifier
}

// NewApprovalController creates a new approval controller
func NewApprovalController(service *services.ApprovalService, notifier DecisionNotifier) *ApprovalController {
	return &ApprovalController{Service: service, Notifier: notifier}
}

// ApproveEntityRequest is the body of POST /api/admin/approve-entity
type ApproveEntityRequest struct {
	UserID           string `json:"userId"`
	EntityType       string `json:"entityType"`
	PaymentRequestID string `json:"paymentRequestId"`
}

// ApproveEntity resolves the pending entity a payment request pays for
// and approves it with payment linkage
func (ac *ApprovalController) ApproveEntity(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if middleware.ExtractUserType(c) != "admin" {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only admins can approve entities",
		})
	}

	var req ApproveEntityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.UserID == "" || req.EntityType == "" || req.PaymentRequestID == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "userId, entityType and paymentRequestId are required",
		})
	}

	kind, err := models.KindFromString(req.EntityType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID format",
		})
	}

	paymentRequestID, err := primitive.ObjectIDFromHex(req.PaymentRequestID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment request ID format",
		})
	}

	claims := middleware.GetUserFromToken(c)
	adminID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid admin ID",
		})
	}

	result, err := ac.Service.ApproveForPayment(ctx, userID, kind, paymentRequestID, adminID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentRequestNotFound):
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Payment request not found",
			})
		case errors.Is(err, services.ErrNoPendingEntity):
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: fmt.Sprintf("No pending %s found for this user", kind),
			})
		default:
			c.Logger().Errorf("approve-entity failed: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to approve entity",
			})
		}
	}

	if ac.Notifier != nil {
		ac.Notifier.EntityDecision(result.OwnerID, kind, result.EntityName, models.ApprovalApproved, "")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":        true,
		"entityId":       result.EntityID,
		"approvalStatus": result.ApprovalStatus,
		"approvedAt":     result.ApprovedAt,
	})
}

// DecideEntity handles PUT /api/admin/<entity>/:id/approval for one
// entity kind: a direct admin approval or rejection with notes
func (ac *ApprovalController) DecideEntity(kind models.EntityKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		entityID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid entity ID format",
			})
		}

		var decision models.ApprovalDecision
		if err := c.Bind(&decision); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid request body",
			})
		}

		if !models.ValidDecisionStatus(decision.Status) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid status. Must be 'approved' or 'rejected'",
			})
		}

		claims := middleware.GetUserFromToken(c)
		adminID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid admin ID",
			})
		}

		updated, err := ac.Service.DecideManually(ctx, kind, entityID, adminID, decision.Status, decision.Notes)
		if err != nil {
			if errors.Is(err, services.ErrNoPendingEntity) {
				return c.JSON(http.StatusNotFound, models.Response{
					Status:  http.StatusNotFound,
					Message: fmt.Sprintf("No pending %s found with this ID", kind.Info().Singular),
				})
			}
			c.Logger().Errorf("manual decision failed for %s %s: %v", kind, entityID.Hex(), err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to update approval status",
			})
		}

		if ac.Notifier != nil {
			ownerID, _ := updated["ownerId"].(primitive.ObjectID)
			name, _ := updated["name"].(string)
			if !ownerID.IsZero() {
				ac.Notifier.EntityDecision(ownerID, kind, name, decision.Status, decision.Notes)
			}
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":            true,
			kind.Info().Singular: updated,
		})
	}
}
