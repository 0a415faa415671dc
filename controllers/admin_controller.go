package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/utils"
)

// AdminController handles the moderation dashboard endpoints
type AdminController struct {
	DB *mongo.Database
}

// NewAdminController creates a new admin controller
func NewAdminController(db *mongo.Database) *AdminController {
	return &AdminController{DB: db}
}

// AdminLogin authenticates an admin account and issues JWT tokens
func (ac *AdminController) AdminLogin(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "email and password are required",
		})
	}

	var user models.User
	err := ac.DB.Collection("users").
		FindOne(ctx, bson.M{"email": req.Email, "userType": "admin"}).
		Decode(&user)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	accessToken, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
			"user":         user,
		},
	})
}

// GetUsers lists registered accounts for the dashboard
func (ac *AdminController) GetUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := listOptions(c).SetProjection(bson.M{"password": 0})
	cursor, err := ac.DB.Collection("users").Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve users",
		})
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

// GetPendingEntities lists unapproved listings across every vertical,
// or for a single one when ?type= is given
func (ac *AdminController) GetPendingEntities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kinds := models.EntityKinds()
	if t := c.QueryParam("type"); t != "" {
		kind, err := models.KindFromString(t)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		kinds = []models.EntityKind{kind}
	}

	pending := make(map[string][]bson.M)
	for _, kind := range kinds {
		cursor, err := ac.DB.Collection(kind.Info().Collection).Find(ctx,
			bson.M{"approvalStatus": models.ApprovalPending},
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to retrieve pending entities",
			})
		}

		var docs []bson.M
		err = cursor.All(ctx, &docs)
		cursor.Close(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to decode pending entities",
			})
		}
		pending[string(kind)] = docs
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending entities retrieved successfully",
		Data:    pending,
	})
}

// GetPaymentRequests lists payment requests, optionally filtered by status
func (ac *AdminController) GetPaymentRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		if !models.ValidPaymentStatus(status) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid payment status",
			})
		}
		filter["status"] = status
	}

	cursor, err := ac.DB.Collection("payment_requests").Find(ctx, filter, listOptions(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve payment requests",
		})
	}
	defer cursor.Close(ctx)

	var requests []models.PaymentRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode payment requests",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment requests retrieved successfully",
		Data:    requests,
	})
}

// UpdatePaymentStatus changes a payment request's status and records
// who verified it. Approving the linked entity is a separate step
// through the approve-entity endpoint.
func (ac *AdminController) UpdatePaymentStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment request ID format",
		})
	}

	var update models.PaymentStatusUpdate
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if !models.ValidPaymentStatus(update.Status) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment status",
		})
	}

	adminID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	now := time.Now()
	after := options.After
	var updated models.PaymentRequest
	err = ac.DB.Collection("payment_requests").FindOneAndUpdate(ctx,
		bson.M{"_id": requestID},
		bson.M{"$set": bson.M{
			"status":            update.Status,
			"verificationNotes": update.VerificationNotes,
			"verifiedBy":        adminID,
			"verifiedAt":        now,
			"updatedAt":         now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Payment request not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update payment request",
		})
	}

	go utils.NotifyPaymentStatus(ac.DB, updated.UserID, updated.TransactionID, updated.Status, updated.VerificationNotes)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":        true,
		"paymentRequest": updated,
	})
}

// UpdatePaymentSettings replaces the bank-details document shown to
// users before they transfer
func (ac *AdminController) UpdatePaymentSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.PaymentSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "bankName, accountName and accountNumber are required",
		})
	}

	adminID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	settings := models.PaymentSettings{
		ID:            models.PaymentSettingsID,
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		IBAN:          req.IBAN,
		ProcessingFee: req.ProcessingFee,
		Instructions:  req.Instructions,
		UpdatedBy:     &adminID,
		UpdatedAt:     time.Now(),
	}

	upsert := true
	_, err = ac.DB.Collection("payment_settings").ReplaceOne(ctx,
		bson.M{"_id": models.PaymentSettingsID},
		settings,
		&options.ReplaceOptions{Upsert: &upsert})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update payment settings",
		})
	}

	InvalidateSettingsCache(ctx)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment settings updated successfully",
		Data:    settings,
	})
}
