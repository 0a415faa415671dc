package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/config"
	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/utils"
	"github.com/mdrafiul/localmart_backend/websocket"
)

const settingsCacheKey = "payment:settings"

// PaymentController handles offline bank-transfer payment requests
type PaymentController struct {
	DB  *mongo.Database
	Hub *websocket.Hub
}

// NewPaymentController creates a new payment controller
func NewPaymentController(db *mongo.Database, hub *websocket.Hub) *PaymentController {
	return &PaymentController{DB: db, Hub: hub}
}

// CreatePaymentRequest records a user's bank-transfer claim. The
// transaction screenshot is mandatory and arrives as the
// "transactionScreenshot" multipart file part.
func (pc *PaymentController) CreatePaymentRequest(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var form models.PaymentRequestForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&form); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "entityType, amount, transactionId and bankName are required",
		})
	}

	kind, err := models.KindFromString(form.EntityType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	screenshot, err := c.FormFile("transactionScreenshot")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Transaction screenshot is required",
		})
	}
	if err := utils.ValidateImageFile(screenshot); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	// Reject duplicate submissions early; the unique index on
	// transactionId catches the race between check and insert
	count, err := pc.DB.Collection("payment_requests").CountDocuments(ctx,
		bson.M{"transactionId": form.TransactionID})
	if err == nil && count > 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A payment request with this transaction ID already exists",
		})
	}

	req := models.PaymentRequest{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		EntityType:    kind,
		AgentID:       form.AgentID,
		Amount:        form.Amount,
		TransactionID: form.TransactionID,
		BankName:      form.BankName,
		AccountNumber: form.AccountNumber,
		Notes:         form.Notes,
		Status:        models.PaymentPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if form.EntityID != "" {
		entityID, err := primitive.ObjectIDFromHex(form.EntityID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid entity ID format",
			})
		}
		var entity struct {
			AgentID string `bson:"agentId"`
		}
		err = pc.DB.Collection(kind.Info().Collection).
			FindOne(ctx, bson.M{"_id": entityID, "ownerId": userID}).
			Decode(&entity)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Entity not found or not owned by you",
			})
		}
		req.EntityID = &entityID
		// Prefer the entity's own agent ID over a hand-typed one
		if entity.AgentID != "" {
			req.AgentID = entity.AgentID
		}
	}

	if form.TransactionDate != "" {
		if t, err := time.Parse("2006-01-02", form.TransactionDate); err == nil {
			req.TransactionDate = t
		} else if t, err := time.Parse(time.RFC3339, form.TransactionDate); err == nil {
			req.TransactionDate = t
		}
	}

	screenshotURL, err := utils.SaveUploadedImage(screenshot, "payments")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save transaction screenshot",
		})
	}
	req.ScreenshotURL = screenshotURL

	settings, err := pc.loadSettings(ctx)
	if err == nil {
		req.ProcessingFee = settings.ProcessingFee
	}
	req.Normalize()

	_, err = pc.DB.Collection("payment_requests").InsertOne(ctx, req)
	if err != nil {
		// The screenshot is already on disk; don't leave it orphaned
		if removeErr := utils.RemoveUploadedImage(req.ScreenshotURL); removeErr != nil {
			log.Printf("failed to remove orphaned screenshot %s: %v", req.ScreenshotURL, removeErr)
		}
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "A payment request with this transaction ID already exists",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create payment request",
		})
	}

	if pc.Hub != nil {
		pc.Hub.BroadcastToAdmins(websocket.Notification{
			Type:    websocket.NotificationTypePaymentCreated,
			Message: "New payment request: " + req.TransactionID,
			Data:    map[string]interface{}{"paymentRequestId": req.ID.Hex(), "amount": req.TotalAmount},
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":        true,
		"paymentRequest": req,
	})
}

// GetPaymentStatus returns a single payment request; visible to its
// submitter and to admins
func (pc *PaymentController) GetPaymentStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment request ID format",
		})
	}

	filter := bson.M{"_id": requestID}
	if middleware.ExtractUserType(c) != "admin" {
		userID, err := ownerObjectID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid token",
			})
		}
		filter["userId"] = userID
	}

	var req models.PaymentRequest
	err = pc.DB.Collection("payment_requests").FindOne(ctx, filter).Decode(&req)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Payment request not found",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":        true,
		"paymentRequest": req,
	})
}

// GetMyPaymentRequests lists the authenticated user's payment requests
func (pc *PaymentController) GetMyPaymentRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	cursor, err := pc.DB.Collection("payment_requests").
		Find(ctx, bson.M{"userId": userID}, listOptions(c))
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

// GetPaymentSettings returns the bank details and processing fee users
// need before submitting a transfer
func (pc *PaymentController) GetPaymentSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := pc.loadSettings(ctx)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Payment settings not configured",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment settings retrieved successfully",
		Data:    settings,
	})
}

// loadSettings reads the settings document through a short-lived redis
// cache. InvalidateSettingsCache must be called after every update.
func (pc *PaymentController) loadSettings(ctx context.Context) (*models.PaymentSettings, error) {
	if config.RedisClient != nil {
		if cached, err := config.RedisClient.Get(ctx, settingsCacheKey).Result(); err == nil {
			var settings models.PaymentSettings
			if json.Unmarshal([]byte(cached), &settings) == nil {
				return &settings, nil
			}
		}
	}

	var settings models.PaymentSettings
	err := pc.DB.Collection("payment_settings").
		FindOne(ctx, bson.M{"_id": models.PaymentSettingsID}).
		Decode(&settings)
	if err != nil {
		return nil, err
	}

	if config.RedisClient != nil {
		if data, err := json.Marshal(settings); err == nil {
			if err := config.RedisClient.Set(ctx, settingsCacheKey, data, 5*time.Minute).Err(); err != nil {
				log.Printf("Failed to cache payment settings: %v", err)
			}
		}
	}
	return &settings, nil
}

// InvalidateSettingsCache drops the cached settings document
func InvalidateSettingsCache(ctx context.Context) {
	if config.RedisClient != nil {
		config.RedisClient.Del(ctx, settingsCacheKey)
	}
}
