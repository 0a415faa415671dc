package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/utils"
	"github.com/mdrafiul/localmart_backend/websocket"
)

// InstituteController handles education institute listing CRUD
type InstituteController struct {
	DB  *mongo.Database
	Hub *websocket.Hub
}

// NewInstituteController creates a new institute controller
func NewInstituteController(db *mongo.Database, hub *websocket.Hub) *InstituteController {
	return &InstituteController{DB: db, Hub: hub}
}

// CreateInstitute submits a new institute for approval. Courses can be
// sent either in a JSON body or as a JSON-encoded "courses" form field
// alongside image uploads.
func (ic *InstituteController) CreateInstitute(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ownerID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req models.InstituteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if raw := c.FormValue("courses"); raw != "" && len(req.Courses) == 0 {
		if err := json.Unmarshal([]byte(raw), &req.Courses); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid courses format",
			})
		}
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "name, category and city are required",
		})
	}

	images, err := saveEntityImages(c, "institutes")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	agentID, err := utils.GenerateAgentID(req.Name, models.KindInstitute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate agent ID",
		})
	}

	now := time.Now()
	institute := models.Institute{
		ID:          primitive.NewObjectID(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Courses:     req.Courses,
		Address: models.Address{
			City:   req.City,
			Street: req.Street,
		},
		Phones:         req.Phones,
		Email:          req.Email,
		Website:        req.Website,
		Images:         images,
		Verified:       false,
		ApprovalFields: models.NewApprovalFields(agentID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = ic.DB.Collection("institutes").InsertOne(ctx, institute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create institute",
		})
	}

	if ic.Hub != nil {
		ic.Hub.BroadcastToAdmins(websocket.Notification{
			Type:    websocket.NotificationTypeEntitySubmitted,
			Message: "New institute awaiting approval: " + institute.Name,
			Data:    map[string]interface{}{"entityType": models.KindInstitute, "entityId": institute.ID.Hex()},
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Institute submitted and awaiting approval",
		Data:    institute,
	})
}

// GetInstitutes lists approved institutes with optional category/city filters
func (ic *InstituteController) GetInstitutes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"approvalStatus": models.ApprovalApproved}
	if category := c.QueryParam("category"); category != "" {
		filter["category"] = category
	}
	if city := c.QueryParam("city"); city != "" {
		filter["address.city"] = city
	}

	cursor, err := ic.DB.Collection("institutes").Find(ctx, filter, listOptions(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve institutes",
		})
	}
	defer cursor.Close(ctx)

	var institutes []models.Institute
	if err = cursor.All(ctx, &institutes); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode institutes",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Institutes retrieved successfully",
		Data:    institutes,
	})
}

// GetInstitute returns a single institute. Unapproved institutes are
// only visible to their owner and admins.
func (ic *InstituteController) GetInstitute(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	instituteID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid institute ID format",
		})
	}

	var institute models.Institute
	err = ic.DB.Collection("institutes").FindOne(ctx, bson.M{"_id": instituteID}).Decode(&institute)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Institute not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve institute",
		})
	}

	if institute.ApprovalStatus != models.ApprovalApproved && !canViewPending(c, institute.OwnerID) {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Institute not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Institute retrieved successfully",
		Data:    institute,
	})
}

// GetMyInstitutes lists the authenticated owner's institutes regardless of status
func (ic *InstituteController) GetMyInstitutes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ownerID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	cursor, err := ic.DB.Collection("institutes").Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve institutes",
		})
	}
	defer cursor.Close(ctx)

	var institutes []models.Institute
	if err = cursor.All(ctx, &institutes); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode institutes",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Institutes retrieved successfully",
		Data:    institutes,
	})
}

// UpdateInstitute lets the owner edit listing details. Approval state
// and the legacy verified flag are never writable here.
func (ic *InstituteController) UpdateInstitute(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	instituteID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid institute ID format",
		})
	}

	ownerID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req models.InstituteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.Category != "" {
		set["category"] = req.Category
	}
	if len(req.Courses) > 0 {
		set["courses"] = req.Courses
	}
	if req.City != "" {
		set["address.city"] = req.City
	}
	if req.Street != "" {
		set["address.street"] = req.Street
	}
	if len(req.Phones) > 0 {
		set["phones"] = req.Phones
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.Website != "" {
		set["website"] = req.Website
	}

	result, err := ic.DB.Collection("institutes").UpdateOne(ctx,
		bson.M{"_id": instituteID, "ownerId": ownerID},
		bson.M{"$set": set})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update institute",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Institute not found or not owned by you",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Institute updated successfully",
	})
}

// DeleteInstitute removes an institute; allowed for the owner or an admin
func (ic *InstituteController) DeleteInstitute(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	instituteID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid institute ID format",
		})
	}

	filter := bson.M{"_id": instituteID}
	if middleware.ExtractUserType(c) != "admin" {
		ownerID, err := ownerObjectID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid token",
			})
		}
		filter["ownerId"] = ownerID
	}

	result, err := ic.DB.Collection("institutes").DeleteOne(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete institute",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Institute not found or not owned by you",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Institute deleted successfully",
	})
}
