package controllers

import (
	"context"
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

// HospitalController handles hospital and clinic listing CRUD
type HospitalController struct {
	DB  *mongo.Database
	Hub *websocket.Hub
}

// NewHospitalController creates a new hospital controller
func NewHospitalController(db *mongo.Database, hub *websocket.Hub) *HospitalController {
	return &HospitalController{DB: db, Hub: hub}
}

// CreateHospital submits a new hospital for approval
func (hc *HospitalController) CreateHospital(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ownerID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req models.HospitalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "name, category and city are required",
		})
	}

	images, err := saveEntityImages(c, "hospitals")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	agentID, err := utils.GenerateAgentID(req.Name, models.KindHospital)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate agent ID",
		})
	}

	now := time.Now()
	hospital := models.Hospital{
		ID:          primitive.NewObjectID(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Departments: req.Departments,
		Address: models.Address{
			City:   req.City,
			Street: req.Street,
		},
		Phones:         req.Phones,
		EmergencyPhone: req.EmergencyPhone,
		Email:          req.Email,
		Website:        req.Website,
		Images:         images,
		ApprovalFields: models.NewApprovalFields(agentID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = hc.DB.Collection("hospitals").InsertOne(ctx, hospital)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create hospital",
		})
	}

	if hc.Hub != nil {
		hc.Hub.BroadcastToAdmins(websocket.Notification{
			Type:    websocket.NotificationTypeEntitySubmitted,
			Message: "New hospital awaiting approval: " + hospital.Name,
			Data:    map[string]interface{}{"entityType": models.KindHospital, "entityId": hospital.ID.Hex()},
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Hospital submitted and awaiting approval",
		Data:    hospital,
	})
}

// GetHospitals lists approved hospitals. Supports category, city and
// department filters.
func (hc *HospitalController) GetHospitals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"approvalStatus": models.ApprovalApproved}
	if category := c.QueryParam("category"); category != "" {
		filter["category"] = category
	}
	if city := c.QueryParam("city"); city != "" {
		filter["address.city"] = city
	}
	if department := c.QueryParam("department"); department != "" {
		filter["departments"] = department
	}

	cursor, err := hc.DB.Collection("hospitals").Find(ctx, filter, listOptions(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve hospitals",
		})
	}
	defer cursor.Close(ctx)

	var hospitals []models.Hospital
	if err = cursor.All(ctx, &hospitals); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode hospitals",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hospitals retrieved successfully",
		Data:    hospitals,
	})
}

// GetHospital returns a single hospital. Unapproved hospitals are only
// visible to their owner and admins.
func (hc *HospitalController) GetHospital(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hospitalID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid hospital ID format",
		})
	}

	var hospital models.Hospital
	err = hc.DB.Collection("hospitals").FindOne(ctx, bson.M{"_id": hospitalID}).Decode(&hospital)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Hospital not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve hospital",
		})
	}

	if hospital.ApprovalStatus != models.ApprovalApproved && !canViewPending(c, hospital.OwnerID) {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Hospital not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hospital retrieved successfully",
		Data:    hospital,
	})
}

// GetMyHospitals lists the authenticated owner's hospitals regardless of status
func (hc *HospitalController) GetMyHospitals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ownerID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	cursor, err := hc.DB.Collection("hospitals").Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve hospitals",
		})
	}
	defer cursor.Close(ctx)

	var hospitals []models.Hospital
	if err = cursor.All(ctx, &hospitals); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode hospitals",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hospitals retrieved successfully",
		Data:    hospitals,
	})
}

// UpdateHospital lets the owner edit listing details. Approval state
// fields are never writable through this endpoint.
func (hc *HospitalController) UpdateHospital(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hospitalID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid hospital ID format",
		})
	}

	ownerID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req models.HospitalRequest
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
	if len(req.Departments) > 0 {
		set["departments"] = req.Departments
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
	if req.EmergencyPhone != "" {
		set["emergencyPhone"] = req.EmergencyPhone
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.Website != "" {
		set["website"] = req.Website
	}

	result, err := hc.DB.Collection("hospitals").UpdateOne(ctx,
		bson.M{"_id": hospitalID, "ownerId": ownerID},
		bson.M{"$set": set})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update hospital",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Hospital not found or not owned by you",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hospital updated successfully",
	})
}

// DeleteHospital removes a hospital; allowed for the owner or an admin
func (hc *HospitalController) DeleteHospital(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hospitalID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid hospital ID format",
		})
	}

	filter := bson.M{"_id": hospitalID}
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

	result, err := hc.DB.Collection("hospitals").DeleteOne(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete hospital",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Hospital not found or not owned by you",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Hospital deleted successfully",
	})
}
