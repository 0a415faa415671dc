package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/utils"
	"github.com/mdrafiul/localmart_backend/websocket"
)

// ShopController handles shop listing CRUD
type ShopController struct {
	DB  *mongo.Database
	Hub *websocket.Hub
}

// NewShopController creates a new shop controller
func NewShopController(db *mongo.Database, hub *websocket.Hub) *ShopController {
	return &ShopController{DB: db, Hub: hub}
}

// CreateShop handles the shop submission wizard. The new shop starts in
// pending state and is invisible to the public listing until approved.
func (sc *ShopController) CreateShop(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID",
		})
	}

	var req models.ShopRequest
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

	images, err := saveEntityImages(c, "shops")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	agentID, err := utils.GenerateAgentID(req.Name, models.KindShop)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate agent ID",
		})
	}

	now := time.Now()
	shop := models.Shop{
		ID:          primitive.NewObjectID(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Address: models.Address{
			City:   req.City,
			Street: req.Street,
		},
		Phones:         req.Phones,
		Email:          req.Email,
		Website:        req.Website,
		OpeningHrs:     req.OpeningHrs,
		Images:         images,
		ApprovalFields: models.NewApprovalFields(agentID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = sc.DB.Collection("shops").InsertOne(ctx, shop)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create shop",
		})
	}

	if sc.Hub != nil {
		sc.Hub.BroadcastToAdmins(websocket.Notification{
			Type:    websocket.NotificationTypeEntitySubmitted,
			Message: "New shop awaiting approval: " + shop.Name,
			Data:    map[string]interface{}{"entityType": models.KindShop, "entityId": shop.ID.Hex()},
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Shop submitted and awaiting approval",
		Data:    shop,
	})
}

// GetShops lists approved shops with optional category/city filters
func (sc *ShopController) GetShops(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"approvalStatus": models.ApprovalApproved}
	if category := c.QueryParam("category"); category != "" {
		filter["category"] = category
	}
	if city := c.QueryParam("city"); city != "" {
		filter["address.city"] = city
	}

	findOptions := listOptions(c)
	cursor, err := sc.DB.Collection("shops").Find(ctx, filter, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve shops",
		})
	}
	defer cursor.Close(ctx)

	var shops []models.Shop
	if err = cursor.All(ctx, &shops); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode shops",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Shops retrieved successfully",
		Data:    shops,
	})
}

// GetShop returns a single shop. Unapproved shops are only visible to
// their owner and admins.
func (sc *ShopController) GetShop(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shopID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid shop ID format",
		})
	}

	var shop models.Shop
	err = sc.DB.Collection("shops").FindOne(ctx, bson.M{"_id": shopID}).Decode(&shop)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Shop not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve shop",
		})
	}

	if shop.ApprovalStatus != models.ApprovalApproved && !canViewPending(c, shop.OwnerID) {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Shop not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Shop retrieved successfully",
		Data:    shop,
	})
}

// GetMyShops lists the authenticated owner's shops regardless of status
func (sc *ShopController) GetMyShops(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ownerID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	cursor, err := sc.DB.Collection("shops").Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve shops",
		})
	}
	defer cursor.Close(ctx)

	var shops []models.Shop
	if err = cursor.All(ctx, &shops); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode shops",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Shops retrieved successfully",
		Data:    shops,
	})
}

// UpdateShop lets the owner edit listing details. Approval state fields
// are never writable through this endpoint.
func (sc *ShopController) UpdateShop(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shopID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid shop ID format",
		})
	}

	ownerID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req models.ShopRequest
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
	if req.SubCategory != "" {
		set["subCategory"] = req.SubCategory
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
	if req.OpeningHrs != "" {
		set["openingHours"] = req.OpeningHrs
	}

	result, err := sc.DB.Collection("shops").UpdateOne(ctx,
		bson.M{"_id": shopID, "ownerId": ownerID},
		bson.M{"$set": set})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update shop",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Shop not found or not owned by you",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Shop updated successfully",
	})
}

// DeleteShop removes a shop; allowed for the owner or an admin
func (sc *ShopController) DeleteShop(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shopID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid shop ID format",
		})
	}

	filter := bson.M{"_id": shopID}
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

	result, err := sc.DB.Collection("shops").DeleteOne(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete shop",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Shop not found or not owned by you",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Shop deleted successfully",
	})
}

// listOptions builds pagination options from limit/page query params
func listOptions(c echo.Context) *options.FindOptions {
	limit := int64(20)
	if l, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	page := int64(1)
	if p, err := strconv.ParseInt(c.QueryParam("page"), 10, 64); err == nil && p > 0 {
		page = p
	}
	return options.Find().
		SetLimit(limit).
		SetSkip((page - 1) * limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

// saveEntityImages stores all "images" file parts of a multipart
// submission under uploads/<subDir>
func saveEntityImages(c echo.Context, subDir string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// JSON submissions without images are fine
		return nil, nil
	}

	var urls []string
	for _, file := range form.File["images"] {
		url, err := utils.SaveUploadedImage(file, subDir)
		if err != nil {
			return nil, err
		}
		if _, err := utils.GenerateImageThumbnail(url); err != nil {
			log.Printf("thumbnail generation failed for %s: %v", url, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// ownerObjectID extracts the authenticated user id as an ObjectID
func ownerObjectID(c echo.Context) (primitive.ObjectID, error) {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(userID)
}

// canViewPending reports whether the caller may see an unapproved entity
func canViewPending(c echo.Context, ownerID primitive.ObjectID) bool {
	if middleware.ExtractUserType(c) == "admin" {
		return true
	}
	callerID, err := ownerObjectID(c)
	if err != nil {
		return false
	}
	return callerID == ownerID
}
