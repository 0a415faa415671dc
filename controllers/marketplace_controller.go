package controllers

import (
	"context"
	"net/http"
	"strconv"
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

// MarketplaceController handles classified-ad product listings
type MarketplaceController struct {
	DB  *mongo.Database
	Hub *websocket.Hub
}

// NewMarketplaceController creates a new marketplace controller
func NewMarketplaceController(db *mongo.Database, hub *websocket.Hub) *MarketplaceController {
	return &MarketplaceController{DB: db, Hub: hub}
}

// CreateProduct submits a new product listing for approval
func (mc *MarketplaceController) CreateProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ownerID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "name, category and a positive price are required",
		})
	}

	images, err := saveEntityImages(c, "products")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	agentID, err := utils.GenerateAgentID(req.Name, models.KindMarketplace)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate agent ID",
		})
	}

	now := time.Now()
	product := models.Product{
		ID:             primitive.NewObjectID(),
		OwnerID:        ownerID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Price:          req.Price,
		Condition:      req.Condition,
		Negotiable:     req.Negotiable,
		City:           req.City,
		Images:         images,
		ApprovalFields: models.NewApprovalFields(agentID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err = mc.DB.Collection("products").InsertOne(ctx, product)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create product",
		})
	}

	if mc.Hub != nil {
		mc.Hub.BroadcastToAdmins(websocket.Notification{
			Type:    websocket.NotificationTypeEntitySubmitted,
			Message: "New product awaiting approval: " + product.Name,
			Data:    map[string]interface{}{"entityType": models.KindMarketplace, "entityId": product.ID.Hex()},
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Product submitted and awaiting approval",
		Data:    product,
	})
}

// GetProducts lists approved products. Supports category, city,
// condition and price range filters.
func (mc *MarketplaceController) GetProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"approvalStatus": models.ApprovalApproved}
	if category := c.QueryParam("category"); category != "" {
		filter["category"] = category
	}
	if city := c.QueryParam("city"); city != "" {
		filter["city"] = city
	}
	if condition := c.QueryParam("condition"); condition != "" {
		filter["condition"] = condition
	}

	price := bson.M{}
	if min, err := strconv.ParseFloat(c.QueryParam("minPrice"), 64); err == nil && min > 0 {
		price["$gte"] = min
	}
	if max, err := strconv.ParseFloat(c.QueryParam("maxPrice"), 64); err == nil && max > 0 {
		price["$lte"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	cursor, err := mc.DB.Collection("products").Find(ctx, filter, listOptions(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve products",
		})
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode products",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Products retrieved successfully",
		Data:    products,
	})
}

// GetProduct returns a single product. Unapproved products are only
// visible to their owner and admins.
func (mc *MarketplaceController) GetProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid product ID format",
		})
	}

	var product models.Product
	err = mc.DB.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Product not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve product",
		})
	}

	if product.ApprovalStatus != models.ApprovalApproved && !canViewPending(c, product.OwnerID) {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Product not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product retrieved successfully",
		Data:    product,
	})
}

// GetMyProducts lists the authenticated owner's products regardless of status
func (mc *MarketplaceController) GetMyProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ownerID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	cursor, err := mc.DB.Collection("products").Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve products",
		})
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode products",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Products retrieved successfully",
		Data:    products,
	})
}

// UpdateProduct lets the owner edit listing details. Approval state
// fields are never writable through this endpoint.
func (mc *MarketplaceController) UpdateProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid product ID format",
		})
	}

	ownerID, err := ownerObjectID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	var req models.ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request data",
		})
	}

	set := bson.M{"updatedAt": time.Now(), "negotiable": req.Negotiable}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.Category != "" {
		set["category"] = req.Category
	}
	if req.Price > 0 {
		set["price"] = req.Price
	}
	if req.Condition != "" {
		set["condition"] = req.Condition
	}
	if req.City != "" {
		set["city"] = req.City
	}

	result, err := mc.DB.Collection("products").UpdateOne(ctx,
		bson.M{"_id": productID, "ownerId": ownerID},
		bson.M{"$set": set})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update product",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Product not found or not owned by you",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product updated successfully",
	})
}

// DeleteProduct removes a product; allowed for the owner or an admin
func (mc *MarketplaceController) DeleteProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid product ID format",
		})
	}

	filter := bson.M{"_id": productID}
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

	result, err := mc.DB.Collection("products").DeleteOne(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete product",
		})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Product not found or not owned by you",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product deleted successfully",
	})
}
