package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/utils"
)

// AgentQRHandler serves an entity's agent ID as a PNG QR code so the
// owner can attach it to an offline bank transfer. Only the owner can
// fetch it.
func AgentQRHandler(db *mongo.Database, kind models.EntityKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		entityID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid ID format",
			})
		}

		ownerID, err := ownerObjectID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid token",
			})
		}

		var doc struct {
			AgentID string `bson:"agentId"`
		}
		err = db.Collection(kind.Info().Collection).
			FindOne(ctx, bson.M{"_id": entityID, "ownerId": ownerID}).
			Decode(&doc)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Not found or not owned by you",
			})
		}
		if doc.AgentID == "" {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "No agent ID assigned",
			})
		}

		qrPNG, err := utils.GenerateAgentQRCode(doc.AgentID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to generate QR code",
			})
		}

		return c.Blob(http.StatusOK, "image/png", qrPNG)
	}
}
