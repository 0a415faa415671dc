package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrafiul/localmart_backend/models"
)

// PaymentRepository loads payment request documents for the approval
// workflow. Writes stay in the payment and admin controllers.
type PaymentRepository struct {
	db *mongo.Database
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PaymentRequest, error) {
	var request models.PaymentRequest
	err := r.db.Collection("payment_requests").FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}
