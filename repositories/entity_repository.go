package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdrafiul/localmart_backend/models"
)

// ErrNotFound is returned when no document matches the lookup. For the
// conditional approval writes it also covers the already-decided case:
// the filter requires approvalStatus "pending", so a second decision on
// the same entity matches nothing.
var ErrNotFound = errors.New("repository: not found")

// EntityRepository reads and transitions entity documents across the
// four vertical collections, selected through the kind registry.
type EntityRepository struct {
	db *mongo.Database
}

func NewEntityRepository(db *mongo.Database) *EntityRepository {
	return &EntityRepository{db: db}
}

func (r *EntityRepository) collection(kind models.EntityKind) *mongo.Collection {
	return r.db.Collection(kind.Info().Collection)
}

// FindByID loads the workflow projection of one entity document
func (r *EntityRepository) FindByID(ctx context.Context, kind models.EntityKind, id primitive.ObjectID) (*models.EntitySummary, error) {
	var summary models.EntitySummary
	err := r.collection(kind).FindOne(ctx, bson.M{"_id": id}).Decode(&summary)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// FirstPending returns the owner's first pending entity of the kind in
// natural order. Which document wins when the owner has several pending
// submissions of the same kind is deliberately unspecified.
func (r *EntityRepository) FirstPending(ctx context.Context, kind models.EntityKind, ownerID primitive.ObjectID) (*models.EntitySummary, error) {
	filter := bson.M{
		"ownerId":        ownerID,
		"approvalStatus": models.ApprovalPending,
	}

	var summary models.EntitySummary
	err := r.collection(kind).FindOne(ctx, filter).Decode(&summary)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ApprovePaid flips a pending entity to approved with payment linkage.
// The filter on approvalStatus makes the transition atomic: a concurrent
// or repeated approval matches zero documents and reports ErrNotFound.
func (r *EntityRepository) ApprovePaid(ctx context.Context, kind models.EntityKind, id, adminID, paymentRequestID primitive.ObjectID, at time.Time) error {
	filter := bson.M{
		"_id":            id,
		"approvalStatus": models.ApprovalPending,
	}
	set := bson.M{
		"approvalStatus":   models.ApprovalApproved,
		"approvedBy":       adminID,
		"approvedAt":       at,
		"paymentVerified":  true,
		"paymentRequestId": paymentRequestID,
		"updatedAt":        at,
	}
	if kind.Info().LegacyVerifiedFlag {
		set["verified"] = true
	}

	result, err := r.collection(kind).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Decide applies a manual admin approval or rejection and returns the
// updated document. No payment linkage is established on this path.
func (r *EntityRepository) Decide(ctx context.Context, kind models.EntityKind, id, adminID primitive.ObjectID, status, notes string, at time.Time) (bson.M, error) {
	filter := bson.M{
		"_id":            id,
		"approvalStatus": models.ApprovalPending,
	}
	set := bson.M{
		"approvalStatus": status,
		"approvalNotes":  notes,
		"approvedBy":     adminID,
		"approvedAt":     at,
		"updatedAt":      at,
	}
	if kind.Info().LegacyVerifiedFlag && status == models.ApprovalApproved {
		set["verified"] = true
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated bson.M
	err := r.collection(kind).FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}
