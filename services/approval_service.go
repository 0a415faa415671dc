// services/approval_service.go
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/repositories"
)

var (
	// ErrPaymentRequestNotFound means the referenced payment request does not exist
	ErrPaymentRequestNotFound = errors.New("payment request not found")
	// ErrNoPendingEntity means no pending entity could be resolved, or the
	// entity was decided before the transition landed
	ErrNoPendingEntity = errors.New("no pending entity found")
	// ErrInvalidDecision means the manual decision status is outside {approved, rejected}
	ErrInvalidDecision = errors.New("invalid decision status")
)

// EntityStore is the slice of the entity repository the workflow needs
type EntityStore interface {
	FindByID(ctx context.Context, kind models.EntityKind, id primitive.ObjectID) (*models.EntitySummary, error)
	FirstPending(ctx context.Context, kind models.EntityKind, ownerID primitive.ObjectID) (*models.EntitySummary, error)
	ApprovePaid(ctx context.Context, kind models.EntityKind, id, adminID, paymentRequestID primitive.ObjectID, at time.Time) error
	Decide(ctx context.Context, kind models.EntityKind, id, adminID primitive.ObjectID, status, notes string, at time.Time) (bson.M, error)
}

// PaymentStore loads payment requests for resolution
type PaymentStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PaymentRequest, error)
}

// ApprovalService runs the entity approval workflow: resolving which
// pending entity a payment request pays for, and transitioning entities
// out of the pending state.
type ApprovalService struct {
	entities EntityStore
	payments PaymentStore
}

func NewApprovalService(entities EntityStore, payments PaymentStore) *ApprovalService {
	return &ApprovalService{entities: entities, payments: payments}
}

// ApprovalResult describes a completed payment-triggered approval
type ApprovalResult struct {
	EntityID       primitive.ObjectID `json:"entityId"`
	EntityType     models.EntityKind  `json:"entityType"`
	EntityName     string             `json:"entityName,omitempty"`
	OwnerID        primitive.ObjectID `json:"ownerId"`
	ApprovalStatus string             `json:"approvalStatus"`
	ApprovedAt     time.Time          `json:"approvedAt"`
}

// ResolvePendingEntity locates the single pending entity a payment
// request was submitted for. Priority order:
//
//  1. The payment request's own entityId, accepted only when that
//     document is still pending and owned by the paying user.
//  2. The owner's first pending entity of the requested kind.
//
// Resolution is read-only; the caller performs the transition.
func (s *ApprovalService) ResolvePendingEntity(ctx context.Context, userID primitive.ObjectID, kind models.EntityKind, paymentRequestID primitive.ObjectID) (*models.EntitySummary, error) {
	request, err := s.payments.FindByID(ctx, paymentRequestID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrPaymentRequestNotFound
	}
	if err != nil {
		return nil, err
	}

	if request.EntityID != nil {
		entity, err := s.entities.FindByID(ctx, kind, *request.EntityID)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			log.Printf("payment request %s references missing %s %s, falling back to owner lookup",
				paymentRequestID.Hex(), kind, request.EntityID.Hex())
		case err != nil:
			return nil, err
		case entity.ApprovalStatus == models.ApprovalPending && entity.OwnerID == userID:
			return entity, nil
		default:
			log.Printf("payment request %s references %s %s (status=%s, owner=%s) which is not a pending entity of user %s, falling back",
				paymentRequestID.Hex(), kind, entity.ID.Hex(), entity.ApprovalStatus, entity.OwnerID.Hex(), userID.Hex())
		}
	}

	// First pending entity of this owner and kind wins. If the owner has
	// several pending submissions of the same kind the choice is
	// arbitrary; that ambiguity is a product-level contract, not fixed
	// here silently.
	entity, err := s.entities.FirstPending(ctx, kind, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNoPendingEntity
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// ApproveForPayment resolves the pending entity for a payment request
// and flips it to approved with payment linkage. This is the only write
// path that sets paymentVerified. The payment request's own status is
// updated by a separate admin call; the two writes are not atomic with
// each other.
func (s *ApprovalService) ApproveForPayment(ctx context.Context, userID primitive.ObjectID, kind models.EntityKind, paymentRequestID, adminID primitive.ObjectID) (*ApprovalResult, error) {
	entity, err := s.ResolvePendingEntity(ctx, userID, kind, paymentRequestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.entities.ApprovePaid(ctx, kind, entity.ID, adminID, paymentRequestID, now)
	if errors.Is(err, repositories.ErrNotFound) {
		// Decided between resolution and transition
		return nil, ErrNoPendingEntity
	}
	if err != nil {
		return nil, err
	}

	return &ApprovalResult{
		EntityID:       entity.ID,
		EntityType:     kind,
		EntityName:     entity.Name,
		OwnerID:        entity.OwnerID,
		ApprovalStatus: models.ApprovalApproved,
		ApprovedAt:     now,
	}, nil
}

// DecideManually applies a direct admin approval or rejection with
// notes, independent of any payment record, and returns the updated
// entity document.
func (s *ApprovalService) DecideManually(ctx context.Context, kind models.EntityKind, entityID, adminID primitive.ObjectID, status, notes string) (bson.M, error) {
	if !models.ValidDecisionStatus(status) {
		return nil, ErrInvalidDecision
	}

	updated, err := s.entities.Decide(ctx, kind, entityID, adminID, status, notes, time.Now())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNoPendingEntity
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}
