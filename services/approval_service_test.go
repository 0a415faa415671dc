package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/repositories"
)

type fakeEntityStore struct {
	// order matters: FirstPending returns the earliest pending match
	entities []*models.EntitySummary
}

func (f *fakeEntityStore) find(id primitive.ObjectID) *models.EntitySummary {
	for _, e := range f.entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (f *fakeEntityStore) FindByID(_ context.Context, _ models.EntityKind, id primitive.ObjectID) (*models.EntitySummary, error) {
	if e := f.find(id); e != nil {
		return e, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeEntityStore) FirstPending(_ context.Context, _ models.EntityKind, ownerID primitive.ObjectID) (*models.EntitySummary, error) {
	for _, e := range f.entities {
		if e.OwnerID == ownerID && e.ApprovalStatus == models.ApprovalPending {
			return e, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeEntityStore) ApprovePaid(_ context.Context, _ models.EntityKind, id, _, _ primitive.ObjectID, _ time.Time) error {
	e := f.find(id)
	if e == nil || e.ApprovalStatus != models.ApprovalPending {
		return repositories.ErrNotFound
	}
	e.ApprovalStatus = models.ApprovalApproved
	return nil
}

func (f *fakeEntityStore) Decide(_ context.Context, _ models.EntityKind, id, adminID primitive.ObjectID, status, notes string, _ time.Time) (bson.M, error) {
	e := f.find(id)
	if e == nil || e.ApprovalStatus != models.ApprovalPending {
		return nil, repositories.ErrNotFound
	}
	e.ApprovalStatus = status
	return bson.M{
		"_id":            e.ID,
		"ownerId":        e.OwnerID,
		"name":           e.Name,
		"approvalStatus": status,
		"approvalNotes":  notes,
		"approvedBy":     adminID,
	}, nil
}

type fakePaymentStore struct {
	requests map[primitive.ObjectID]*models.PaymentRequest
}

func (f *fakePaymentStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.PaymentRequest, error) {
	if r, ok := f.requests[id]; ok {
		return r, nil
	}
	return nil, repositories.ErrNotFound
}

func pendingEntity(owner primitive.ObjectID, name string) *models.EntitySummary {
	return &models.EntitySummary{
		ID:             primitive.NewObjectID(),
		OwnerID:        owner,
		Name:           name,
		ApprovalStatus: models.ApprovalPending,
	}
}

func paymentFor(user primitive.ObjectID, kind models.EntityKind, entityID *primitive.ObjectID) (*fakePaymentStore, primitive.ObjectID) {
	id := primitive.NewObjectID()
	return &fakePaymentStore{requests: map[primitive.ObjectID]*models.PaymentRequest{
		id: {
			ID:         id,
			UserID:     user,
			EntityType: kind,
			EntityID:   entityID,
			Status:     models.PaymentPending,
		},
	}}, id
}

func TestResolvePendingEntityPrefersLinkedEntity(t *testing.T) {
	owner := primitive.NewObjectID()
	older := pendingEntity(owner, "Older Shop")
	linked := pendingEntity(owner, "Linked Shop")
	entities := &fakeEntityStore{entities: []*models.EntitySummary{older, linked}}
	payments, paymentID := paymentFor(owner, models.KindShop, &linked.ID)

	svc := NewApprovalService(entities, payments)
	resolved, err := svc.ResolvePendingEntity(context.Background(), owner, models.KindShop, paymentID)

	require.NoError(t, err)
	assert.Equal(t, linked.ID, resolved.ID)
}

func TestResolvePendingEntityFallsBackWhenLinkedEntityNotPending(t *testing.T) {
	owner := primitive.NewObjectID()
	decided := pendingEntity(owner, "Already Decided")
	decided.ApprovalStatus = models.ApprovalRejected
	pending := pendingEntity(owner, "Still Pending")
	entities := &fakeEntityStore{entities: []*models.EntitySummary{decided, pending}}
	payments, paymentID := paymentFor(owner, models.KindShop, &decided.ID)

	svc := NewApprovalService(entities, payments)
	resolved, err := svc.ResolvePendingEntity(context.Background(), owner, models.KindShop, paymentID)

	require.NoError(t, err)
	assert.Equal(t, pending.ID, resolved.ID)
}

func TestResolvePendingEntityFallsBackWhenLinkedEntityOwnedByOther(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	theirs := pendingEntity(stranger, "Someone Elses Shop")
	mine := pendingEntity(owner, "My Shop")
	entities := &fakeEntityStore{entities: []*models.EntitySummary{theirs, mine}}
	payments, paymentID := paymentFor(owner, models.KindShop, &theirs.ID)

	svc := NewApprovalService(entities, payments)
	resolved, err := svc.ResolvePendingEntity(context.Background(), owner, models.KindShop, paymentID)

	require.NoError(t, err)
	assert.Equal(t, mine.ID, resolved.ID)
}

func TestResolvePendingEntityFallsBackWhenLinkedEntityMissing(t *testing.T) {
	owner := primitive.NewObjectID()
	pending := pendingEntity(owner, "Survivor")
	entities := &fakeEntityStore{entities: []*models.EntitySummary{pending}}
	missing := primitive.NewObjectID()
	payments, paymentID := paymentFor(owner, models.KindShop, &missing)

	svc := NewApprovalService(entities, payments)
	resolved, err := svc.ResolvePendingEntity(context.Background(), owner, models.KindShop, paymentID)

	require.NoError(t, err)
	assert.Equal(t, pending.ID, resolved.ID)
}

func TestResolvePendingEntityAmbiguousFallbackPicksOneOfOwners(t *testing.T) {
	owner := primitive.NewObjectID()
	first := pendingEntity(owner, "First")
	second := pendingEntity(owner, "Second")
	entities := &fakeEntityStore{entities: []*models.EntitySummary{first, second}}
	payments, paymentID := paymentFor(owner, models.KindShop, nil)

	svc := NewApprovalService(entities, payments)
	resolved, err := svc.ResolvePendingEntity(context.Background(), owner, models.KindShop, paymentID)

	require.NoError(t, err)
	assert.Contains(t, []primitive.ObjectID{first.ID, second.ID}, resolved.ID)
}

func TestResolvePendingEntityPaymentRequestNotFound(t *testing.T) {
	owner := primitive.NewObjectID()
	entities := &fakeEntityStore{entities: []*models.EntitySummary{pendingEntity(owner, "Shop")}}
	payments := &fakePaymentStore{requests: map[primitive.ObjectID]*models.PaymentRequest{}}

	svc := NewApprovalService(entities, payments)
	_, err := svc.ResolvePendingEntity(context.Background(), owner, models.KindShop, primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrPaymentRequestNotFound)
}

func TestResolvePendingEntityNothingPending(t *testing.T) {
	owner := primitive.NewObjectID()
	approved := pendingEntity(owner, "Done")
	approved.ApprovalStatus = models.ApprovalApproved
	entities := &fakeEntityStore{entities: []*models.EntitySummary{approved}}
	payments, paymentID := paymentFor(owner, models.KindShop, nil)

	svc := NewApprovalService(entities, payments)
	_, err := svc.ResolvePendingEntity(context.Background(), owner, models.KindShop, paymentID)

	assert.ErrorIs(t, err, ErrNoPendingEntity)
}

func TestApproveForPayment(t *testing.T) {
	owner := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	entity := pendingEntity(owner, "Corner Shop")
	entities := &fakeEntityStore{entities: []*models.EntitySummary{entity}}
	payments, paymentID := paymentFor(owner, models.KindShop, &entity.ID)

	svc := NewApprovalService(entities, payments)
	result, err := svc.ApproveForPayment(context.Background(), owner, models.KindShop, paymentID, admin)

	require.NoError(t, err)
	assert.Equal(t, entity.ID, result.EntityID)
	assert.Equal(t, models.KindShop, result.EntityType)
	assert.Equal(t, "Corner Shop", result.EntityName)
	assert.Equal(t, owner, result.OwnerID)
	assert.Equal(t, models.ApprovalApproved, result.ApprovalStatus)
	assert.False(t, result.ApprovedAt.IsZero())
	assert.Equal(t, models.ApprovalApproved, entity.ApprovalStatus)
}

func TestApproveForPaymentIsNotRepeatable(t *testing.T) {
	owner := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	entity := pendingEntity(owner, "Corner Shop")
	entities := &fakeEntityStore{entities: []*models.EntitySummary{entity}}
	payments, paymentID := paymentFor(owner, models.KindShop, &entity.ID)

	svc := NewApprovalService(entities, payments)
	_, err := svc.ApproveForPayment(context.Background(), owner, models.KindShop, paymentID, admin)
	require.NoError(t, err)

	// The entity is no longer pending, so a replayed call finds nothing
	_, err = svc.ApproveForPayment(context.Background(), owner, models.KindShop, paymentID, admin)
	assert.ErrorIs(t, err, ErrNoPendingEntity)
}

func TestDecideManuallyRejectsInvalidStatus(t *testing.T) {
	svc := NewApprovalService(&fakeEntityStore{}, &fakePaymentStore{})

	_, err := svc.DecideManually(context.Background(), models.KindShop,
		primitive.NewObjectID(), primitive.NewObjectID(), "archived", "")

	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestDecideManually(t *testing.T) {
	owner := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	entity := pendingEntity(owner, "Bright Future Institute")
	entities := &fakeEntityStore{entities: []*models.EntitySummary{entity}}

	svc := NewApprovalService(entities, &fakePaymentStore{})
	updated, err := svc.DecideManually(context.Background(), models.KindInstitute,
		entity.ID, admin, models.ApprovalRejected, "incomplete documents")

	require.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, updated["approvalStatus"])
	assert.Equal(t, "incomplete documents", updated["approvalNotes"])
	assert.Equal(t, models.ApprovalRejected, entity.ApprovalStatus)

	// A second decision on the same entity finds no pending document
	_, err = svc.DecideManually(context.Background(), models.KindInstitute,
		entity.ID, admin, models.ApprovalApproved, "")
	assert.ErrorIs(t, err, ErrNoPendingEntity)
}
