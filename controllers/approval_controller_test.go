package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mdrafiul/localmart_backend/middleware"
	"github.com/mdrafiul/localmart_backend/models"
	"github.com/mdrafiul/localmart_backend/repositories"
	"github.com/mdrafiul/localmart_backend/services"
)

type stubEntityStore struct {
	entities []*models.EntitySummary
}

func (s *stubEntityStore) find(id primitive.ObjectID) *models.EntitySummary {
	for _, e := range s.entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (s *stubEntityStore) FindByID(_ context.Context, _ models.EntityKind, id primitive.ObjectID) (*models.EntitySummary, error) {
	if e := s.find(id); e != nil {
		return e, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubEntityStore) FirstPending(_ context.Context, _ models.EntityKind, ownerID primitive.ObjectID) (*models.EntitySummary, error) {
	for _, e := range s.entities {
		if e.OwnerID == ownerID && e.ApprovalStatus == models.ApprovalPending {
			return e, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *stubEntityStore) ApprovePaid(_ context.Context, _ models.EntityKind, id, _, _ primitive.ObjectID, _ time.Time) error {
	e := s.find(id)
	if e == nil || e.ApprovalStatus != models.ApprovalPending {
		return repositories.ErrNotFound
	}
	e.ApprovalStatus = models.ApprovalApproved
	return nil
}

func (s *stubEntityStore) Decide(_ context.Context, _ models.EntityKind, id, _ primitive.ObjectID, status, notes string, _ time.Time) (bson.M, error) {
	e := s.find(id)
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
	}, nil
}

type stubPaymentStore struct {
	requests map[primitive.ObjectID]*models.PaymentRequest
}

func (s *stubPaymentStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.PaymentRequest, error) {
	if r, ok := s.requests[id]; ok {
		return r, nil
	}
	return nil, repositories.ErrNotFound
}

type recordingNotifier struct {
	ownerID primitive.ObjectID
	status  string
	called  bool
}

func (n *recordingNotifier) EntityDecision(ownerID primitive.ObjectID, _ models.EntityKind, _, status, _ string) {
	n.called = true
	n.ownerID = ownerID
	n.status = status
}

func adminContext(t *testing.T, method, path, body string, adminID primitive.ObjectID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userType", "admin")
	c.Set("user", &jwt.Token{Claims: &middleware.JwtCustomClaims{
		UserID:   adminID.Hex(),
		UserType: "admin",
	}})
	return c, rec
}

func newApprovalFixture(owner primitive.ObjectID) (*stubEntityStore, *stubPaymentStore, *models.EntitySummary, primitive.ObjectID) {
	entity := &models.EntitySummary{
		ID:             primitive.NewObjectID(),
		OwnerID:        owner,
		Name:           "Corner Shop",
		ApprovalStatus: models.ApprovalPending,
	}
	entities := &stubEntityStore{entities: []*models.EntitySummary{entity}}

	paymentID := primitive.NewObjectID()
	payments := &stubPaymentStore{requests: map[primitive.ObjectID]*models.PaymentRequest{
		paymentID: {
			ID:         paymentID,
			UserID:     owner,
			EntityType: models.KindShop,
			EntityID:   &entity.ID,
		},
	}}
	return entities, payments, entity, paymentID
}

func TestApproveEntityRequiresAdmin(t *testing.T) {
	owner := primitive.NewObjectID()
	entities, payments, _, paymentID := newApprovalFixture(owner)
	controller := NewApprovalController(services.NewApprovalService(entities, payments), nil)

	e := echo.New()
	body, _ := json.Marshal(ApproveEntityRequest{
		UserID:           owner.Hex(),
		EntityType:       "shop",
		PaymentRequestID: paymentID.Hex(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/approve-entity", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userType", "user")

	require.NoError(t, controller.ApproveEntity(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApproveEntityMissingFields(t *testing.T) {
	controller := NewApprovalController(
		services.NewApprovalService(&stubEntityStore{}, &stubPaymentStore{}), nil)

	c, rec := adminContext(t, http.MethodPost, "/api/admin/approve-entity",
		`{"userId":"","entityType":"shop","paymentRequestId":""}`, primitive.NewObjectID())

	require.NoError(t, controller.ApproveEntity(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApproveEntityRejectsUnknownKind(t *testing.T) {
	controller := NewApprovalController(
		services.NewApprovalService(&stubEntityStore{}, &stubPaymentStore{}), nil)

	body, _ := json.Marshal(ApproveEntityRequest{
		UserID:           primitive.NewObjectID().Hex(),
		EntityType:       "vehicle",
		PaymentRequestID: primitive.NewObjectID().Hex(),
	})
	c, rec := adminContext(t, http.MethodPost, "/api/admin/approve-entity", string(body), primitive.NewObjectID())

	require.NoError(t, controller.ApproveEntity(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApproveEntityPaymentRequestNotFound(t *testing.T) {
	owner := primitive.NewObjectID()
	entities, _, _, _ := newApprovalFixture(owner)
	payments := &stubPaymentStore{requests: map[primitive.ObjectID]*models.PaymentRequest{}}
	controller := NewApprovalController(services.NewApprovalService(entities, payments), nil)

	body, _ := json.Marshal(ApproveEntityRequest{
		UserID:           owner.Hex(),
		EntityType:       "shop",
		PaymentRequestID: primitive.NewObjectID().Hex(),
	})
	c, rec := adminContext(t, http.MethodPost, "/api/admin/approve-entity", string(body), primitive.NewObjectID())

	require.NoError(t, controller.ApproveEntity(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApproveEntitySuccess(t *testing.T) {
	owner := primitive.NewObjectID()
	entities, payments, entity, paymentID := newApprovalFixture(owner)
	notifier := &recordingNotifier{}
	controller := NewApprovalController(services.NewApprovalService(entities, payments), notifier)

	body, _ := json.Marshal(ApproveEntityRequest{
		UserID:           owner.Hex(),
		EntityType:       "shop",
		PaymentRequestID: paymentID.Hex(),
	})
	c, rec := adminContext(t, http.MethodPost, "/api/admin/approve-entity", string(body), primitive.NewObjectID())

	require.NoError(t, controller.ApproveEntity(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, entity.ID.Hex(), resp["entityId"])
	assert.Equal(t, models.ApprovalApproved, resp["approvalStatus"])
	assert.NotEmpty(t, resp["approvedAt"])

	assert.True(t, notifier.called)
	assert.Equal(t, owner, notifier.ownerID)
	assert.Equal(t, models.ApprovalApproved, notifier.status)
}

func TestApproveEntityReplayReturnsNotFound(t *testing.T) {
	owner := primitive.NewObjectID()
	entities, payments, _, paymentID := newApprovalFixture(owner)
	controller := NewApprovalController(services.NewApprovalService(entities, payments), nil)

	body, _ := json.Marshal(ApproveEntityRequest{
		UserID:           owner.Hex(),
		EntityType:       "shop",
		PaymentRequestID: paymentID.Hex(),
	})

	c, rec := adminContext(t, http.MethodPost, "/api/admin/approve-entity", string(body), primitive.NewObjectID())
	require.NoError(t, controller.ApproveEntity(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = adminContext(t, http.MethodPost, "/api/admin/approve-entity", string(body), primitive.NewObjectID())
	require.NoError(t, controller.ApproveEntity(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecideEntityRejectsInvalidStatus(t *testing.T) {
	controller := NewApprovalController(
		services.NewApprovalService(&stubEntityStore{}, &stubPaymentStore{}), nil)

	c, rec := adminContext(t, http.MethodPut, "/api/admin/shops/x/approval",
		`{"status":"archived"}`, primitive.NewObjectID())
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())

	require.NoError(t, controller.DecideEntity(models.KindShop)(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecideEntityNotFound(t *testing.T) {
	controller := NewApprovalController(
		services.NewApprovalService(&stubEntityStore{}, &stubPaymentStore{}), nil)

	c, rec := adminContext(t, http.MethodPut, "/api/admin/shops/x/approval",
		`{"status":"approved"}`, primitive.NewObjectID())
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())

	require.NoError(t, controller.DecideEntity(models.KindShop)(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecideEntityRejection(t *testing.T) {
	owner := primitive.NewObjectID()
	entities, payments, entity, _ := newApprovalFixture(owner)
	notifier := &recordingNotifier{}
	controller := NewApprovalController(services.NewApprovalService(entities, payments), notifier)

	c, rec := adminContext(t, http.MethodPut, "/api/admin/shops/x/approval",
		`{"status":"rejected","notes":"blurry photos"}`, primitive.NewObjectID())
	c.SetParamNames("id")
	c.SetParamValues(entity.ID.Hex())

	require.NoError(t, controller.DecideEntity(models.KindShop)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])

	shop, ok := resp["shop"].(map[string]interface{})
	require.True(t, ok, "response must key the entity under its singular name")
	assert.Equal(t, models.ApprovalRejected, shop["approvalStatus"])
	assert.Equal(t, "blurry photos", shop["approvalNotes"])

	assert.True(t, notifier.called)
	assert.Equal(t, models.ApprovalRejected, notifier.status)
}
