package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Approval status values for user-submitted entities
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// EntityKind identifies one of the listing verticals
type EntityKind string

const (
	KindShop        EntityKind = "shop"
	KindInstitute   EntityKind = "institute"
	KindHospital    EntityKind = "hospital"
	KindMarketplace EntityKind = "marketplace"
)

// KindInfo describes how an entity kind maps onto storage
type KindInfo struct {
	Collection  string
	Singular    string
	AgentPrefix string
	// Institutes keep a legacy "verified" boolean that older clients
	// still read alongside approvalStatus
	LegacyVerifiedFlag bool
}

var entityKinds = map[EntityKind]KindInfo{
	KindShop:        {Collection: "shops", Singular: "shop", AgentPrefix: "SHP"},
	KindInstitute:   {Collection: "institutes", Singular: "institute", AgentPrefix: "INS", LegacyVerifiedFlag: true},
	KindHospital:    {Collection: "hospitals", Singular: "hospital", AgentPrefix: "HSP"},
	KindMarketplace: {Collection: "products", Singular: "product", AgentPrefix: "MKT"},
}

// KindFromString validates an entityType value coming off the wire
func KindFromString(s string) (EntityKind, error) {
	kind := EntityKind(s)
	if _, ok := entityKinds[kind]; !ok {
		return "", fmt.Errorf("unsupported entity type: %q", s)
	}
	return kind, nil
}

// Info returns the storage mapping for the kind
func (k EntityKind) Info() KindInfo {
	return entityKinds[k]
}

// Valid reports whether the kind is one of the supported verticals
func (k EntityKind) Valid() bool {
	_, ok := entityKinds[k]
	return ok
}

// EntityKinds lists the supported kinds
func EntityKinds() []EntityKind {
	return []EntityKind{KindShop, KindInstitute, KindHospital, KindMarketplace}
}

// ApprovalFields is embedded in every entity document and tracks the
// admin approval workflow state
type ApprovalFields struct {
	ApprovalStatus   string              `json:"approvalStatus" bson:"approvalStatus"`
	ApprovalNotes    string              `json:"approvalNotes,omitempty" bson:"approvalNotes,omitempty"`
	ApprovedBy       *primitive.ObjectID `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt       *time.Time          `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	PaymentVerified  bool                `json:"paymentVerified" bson:"paymentVerified"`
	PaymentRequestID *primitive.ObjectID `json:"paymentRequestId,omitempty" bson:"paymentRequestId,omitempty"`
	AgentID          string              `json:"agentId,omitempty" bson:"agentId,omitempty"`
}

// NewApprovalFields returns the initial workflow state for a fresh submission
func NewApprovalFields(agentID string) ApprovalFields {
	return ApprovalFields{
		ApprovalStatus: ApprovalPending,
		AgentID:        agentID,
	}
}

// EntitySummary is the kind-independent projection of an entity document
// used by the approval workflow
type EntitySummary struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	OwnerID        primitive.ObjectID `json:"ownerId" bson:"ownerId"`
	Name           string             `json:"name" bson:"name"`
	AgentID        string             `json:"agentId,omitempty" bson:"agentId,omitempty"`
	ApprovalStatus string             `json:"approvalStatus" bson:"approvalStatus"`
}

// ApprovalDecision is the body of the manual admin approval endpoint
type ApprovalDecision struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// ValidDecisionStatus reports whether a manual decision is one of the
// two terminal states
func ValidDecisionStatus(status string) bool {
	return status == ApprovalApproved || status == ApprovalRejected
}
