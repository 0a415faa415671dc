// models/payment_request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment request status values
const (
	PaymentPending   = "pending"
	PaymentVerified  = "verified"
	PaymentRejected  = "rejected"
	PaymentCompleted = "completed"
)

// PaymentRequest is a user's claim of an offline bank transfer paying
// for one of their pending listings
type PaymentRequest struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     primitive.ObjectID  `json:"userId" bson:"userId"`
	EntityType EntityKind          `json:"entityType" bson:"entityType"`
	EntityID   *primitive.ObjectID `json:"entityId,omitempty" bson:"entityId,omitempty"`
	AgentID    string              `json:"agentId,omitempty" bson:"agentId,omitempty"`

	Amount          float64   `json:"amount" bson:"amount"`
	TransactionID   string    `json:"transactionId" bson:"transactionId"`
	BankName        string    `json:"bankName" bson:"bankName"`
	AccountNumber   string    `json:"accountNumber,omitempty" bson:"accountNumber,omitempty"`
	TransactionDate time.Time `json:"transactionDate,omitempty" bson:"transactionDate,omitempty"`
	Notes           string    `json:"notes,omitempty" bson:"notes,omitempty"`
	ScreenshotURL   string    `json:"screenshotUrl" bson:"screenshotUrl"`

	Status            string              `json:"status" bson:"status"`
	VerifiedBy        *primitive.ObjectID `json:"verifiedBy,omitempty" bson:"verifiedBy,omitempty"`
	VerifiedAt        *time.Time          `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
	VerificationNotes string              `json:"verificationNotes,omitempty" bson:"verificationNotes,omitempty"`

	ProcessingFee float64 `json:"processingFee" bson:"processingFee"`
	TotalAmount   float64 `json:"totalAmount" bson:"totalAmount"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Normalize recomputes derived fields; must run before every save
func (p *PaymentRequest) Normalize() {
	if p.Status == "" {
		p.Status = PaymentPending
	}
	p.TotalAmount = p.Amount + p.ProcessingFee
}

// ValidPaymentStatus reports whether s is a recognised payment status
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentVerified, PaymentRejected, PaymentCompleted:
		return true
	}
	return false
}

// PaymentRequestForm is the multipart payload of the payment submission
// endpoint; the screenshot arrives as the "transactionScreenshot" file part
type PaymentRequestForm struct {
	EntityType      string  `form:"entityType" validate:"required"`
	EntityID        string  `form:"entityId"`
	AgentID         string  `form:"agentId"`
	Amount          float64 `form:"amount" validate:"required,gt=0"`
	TransactionID   string  `form:"transactionId" validate:"required"`
	BankName        string  `form:"bankName" validate:"required"`
	AccountNumber   string  `form:"accountNumber"`
	TransactionDate string  `form:"transactionDate"`
	Notes           string  `form:"notes"`
}

// PaymentStatusUpdate is the body of the admin status-change endpoint
type PaymentStatusUpdate struct {
	Status            string `json:"status"`
	VerificationNotes string `json:"verificationNotes,omitempty"`
}
