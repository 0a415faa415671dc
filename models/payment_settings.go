// models/payment_settings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentSettingsID is the fixed _id of the single settings document
const PaymentSettingsID = "default"

// PaymentSettings holds the bank details shown to users before they
// submit a transfer, plus the processing fee applied to every payment
// request. Stored as a single document so it survives restarts.
type PaymentSettings struct {
	ID            string              `json:"id" bson:"_id"`
	BankName      string              `json:"bankName" bson:"bankName"`
	AccountName   string              `json:"accountName" bson:"accountName"`
	AccountNumber string              `json:"accountNumber" bson:"accountNumber"`
	IBAN          string              `json:"iban,omitempty" bson:"iban,omitempty"`
	ProcessingFee float64             `json:"processingFee" bson:"processingFee"`
	Instructions  string              `json:"instructions,omitempty" bson:"instructions,omitempty"`
	UpdatedBy     *primitive.ObjectID `json:"updatedBy,omitempty" bson:"updatedBy,omitempty"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// PaymentSettingsRequest is the admin update payload
type PaymentSettingsRequest struct {
	BankName      string  `json:"bankName" validate:"required"`
	AccountName   string  `json:"accountName" validate:"required"`
	AccountNumber string  `json:"accountNumber" validate:"required"`
	IBAN          string  `json:"iban,omitempty"`
	ProcessingFee float64 `json:"processingFee" validate:"gte=0"`
	Instructions  string  `json:"instructions,omitempty"`
}
