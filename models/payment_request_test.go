package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentRequestNormalize(t *testing.T) {
	req := PaymentRequest{Amount: 500, ProcessingFee: 25}
	req.Normalize()

	assert.Equal(t, PaymentPending, req.Status)
	assert.Equal(t, 525.0, req.TotalAmount)
}

func TestPaymentRequestNormalizeKeepsStatus(t *testing.T) {
	req := PaymentRequest{Amount: 500, Status: PaymentVerified}
	req.Normalize()

	assert.Equal(t, PaymentVerified, req.Status)
	assert.Equal(t, 500.0, req.TotalAmount)
}

func TestPaymentRequestNormalizeRecomputesTotal(t *testing.T) {
	req := PaymentRequest{Amount: 500, ProcessingFee: 25}
	req.Normalize()

	// A fee change alone must move the total
	req.ProcessingFee = 40
	req.Normalize()
	assert.Equal(t, 540.0, req.TotalAmount)
}

func TestValidPaymentStatus(t *testing.T) {
	for _, s := range []string{PaymentPending, PaymentVerified, PaymentRejected, PaymentCompleted} {
		assert.True(t, ValidPaymentStatus(s), s)
	}
	for _, s := range []string{"", "cancelled", "Verified"} {
		assert.False(t, ValidPaymentStatus(s), s)
	}
}
