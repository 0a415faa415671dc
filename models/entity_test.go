package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindFromString(t *testing.T) {
	for _, s := range []string{"shop", "institute", "hospital", "marketplace"} {
		kind, err := KindFromString(s)
		require.NoError(t, err)
		assert.Equal(t, EntityKind(s), kind)
		assert.True(t, kind.Valid())
	}
}

func TestKindFromStringRejectsUnknown(t *testing.T) {
	for _, s := range []string{"vehicle", "Shop", "shops", "", "restaurant"} {
		_, err := KindFromString(s)
		assert.Error(t, err, "expected %q to be rejected", s)
	}
}

func TestKindInfo(t *testing.T) {
	assert.Equal(t, "shops", KindShop.Info().Collection)
	assert.Equal(t, "institutes", KindInstitute.Info().Collection)
	assert.Equal(t, "hospitals", KindHospital.Info().Collection)
	// Products live in their own collection despite the "marketplace" wire name
	assert.Equal(t, "products", KindMarketplace.Info().Collection)

	assert.True(t, KindInstitute.Info().LegacyVerifiedFlag)
	assert.False(t, KindShop.Info().LegacyVerifiedFlag)
}

func TestNewApprovalFields(t *testing.T) {
	fields := NewApprovalFields("SHP_1714988112345_X4T9QZ")

	assert.Equal(t, ApprovalPending, fields.ApprovalStatus)
	assert.Equal(t, "SHP_1714988112345_X4T9QZ", fields.AgentID)
	assert.False(t, fields.PaymentVerified)
	assert.Nil(t, fields.ApprovedBy)
	assert.Nil(t, fields.ApprovedAt)
}

func TestValidDecisionStatus(t *testing.T) {
	assert.True(t, ValidDecisionStatus(ApprovalApproved))
	assert.True(t, ValidDecisionStatus(ApprovalRejected))
	assert.False(t, ValidDecisionStatus(ApprovalPending))
	assert.False(t, ValidDecisionStatus(""))
	assert.False(t, ValidDecisionStatus("Approved"))
}
