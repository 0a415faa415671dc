package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdrafiul/localmart_backend/models"
)

var agentIDPattern = regexp.MustCompile(`^[A-Z0-9]{3}_\d{13}_[A-Z0-9]{6}$`)

func TestGenerateAgentIDFormat(t *testing.T) {
	id, err := GenerateAgentID("Green Leaf Groceries", models.KindShop)

	require.NoError(t, err)
	assert.Regexp(t, agentIDPattern, id)
	assert.True(t, strings.HasPrefix(id, "GRE_"))
}

func TestGenerateAgentIDPrefixSkipsNonAlphanumerics(t *testing.T) {
	id, err := GenerateAgentID("A-1 Motors", models.KindShop)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "A1M_"))
}

func TestGenerateAgentIDFallbackPrefix(t *testing.T) {
	cases := map[models.EntityKind]string{
		models.KindShop:        "SHP_",
		models.KindInstitute:   "INS_",
		models.KindHospital:    "HSP_",
		models.KindMarketplace: "MKT_",
	}
	for kind, prefix := range cases {
		id, err := GenerateAgentID("##", kind)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, prefix), "kind %s produced %s", kind, id)
	}
}

func TestGenerateAgentIDRandomSuffixVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := GenerateAgentID("Sample Shop", models.KindShop)
		require.NoError(t, err)
		parts := strings.Split(id, "_")
		require.Len(t, parts, 3)
		seen[parts[2]] = true
	}
	assert.Greater(t, len(seen), 1, "random suffix never changed across 20 generations")
}
