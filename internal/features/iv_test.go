package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/data"
)

func catProfiles(values []string, labels []int) []CustomerProfile {
	out := make([]CustomerProfile, len(values))
	for i := range values {
		out[i] = CustomerProfile{
			CustomerID:      "C" + string(rune('A'+i)),
			ProductCategory: values[i],
			ChannelID:       "Android",
			PricingStrategy: "1",
			IsHighRisk:      labels[i],
		}
	}
	return out
}

func TestInformationValue_KnownSplit(t *testing.T) {
	// A: 3 good, 1 bad. B: 1 good, 3 bad. WoE(A)=ln(3), WoE(B)=-ln(3),
	// IV = 2 * 0.5*ln(3).
	profiles := catProfiles(
		[]string{"A", "A", "A", "A", "B", "B", "B", "B"},
		[]int{0, 0, 0, 1, 1, 1, 1, 0},
	)
	records, iv, err := InformationValue(profiles, "ProductCategory")
	require.NoError(t, err)
	require.Len(t, records, 2)

	a := records[0]
	assert.Equal(t, "A", a.Value)
	assert.Equal(t, 4, a.All)
	assert.Equal(t, 3, a.Good)
	assert.Equal(t, 1, a.Bad)
	assert.InDelta(t, 0.5, a.Share, 1e-9)
	assert.InDelta(t, 0.25, a.BadRate, 1e-9)
	assert.InDelta(t, 0.75, a.DistGood, 1e-9)
	assert.InDelta(t, 0.25, a.DistBad, 1e-9)
	assert.InDelta(t, math.Log(3), a.WoE, 1e-9)

	b := records[1]
	assert.InDelta(t, -math.Log(3), b.WoE, 1e-9)

	assert.InDelta(t, math.Log(3), iv, 1e-9)
}

func TestInformationValue_ClampsInfiniteWoE(t *testing.T) {
	// A has zero bad, B has zero good: both raw WoE values are infinite and
	// must be clamped to a contribution of exactly 0.
	profiles := catProfiles(
		[]string{"A", "A", "B"},
		[]int{0, 0, 1},
	)
	records, iv, err := InformationValue(profiles, "ProductCategory")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.False(t, math.IsInf(rec.WoE, 0))
		assert.Equal(t, 0.0, rec.WoE)
		assert.Equal(t, 0.0, rec.IV)
	}
	assert.Equal(t, 0.0, iv)
}

func TestInformationValue_AllGoodPopulation(t *testing.T) {
	profiles := catProfiles([]string{"A", "B", "A"}, []int{0, 0, 0})
	records, iv, err := InformationValue(profiles, "ProductCategory")
	require.NoError(t, err)
	for _, rec := range records {
		assert.False(t, math.IsNaN(rec.WoE))
		assert.Equal(t, 0.0, rec.WoE)
	}
	assert.Equal(t, 0.0, iv)
}

func TestInformationValue_UnknownColumn(t *testing.T) {
	profiles := catProfiles([]string{"A"}, []int{0})
	_, _, err := InformationValue(profiles, "Nope")
	var schemaErr *data.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestInformationValue_DoesNotMutateInput(t *testing.T) {
	profiles := catProfiles([]string{"A", "B"}, []int{0, 1})
	before := make([]CustomerProfile, len(profiles))
	copy(before, profiles)
	_, _, err := InformationValue(profiles, "ProductCategory")
	require.NoError(t, err)
	assert.Equal(t, before, profiles)
}
