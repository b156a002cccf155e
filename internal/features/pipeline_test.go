package features

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/data"
)

// Builds raw transactions for three engagement tiers and runs the whole
// pipeline: aggregate -> label -> fit -> transform.
func TestPipeline_EndToEnd(t *testing.T) {
	anchor := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	var txs []data.Transaction

	addCustomer := func(id string, count int, value float64, daysAgo int, category string) {
		for i := 0; i < count; i++ {
			txs = append(txs, data.Transaction{
				TransactionID:   fmt.Sprintf("%s-%d", id, i),
				CustomerID:      id,
				Value:           value,
				Amount:          value,
				StartTime:       anchor.AddDate(0, 0, -daysAgo-i),
				ProductCategory: category,
				ChannelID:       "Android",
				PricingStrategy: "1",
			})
		}
	}
	// Dormant tier: rare, old, small.
	addCustomer("D1", 1, 30, 300, "Airtime")
	addCustomer("D2", 2, 35, 295, "Airtime")
	addCustomer("D3", 1, 32, 305, "Airtime")
	// Mid tier.
	addCustomer("M1", 20, 100, 30, "Data")
	addCustomer("M2", 21, 105, 32, "Data")
	addCustomer("M3", 22, 110, 28, "Data")
	// Active tier: frequent, recent, large.
	addCustomer("A1", 80, 500, 0, "Financial Services")
	addCustomer("A2", 81, 510, 1, "Financial Services")
	addCustomer("A3", 82, 520, 2, "Financial Services")

	profiles, err := Aggregate(txs)
	require.NoError(t, err)
	require.Len(t, profiles, 9)

	res, err := LabelHighRisk(profiles)
	require.NoError(t, err)

	flaggedClusters := map[int]bool{}
	flagged := 0
	for _, p := range res.Profiles {
		if p.IsHighRisk == 1 {
			flagged++
			flaggedClusters[p.Cluster] = true
			assert.Contains(t, []string{"D1", "D2", "D3"}, p.CustomerID)
		}
	}
	assert.Equal(t, 3, flagged)
	assert.Len(t, flaggedClusters, 1, "exactly one cluster is designated high-risk")

	labels := make([]int, len(res.Profiles))
	for i, p := range res.Profiles {
		labels[i] = p.IsHighRisk
	}
	m, err := NewWOEEncoder().Fit(res.Profiles, labels)
	require.NoError(t, err)

	X := m.Transform(res.Profiles)
	require.Len(t, X, len(res.Profiles))
	names := m.FeatureNames()
	for _, vec := range X {
		assert.Len(t, vec, len(names))
	}

	// Dormant customers share a category, so its score leans toward the bad
	// class and above the active tier's category score.
	assert.Greater(t,
		m.Score("ProductCategory", "Airtime"),
		m.Score("ProductCategory", "Financial Services"))
}
