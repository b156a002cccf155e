package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segmentProfiles() []CustomerProfile {
	// Three well-separated engagement tiers.
	return []CustomerProfile{
		{CustomerID: "C1", Recency: 300, TransactionFrequency: 1, TotalSpend: 50},
		{CustomerID: "C2", Recency: 302, TransactionFrequency: 2, TotalSpend: 60},
		{CustomerID: "C3", Recency: 304, TransactionFrequency: 1, TotalSpend: 55},
		{CustomerID: "C4", Recency: 30, TransactionFrequency: 20, TotalSpend: 2000},
		{CustomerID: "C5", Recency: 32, TransactionFrequency: 21, TotalSpend: 2050},
		{CustomerID: "C6", Recency: 34, TransactionFrequency: 22, TotalSpend: 2100},
		{CustomerID: "C7", Recency: 1, TransactionFrequency: 80, TotalSpend: 10000},
		{CustomerID: "C8", Recency: 2, TransactionFrequency: 81, TotalSpend: 10050},
		{CustomerID: "C9", Recency: 3, TransactionFrequency: 82, TotalSpend: 10100},
	}
}

func TestLabelHighRisk_FlagsLowestFrequencySegment(t *testing.T) {
	res, err := LabelHighRisk(segmentProfiles())
	require.NoError(t, err)
	require.Len(t, res.Profiles, 9)

	flagged := map[string]bool{}
	clusters := map[int]bool{}
	for _, p := range res.Profiles {
		clusters[p.Cluster] = true
		if p.IsHighRisk == 1 {
			flagged[p.CustomerID] = true
			assert.Equal(t, res.HighRisk, p.Cluster)
		}
	}
	assert.Len(t, clusters, 3)
	assert.Equal(t, map[string]bool{"C1": true, "C2": true, "C3": true}, flagged,
		"the dormant low-frequency tier is the high-risk proxy class")
}

func TestLabelHighRisk_HighRiskCentroidHasMinFrequency(t *testing.T) {
	res, err := LabelHighRisk(segmentProfiles())
	require.NoError(t, err)

	for c, centroid := range res.Centroids {
		if c == res.HighRisk {
			continue
		}
		assert.LessOrEqual(t, res.Centroids[res.HighRisk][1], centroid[1])
	}
}

func TestLabelHighRisk_Deterministic(t *testing.T) {
	a, err := LabelHighRisk(segmentProfiles())
	require.NoError(t, err)
	b, err := LabelHighRisk(segmentProfiles())
	require.NoError(t, err)
	assert.Equal(t, a.Profiles, b.Profiles)
	assert.Equal(t, a.HighRisk, b.HighRisk)
}

func TestLabelHighRisk_DoesNotMutateInput(t *testing.T) {
	in := segmentProfiles()
	_, err := LabelHighRisk(in)
	require.NoError(t, err)
	for _, p := range in {
		assert.Zero(t, p.IsHighRisk)
		assert.Zero(t, p.Cluster)
	}
}

func TestLabelHighRisk_TooFewCustomers(t *testing.T) {
	_, err := LabelHighRisk(segmentProfiles()[:2])
	var insufficientErr *InsufficientDataError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 3, insufficientErr.Need)
	assert.Equal(t, 2, insufficientErr.Got)
}

func TestLabelHighRisk_ZeroVarianceFrequency(t *testing.T) {
	profiles := []CustomerProfile{
		{CustomerID: "C1", Recency: 10, TransactionFrequency: 5, TotalSpend: 100},
		{CustomerID: "C2", Recency: 20, TransactionFrequency: 5, TotalSpend: 200},
		{CustomerID: "C3", Recency: 30, TransactionFrequency: 5, TotalSpend: 300},
	}
	_, err := LabelHighRisk(profiles)
	var degenerateErr *DegenerateFeatureError
	require.ErrorAs(t, err, &degenerateErr)
	assert.Equal(t, "Transaction_Frequency", degenerateErr.Column)
}
