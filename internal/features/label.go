package features

import "math"

// RFMColumns are the three behavioral dimensions the risk labeler clusters on.
var RFMColumns = []string{"Recency", "Transaction_Frequency", "Total_Spend"}

const (
	riskClusters  = 3
	kmeansMaxIter = 100
	kmeansSeed    = 42
)

type RiskLabelResult struct {
	Profiles []CustomerProfile
	// Centroids in original (unscaled) units, one row per cluster, columns
	// in RFMColumns order.
	Centroids [][]float64
	HighRisk  int
}

// LabelHighRisk standardizes the RFM columns, clusters customers into three
// behavioral segments and flags the segment whose centroid has the lowest
// mean transaction frequency as the high-risk proxy class. Absent real
// default labels, low engagement stands in for default risk.
//
// When two centroids have near-equal mean frequency the strict minimum wins
// (first of equals); whether that tie-break is robust for near-ties is an
// open question.
func LabelHighRisk(profiles []CustomerProfile) (*RiskLabelResult, error) {
	if len(profiles) < riskClusters {
		return nil, &InsufficientDataError{Need: riskClusters, Got: len(profiles)}
	}

	points := make([][]float64, len(profiles))
	for i, p := range profiles {
		points[i] = []float64{float64(p.Recency), float64(p.TransactionFrequency), p.TotalSpend}
	}

	means, stds, err := standardize(points)
	if err != nil {
		return nil, err
	}

	assign, centroids := kMeans(points, riskClusters, kmeansMaxIter, kmeansSeed)

	// Back to original units so the frequency ranking reads in transactions,
	// not z-scores.
	for c := range centroids {
		for d := range centroids[c] {
			centroids[c][d] = centroids[c][d]*stds[d] + means[d]
		}
	}

	highRisk := 0
	for c := 1; c < riskClusters; c++ {
		if centroids[c][1] < centroids[highRisk][1] {
			highRisk = c
		}
	}

	out := make([]CustomerProfile, len(profiles))
	copy(out, profiles)
	for i := range out {
		out[i].Cluster = assign[i]
		out[i].IsHighRisk = 0
		if assign[i] == highRisk {
			out[i].IsHighRisk = 1
		}
	}
	return &RiskLabelResult{Profiles: out, Centroids: centroids, HighRisk: highRisk}, nil
}

// standardize scales each column to zero mean and unit variance in place and
// returns the per-column means and stds for inverting later.
func standardize(points [][]float64) (means, stds []float64, err error) {
	n := float64(len(points))
	dims := len(points[0])
	means = make([]float64, dims)
	stds = make([]float64, dims)

	for d := 0; d < dims; d++ {
		sum := 0.0
		for _, p := range points {
			sum += p[d]
		}
		means[d] = sum / n

		ss := 0.0
		for _, p := range points {
			diff := p[d] - means[d]
			ss += diff * diff
		}
		stds[d] = math.Sqrt(ss / n)
		if stds[d] == 0 {
			return nil, nil, &DegenerateFeatureError{Column: RFMColumns[d]}
		}
	}

	for _, p := range points {
		for d := 0; d < dims; d++ {
			p[d] = (p[d] - means[d]) / stds[d]
		}
	}
	return means, stds, nil
}
