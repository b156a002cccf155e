package features

import (
	"math"
	"sort"
	"time"

	"creditrisk/internal/data"
)

// CustomerProfile is one row of the customer feature table, aggregated from
// that customer's raw transactions. Cluster and IsHighRisk are filled in by
// the risk labeler.
type CustomerProfile struct {
	CustomerID             string
	TotalSpend             float64
	AvgTransactionValue    float64
	TransactionVariability float64
	TransactionFrequency   int
	Recency                int
	FraudResult            int
	ProductCategory        string
	ChannelID              string
	PricingStrategy        string
	Cluster                int
	IsHighRisk             int
}

const modeFallback = "Unknown"

// Aggregate groups transactions by customer and computes the per-customer
// summary statistics: sum/mean/sample-std/count of Value, max of the fraud
// flag, the most frequent value of each categorical field, and recency in
// whole days against the latest timestamp in the whole input set. The sample
// std of a single transaction is 0, never NaN.
func Aggregate(txs []data.Transaction) ([]CustomerProfile, error) {
	groups := map[string][]data.Transaction{}
	var lastDate time.Time
	for _, tx := range txs {
		if tx.CustomerID == "" {
			return nil, &data.SchemaError{Column: "CustomerId", Reason: "empty"}
		}
		if tx.StartTime.IsZero() {
			return nil, &data.SchemaError{Column: "TransactionStartTime", Reason: "zero timestamp"}
		}
		groups[tx.CustomerID] = append(groups[tx.CustomerID], tx)
		if tx.StartTime.After(lastDate) {
			lastDate = tx.StartTime
		}
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	profiles := make([]CustomerProfile, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		n := float64(len(g))

		var sum float64
		fraud := 0
		custLast := g[0].StartTime
		for _, tx := range g {
			sum += tx.Value
			if tx.FraudResult > fraud {
				fraud = tx.FraudResult
			}
			if tx.StartTime.After(custLast) {
				custLast = tx.StartTime
			}
		}
		mean := sum / n

		std := 0.0
		if len(g) > 1 {
			var ss float64
			for _, tx := range g {
				d := tx.Value - mean
				ss += d * d
			}
			std = math.Sqrt(ss / (n - 1))
		}

		profiles = append(profiles, CustomerProfile{
			CustomerID:             id,
			TotalSpend:             sum,
			AvgTransactionValue:    mean,
			TransactionVariability: std,
			TransactionFrequency:   len(g),
			Recency:                int(lastDate.Sub(custLast).Hours() / 24),
			FraudResult:            fraud,
			ProductCategory:        mode(g, func(tx data.Transaction) string { return tx.ProductCategory }),
			ChannelID:              mode(g, func(tx data.Transaction) string { return tx.ChannelID }),
			PricingStrategy:        mode(g, func(tx data.Transaction) string { return tx.PricingStrategy }),
		})
	}
	return profiles, nil
}

// mode returns the most frequent value in the group, ties broken by whichever
// value was seen first.
func mode(g []data.Transaction, field func(data.Transaction) string) string {
	if len(g) == 0 {
		return modeFallback
	}
	counts := map[string]int{}
	firstSeen := map[string]int{}
	for i, tx := range g {
		v := field(tx)
		if _, ok := counts[v]; !ok {
			firstSeen[v] = i
		}
		counts[v]++
	}
	best := modeFallback
	bestCount := -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && firstSeen[v] < firstSeen[best]) {
			best = v
			bestCount = c
		}
	}
	return best
}
