package features

import (
	"math"

	"creditrisk/internal/data"
)

// IVRecord is one distinct value of a categorical column scored against the
// binary high-risk label. Good means label 0, Bad means label 1.
type IVRecord struct {
	Value    string
	All      int
	Good     int
	Bad      int
	Share    float64
	BadRate  float64
	DistGood float64
	DistBad  float64
	WoE      float64
	IV       float64
}

// InformationValue computes the weight-of-evidence table for one categorical
// column of the labeled feature table and the feature's aggregate information
// value. Values appear in first-encountered order. A value with zero good or
// zero bad occurrences contributes a clamped WoE of 0 instead of ±Inf. Pure
// diagnostic: the input is never mutated and nothing here feeds the encoder.
func InformationValue(profiles []CustomerProfile, column string) ([]IVRecord, float64, error) {
	field, ok := categoryField(column)
	if !ok {
		return nil, 0, &data.SchemaError{Column: column, Reason: "not a categorical column"}
	}

	var order []string
	all := map[string]int{}
	bad := map[string]int{}
	totalBad := 0
	for _, p := range profiles {
		v := field(p)
		if _, seen := all[v]; !seen {
			order = append(order, v)
		}
		all[v]++
		if p.IsHighRisk == 1 {
			bad[v]++
			totalBad++
		}
	}
	totalAll := len(profiles)
	totalGood := totalAll - totalBad

	records := make([]IVRecord, 0, len(order))
	iv := 0.0
	for _, v := range order {
		rec := IVRecord{
			Value: v,
			All:   all[v],
			Bad:   bad[v],
			Good:  all[v] - bad[v],
		}
		rec.Share = float64(rec.All) / float64(totalAll)
		rec.BadRate = float64(rec.Bad) / float64(rec.All)
		if totalGood > 0 {
			rec.DistGood = float64(rec.Good) / float64(totalGood)
		}
		if totalBad > 0 {
			rec.DistBad = float64(rec.Bad) / float64(totalBad)
		}
		woe := math.Log(rec.DistGood / rec.DistBad)
		if math.IsInf(woe, 0) || math.IsNaN(woe) {
			woe = 0
		}
		rec.WoE = woe
		rec.IV = woe * (rec.DistGood - rec.DistBad)
		iv += rec.IV
		records = append(records, rec)
	}
	return records, iv, nil
}

func categoryField(column string) (func(CustomerProfile) string, bool) {
	switch column {
	case "ProductCategory":
		return func(p CustomerProfile) string { return p.ProductCategory }, true
	case "ChannelId":
		return func(p CustomerProfile) string { return p.ChannelID }, true
	case "PricingStrategy":
		return func(p CustomerProfile) string { return p.PricingStrategy }, true
	}
	return nil, false
}
