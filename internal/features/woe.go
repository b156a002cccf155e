package features

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// CategoryColumns are the categorical features the encoder scores.
var CategoryColumns = []string{"ProductCategory", "ChannelId", "PricingStrategy"}

// WOEEncoder holds the fitting configuration. Fitting does not mutate it;
// Fit returns a WOEModel, so an unfitted model cannot exist and transform
// needs no fitted-state check.
type WOEEncoder struct {
	Columns        []string
	Regularization float64
}

func NewWOEEncoder() *WOEEncoder {
	return &WOEEncoder{Columns: CategoryColumns, Regularization: 1.0}
}

// WOEModel is the fitted, immutable encoder state: per column a map from
// observed category value to its regularized weight-of-evidence score, plus
// the fallback score used for values never seen during fitting. Safe for
// concurrent Transform calls; refitting means building a new WOEModel and
// swapping the whole value.
type WOEModel struct {
	Columns        []string
	Regularization float64
	Scores         map[string]map[string]float64
	Fallback       float64
}

// Fit computes one score per column per observed value:
//
//	ln(((bad+r)/(totalBad+2r)) / ((good+r)/(totalGood+2r)))
//
// The regularization r blends sparse values toward the global prior and keeps
// every ratio finite. Labels must be 0 or 1, one per profile.
func (e *WOEEncoder) Fit(profiles []CustomerProfile, labels []int) (*WOEModel, error) {
	if len(labels) != len(profiles) {
		return nil, fmt.Errorf("woe: %d profiles but %d labels", len(profiles), len(labels))
	}
	totalBad := 0
	for i, y := range labels {
		if y != 0 && y != 1 {
			return nil, fmt.Errorf("woe: label for row %d is %d, want 0 or 1", i, y)
		}
		totalBad += y
	}
	totalGood := len(labels) - totalBad
	r := e.Regularization

	scores := make(map[string]map[string]float64, len(e.Columns))
	for _, col := range e.Columns {
		field, ok := categoryField(col)
		if !ok {
			return nil, fmt.Errorf("woe: unknown category column %q", col)
		}
		badCounts := map[string]int{}
		allCounts := map[string]int{}
		for i, p := range profiles {
			v := field(p)
			allCounts[v]++
			badCounts[v] += labels[i]
		}
		colScores := make(map[string]float64, len(allCounts))
		for v, n := range allCounts {
			bad := float64(badCounts[v])
			good := float64(n - badCounts[v])
			num := (bad + r) / (float64(totalBad) + 2*r)
			den := (good + r) / (float64(totalGood) + 2*r)
			colScores[v] = math.Log(num / den)
		}
		scores[col] = colScores
	}

	// An unseen value carries no evidence either way, so it scores the
	// neutral 0 rather than failing: production traffic will contain
	// categories that never occurred in training.
	return &WOEModel{
		Columns:        e.Columns,
		Regularization: r,
		Scores:         scores,
		Fallback:       0,
	}, nil
}

// Score looks up the fitted score of one value, falling back for unseen ones.
func (m *WOEModel) Score(column, value string) float64 {
	if s, ok := m.Scores[column][value]; ok {
		return s
	}
	return m.Fallback
}

// FeatureNames is the fixed column order of the encoded feature vector. It is
// part of the serving contract: a positional mismatch between training and
// inference silently corrupts predictions.
func (m *WOEModel) FeatureNames() []string {
	names := []string{
		"Total_Spend", "Avg_Transaction_Value", "Transaction_Variability",
		"Transaction_Frequency", "Recency",
	}
	for _, col := range m.Columns {
		names = append(names, col+"_WOE")
	}
	return names
}

// Transform encodes each profile into a numeric vector in FeatureNames order,
// the categorical columns replaced by their fitted scores. Never fails:
// unseen categories take the fallback score.
func (m *WOEModel) Transform(profiles []CustomerProfile) [][]float64 {
	out := make([][]float64, len(profiles))
	for i, p := range profiles {
		out[i] = m.Vector(p)
	}
	return out
}

func (m *WOEModel) Vector(p CustomerProfile) []float64 {
	vec := []float64{
		p.TotalSpend, p.AvgTransactionValue, p.TransactionVariability,
		float64(p.TransactionFrequency), float64(p.Recency),
	}
	for _, col := range m.Columns {
		field, _ := categoryField(col)
		vec = append(vec, m.Score(col, field(p)))
	}
	return vec
}

// SaveWOEModel persists the fitted state with gob so training and serving
// score identically.
func SaveWOEModel(m *WOEModel, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(m)
}

func LoadWOEModel(path string) (*WOEModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var m WOEModel
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
