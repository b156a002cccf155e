package features

import "fmt"

// InsufficientDataError means too few distinct customers remain to cluster.
type InsufficientDataError struct {
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d distinct customers, got %d", e.Need, e.Got)
}

// DegenerateFeatureError means an RFM column has zero variance, so
// standardization is undefined for it.
type DegenerateFeatureError struct {
	Column string
}

func (e *DegenerateFeatureError) Error() string {
	return fmt.Sprintf("degenerate feature: column %s has zero variance", e.Column)
}
