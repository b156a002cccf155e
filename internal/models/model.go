package models

// Model is the downstream classifier contract: it consumes the encoded
// feature vectors the pipeline produces and returns the probability of the
// high-risk class.
type Model interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) []float64
	Name() string
}
