package main

import (
	"encoding/gob"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"creditrisk/internal/features"
	"creditrisk/internal/models"
	"creditrisk/pkg/utils"
)

// ruleModel backstops a missing model artifact with a coarse heuristic over
// the encoded vector: long recency and low frequency push the score up.
// Vector order is the encoder's FeatureNames contract.
type ruleModel struct{}

func (r *ruleModel) Fit(X [][]float64, y []int) error { return nil }
func (r *ruleModel) Name() string                     { return "RuleModel" }

func (r *ruleModel) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, v := range X {
		if r.score(v) >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

func (r *ruleModel) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, v := range X {
		out[i] = r.score(v)
	}
	return out
}

func (r *ruleModel) score(v []float64) float64 {
	spend, freq, recency := v[0], v[3], v[4]
	s := 0.1
	if recency > 90 {
		s += 0.35
	}
	if freq <= 2 {
		s += 0.3
	}
	if spend < 500 {
		s += 0.15
	}
	if s > 0.95 {
		s = 0.95
	}
	return s
}

// Loaded once at startup and treated as immutable snapshots; retraining means
// restarting with fresh artifacts, never mutating these in place.
var (
	model   models.Model
	encoder *features.WOEModel
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	encoder = loadEncoder(logger)
	model = loadModel(logger)

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		status := "active"
		if _, ok := model.(*ruleModel); ok {
			status = "active (heuristic fallback, model artifact missing)"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "model": model.Name()})
	})
	r.GET("/dashboard/data", dashboardData)

	api := r.Group("/")
	api.Use(apiKeyMiddleware)
	api.POST("/predict", handlePredict)
	api.POST("/batch", handleBatch)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

func loadEncoder(logger *zap.Logger) *features.WOEModel {
	enc, err := features.LoadWOEModel(filepath.Join("models", "encoder.gob"))
	if err != nil {
		logger.Warn("Encoder artifact missing, using neutral encoder", zap.Error(err))
		return &features.WOEModel{
			Columns:        features.CategoryColumns,
			Regularization: 1.0,
			Scores:         map[string]map[string]float64{},
		}
	}
	return enc
}

func loadModel(logger *zap.Logger) models.Model {
	algo := strings.ToLower(os.Getenv("MODEL_ALGO"))
	if algo == "" {
		algo = "rf"
	}
	switch algo {
	case "dt":
		path := filepath.Join("models", "dt_model.gob")
		if f, err := os.Open(path); err == nil {
			defer f.Close()
			var dt models.DecisionTree
			if err := gob.NewDecoder(f).Decode(&dt); err == nil && dt.Root != nil {
				return &dt
			}
		}
	default:
		path := filepath.Join("models", "rf_model.gob")
		if f, err := os.Open(path); err == nil {
			defer f.Close()
			var rf models.RandomForest
			if err := gob.NewDecoder(f).Decode(&rf); err == nil && len(rf.Trees) > 0 {
				return &rf
			}
		}
	}
	logger.Warn("Model artifact missing, serving heuristic scores", zap.String("algo", algo))
	return &ruleModel{}
}

func apiKeyMiddleware(c *gin.Context) {
	key := os.Getenv("API_KEY")
	if key == "" {
		c.Next()
		return
	}
	if c.GetHeader("X-API-Key") != key {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

type scoreReq struct {
	TotalSpend             float64 `json:"total_spend"`
	AvgTransactionValue    float64 `json:"avg_transaction_value"`
	TransactionFrequency   int     `json:"transaction_frequency"`
	TransactionVariability float64 `json:"transaction_variability"`
	Recency                int     `json:"recency"`
	ProductCategory        string  `json:"product_category"`
	ChannelID              string  `json:"channel_id"`
	PricingStrategy        string  `json:"pricing_strategy"`
}

func (req scoreReq) profile() features.CustomerProfile {
	return features.CustomerProfile{
		TotalSpend:             req.TotalSpend,
		AvgTransactionValue:    req.AvgTransactionValue,
		TransactionFrequency:   req.TransactionFrequency,
		TransactionVariability: req.TransactionVariability,
		Recency:                req.Recency,
		ProductCategory:        req.ProductCategory,
		ChannelID:              req.ChannelID,
		PricingStrategy:        req.PricingStrategy,
	}
}

func riskLabel(p float64) string {
	if p > 0.5 {
		return "High Risk"
	}
	return "Low Risk"
}

func handlePredict(c *gin.Context) {
	var req scoreReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p := model.PredictProba([][]float64{encoder.Vector(req.profile())})[0]
	c.JSON(http.StatusOK, gin.H{
		"risk_probability": p,
		"risk_label":       riskLabel(p),
		"model":            model.Name(),
	})
}

func handleBatch(c *gin.Context) {
	var items []scoreReq
	if err := c.BindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	X := make([][]float64, len(items))
	for i, it := range items {
		X[i] = encoder.Vector(it.profile())
	}
	ps := model.PredictProba(X)
	out := make([]gin.H, len(items))
	for i := range items {
		out[i] = gin.H{"risk_probability": ps[i], "risk_label": riskLabel(ps[i])}
	}
	c.JSON(http.StatusOK, out)
}

func dashboardData(c *gin.Context) {
	path := "data/processed/training.csv"
	profiles, err := features.ReadProfilesCSV(path)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"items": []gin.H{}})
		return
	}
	max := 200
	items := make([]gin.H, 0, max)
	q := strings.ToLower(c.Query("category"))
	for _, p := range profiles {
		if len(items) >= max {
			break
		}
		if q != "" && strings.ToLower(p.ProductCategory) != q {
			continue
		}
		score := model.PredictProba([][]float64{encoder.Vector(p)})[0]
		items = append(items, gin.H{
			"customer_id":      p.CustomerID,
			"total_spend":      p.TotalSpend,
			"frequency":        p.TransactionFrequency,
			"recency":          p.Recency,
			"product_category": p.ProductCategory,
			"cluster":          p.Cluster,
			"is_high_risk":     p.IsHighRisk,
			"score":            score,
			"risk_label":       riskLabel(score),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "model": model.Name()})
}
