package main

import (
	"encoding/gob"
	"flag"
	"math/rand"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"creditrisk/internal/data"
	"creditrisk/internal/features"
	"creditrisk/internal/models"
	"creditrisk/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	regen := flag.Bool("regen", true, "Regenerate the synthetic transaction dataset")
	n := flag.Int("n", 50000, "Number of synthetic transactions")
	customers := flag.Int("customers", 3000, "Number of synthetic customers")
	raw := flag.String("raw", "data/raw/transactions.csv", "Raw transaction CSV")
	processed := flag.String("processed", "data/processed/training.csv", "Labeled customer feature table output")
	algo := flag.String("algo", "rf", "Classifier: dt|rf")
	estimators := flag.Int("estimators", 100, "Number of trees (rf)")
	maxDepth := flag.Int("max_depth", 10, "Maximum tree depth")
	minSamples := flag.Int("min_samples", 20, "Minimum samples to split")
	testSize := flag.Float64("test_size", 0.2, "Holdout fraction")
	seed := flag.Int64("seed", 42, "Seed for data generation and the train/test split")
	ivReport := flag.Bool("iv", true, "Log information-value diagnostics per categorical feature")
	flag.Parse()

	if *regen {
		logger.Info("Generating synthetic transactions",
			zap.Int("n", *n), zap.Int("customers", *customers), zap.String("raw", *raw))
		if err := data.GenerateSyntheticTransactions(*n, *customers, *seed, *raw); err != nil {
			logger.Fatal("Failed to generate dataset", zap.Error(err))
		}
	}

	txs, err := data.LoadTransactionsCSV(*raw)
	if err != nil {
		logger.Fatal("Failed to load transactions", zap.Error(err))
	}
	logger.Info("Loaded transactions", zap.Int("rows", len(txs)))

	profiles, err := features.Aggregate(txs)
	if err != nil {
		logger.Fatal("Aggregation failed", zap.Error(err))
	}
	logger.Info("Aggregated to customer level", zap.Int("customers", len(profiles)))

	labeled, err := features.LabelHighRisk(profiles)
	if err != nil {
		logger.Fatal("Risk labeling failed", zap.Error(err))
	}
	logger.Info("Identified high-risk cluster",
		zap.Int("cluster", labeled.HighRisk),
		zap.Float64("centroid_recency", labeled.Centroids[labeled.HighRisk][0]),
		zap.Float64("centroid_frequency", labeled.Centroids[labeled.HighRisk][1]),
		zap.Float64("centroid_spend", labeled.Centroids[labeled.HighRisk][2]))

	if *ivReport {
		for _, col := range features.CategoryColumns {
			_, iv, err := features.InformationValue(labeled.Profiles, col)
			if err != nil {
				logger.Warn("IV calculation failed", zap.String("feature", col), zap.Error(err))
				continue
			}
			logger.Info("Information value", zap.String("feature", col), zap.Float64("iv", iv))
		}
	}

	labels := make([]int, len(labeled.Profiles))
	for i, p := range labeled.Profiles {
		labels[i] = p.IsHighRisk
	}
	trainIdx, testIdx := stratifiedSplit(labels, *testSize, *seed)
	train := pick(labeled.Profiles, trainIdx)
	test := pick(labeled.Profiles, testIdx)
	yTrain := pickInts(labels, trainIdx)
	yTest := pickInts(labels, testIdx)
	logger.Info("Split", zap.Int("train", len(train)), zap.Int("test", len(test)))

	// The encoder is fit on the training partition only; the holdout is
	// scored with the same fitted state, never refit.
	enc, err := features.NewWOEEncoder().Fit(train, yTrain)
	if err != nil {
		logger.Fatal("Encoder fit failed", zap.Error(err))
	}
	Xtrain := enc.Transform(train)
	Xtest := enc.Transform(test)

	var mdl models.Model
	var path string
	switch *algo {
	case "dt":
		dt := models.NewDecisionTree()
		dt.MaxDepth = *maxDepth
		dt.MinSamplesSplit = *minSamples
		mdl = dt
		path = "models/dt_model.gob"
	default:
		rf := models.NewRandomForest()
		rf.NEstimators = *estimators
		rf.MaxDepth = *maxDepth
		rf.MinSamplesSplit = *minSamples
		mdl = rf
		path = "models/rf_model.gob"
	}
	if err := mdl.Fit(Xtrain, yTrain); err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}

	proba := mdl.PredictProba(Xtest)
	preds := models.ProbaToPred(proba, 0.5)
	prec, rec, f1 := models.PrecisionRecallF1(yTest, proba, 0.5)
	logger.Info("Holdout metrics",
		zap.String("model", mdl.Name()),
		zap.Float64("accuracy", models.Accuracy(yTest, preds)),
		zap.Float64("precision", prec),
		zap.Float64("recall", rec),
		zap.Float64("f1", f1),
		zap.Float64("roc_auc", models.ROCAUC(yTest, proba)))

	if err := saveGob(mdl, path); err != nil {
		logger.Fatal("Failed to save model", zap.Error(err))
	}
	if err := features.SaveWOEModel(enc, "models/encoder.gob"); err != nil {
		logger.Fatal("Failed to save encoder", zap.Error(err))
	}
	if err := saveGob(enc.FeatureNames(), "models/feature_names.gob"); err != nil {
		logger.Fatal("Failed to save feature names", zap.Error(err))
	}
	logger.Info("Artifacts saved", zap.String("model", path))

	if err := features.WriteProfilesCSV(labeled.Profiles, *processed); err != nil {
		logger.Fatal("Failed to write processed table", zap.Error(err))
	}
	logger.Info("Processed table saved", zap.String("path", *processed))
}

// stratifiedSplit keeps the label distribution of both partitions close to
// the whole dataset's.
func stratifiedSplit(y []int, testSize float64, seed int64) (trainIdx, testIdx []int) {
	rng := rand.New(rand.NewSource(seed))
	var posIdx, negIdx []int
	for i, v := range y {
		if v == 1 {
			posIdx = append(posIdx, i)
		} else {
			negIdx = append(negIdx, i)
		}
	}
	split := func(idx []int) {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		cut := len(idx) - int(testSize*float64(len(idx)))
		trainIdx = append(trainIdx, idx[:cut]...)
		testIdx = append(testIdx, idx[cut:]...)
	}
	split(posIdx)
	split(negIdx)
	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })
	return trainIdx, testIdx
}

func pick(profiles []features.CustomerProfile, idx []int) []features.CustomerProfile {
	out := make([]features.CustomerProfile, len(idx))
	for i, j := range idx {
		out[i] = profiles[j]
	}
	return out
}

func pickInts(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}

func saveGob(v any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(v)
}
