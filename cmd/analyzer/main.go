package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"creditrisk/internal/features"
	"creditrisk/internal/models"
)

func main() {
	processed := flag.String("processed", "data/processed/training.csv", "Labeled customer feature table")
	clusterImg := flag.String("cluster_img", "reports/clusters.png", "Cluster scatter PNG")
	ivCsv := flag.String("iv_csv", "reports/iv_report.csv", "Information-value report CSV")
	curveImg := flag.String("curve_img", "reports/learning_curve.png", "Learning curve PNG")
	points := flag.Int("points", 8, "Points on the learning curve")
	estimators := flag.Int("estimators", 50, "Trees per learning-curve fit")
	flag.Parse()

	profiles, err := features.ReadProfilesCSV(*processed)
	if err != nil {
		fmt.Println("Failed to read processed table:", err)
		return
	}

	if err := plotClusters(*clusterImg, profiles); err != nil {
		fmt.Println("Failed to plot clusters:", err)
	} else {
		fmt.Println("Cluster scatter saved to:", *clusterImg)
	}

	if err := writeIVReport(*ivCsv, profiles); err != nil {
		fmt.Println("Failed to write IV report:", err)
	} else {
		fmt.Println("IV report saved to:", *ivCsv)
	}

	if err := learningCurve(*curveImg, profiles, *points, *estimators); err != nil {
		fmt.Println("Failed to plot learning curve:", err)
	} else {
		fmt.Println("Learning curve saved to:", *curveImg)
	}
}

func plotClusters(path string, profiles []features.CustomerProfile) error {
	p := plot.New()
	p.Title.Text = "RFM Clusters"
	p.X.Label.Text = "Recency (days)"
	p.Y.Label.Text = "Transaction frequency"

	byCluster := map[int]plotter.XYs{}
	maxCluster := 0
	for _, prof := range profiles {
		byCluster[prof.Cluster] = append(byCluster[prof.Cluster], plotter.XY{
			X: float64(prof.Recency), Y: float64(prof.TransactionFrequency),
		})
		if prof.Cluster > maxCluster {
			maxCluster = prof.Cluster
		}
	}
	args := make([]interface{}, 0, 2*len(byCluster))
	for c := 0; c <= maxCluster; c++ {
		pts, ok := byCluster[c]
		if !ok {
			continue
		}
		args = append(args, "Cluster "+strconv.Itoa(c), pts)
	}
	if err := plotutil.AddScatters(p, args...); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

func writeIVReport(path string, profiles []features.CustomerProfile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"feature", "value", "all", "good", "bad", "share", "bad_rate", "dist_good", "dist_bad", "woe", "iv", "feature_iv"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, col := range features.CategoryColumns {
		records, iv, err := features.InformationValue(profiles, col)
		if err != nil {
			return err
		}
		for _, rec := range records {
			row := []string{
				col, rec.Value,
				strconv.Itoa(rec.All), strconv.Itoa(rec.Good), strconv.Itoa(rec.Bad),
				fmt.Sprintf("%.6f", rec.Share), fmt.Sprintf("%.6f", rec.BadRate),
				fmt.Sprintf("%.6f", rec.DistGood), fmt.Sprintf("%.6f", rec.DistBad),
				fmt.Sprintf("%.6f", rec.WoE), fmt.Sprintf("%.6f", rec.IV),
				fmt.Sprintf("%.6f", iv),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// learningCurve retrains at increasing training sizes. The encoder is refit
// on each training subset so every point stays leakage-safe.
func learningCurve(path string, profiles []features.CustomerProfile, points, estimators int) error {
	split := int(0.8 * float64(len(profiles)))
	if split < 3 || len(profiles)-split < 1 {
		return fmt.Errorf("not enough customers for a learning curve: %d", len(profiles))
	}
	train := profiles[:split]
	test := profiles[split:]
	yTest := labelsOf(test)

	var sizes []int
	var trainAcc, testAcc []float64
	for i := 1; i <= points; i++ {
		s := int(float64(i) / float64(points) * float64(split))
		if s < 10 {
			continue
		}
		sub := train[:s]
		ySub := labelsOf(sub)

		enc, err := features.NewWOEEncoder().Fit(sub, ySub)
		if err != nil {
			return err
		}
		rf := models.NewRandomForest()
		rf.NEstimators = estimators
		if err := rf.Fit(enc.Transform(sub), ySub); err != nil {
			return err
		}
		sizes = append(sizes, s)
		trainAcc = append(trainAcc, models.Accuracy(ySub, rf.Predict(enc.Transform(sub))))
		testAcc = append(testAcc, models.Accuracy(yTest, rf.Predict(enc.Transform(test))))
		fmt.Printf("size=%d | train=%.3f | test=%.3f\n", s, trainAcc[len(trainAcc)-1], testAcc[len(testAcc)-1])
	}
	if len(sizes) == 0 {
		return fmt.Errorf("no learning-curve points computed")
	}

	p := plot.New()
	p.Title.Text = "Learning Curve"
	p.X.Label.Text = "Training customers"
	p.Y.Label.Text = "Accuracy"
	p.Y.Min = 0
	p.Y.Max = 1

	toXY := func(xs []int, ys []float64) plotter.XYs {
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X = float64(xs[i])
			pts[i].Y = ys[i]
		}
		return pts
	}
	if err := plotutil.AddLinePoints(p, "Train", toXY(sizes, trainAcc), "Test", toXY(sizes, testAcc)); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

func labelsOf(profiles []features.CustomerProfile) []int {
	y := make([]int, len(profiles))
	for i, p := range profiles {
		y[i] = p.IsHighRisk
	}
	return y
}
