package models

import (
	"math"
	"math/rand"
)

type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	IsLeaf    bool
	Proba     float64
}

type DecisionTree struct {
	MaxDepth        int
	MinSamplesSplit int
	MaxThresholds   int
	MaxFeatures     int
	Seed            int64
	Root            *TreeNode

	rng *rand.Rand
}

func NewDecisionTree() *DecisionTree {
	return &DecisionTree{MaxDepth: 10, MinSamplesSplit: 20, MaxThresholds: 64, Seed: 42}
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Fit(X [][]float64, y []int) error {
	dt.rng = rand.New(rand.NewSource(dt.Seed))
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	dt.Root = dt.build(X, y, idx, 0)
	return nil
}

func (dt *DecisionTree) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		if dt.predictOne(X[i]) >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

func (dt *DecisionTree) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = dt.predictOne(X[i])
	}
	return out
}

func (dt *DecisionTree) predictOne(x []float64) float64 {
	n := dt.Root
	if n == nil {
		return 0.5
	}
	for !n.IsLeaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
		if n == nil {
			return 0.5
		}
	}
	return n.Proba
}

func (dt *DecisionTree) build(X [][]float64, y []int, idx []int, depth int) *TreeNode {
	p := classProba(y, idx)
	if len(idx) < dt.MinSamplesSplit || depth >= dt.MaxDepth || p == 0 || p == 1 {
		return &TreeNode{IsLeaf: true, Proba: p}
	}

	bestFeature := -1
	bestThr := 0.0
	bestImp := math.MaxFloat64
	var bestLeft, bestRight []int

	for _, f := range dt.pickFeatures(len(X[0])) {
		for _, thr := range dt.candidateThresholds(X, idx, f) {
			left, right := splitIdx(X, idx, f, thr)
			if len(left) == 0 || len(right) == 0 {
				continue
			}
			if imp := giniImpurity(y, left, right); imp < bestImp {
				bestImp = imp
				bestFeature = f
				bestThr = thr
				bestLeft = left
				bestRight = right
			}
		}
	}

	if bestFeature == -1 {
		return &TreeNode{IsLeaf: true, Proba: p}
	}
	return &TreeNode{
		Feature:   bestFeature,
		Threshold: bestThr,
		Left:      dt.build(X, y, bestLeft, depth+1),
		Right:     dt.build(X, y, bestRight, depth+1),
	}
}

func (dt *DecisionTree) candidateThresholds(X [][]float64, idx []int, f int) []float64 {
	values := make([]float64, len(idx))
	for j, i := range idx {
		values[j] = X[i][f]
	}
	dt.rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	m := dt.MaxThresholds
	if m > len(values) {
		m = len(values)
	}
	return values[:m]
}

func (dt *DecisionTree) pickFeatures(nFeats int) []int {
	idx := make([]int, nFeats)
	for i := range idx {
		idx[i] = i
	}
	if dt.MaxFeatures <= 0 || dt.MaxFeatures >= nFeats {
		return idx
	}
	dt.rng.Shuffle(nFeats, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	return idx[:dt.MaxFeatures]
}

func classProba(y []int, idx []int) float64 {
	sum := 0
	for _, i := range idx {
		sum += y[i]
	}
	return float64(sum) / float64(len(idx))
}

func splitIdx(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
	l := make([]int, 0, len(idx))
	r := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][f] <= thr {
			l = append(l, i)
		} else {
			r = append(r, i)
		}
	}
	return l, r
}

func giniImpurity(y []int, left, right []int) float64 {
	g := func(ids []int) float64 {
		if len(ids) == 0 {
			return 0
		}
		p := classProba(y, ids)
		return p * (1 - p)
	}
	wl := float64(len(left))
	wr := float64(len(right))
	n := wl + wr
	return (wl/n)*g(left) + (wr/n)*g(right)
}
