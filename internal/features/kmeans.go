package features

import "math/rand"

// kMeans partitions points into k clusters with Lloyd iterations, seeded
// k-means++ initialization and early stop on stable assignments. Returns the
// assignment per point and the final centroids.
func kMeans(points [][]float64, k, maxIter int, seed int64) ([]int, [][]float64) {
	rng := rand.New(rand.NewSource(seed))
	centroids := initCentroids(points, k, rng)
	assign := make([]int, len(points))

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best := nearest(p, centroids)
			if best != assign[i] {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		dims := len(points[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			c := assign[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue // empty cluster keeps its previous centroid
			}
			for d := 0; d < dims; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}
	return assign, centroids
}

// initCentroids is k-means++: the first centroid is drawn uniformly, each
// further one with probability proportional to its squared distance from the
// nearest centroid picked so far.
func initCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))

	for len(centroids) < k {
		dists := make([]float64, len(points))
		total := 0.0
		for i, p := range points {
			d := dist2(p, centroids[nearest(p, centroids)])
			dists[i] = d
			total += d
		}
		if total == 0 {
			centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))
			continue
		}
		target := rng.Float64() * total
		acc := 0.0
		pick := len(points) - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, clonePoint(points[pick]))
	}
	return centroids
}

func nearest(p []float64, centroids [][]float64) int {
	best := 0
	bestD := dist2(p, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := dist2(p, centroids[c]); d < bestD {
			best = c
			bestD = d
		}
	}
	return best
}

func dist2(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
