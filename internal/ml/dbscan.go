package ml

import (
	"math"
)

// DBSCAN is a plain density clustering over euclidean distance. With
// MinPoints set to 1 every point belongs to a cluster, so the label slice
// never contains noise markers in that configuration.
type DBSCAN struct {
	Eps       float64
	MinPoints int
}

// Noise is the label assigned to points that belong to no cluster.
const Noise = -1

// FitPredict clusters X and returns one cluster label per row.
func (d *DBSCAN) FitPredict(X [][]float64) []int {
	n := len(X)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}

	cluster := 0
	visited := make([]bool, n)

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := d.regionQuery(X, i)
		if len(neighbors) < d.MinPoints {
			continue
		}

		labels[i] = cluster
		// Expand the cluster over density-reachable points.
		for k := 0; k < len(neighbors); k++ {
			j := neighbors[k]
			if !visited[j] {
				visited[j] = true
				next := d.regionQuery(X, j)
				if len(next) >= d.MinPoints {
					neighbors = append(neighbors, next...)
				}
			}
			if labels[j] == Noise {
				labels[j] = cluster
			}
		}
		cluster++
	}
	return labels
}

func (d *DBSCAN) regionQuery(X [][]float64, i int) []int {
	var out []int
	for j := range X {
		if euclidean(X[i], X[j]) <= d.Eps {
			out = append(out, j)
		}
	}
	return out
}

func euclidean(a, b []float64) float64 {
	var ss float64
	for k := range a {
		d := a[k] - b[k]
		ss += d * d
	}
	return math.Sqrt(ss)
}
