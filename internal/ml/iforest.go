package ml

import (
	"math"
	"math/rand"
	"sort"
)

// IsolationForest flags the most isolated rows of a feature matrix. The
// expected share of outliers is fixed up front via Contamination, matching
// the behavior-model contract: the top-scoring fraction is flagged.
// A fixed Seed makes runs reproducible.
type IsolationForest struct {
	Trees         int
	SampleSize    int
	Contamination float64
	Seed          int64
}

// NewIsolationForest returns a forest with the standard 100-tree,
// 256-sample configuration.
func NewIsolationForest(contamination float64, seed int64) *IsolationForest {
	return &IsolationForest{
		Trees:         100,
		SampleSize:    256,
		Contamination: contamination,
		Seed:          seed,
	}
}

type iTreeNode struct {
	left, right *iTreeNode
	splitAttr   int
	splitValue  float64
	size        int
}

// FitPredict fits the forest on X and returns one flag per row, true for
// rows in the outlying fraction.
func (f *IsolationForest) FitPredict(X [][]float64) []bool {
	n := len(X)
	flags := make([]bool, n)
	if n == 0 {
		return flags
	}

	k := int(math.Round(f.Contamination * float64(n)))
	if k <= 0 {
		return flags
	}

	scores := f.scores(X)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	for _, i := range idx[:k] {
		flags[i] = true
	}
	return flags
}

func (f *IsolationForest) scores(X [][]float64) []float64 {
	n := len(X)
	rng := rand.New(rand.NewSource(f.Seed))

	psi := f.SampleSize
	if psi > n {
		psi = n
	}
	heightLimit := int(math.Ceil(math.Log2(float64(psi) + 1)))

	trees := make([]*iTreeNode, f.Trees)
	for t := range trees {
		sample := make([][]float64, 0, psi)
		for _, i := range rng.Perm(n)[:psi] {
			sample = append(sample, X[i])
		}
		trees[t] = buildITree(sample, 0, heightLimit, rng)
	}

	cn := avgPathLength(psi)
	scores := make([]float64, n)
	for i, row := range X {
		var sum float64
		for _, tree := range trees {
			sum += pathLength(tree, row, 0)
		}
		mean := sum / float64(len(trees))
		scores[i] = math.Pow(2, -mean/cn)
	}
	return scores
}

func buildITree(X [][]float64, depth, limit int, rng *rand.Rand) *iTreeNode {
	if depth >= limit || len(X) <= 1 {
		return &iTreeNode{size: len(X)}
	}

	attrs := len(X[0])
	attr := rng.Intn(attrs)

	lo, hi := X[0][attr], X[0][attr]
	for _, row := range X {
		if row[attr] < lo {
			lo = row[attr]
		}
		if row[attr] > hi {
			hi = row[attr]
		}
	}
	if lo == hi {
		return &iTreeNode{size: len(X)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right [][]float64
	for _, row := range X {
		if row[attr] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	return &iTreeNode{
		splitAttr:  attr,
		splitValue: split,
		size:       len(X),
		left:       buildITree(left, depth+1, limit, rng),
		right:      buildITree(right, depth+1, limit, rng),
	}
}

func pathLength(node *iTreeNode, row []float64, depth int) float64 {
	if node.left == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if row[node.splitAttr] < node.splitValue {
		return pathLength(node.left, row, depth+1)
	}
	return pathLength(node.right, row, depth+1)
}

// avgPathLength is c(n), the average path length of an unsuccessful BST
// search, used to normalize isolation depths.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649
	return 2*h - 2*float64(n-1)/float64(n)
}
