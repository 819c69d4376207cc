package ml

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Fitting error conditions surfaced to the pipeline as fatal.
var (
	ErrNoTrainingData = errors.New("logreg: empty training set")
	ErrSingleClass    = errors.New("logreg: training set has a single class")
)

// LogisticRegression is a multinomial (softmax) text classifier trained
// with batch gradient descent. Weights are zero-initialized, so fitting is
// deterministic for a given training set.
type LogisticRegression struct {
	MaxIter      int
	LearningRate float64

	classes []string
	weights *mat.Dense // classes x features
	bias    []float64
}

// Fit trains the classifier on feature rows X with string labels y.
func (m *LogisticRegression) Fit(X [][]float64, y []string) error {
	if len(X) == 0 {
		return ErrNoTrainingData
	}

	classSet := make(map[string]bool)
	for _, label := range y {
		classSet[label] = true
	}
	if len(classSet) < 2 {
		return ErrSingleClass
	}

	m.classes = make([]string, 0, len(classSet))
	for c := range classSet {
		m.classes = append(m.classes, c)
	}
	sort.Strings(m.classes)

	classIdx := make(map[string]int, len(m.classes))
	for i, c := range m.classes {
		classIdx[c] = i
	}

	if m.MaxIter == 0 {
		m.MaxIter = 1000
	}
	if m.LearningRate == 0 {
		m.LearningRate = 0.5
	}

	n := len(X)
	features := len(X[0])
	k := len(m.classes)

	m.weights = mat.NewDense(k, features, nil)
	m.bias = make([]float64, k)

	grad := mat.NewDense(k, features, nil)
	gradBias := make([]float64, k)
	probs := make([]float64, k)

	for iter := 0; iter < m.MaxIter; iter++ {
		grad.Zero()
		for c := range gradBias {
			gradBias[c] = 0
		}

		for i := 0; i < n; i++ {
			m.softmax(X[i], probs)
			target := classIdx[y[i]]
			for c := 0; c < k; c++ {
				d := probs[c]
				if c == target {
					d -= 1
				}
				gradBias[c] += d
				for j := 0; j < features; j++ {
					grad.Set(c, j, grad.At(c, j)+d*X[i][j])
				}
			}
		}

		step := m.LearningRate / float64(n)
		for c := 0; c < k; c++ {
			m.bias[c] -= step * gradBias[c]
			for j := 0; j < features; j++ {
				m.weights.Set(c, j, m.weights.At(c, j)-step*grad.At(c, j))
			}
		}
	}
	return nil
}

// Predict returns the most probable class label per row.
func (m *LogisticRegression) Predict(X [][]float64) []string {
	out := make([]string, len(X))
	probs := make([]float64, len(m.classes))
	for i, row := range X {
		m.softmax(row, probs)
		best := 0
		for c := 1; c < len(probs); c++ {
			if probs[c] > probs[best] {
				best = c
			}
		}
		out[i] = m.classes[best]
	}
	return out
}

// Classes returns the sorted class labels seen during Fit.
func (m *LogisticRegression) Classes() []string {
	return m.classes
}

func (m *LogisticRegression) softmax(row []float64, probs []float64) {
	k := len(m.classes)
	maxLogit := math.Inf(-1)
	for c := 0; c < k; c++ {
		logit := m.bias[c]
		for j, x := range row {
			logit += m.weights.At(c, j) * x
		}
		probs[c] = logit
		if logit > maxLogit {
			maxLogit = logit
		}
	}
	var sum float64
	for c := 0; c < k; c++ {
		probs[c] = math.Exp(probs[c] - maxLogit)
		sum += probs[c]
	}
	for c := 0; c < k; c++ {
		probs[c] /= sum
	}
}
