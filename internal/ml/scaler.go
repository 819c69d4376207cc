// Package ml contains the small model zoo used by the analysis stages:
// feature standardization, density clustering, isolation forests, a TF-IDF
// vectorizer and a multinomial logistic regression. All models are fit
// fresh per pipeline run and hold no shared state.
package ml

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers features to zero mean and unit variance, column
// by column. Variance is the population variance, matching the feature
// math used elsewhere in the pipeline.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// Fit learns per-column mean and standard deviation from X.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("scaler: empty feature matrix")
	}
	cols := len(X[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	col := make([]float64, len(X))
	for j := 0; j < cols; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		s.Std[j] = PopStdDev(col)
	}
	return nil
}

// Transform returns a new matrix with each column standardized. Columns
// with zero spread are centered only.
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			d := v - s.Mean[j]
			if s.Std[j] > 0 {
				d /= s.Std[j]
			}
			out[i][j] = d
		}
	}
	return out
}

// FitTransform fits the scaler on X and returns the standardized matrix.
func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X), nil
}
