// Package anomaly flags transactions whose amount is statistically
// unusual for this statement.
package anomaly

import (
	"github.com/dkomarov/finsight/internal/ml"
	"github.com/dkomarov/finsight/internal/statement"
)

// Seed fixes the isolation forest randomness so identical tables yield
// identical flags.
const Seed = 42

// Detector fits an isolation forest on the standardized amount and marks
// the outlying 5% of rows.
type Detector struct {
	Contamination float64
}

// NewDetector returns a detector with the standard 5% outlier fraction.
func NewDetector() *Detector {
	return &Detector{Contamination: 0.05}
}

// Run sets Anomaly on every row: 1 for outliers, 0 otherwise.
func (d *Detector) Run(table statement.Table) error {
	if len(table) == 0 {
		return nil
	}

	X := make([][]float64, len(table))
	for i, t := range table {
		X[i] = []float64{t.Amount.InexactFloat64()}
	}

	scaler := &ml.StandardScaler{}
	X, err := scaler.FitTransform(X)
	if err != nil {
		return err
	}

	forest := ml.NewIsolationForest(d.Contamination, Seed)
	for i, outlier := range forest.FitPredict(X) {
		if outlier {
			table[i].Anomaly = 1
		} else {
			table[i].Anomaly = 0
		}
	}
	return nil
}
