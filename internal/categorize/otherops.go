package categorize

import (
	"errors"
	"fmt"

	"github.com/dkomarov/finsight/internal/ml"
	"github.com/dkomarov/finsight/internal/statement"
)

// Reclassification failures. Both are fatal for the run: downstream
// stages assume every row carries a usable final category.
var (
	ErrNoTrainingData = errors.New("categorize: no labeled rows to train the reclassifier")
	ErrSingleClass    = errors.New("categorize: training rows cover a single category")
)

// OtherOperationsClassifier refines the bank's generic "Прочие операции"
// bucket with a text model trained in-run on the rows whose category is
// already known. Rows outside the bucket get their final category reset to
// the bank category, mirroring the historical behavior of this stage.
type OtherOperationsClassifier struct {
	MaxFeatures int
}

// NewOtherOperationsClassifier returns a reclassifier with the standard
// 1000-term vocabulary cap.
func NewOtherOperationsClassifier() *OtherOperationsClassifier {
	return &OtherOperationsClassifier{MaxFeatures: 1000}
}

// Run trains on rows with a known final category and reclassifies the
// generic bucket. The model is discarded afterwards; runs are stateless.
func (c *OtherOperationsClassifier) Run(table statement.Table) error {
	var trainDocs, trainLabels []string
	for _, t := range table {
		if t.FinalCategory != statement.CategoryOther {
			trainDocs = append(trainDocs, t.Description)
			trainLabels = append(trainLabels, t.FinalCategory)
		}
	}
	if len(trainDocs) == 0 {
		return ErrNoTrainingData
	}

	vectorizer := &ml.TfidfVectorizer{MaxFeatures: c.MaxFeatures}
	X := vectorizer.FitTransform(trainDocs)

	model := &ml.LogisticRegression{MaxIter: 1000}
	if err := model.Fit(X, trainLabels); err != nil {
		if errors.Is(err, ml.ErrSingleClass) {
			return ErrSingleClass
		}
		if errors.Is(err, ml.ErrNoTrainingData) {
			return ErrNoTrainingData
		}
		return fmt.Errorf("categorize: fit reclassifier: %w", err)
	}

	var otherRows statement.Table
	var otherDocs []string
	for _, t := range table {
		if t.Category == statement.CategoryOther {
			otherRows = append(otherRows, t)
			otherDocs = append(otherDocs, t.Description)
		} else {
			t.FinalCategory = t.Category
		}
	}
	if len(otherRows) == 0 {
		return nil
	}

	predictions := model.Predict(vectorizer.Transform(otherDocs))
	for i, t := range otherRows {
		t.FinalCategory = predictions[i]
	}
	return nil
}
