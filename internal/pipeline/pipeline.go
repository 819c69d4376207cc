// Package pipeline chains the analysis stages into one deterministic run:
// ingest, categorize, reclassify, recurring detection, anomaly detection,
// behavior profile, savings estimate, report assembly. Stages run strictly
// in order and any failure aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkomarov/finsight/internal/anomaly"
	"github.com/dkomarov/finsight/internal/behavior"
	"github.com/dkomarov/finsight/internal/categorize"
	"github.com/dkomarov/finsight/internal/ingest"
	"github.com/dkomarov/finsight/internal/logger"
	"github.com/dkomarov/finsight/internal/recurring"
	"github.com/dkomarov/finsight/internal/report"
	"github.com/dkomarov/finsight/internal/savings"
)

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially against the state, failing fast on
// the first error.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx).With().Str("run_id", state.RunID).Logger()

	for i, step := range p.steps {
		started := time.Now()
		if err := step.Execute(ctx, state); err != nil {
			log.Error().Err(err).Str("step", step.Name()).Msg("pipeline step failed")
			return fmt.Errorf("pipeline step %d (%s): %w", i+1, step.Name(), err)
		}
		log.Debug().
			Str("step", step.Name()).
			Dur("took", time.Since(started)).
			Int("rows", len(state.Table)).
			Msg("pipeline step done")
	}
	return nil
}

// Analyzer is the process-scoped entry point: it owns the stage services
// (including the categorizer's cached prototype embeddings) and creates
// fresh per-run state for every statement.
type Analyzer struct {
	pipeline *Pipeline
}

// NewAnalyzer wires the standard 8-step pipeline around the injected
// embedding service.
func NewAnalyzer(embedder categorize.Embedder) *Analyzer {
	return &Analyzer{
		pipeline: NewPipeline(
			&IngestStep{Ingestor: ingest.NewIngestor()},
			&CategorizeStep{Categorizer: categorize.NewCategorizer(embedder)},
			&ReclassifyStep{Classifier: categorize.NewOtherOperationsClassifier()},
			&RecurringStep{Detector: recurring.NewDetector()},
			&AnomalyStep{Detector: anomaly.NewDetector()},
			&ProfileStep{Model: behavior.NewModel()},
			&SavingsStep{Estimator: savings.NewEstimator()},
			&ReportStep{Assembler: report.NewAssembler()},
		),
	}
}

// Run analyzes one statement export and returns the report pages.
func (a *Analyzer) Run(ctx context.Context, content []byte, ext string) ([]string, error) {
	state := &State{
		RunID:     uuid.NewString(),
		Extension: ext,
		Raw:       content,
	}
	if err := a.pipeline.Execute(ctx, state); err != nil {
		return nil, err
	}
	return state.Pages, nil
}
