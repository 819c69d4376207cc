package pipeline

import (
	"context"

	"github.com/dkomarov/finsight/internal/anomaly"
	"github.com/dkomarov/finsight/internal/behavior"
	"github.com/dkomarov/finsight/internal/categorize"
	"github.com/dkomarov/finsight/internal/ingest"
	"github.com/dkomarov/finsight/internal/recurring"
	"github.com/dkomarov/finsight/internal/report"
	"github.com/dkomarov/finsight/internal/savings"
)

// Step is a single stage of the analysis pipeline.
type Step interface {
	Name() string
	Execute(ctx context.Context, state *State) error
}

// IngestStep parses the raw export into the normalized table.
type IngestStep struct {
	Ingestor *ingest.Ingestor
}

func (s *IngestStep) Name() string { return "ingest" }

func (s *IngestStep) Execute(ctx context.Context, state *State) error {
	table, err := s.Ingestor.Run(state.Raw, state.Extension)
	if err != nil {
		return err
	}
	state.Table = table
	return nil
}

// CategorizeStep resolves final categories through the cascade.
type CategorizeStep struct {
	Categorizer *categorize.Categorizer
}

func (s *CategorizeStep) Name() string { return "categorize" }

func (s *CategorizeStep) Execute(ctx context.Context, state *State) error {
	return s.Categorizer.Run(ctx, state.Table)
}

// ReclassifyStep refines the generic bucket with the in-run text model.
type ReclassifyStep struct {
	Classifier *categorize.OtherOperationsClassifier
}

func (s *ReclassifyStep) Name() string { return "reclassify-other" }

func (s *ReclassifyStep) Execute(ctx context.Context, state *State) error {
	return s.Classifier.Run(state.Table)
}

// RecurringStep detects subscription-like payment groups.
type RecurringStep struct {
	Detector *recurring.Detector
}

func (s *RecurringStep) Name() string { return "recurring" }

func (s *RecurringStep) Execute(ctx context.Context, state *State) error {
	state.Recurring = s.Detector.Run(state.Table)
	return nil
}

// AnomalyStep flags unusual transaction amounts.
type AnomalyStep struct {
	Detector *anomaly.Detector
}

func (s *AnomalyStep) Name() string { return "anomaly" }

func (s *AnomalyStep) Execute(ctx context.Context, state *State) error {
	if err := s.Detector.Run(state.Table); err != nil {
		return err
	}
	state.Anomalies = state.Table.Anomalies()
	return nil
}

// ProfileStep builds the monthly behavior profile and advice.
type ProfileStep struct {
	Model *behavior.Model
}

func (s *ProfileStep) Name() string { return "profile" }

func (s *ProfileStep) Execute(ctx context.Context, state *State) error {
	profile, advice, err := s.Model.Build(state.Table)
	if err != nil {
		return err
	}
	state.Profile = profile
	state.Advice = advice
	return nil
}

// SavingsStep computes the potential savings figure.
type SavingsStep struct {
	Estimator *savings.Estimator
}

func (s *SavingsStep) Name() string { return "savings" }

func (s *SavingsStep) Execute(ctx context.Context, state *State) error {
	state.Savings = s.Estimator.Estimate(state.Recurring, state.Profile)
	return nil
}

// ReportStep renders the final text blocks.
type ReportStep struct {
	Assembler *report.Assembler
}

func (s *ReportStep) Name() string { return "report" }

func (s *ReportStep) Execute(ctx context.Context, state *State) error {
	state.Pages = s.Assembler.Assemble(state.Table, state.Recurring, state.Anomalies, state.Advice, state.Savings)
	return nil
}
