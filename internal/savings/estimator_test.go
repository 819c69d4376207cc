package savings

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dkomarov/finsight/internal/behavior"
	"github.com/dkomarov/finsight/internal/recurring"
)

func profile(spend [][]float64, abnormal []bool) *behavior.Profile {
	months := make([]string, len(spend))
	for i := range months {
		months[i] = "2025-0" + string(rune('1'+i))
	}
	categories := make([]string, len(spend[0]))
	for j := range categories {
		categories[j] = string(rune('A' + j))
	}
	return &behavior.Profile{
		Months:     months,
		Categories: categories,
		Spend:      spend,
		Abnormal:   abnormal,
	}
}

func rent(total float64) recurring.Group {
	return recurring.Group{
		MerchantID:  "аренда|",
		Description: "Аренда",
		Count:       3,
		Total:       decimal.NewFromFloat(total),
	}
}

func TestZeroWithoutAbnormalMonths(t *testing.T) {
	p := profile([][]float64{{100}, {110}}, []bool{false, false})

	// Even with recurring groups present the estimate stays zero.
	got := NewEstimator().Estimate([]recurring.Group{rent(-9000)}, p)
	if got != 0.0 {
		t.Errorf("savings = %v, want 0", got)
	}
}

func TestZeroWithoutNormalMonths(t *testing.T) {
	p := profile([][]float64{{100}, {110}}, []bool{true, true})
	if got := NewEstimator().Estimate(nil, p); got != 0.0 {
		t.Errorf("savings = %v, want 0", got)
	}
}

func TestZeroForEmptyInputs(t *testing.T) {
	if got := NewEstimator().Estimate(nil, nil); got != 0.0 {
		t.Errorf("savings = %v, want 0", got)
	}
}

func TestOverspendPlusRecurring(t *testing.T) {
	// Baseline = mean(100, 100) = 100; abnormal month overspend = 200.
	p := profile([][]float64{{100}, {100}, {300}}, []bool{false, false, true})
	groups := []recurring.Group{rent(-1000)}

	got := NewEstimator().Estimate(groups, p)

	// 200*0.5 + 1000*0.6
	if got != 700.0 {
		t.Errorf("savings = %v, want 700", got)
	}
}

func TestOnlyPositiveDeviationsCount(t *testing.T) {
	// Abnormal month underspends in B: only A's overspend contributes.
	p := profile([][]float64{{100, 500}, {100, 500}, {300, 0}}, []bool{false, false, true})

	got := NewEstimator().Estimate(nil, p)
	if got != 100.0 {
		t.Errorf("savings = %v, want 100", got)
	}
}

func TestNeverNegative(t *testing.T) {
	p := profile([][]float64{{500}, {500}, {100}}, []bool{false, false, true})
	if got := NewEstimator().Estimate(nil, p); got < 0 {
		t.Errorf("savings = %v, want >= 0", got)
	}
}

func TestDeterministic(t *testing.T) {
	p := profile([][]float64{{100}, {120}, {400}}, []bool{false, false, true})
	groups := []recurring.Group{rent(-1500), rent(-300)}

	a := NewEstimator().Estimate(groups, p)
	b := NewEstimator().Estimate(groups, p)
	if a != b {
		t.Errorf("estimates differ: %v vs %v", a, b)
	}
}
