// Package behavior learns the user's normal monthly spending pattern and
// explains the months that break it.
package behavior

import (
	"fmt"
	"sort"

	"github.com/dkomarov/finsight/internal/ml"
	"github.com/dkomarov/finsight/internal/statement"
)

// Seed fixes the isolation forest randomness for reproducible profiles.
const Seed = 42

// Profile is the month × category spending pivot with per-month anomaly
// flags. Spend[i][j] is the absolute spend of Months[i] in Categories[j].
type Profile struct {
	Months     []string // sorted, formatted YYYY-MM
	Categories []string // sorted
	Spend      [][]float64
	Abnormal   []bool
}

// NormalCount returns how many months are not flagged abnormal.
func (p *Profile) NormalCount() int {
	n := 0
	for _, ab := range p.Abnormal {
		if !ab {
			n++
		}
	}
	return n
}

// AbnormalCount returns how many months are flagged abnormal.
func (p *Profile) AbnormalCount() int {
	return len(p.Abnormal) - p.NormalCount()
}

// Baseline returns the per-category mean over normal months. Zero vector
// when there are no normal months.
func (p *Profile) Baseline() []float64 {
	baseline := make([]float64, len(p.Categories))
	n := p.NormalCount()
	if n == 0 {
		return baseline
	}
	for i, row := range p.Spend {
		if p.Abnormal[i] {
			continue
		}
		for j, v := range row {
			baseline[j] += v
		}
	}
	for j := range baseline {
		baseline[j] /= float64(n)
	}
	return baseline
}

// Model builds the monthly profile and the advice lines.
type Model struct {
	Contamination float64
	TopDeviations int
}

// NewModel returns a model with the standard 20% abnormal-month fraction
// and top-3 category explanations.
func NewModel() *Model {
	return &Model{Contamination: 0.2, TopDeviations: 3}
}

// StableAdvice is rendered when no month deviates from the baseline.
const StableAdvice = "Ваш стиль расходов стабилен — резких сбоев не обнаружено."

// Build pivots the table by month and category, flags abnormal months and
// produces one advice line per over-spent category of each abnormal month.
func (m *Model) Build(table statement.Table) (*Profile, []string, error) {
	profile, err := m.pivot(table)
	if err != nil {
		return nil, nil, err
	}

	scaler := &ml.StandardScaler{}
	X, err := scaler.FitTransform(profile.Spend)
	if err != nil {
		return nil, nil, err
	}

	forest := ml.NewIsolationForest(m.Contamination, Seed)
	profile.Abnormal = forest.FitPredict(X)

	return profile, m.explain(profile), nil
}

// pivot sums absolute spend per (month, final category), zero-filled.
func (m *Model) pivot(table statement.Table) (*Profile, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("behavior: empty transaction table")
	}

	type key struct{ month, category string }
	sums := make(map[key]float64)
	monthSet := make(map[string]bool)
	categorySet := make(map[string]bool)

	for _, t := range table {
		k := key{t.Month(), t.FinalCategory}
		sums[k] += t.Amount.InexactFloat64()
		monthSet[k.month] = true
		categorySet[k.category] = true
	}

	profile := &Profile{}
	for month := range monthSet {
		profile.Months = append(profile.Months, month)
	}
	for category := range categorySet {
		profile.Categories = append(profile.Categories, category)
	}
	sort.Strings(profile.Months)
	sort.Strings(profile.Categories)

	profile.Spend = make([][]float64, len(profile.Months))
	for i, month := range profile.Months {
		row := make([]float64, len(profile.Categories))
		for j, category := range profile.Categories {
			v := sums[key{month, category}]
			if v < 0 {
				v = -v
			}
			row[j] = v
		}
		profile.Spend[i] = row
	}
	return profile, nil
}

// explain names the top over-spent categories of each abnormal month
// relative to the normal-month baseline.
func (m *Model) explain(profile *Profile) []string {
	if profile.AbnormalCount() == 0 {
		return []string{StableAdvice}
	}

	baseline := profile.Baseline()
	var advice []string

	for i, month := range profile.Months {
		if !profile.Abnormal[i] {
			continue
		}

		type deviation struct {
			category string
			value    float64
		}
		devs := make([]deviation, len(profile.Categories))
		for j, category := range profile.Categories {
			devs[j] = deviation{category, profile.Spend[i][j] - baseline[j]}
		}
		sort.SliceStable(devs, func(a, b int) bool { return devs[a].value > devs[b].value })

		top := devs
		if len(top) > m.TopDeviations {
			top = top[:m.TopDeviations]
		}
		for _, d := range top {
			if d.value > 0 {
				advice = append(advice, fmt.Sprintf(
					"В %s траты по категории '%s' были выше нормы на %.0f ₽. Это ключевая точка для оптимизации.",
					month, d.category, d.value,
				))
			}
		}
	}
	return advice
}
