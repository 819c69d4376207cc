// Package savings combines abnormal-month overspend and recurring
// payments into a single savings estimate.
package savings

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/dkomarov/finsight/internal/behavior"
	"github.com/dkomarov/finsight/internal/recurring"
)

// Recovery assumptions: half of any month's overspend is avoidable, and
// most subscriptions can be cancelled.
const (
	OverspendShare = 0.5
	RecurringShare = 0.6
)

// Estimator computes the savings figure. Stateless.
type Estimator struct{}

// NewEstimator returns a savings estimator.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// Estimate returns the potential savings, rounded to 2 decimal places and
// never negative. Without both normal and abnormal months there is no
// baseline to compare against and the estimate is zero.
func (e *Estimator) Estimate(groups []recurring.Group, profile *behavior.Profile) float64 {
	if profile == nil || profile.NormalCount() == 0 || profile.AbnormalCount() == 0 {
		return 0.0
	}

	baseline := profile.Baseline()
	savings := 0.0

	for i := range profile.Months {
		if !profile.Abnormal[i] {
			continue
		}
		for j := range profile.Categories {
			if diff := profile.Spend[i][j] - baseline[j]; diff > 0 {
				savings += diff * OverspendShare
			}
		}
	}

	if len(groups) > 0 {
		total := decimal.Zero
		for _, g := range groups {
			total = total.Add(g.Total)
		}
		savings += total.Abs().InexactFloat64() * RecurringShare
	}

	return math.Round(savings*100) / 100
}
