// Package recurring finds subscription-like payments: merchant groups
// with at least three debits, steady timing and stable amounts.
package recurring

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkomarov/finsight/internal/ml"
	"github.com/dkomarov/finsight/internal/statement"
)

// Group is one merchant's payment history with its regularity features.
type Group struct {
	MerchantID  string
	Description string // representative description, truncated
	Dates       []time.Time
	Amounts     []decimal.Decimal
	Count       int
	Total       decimal.Decimal
	Features    [4]float64 // mean/std of day gaps, mean/std of amounts
	Cluster     int        // diagnostic only
	IsRecurring bool
}

// Detector clusters merchant groups by regularity features and applies the
// coverage/stability rules. Stateless; safe to share.
type Detector struct {
	Eps       float64
	MinPoints int

	// Recurring rule thresholds.
	MinMonths   int
	MinCoverage float64
	MaxAmountCV float64
}

// NewDetector returns a detector with the standard thresholds.
func NewDetector() *Detector {
	return &Detector{
		Eps:         0.9,
		MinPoints:   1,
		MinMonths:   3,
		MinCoverage: 0.5,
		MaxAmountCV: 0.7,
	}
}

var (
	digitsRe = regexp.MustCompile(`[0-9]+`)
	punctRe  = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// NormalizeDescription strips digits, punctuation and extra whitespace so
// the same merchant collapses to one key despite per-payment noise.
func NormalizeDescription(text string) string {
	text = strings.ToLower(text)
	text = digitsRe.ReplaceAllString(text, " ")
	text = punctRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// MerchantID derives the grouping key from normalized description + MCC.
func MerchantID(t *statement.Transaction) string {
	mccPart := ""
	if t.MCC != nil {
		mccPart = fmt.Sprintf("%d", *t.MCC)
	}
	return NormalizeDescription(t.Description) + "|" + mccPart
}

// Run returns the merchant groups judged recurring. An empty result is a
// valid outcome.
func (d *Detector) Run(table statement.Table) []Group {
	groups := d.buildGroups(table)
	if len(groups) == 0 {
		return groups
	}

	features := make([][]float64, len(groups))
	for i := range groups {
		groups[i].Features = timeFeatures(groups[i].Dates, groups[i].Amounts)
		features[i] = groups[i].Features[:]
	}

	scaler := &ml.StandardScaler{}
	X, err := scaler.FitTransform(features)
	if err == nil {
		clustering := &ml.DBSCAN{Eps: d.Eps, MinPoints: d.MinPoints}
		labels := clustering.FitPredict(X)
		for i := range groups {
			groups[i].Cluster = labels[i]
		}
	}

	out := make([]Group, 0, len(groups))
	for i := range groups {
		groups[i].IsRecurring = d.isRecurring(&groups[i])
		if groups[i].IsRecurring {
			out = append(out, groups[i])
		}
	}
	return out
}

// buildGroups filters to genuine expenses, assigns merchant IDs and keeps
// merchants with at least three payments. Group order follows first
// appearance in the table.
func (d *Detector) buildGroups(table statement.Table) []Group {
	byMerchant := make(map[string]*Group)
	var order []string

	for _, t := range table {
		if t.IsMoney || !t.Amount.IsNegative() {
			continue
		}
		t.MerchantID = MerchantID(t)

		g, ok := byMerchant[t.MerchantID]
		if !ok {
			desc := t.Description
			if len([]rune(desc)) > 60 {
				desc = string([]rune(desc)[:60])
			}
			g = &Group{MerchantID: t.MerchantID, Description: desc}
			byMerchant[t.MerchantID] = g
			order = append(order, t.MerchantID)
		}
		g.Dates = append(g.Dates, t.Date)
		g.Amounts = append(g.Amounts, t.Amount)
		g.Count++
		g.Total = g.Total.Add(t.Amount)
	}

	var groups []Group
	for _, id := range order {
		if g := byMerchant[id]; g.Count >= 3 {
			groups = append(groups, *g)
		}
	}
	return groups
}

// timeFeatures builds the 4-vector of payment regularity: mean and std of
// gaps between consecutive payment days, mean and std of amounts.
func timeFeatures(dates []time.Time, amounts []decimal.Decimal) [4]float64 {
	days := make([]int, len(dates))
	for i, dt := range dates {
		days[i] = int(dt.Unix() / 86400)
	}
	sort.Ints(days)

	gaps := make([]float64, 0, len(days)-1)
	for i := 1; i < len(days); i++ {
		gaps = append(gaps, float64(days[i]-days[i-1]))
	}

	amts := floatAmounts(amounts)
	return [4]float64{
		ml.Mean(gaps),
		ml.PopStdDev(gaps),
		ml.Mean(amts),
		ml.PopStdDev(amts),
	}
}

// isRecurring applies the subscription rules: payments in at least
// MinMonths distinct months, covering at least half the month span, with
// amount variation below the CV threshold.
func (d *Detector) isRecurring(g *Group) bool {
	months := make(map[string]bool)
	minMonth, maxMonth := 0, 0
	for i, dt := range g.Dates {
		months[dt.Format("2006-01")] = true
		m := dt.Year()*12 + int(dt.Month())
		if i == 0 || m < minMonth {
			minMonth = m
		}
		if i == 0 || m > maxMonth {
			maxMonth = m
		}
	}

	span := maxMonth - minMonth + 1
	coverage := float64(len(months)) / float64(span)

	amts := floatAmounts(g.Amounts)
	meanAmt := ml.Mean(amts)
	stdAmt := ml.PopStdDev(amts)
	if meanAmt == 0 {
		return false
	}
	cv := math.Abs(stdAmt / meanAmt)

	return len(months) >= d.MinMonths &&
		coverage >= d.MinCoverage &&
		cv < d.MaxAmountCV
}

func floatAmounts(amounts []decimal.Decimal) []float64 {
	out := make([]float64, len(amounts))
	for i, a := range amounts {
		out[i] = a.InexactFloat64()
	}
	return out
}
