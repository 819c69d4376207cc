// Package report renders the analysis results into ordered text blocks.
// Blocks use <b>…</b> emphasis for the presentation layer; each block is
// self-contained and the order is fixed.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dkomarov/finsight/internal/behavior"
	"github.com/dkomarov/finsight/internal/recurring"
	"github.com/dkomarov/finsight/internal/statement"
)

// TopAnomalies caps the unusual-spending block.
const TopAnomalies = 10

// Assembler renders the five report blocks. Stateless.
type Assembler struct{}

// NewAssembler returns a report assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble renders, in order: category breakdown, recurring payments,
// top anomalies, behavioral advice and the savings estimate.
func (a *Assembler) Assemble(
	table statement.Table,
	groups []recurring.Group,
	anomalies statement.Table,
	advice []string,
	savings float64,
) []string {
	return []string{
		a.categoryBreakdown(table),
		a.recurringPayments(groups),
		a.unusualSpending(anomalies),
		a.behaviorAdvice(advice),
		a.savingsEstimate(savings),
	}
}

func (a *Assembler) categoryBreakdown(table statement.Table) string {
	byCategory := make(map[string]float64)
	for _, t := range table {
		byCategory[t.FinalCategory] += t.Amount.InexactFloat64()
	}

	type entry struct {
		category string
		value    float64
	}
	entries := make([]entry, 0, len(byCategory))
	total := 0.0
	for category, sum := range byCategory {
		v := math.Abs(sum)
		entries = append(entries, entry{category, v})
		total += v
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].category < entries[j].category
	})

	lines := []string{"<b>КУДА УХОДЯТ ДЕНЬГИ</b>\n"}
	for _, e := range entries {
		share := 0.0
		if total > 0 {
			share = e.value / total * 100
		}
		lines = append(lines, fmt.Sprintf("- %s: %s ₽ (%.1f%%)", e.category, FormatMoney(e.value), share))
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) recurringPayments(groups []recurring.Group) string {
	lines := []string{"<b>ВАШИ РЕГУЛЯРНЫЕ ПЛАТЕЖИ</b>\n"}

	if len(groups) == 0 {
		lines = append(lines, "Регулярных платежей не найдено.")
		return strings.Join(lines, "\n")
	}

	sorted := make([]recurring.Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total.LessThan(sorted[j].Total)
	})

	for _, g := range sorted {
		total := g.Total.Abs().InexactFloat64()
		avg := total / float64(g.Count)
		lines = append(lines, fmt.Sprintf(
			"- %s → %d раз, ≈ %.0f ₽, всего %s ₽",
			g.Description, g.Count, avg, FormatMoney(total),
		))
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) unusualSpending(anomalies statement.Table) string {
	lines := []string{"<b>НЕОБЫЧНЫЕ ТРАТЫ</b>\n"}

	if len(anomalies) == 0 {
		lines = append(lines, "Аномальных операций не обнаружено.")
		return strings.Join(lines, "\n")
	}

	sorted := make(statement.Table, len(anomalies))
	copy(sorted, anomalies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount.LessThan(sorted[j].Amount)
	})
	if len(sorted) > TopAnomalies {
		sorted = sorted[:TopAnomalies]
	}

	for _, t := range sorted {
		lines = append(lines, fmt.Sprintf(
			"- %s | %s → %s ₽",
			t.Date.Format("2006-01-02"), t.Description, t.Amount.String(),
		))
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) behaviorAdvice(advice []string) string {
	lines := []string{"<b>АНАЛИЗ ФИНАНСОВОГО ПОВЕДЕНИЯ</b>\n"}
	if len(advice) == 0 {
		advice = []string{behavior.StableAdvice}
	}
	for _, line := range advice {
		lines = append(lines, "- "+line)
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) savingsEstimate(savings float64) string {
	return strings.Join([]string{
		"<b>ПОТЕНЦИАЛ ЭКОНОМИИ</b>\n",
		fmt.Sprintf(
			"Если оптимизировать выявленные привычки, можно сохранить около %s ₽ за этот период.",
			FormatMoney(math.Abs(savings)),
		),
	}, "\n")
}

// FormatMoney renders a ruble value with comma thousands separators and
// no decimal places.
func FormatMoney(v float64) string {
	neg := v < 0
	s := fmt.Sprintf("%.0f", math.Abs(v))

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
