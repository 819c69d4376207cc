// Package ingest turns raw bank statement exports (xlsx/csv) into the
// normalized transaction table. Exports typically carry preamble rows
// (client name, period) before the real header, so the header row is
// located by keyword scoring rather than assumed at the top.
package ingest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkomarov/finsight/internal/mcc"
	"github.com/dkomarov/finsight/internal/statement"
)

// headerKeywords are the fragments used to locate the header row.
var headerKeywords = []string{"дата", "сум", "опис", "катег"}

// maxHeaderScan caps how deep into the sheet the header search goes.
const maxHeaderScan = 200

// Ingestor parses one statement export per call. It is stateless and safe
// to share across runs.
type Ingestor struct{}

// NewIngestor returns a statement ingestor.
func NewIngestor() *Ingestor {
	return &Ingestor{}
}

// Run parses the export bytes and returns the normalized table. ext is the
// lowercase file extension ("xlsx" or "csv").
func (ing *Ingestor) Run(content []byte, ext string) (statement.Table, error) {
	rows, err := readRows(content, ext)
	if err != nil {
		return nil, err
	}

	headerIdx, err := FindHeaderRow(rows, headerKeywords)
	if err != nil {
		return nil, err
	}

	cols, err := mapColumns(rows[headerIdx])
	if err != nil {
		return nil, err
	}

	table := make(statement.Table, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		if emptyRow(row) {
			continue
		}
		t, ok := coerceRow(row, cols)
		if !ok {
			continue
		}
		table = append(table, t)
	}

	if len(table) == 0 {
		return nil, ErrEmptyTable
	}
	return table, nil
}

// FindHeaderRow scans up to maxHeaderScan rows and returns the index of
// the row best matching the header keywords. A row matching at least
// len(keywords)-1 fragments wins immediately; otherwise the best-scoring
// row is returned. Fails when no row matches anything.
func FindHeaderRow(rows [][]string, keywords []string) (int, error) {
	bestIdx, bestScore := 0, -1

	limit := len(rows)
	if limit > maxHeaderScan {
		limit = maxHeaderScan
	}

	for i := 0; i < limit; i++ {
		score := 0
		for _, kw := range keywords {
			for _, cell := range rows[i] {
				if strings.Contains(strings.ToLower(cell), kw) {
					score++
					break
				}
			}
		}

		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
		if score >= len(keywords)-1 {
			return i, nil
		}
	}

	if bestScore <= 0 {
		return 0, ErrHeaderNotFound
	}
	return bestIdx, nil
}

// columnMap holds the resolved column index per target field. -1 = absent.
type columnMap struct {
	date        int
	description int
	amount      int
	category    int
}

// mapColumns classifies raw header names into the fixed schema by
// case-insensitive substring match. The first matching raw column per
// target wins. A missing category column is tolerated; the other targets
// are required.
func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{date: -1, description: -1, amount: -1, category: -1}

	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		switch {
		case strings.Contains(name, "дата"):
			if cols.date < 0 {
				cols.date = i
			}
		case strings.Contains(name, "опис") || strings.Contains(name, "назнач"):
			if cols.description < 0 {
				cols.description = i
			}
		case strings.Contains(name, "сум") || strings.Contains(name, "amount"):
			if cols.amount < 0 {
				cols.amount = i
			}
		case strings.Contains(name, "катег"):
			if cols.category < 0 {
				cols.category = i
			}
		}
	}

	if cols.date < 0 || cols.description < 0 || cols.amount < 0 {
		return cols, ErrColumnsMissing
	}
	return cols, nil
}

// dateLayouts are tried in order; day-first forms come first per Russian
// statement convention.
var dateLayouts = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
	"02.01.06",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount parses a signed money value, tolerating thousands spaces,
// currency signs and a comma decimal separator.
func parseAmount(cell string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(cell)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSuffix(s, "₽")
	s = strings.TrimSuffix(s, "RUB")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// coerceRow builds a transaction from a raw row. Rows with an unparsable
// date or amount are dropped.
func coerceRow(row []string, cols columnMap) (*statement.Transaction, bool) {
	date, ok := parseDate(cell(row, cols.date))
	if !ok {
		return nil, false
	}
	amount, ok := parseAmount(cell(row, cols.amount))
	if !ok {
		return nil, false
	}

	desc := strings.TrimSpace(cell(row, cols.description))

	category := statement.CategoryDefault
	if cols.category >= 0 {
		if c := strings.TrimSpace(cell(row, cols.category)); c != "" {
			category = c
		}
	}

	return &statement.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Category:    category,
		MCC:         mcc.Extract(desc),
	}, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
