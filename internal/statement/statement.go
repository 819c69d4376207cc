// Package statement defines the normalized transaction table shared by all
// analysis stages. A table is owned by exactly one pipeline run.
package statement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category sentinels used by the bank export and the categorization cascade.
const (
	// CategoryOther is the bank's generic bucket for operations it could
	// not classify.
	CategoryOther = "Прочие операции"

	// CategoryFinancial marks transfers, top-ups and other money movement.
	CategoryFinancial = "Финансовые операции"

	// CategoryDefault is assigned when the export has no category column.
	CategoryDefault = "Другое"
)

// Transaction is one row of the working table. Date, Description, Amount,
// Category and MCC come from the ingestor; the remaining fields are filled
// in by later stages.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = debit, positive = credit
	Category    string          // bank-assigned label
	MCC         *int            // merchant category code, if present

	IsMoney          bool    // transfer / top-up
	MCCCategory      *string // label from the MCC lookup
	SemanticCategory string
	SemanticScore    float64
	FinalCategory    string
	Anomaly          int // 1 = flagged by the anomaly detector
	MerchantID       string
}

// Month returns the calendar month bucket of the transaction, formatted
// YYYY-MM.
func (t *Transaction) Month() string {
	return t.Date.Format("2006-01")
}

// Table is an ordered transaction table. Rows keep the original statement
// order; stages mutate rows in place and hand the table to the next stage.
type Table []*Transaction

// Anomalies returns the rows flagged by the anomaly detector, preserving
// table order.
func (tb Table) Anomalies() Table {
	out := make(Table, 0)
	for _, t := range tb {
		if t.Anomaly == 1 {
			out = append(out, t)
		}
	}
	return out
}
