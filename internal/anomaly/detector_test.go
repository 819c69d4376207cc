package anomaly

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkomarov/finsight/internal/statement"
)

func row(amount float64, day int) *statement.Transaction {
	return &statement.Transaction{
		Date:        time.Date(2025, 7, day%28+1, 0, 0, 0, 0, time.UTC),
		Description: "Покупка",
		Amount:      decimal.NewFromFloat(amount),
	}
}

func TestExtremeOutlierFlagged(t *testing.T) {
	var table statement.Table
	for i := 0; i < 20; i++ {
		table = append(table, row(-100-float64(i)*95, i)) // -100 .. -1905
	}
	outlier := row(-500000, 21)
	table = append(table, outlier)

	if err := NewDetector().Run(table); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if outlier.Anomaly != 1 {
		t.Error("extreme outlier not flagged")
	}
	for i, tr := range table[:20] {
		if tr.Anomaly != 0 {
			t.Errorf("normal row %d flagged", i)
		}
	}
}

func TestDeterministicFlags(t *testing.T) {
	build := func() statement.Table {
		var table statement.Table
		for i := 0; i < 30; i++ {
			table = append(table, row(-50-float64(i%7)*130, i))
		}
		table = append(table, row(-90000, 30))
		return table
	}

	a, b := build(), build()
	if err := NewDetector().Run(a); err != nil {
		t.Fatal(err)
	}
	if err := NewDetector().Run(b); err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i].Anomaly != b[i].Anomaly {
			t.Errorf("row %d flag differs across runs", i)
		}
	}
}

func TestEmptyTable(t *testing.T) {
	if err := NewDetector().Run(statement.Table{}); err != nil {
		t.Errorf("Run on empty table failed: %v", err)
	}
}

func TestAnomaliesHelper(t *testing.T) {
	table := statement.Table{row(-100, 1), row(-200, 2), row(-300, 3)}
	table[1].Anomaly = 1

	got := table.Anomalies()
	if len(got) != 1 || got[0] != table[1] {
		t.Errorf("Anomalies() = %d rows, want the flagged row only", len(got))
	}
}
