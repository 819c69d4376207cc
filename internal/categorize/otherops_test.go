package categorize

import (
	"errors"
	"testing"

	"github.com/dkomarov/finsight/internal/statement"
)

func labeled(desc, category, final string) *statement.Transaction {
	t := tx(desc, category, -100)
	t.FinalCategory = final
	return t
}

func TestOtherOperationsReclassified(t *testing.T) {
	table := statement.Table{
		labeled("такси до аэропорта", "Транспорт", "Транспорт"),
		labeled("поездка на такси по городу", "Транспорт", "Транспорт"),
		labeled("заказ такси ночью", "Транспорт", "Транспорт"),
		labeled("кофе и завтрак в кафе", "Рестораны и кафе", "Рестораны и кафе"),
		labeled("ужин в кафе на набережной", "Рестораны и кафе", "Рестораны и кафе"),
		labeled("обед в кафе у офиса", "Рестораны и кафе", "Рестораны и кафе"),
		// The generic bucket to refine.
		labeled("такси из аэропорта", statement.CategoryOther, statement.CategoryOther),
		labeled("кофе в кафе в центре", statement.CategoryOther, statement.CategoryOther),
	}

	if err := NewOtherOperationsClassifier().Run(table); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := table[6].FinalCategory; got != "Транспорт" {
		t.Errorf("taxi row reclassified as %q, want Транспорт", got)
	}
	if got := table[7].FinalCategory; got != "Рестораны и кафе" {
		t.Errorf("cafe row reclassified as %q, want Рестораны и кафе", got)
	}
}

func TestOtherOperationsResetsNonOtherRows(t *testing.T) {
	// Rows outside the generic bucket get final_category reset to the
	// bank category, even when a richer label was assigned earlier.
	table := statement.Table{
		labeled("такси", "Транспорт", "Транспорт"),
		labeled("кафе", "Рестораны и кафе", "Рестораны и кафе"),
		labeled("перевод на карту", "Переводы", statement.CategoryFinancial),
	}

	if err := NewOtherOperationsClassifier().Run(table); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := table[2].FinalCategory; got != "Переводы" {
		t.Errorf("final category = %q, want bank category Переводы", got)
	}
}

func TestOtherOperationsTrainingErrors(t *testing.T) {
	tests := []struct {
		name  string
		table statement.Table
		want  error
	}{
		{
			name: "no training rows",
			table: statement.Table{
				labeled("что-то", statement.CategoryOther, statement.CategoryOther),
			},
			want: ErrNoTrainingData,
		},
		{
			name: "single class",
			table: statement.Table{
				labeled("такси утром", "Транспорт", "Транспорт"),
				labeled("такси вечером", "Транспорт", "Транспорт"),
				labeled("загадка", statement.CategoryOther, statement.CategoryOther),
			},
			want: ErrSingleClass,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewOtherOperationsClassifier().Run(tt.table)
			if !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}
