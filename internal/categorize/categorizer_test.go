package categorize

import (
	"context"
	"hash/fnv"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkomarov/finsight/internal/ml"
	"github.com/dkomarov/finsight/internal/statement"
)

// tokenEmbedder is a deterministic stand-in for the embedding service:
// each text becomes a normalized bag-of-tokens vector, so cosine
// similarity reflects token overlap.
type tokenEmbedder struct {
	calls int
}

func (e *tokenEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	e.calls++
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, 128)
		for _, tok := range ml.Tokenize(text) {
			h := fnv.New32a()
			h.Write([]byte(tok))
			vec[h.Sum32()%128]++
		}
		var ss float64
		for _, v := range vec {
			ss += v * v
		}
		if ss > 0 {
			inv := 1 / math.Sqrt(ss)
			for j := range vec {
				vec[j] *= inv
			}
		}
		out[i] = vec
	}
	return out, nil
}

func tx(desc, category string, amount float64) *statement.Transaction {
	return &statement.Transaction{
		Date:        time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Amount:      decimal.NewFromFloat(amount),
		Category:    category,
	}
}

func TestIsMoneyMovement(t *testing.T) {
	tests := []struct {
		desc string
		want bool
	}{
		{"Перевод на карту 1234", true},
		{"Пополнение счета", true},
		{"Снятие наличных в банкомате", true},
		{"Покупка в супермаркете", false},
		{"ПЕРЕВОД ПО СБП", true},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := IsMoneyMovement(tt.desc); got != tt.want {
				t.Errorf("IsMoneyMovement(%q) = %v, want %v", tt.desc, got, tt.want)
			}
		})
	}
}

func TestCascadePriority(t *testing.T) {
	mccCode := 5411

	tests := []struct {
		name string
		tx   *statement.Transaction
		want string
	}{
		{
			// Money movement beats everything, including the bank category.
			name: "money movement wins",
			tx:   tx("Перевод на карту MCC 5411", "Супермаркеты", -100),
			want: statement.CategoryFinancial,
		},
		{
			name: "bank category trusted",
			tx:   tx("Покупка", "Рестораны и кафе", -100),
			want: "Рестораны и кафе",
		},
		{
			name: "mcc fallback for other bucket",
			tx: func() *statement.Transaction {
				t := tx("Оплата товаров", statement.CategoryOther, -100)
				t.MCC = &mccCode
				return t
			}(),
			want: "Супермаркеты",
		},
		{
			name: "semantic fallback",
			tx:   tx("доставка еды из кафе", statement.CategoryOther, -100),
			want: "Рестораны и кафе",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCategorizer(&tokenEmbedder{})
			if err := c.Run(context.Background(), statement.Table{tt.tx}); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if tt.tx.FinalCategory != tt.want {
				t.Errorf("final category = %q, want %q", tt.tx.FinalCategory, tt.want)
			}
		})
	}
}

func TestMoneyMovementAlwaysFinancial(t *testing.T) {
	// Money movement forces the financial category regardless of bank
	// category or MCC.
	mccCode := 5812
	row := tx("Перевод между счетами", "Рестораны и кафе", -500)
	row.MCC = &mccCode

	c := NewCategorizer(&tokenEmbedder{})
	if err := c.Run(context.Background(), statement.Table{row}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !row.IsMoney {
		t.Fatal("IsMoney not set")
	}
	if row.FinalCategory != statement.CategoryFinancial {
		t.Errorf("final category = %q, want %q", row.FinalCategory, statement.CategoryFinancial)
	}
}

func TestCategorizerIdempotent(t *testing.T) {
	table := statement.Table{
		tx("Перевод на карту", "Прочие операции", -100),
		tx("Супермаркет Пятерочка", "Супермаркеты", -2000),
		tx("доставка еды из кафе", statement.CategoryOther, -300),
	}

	c := NewCategorizer(&tokenEmbedder{})
	ctx := context.Background()
	if err := c.Run(ctx, table); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}

	first := make([]string, len(table))
	for i, row := range table {
		first[i] = row.FinalCategory
	}

	if err := c.Run(ctx, table); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	for i, row := range table {
		if row.FinalCategory != first[i] {
			t.Errorf("row %d category changed: %q -> %q", i, first[i], row.FinalCategory)
		}
	}
}

func TestFinalCategoryNeverEmpty(t *testing.T) {
	table := statement.Table{
		tx("Перевод", "Прочие операции", -1),
		tx("ZZZ UNKNOWN MERCHANT", statement.CategoryOther, -1),
		tx("Кафе", "Рестораны и кафе", -1),
	}

	c := NewCategorizer(&tokenEmbedder{})
	if err := c.Run(context.Background(), table); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i, row := range table {
		if row.FinalCategory == "" {
			t.Errorf("row %d has empty final category", i)
		}
	}
}

func TestPrototypesEmbeddedOnce(t *testing.T) {
	emb := &tokenEmbedder{}
	c := NewCategorizer(emb)
	ctx := context.Background()

	table := statement.Table{tx("Кафе", statement.CategoryOther, -1)}
	if err := c.Run(ctx, table); err != nil {
		t.Fatal(err)
	}
	if err := c.Run(ctx, table); err != nil {
		t.Fatal(err)
	}

	// One prototype call plus one description call per run.
	if emb.calls != 3 {
		t.Errorf("embedder called %d times, want 3 (prototypes cached)", emb.calls)
	}
}
