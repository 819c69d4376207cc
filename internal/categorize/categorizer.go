// Package categorize assigns the final spending category to every
// transaction. The decision is a fixed-priority cascade: money-movement
// keywords, then the bank's own category, then the MCC lookup, then the
// nearest semantic prototype. Later signals never override earlier ones.
package categorize

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/dkomarov/finsight/internal/mcc"
	"github.com/dkomarov/finsight/internal/statement"
)

// Categorizer resolves final_category per row. Construct once per process
// and share across runs; prototype embeddings are computed lazily and
// cached read-only.
type Categorizer struct {
	embedder Embedder

	protoOnce sync.Once
	protoErr  error
	labels    []string
	protoVecs [][]float64
}

// NewCategorizer creates a categorizer around the injected embedding
// service.
func NewCategorizer(embedder Embedder) *Categorizer {
	return &Categorizer{embedder: embedder}
}

// IsMoneyMovement reports whether the description marks a transfer or
// top-up rather than a genuine purchase.
func IsMoneyMovement(description string) bool {
	desc := strings.ToLower(description)
	for _, kw := range financeKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// rule is one entry of the categorization cascade: the first matching
// rule decides the category.
type rule struct {
	name  string
	match func(t *statement.Transaction) bool
	value func(t *statement.Transaction) string
}

var cascade = []rule{
	{
		name:  "money-movement",
		match: func(t *statement.Transaction) bool { return t.IsMoney },
		value: func(t *statement.Transaction) string { return statement.CategoryFinancial },
	},
	{
		name:  "bank-category",
		match: func(t *statement.Transaction) bool { return t.Category != statement.CategoryOther },
		value: func(t *statement.Transaction) string { return t.Category },
	},
	{
		name:  "mcc-lookup",
		match: func(t *statement.Transaction) bool { return t.MCCCategory != nil },
		value: func(t *statement.Transaction) string { return *t.MCCCategory },
	},
	{
		name:  "semantic",
		match: func(t *statement.Transaction) bool { return true },
		value: func(t *statement.Transaction) string { return t.SemanticCategory },
	},
}

// Run fills IsMoney, MCCCategory, SemanticCategory/Score and
// FinalCategory on every row.
func (c *Categorizer) Run(ctx context.Context, table statement.Table) error {
	if err := c.ensurePrototypes(ctx); err != nil {
		return err
	}

	for _, t := range table {
		t.IsMoney = IsMoneyMovement(t.Description)
		t.MCCCategory = mcc.Classify(t.MCC)
	}

	if err := c.semanticClassify(ctx, table); err != nil {
		return err
	}

	for _, t := range table {
		for _, r := range cascade {
			if r.match(t) {
				t.FinalCategory = r.value(t)
				break
			}
		}
	}
	return nil
}

// semanticClassify embeds all descriptions and assigns the nearest
// prototype label by cosine similarity.
func (c *Categorizer) semanticClassify(ctx context.Context, table statement.Table) error {
	texts := make([]string, len(table))
	for i, t := range table {
		texts[i] = t.Description
	}

	vecs, err := c.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("categorize: embed descriptions: %w", err)
	}

	for i, t := range table {
		best, bestSim := 0, floats.Dot(vecs[i], c.protoVecs[0])
		for j := 1; j < len(c.protoVecs); j++ {
			if sim := floats.Dot(vecs[i], c.protoVecs[j]); sim > bestSim {
				best, bestSim = j, sim
			}
		}
		t.SemanticCategory = c.labels[best]
		t.SemanticScore = bestSim
	}
	return nil
}

// ensurePrototypes embeds the category prototypes once per categorizer
// lifetime.
func (c *Categorizer) ensurePrototypes(ctx context.Context) error {
	c.protoOnce.Do(func() {
		labels := make([]string, len(categoryPrototypes))
		texts := make([]string, len(categoryPrototypes))
		for i, p := range categoryPrototypes {
			labels[i] = p.Label
			texts[i] = p.Text
		}
		vecs, err := c.embedder.Embed(ctx, texts)
		if err != nil {
			c.protoErr = fmt.Errorf("categorize: embed prototypes: %w", err)
			return
		}
		c.labels = labels
		c.protoVecs = vecs
	})
	return c.protoErr
}
