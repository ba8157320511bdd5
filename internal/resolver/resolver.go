// Package resolver classifies incoming requests and extracts structured chart
// intent from free text, uploaded tables, and conversation context.
package resolver

import (
	"context"
	"log"

	"github.com/jonathan/chart-agent/internal/llm"
	"github.com/jonathan/chart-agent/internal/types"
)

// Input carries one request into a Resolver: either free text or a
// pre-parsed table handed over by the ingestion layer.
type Input struct {
	// Text is the user's message, or contextual text (e.g. a filename)
	// accompanying a table.
	Text string
	// Table is a pre-parsed ordered sequence of (label, value) pairs.
	// When non-nil it takes precedence over pair extraction from Text.
	Table []types.Pair
	// SourceName is the originating filename for table inputs.
	SourceName string
}

// Resolver decides whether a request is an in-scope chart request and, if so,
// what to plot. Implementations are pure: they never mutate the history and
// every input maps to a ChartRecord. A returned error means the strategy
// itself was unavailable, not that the request was refused.
type Resolver interface {
	Resolve(ctx context.Context, in Input, history []types.Message) (types.ChartRecord, error)
}

// Select picks the resolution strategy at startup. With an LLM client the
// model-backed resolver is preferred and the rule-based one kept as fallback;
// without one the rule-based resolver serves alone.
func Select(client llm.Client) Resolver {
	rules := NewRules()
	if client == nil {
		log.Println("No LLM client configured, using rule-based resolver")
		return rules
	}
	return &Chain{Primary: NewGemini(client), Fallback: rules}
}

// Chain tries a primary strategy and falls back when it is unavailable.
type Chain struct {
	Primary  Resolver
	Fallback Resolver
}

// Resolve runs the primary resolver and falls back on error. The fallback is
// rule-based and always produces a record, so Chain never surfaces an error
// unless both strategies fail.
func (c *Chain) Resolve(ctx context.Context, in Input, history []types.Message) (types.ChartRecord, error) {
	rec, err := c.Primary.Resolve(ctx, in, history)
	if err == nil {
		return rec, nil
	}
	log.Printf("Primary resolver unavailable, falling back to rules: %v", err)
	return c.Fallback.Resolve(ctx, in, history)
}
