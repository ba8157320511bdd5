package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/chart-agent/internal/llm"
	"github.com/jonathan/chart-agent/internal/prompts"
	"github.com/jonathan/chart-agent/internal/schemas"
	"github.com/jonathan/chart-agent/internal/types"
)

// historyWindow caps how many prior turns are included in the prompt.
const historyWindow = 10

// Gemini is the model-backed resolver. Any failure (transport, malformed
// output, schema violation) is returned as an error so the caller can fall
// back to the rule-based strategy.
type Gemini struct {
	client llm.Client
}

// NewGemini creates a model-backed resolver on top of an LLM client.
func NewGemini(client llm.Client) *Gemini {
	return &Gemini{client: client}
}

// Resolve sends the message and recent conversation history to the model and
// normalizes its JSON answer into a ChartRecord.
func (g *Gemini) Resolve(ctx context.Context, in Input, history []types.Message) (types.ChartRecord, error) {
	prompt, err := g.buildPrompt(in, history)
	if err != nil {
		return types.ChartRecord{}, err
	}

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return types.ChartRecord{}, fmt.Errorf("model request failed: %w", err)
	}

	raw = llm.ExtractJSONObject(raw)
	if err := schemas.ValidateChartRecord([]byte(raw)); err != nil {
		return types.ChartRecord{}, fmt.Errorf("model returned invalid record: %w", err)
	}

	var rec types.ChartRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return types.ChartRecord{}, fmt.Errorf("failed to parse model record: %w", err)
	}

	return g.normalize(rec, in)
}

func (g *Gemini) buildPrompt(in Input, history []types.Message) (string, error) {
	system, err := prompts.Get("resolver.json", "system")
	if err != nil {
		return "", err
	}

	message := in.Text
	if in.Table != nil {
		message = tableMessage(in)
	}

	return prompts.Format(system, map[string]string{
		"History": formatHistory(history),
		"Message": message,
	}), nil
}

// tableMessage renders a pre-parsed table as text for the model.
func tableMessage(in Input) string {
	var sb strings.Builder
	sb.WriteString("Create a chart from this spreadsheet data")
	if in.SourceName != "" {
		fmt.Fprintf(&sb, " (file: %s)", in.SourceName)
	}
	sb.WriteString(":\n")
	for _, pair := range in.Table {
		fmt.Fprintf(&sb, "%s = %g\n", pair.Label, pair.Value)
	}
	return sb.String()
}

func formatHistory(history []types.Message) string {
	if len(history) == 0 {
		return "(none)"
	}
	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	var sb strings.Builder
	for _, msg := range history[start:] {
		fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
		if msg.Meta != nil && len(msg.Meta.XLabels) > 0 {
			labels, _ := json.Marshal(msg.Meta.XLabels)
			values, _ := json.Marshal(msg.Meta.YValues)
			fmt.Fprintf(&sb, "  [chart: type=%s x_labels=%s y_values=%s]\n",
				msg.Meta.ChartType, labels, values)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// normalize enforces the record invariants on model output. Records the model
// got structurally wrong are rejected with an error rather than repaired,
// except for two benign gaps: a missing chart type (inferred from the data)
// and a missing refusal kind (classified from the message).
func (g *Gemini) normalize(rec types.ChartRecord, in Input) (types.ChartRecord, error) {
	lower := strings.ToLower(in.Text)

	if !rec.IsValid {
		rec.ChartType = ""
		rec.XLabels = nil
		rec.YValues = nil
		if rec.RefusalKind == "" {
			rec.RefusalKind = classifyRefusal(lower)
		}
		if rec.Reason == "" {
			rec.Reason = "I can only help you create bar or line charts. Please ask me to make a chart with some data!"
		}
		return rec, nil
	}

	if len(rec.XLabels) == 0 || len(rec.XLabels) != len(rec.YValues) {
		return types.ChartRecord{}, fmt.Errorf("model marked record valid with inconsistent data (%d labels, %d values)",
			len(rec.XLabels), len(rec.YValues))
	}
	if rec.ChartType == "" {
		rec.ChartType = resolveChartType(lower, rec.XLabels, "")
	}
	if rec.ChartType != types.ChartBar && rec.ChartType != types.ChartLine {
		return types.ChartRecord{}, fmt.Errorf("model chose unsupported chart type %q", rec.ChartType)
	}
	if rec.Title == "" {
		rec.Title = generateTitle(rec.ChartType, rec.XLabels, in.SourceName)
	}
	rec.RefusalKind = ""
	return rec, nil
}

// classifyRefusal picks the refusal category for a model refusal that did not
// carry one, using the same signals as the rule-based resolver.
func classifyRefusal(lower string) types.RefusalKind {
	if unsupportedType(lower) != "" {
		return types.RefusalUnsupportedType
	}
	if hasChartIntent(lower) {
		return types.RefusalNoData
	}
	return types.RefusalOffTopic
}
