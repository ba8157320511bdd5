package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/chart-agent/internal/types"
)

// minPairs is the minimum number of (label, value) pairs for a request to
// count as carrying concrete data.
const minPairs = 2

var (
	// pairPattern matches "label=value" and "label: value" tokens. The value
	// side is restricted to number-looking tokens so that prose colons
	// ("Chart this: Q1=100") don't swallow the real pairs.
	pairPattern = regexp.MustCompile(`([A-Za-z0-9][A-Za-z0-9 /_.'-]*?)\s*[=:]\s*([$€£]?-?\d[\d,]*\.?\d*[kKmMbB%]?)`)

	// explicitPattern finds an explicit chart-type instruction.
	explicitPattern = regexp.MustCompile(`\b(bar|line)[ -](chart|graph)s?\b`)

	// temporalPatterns mark a label as a time-axis token.
	temporalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)\b`),
		regexp.MustCompile(`(?i)\b(january|february|march|april|june|july|august|september|october|november|december)\b`),
		regexp.MustCompile(`(?i)\b(mon|tue|wed|thu|fri|sat|sun)\b`),
		regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		regexp.MustCompile(`(?i)\bq[1-4]\b`),
		regexp.MustCompile(`\b(19|20)\d{2}\b`),
		regexp.MustCompile(`(?i)\b(week|month|quarter|year|day|hour)\b`),
		regexp.MustCompile(`\d{4}-\d{2}(-\d{2})?`),
		regexp.MustCompile(`\d{1,2}/\d{1,2}(/\d{2,4})?`),
	}

	// unsupportedPattern catches requests for chart kinds outside bar/line.
	unsupportedPattern = regexp.MustCompile(`\b(pie|scatter|donut|doughnut|bubble|radar|heatmap|gauge|waterfall|candlestick|violin|treemap|area|box)[ -]?(chart|graph|plot)s?\b|\bhistogram\b`)

	// intentWords signal the message is about charting even without data.
	intentWords = []string{"chart", "graph", "plot", "visuali", "diagram"}

	// previousWords signal a follow-up referencing earlier data.
	previousWords = []string{"previous", "same", "earlier", "last", "instead", "that data", "those numbers"}

	// styleWords signal a restyle request when combined with a scheme keyword.
	styleWords = []string{"change color", "change the color", "change style", "colors", "colour", "style", "make it", "use", "switch"}
)

// Rules is the always-available rule-based resolver. It is pure and never
// returns an error: every input maps to a ChartRecord.
type Rules struct{}

// NewRules creates a rule-based resolver.
func NewRules() *Rules {
	return &Rules{}
}

// Resolve classifies the request and extracts chart intent. See the package
// documentation for the priority order between explicit instructions,
// data-shape inference, and defaults.
func (r *Rules) Resolve(_ context.Context, in Input, history []types.Message) (types.ChartRecord, error) {
	lower := strings.ToLower(in.Text)

	// Requests for unsupported chart kinds are refused outright, with or
	// without data, naming the requested kind.
	if kind := unsupportedType(lower); kind != "" {
		return refusal(types.RefusalUnsupportedType,
			fmt.Sprintf("Sorry, I can't create %s charts. I can only create bar or line charts - happy to make one of those from your data!", kind)), nil
	}

	pairs := in.Table
	if pairs == nil {
		pairs = ExtractPairs(in.Text)
	}

	if len(pairs) < minPairs {
		return r.resolveWithoutData(lower, history), nil
	}

	chartType := resolveChartType(lower, labelsOf(pairs), "")

	rec := types.ChartRecord{
		IsValid:     true,
		ChartType:   chartType,
		Title:       generateTitle(chartType, labelsOf(pairs), in.SourceName),
		XLabel:      axisLabel(labelsOf(pairs)),
		YLabel:      "Value",
		ColorScheme: DetectScheme(lower),
	}
	rec.SetPairs(pairs)
	return rec, nil
}

// resolveWithoutData handles messages carrying fewer than two usable pairs:
// restyle requests and follow-ups reuse the last chart from context, anything
// else is refused.
func (r *Rules) resolveWithoutData(lower string, history []types.Message) types.ChartRecord {
	meta := lastChartMeta(history)

	if isStyleChange(lower) {
		if meta == nil {
			return refusal(types.RefusalNoData,
				"I couldn't find a previous chart to restyle. Please provide the data again, like: A=10, B=20.")
		}
		rec := restyledRecord(meta, lower)
		return rec
	}

	if hasChartIntent(lower) {
		if meta != nil && referencesPrevious(lower) {
			pairs := pairsOf(meta)
			chartType := resolveChartType(lower, meta.XLabels, meta.ChartType)
			rec := types.ChartRecord{
				IsValid:     true,
				ChartType:   chartType,
				Title:       generateTitle(chartType, meta.XLabels, ""),
				XLabel:      axisLabel(meta.XLabels),
				YLabel:      "Value",
				ColorScheme: DetectScheme(lower),
			}
			rec.SetPairs(pairs)
			return rec
		}
		return refusal(types.RefusalNoData,
			"I couldn't find any data to chart. Please provide at least two data points, like: A=10, B=20, C=30.")
	}

	return refusal(types.RefusalOffTopic,
		"I can only help you create bar or line charts. Please ask me to make a chart with some data!")
}

// restyledRecord rebuilds the last chart with a new color scheme, keeping its
// data and chart type.
func restyledRecord(meta *types.ChartMeta, lower string) types.ChartRecord {
	chartType := resolveChartType(lower, meta.XLabels, meta.ChartType)
	rec := types.ChartRecord{
		IsValid:     true,
		ChartType:   chartType,
		Title:       meta.Title,
		XLabel:      axisLabel(meta.XLabels),
		YLabel:      "Value",
		ColorScheme: DetectScheme(lower),
	}
	if rec.Title == "" {
		rec.Title = generateTitle(chartType, meta.XLabels, "")
	}
	rec.SetPairs(pairsOf(meta))
	return rec
}

// resolveChartType applies the strict priority hierarchy: an explicit
// instruction wins outright, then data-shape inference, then the bar default.
// A carried-over type from context slots in between explicit and inference.
func resolveChartType(lower string, labels []string, carried types.ChartType) types.ChartType {
	if m := explicitPattern.FindStringSubmatch(lower); m != nil {
		if m[1] == "line" {
			return types.ChartLine
		}
		return types.ChartBar
	}
	if carried == types.ChartBar || carried == types.ChartLine {
		return carried
	}
	if isTimeSeries(labels) {
		return types.ChartLine
	}
	return types.ChartBar
}

// ExtractPairs finds ordered "label=value" / "label: value" pairs in free
// text. Pairs whose value fails numeric coercion are dropped silently; the
// remaining pairs keep their input order.
func ExtractPairs(text string) []types.Pair {
	var pairs []types.Pair
	pos := 0
	for pos < len(text) {
		loc := pairPattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		valueStart, valueEnd := pos+loc[4], pos+loc[5]

		// A numeric token directly followed by a separator is itself the
		// label of the next pair ("revenue: 2021=10"); rescan from it.
		if valueEnd < len(text) && (text[valueEnd] == '=' || text[valueEnd] == ':') {
			pos = valueStart
			continue
		}

		label := strings.TrimSpace(text[pos+loc[2] : pos+loc[3]])
		value, ok := coerceNumber(text[valueStart:valueEnd])
		if ok && label != "" {
			pairs = append(pairs, types.Pair{Label: label, Value: value})
		}
		pos = valueEnd
	}
	return pairs
}

// coerceNumber parses a number-looking token into a float. Currency symbols,
// thousands separators, a trailing percent sign, and k/m/b magnitude
// suffixes are accepted.
func coerceNumber(token string) (float64, bool) {
	s := strings.TrimSpace(token)
	s = strings.TrimLeft(s, "$€£")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(strings.ToLower(s), "k"):
		multiplier = 1e3
		s = s[:len(s)-1]
	case strings.HasSuffix(strings.ToLower(s), "m"):
		multiplier = 1e6
		s = s[:len(s)-1]
	case strings.HasSuffix(strings.ToLower(s), "b"):
		multiplier = 1e9
		s = s[:len(s)-1]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f * multiplier, true
}

// isTimeSeries reports whether any label looks like a temporal marker.
func isTimeSeries(labels []string) bool {
	for _, label := range labels {
		for _, pattern := range temporalPatterns {
			if pattern.MatchString(label) {
				return true
			}
		}
	}
	return false
}

// unsupportedType returns the name of an unsupported chart kind mentioned in
// the message, or the empty string.
func unsupportedType(lower string) string {
	m := unsupportedPattern.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return "histogram"
}

func hasChartIntent(lower string) bool {
	for _, word := range intentWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func referencesPrevious(lower string) bool {
	for _, word := range previousWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// isStyleChange reports whether the message asks to restyle rather than to
// chart new data: a style phrase combined with a recognizable scheme keyword.
func isStyleChange(lower string) bool {
	if DetectScheme(lower) == "" {
		return false
	}
	for _, word := range styleWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func generateTitle(chartType types.ChartType, labels []string, sourceName string) string {
	if sourceName != "" {
		return "Chart from " + sourceName
	}
	name := "Bar Chart"
	if chartType == types.ChartLine {
		name = "Line Chart"
	}
	if isTimeSeries(labels) {
		return name + " Over Time"
	}
	return name + " Comparison"
}

func axisLabel(labels []string) string {
	if isTimeSeries(labels) {
		return "Time"
	}
	return "Category"
}

func labelsOf(pairs []types.Pair) []string {
	labels := make([]string, len(pairs))
	for i, p := range pairs {
		labels[i] = p.Label
	}
	return labels
}

func pairsOf(meta *types.ChartMeta) []types.Pair {
	n := min(len(meta.XLabels), len(meta.YValues))
	pairs := make([]types.Pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = types.Pair{Label: meta.XLabels[i], Value: meta.YValues[i]}
	}
	return pairs
}

func lastChartMeta(history []types.Message) *types.ChartMeta {
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role == types.RoleAssistant && msg.Meta != nil && len(msg.Meta.XLabels) > 0 {
			return msg.Meta
		}
	}
	return nil
}

func refusal(kind types.RefusalKind, reason string) types.ChartRecord {
	return types.ChartRecord{IsValid: false, RefusalKind: kind, Reason: reason}
}
