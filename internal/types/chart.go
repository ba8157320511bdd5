// Package types provides type definitions for structured data used throughout the chart-agent system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ChartType identifies one of the two supported chart kinds.
type ChartType string

// Supported chart types. Requests for any other kind are refused.
const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
)

// ColorScheme identifies one of the two named palettes.
type ColorScheme string

// Supported color schemes.
const (
	SchemeFD  ColorScheme = "fd"  // teal on beige
	SchemeBNR ColorScheme = "bnr" // yellow on white
)

// RefusalKind categorizes why a request was refused.
type RefusalKind string

// Refusal categories. Exactly one is set on an invalid record.
const (
	RefusalNoData          RefusalKind = "no_data"
	RefusalUnsupportedType RefusalKind = "unsupported_type"
	RefusalOffTopic        RefusalKind = "off_topic"
)

// Pair is a single (label, value) data point in input order.
type Pair struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartRecord is the structured decision produced by a resolver for every
// request. When IsValid is false only RefusalKind and Reason are meaningful;
// when true, XLabels and YValues have equal non-zero length and ChartType is
// one of the two supported values.
type ChartRecord struct {
	IsValid     bool        `json:"is_valid"`
	RefusalKind RefusalKind `json:"refusal_kind,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	ChartType   ChartType   `json:"chart_type,omitempty"`
	Title       string      `json:"title,omitempty"`
	XLabel      string      `json:"x_label,omitempty"`
	YLabel      string      `json:"y_label,omitempty"`
	XLabels     []string    `json:"x_labels,omitempty"`
	YValues     []float64   `json:"y_values,omitempty"`
	ColorScheme ColorScheme `json:"color_scheme,omitempty"`
}

// Pairs returns the record's data as ordered (label, value) pairs.
func (r *ChartRecord) Pairs() []Pair {
	if len(r.XLabels) != len(r.YValues) {
		return nil
	}
	pairs := make([]Pair, len(r.XLabels))
	for i, label := range r.XLabels {
		pairs[i] = Pair{Label: label, Value: r.YValues[i]}
	}
	return pairs
}

// SetPairs replaces the record's data, preserving input order.
func (r *ChartRecord) SetPairs(pairs []Pair) {
	r.XLabels = make([]string, len(pairs))
	r.YValues = make([]float64, len(pairs))
	for i, p := range pairs {
		r.XLabels[i] = p.Label
		r.YValues[i] = p.Value
	}
}

// Consistent reports whether the record honors its structural invariants.
func (r *ChartRecord) Consistent() bool {
	if !r.IsValid {
		return r.RefusalKind == RefusalNoData ||
			r.RefusalKind == RefusalUnsupportedType ||
			r.RefusalKind == RefusalOffTopic
	}
	if len(r.XLabels) == 0 || len(r.XLabels) != len(r.YValues) {
		return false
	}
	return r.ChartType == ChartBar || r.ChartType == ChartLine
}
