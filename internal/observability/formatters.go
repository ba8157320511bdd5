// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/chart-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxPointsToShow is the default number of data points to display
	maxPointsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintChartRecord outputs a human-readable summary of a resolved request.
func (p *Printer) PrintChartRecord(rec *types.ChartRecord) {
	if rec == nil {
		return
	}

	if !rec.IsValid {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Refused:  %s\n", rec.RefusalKind))
		sb.WriteString(fmt.Sprintf("Reason:   %s", rec.Reason))
		p.printBox("REQUEST REFUSED", sb.String())
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Type:     %s\n", rec.ChartType))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", rec.Title))
	sb.WriteString(fmt.Sprintf("Axes:     %s / %s\n", rec.XLabel, rec.YLabel))
	if rec.ColorScheme != "" {
		sb.WriteString(fmt.Sprintf("Scheme:   %s\n", rec.ColorScheme))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Data points: %d\n", len(rec.XLabels)))
	count := min(len(rec.XLabels), maxPointsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s = %g\n", rec.XLabels[i], rec.YValues[i]))
	}
	if len(rec.XLabels) > maxPointsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(rec.XLabels)-maxPointsToShow))
	}

	p.printBox("RESOLVED CHART REQUEST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRendered outputs the file paths of a rendered chart.
func (p *Printer) PrintRendered(pngPath, svgPath string) {
	content := fmt.Sprintf("PNG:  %s\nSVG:  %s", pngPath, svgPath)
	p.printBox("RENDERED CHART", content)
}
