package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/chart-agent/internal/types"
)

func validRecord() *types.ChartRecord {
	rec := &types.ChartRecord{
		IsValid:   true,
		ChartType: types.ChartLine,
		Title:     "Quarterly Revenue",
		XLabel:    "Time",
		YLabel:    "Value",
	}
	rec.SetPairs([]types.Pair{
		{Label: "Q1", Value: 100},
		{Label: "Q2", Value: 150},
	})
	return rec
}

func TestPrintChartRecord(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintChartRecord(validRecord())

	out := buf.String()
	assert.Contains(t, out, "RESOLVED CHART REQUEST")
	assert.Contains(t, out, "line")
	assert.Contains(t, out, "Quarterly Revenue")
	assert.Contains(t, out, "Q1 = 100")
}

func TestPrintChartRecordRefusal(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintChartRecord(&types.ChartRecord{
		IsValid:     false,
		RefusalKind: types.RefusalOffTopic,
		Reason:      "I can only help with charts.",
	})

	out := buf.String()
	assert.Contains(t, out, "REQUEST REFUSED")
	assert.Contains(t, out, "off_topic")
}

func TestPrintChartRecordTruncatesLongLists(t *testing.T) {
	rec := validRecord()
	var pairs []types.Pair
	for i := 0; i < 20; i++ {
		pairs = append(pairs, types.Pair{Label: "L", Value: float64(i)})
	}
	rec.SetPairs(pairs)

	var buf bytes.Buffer
	NewPrinter(&buf).PrintChartRecord(rec)
	assert.Contains(t, buf.String(), "and 12 more")
}

func TestPrintChartRecordNil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintChartRecord(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRendered(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRendered("charts/x.png", "charts/x.svg")

	out := buf.String()
	assert.Contains(t, out, "RENDERED CHART")
	assert.Contains(t, out, "charts/x.png")
	assert.Contains(t, out, "charts/x.svg")
}
