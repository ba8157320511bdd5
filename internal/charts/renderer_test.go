package charts

import (
	"os"
	"testing"

	"github.com/jonathan/chart-agent/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barRecord() *types.ChartRecord {
	rec := &types.ChartRecord{
		IsValid:   true,
		ChartType: types.ChartBar,
		Title:     "Fruit Comparison",
		XLabel:    "Category",
		YLabel:    "Value",
	}
	rec.SetPairs([]types.Pair{
		{Label: "Apple", Value: 25},
		{Label: "Banana", Value: 30},
		{Label: "Orange", Value: 20},
	})
	return rec
}

func TestRenderBothWritesBothFormats(t *testing.T) {
	renderer, err := NewRenderer(t.TempDir())
	require.NoError(t, err)

	out, err := renderer.RenderBoth(barRecord(), types.SchemeFD)
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)

	for _, path := range []string{out.PNGPath, out.SVGPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, info.Size(), int64(0), path)
	}
	assert.Contains(t, out.PNGPath, out.ID)
	assert.Contains(t, out.SVGPath, out.ID)
}

func TestRenderLineChart(t *testing.T) {
	renderer, err := NewRenderer(t.TempDir())
	require.NoError(t, err)

	rec := &types.ChartRecord{
		IsValid:   true,
		ChartType: types.ChartLine,
		Title:     "Line Chart Over Time",
		XLabel:    "Time",
		YLabel:    "Value",
	}
	rec.SetPairs([]types.Pair{
		{Label: "Q1", Value: 100},
		{Label: "Q2", Value: 150},
		{Label: "Q3", Value: 200},
		{Label: "Q4", Value: 175},
	})

	_, err = renderer.RenderBoth(rec, types.SchemeBNR)
	assert.NoError(t, err)
}

func TestRenderKeepsOnlyLatestChart(t *testing.T) {
	dir := t.TempDir()
	renderer, err := NewRenderer(dir)
	require.NoError(t, err)

	first, err := renderer.RenderBoth(barRecord(), types.SchemeFD)
	require.NoError(t, err)
	second, err := renderer.RenderBoth(barRecord(), types.SchemeFD)
	require.NoError(t, err)

	_, err = os.Stat(first.PNGPath)
	assert.True(t, os.IsNotExist(err), "old chart should be cleaned up")
	_, err = os.Stat(second.PNGPath)
	assert.NoError(t, err)
}

func TestRenderRejectsInvalidRecord(t *testing.T) {
	renderer, err := NewRenderer(t.TempDir())
	require.NoError(t, err)

	_, err = renderer.RenderBoth(&types.ChartRecord{IsValid: false, RefusalKind: types.RefusalNoData}, types.SchemeFD)
	assert.Error(t, err)

	broken := &types.ChartRecord{IsValid: true, ChartType: types.ChartBar, XLabels: []string{"a", "b"}, YValues: []float64{1}}
	_, err = renderer.RenderBoth(broken, types.SchemeFD)
	assert.Error(t, err)
}

func TestSampleKeepsEndpoints(t *testing.T) {
	labels := make([]string, 100)
	values := make([]float64, 100)
	for i := range labels {
		labels[i] = string(rune('a' + i%26))
		values[i] = float64(i)
	}
	labels[0], labels[99] = "first", "last"

	outLabels, outValues := sample(labels, values, maxPoints)
	assert.LessOrEqual(t, len(outLabels), maxPoints+2)
	assert.Equal(t, len(outLabels), len(outValues))
	assert.Equal(t, "first", outLabels[0])
	assert.Equal(t, "last", outLabels[len(outLabels)-1])
}

func TestSampleSmallInputUnchanged(t *testing.T) {
	labels := []string{"a", "b"}
	values := []float64{1, 2}
	outLabels, outValues := sample(labels, values, maxPoints)
	assert.Equal(t, labels, outLabels)
	assert.Equal(t, values, outValues)
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, paletteFD, PaletteFor(types.SchemeFD))
	assert.Equal(t, paletteBNR, PaletteFor(types.SchemeBNR))
	assert.Equal(t, paletteFD, PaletteFor(""), "unknown scheme falls back to fd")
}
