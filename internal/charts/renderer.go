package charts

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jonathan/chart-agent/internal/types"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch

	// maxPoints caps how many data points are drawn to keep charts readable.
	maxPoints = 30
)

// Rendered identifies one chart written to disk in both formats.
type Rendered struct {
	ID      string
	PNGPath string
	SVGPath string
}

// Renderer writes charts into a directory, keeping only the latest one.
type Renderer struct {
	dir string
}

// NewRenderer creates a renderer writing into dir, creating it when missing.
func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create charts directory: %w", err)
	}
	return &Renderer{dir: dir}, nil
}

// Dir returns the directory charts are written to.
func (r *Renderer) Dir() string {
	return r.dir
}

// RenderBoth renders the record as PNG and SVG under the same id, styled with
// the given scheme's palette. Previously rendered charts are removed first.
func (r *Renderer) RenderBoth(rec *types.ChartRecord, scheme types.ColorScheme) (*Rendered, error) {
	if !rec.IsValid || !rec.Consistent() {
		return nil, fmt.Errorf("cannot render an invalid chart record")
	}

	r.cleanup()

	id := uuid.New().String()
	out := &Rendered{
		ID:      id,
		PNGPath: filepath.Join(r.dir, id+".png"),
		SVGPath: filepath.Join(r.dir, id+".svg"),
	}

	// Each format draws its own plot; a plot is not safe to draw twice
	// concurrently.
	var g errgroup.Group
	g.Go(func() error { return r.renderTo(rec, scheme, out.PNGPath, "png") })
	g.Go(func() error { return r.renderTo(rec, scheme, out.SVGPath, "svg") })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Printf("Rendered %s chart %s (png+svg)", rec.ChartType, id)
	return out, nil
}

func (r *Renderer) renderTo(rec *types.ChartRecord, scheme types.ColorScheme, path, format string) error {
	p, err := buildPlot(rec, PaletteFor(scheme))
	if err != nil {
		return err
	}
	w, err := p.WriterTo(chartWidth, chartHeight, format)
	if err != nil {
		return fmt.Errorf("failed to prepare %s writer: %w", format, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()
	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s chart: %w", format, err)
	}
	return nil
}

// buildPlot assembles a styled gonum plot for the record.
func buildPlot(rec *types.ChartRecord, palette Palette) (*plot.Plot, error) {
	labels, values := sample(rec.XLabels, rec.YValues, maxPoints)

	p := plot.New()
	p.BackgroundColor = palette.Background

	p.Title.Text = rec.Title
	p.Title.TextStyle.Color = palette.Content
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(10)

	p.X.Label.Text = rec.XLabel
	p.Y.Label.Text = rec.YLabel
	for _, axis := range []*plot.Axis{&p.X, &p.Y} {
		axis.Label.TextStyle.Color = palette.Content
		axis.LineStyle.Color = palette.Content
		axis.Tick.LineStyle.Color = palette.Content
		axis.Tick.Label.Color = palette.Content
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = palette.Content
	grid.Vertical.Width = vg.Points(0.25)
	grid.Horizontal.Color = palette.Content
	grid.Horizontal.Width = vg.Points(0.25)
	p.Add(grid)

	switch rec.ChartType {
	case types.ChartBar:
		bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(24))
		if err != nil {
			return nil, fmt.Errorf("failed to build bar chart: %w", err)
		}
		bars.Color = palette.Primary
		bars.LineStyle.Color = palette.Content
		bars.LineStyle.Width = vg.Points(0.5)
		p.Add(bars)

	case types.ChartLine:
		xys := make(plotter.XYs, len(values))
		for i, v := range values {
			xys[i] = plotter.XY{X: float64(i), Y: v}
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to build line chart: %w", err)
		}
		line.Color = palette.Primary
		line.Width = vg.Points(2.5)
		points.Color = palette.Primary
		points.Radius = vg.Points(4)
		p.Add(line, points)

	default:
		return nil, fmt.Errorf("unsupported chart type %q", rec.ChartType)
	}

	p.NominalX(labels...)
	if rotateLabels(labels) {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = -1
		p.X.Tick.Label.YAlign = -0.5
	}

	return p, nil
}

// sample thins the data to at most max points, always keeping the first and
// last, so dense series stay readable.
func sample(labels []string, values []float64, max int) ([]string, []float64) {
	n := len(labels)
	if n <= max {
		return labels, values
	}

	step := (n + max - 1) / max
	if step < 1 {
		step = 1
	}
	indices := []int{0}
	for i := step; i < n-1; i += step {
		indices = append(indices, i)
	}
	if indices[len(indices)-1] != n-1 {
		indices = append(indices, n-1)
	}

	outLabels := make([]string, len(indices))
	outValues := make([]float64, len(indices))
	for i, idx := range indices {
		outLabels[i] = labels[idx]
		outValues[i] = values[idx]
	}
	return outLabels, outValues
}

func rotateLabels(labels []string) bool {
	if len(labels) > 12 {
		return true
	}
	for _, label := range labels {
		if len(label) > 10 {
			return true
		}
	}
	return false
}

// cleanup deletes previously rendered chart files; only the latest chart is
// kept on disk.
func (r *Renderer) cleanup() {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		log.Printf("Failed to list charts directory: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".png") || strings.HasSuffix(name, ".svg") {
			if err := os.Remove(filepath.Join(r.dir, name)); err != nil {
				log.Printf("Failed to remove old chart %s: %v", name, err)
			}
		}
	}
}
