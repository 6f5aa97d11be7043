package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"yieldplot/domain/core"
	"yieldplot/domain/stats"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options controls figure geometry and styling
type Options struct {
	Width     vg.Length
	Height    vg.Length
	LabelSize vg.Length
	Color     color.NRGBA
	BandAlpha uint8
}

// DefaultOptions is an 8.5 x 5.5 in figure with bold 14pt labels
func DefaultOptions() Options {
	return Options{
		Width:     8.5 * vg.Inch,
		Height:    5.5 * vg.Inch,
		LabelSize: vg.Points(14),
		Color:     color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		BandAlpha: 38, // ~15% opacity
	}
}

// Figure is a scatter of observations with a fitted line and its
// confidence band.
type Figure struct {
	ID     core.FigureID
	XLabel string
	YLabel string

	Plot    *plot.Plot
	Points  plotter.XYs
	Scatter *plotter.Scatter
	Lines   []*plotter.Line
	Band    *plotter.Polygon

	Fit      *stats.Fit
	Interval *stats.Band

	width  vg.Length
	height vg.Length
}

// Build assembles the figure. xs and ys are the observations the fit and
// interval were computed from.
func Build(xs, ys []float64, fit *stats.Fit, interval *stats.Band, xLabel, yLabel string, opts Options) (*Figure, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d vs %d", core.ErrLengthMismatch, len(xs), len(ys))
	}
	if fit == nil || interval == nil {
		return nil, fmt.Errorf("%w: fit and interval are required", core.ErrRender)
	}

	points := make(plotter.XYs, len(xs))
	for i := range xs {
		points[i].X = xs[i]
		points[i].Y = ys[i]
	}

	p := plot.New()
	styleAxisLabel(&p.X, xLabel, opts.LabelSize)
	styleAxisLabel(&p.Y, yLabel, opts.LabelSize)

	fig := &Figure{
		ID:       core.NewFigureID(),
		XLabel:   xLabel,
		YLabel:   yLabel,
		Plot:     p,
		Points:   points,
		Fit:      fit,
		Interval: interval,
		width:    opts.Width,
		height:   opts.Height,
	}

	// band first so the line and points draw over it
	if len(interval.X) >= 2 {
		band, err := plotter.NewPolygon(bandOutline(interval))
		if err != nil {
			return nil, fmt.Errorf("%w: band: %v", core.ErrRender, err)
		}
		shade := opts.Color
		shade.A = opts.BandAlpha
		band.Color = shade
		band.LineStyle.Width = 0
		p.Add(band)
		fig.Band = band
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, fmt.Errorf("%w: scatter: %v", core.ErrRender, err)
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Color = opts.Color
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)
	fig.Scatter = scatter

	line, err := plotter.NewLine(fitLine(interval))
	if err != nil {
		return nil, fmt.Errorf("%w: fit line: %v", core.ErrRender, err)
	}
	line.LineStyle.Color = opts.Color
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)
	fig.Lines = append(fig.Lines, line)

	return fig, nil
}

func styleAxisLabel(axis *plot.Axis, text string, size vg.Length) {
	axis.Label.Text = text
	axis.Label.TextStyle.Font.Size = size
	axis.Label.TextStyle.Font.Weight = xfont.WeightBold
}

func fitLine(interval *stats.Band) plotter.XYs {
	pts := make(plotter.XYs, len(interval.X))
	for i, x := range interval.X {
		pts[i].X = x
		pts[i].Y = interval.Center[i]
	}
	return pts
}

// bandOutline walks the upper edge left to right and the lower edge back.
func bandOutline(interval *stats.Band) plotter.XYs {
	n := len(interval.X)
	pts := make(plotter.XYs, 0, 2*n)
	for i := 0; i < n; i++ {
		pts = append(pts, plotter.XY{X: interval.X[i], Y: interval.Upper[i]})
	}
	for i := n - 1; i >= 0; i-- {
		pts = append(pts, plotter.XY{X: interval.X[i], Y: interval.Lower[i]})
	}
	return pts
}

// PNG renders the figure at its configured size
func (f *Figure) PNG() ([]byte, error) {
	wt, err := f.Plot.WriterTo(f.width, f.height, "png")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRender, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRender, err)
	}
	return buf.Bytes(), nil
}

// Title is the window/page title: "<y label> vs <x label>"
func (f *Figure) Title() string {
	return fmt.Sprintf("%s vs %s", f.YLabel, f.XLabel)
}

// Summary describes the fit as markdown
func (f *Figure) Summary() string {
	r2 := "n/a"
	if !math.IsNaN(f.Fit.RSquared) {
		r2 = fmt.Sprintf("%.3f", f.Fit.RSquared)
	}
	return fmt.Sprintf(
		"### %s\n\n"+
			"| observations | slope | intercept | R² | band |\n"+
			"|---|---|---|---|---|\n"+
			"| %d | %.4g | %.4g | %s | %.0f%% %s |\n",
		f.Title(), f.Fit.N, f.Fit.Slope, f.Fit.Intercept, r2,
		f.Interval.Level*100, f.Interval.Method,
	)
}
