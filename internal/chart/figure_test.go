package chart

import (
	"bytes"
	"errors"
	"testing"

	"yieldplot/domain/core"
	"yieldplot/internal/analysis/regression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/vg"
)

func buildWeekly(t *testing.T) *Figure {
	t.Helper()
	xs := []float64{1, 2, 3}
	ys := []float64{10, 20, 30}

	fit, err := regression.FitOLS(xs, ys)
	require.NoError(t, err)
	band, err := regression.AnalyticBand(fit, 0.95, regression.Grid(fit.XMin, fit.XMax, regression.DefaultGridSize))
	require.NoError(t, err)

	fig, err := Build(xs, ys, fit, band, "Week", "Yield (%)", DefaultOptions())
	require.NoError(t, err)
	return fig
}

func TestBuild_ThreePointsOneLine(t *testing.T) {
	fig := buildWeekly(t)

	require.NotNil(t, fig.Scatter)
	assert.Len(t, fig.Points, 3)
	assert.Equal(t, 3, fig.Scatter.XYs.Len())
	assert.Len(t, fig.Lines, 1)
	require.NotNil(t, fig.Band)
	assert.False(t, fig.ID == "")

	line := fig.Lines[0]
	first, last := line.XYs[0], line.XYs[len(line.XYs)-1]
	assert.InDelta(t, 1.0, first.X, 1e-12)
	assert.InDelta(t, 10.0, first.Y, 1e-9)
	assert.InDelta(t, 3.0, last.X, 1e-12)
	assert.InDelta(t, 30.0, last.Y, 1e-9)
}

func TestBuild_AxisLabelsBold14pt(t *testing.T) {
	fig := buildWeekly(t)

	for _, label := range []struct {
		text string
		want string
		size vg.Length
		bold xfont.Weight
	}{
		{fig.Plot.X.Label.Text, "Week", fig.Plot.X.Label.TextStyle.Font.Size, fig.Plot.X.Label.TextStyle.Font.Weight},
		{fig.Plot.Y.Label.Text, "Yield (%)", fig.Plot.Y.Label.TextStyle.Font.Size, fig.Plot.Y.Label.TextStyle.Font.Weight},
	} {
		assert.Equal(t, label.want, label.text)
		assert.Equal(t, vg.Points(14), label.size)
		assert.Equal(t, xfont.WeightBold, label.bold)
	}
}

func TestBuild_LengthMismatch(t *testing.T) {
	fig := buildWeekly(t)

	_, err := Build([]float64{1, 2}, []float64{1}, fig.Fit, fig.Interval, "x", "y", DefaultOptions())
	assert.True(t, errors.Is(err, core.ErrLengthMismatch))
}

func TestBuild_RequiresFit(t *testing.T) {
	_, err := Build([]float64{1}, []float64{1}, nil, nil, "x", "y", DefaultOptions())
	assert.True(t, errors.Is(err, core.ErrRender))
}

func TestPNG(t *testing.T) {
	png, err := buildWeekly(t).PNG()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
}

func TestSummary(t *testing.T) {
	fig := buildWeekly(t)

	assert.Equal(t, "Yield (%) vs Week", fig.Title())
	summary := fig.Summary()
	assert.Contains(t, summary, "| 3 | 10 | 0 | 1.000 | 95% analytic |")
}
