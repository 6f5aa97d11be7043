package app

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"yieldplot/adapters/excel"
	"yieldplot/domain/core"
	"yieldplot/domain/dataset"
	"yieldplot/domain/stats"
	"yieldplot/internal/chart"
	"yieldplot/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockViewer records every figure it is asked to show
type MockViewer struct {
	mock.Mock
	shown []*chart.Figure
}

func (m *MockViewer) Show(ctx context.Context, fig *chart.Figure) error {
	args := m.Called(ctx, fig)
	m.shown = append(m.shown, fig)
	return args.Error(0)
}

func loadFixture(t *testing.T, headers []string, rows [][]interface{}) *dataset.Dataset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Mombasa_Week.xlsx")
	require.NoError(t, testkit.WriteWorkbook(path, "Sheet1", headers, rows))

	ds, err := excel.NewDataReader(excel.ExcelConfig{FilePath: path, Sheet: "Sheet1"}, nil).Load(context.Background())
	require.NoError(t, err)
	return ds
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func TestRun_EndToEnd_ThreeRowFixture(t *testing.T) {
	ds := loadFixture(t, testkit.WeeklyHeaders, [][]interface{}{
		{1, 10, 4},
		{2, 20, 6},
		{3, 30, 5},
	})

	viewer := new(MockViewer)
	viewer.On("Show", mock.Anything, mock.Anything).Return(nil)
	svc := NewPlotService(viewer, DefaultBandConfig(), chart.DefaultOptions(), nil)

	require.NoError(t, svc.Run(context.Background(), ds, DefaultPlotSpecs()...))
	viewer.AssertNumberOfCalls(t, "Show", 2)

	weekly := viewer.shown[0]
	assert.Len(t, weekly.Points, 3)
	assert.Len(t, weekly.Lines, 1)
	assert.Equal(t, "Week", weekly.XLabel)
	assert.Equal(t, "Yield (%)", weekly.YLabel)
	assert.InDelta(t, 10.0, weekly.Fit.Slope, 1e-9)
	assert.InDelta(t, 0.0, weekly.Fit.Intercept, 1e-9)

	tests := viewer.shown[1]
	assert.Equal(t, "Number of Weekly Tests", tests.XLabel)
	assert.Len(t, tests.Points, 3)
}

func TestRun_MissingTestsColumnFailsSecondPlot(t *testing.T) {
	ds := loadFixture(t, []string{"Week", "Yield"}, [][]interface{}{
		{1, 10},
		{2, 20},
		{3, 30},
	})

	viewer := new(MockViewer)
	viewer.On("Show", mock.Anything, mock.Anything).Return(nil)
	svc := NewPlotService(viewer, DefaultBandConfig(), chart.DefaultOptions(), nil)

	err := svc.Run(context.Background(), ds, DefaultPlotSpecs()...)
	require.Error(t, err)
	assert.True(t, core.IsSchemaError(err))
	assert.True(t, errors.Is(err, core.ErrColumnNotFound))

	// only the Week chart reached the viewer
	viewer.AssertNumberOfCalls(t, "Show", 1)
	assert.Equal(t, "Week", viewer.shown[0].XLabel)
}

func TestRun_ViewerFailureAbortsRemainingPlots(t *testing.T) {
	ds := loadFixture(t, testkit.WeeklyHeaders, [][]interface{}{{1, 10, 4}, {2, 20, 6}, {3, 30, 5}})

	viewer := new(MockViewer)
	viewer.On("Show", mock.Anything, mock.Anything).Return(core.ErrDisplayUnavailable)
	svc := NewPlotService(viewer, DefaultBandConfig(), chart.DefaultOptions(), nil)

	err := svc.Run(context.Background(), ds, DefaultPlotSpecs()...)
	assert.True(t, errors.Is(err, core.ErrDisplayUnavailable))
	viewer.AssertNumberOfCalls(t, "Show", 1)
}

func TestBuildFigure_ZeroVariance(t *testing.T) {
	ds := dataset.New("x.xlsx", "Sheet1", []string{"Week", "Yield"}, []dataset.Row{
		{"Week": "4", "Yield": "10"},
		{"Week": "4", "Yield": "20"},
	})
	svc := NewPlotService(new(MockViewer), DefaultBandConfig(), chart.DefaultOptions(), nil)

	_, err := svc.BuildFigure(ds, DefaultPlotSpecs()[0])
	assert.True(t, errors.Is(err, core.ErrZeroVariance))
}

func TestBuildFigure_ConstantInexactWeek(t *testing.T) {
	ds := dataset.New("x.xlsx", "Sheet1", []string{"Week", "Yield"}, []dataset.Row{
		{"Week": "0.1", "Yield": "10"},
		{"Week": "0.1", "Yield": "20"},
		{"Week": "0.1", "Yield": "30"},
	})
	svc := NewPlotService(new(MockViewer), DefaultBandConfig(), chart.DefaultOptions(), nil)

	_, err := svc.BuildFigure(ds, DefaultPlotSpecs()[0])
	assert.True(t, errors.Is(err, core.ErrZeroVariance))
	assert.False(t, errors.Is(err, core.ErrRender))
}

func TestBuildFigure_NonNumericColumn(t *testing.T) {
	ds := dataset.New("x.xlsx", "Sheet1", []string{"Week", "Yield"}, []dataset.Row{
		{"Week": "one", "Yield": "10"},
		{"Week": "two", "Yield": "20"},
	})
	svc := NewPlotService(new(MockViewer), DefaultBandConfig(), chart.DefaultOptions(), nil)

	_, err := svc.BuildFigure(ds, DefaultPlotSpecs()[0])
	assert.True(t, errors.Is(err, core.ErrNonNumeric))
}

func TestBuildFigure_Bootstrap(t *testing.T) {
	obs := testkit.NewWeeklyGenerator(testkit.DefaultWeeklyConfig()).Generate()
	rows := make([]dataset.Row, len(obs))
	for i, o := range obs {
		rows[i] = dataset.Row{
			"Week":  formatFloat(float64(o.Week)),
			"Yield": formatFloat(o.Yield),
			"Tests": formatFloat(float64(o.Tests)),
		}
	}
	ds := dataset.New("gen.xlsx", "Sheet1", testkit.WeeklyHeaders, rows)

	band := DefaultBandConfig()
	band.Method = stats.BandBootstrap
	band.BootstrapSamples = 200
	svc := NewPlotService(new(MockViewer), band, chart.DefaultOptions(), nil)

	fig, err := svc.BuildFigure(ds, DefaultPlotSpecs()[1])
	require.NoError(t, err)
	assert.Equal(t, stats.BandBootstrap, fig.Interval.Method)
	assert.Len(t, fig.Points, len(obs))
	assert.Greater(t, fig.Interval.MaxWidth(), 0.0)
}

func TestBuildFigure_UnknownBandMethod(t *testing.T) {
	ds := dataset.New("x.xlsx", "Sheet1", []string{"Week", "Yield"}, []dataset.Row{
		{"Week": "1", "Yield": "10"},
		{"Week": "2", "Yield": "20"},
	})
	band := DefaultBandConfig()
	band.Method = "jackknife"
	svc := NewPlotService(new(MockViewer), band, chart.DefaultOptions(), nil)

	_, err := svc.BuildFigure(ds, DefaultPlotSpecs()[0])
	assert.ErrorContains(t, err, "jackknife")
}
