package app

import (
	"context"
	"fmt"
	"time"

	"yieldplot/domain/dataset"
	"yieldplot/domain/stats"
	"yieldplot/internal"
	"yieldplot/internal/analysis/regression"
	"yieldplot/internal/chart"
	"yieldplot/ports"
)

// PlotSpec names the columns and axis labels of one chart
type PlotSpec struct {
	X      string
	Y      string
	XLabel string
	YLabel string
}

// DefaultPlotSpecs are the two weekly yield charts, in display order
func DefaultPlotSpecs() []PlotSpec {
	return []PlotSpec{
		{X: "Week", Y: "Yield", XLabel: "Week", YLabel: "Yield (%)"},
		{X: "Tests", Y: "Yield", XLabel: "Number of Weekly Tests", YLabel: "Yield (%)"},
	}
}

// BandConfig selects how the confidence band is computed
type BandConfig struct {
	Level            float64
	Method           stats.BandMethod
	BootstrapSamples int
	Seed             int64
	GridSize         int
}

// DefaultBandConfig is a 95% band
func DefaultBandConfig() BandConfig {
	return BandConfig{
		Level:            0.95,
		Method:           stats.BandAnalytic,
		BootstrapSamples: 1000,
		Seed:             42,
		GridSize:         regression.DefaultGridSize,
	}
}

// PlotService fits, renders and displays scatter-plus-regression charts
type PlotService struct {
	viewer    ports.ViewerPort
	band      BandConfig
	chartOpts chart.Options
	logger    *internal.Logger
}

// NewPlotService creates a plot service
func NewPlotService(viewer ports.ViewerPort, band BandConfig, chartOpts chart.Options, logger *internal.Logger) *PlotService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if band.GridSize < 2 {
		band.GridSize = regression.DefaultGridSize
	}
	return &PlotService{
		viewer:    viewer,
		band:      band,
		chartOpts: chartOpts,
		logger:    logger.Named("plot"),
	}
}

// Run plots each spec in order. The first failure aborts the rest.
func (s *PlotService) Run(ctx context.Context, ds *dataset.Dataset, specs ...PlotSpec) error {
	for i, spec := range specs {
		s.logger.Debug("plot %d/%d: %s vs %s", i+1, len(specs), spec.Y, spec.X)
		if err := s.Plot(ctx, ds, spec); err != nil {
			return err
		}
	}
	return nil
}

// Plot builds the chart for spec and blocks while the viewer shows it
func (s *PlotService) Plot(ctx context.Context, ds *dataset.Dataset, spec PlotSpec) error {
	fig, err := s.BuildFigure(ds, spec)
	if err != nil {
		return err
	}
	if err := s.viewer.Show(ctx, fig); err != nil {
		return fmt.Errorf("show %s vs %s: %w", spec.Y, spec.X, err)
	}
	return nil
}

// BuildFigure fits y on x and assembles the chart without displaying it
func (s *PlotService) BuildFigure(ds *dataset.Dataset, spec PlotSpec) (*chart.Figure, error) {
	start := time.Now()

	xs, ys, err := ds.Pairs(spec.X, spec.Y)
	if err != nil {
		return nil, fmt.Errorf("plot %s vs %s: %w", spec.Y, spec.X, err)
	}
	if dropped := ds.Len() - len(xs); dropped > 0 {
		s.logger.Warn("%s vs %s: dropped %d rows with missing values", spec.Y, spec.X, dropped)
	}

	fit, err := regression.FitOLS(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("plot %s vs %s: %w", spec.Y, spec.X, err)
	}

	band, err := s.confidenceBand(fit, xs, ys)
	if err != nil {
		return nil, fmt.Errorf("plot %s vs %s: %w", spec.Y, spec.X, err)
	}

	fig, err := chart.Build(xs, ys, fit, band, spec.XLabel, spec.YLabel, s.chartOpts)
	if err != nil {
		return nil, fmt.Errorf("plot %s vs %s: %w", spec.Y, spec.X, err)
	}

	s.logger.Info("%s: n=%d slope=%.4g intercept=%.4g r2=%.3f (%.2fms)",
		fig.Title(), fit.N, fit.Slope, fit.Intercept, fit.RSquared,
		float64(time.Since(start).Nanoseconds())/1e6)
	return fig, nil
}

func (s *PlotService) confidenceBand(fit *stats.Fit, xs, ys []float64) (*stats.Band, error) {
	grid := regression.Grid(fit.XMin, fit.XMax, s.band.GridSize)
	switch s.band.Method {
	case stats.BandBootstrap:
		return regression.BootstrapBand(xs, ys, s.band.Level, grid, s.band.BootstrapSamples, s.band.Seed)
	case stats.BandAnalytic, "":
		return regression.AnalyticBand(fit, s.band.Level, grid)
	default:
		return nil, fmt.Errorf("unknown confidence band method %q", s.band.Method)
	}
}
