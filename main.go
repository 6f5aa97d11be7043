package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"yieldplot/adapters/excel"
	"yieldplot/adapters/viewer"
	"yieldplot/app"
	"yieldplot/domain/stats"
	"yieldplot/internal"
	"yieldplot/internal/analysis/regression"
	"yieldplot/internal/chart"
	"yieldplot/internal/config"
	"yieldplot/internal/errors"
	"yieldplot/ports"

	"github.com/joho/godotenv"
	"gonum.org/v1/plot/vg"
)

func main() {
	bootLog := internal.NewDefaultLogger()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		bootLog.Debug("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		bootLog.Error("Failed to load configuration: %v", err)
		bootLog.Sync()
		os.Exit(1)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appConfig, logger); err != nil {
		logger.Error("%v", err)
		logger.Sync()
		stop()
		os.Exit(1)
	}
}

// run loads the weekly sheet and shows Yield vs Week, then Yield vs Tests
func run(ctx context.Context, appConfig *config.Config, logger *internal.Logger) error {
	var loader ports.DatasetLoaderPort = excel.NewDataReader(excelConfig(appConfig), logger)
	ds, err := loader.Load(ctx)
	if err != nil {
		return errors.Wrapf(err, "failed to load %s", appConfig.Data.ExcelFile)
	}
	logger.Info("Loaded %d rows from %s (%s)", ds.Len(), ds.Source, ds.Sheet)

	browser, err := viewer.NewBrowserViewer(viewerConfig(appConfig), logger)
	if err != nil {
		return errors.Wrap(err, "failed to initialize viewer")
	}

	svc := app.NewPlotService(browser, bandConfig(appConfig), chartOptions(appConfig), logger)
	return svc.Run(ctx, ds, app.DefaultPlotSpecs()...)
}

func excelConfig(appConfig *config.Config) excel.ExcelConfig {
	cfg := excel.DefaultExcelConfig()
	cfg.FilePath = appConfig.Data.ExcelFile
	cfg.Sheet = appConfig.Data.Sheet
	return cfg
}

func bandConfig(appConfig *config.Config) app.BandConfig {
	return app.BandConfig{
		Level:            appConfig.Band.Confidence,
		Method:           stats.BandMethod(appConfig.Band.CIMethod),
		BootstrapSamples: appConfig.Band.BootstrapSamples,
		Seed:             appConfig.Band.Seed,
		GridSize:         regression.DefaultGridSize,
	}
}

func chartOptions(appConfig *config.Config) chart.Options {
	opts := chart.DefaultOptions()
	opts.Width = vg.Length(appConfig.Chart.WidthIn) * vg.Inch
	opts.Height = vg.Length(appConfig.Chart.HeightIn) * vg.Inch
	return opts
}

func viewerConfig(appConfig *config.Config) viewer.Config {
	return viewer.Config{
		Addr:            appConfig.Viewer.ViewerAddr,
		OpenBrowser:     appConfig.Viewer.OpenBrowser,
		GinMode:         appConfig.Viewer.GinMode,
		ShutdownTimeout: appConfig.Viewer.ShutdownTimeout,
	}
}
