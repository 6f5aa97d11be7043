package config

import (
	"testing"
	"time"

	"yieldplot/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Mombasa_Week.xlsx", cfg.Data.ExcelFile)
	assert.Equal(t, "Sheet1", cfg.Data.Sheet)
	assert.Equal(t, 0.95, cfg.Band.Confidence)
	assert.Equal(t, "analytic", cfg.Band.CIMethod)
	assert.Equal(t, 1000, cfg.Band.BootstrapSamples)
	assert.Equal(t, int64(42), cfg.Band.Seed)
	assert.Equal(t, 8.5, cfg.Chart.WidthIn)
	assert.Equal(t, 5.5, cfg.Chart.HeightIn)
	assert.Equal(t, "127.0.0.1:0", cfg.Viewer.ViewerAddr)
	assert.True(t, cfg.Viewer.OpenBrowser)
	assert.Equal(t, "release", cfg.Viewer.GinMode)
	assert.Equal(t, 5*time.Second, cfg.Viewer.ShutdownTimeout)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("YIELDPLOT_EXCEL_FILE", "/data/other.xlsx")
	t.Setenv("YIELDPLOT_SHEET", "Weekly")
	t.Setenv("YIELDPLOT_CONFIDENCE", "0.9")
	t.Setenv("YIELDPLOT_CI_METHOD", "bootstrap")
	t.Setenv("YIELDPLOT_BOOTSTRAP_SAMPLES", "250")
	t.Setenv("YIELDPLOT_OPEN_BROWSER", "false")
	t.Setenv("YIELDPLOT_VIEWER_ADDR", "127.0.0.1:8765")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/other.xlsx", cfg.Data.ExcelFile)
	assert.Equal(t, "Weekly", cfg.Data.Sheet)
	assert.Equal(t, 0.9, cfg.Band.Confidence)
	assert.Equal(t, "bootstrap", cfg.Band.CIMethod)
	assert.Equal(t, 250, cfg.Band.BootstrapSamples)
	assert.False(t, cfg.Viewer.OpenBrowser)
	assert.Equal(t, "127.0.0.1:8765", cfg.Viewer.ViewerAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"confidence above one", "YIELDPLOT_CONFIDENCE", "1.5"},
		{"confidence zero", "YIELDPLOT_CONFIDENCE", "0"},
		{"unknown method", "YIELDPLOT_CI_METHOD", "jackknife"},
		{"no resamples", "YIELDPLOT_BOOTSTRAP_SAMPLES", "0"},
		{"negative width", "YIELDPLOT_WIDTH_IN", "-1"},
		{"unparseable seed", "YIELDPLOT_SEED", "abc"},
		{"bad gin mode", "YIELDPLOT_GIN_MODE", "verbose"},
		{"bad log level", "LOG_LEVEL", "LOUD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
