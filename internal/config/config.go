package config

import (
	"time"

	"yieldplot/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every variable, e.g. YIELDPLOT_CONFIDENCE
const EnvPrefix = "YIELDPLOT"

// Config represents the complete application configuration. Every field has
// a default, so an empty environment reproduces the fixed two-chart run.
type Config struct {
	Data   DataConfig
	Band   BandConfig
	Chart  ChartConfig
	Viewer ViewerConfig

	// LOG_LEVEL is also honoured without the prefix
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO" validate:"oneof=ERROR WARN INFO DEBUG TRACE error warn info debug trace"`
}

// DataConfig locates the spreadsheet
type DataConfig struct {
	// EXCEL_FILE is also honoured without the prefix
	ExcelFile string `envconfig:"EXCEL_FILE" default:"Mombasa_Week.xlsx" validate:"required"`
	Sheet     string `split_words:"true" default:"Sheet1" validate:"required"`
}

// BandConfig holds confidence band settings
type BandConfig struct {
	Confidence       float64 `split_words:"true" default:"0.95" validate:"gt=0,lt=1"`
	CIMethod         string  `split_words:"true" default:"analytic" validate:"oneof=analytic bootstrap"`
	BootstrapSamples int     `split_words:"true" default:"1000" validate:"min=1"`
	Seed             int64   `split_words:"true" default:"42"`
}

// ChartConfig holds figure geometry in inches
type ChartConfig struct {
	WidthIn  float64 `split_words:"true" default:"8.5" validate:"gt=0"`
	HeightIn float64 `split_words:"true" default:"5.5" validate:"gt=0"`
}

// ViewerConfig holds display surface settings
type ViewerConfig struct {
	ViewerAddr      string        `split_words:"true" default:"127.0.0.1:0" validate:"required"`
	OpenBrowser     bool          `split_words:"true" default:"true"`
	GinMode         string        `split_words:"true" default:"release" validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `split_words:"true" default:"5s" validate:"gt=0"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	var cfg Config

	// each section shares the bare prefix so keys read YIELDPLOT_<FIELD>
	if err := envconfig.Process(EnvPrefix, &cfg.Data); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load data configuration")
	}
	if err := envconfig.Process(EnvPrefix, &cfg.Band); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load band configuration")
	}
	if err := envconfig.Process(EnvPrefix, &cfg.Chart); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load chart configuration")
	}
	if err := envconfig.Process(EnvPrefix, &cfg.Viewer); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load viewer configuration")
	}
	if err := envconfig.Process(EnvPrefix, &logLevelOnly{&cfg.LogLevel}); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load log configuration")
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return &cfg, nil
}

// logLevelOnly lets envconfig fill the top-level field without recursing
// into the nested structs a second time.
type logLevelOnly struct {
	LogLevel *string `envconfig:"LOG_LEVEL" default:"INFO"`
}

func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	return nil
}
