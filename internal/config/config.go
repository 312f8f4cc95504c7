// Package config loads application configuration from config.yaml and
// REPORT_* environment variables, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the report-run database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ReportConfig holds the aggregation and comparison policies.
type ReportConfig struct {
	MeasureField string `yaml:"measure_field" mapstructure:"measure_field"`
	Join         string `yaml:"join" mapstructure:"join"`
	ZeroBase     string `yaml:"zero_base" mapstructure:"zero_base"`
	TopN         int    `yaml:"top_n" mapstructure:"top_n"`
	Concurrency  int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// FetchConfig configures extract ingestion.
type FetchConfig struct {
	FTPTimeoutSecs int    `yaml:"ftp_timeout_secs" mapstructure:"ftp_timeout_secs"`
	TempDir        string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// ServerConfig configures the report API server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "report.db")
	v.SetDefault("report.measure_field", "GMV")
	v.SetDefault("report.join", "outer")
	v.SetDefault("report.zero_base", "undefined")
	v.SetDefault("report.top_n", 5)
	v.SetDefault("report.concurrency", 4)
	v.SetDefault("fetch.ftp_timeout_secs", 30)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 5)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks enumerated settings before a command runs.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return eris.Errorf("config: store.driver must be sqlite or postgres (got %q)", c.Store.Driver)
	}
	switch c.Report.Join {
	case "outer", "inner":
	default:
		return eris.Errorf("config: report.join must be outer or inner (got %q)", c.Report.Join)
	}
	switch c.Report.ZeroBase {
	case "undefined", "zero":
	default:
		return eris.Errorf("config: report.zero_base must be undefined or zero (got %q)", c.Report.ZeroBase)
	}
	if c.Report.MeasureField == "" {
		return eris.New("config: report.measure_field must not be empty")
	}
	if c.Report.Concurrency < 1 {
		return eris.Errorf("config: report.concurrency must be >= 1 (got %d)", c.Report.Concurrency)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
