package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Upstream UpstreamConfig `yaml:"upstream" envconfig:"UPSTREAM"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ProcessedDir string `yaml:"processed_dir" envconfig:"PROCESSED_DIR" default:"data/processed"`
	CacheDir     string `yaml:"cache_dir" envconfig:"CACHE_DIR" default:"data/cache"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
	RawWorkbook  string `yaml:"raw_workbook" envconfig:"RAW_WORKBOOK" default:"data/fiscal_data.xlsx"`
	RawSheet     string `yaml:"raw_sheet" envconfig:"RAW_SHEET" default:"Data"`
}

// PipelineConfig tunes the cleaning and resolution passes.
type PipelineConfig struct {
	DuplicateTolerance float64 `yaml:"duplicate_tolerance" envconfig:"DUPLICATE_TOLERANCE" default:"0.01"`
}

// UpstreamConfig configures the statistical data source client.
type UpstreamConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://api.worldbank.org/v2"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
	MaxRetries     int           `yaml:"max_retries" envconfig:"MAX_RETRIES" default:"3"`
	RequestsPerSec float64       `yaml:"requests_per_sec" envconfig:"REQUESTS_PER_SEC" default:"5"`
	YearStart      int           `yaml:"year_start" envconfig:"YEAR_START" default:"2014"`
	YearEnd        int           `yaml:"year_end" envconfig:"YEAR_END" default:"2024"`
}

// Load loads configuration from environment variables and, when present,
// a YAML config file. Environment wins over file values.
func Load() (*Config, error) {
	cfg, err := loadFile(configFilePath())
	if err != nil {
		return nil, err
	}

	if err := envconfig.Process("FISCAL", cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func configFilePath() string {
	if path := os.Getenv("FISCAL_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

func loadFile(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Pipeline.DuplicateTolerance < 0 || c.Pipeline.DuplicateTolerance >= 1 {
		return fmt.Errorf("duplicate tolerance must be in [0, 1): %g", c.Pipeline.DuplicateTolerance)
	}
	if c.Upstream.MaxRetries < 0 {
		return fmt.Errorf("max retries must be non-negative: %d", c.Upstream.MaxRetries)
	}
	return nil
}
