package utils

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the command line tool
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Repair  RepairConfig  `yaml:"repair"`
}

// LogConfig controls logging
type LogConfig struct {
	Level  string `yaml:"level"`  // error, warning, info, debug or trace
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // empty for stdout
}

// MetricsConfig controls metric export
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty disables export
}

// RepairConfig bounds the repair search
type RepairConfig struct {
	MaxIterations int `yaml:"maxIterations"` // 0 means unbounded
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig returns the defaults overlaid with the YAML file at path (if
// any) and then with environment variables
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, errors.Wrapf(err, "parse config %s", path)
		}
	}

	if err := loadConfigFromEnv(&config); err != nil {
		return config, err
	}

	if err := config.Validate(); err != nil {
		return config, errors.Wrap(err, "invalid config")
	}
	return config, nil
}

func loadConfigFromEnv(config *Config) error {
	if v := os.Getenv("GATEREPAIR_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("GATEREPAIR_LOG_FORMAT"); v != "" {
		config.Log.Format = v
	}
	if v := os.Getenv("GATEREPAIR_METRICS_FILE"); v != "" {
		config.Metrics.Textfile = v
	}
	if v := os.Getenv("GATEREPAIR_MAX_ITERATIONS"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "GATEREPAIR_MAX_ITERATIONS")
		}
		config.Repair.MaxIterations = i
	}
	return nil
}

// Validate checks the configuration values
func (c Config) Validate() error {
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Repair.MaxIterations < 0 {
		return errors.Errorf("repair.maxIterations must not be negative, got %d", c.Repair.MaxIterations)
	}
	return nil
}

// NewLoggerFromConfig builds the logger described by c
func NewLoggerFromConfig(c LogConfig) (*Logger, error) {
	level, err := ParseLogLevel(c.Level)
	if err != nil {
		return nil, err
	}

	var logger *Logger
	if c.File != "" {
		logger, err = NewFileLogger(level, c.File)
		if err != nil {
			return nil, errors.Wrap(err, "create log file")
		}
	} else {
		logger = NewLogger(level)
	}

	if c.Format == "json" {
		logger.SetJSON()
	}
	return logger, nil
}
