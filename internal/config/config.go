package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"titanicdash/internal/errors"
)

// DefaultDatasetURL is the public passenger CSV the dashboard explores.
const DefaultDatasetURL = "https://raw.githubusercontent.com/datasciencedojo/datasets/master/titanic.csv"

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	LogLevel  string          `yaml:"log_level"`
}

// DataConfig holds the dataset source and the roles of its columns
type DataConfig struct {
	SourceURL      string            `yaml:"source_url"`
	FetchTimeout   time.Duration     `yaml:"fetch_timeout"`
	AgeColumn      string            `yaml:"age_column"`
	FareColumn     string            `yaml:"fare_column"`
	SurvivalColumn string            `yaml:"survival_column"`
	ClassColumn    string            `yaml:"class_column"`
	SexColumn      string            `yaml:"sex_column"`
	ColumnTypes    map[string]string `yaml:"column_types"` // schema hints, column -> numeric|categorical|ordinal|boolean
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port       string        `yaml:"port"`
	SessionTTL time.Duration `yaml:"session_ttl"` // idle sessions are forgotten after this
}

// DashboardConfig holds presentation defaults
type DashboardConfig struct {
	Title         string `yaml:"title"`
	IntroMarkdown string `yaml:"intro_markdown"`
	HistogramBins int    `yaml:"histogram_bins"`
	DefaultRows   int    `yaml:"default_rows"`
	DefaultClass  int    `yaml:"default_class"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Data: DataConfig{
			SourceURL:      DefaultDatasetURL,
			FetchTimeout:   30 * time.Second,
			AgeColumn:      "Age",
			FareColumn:     "Fare",
			SurvivalColumn: "Survived",
			ClassColumn:    "Pclass",
			SexColumn:      "Sex",
			ColumnTypes: map[string]string{
				"Pclass":   "ordinal",
				"Survived": "boolean",
			},
		},
		Server: ServerConfig{
			Port:       "8080",
			SessionTTL: 30 * time.Minute,
		},
		Dashboard: DashboardConfig{
			Title:         "Titanic passenger analysis",
			IntroMarkdown: "### Interactive dashboard\n\nDescriptive statistics, distributions and filters over the passenger list.",
			HistogramBins: 20,
			DefaultRows:   10,
			DefaultClass:  1,
		},
		LogLevel: "INFO",
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// DASHBOARD_CONFIG (if any), then environment variables.
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("DASHBOARD_CONFIG"); path != "" {
		if err := config.LoadFile(path); err != nil {
			return nil, err
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// LoadFile overlays settings from a YAML file
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to parse config file %s", path)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Data.SourceURL = getEnvOrDefault("DATASET_URL", c.Data.SourceURL)
	c.Data.FetchTimeout = getEnvDurationOrDefault("FETCH_TIMEOUT", c.Data.FetchTimeout)
	c.Data.AgeColumn = getEnvOrDefault("AGE_COLUMN", c.Data.AgeColumn)
	c.Data.FareColumn = getEnvOrDefault("FARE_COLUMN", c.Data.FareColumn)
	c.Data.SurvivalColumn = getEnvOrDefault("SURVIVAL_COLUMN", c.Data.SurvivalColumn)
	c.Data.ClassColumn = getEnvOrDefault("CLASS_COLUMN", c.Data.ClassColumn)
	c.Data.SexColumn = getEnvOrDefault("SEX_COLUMN", c.Data.SexColumn)
	if hints := os.Getenv("COLUMN_TYPES"); hints != "" {
		c.Data.ColumnTypes = parseColumnTypes(hints)
	}

	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.SessionTTL = getEnvDurationOrDefault("SESSION_TTL", c.Server.SessionTTL)

	c.Dashboard.Title = getEnvOrDefault("DASHBOARD_TITLE", c.Dashboard.Title)
	c.Dashboard.HistogramBins = getEnvIntOrDefault("HISTOGRAM_BINS", c.Dashboard.HistogramBins)
	c.Dashboard.DefaultRows = getEnvIntOrDefault("DEFAULT_ROWS", c.Dashboard.DefaultRows)
	c.Dashboard.DefaultClass = getEnvIntOrDefault("DEFAULT_CLASS", c.Dashboard.DefaultClass)

	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
}

// Validate checks required fields and ranges
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.SourceURL) == "" {
		return errors.ConfigInvalid("dataset source URL is required")
	}
	if c.Data.FetchTimeout <= 0 {
		return errors.ConfigInvalid("fetch timeout must be positive")
	}
	if c.Data.AgeColumn == "" || c.Data.SurvivalColumn == "" || c.Data.ClassColumn == "" {
		return errors.ConfigInvalid("age, survival and class column names are required")
	}
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return errors.ConfigInvalid("server port must be a number between 1 and 65535")
	}
	if c.Dashboard.HistogramBins <= 0 {
		return errors.ConfigInvalid("histogram bins must be positive")
	}
	if c.Dashboard.DefaultRows <= 0 {
		return errors.ConfigInvalid("default rows must be positive")
	}
	if c.Dashboard.DefaultClass < 1 || c.Dashboard.DefaultClass > 3 {
		return errors.ConfigInvalid("default class must be 1, 2 or 3")
	}
	if c.Server.SessionTTL < 0 {
		return errors.ConfigInvalid("session TTL cannot be negative")
	}
	for column, kind := range c.Data.ColumnTypes {
		switch kind {
		case "numeric", "categorical", "ordinal", "boolean":
		default:
			return errors.ConfigInvalid("column " + column + " has unknown type " + kind)
		}
	}
	return nil
}

// parseColumnTypes reads "Pclass=ordinal,Survived=boolean".
func parseColumnTypes(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		name, kind, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" {
			continue
		}
		out[strings.TrimSpace(name)] = strings.ToLower(strings.TrimSpace(kind))
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
