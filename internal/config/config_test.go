package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titanicdash/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DASHBOARD_CONFIG", "")
	t.Setenv("DATASET_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("FETCH_TIMEOUT", "")
	t.Setenv("HISTOGRAM_BINS", "")
	t.Setenv("COLUMN_TYPES", "")
	t.Setenv("DEFAULT_CLASS", "")
	t.Setenv("SESSION_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultDatasetURL, cfg.Data.SourceURL)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 20, cfg.Dashboard.HistogramBins)
	assert.Equal(t, "ordinal", cfg.Data.ColumnTypes["Pclass"])
	assert.Equal(t, 30*time.Second, cfg.Data.FetchTimeout)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.yaml")
	yamlDoc := `
data:
  source_url: file:///srv/passengers.csv
  column_types:
    Pclass: ordinal
    Survived: boolean
    SibSp: ordinal
server:
  port: "9000"
  session_ttl: 10m
dashboard:
  histogram_bins: 30
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	t.Setenv("DASHBOARD_CONFIG", path)
	t.Setenv("PORT", "9100")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("DATASET_URL", "")
	t.Setenv("HISTOGRAM_BINS", "")
	t.Setenv("COLUMN_TYPES", "")
	t.Setenv("SESSION_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file:///srv/passengers.csv", cfg.Data.SourceURL)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Dashboard.HistogramBins)
	assert.Equal(t, 5*time.Second, cfg.Data.FetchTimeout)
	assert.Equal(t, "ordinal", cfg.Data.ColumnTypes["SibSp"])
	assert.Equal(t, 10*time.Minute, cfg.Server.SessionTTL)
}

func TestColumnTypesFromEnv(t *testing.T) {
	t.Setenv("DASHBOARD_CONFIG", "")
	t.Setenv("PORT", "")
	t.Setenv("COLUMN_TYPES", "Pclass=ordinal, Survived=BOOLEAN,broken")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Pclass": "ordinal", "Survived": "boolean"}, cfg.Data.ColumnTypes)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.Data.SourceURL = " " }},
		{"bad port", func(c *Config) { c.Server.Port = "http" }},
		{"zero bins", func(c *Config) { c.Dashboard.HistogramBins = 0 }},
		{"zero rows", func(c *Config) { c.Dashboard.DefaultRows = 0 }},
		{"unknown hint", func(c *Config) { c.Data.ColumnTypes = map[string]string{"Age": "float"} }},
		{"no timeout", func(c *Config) { c.Data.FetchTimeout = 0 }},
		{"class out of range", func(c *Config) { c.Dashboard.DefaultClass = 4 }},
		{"negative ttl", func(c *Config) { c.Server.SessionTTL = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestLoadFileErrors(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data: [unclosed"), 0o600))
	err := cfg.LoadFile(path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
