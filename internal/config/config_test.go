package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "input/panel", cfg.Paths.PanelsDir)
	assert.Equal(t, "input/license", cfg.Paths.RegistryDir)
	assert.Equal(t, "output", cfg.Paths.OutputDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, []string{"address", "name", "email"}, cfg.Features.TrackedChangeFields)
	assert.Equal(t, 0.5, cfg.Company.SimilarityThreshold)
	assert.Equal(t, "2019-12-15", cfg.Legality.FirstDate)
	assert.Equal(t, "2020-01-12", cfg.Legality.SecondDate)
	assert.False(t, cfg.Store.Enabled)
	// The store path must come from the config, never from the ambient $PATH
	// variable every environment sets.
	assert.Equal(t, "output/features.db", cfg.Store.Path)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
paths:
  base_dir: /data/study
  panels_dir: panels
logging:
  level: debug
features:
  tracked_change_fields: [address, phone]
company:
  similarity_threshold: 0.8
legality:
  first_date: "2020-06-01"
store:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/study", cfg.Paths.BaseDir)
	assert.Equal(t, "panels", cfg.Paths.PanelsDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"address", "phone"}, cfg.Features.TrackedChangeFields)
	assert.Equal(t, 0.8, cfg.Company.SimilarityThreshold)
	assert.Equal(t, "2020-06-01", cfg.Legality.FirstDate)
	assert.True(t, cfg.Store.Enabled)
	// Untouched sections keep their defaults.
	assert.Equal(t, "2020-01-12", cfg.Legality.SecondDate)
	assert.Equal(t, "output", cfg.Paths.OutputDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
company:
  similarity_threshold: 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("PANELFEAT_COMPANY_SIMILARITY_THRESHOLD", "0.9")
	t.Setenv("PANELFEAT_LEGALITY_FIRST_DATE", "2020-03-01")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Set variables override the file; file values without an override stay.
	assert.Equal(t, 0.9, cfg.Company.SimilarityThreshold)
	assert.Equal(t, "2020-03-01", cfg.Legality.FirstDate)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults pass", func(c *Config) {}, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, false},
		{"bad log output", func(c *Config) { c.Logging.Output = "syslog" }, false},
		{"threshold above one", func(c *Config) { c.Company.SimilarityThreshold = 1.5 }, false},
		{"negative threshold", func(c *Config) { c.Company.SimilarityThreshold = -0.1 }, false},
		{"unknown tracked field", func(c *Config) { c.Features.TrackedChangeFields = []string{"products"} }, false},
		{"no tracked fields", func(c *Config) { c.Features.TrackedChangeFields = nil }, false},
		{"malformed reference date", func(c *Config) { c.Legality.FirstDate = "12/15/2019" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestReferenceDates(t *testing.T) {
	legality := LegalityConfig{FirstDate: "2019-12-15", SecondDate: "2020-01-12"}

	d1, d2, err := legality.ReferenceDates()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, 12, 15, 0, 0, 0, 0, time.UTC), d1)
	assert.Equal(t, time.Date(2020, 1, 12, 0, 0, 0, 0, time.UTC), d2)

	_, _, err = LegalityConfig{FirstDate: "not-a-date", SecondDate: "2020-01-12"}.ReferenceDates()
	assert.ErrorContains(t, err, "invalid first reference date")
}

func TestNewPaths(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Paths.BaseDir = "/data/study"

	paths, err := NewPaths(cfg)
	require.NoError(t, err)

	assert.Equal(t, "/data/study/input/panel", paths.PanelsDir)
	assert.Equal(t, "/data/study/output/panel", paths.PanelOutputDir)
	assert.Equal(t, "/data/study/output/company", paths.CompanyOutputDir)
	assert.Equal(t, "/data/study/output/features.db", paths.StorePath)
	assert.Equal(t, "/data/study/logs/featurize.log", paths.GetLogPath("featurize.log"))
}
