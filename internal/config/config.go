package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathsConfig    `yaml:"paths"`
	Logging  LoggingConfig  `yaml:"logging"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Features FeaturesConfig `yaml:"features"`
	Company  CompanyConfig  `yaml:"company"`
	Legality LegalityConfig `yaml:"legality"`
	Store    StoreConfig    `yaml:"store"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir     string `yaml:"base_dir" split_words:"true"`
	PanelsDir   string `yaml:"panels_dir" split_words:"true"`
	RegistryDir string `yaml:"registry_dir" split_words:"true"`
	OutputDir   string `yaml:"output_dir" split_words:"true"`
	LogsDir     string `yaml:"logs_dir" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true"`
}

// TracingConfig controls the OpenTelemetry stage tracer
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// FeaturesConfig configures the change detector
type FeaturesConfig struct {
	// TrackedChangeFields lists the snapshot fields compared between a slug's
	// successive appearances.
	TrackedChangeFields []string `yaml:"tracked_change_fields" split_words:"true" validate:"min=1,dive,oneof=address name email phone url"`
}

// CompanyConfig configures the company grouper
type CompanyConfig struct {
	// SimilarityThreshold is the Jaccard similarity two product sets must
	// exceed for their storefronts to link. Tunable; 0.5 matches the study
	// this engine reproduces.
	SimilarityThreshold float64 `yaml:"similarity_threshold" split_words:"true" validate:"gte=0,lte=1"`
}

// LegalityConfig holds the two reference dates of the legality classifier,
// in YYYY-MM-DD form.
type LegalityConfig struct {
	FirstDate  string `yaml:"first_date" split_words:"true" validate:"datetime=2006-01-02"`
	SecondDate string `yaml:"second_date" split_words:"true" validate:"datetime=2006-01-02"`
}

// StoreConfig controls the optional sqlite feature store
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ReferenceDates returns the parsed legality reference dates. Validate must
// have passed before calling.
func (c LegalityConfig) ReferenceDates() (time.Time, time.Time, error) {
	d1, err := time.Parse(DateLayout, c.FirstDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid first reference date %q: %w", c.FirstDate, err)
	}
	d2, err := time.Parse(DateLayout, c.SecondDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid second reference date %q: %w", c.SecondDate, err)
	}
	return d1, d2, nil
}

// defaultConfig returns the configuration used when neither the file nor the
// environment overrides a value.
func defaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			PanelsDir:   "input/panel",
			RegistryDir: "input/license",
			OutputDir:   "output",
			LogsDir:     "logs",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/featurize.log",
		},
		Features: FeaturesConfig{
			TrackedChangeFields: DefaultTrackedChangeFields(),
		},
		Company: CompanyConfig{
			SimilarityThreshold: 0.5,
		},
		Legality: LegalityConfig{
			FirstDate:  "2019-12-15",
			SecondDate: "2020-01-12",
		},
		Store: StoreConfig{
			Path: "output/features.db",
		},
	}
}

// Load loads configuration in ascending precedence: built-in defaults, the
// optional YAML file, then PANELFEAT_* environment variables. Env overrides
// only apply to variables that are actually set, so file values survive.
func Load(configPath string) (*Config, error) {
	cfg := defaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("PANELFEAT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its struct-tag rules.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
