package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all resolved application paths.
// This is the single source of truth for ALL file paths in the application.
type Paths struct {
	BaseDir     string
	PanelsDir   string
	RegistryDir string
	OutputDir   string
	LogsDir     string

	// Output subdirectories mirroring the study layout
	PanelOutputDir   string
	CompanyOutputDir string

	StorePath string
}

// NewPaths resolves the configured paths against the base directory. An empty
// base directory means the current working directory.
func NewPaths(cfg *Config) (*Paths, error) {
	base := cfg.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		base = wd
	}

	outputDir := resolve(base, cfg.Paths.OutputDir)
	return &Paths{
		BaseDir:          base,
		PanelsDir:        resolve(base, cfg.Paths.PanelsDir),
		RegistryDir:      resolve(base, cfg.Paths.RegistryDir),
		OutputDir:        outputDir,
		LogsDir:          resolve(base, cfg.Paths.LogsDir),
		PanelOutputDir:   filepath.Join(outputDir, "panel"),
		CompanyOutputDir: filepath.Join(outputDir, "company"),
		StorePath:        resolve(base, cfg.Store.Path),
	}, nil
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// EnsureDirectories creates every output directory the run will write to.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.OutputDir, p.PanelOutputDir, p.CompanyOutputDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetLogPath returns the path of a log file inside the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetPanelOutputPath returns the path of a tagged panel feature file.
func (p *Paths) GetPanelOutputPath(filename string) string {
	return filepath.Join(p.PanelOutputDir, filename)
}

// GetCompanyOutputPath returns the path of a company mapping file.
func (p *Paths) GetCompanyOutputPath(filename string) string {
	return filepath.Join(p.CompanyOutputDir, filename)
}
