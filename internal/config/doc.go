// Package config loads and validates the featurization pipeline
// configuration and resolves every file system path the run touches.
//
// Configuration comes from an optional YAML file with PANELFEAT_* environment
// variable overrides applied on top. Paths is the single source of truth for
// directory layout; nothing else in the application joins path segments.
package config
