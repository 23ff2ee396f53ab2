// Package config loads and persists user preferences for the pipeline:
// rendering style, engine selection, monitor cadence, and export options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-texclip/internal/fileutil"
	"github.com/alnah/go-texclip/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidFontSize = errors.New("config: invalid font size")
	ErrInvalidDPI      = errors.New("config: invalid DPI")
	ErrInvalidEngine   = errors.New("config: invalid engine")
	ErrInvalidInterval = errors.New("config: invalid poll interval")
	ErrInvalidTimeout  = errors.New("config: invalid timeout")
)

// Bounds mirrored from the library's style validation.
const (
	MinFontSize = 10
	MaxFontSize = 50
	MinDPI      = 100
	MaxDPI      = 600
)

// Engine names accepted in the engine section.
const (
	EngineLatex = "latex"
	EngineGlyph = "glyph"
)

// Config holds all user preferences.
type Config struct {
	Style   StyleConfig   `yaml:"style"`
	Engine  EngineConfig  `yaml:"engine"`
	Monitor MonitorConfig `yaml:"monitor"`
	Export  ExportConfig  `yaml:"export"`
}

// StyleConfig defines rendering style defaults.
type StyleConfig struct {
	Color      string `yaml:"color"`      // named color or "#rrggbb"
	FontSize   int    `yaml:"fontSize"`   // points (10-50)
	DPI        int    `yaml:"dpi"`        // 100-600
	OnlyImages bool   `yaml:"onlyImages"` // suppress text runs
}

// EngineConfig selects and parameterizes the typesetting engine.
type EngineConfig struct {
	Name    string `yaml:"name"`    // "latex" (subprocess) or "glyph" (in-process)
	Command string `yaml:"command"` // compiler binary (empty = default)
	Timeout string `yaml:"timeout"` // duration string, e.g. "30s"
}

// MonitorConfig defines the clipboard polling loop.
type MonitorConfig struct {
	Interval string `yaml:"interval"` // duration string, e.g. "1s"
}

// ExportConfig defines PDF export options.
type ExportConfig struct {
	OutputDir string `yaml:"outputDir"` // empty = current directory
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Style:   StyleConfig{Color: "white", FontSize: 12, DPI: 300},
		Engine:  EngineConfig{Name: EngineLatex, Timeout: "30s"},
		Monitor: MonitorConfig{Interval: "1s"},
		Export:  ExportConfig{},
	}
}

// Validate checks bounds and enumerations.
func (c *Config) Validate() error {
	if c.Style.FontSize < MinFontSize || c.Style.FontSize > MaxFontSize {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidFontSize, c.Style.FontSize, MinFontSize, MaxFontSize)
	}
	if c.Style.DPI < MinDPI || c.Style.DPI > MaxDPI {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidDPI, c.Style.DPI, MinDPI, MaxDPI)
	}
	switch c.Engine.Name {
	case EngineLatex, EngineGlyph:
	default:
		return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidEngine, c.Engine.Name, EngineLatex, EngineGlyph)
	}
	if _, err := c.EngineTimeout(); err != nil {
		return err
	}
	if _, err := c.PollInterval(); err != nil {
		return err
	}
	return nil
}

// EngineTimeout parses the engine timeout.
func (c *Config) EngineTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, c.Engine.Timeout)
	}
	return d, nil
}

// PollInterval parses the monitor interval.
func (c *Config) PollInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Monitor.Interval)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInterval, c.Monitor.Interval)
	}
	return d, nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig persists preferences to the user config directory under
// the given name, creating the directory if needed.
func SaveConfig(cfg *Config, name string) (string, error) {
	if name == "" {
		return "", ErrEmptyConfigName
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	dir := filepath.Join(userConfigDir, "go-texclip")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name+".yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-texclip/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-texclip", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
