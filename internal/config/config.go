// Package config provides configuration management and validation for mapsize.
// It centralizes command-line options and the optional YAML config file,
// validating both before the map file is opened.
package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mapsize/internal/errors"
)

// DefaultMapFile is analysed when no map file argument is given.
const DefaultMapFile = "firmware.map"

// Format selects how the size report is rendered.
type Format string

// Supported report formats. FormatText is the classic "<size> <key>" listing.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Config holds all runtime options for a mapsize run.
type Config struct {
	MapFile    string   `yaml:"map_file"`
	Hex        bool     `yaml:"hex"`
	Format     Format   `yaml:"format"`
	Include    []string `yaml:"include"`
	Exclude    []string `yaml:"exclude"`
	Verbose    bool     `yaml:"verbose"`
	Debug      bool     `yaml:"debug"`
	Quiet      bool     `yaml:"quiet"`
	ConfigFile string   `yaml:"-"`
}

// LoadFile reads a YAML config file. Fields absent from the file keep
// their zero value, so the result is meant to be merged with Merge.
func LoadFile(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WrapFileError(file, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, errors.NewConfigErrorWithPath(file, "invalid YAML config", err)
	}
	fileCfg.ConfigFile = file
	return &fileCfg, nil
}

// Merge fills every option of c that was not set on the command line
// from other. isSet reports whether the named flag was given explicitly;
// the map file is kept whenever a positional argument supplied it.
func (c *Config) Merge(other *Config, isSet func(flag string) bool) {
	if other == nil {
		return
	}
	if c.MapFile == "" {
		c.MapFile = other.MapFile
	}
	if !isSet("hex") {
		c.Hex = other.Hex
	}
	if !isSet("format") && other.Format != "" {
		c.Format = other.Format
	}
	if !isSet("include") {
		c.Include = other.Include
	}
	if !isSet("exclude") {
		c.Exclude = other.Exclude
	}
	if !isSet("verbose") {
		c.Verbose = other.Verbose
	}
	if !isSet("debug") {
		c.Debug = other.Debug
	}
	if !isSet("quiet") {
		c.Quiet = other.Quiet
	}
}

// Validate checks the configuration and applies defaults.
func (c *Config) Validate() error {
	if err := c.validateMapFile(); err != nil {
		return err
	}

	if err := c.validateFormat(); err != nil {
		return err
	}

	if err := c.validatePatterns(); err != nil {
		return err
	}

	if c.Quiet && (c.Verbose || c.Debug) {
		return errors.NewConfigError("quiet cannot be combined with verbose or debug", nil)
	}

	c.normalizeConfig()
	return nil
}

func (c *Config) validateMapFile() error {
	if strings.TrimSpace(c.MapFile) == "" {
		c.MapFile = DefaultMapFile
	}

	absMapFile, err := filepath.Abs(c.MapFile)
	if err != nil {
		return errors.NewConfigErrorWithPath(c.MapFile, "invalid map file path", err)
	}
	c.MapFile = absMapFile
	return nil
}

func (c *Config) validateFormat() error {
	switch Format(strings.ToLower(string(c.Format))) {
	case "", FormatText, FormatJSON, FormatCSV:
		return nil
	default:
		return errors.NewConfigError("format must be 'text', 'json' or 'csv'", nil)
	}
}

func (c *Config) validatePatterns() error {
	for _, pattern := range append(append([]string{}, c.Include...), c.Exclude...) {
		if _, err := path.Match(pattern, ""); err != nil {
			return errors.NewConfigError("invalid pattern "+pattern, err)
		}
	}
	return nil
}

func (c *Config) normalizeConfig() {
	c.Format = Format(strings.ToLower(string(c.Format)))
	if c.Format == "" {
		c.Format = FormatText
	}
	c.Include = normalizePatterns(c.Include)
	c.Exclude = normalizePatterns(c.Exclude)
}

func normalizePatterns(patterns []string) []string {
	var normalized []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		normalized = append(normalized, p)
	}
	return normalized
}

// IsVerbose reports whether per-run statistics should be logged.
// Quiet overrides Verbose.
func (c *Config) IsVerbose() bool {
	return c.Verbose && !c.Quiet
}

// IsDebug reports whether per-record tracing should be logged.
func (c *Config) IsDebug() bool {
	return c.Debug && !c.Quiet
}

// ShouldLog reports whether any diagnostics besides errors are wanted.
func (c *Config) ShouldLog() bool {
	return !c.Quiet
}
