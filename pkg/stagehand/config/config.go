// Package config loads stagehand settings and the screen timeline from TOML
// or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/BrandonKowalski/stagehand/pkg/stagehand/constants"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/level"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/manager"
	"github.com/BrandonKowalski/stagehand/pkg/stagehand/textdraw"
)

// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format identifies a config encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Config holds everything needed to open a manager. Durations are written
// as strings such as "400ms".
type Config struct {
	LogLevel string `toml:"log_level" yaml:"log_level"`
	LogPath  string `toml:"log_path" yaml:"log_path"`

	Mobile            bool          `toml:"mobile" yaml:"mobile"`
	KeepRatio         float64       `toml:"keep_ratio" yaml:"keep_ratio"`
	AnimationDuration time.Duration `toml:"animation_duration" yaml:"animation_duration"`
	TickInterval      time.Duration `toml:"tick_interval" yaml:"tick_interval"`
	CharInterval      time.Duration `toml:"char_interval" yaml:"char_interval"`

	LevelBaseURL string        `toml:"level_base_url" yaml:"level_base_url"`
	FetchTimeout time.Duration `toml:"fetch_timeout" yaml:"fetch_timeout"`

	Language string   `toml:"language" yaml:"language"`
	Messages []string `toml:"messages" yaml:"messages"`

	Timeline []manager.Descriptor          `toml:"timeline" yaml:"timeline"`
	Captions map[string][]textdraw.Segment `toml:"captions" yaml:"captions"`
}

// Default returns a config with every default applied and an empty timeline.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads and decodes path. Relative message file paths are resolved
// against the config file's directory.
func Load(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, m := range c.Messages {
		if !filepath.IsAbs(m) {
			c.Messages[i] = filepath.Join(dir, m)
		}
	}
	return c, nil
}

// Parse decodes data, applies defaults and validates the result.
func Parse(data []byte, format Format) (*Config, error) {
	c := &Config{}

	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), c); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.KeepRatio <= 0 {
		c.KeepRatio = constants.DefaultKeepRatio
	}
	if c.AnimationDuration <= 0 {
		c.AnimationDuration = constants.DefaultAnimationDuration
	}
	if c.TickInterval <= 0 {
		c.TickInterval = constants.DefaultTickInterval
	}
	if c.CharInterval <= 0 {
		c.CharInterval = constants.DefaultMillisPerChar * time.Millisecond
	}
	if c.Language == "" {
		c.Language = "en"
	}
	for i := range c.Timeline {
		if c.Timeline[i].Type == "" {
			c.Timeline[i].Type = manager.TypeScreen
		}
	}
}

// Validate checks the timeline for missing or repeated screen ids.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Timeline))
	for i, d := range c.Timeline {
		if d.ScreenID == "" {
			return fmt.Errorf("timeline[%d]: missing id", i)
		}
		if seen[d.ScreenID] {
			return fmt.Errorf("timeline[%d]: %w: %s", i, manager.ErrDuplicateScreen, d.ScreenID)
		}
		seen[d.ScreenID] = true
	}
	return nil
}

// ManagerOptions maps the config onto manager options. Surface and Registry
// are left for the caller.
func (c *Config) ManagerOptions() manager.Options {
	opts := manager.Options{
		KeepRatio:         c.KeepRatio,
		Mobile:            c.Mobile,
		AnimationDuration: c.AnimationDuration,
		FetchTimeout:      c.FetchTimeout,
	}
	if c.LevelBaseURL != "" {
		opts.Fetcher = &level.HTTPFetcher{BaseURL: c.LevelBaseURL}
	}
	return opts
}
