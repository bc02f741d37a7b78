// internal/config/config.go
//
// This package handles the dicebox configuration file. The file lives in the
// user's config directory (dicebox/config.yaml) and is created with defaults
// the first time the roller starts.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/dicebox/internal/dice"
	"github.com/kingrea/dicebox/internal/records"
)

const (
	// AppDir is the directory created under the user config dir.
	AppDir = "dicebox"

	// FileName is the configuration file inside AppDir.
	FileName = "config.yaml"

	currentVersion = 1

	defaultAssetsDir  = "assets"
	defaultSkipPrefix = "!"
	defaultVolume     = 50
	maxVolume         = 100
)

const defaultConfigYAML = `# dicebox configuration
version: 1

# Rows kept in the roll history before the oldest is dropped.
history_limit: 1024

# Ranges accepted by the selection panel.
dice:
  max_count: 100
  min_modifier: 0
  max_modifier: 100

sound:
  mute: false
  # Relative paths are resolved against this file's directory.
  assets_dir: assets
  # Files starting with this prefix are not loaded.
  skip_prefix: "!"
  volume: 50

# One-key rolls shown in the quick roll window.
quick_rolls:
  - 1D4
  - 3D4
  - 1D6
  - 3D6
  - 1D100
`

// DiceConfig bounds the selection panel.
type DiceConfig struct {
	MaxCount    int `yaml:"max_count"`
	MinModifier int `yaml:"min_modifier"`
	MaxModifier int `yaml:"max_modifier"`
}

// SoundConfig captures audio preferences.
type SoundConfig struct {
	Mute       bool   `yaml:"mute"`
	AssetsDir  string `yaml:"assets_dir"`
	SkipPrefix string `yaml:"skip_prefix"`
	Volume     *int   `yaml:"volume,omitempty"`
}

// Settings models config.yaml.
type Settings struct {
	Version      int         `yaml:"version"`
	HistoryLimit int         `yaml:"history_limit"`
	Dice         DiceConfig  `yaml:"dice"`
	Sound        SoundConfig `yaml:"sound"`
	QuickRolls   []string    `yaml:"quick_rolls"`
}

// Config holds the runtime configuration for dicebox.
type Config struct {
	// Path is the config file that was loaded.
	Path string

	// Dir holds the config file, the logs directory and relative assets.
	Dir string

	Settings Settings

	presets []dice.Preset
}

// DefaultPath returns $XDG_CONFIG_HOME/dicebox/config.yaml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate user config dir: %w", err)
	}
	return filepath.Join(base, AppDir, FileName), nil
}

// Load reads the config at path, writing the default file first when it
// does not exist. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	if err := ensureConfigFile(abs); err != nil {
		return nil, err
	}
	cfg := &Config{
		Path:     abs,
		Dir:      filepath.Dir(abs),
		Settings: defaultSettings(),
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogPath returns the session journal location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, "logs", "dicebox.log")
}

// Limits returns the selection bounds.
func (c *Config) Limits() dice.Limits {
	return c.Settings.Dice.limits()
}

func (d DiceConfig) limits() dice.Limits {
	return dice.Limits{
		MaxCount:    d.MaxCount,
		MinModifier: d.MinModifier,
		MaxModifier: d.MaxModifier,
	}
}

// Presets returns the parsed quick rolls.
func (c *Config) Presets() []dice.Preset {
	if c.presets == nil {
		return dice.DefaultPresets()
	}
	return c.presets
}

// HistoryLimit returns the history capacity.
func (c *Config) HistoryLimit() int {
	return c.Settings.HistoryLimit
}

// Volume returns the configured volume.
func (c *Config) Volume() int {
	if c.Settings.Sound.Volume == nil {
		return defaultVolume
	}
	return *c.Settings.Sound.Volume
}

// SetVolume updates the volume and persists it back to the config file.
func (c *Config) SetVolume(v int) error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	v = min(max(v, 0), maxVolume)
	c.Settings.Sound.Volume = &v
	return c.save()
}

func (c *Config) load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c.finish(&c.Settings)
		}
		return fmt.Errorf("config: read %s: %w", c.Path, err)
	}

	parsed := Settings{}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", c.Path, err)
	}
	if err := c.finish(&parsed); err != nil {
		return err
	}
	c.Settings = parsed
	return nil
}

func (c *Config) finish(s *Settings) error {
	s.applyDefaults()
	s.normalize(c.Dir)
	if err := s.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	presets, err := dice.ParsePresets(s.QuickRolls)
	if err != nil {
		return fmt.Errorf("config: quick_rolls: %w", err)
	}
	limits := s.Dice.limits()
	for i := range presets {
		if err := limits.Check(presets[i].State); err != nil {
			return fmt.Errorf("config: quick_rolls: preset %d (%s): %w", i+1, presets[i].Name, err)
		}
		presets[i].State.Limits = limits
	}
	c.presets = presets
	return nil
}

func defaultSettings() Settings {
	volume := defaultVolume
	return Settings{
		Version:      currentVersion,
		HistoryLimit: records.DefaultLimit,
		Dice: DiceConfig{
			MaxCount:    dice.DefaultLimits().MaxCount,
			MinModifier: dice.DefaultLimits().MinModifier,
			MaxModifier: dice.DefaultLimits().MaxModifier,
		},
		Sound: SoundConfig{
			AssetsDir:  defaultAssetsDir,
			SkipPrefix: defaultSkipPrefix,
			Volume:     &volume,
		},
		QuickRolls: []string{"1D4", "3D4", "1D6", "3D6", "1D100"},
	}
}

func (s *Settings) applyDefaults() {
	defaults := defaultSettings()
	if s.Version == 0 {
		s.Version = currentVersion
	}
	if s.HistoryLimit == 0 {
		s.HistoryLimit = defaults.HistoryLimit
	}
	if s.Dice.MaxCount == 0 {
		s.Dice.MaxCount = defaults.Dice.MaxCount
	}
	if s.Dice.MinModifier == 0 && s.Dice.MaxModifier == 0 {
		s.Dice.MaxModifier = defaults.Dice.MaxModifier
	}
	if strings.TrimSpace(s.Sound.AssetsDir) == "" {
		s.Sound.AssetsDir = defaults.Sound.AssetsDir
	}
	if s.Sound.Volume == nil {
		s.Sound.Volume = defaults.Sound.Volume
	}
	if s.QuickRolls == nil {
		s.QuickRolls = defaults.QuickRolls
	}
}

func (s *Settings) normalize(base string) {
	s.Sound.AssetsDir = resolvePath(base, s.Sound.AssetsDir)
	s.Sound.SkipPrefix = strings.TrimSpace(s.Sound.SkipPrefix)
	rolls := make([]string, 0, len(s.QuickRolls))
	for _, roll := range s.QuickRolls {
		if trimmed := strings.TrimSpace(roll); trimmed != "" {
			rolls = append(rolls, trimmed)
		}
	}
	s.QuickRolls = rolls
}

func (s *Settings) validate() error {
	if s.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if s.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be >= 1")
	}
	if s.Dice.MaxCount < 1 {
		return fmt.Errorf("dice.max_count must be >= 1")
	}
	if s.Dice.MinModifier > s.Dice.MaxModifier {
		return fmt.Errorf("dice.min_modifier must not exceed dice.max_modifier")
	}
	if s.Dice.MinModifier > 0 || s.Dice.MaxModifier < 0 {
		return fmt.Errorf("dice modifier range must include 0")
	}
	if v := *s.Sound.Volume; v < 0 || v > maxVolume {
		return fmt.Errorf("sound.volume must be between 0 and %d", maxVolume)
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: ensure config dir: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func (c *Config) save() error {
	if err := c.finish(&c.Settings); err != nil {
		return err
	}
	data, err := yaml.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.Path, data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}
