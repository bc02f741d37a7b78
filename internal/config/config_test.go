package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/dicebox/internal/dice"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dicebox", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config to be written: %v", err)
	}
	if cfg.Settings.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", cfg.Settings.Version)
	}
	if cfg.HistoryLimit() != 1024 {
		t.Fatalf("expected history limit 1024, got %d", cfg.HistoryLimit())
	}
	if cfg.Volume() != 50 {
		t.Fatalf("expected volume 50, got %d", cfg.Volume())
	}
	if got := cfg.Settings.Sound.AssetsDir; got != filepath.Join(filepath.Dir(path), "assets") {
		t.Fatalf("assets dir not resolved against config dir: %s", got)
	}
	if cfg.Settings.Sound.SkipPrefix != "!" {
		t.Fatalf("expected skip prefix !, got %q", cfg.Settings.Sound.SkipPrefix)
	}
	if len(cfg.Presets()) != 5 {
		t.Fatalf("expected 5 quick rolls, got %d", len(cfg.Presets()))
	}
	if cfg.LogPath() != filepath.Join(filepath.Dir(path), "logs", "dicebox.log") {
		t.Fatalf("unexpected log path %s", cfg.LogPath())
	}
}

func TestLoadParsesYaml(t *testing.T) {
	dir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
history_limit: 16
dice:
  max_count: 20
  min_modifier: -10
  max_modifier: 30
sound:
  mute: true
  assets_dir: /opt/sounds
  volume: 0
quick_rolls:
  - 2d6 + 3
  - " 1D20 "
`)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HistoryLimit() != 16 {
		t.Fatalf("history limit = %d", cfg.HistoryLimit())
	}
	limits := cfg.Limits()
	if limits.MaxCount != 20 || limits.MinModifier != -10 || limits.MaxModifier != 30 {
		t.Fatalf("unexpected limits %+v", limits)
	}
	if !cfg.Settings.Sound.Mute {
		t.Fatalf("expected mute")
	}
	if cfg.Volume() != 0 {
		t.Fatalf("explicit zero volume must be kept, got %d", cfg.Volume())
	}
	if cfg.Settings.Sound.AssetsDir != filepath.Clean("/opt/sounds") {
		t.Fatalf("absolute assets dir changed: %s", cfg.Settings.Sound.AssetsDir)
	}
	presets := cfg.Presets()
	if len(presets) != 2 || presets[0].Name != "2D6 + 3" || presets[1].Name != "1D20" {
		t.Fatalf("unexpected presets %+v", presets)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"volume":      "sound:\n  volume: 300\n",
		"modifier":    "dice:\n  min_modifier: 5\n  max_modifier: 1\n",
		"history":     "history_limit: -1\n",
		"quick rolls": "quick_rolls:\n  - 2D7\n",
		"yaml":        "dice: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected validation error but got none")
			}
		})
	}
}

func TestSetVolumePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.SetVolume(85); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Volume() != 85 {
		t.Fatalf("volume after reload = %d, want 85", reloaded.Volume())
	}
	if len(reloaded.Presets()) != 5 {
		t.Fatalf("quick rolls lost on save: %d", len(reloaded.Presets()))
	}
}

func TestLoadRejectsQuickRollsOutsideDiceLimits(t *testing.T) {
	cases := map[string]string{
		"count":      "dice:\n  max_count: 5\nquick_rolls:\n  - 6D6\n",
		"huge count": "quick_rolls:\n  - 99999999999D6\n",
		"constant":   "dice:\n  min_modifier: 0\n  max_modifier: 10\nquick_rolls:\n  - 1D6 - 3\n",
		"above max":  "dice:\n  max_modifier: 10\nquick_rolls:\n  - 1D6 + 11\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, dice.ErrOutOfLimits) {
				t.Fatalf("Load error = %v, want ErrOutOfLimits", err)
			}
			if !strings.Contains(err.Error(), "quick_rolls: preset 1") {
				t.Fatalf("error should name the preset: %v", err)
			}
		})
	}
}

func TestQuickRollsCarryConfiguredLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "dice:\n  max_count: 5\n  min_modifier: -2\n  max_modifier: 4\nquick_rolls:\n  - 5D6 - 2\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	preset := cfg.Presets()[0]
	if preset.State.Limits != cfg.Limits() {
		t.Fatalf("preset limits = %+v, want %+v", preset.State.Limits, cfg.Limits())
	}
	if preset.State.Count(dice.D6) != 5 || preset.State.Modifier != -2 {
		t.Fatalf("unexpected preset %+v", preset.State)
	}
}
