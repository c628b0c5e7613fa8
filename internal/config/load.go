package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HEXGLOBE_"

// Load loads configuration with priority: defaults < file < env < flags.
func Load() (*Config, error) {
	cfg, err := LoadFrom(ConfigPath())
	if err != nil {
		return nil, err
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	return cfg, nil
}

// LoadFrom loads defaults, then the YAML file at path (or the first
// config.yaml found in the standard locations when path is empty), then
// a .env file in the working directory and HEXGLOBE_* variables.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	// Variables already in the environment win over .env.
	_ = godotenv.Load(".env")
	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "HexGlobe")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "HexGlobe")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "hexglobe")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "hexglobe")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnv overrides cfg from HEXGLOBE_* variables. Unset or empty
// variables are ignored; malformed values are an error.
func applyEnv(cfg *Config) error {
	env := envReader{}

	env.str("STRATEGY", &cfg.Globe.Strategy)
	env.int("RESOLUTION", &cfg.Globe.Resolution)
	env.float("LAT_STEP", &cfg.Globe.LatStep)
	env.float("RADIUS", &cfg.Globe.Radius)
	env.float("TILE_RADIUS", &cfg.Globe.TileRadius)
	env.float("LAYER_OFFSET", &cfg.Globe.LayerOffset)
	env.float("EXTRUSION_DEPTH", &cfg.Globe.ExtrusionDepth)
	env.float("SHRINK_FACTOR", &cfg.Globe.ShrinkFactor)
	if v := os.Getenv(EnvPrefix + "PALETTE"); v != "" {
		cfg.Globe.Palette = strings.Split(v, ",")
		for i := range cfg.Globe.Palette {
			cfg.Globe.Palette[i] = strings.TrimSpace(cfg.Globe.Palette[i])
		}
	}

	env.float("CAMERA_DAMPING", &cfg.Camera.Damping)
	env.float("CAMERA_SPEED_FACTOR", &cfg.Camera.SpeedFactor)

	env.int("WIDTH", &cfg.Graphics.Width)
	env.int("HEIGHT", &cfg.Graphics.Height)
	env.bool("FULLSCREEN", &cfg.Graphics.Fullscreen)
	env.str("SCREENSHOT_DIR", &cfg.Graphics.ScreenshotDir)
	env.float("SUN_LAT", &cfg.Graphics.SunLat)
	env.float("SUN_LNG", &cfg.Graphics.SunLng)

	env.str("LOG_LEVEL", &cfg.Logging.Level)
	env.str("LOG_FILE", &cfg.Logging.LogFile)

	return env.err
}

// envReader keeps the first parse error so callers can read a batch of
// variables and check once.
type envReader struct {
	err error
}

func (e *envReader) lookup(name string) (string, bool) {
	v := os.Getenv(EnvPrefix + name)
	return v, v != "" && e.err == nil
}

func (e *envReader) str(name string, dst *string) {
	if v, ok := e.lookup(name); ok {
		*dst = v
	}
}

func (e *envReader) int(name string, dst *int) {
	if v, ok := e.lookup(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.err = fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) float(name string, dst *float64) {
	if v, ok := e.lookup(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.err = fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) bool(name string, dst *bool) {
	if v, ok := e.lookup(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.err = fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			return
		}
		*dst = b
	}
}
