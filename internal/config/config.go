package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName is used for the window title and config directory
const AppName = "rsfetch"

// Build info (injected at build time via -ldflags "-X")
var (
	Version   = "0.4.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

const (
	// Defaults for positional arguments
	DefaultPackageManager = "UNKNOWN"
	DefaultImagePath      = "N/A"

	// Window settings
	DefaultWindowWidth  = 1142
	DefaultWindowHeight = 532
	DefaultImageSize    = 500

	// Timeout for each external command run by the collector
	CommandTimeout = 5 * time.Second

	// File names inside the config directory
	ConfigFileName = "config.yaml"
	EnvFileName    = "env"
)

// Presentation modes
const (
	ModeGUI  = "gui"
	ModeText = "text"
)

// Music backends
const (
	MusicNone      = "none"
	MusicMPD       = "mpd"
	MusicPlayerctl = "playerctl"
)

// Config is the resolved runtime configuration
type Config struct {
	PackageManager string       `yaml:"package_manager"`
	ImagePath      string       `yaml:"image"`
	Music          string       `yaml:"music"`
	Mode           string       `yaml:"mode"`
	Debug          bool         `yaml:"debug"`
	Window         WindowConfig `yaml:"window"`
}

// WindowConfig controls the presenter window geometry
type WindowConfig struct {
	Width     float32 `yaml:"width"`
	Height    float32 `yaml:"height"`
	ImageSize float32 `yaml:"image_size"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		PackageManager: DefaultPackageManager,
		ImagePath:      DefaultImagePath,
		Music:          MusicNone,
		Mode:           ModeGUI,
		Window: WindowConfig{
			Width:     DefaultWindowWidth,
			Height:    DefaultWindowHeight,
			ImageSize: DefaultImageSize,
		},
	}
}

// Dir returns the rsfetch config directory ($XDG_CONFIG_HOME/rsfetch)
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", AppName)
	}
	return filepath.Join(home, ".config", AppName)
}

// Load resolves the configuration from defaults, the YAML file and env file in
// dir, the environment and finally the positional arguments.
func Load(dir string, args []string) (*Config, error) {
	cfg := Default()

	if err := LoadFile(filepath.Join(dir, ConfigFileName), cfg); err != nil {
		return nil, err
	}

	if err := LoadEnvFile(filepath.Join(dir, EnvFileName)); err != nil {
		return nil, err
	}

	ApplyEnv(cfg)
	ApplyArgs(cfg, args)
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile decodes a YAML config file into cfg
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // File doesn't exist is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// LoadEnvFile loads KEY=VALUE pairs from path without overriding variables
// already set in the environment
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with RSFETCH_* environment variables
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("RSFETCH_PACKAGE_MANAGER"); v != "" {
		cfg.PackageManager = v
	}
	if v := os.Getenv("RSFETCH_IMAGE"); v != "" {
		cfg.ImagePath = v
	}
	if v := os.Getenv("RSFETCH_MUSIC"); v != "" {
		cfg.Music = v
	}
	if v := os.Getenv("RSFETCH_MODE"); v != "" {
		cfg.Mode = v
	}
	if IsDebugMode() {
		cfg.Debug = true
	}
}

// ApplyArgs applies the positional arguments: package manager, then image path
func ApplyArgs(cfg *Config, args []string) {
	if len(args) >= 1 && args[0] != "" {
		cfg.PackageManager = args[0]
	}
	if len(args) >= 2 && args[1] != "" {
		cfg.ImagePath = args[1]
	}
}

// normalize lowercases the enumerated settings from every layer
func (c *Config) normalize() {
	c.Music = strings.ToLower(strings.TrimSpace(c.Music))
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
}

// Validate checks the configuration for unsupported values
func (c *Config) Validate() error {
	switch c.Music {
	case MusicNone, MusicMPD, MusicPlayerctl:
	default:
		return fmt.Errorf("unsupported music backend %q (want none, mpd or playerctl)", c.Music)
	}

	switch c.Mode {
	case ModeGUI, ModeText:
	default:
		return fmt.Errorf("unsupported mode %q (want gui or text)", c.Mode)
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %vx%v", c.Window.Width, c.Window.Height)
	}
	if c.Window.ImageSize <= 0 {
		return fmt.Errorf("image size must be positive, got %v", c.Window.ImageSize)
	}

	return nil
}

// HasImage reports whether an image path was given
func (c *Config) HasImage() bool {
	return c.ImagePath != "" && c.ImagePath != DefaultImagePath
}

// IsDebugMode checks if debug mode is enabled
func IsDebugMode() bool {
	debug := os.Getenv("RSFETCH_DEBUG")
	return debug == "true" || debug == "1"
}
