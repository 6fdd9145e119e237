package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the overlay looks for an optional config file.
const DefaultPath = "duck.yaml"

type Config struct {
	Assets AssetsConfig `yaml:"assets"`
	Status StatusConfig `yaml:"status"`
	Pet    PetConfig    `yaml:"pet"`
	Log    LogConfig    `yaml:"log"`
}

type AssetsConfig struct {
	Sprite string `yaml:"sprite"` // animated GIF
	Egg    string `yaml:"egg"`    // PNG, drawn at EggSize
	Cue    string `yaml:"cue"`    // mp3 quack
}

type StatusConfig struct {
	Path     string        `yaml:"path"`
	Interval time.Duration `yaml:"interval"`
}

// PetConfig tunes the neglect state machine. Defaults reproduce the stock duck.
type PetConfig struct {
	InitialSize  int           `yaml:"initial_size"`
	MaxSizeRatio float64       `yaml:"max_size_ratio"` // of screen width
	HungryAfter  time.Duration `yaml:"hungry_after"`
	HealthSpan   time.Duration `yaml:"health_span"`
	EggRate      time.Duration `yaml:"egg_rate"`
	EggRateFloor time.Duration `yaml:"egg_rate_floor"`
	ExitDelay    time.Duration `yaml:"exit_delay"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error

	// SlogLevel is Level parsed by Load.
	SlogLevel slog.Level `yaml:"-"`
}

func defaults() *Config {
	return &Config{
		Assets: AssetsConfig{
			Sprite: "duck.gif",
			Egg:    "egg2.png",
			Cue:    "quack_1.mp3",
		},
		Status: StatusConfig{
			Path:     "duck_status.txt",
			Interval: time.Second,
		},
		Pet: PetConfig{
			InitialSize:  100,
			MaxSizeRatio: 0.35,
			HungryAfter:  5 * time.Second,
			HealthSpan:   10 * time.Second,
			EggRate:      time.Second,
			EggRateFloor: 50 * time.Millisecond,
			ExitDelay:    2 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	var errs []string
	if cfg.Assets.Sprite == "" || cfg.Assets.Egg == "" || cfg.Assets.Cue == "" {
		errs = append(errs, "assets: sprite, egg and cue paths are required")
	}
	if cfg.Status.Path == "" {
		errs = append(errs, "status.path is required")
	}
	if cfg.Status.Interval <= 0 {
		errs = append(errs, "status.interval must be positive")
	}
	if cfg.Pet.InitialSize <= 0 {
		errs = append(errs, "pet.initial_size must be positive")
	}
	if cfg.Pet.MaxSizeRatio <= 0 || cfg.Pet.MaxSizeRatio > 1 {
		errs = append(errs, "pet.max_size_ratio must be in (0, 1]")
	}
	if cfg.Pet.HungryAfter <= 0 || cfg.Pet.HealthSpan <= 0 {
		errs = append(errs, "pet.hungry_after and pet.health_span must be positive")
	}
	if cfg.Pet.EggRateFloor <= 0 || cfg.Pet.EggRate < cfg.Pet.EggRateFloor {
		errs = append(errs, "pet.egg_rate must be at least pet.egg_rate_floor > 0")
	}
	if cfg.Pet.ExitDelay < 0 {
		errs = append(errs, "pet.exit_delay must not be negative")
	}
	if lvl, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err.Error())
	} else {
		cfg.Log.SlogLevel = lvl
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level %q is not one of debug, info, warn, error", s)
}
