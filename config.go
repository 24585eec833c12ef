package easel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("easel: invalid config")

// HexColor is a PackedColor that reads and writes as "#RRGGBB" or
// "#RRGGBBAA" in YAML.
type HexColor PackedColor

// UnmarshalYAML parses a hex color string.
func (c *HexColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	p, err := ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	*c = HexColor(p)
	return nil
}

// MarshalYAML writes the color as "#RRGGBBAA".
func (c HexColor) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("#%08X", uint32(c)), nil
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA" (the leading # is optional).
func ParseHexColor(s string) (PackedColor, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return 0, fmt.Errorf("invalid color format: %s", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %s: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xFF
	}
	return PackedColor(v), nil
}

// Config holds the tunables of a Scene.
type Config struct {
	// MaxInstances caps the number of shapes drawn per frame.
	MaxInstances int `yaml:"max_instances"`
	// ClearColor is the canvas background.
	ClearColor HexColor `yaml:"clear_color"`
	// DragDeadZone is the pointer travel in screen pixels before a press
	// turns into a drag.
	DragDeadZone float64 `yaml:"drag_dead_zone"`
	MinZoom      float64 `yaml:"min_zoom"`
	MaxZoom      float64 `yaml:"max_zoom"`
	// ZoomStep is the zoom factor applied per wheel notch.
	ZoomStep float64 `yaml:"zoom_step"`
	// PlaceholderFill is drawn for images whose texture is not ready.
	PlaceholderFill HexColor `yaml:"placeholder_fill"`
	// PlaceholderSize is used for images created without a size.
	PlaceholderSize      float64  `yaml:"placeholder_size"`
	SelectionStroke      HexColor `yaml:"selection_stroke"`
	SelectionStrokeWidth float64  `yaml:"selection_stroke_width"`
	Debug                bool     `yaml:"debug"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		MaxInstances:         DefaultMaxInstances,
		ClearColor:           HexColor(RGBA(0xF5, 0xF5, 0xF5, 0xFF)),
		DragDeadZone:         4,
		MinZoom:              0.05,
		MaxZoom:              64,
		ZoomStep:             1.1,
		PlaceholderFill:      HexColor(RGBA(0xCC, 0xCC, 0xCC, 0xFF)),
		PlaceholderSize:      100,
		SelectionStroke:      HexColor(RGBA(0x1E, 0x90, 0xFF, 0xFF)),
		SelectionStrokeWidth: 1,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.MaxInstances <= 0:
		return fmt.Errorf("%w: max_instances must be positive, got %d", ErrInvalidConfig, c.MaxInstances)
	case c.DragDeadZone < 0:
		return fmt.Errorf("%w: drag_dead_zone must not be negative, got %g", ErrInvalidConfig, c.DragDeadZone)
	case c.MinZoom <= 0:
		return fmt.Errorf("%w: min_zoom must be positive, got %g", ErrInvalidConfig, c.MinZoom)
	case c.MaxZoom < c.MinZoom:
		return fmt.Errorf("%w: max_zoom %g is below min_zoom %g", ErrInvalidConfig, c.MaxZoom, c.MinZoom)
	case c.ZoomStep <= 1:
		return fmt.Errorf("%w: zoom_step must be greater than 1, got %g", ErrInvalidConfig, c.ZoomStep)
	case c.PlaceholderSize <= 0:
		return fmt.Errorf("%w: placeholder_size must be positive, got %g", ErrInvalidConfig, c.PlaceholderSize)
	case c.SelectionStrokeWidth < 0:
		return fmt.Errorf("%w: selection_stroke_width must not be negative, got %g", ErrInvalidConfig, c.SelectionStrokeWidth)
	}
	return nil
}

// ParseConfig decodes YAML on top of DefaultConfig, so omitted keys keep
// their defaults, and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("easel: unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("easel: load config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("easel: config %s: %w", path, err)
	}
	return cfg, nil
}

// configReloadDebounce is how long the file must stay quiet before a reload.
const configReloadDebounce = 100 * time.Millisecond

// WatchConfig calls fn with the reloaded config every time the file at path
// is written. Parse failures are passed to fn with a zero Config and the
// previous config stays in effect for the caller. The parent directory is
// watched so editors that replace the file on save are handled. WatchConfig
// blocks until ctx is done.
func WatchConfig(ctx context.Context, path string, fn func(Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("easel: watch config: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("easel: watch config: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("easel: watch config %s: %w", path, err)
	}

	// Reload once a save burst has settled, so a truncate followed by a
	// write is read after the write.
	reload := time.NewTimer(configReloadDebounce)
	reload.Stop()
	defer reload.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reload.C:
			fn(LoadConfig(abs))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			reload.Reset(configReloadDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fn(Config{}, fmt.Errorf("easel: watch config: %w", err))
		}
	}
}
