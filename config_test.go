package easel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("max_instances: 500\nclear_color: \"#112233\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxInstances != 500 {
		t.Errorf("MaxInstances = %d", cfg.MaxInstances)
	}
	if PackedColor(cfg.ClearColor) != RGBA(0x11, 0x22, 0x33, 0xFF) {
		t.Errorf("ClearColor = %08X", uint32(cfg.ClearColor))
	}
	def := DefaultConfig()
	if cfg.ZoomStep != def.ZoomStep || cfg.DragDeadZone != def.DragDeadZone || cfg.SelectionStroke != def.SelectionStroke {
		t.Errorf("omitted keys lost their defaults: %+v", cfg)
	}
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("empty document = %+v", cfg)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"max_instances": "max_instances: 0",
		"min_zoom":      "min_zoom: -1",
		"max_zoom":      "min_zoom: 2\nmax_zoom: 1",
		"zoom_step":     "zoom_step: 1",
		"dead_zone":     "drag_dead_zone: -3",
		"placeholder":   "placeholder_size: 0",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseConfigBadColor(t *testing.T) {
	for _, doc := range []string{
		"clear_color: \"#12345\"",
		"clear_color: \"#GGGGGG\"",
		"clear_color: [1, 2, 3]",
	} {
		if _, err := ParseConfig([]byte(doc)); err == nil {
			t.Errorf("ParseConfig(%q) succeeded", doc)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	cases := map[string]PackedColor{
		"#1E90FF":   RGBA(0x1E, 0x90, 0xFF, 0xFF),
		"1e90ff80":  RGBA(0x1E, 0x90, 0xFF, 0x80),
		"#00000000": 0,
	}
	for in, want := range cases {
		got, err := ParseHexColor(in)
		if err != nil || got != want {
			t.Errorf("ParseHexColor(%q) = %08X, %v, want %08X", in, uint32(got), err, uint32(want))
		}
	}
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	want := DefaultConfig()
	want.MaxInstances = 123
	want.PlaceholderFill = HexColor(RGBA(1, 2, 3, 4))
	data, err := yaml.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "#01020304") {
		t.Errorf("marshalled color missing:\n%s", data)
	}
	got, err := ParseConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "easel.yaml")
	if err := os.WriteFile(path, []byte("zoom_step: 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ZoomStep != 1.5 {
		t.Errorf("ZoomStep = %f", cfg.ZoomStep)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(bad, []byte("max_instances: -1\n"), 0o644)
	if _, err := LoadConfig(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("invalid file err = %v", err)
	}
}

func TestWatchConfigReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "easel.yaml")
	if err := os.WriteFile(path, []byte("max_instances: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(cfg Config, err error) {
			if err == nil {
				select {
				case got <- cfg:
				default:
				}
			}
		})
	}()

	// The watcher starts asynchronously; keep rewriting until a reload with
	// the new value shows up.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-got:
			if cfg.MaxInstances == 777 {
				cancel()
				if err := <-done; err != nil {
					t.Errorf("WatchConfig returned %v", err)
				}
				return
			}
		case <-tick.C:
			_ = os.WriteFile(path, []byte("max_instances: 777\n"), 0o644)
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatchConfigMissingDir(t *testing.T) {
	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "nope", "easel.yaml"), func(Config, error) {})
	if err == nil {
		t.Error("watching a missing directory succeeded")
	}
}

func TestWatchConfigReadsSettledFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "easel.yaml")
	if err := os.WriteFile(path, []byte("max_instances: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan Config, 64)
	go func() {
		_ = WatchConfig(ctx, path, func(cfg Config, err error) {
			if err == nil {
				got <- cfg
			}
		})
	}()

	// Wait until the watcher is live.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
ready:
	for {
		select {
		case cfg := <-got:
			if cfg.MaxInstances == 777 {
				break ready
			}
		case <-tick.C:
			_ = os.WriteFile(path, []byte("max_instances: 777\n"), 0o644)
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
	tick.Stop()
	time.Sleep(300 * time.Millisecond)
	for len(got) > 0 {
		<-got
	}

	// Truncate, then write, the way some editors save.
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("max_instances: 555\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case cfg := <-got:
		if cfg.MaxInstances != 555 {
			t.Errorf("reloaded MaxInstances = %d, want 555", cfg.MaxInstances)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after save")
	}
}
