package touchnav

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
)

// Default tuning values. Changing them changes gesture feel; keep them in
// sync with DefaultConfig.
const (
	defaultCumulativeDistanceThreshold = 40
	defaultDecelerationCount           = 4
	defaultDecelerationTick            = 10 * time.Millisecond
	defaultFlickThreshold              = 400 // squared px
	defaultJitterThreshold             = 200 // squared px
	defaultSlowdownFactor              = 0.975
	defaultTouchDownTimeout            = 200 * time.Millisecond
	defaultHoverTimeout                = 100 * time.Millisecond
	defaultNodeSearchThreshold         = 400 // squared px
)

// Config holds the navigator's thresholds and timeouts.
type Config struct {
	// CumulativeDistanceThreshold is the Manhattan drag length a gesture must
	// exceed at release to continue with momentum.
	CumulativeDistanceThreshold float64 `toml:"cumulative_distance_threshold"`
	// DecelerationCount is the number of recent samples used to estimate
	// release velocity.
	DecelerationCount int `toml:"deceleration_count"`
	// DecelerationTick is the period of the momentum decay loop.
	DecelerationTick Duration `toml:"deceleration_tick"`
	// FlickThreshold is the squared distance from the anchor that makes a
	// first motion a flick.
	FlickThreshold float64 `toml:"flick_threshold"`
	// JitterThreshold is the squared distance from the anchor that makes any
	// motion a pan.
	JitterThreshold float64 `toml:"jitter_threshold"`
	// SlowdownFactor multiplies the decay velocity each tick and is also the
	// per-axis speed below which decay stops.
	SlowdownFactor float64 `toml:"slowdown_factor"`

	TouchDownTimeout Duration `toml:"touch_down_timeout"`
	HoverTimeout     Duration `toml:"hover_timeout"`
	// NodeSearchThreshold is the squared distance within which a tap snaps
	// to a nearby radio button or checkbox.
	NodeSearchThreshold float64 `toml:"node_search_threshold"`

	// Debug routes debug-level logs to stderr when Logger is nil.
	Debug bool `toml:"debug"`
	// Logger receives gesture logs. Nil means discard (or stderr if Debug).
	Logger *slog.Logger `toml:"-"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		CumulativeDistanceThreshold: defaultCumulativeDistanceThreshold,
		DecelerationCount:           defaultDecelerationCount,
		DecelerationTick:            Duration(defaultDecelerationTick),
		FlickThreshold:              defaultFlickThreshold,
		JitterThreshold:             defaultJitterThreshold,
		SlowdownFactor:              defaultSlowdownFactor,
		TouchDownTimeout:            Duration(defaultTouchDownTimeout),
		HoverTimeout:                Duration(defaultHoverTimeout),
		NodeSearchThreshold:         defaultNodeSearchThreshold,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.CumulativeDistanceThreshold < 0:
		return fmt.Errorf("validate config: cumulative_distance_threshold %v is negative", c.CumulativeDistanceThreshold)
	case c.DecelerationCount < 1:
		return fmt.Errorf("validate config: deceleration_count %d must be at least 1", c.DecelerationCount)
	case c.DecelerationTick <= 0:
		return fmt.Errorf("validate config: deceleration_tick %v must be positive", time.Duration(c.DecelerationTick))
	case c.FlickThreshold < 0 || c.JitterThreshold < 0 || c.NodeSearchThreshold < 0:
		return errors.New("validate config: distance thresholds must not be negative")
	case c.SlowdownFactor <= 0 || c.SlowdownFactor >= 1:
		return fmt.Errorf("validate config: slowdown_factor %v must be in (0, 1)", c.SlowdownFactor)
	case c.TouchDownTimeout < 0 || c.HoverTimeout < 0:
		return errors.New("validate config: timeouts must not be negative")
	}
	return nil
}

// logger returns the configured logger, building one from Debug if unset.
func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.Debug {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})).
			With("component", "touchnav")
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- TOML ---

// Duration is a time.Duration that encodes as a TOML string ("10ms").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// LoadConfig reads a TOML file on top of DefaultConfig, so missing keys keep
// their defaults, and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as TOML, creating the parent directory if needed.
func SaveConfig(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return nil
}

// --- Hot reload ---

const configDebounce = 100 * time.Millisecond

// WatchConfig watches path and, after writes settle for 100ms, reloads it and
// posts the new Config to fn on loop. Reload errors are logged with logger
// (may be nil) and the previous config stays in effect. The returned stop
// function ends the watch and may be called more than once.
func WatchConfig(loop *Loop, path string, logger *slog.Logger, fn func(Config)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}
	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config %s: %w", path, err)
	}
	if logger == nil {
		logger = DefaultConfig().logger()
	}

	done := make(chan struct{})
	target := filepath.Clean(path)

	go func() {
		defer watcher.Close()

		var debounce *time.Timer
		reload := func() {
			cfg, err := LoadConfig(path)
			if err != nil {
				logger.Warn("config reload failed", "path", path, "err", err)
				return
			}
			loop.Post(func() { fn(cfg) })
		}

		for {
			select {
			case <-done:
				if debounce != nil {
					debounce.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(configDebounce, reload)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "path", path, "err", err)
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}
