// Package config loads osa-vlist settings from defaults, an optional TOML
// file, VLIST_ environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/miosa/osa-vlist/ui/lifecycle"
	"github.com/miosa/osa-vlist/ui/vlist"
)

// EnvConfig names the variable that overrides the config file location.
const EnvConfig = "VLIST_CONFIG"

// Config holds application configuration.
type Config struct {
	List   ListConfig   `mapstructure:"list"`
	Source SourceConfig `mapstructure:"source"`
	UI     UIConfig     `mapstructure:"ui"`
	Log    LogConfig    `mapstructure:"log"`
}

// ListConfig mirrors vlist.Options in file/env friendly form.
type ListConfig struct {
	Axis                  string        `mapstructure:"axis"`
	Mode                  string        `mapstructure:"mode"`
	Reverse               bool          `mapstructure:"reverse"`
	Dynamic               bool          `mapstructure:"dynamic"`
	ExtraChunk            int           `mapstructure:"extra_chunk"`
	Length                int           `mapstructure:"length"`
	Lazy                  int           `mapstructure:"lazy"`
	LazyDelay             time.Duration `mapstructure:"lazy_delay"`
	EndTimeout            time.Duration `mapstructure:"end_timeout"`
	PerformanceAlertLimit time.Duration `mapstructure:"performance_alert_limit"`
	StartIndex            int           `mapstructure:"start_index"`
	StartPosition         int           `mapstructure:"start_position"`
	Debug                 bool          `mapstructure:"debug"`
}

// SourceConfig selects where item bodies come from.
type SourceConfig struct {
	// DB is a sqlite file. Empty keeps items in memory.
	DB       string `mapstructure:"db"`
	Seed     int64  `mapstructure:"seed"`
	Markdown bool   `mapstructure:"markdown"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme     string `mapstructure:"theme"`
	Metrics   bool   `mapstructure:"metrics"`
	WheelStep int    `mapstructure:"wheel_step"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
	Level   string `mapstructure:"level"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"axis":           "list.axis",
	"mode":           "list.mode",
	"reverse":        "list.reverse",
	"dynamic":        "list.dynamic",
	"extra-chunk":    "list.extra_chunk",
	"length":         "list.length",
	"lazy":           "list.lazy",
	"lazy-delay":     "list.lazy_delay",
	"end-timeout":    "list.end_timeout",
	"start-index":    "list.start_index",
	"start-position": "list.start_position",
	"debug":          "list.debug",
	"db":             "source.db",
	"seed":           "source.seed",
	"markdown":       "source.markdown",
	"theme":          "ui.theme",
	"metrics":        "ui.metrics",
	"log":            "log.enabled",
	"log-level":      "log.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("list.axis", "y")
	v.SetDefault("list.mode", lifecycle.Recycle.String())
	v.SetDefault("list.reverse", false)
	v.SetDefault("list.dynamic", false)
	v.SetDefault("list.extra_chunk", 4)
	v.SetDefault("list.length", 10000)
	v.SetDefault("list.lazy", 0)
	v.SetDefault("list.lazy_delay", vlist.DefaultLazyDelay)
	v.SetDefault("list.end_timeout", vlist.DefaultEndTimeout)
	v.SetDefault("list.performance_alert_limit", vlist.DefaultPerformanceAlertLimit)
	v.SetDefault("list.start_index", -1)
	v.SetDefault("list.start_position", -1)
	v.SetDefault("list.debug", false)
	v.SetDefault("source.db", "")
	v.SetDefault("source.seed", 1)
	v.SetDefault("source.markdown", false)
	v.SetDefault("ui.theme", "")
	v.SetDefault("ui.metrics", false)
	v.SetDefault("ui.wheel_step", 3)
	v.SetDefault("log.enabled", false)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.level", "info")
}

// RegisterFlags declares the command-line flags Load understands.
func RegisterFlags(f *pflag.FlagSet) {
	f.String("axis", "y", "scroll axis (x or y)")
	f.String("mode", lifecycle.Recycle.String(), "item lifecycle: recreate, cache, recycle or declarative")
	f.Bool("reverse", false, "render the last item first")
	f.Bool("dynamic", false, "measure every item individually (cache and declarative modes)")
	f.Int("extra-chunk", 4, "items rendered past the visible edge in the scroll direction")
	f.IntP("length", "n", 10000, "number of items")
	f.Int("lazy", 0, "scroll delta above which items render as placeholders (0 disables)")
	f.Duration("lazy-delay", vlist.DefaultLazyDelay, "delay before placeholders are populated")
	f.Duration("end-timeout", vlist.DefaultEndTimeout, "quiet period that ends a scroll gesture")
	f.Int("start-index", -1, "index to scroll to after loading")
	f.Int("start-position", -1, "offset to scroll to after loading")
	f.Bool("debug", false, "log render decisions")
	f.String("db", "", "sqlite file holding item bodies (empty: in memory)")
	f.Int64("seed", 1, "seed for generated item bodies")
	f.Bool("markdown", false, "render item bodies as markdown")
	f.String("theme", "", "color theme (default: detect from terminal)")
	f.Bool("metrics", false, "show the metrics panel and print metrics on exit")
	f.Bool("log", false, "write a log file under ~/.osa-vlist/logs")
	f.String("log-level", "info", "log level: debug, info, warn or error")
}

// Path returns the config file location.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "osa-vlist", "config.toml")
	}
	return filepath.Join(home, ".config", "osa-vlist", "config.toml")
}

// Load reads configuration from file, env and flags. Env var overrides use
// prefix VLIST_. flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("VLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("list.axis", cfg.List.Axis)
	v.Set("list.mode", cfg.List.Mode)
	v.Set("list.reverse", cfg.List.Reverse)
	v.Set("list.dynamic", cfg.List.Dynamic)
	v.Set("list.extra_chunk", cfg.List.ExtraChunk)
	v.Set("list.length", cfg.List.Length)
	v.Set("list.lazy", cfg.List.Lazy)
	v.Set("list.lazy_delay", cfg.List.LazyDelay.String())
	v.Set("list.end_timeout", cfg.List.EndTimeout.String())
	v.Set("list.performance_alert_limit", cfg.List.PerformanceAlertLimit.String())
	v.Set("list.start_index", cfg.List.StartIndex)
	v.Set("list.start_position", cfg.List.StartPosition)
	v.Set("list.debug", cfg.List.Debug)
	v.Set("source.db", cfg.Source.DB)
	v.Set("source.seed", cfg.Source.Seed)
	v.Set("source.markdown", cfg.Source.Markdown)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.metrics", cfg.UI.Metrics)
	v.Set("ui.wheel_step", cfg.UI.WheelStep)
	v.Set("log.enabled", cfg.Log.Enabled)
	v.Set("log.dir", cfg.Log.Dir)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ListOptions converts the list section into validated engine options.
func (c Config) ListOptions() (vlist.Options, error) {
	axis, err := vlist.ParseAxis(c.List.Axis)
	if err != nil {
		return vlist.Options{}, err
	}
	mode, err := lifecycle.ParseMode(c.List.Mode)
	if err != nil {
		return vlist.Options{}, fmt.Errorf("%w: %w", vlist.ErrInvalidOption, err)
	}

	o := vlist.DefaultOptions()
	o.Axis = axis
	o.Mode = mode
	o.Reverse = c.List.Reverse
	o.Dynamic = c.List.Dynamic
	o.ExtraChunk = c.List.ExtraChunk
	o.Length = c.List.Length
	o.Lazy = c.List.Lazy
	o.Debug = c.List.Debug
	o.StartIndex = c.List.StartIndex
	o.StartPosition = c.List.StartPosition
	if c.List.LazyDelay > 0 {
		o.LazyDelay = c.List.LazyDelay
	}
	if c.List.EndTimeout > 0 {
		o.EndTimeout = c.List.EndTimeout
	}
	if c.List.PerformanceAlertLimit > 0 {
		o.PerformanceAlertLimit = c.List.PerformanceAlertLimit
	}

	if err := o.Validate(); err != nil {
		return vlist.Options{}, err
	}
	return o, nil
}
