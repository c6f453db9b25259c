// Package config loads the visualiser configuration with viper.
package config

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soar/RCVisualiser/internal/gamepad"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "config.toml"

// Config is the decoded configuration document.
type Config struct {
	GUI      GUIConfig      `mapstructure:"gui"`
	Channels ChannelsConfig `mapstructure:"channels"`
}

// GUIConfig holds window and output settings.
type GUIConfig struct {
	// Scale is the DPI scale; nil means resolve it from the environment.
	Scale           *int   `mapstructure:"scale"`
	Width           int    `mapstructure:"width"`
	Height          int    `mapstructure:"height"`
	SnapshotDir     string `mapstructure:"snapshot_dir"`
	SnapshotFormat  string `mapstructure:"snapshot_format"`
	SnapshotLogical bool   `mapstructure:"snapshot_logical"`
}

// ChannelsConfig holds the shared default calibration and the per-channel
// overrides.
type ChannelsConfig struct {
	Default  DefaultChannel `mapstructure:"default"`
	Channel1 ChannelConfig  `mapstructure:"channel1"`
	Channel2 ChannelConfig  `mapstructure:"channel2"`
	Channel3 ChannelConfig  `mapstructure:"channel3"`
	Channel4 ChannelConfig  `mapstructure:"channel4"`
}

// DefaultChannel is the calibration every channel inherits from.
type DefaultChannel struct {
	Max    float64 `mapstructure:"max"`
	Invert bool    `mapstructure:"invert"`
}

// ChannelConfig overrides the default for one channel.
type ChannelConfig struct {
	gamepad.Override `mapstructure:",squash"`
	// Axis is the joystick axis index feeding this channel.
	Axis *int `mapstructure:"axis"`
}

// Flags are the command-line options shared by the binaries.
type Flags struct {
	ConfigPath  string
	Scale       int
	SnapshotDir string
	Debug       bool

	fs *pflag.FlagSet
}

// RegisterFlags adds the shared options to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.ConfigPath, "config", "c", DefaultPath, "path to the configuration file")
	fs.IntVar(&f.Scale, "scale", 0, "DPI scale (overrides gui.scale)")
	fs.StringVar(&f.SnapshotDir, "snapshot-dir", "", "directory for frame snapshots (overrides gui.snapshot_dir)")
	fs.BoolVar(&f.Debug, "debug", false, "log button and channel traces")
	return f
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gui.width", 900)
	v.SetDefault("gui.height", 500)
	v.SetDefault("gui.snapshot_dir", ".")
	v.SetDefault("gui.snapshot_format", "webp")
	v.SetDefault("gui.snapshot_logical", false)
	def := gamepad.DefaultCalibration()
	v.SetDefault("channels.default.max", def.Max)
	v.SetDefault("channels.default.invert", def.Invert)
}

// Load reads the configuration file named by flags. A missing or malformed
// file is an error.
func Load(flags *Flags) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(flags.ConfigPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", flags.ConfigPath, err)
	}
	return decode(v, flags)
}

// Parse decodes a configuration document of the given viper type
// ("toml", "yaml", "json").
func Parse(r io.Reader, configType string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType(configType)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return decode(v, nil)
}

// Defaults returns the configuration used when no file is given.
func Defaults(flags *Flags) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	return decode(v, flags)
}

// Changed reports whether the named flag was set on the command line.
func (f *Flags) Changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

func decode(v *viper.Viper, flags *Flags) (*Config, error) {
	if flags != nil {
		if flags.Changed("scale") {
			v.Set("gui.scale", flags.Scale)
		}
		if flags.Changed("snapshot-dir") {
			v.Set("gui.snapshot_dir", flags.SnapshotDir)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.warn()
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.GUI.Scale != nil && *c.GUI.Scale < 1 {
		errs = append(errs, fmt.Errorf("config: gui.scale must be >= 1, got %d", *c.GUI.Scale))
	}
	if c.GUI.Width <= 0 || c.GUI.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: invalid window size %dx%d", c.GUI.Width, c.GUI.Height))
	}
	switch c.GUI.SnapshotFormat {
	case "webp", "png":
	default:
		errs = append(errs, fmt.Errorf("config: unknown gui.snapshot_format %q", c.GUI.SnapshotFormat))
	}
	for _, ch := range gamepad.Channels {
		if a := c.channel(ch).Axis; a != nil && *a < 0 {
			errs = append(errs, fmt.Errorf("config: channels.channel%d.axis must be >= 0, got %d", ch, *a))
		}
	}
	return errors.Join(errs...)
}

// warn logs calibration values that will misbehave. They are not rejected:
// the mapper divides by max as configured.
func (c *Config) warn() {
	cals := c.Calibrations()
	for _, ch := range gamepad.Channels {
		if m := cals.For(ch).Max; m <= 0 {
			log.Printf("Warning: channel %d (%s) has max=%g; values will not map sensibly", ch, ch, m)
		}
	}
}

func (c *Config) channel(ch gamepad.Channel) ChannelConfig {
	switch ch {
	case gamepad.Aileron:
		return c.Channels.Channel1
	case gamepad.Elevator:
		return c.Channels.Channel2
	case gamepad.Throttle:
		return c.Channels.Channel3
	case gamepad.Rudder:
		return c.Channels.Channel4
	}
	return ChannelConfig{}
}

// Default returns the shared default calibration.
func (c *Config) Default() gamepad.Calibration {
	return gamepad.Calibration{Max: c.Channels.Default.Max, Invert: c.Channels.Default.Invert}
}

// Calibrations resolves each channel's calibration against the default.
func (c *Config) Calibrations() gamepad.Calibrations {
	var cals gamepad.Calibrations
	def := c.Default()
	for _, ch := range gamepad.Channels {
		cals[ch.Index()] = gamepad.Resolve(c.channel(ch).Override, def)
	}
	return cals
}

// AxisMap returns the axis routing with configured overrides applied.
func (c *Config) AxisMap() gamepad.AxisMap {
	m := gamepad.DefaultAxisMap()
	for _, ch := range gamepad.Channels {
		if a := c.channel(ch).Axis; a != nil {
			m = m.WithAxis(ch, *a)
		}
	}
	return m
}
