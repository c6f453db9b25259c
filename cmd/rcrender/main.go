// Command rcrender renders a single visualiser frame to an image file
// without opening a window or reading a gamepad.
//
//	rcrender [flags] CH1 CH2 CH3 CH4
//
// Channel values are raw axis samples and go through the configured
// calibration, unless --mapped is given.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/soar/RCVisualiser/internal/config"
	"github.com/soar/RCVisualiser/internal/dpi"
	"github.com/soar/RCVisualiser/internal/gamepad"
	"github.com/soar/RCVisualiser/internal/render"
	"github.com/soar/RCVisualiser/internal/snapshot"
)

type options struct {
	flags  *config.Flags
	out    string
	mapped bool
}

func newFlagSet(errorHandling pflag.ErrorHandling) (*pflag.FlagSet, *options) {
	fs := pflag.NewFlagSet("rcrender", errorHandling)
	opts := &options{flags: config.RegisterFlags(fs)}
	fs.StringVarP(&opts.out, "output", "o", "frame.webp", "output file (.webp or .png)")
	fs.BoolVar(&opts.mapped, "mapped", false, "treat values as display offsets (-0.5..0.5) and skip calibration")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rcrender [flags] CH1 CH2 CH3 CH4\n")
		fs.PrintDefaults()
	}
	return fs, opts
}

func main() {
	fs, opts := newFlagSet(pflag.ExitOnError)
	values, err := parseArgs(fs, os.Args[1:])
	if err == nil {
		err = run(opts.flags, values, opts.out, opts.mapped)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs parses flags and returns the positional channel values.
// Negative numbers such as -0.4 are values, not shorthand flags, so they
// are moved behind a "--" terminator before pflag sees them.
func parseArgs(fs *pflag.FlagSet, args []string) ([]string, error) {
	var flagArgs, values []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			values = append(values, args[i+1:]...)
			i = len(args)
		case isNumber(a) || !strings.HasPrefix(a, "-"):
			values = append(values, a)
		default:
			flagArgs = append(flagArgs, a)
			if takesValue(fs, a) && i+1 < len(args) {
				i++
				flagArgs = append(flagArgs, args[i])
			}
		}
	}
	if err := fs.Parse(append(append(flagArgs, "--"), values...)); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// takesValue reports whether a flag given without "=" consumes the next
// argument.
func takesValue(fs *pflag.FlagSet, arg string) bool {
	var f *pflag.Flag
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		if strings.Contains(name, "=") {
			return false
		}
		f = fs.Lookup(name)
	} else {
		short := strings.TrimPrefix(arg, "-")
		if len(short) != 1 {
			return false
		}
		f = fs.ShorthandLookup(short)
	}
	return f != nil && f.NoOptDefVal == ""
}

func run(flags *config.Flags, args []string, out string, mapped bool) error {
	if len(args) != gamepad.NumChannels {
		return fmt.Errorf("need %d channel values, got %d", gamepad.NumChannels, len(args))
	}

	var raw [gamepad.NumChannels]float64
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("channel %d: %w", i+1, err)
		}
		raw[i] = v
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	state := displayState(raw, cfg.Calibrations(), mapped)

	scale := dpi.Resolve(cfg.GUI.Scale)
	surface, err := render.NewSurface(cfg.GUI.Width*scale, cfg.GUI.Height*scale)
	if err != nil {
		return err
	}
	defer surface.Close()

	if err := surface.Render(scale, state); err != nil {
		return err
	}

	img := surface.Image()
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if cfg.GUI.SnapshotLogical && scale > 1 {
		err = snapshot.Encode(f, snapshot.Downscale(img, scale), format)
	} else {
		err = snapshot.Encode(f, img, format)
	}
	if err != nil {
		f.Close()
		os.Remove(out)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("Rendered %s (scale %d): 1=%.3f 2=%.3f 3=%.3f 4=%.3f\n",
		out, scale, state.Channel1, state.Channel2, state.Channel3, state.Channel4)
	return nil
}

// loadConfig reads the configuration file when one exists or was asked
// for explicitly, and falls back to the defaults otherwise.
func loadConfig(flags *config.Flags) (*config.Config, error) {
	if !flags.Changed("config") {
		if _, err := os.Stat(flags.ConfigPath); os.IsNotExist(err) {
			return config.Defaults(flags)
		}
	}
	return config.Load(flags)
}

func displayState(raw [gamepad.NumChannels]float64, cals gamepad.Calibrations, mapped bool) gamepad.DisplayState {
	var s gamepad.DisplayState
	for i, ch := range gamepad.Channels {
		v := raw[i]
		if !mapped {
			v = gamepad.Map(v, cals.For(ch))
		}
		s.Set(ch, v)
	}
	return s
}
