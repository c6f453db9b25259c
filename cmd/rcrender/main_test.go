package main

import (
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/pflag"

	"github.com/soar/RCVisualiser/internal/config"
	"github.com/soar/RCVisualiser/internal/gamepad"
)

func testFlags(t *testing.T, args ...string) *config.Flags {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return flags
}

func TestDisplayState(t *testing.T) {
	cals := gamepad.Calibrations{
		gamepad.DefaultCalibration(),
		gamepad.DefaultCalibration(),
		gamepad.DefaultCalibration(),
		{Max: 1, Invert: true},
	}
	raw := [gamepad.NumChannels]float64{0.4, -0.4, 0.2, -0.2}

	got := displayState(raw, cals, false)
	want := gamepad.DisplayState{Channel1: 0.2, Channel2: -0.2, Channel3: 0.1, Channel4: 0.1}
	if got != want {
		t.Errorf("displayState() = %+v, want %+v", got, want)
	}

	got = displayState(raw, cals, true)
	want = gamepad.DisplayState{Channel1: 0.4, Channel2: -0.4, Channel3: 0.2, Channel4: -0.2}
	if got != want {
		t.Errorf("displayState(mapped) = %+v, want %+v", got, want)
	}
}

func TestRun_WritesPNG(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "frame.png")
	flags := testFlags(t, "--config", filepath.Join(dir, "none.toml"), "--scale", "1")

	// An explicit --config that does not exist is an error.
	if err := run(flags, []string{"0", "0", "0", "0"}, out, false); err == nil {
		t.Fatal("run() with a missing explicit config should fail")
	}

	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[gui]\nwidth = 450\nheight = 250\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	flags = testFlags(t, "--config", cfgPath, "--scale", "1")
	if err := run(flags, []string{"0.4", "-0.4", "0.2", "-0.2"}, out, false); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 450 || b.Dy() != 250 {
		t.Errorf("size = %v, want 450x250", b)
	}
}

func TestRun_BadArgs(t *testing.T) {
	flags := testFlags(t)
	out := filepath.Join(t.TempDir(), "x.png")
	if err := run(flags, []string{"1", "2"}, out, false); err == nil {
		t.Error("run() with two values should fail")
	}
	if err := run(flags, []string{"1", "2", "x", "4"}, out, false); err == nil {
		t.Error("run() with a non-numeric value should fail")
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantValues []string
		wantOut    string
		wantScale  int
		wantMapped bool
	}{
		{
			name:       "negative values",
			args:       []string{"0.4", "-0.4", "0.2", "-0.2"},
			wantValues: []string{"0.4", "-0.4", "0.2", "-0.2"},
			wantOut:    "frame.webp",
		},
		{
			name:       "flags around values",
			args:       []string{"-o", "out.png", "-0.5", "0", "--scale", "2", "-1", "0.5"},
			wantValues: []string{"-0.5", "0", "-1", "0.5"},
			wantOut:    "out.png",
			wantScale:  2,
		},
		{
			name:       "bool flag does not consume a value",
			args:       []string{"--mapped", "-0.1", "0.1", "0", "0", "--output=x.webp"},
			wantValues: []string{"-0.1", "0.1", "0", "0"},
			wantOut:    "x.webp",
			wantMapped: true,
		},
		{
			name:       "explicit terminator",
			args:       []string{"--scale=3", "--", "1", "-2", "3", "-4"},
			wantValues: []string{"1", "-2", "3", "-4"},
			wantOut:    "frame.webp",
			wantScale:  3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, opts := newFlagSet(pflag.ContinueOnError)
			values, err := parseArgs(fs, tt.args)
			if err != nil {
				t.Fatalf("parseArgs() error = %v", err)
			}
			if !slices.Equal(values, tt.wantValues) {
				t.Errorf("values = %q, want %q", values, tt.wantValues)
			}
			if opts.out != tt.wantOut {
				t.Errorf("output = %q, want %q", opts.out, tt.wantOut)
			}
			if opts.flags.Scale != tt.wantScale {
				t.Errorf("scale = %d, want %d", opts.flags.Scale, tt.wantScale)
			}
			if opts.mapped != tt.wantMapped {
				t.Errorf("mapped = %t, want %t", opts.mapped, tt.wantMapped)
			}
		})
	}
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	fs, _ := newFlagSet(pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := parseArgs(fs, []string{"--nope", "0", "0", "0", "0"}); err == nil {
		t.Error("parseArgs() with an unknown flag should fail")
	}
}

func TestMain_NegativeValuesEndToEnd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[gui]\nscale = 1\nwidth = 90\nheight = 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, opts := newFlagSet(pflag.ContinueOnError)
	values, err := parseArgs(fs, []string{"-c", cfgPath, "0.4", "-0.4", "0.2", "-0.2", "-o", out})
	if err != nil {
		t.Fatalf("parseArgs() error = %v", err)
	}
	if err := run(opts.flags, values, opts.out, opts.mapped); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}
