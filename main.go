package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/gogpu/gg"
	"github.com/spf13/pflag"

	"github.com/soar/RCVisualiser/internal/app"
	"github.com/soar/RCVisualiser/internal/config"
	"github.com/soar/RCVisualiser/internal/console"
	"github.com/soar/RCVisualiser/internal/display"
	"github.com/soar/RCVisualiser/internal/dpi"
	"github.com/soar/RCVisualiser/internal/gamepad/sdlinput"
	"github.com/soar/RCVisualiser/internal/render"
	"github.com/soar/RCVisualiser/internal/snapshot"
	"github.com/soar/RCVisualiser/internal/tray"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const defaultTitle = "RC Transmitter"

// os.Interrupt covers Ctrl+C everywhere; SIGTERM only arrives on Unix.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	fmt.Printf("RC Visualiser %s\n", version)

	flags := config.RegisterFlags(pflag.CommandLine)
	pflag.Parse()

	if err := run(flags); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run(flags *config.Flags) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if flags.Debug {
		gg.SetLogger(slog.Default())
	}
	scale := dpi.Resolve(cfg.GUI.Scale)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tray and console requests reach the loop through this channel; the
	// loop checks it once per iteration.
	quit := make(chan struct{})
	var quitOnce sync.Once
	requestQuit := func() { quitOnce.Do(func() { close(quit) }) }

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			requestQuit()
		case <-ctx.Done():
		}
	}()
	reregister := console.SetupConsoleHandler(requestQuit)

	if err := display.Init(); err != nil {
		return err
	}
	defer display.Quit()
	reregister()

	reader := sdlinput.NewReader(flags.Debug)
	reader.Open()
	defer reader.Close()

	title := reader.ActiveName()
	if title == "" {
		title = defaultTitle
	}

	win, err := display.Open(title, cfg.GUI.Width, cfg.GUI.Height)
	if err != nil {
		return err
	}
	defer win.Close()

	width, height := win.Size()
	log.Printf("Scale: %d", scale)
	log.Printf("Window: '%s' %dx%d", title, cfg.GUI.Width, cfg.GUI.Height)
	log.Printf("Drawable: %dx%d", width, height)

	surface, err := render.NewSurface(width, height)
	if err != nil {
		return err
	}
	defer surface.Close()

	snapshotRequests := make(chan struct{}, 1)
	requestSnapshot := func() {
		select {
		case snapshotRequests <- struct{}{}:
		default:
		}
	}

	if runtime.GOOS == "windows" && !console.IsRunningFromConsole() {
		t := tray.New(title, requestSnapshot, requestQuit)
		icon, err := tray.Icon()
		if err != nil {
			log.Printf("Tray icon: %v", err)
		}
		go t.Run(icon)
		defer t.Quit()
	} else {
		log.Println("Press Escape or Ctrl+C to exit")
	}

	loop := app.New(app.Options{
		Source:           reader,
		Presenter:        win,
		Surface:          surface,
		Scale:            scale,
		Calibrations:     cfg.Calibrations(),
		Axes:             cfg.AxisMap(),
		Snapshots:        snapshot.New(cfg.GUI.SnapshotDir, cfg.GUI.SnapshotFormat, cfg.GUI.SnapshotLogical),
		Quit:             quit,
		SnapshotRequests: snapshotRequests,
		Debug:            flags.Debug,
	})
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Println("RC Visualiser stopped")
	return nil
}
