// Package app runs the visualiser's main loop: drain input, update the
// display state, compose a frame and present it.
package app

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/soar/RCVisualiser/internal/gamepad"
	"github.com/soar/RCVisualiser/internal/render"
)

// State is the loop's lifecycle state.
type State int

const (
	Running State = iota
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting down"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Presenter hands a frame to the display. Present acquires a mutable pixel
// view, calls fill with it and releases the view on every path.
type Presenter interface {
	Present(fill func(pix []byte, pitch int) error) error
}

// Snapshotter saves a composed frame.
type Snapshotter interface {
	Save(img image.Image, deviceScale int) (string, error)
}

// Options configures a Loop.
type Options struct {
	Source       gamepad.Source
	Presenter    Presenter
	Surface      *render.Surface
	Scale        int
	Calibrations gamepad.Calibrations
	Axes         gamepad.AxisMap

	// Snapshots is optional.
	Snapshots Snapshotter
	// Quit and SnapshotRequests carry requests from other goroutines
	// (tray, console handler). Both are optional.
	Quit             <-chan struct{}
	SnapshotRequests <-chan struct{}

	Debug bool
}

// Loop owns the display state. All methods must be called from the thread
// that owns the window.
type Loop struct {
	opts   Options
	state  State
	ds     gamepad.DisplayState
	logged gamepad.DisplayState
	events []gamepad.Event
	frames uint64

	snapshotPending bool
}

// New returns a Loop in the Running state with all channels at zero.
func New(opts Options) *Loop {
	return &Loop{
		opts:   opts,
		events: make([]gamepad.Event, 0, 64),
	}
}

// State returns the current lifecycle state.
func (l *Loop) State() State { return l.state }

// Display returns the current display state.
func (l *Loop) Display() gamepad.DisplayState { return l.ds }

// Frames returns the number of frames presented.
func (l *Loop) Frames() uint64 { return l.frames }

// Run steps the loop until it shuts down or ctx is cancelled. A render or
// present failure ends the loop with an error.
func (l *Loop) Run(ctx context.Context) error {
	for l.state == Running {
		if ctx.Err() != nil {
			log.Println("shutting down")
			l.state = ShuttingDown
			break
		}
		if err := l.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one iteration: drain events, then compose and present a frame
// unless a quit was requested.
func (l *Loop) Step() error {
	l.events = l.opts.Source.Poll(l.events[:0])
	for _, ev := range l.events {
		l.handle(ev)
		if l.state == ShuttingDown {
			return nil
		}
	}
	l.pollRequests()
	if l.state == ShuttingDown {
		return nil
	}

	if l.opts.Debug && l.ds.Changed(l.logged) {
		log.Printf("[DEBUG] Channels: 1=%.3f 2=%.3f 3=%.3f 4=%.3f",
			l.ds.Channel1, l.ds.Channel2, l.ds.Channel3, l.ds.Channel4)
		l.logged = l.ds
	}

	if err := l.opts.Surface.Render(l.opts.Scale, l.ds); err != nil {
		return fmt.Errorf("app: render frame: %w", err)
	}
	if l.snapshotPending {
		l.snapshotPending = false
		l.saveSnapshot()
	}
	if err := l.opts.Presenter.Present(l.opts.Surface.CopyRGB24); err != nil {
		return fmt.Errorf("app: present frame: %w", err)
	}
	l.frames++
	return nil
}

func (l *Loop) handle(ev gamepad.Event) {
	switch e := ev.(type) {
	case gamepad.QuitEvent:
		log.Println("shutting down")
		l.state = ShuttingDown

	case gamepad.KeyEvent:
		switch e.Key {
		case gamepad.KeyEscape:
			log.Println("shutting down")
			l.state = ShuttingDown
		case gamepad.KeySnapshot:
			l.snapshotPending = true
		}

	case gamepad.AxisEvent:
		ch, ok := l.opts.Axes.Lookup(e.Axis)
		if !ok {
			return
		}
		l.ds.Set(ch, gamepad.Map(e.Value, l.opts.Calibrations.For(ch)))

	case gamepad.DeviceEvent:
		// Disconnects keep the last values on screen.

	case gamepad.ButtonEvent:
	}
}

func (l *Loop) pollRequests() {
	select {
	case <-l.opts.Quit:
		log.Println("shutting down")
		l.state = ShuttingDown
		return
	default:
	}
	select {
	case <-l.opts.SnapshotRequests:
		l.snapshotPending = true
	default:
	}
}

func (l *Loop) saveSnapshot() {
	if l.opts.Snapshots == nil {
		return
	}
	path, err := l.opts.Snapshots.Save(l.opts.Surface.Image(), l.opts.Scale)
	if err != nil {
		log.Printf("Snapshot failed: %v", err)
		return
	}
	log.Printf("Snapshot written: %s", path)
}
