package tray

import (
	"log"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
)

// Tray manages the system tray icon and menu. Menu actions are delivered
// through callbacks; the main loop picks them up on its own thread.
type Tray struct {
	title      string
	onSnapshot func()
	onExit     func()

	once         sync.Once
	shuttingDown atomic.Bool
	menuSnapshot *systray.MenuItem
	menuExit     *systray.MenuItem
}

// New creates a Tray. onExit runs at most once.
func New(title string, onSnapshot, onExit func()) *Tray {
	return &Tray{
		title:      title,
		onSnapshot: onSnapshot,
		onExit:     onExit,
	}
}

// Run initializes and runs the system tray (blocks until Quit).
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, func() {
		t.shuttingDown.Store(true)
		log.Println("System tray exiting")
	})
}

// Quit removes the tray icon.
func (t *Tray) Quit() {
	if t.shuttingDown.CompareAndSwap(false, true) {
		systray.Quit()
	}
}

func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("RC Visualiser")
	systray.SetTooltip("RC Visualiser - " + t.title)

	t.menuSnapshot = systray.AddMenuItem("Snapshot", "Save the current frame")
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	go t.handleMenuClicks()

	log.Println("System tray initialized")
}

func (t *Tray) handleMenuClicks() {
	for {
		select {
		case <-t.menuSnapshot.ClickedCh:
			if !t.shuttingDown.Load() {
				t.onSnapshot()
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.onExit)
				systray.Quit()
				return
			}
		}
	}
}
