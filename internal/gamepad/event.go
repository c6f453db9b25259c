package gamepad

// Event is one input or window event delivered to the main loop.
type Event interface {
	isEvent()
}

// Key identifies the keys the visualiser reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeySnapshot
)

// QuitEvent is sent when the window is closed.
type QuitEvent struct{}

// KeyEvent is sent on key press.
type KeyEvent struct {
	Key Key
}

// AxisEvent carries a normalised axis sample from a joystick.
type AxisEvent struct {
	Device uint32
	Axis   int
	Value  float64
}

// ButtonEvent is sent on joystick button press and release.
type ButtonEvent struct {
	Device uint32
	Button int
	Down   bool
}

// DeviceEvent is sent when a joystick is connected or disconnected.
type DeviceEvent struct {
	Device    uint32
	Name      string
	Connected bool
}

func (QuitEvent) isEvent()   {}
func (KeyEvent) isEvent()    {}
func (AxisEvent) isEvent()   {}
func (ButtonEvent) isEvent() {}
func (DeviceEvent) isEvent() {}

// Source delivers pending events without blocking.
type Source interface {
	// Poll appends all queued events to dst and returns it.
	Poll(dst []Event) []Event
}
