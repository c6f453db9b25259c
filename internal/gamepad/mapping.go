package gamepad

import (
	"fmt"
	"math"
)

// NumChannels is the number of logical control channels.
const NumChannels = 4

// Channel identifies one logical control axis, 1 through 4.
type Channel int

const (
	Aileron  Channel = 1
	Elevator Channel = 2
	Throttle Channel = 3
	Rudder   Channel = 4
)

// Index returns the zero-based array index of ch.
func (ch Channel) Index() int {
	return int(ch) - 1
}

// Valid reports whether ch is one of the four channels.
func (ch Channel) Valid() bool {
	return ch >= Aileron && ch <= Rudder
}

func (ch Channel) String() string {
	switch ch {
	case Aileron:
		return "aileron"
	case Elevator:
		return "elevator"
	case Throttle:
		return "throttle"
	case Rudder:
		return "rudder"
	}
	return fmt.Sprintf("channel(%d)", int(ch))
}

// Channels lists all channels in order.
var Channels = [NumChannels]Channel{Aileron, Elevator, Throttle, Rudder}

// AxisMap routes raw joystick axis indices to channels.
type AxisMap struct {
	axes [NumChannels]int
}

// DefaultAxisMap routes left stick X, left stick Y, left Z and right stick X
// to channels 1 through 4.
func DefaultAxisMap() AxisMap {
	return AxisMap{axes: [NumChannels]int{0, 1, 2, 3}}
}

// WithAxis returns a copy of m with channel ch read from the given axis.
// Invalid channels leave the copy unchanged.
func (m AxisMap) WithAxis(ch Channel, axis int) AxisMap {
	if ch.Valid() {
		m.axes[ch.Index()] = axis
	}
	return m
}

// Axis returns the joystick axis index that feeds ch, or -1 for an invalid
// channel.
func (m AxisMap) Axis(ch Channel) int {
	if !ch.Valid() {
		return -1
	}
	return m.axes[ch.Index()]
}

// Lookup returns the channel fed by the given axis. The first channel wins
// when two channels share an axis.
func (m AxisMap) Lookup(axis int) (Channel, bool) {
	for i, a := range m.axes {
		if a == axis {
			return Channels[i], true
		}
	}
	return 0, false
}

// NormalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}
