package gamepad

import "math"

// DisplayState holds the latest mapped value of each channel.
type DisplayState struct {
	Channel1 float64 `json:"channel1"` // aileron
	Channel2 float64 `json:"channel2"` // elevator
	Channel3 float64 `json:"channel3"` // throttle
	Channel4 float64 `json:"channel4"` // rudder
}

// Set overwrites the value of ch. Invalid channels are ignored.
func (s *DisplayState) Set(ch Channel, v float64) {
	switch ch {
	case Aileron:
		s.Channel1 = v
	case Elevator:
		s.Channel2 = v
	case Throttle:
		s.Channel3 = v
	case Rudder:
		s.Channel4 = v
	}
}

// Get returns the value of ch, or 0 for an invalid channel.
func (s DisplayState) Get(ch Channel) float64 {
	switch ch {
	case Aileron:
		return s.Channel1
	case Elevator:
		return s.Channel2
	case Throttle:
		return s.Channel3
	case Rudder:
		return s.Channel4
	}
	return 0
}

const analogThreshold = 0.01

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < analogThreshold
}

// Changed reports whether any channel moved by at least the analog
// threshold since prev.
func (s DisplayState) Changed(prev DisplayState) bool {
	return !floatEqual(s.Channel1, prev.Channel1) ||
		!floatEqual(s.Channel2, prev.Channel2) ||
		!floatEqual(s.Channel3, prev.Channel3) ||
		!floatEqual(s.Channel4, prev.Channel4)
}
