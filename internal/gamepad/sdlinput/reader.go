// Package sdlinput reads window, keyboard and joystick events from SDL3.
// Importing it loads the SDL library.
package sdlinput

import (
	"log"

	"github.com/jupiterrider/purego-sdl3/sdl"

	"github.com/soar/RCVisualiser/internal/gamepad"
)

type joystickInfo struct {
	joystick *sdl.Joystick
	name     string
	id       sdl.JoystickID
}

// Reader drains the SDL3 event queue and translates window, keyboard and
// joystick events into gamepad.Events. Only the first connected joystick feeds
// axis events; the next one is promoted when it disconnects.
//
// SDL must be initialised with the joystick subsystem before use, and all
// calls must happen on the thread that initialised SDL.
type Reader struct {
	joysticks map[sdl.JoystickID]*joystickInfo
	activeID  sdl.JoystickID
	hasActive bool
	debug     bool
}

func NewReader(debug bool) *Reader {
	return &Reader{
		joysticks: make(map[sdl.JoystickID]*joystickInfo),
		debug:     debug,
	}
}

// Open opens every joystick that is already connected.
func (r *Reader) Open() {
	for _, id := range sdl.GetJoysticks() {
		r.openJoystick(id)
	}
}

// ActiveName returns the name of the active joystick, or "" if none is
// connected.
func (r *Reader) ActiveName() string {
	if !r.hasActive {
		return ""
	}
	return r.joysticks[r.activeID].name
}

// Close closes all opened joysticks.
func (r *Reader) Close() {
	for id, info := range r.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(r.joysticks, id)
	}
	r.hasActive = false
}

var _ gamepad.Source = (*Reader)(nil)

// Poll implements gamepad.Source.
func (r *Reader) Poll(dst []gamepad.Event) []gamepad.Event {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventQuit:
			dst = append(dst, gamepad.QuitEvent{})

		case sdl.EventKeyDown:
			dst = append(dst, gamepad.KeyEvent{Key: translateKey(event.Key().Scancode)})

		case sdl.EventJoystickAdded:
			if ev, ok := r.openJoystick(event.JDevice().Which); ok {
				dst = append(dst, ev)
			}

		case sdl.EventJoystickRemoved:
			if ev, ok := r.removeJoystick(event.JDevice().Which); ok {
				dst = append(dst, ev)
			}

		case sdl.EventJoystickButtonDown, sdl.EventJoystickButtonUp:
			be := event.JButton()
			down := event.Type() == sdl.EventJoystickButtonDown
			if r.debug {
				log.Printf("[DEBUG] Button: index=%d down=%t joystick=%d", be.Button, down, be.Which)
			}
			dst = append(dst, gamepad.ButtonEvent{Device: uint32(be.Which), Button: int(be.Button), Down: down})

		case sdl.EventJoystickAxisMotion:
			ae := event.JAxis()
			if !r.hasActive || ae.Which != r.activeID {
				continue
			}
			dst = append(dst, gamepad.AxisEvent{
				Device: uint32(ae.Which),
				Axis:   int(ae.Axis),
				Value:  gamepad.NormalizeAxis(ae.Value),
			})
		}
	}
	return dst
}

func translateKey(sc sdl.Scancode) gamepad.Key {
	switch sc {
	case sdl.ScancodeEscape:
		return gamepad.KeyEscape
	case sdl.ScancodeR:
		return gamepad.KeySnapshot
	}
	return gamepad.KeyOther
}

func (r *Reader) openJoystick(instanceID sdl.JoystickID) (gamepad.DeviceEvent, bool) {
	if _, exists := r.joysticks[instanceID]; exists {
		return gamepad.DeviceEvent{}, false
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		log.Printf("Failed to open joystick %d: %s", instanceID, sdl.GetError())
		return gamepad.DeviceEvent{}, false
	}

	jsID := sdl.GetJoystickID(js)
	name := sdl.GetJoystickName(js)
	r.joysticks[jsID] = &joystickInfo{joystick: js, name: name, id: jsID}

	log.Printf("Joystick connected: %s (VID=%04X PID=%04X) axes=%d buttons=%d",
		name, sdl.GetJoystickVendor(js), sdl.GetJoystickProduct(js),
		sdl.GetNumJoystickAxes(js), sdl.GetNumJoystickButtons(js))

	if !r.hasActive {
		r.activeID = jsID
		r.hasActive = true
		log.Printf("Active joystick set: %s (ID=%d)", name, jsID)
	}
	return gamepad.DeviceEvent{Device: uint32(jsID), Name: name, Connected: true}, true
}

func (r *Reader) removeJoystick(instanceID sdl.JoystickID) (gamepad.DeviceEvent, bool) {
	info, exists := r.joysticks[instanceID]
	if !exists {
		return gamepad.DeviceEvent{}, false
	}

	log.Printf("Joystick disconnected: %s", info.name)
	sdl.CloseJoystick(info.joystick)
	delete(r.joysticks, instanceID)

	if r.hasActive && r.activeID == instanceID {
		r.hasActive = false
		for id, js := range r.joysticks {
			if sdl.JoystickConnected(js.joystick) {
				r.activeID = id
				r.hasActive = true
				log.Printf("Active joystick switched to: %s (ID=%d)", js.name, id)
				break
			}
		}
	}
	return gamepad.DeviceEvent{Device: uint32(instanceID), Name: info.name, Connected: false}, true
}
