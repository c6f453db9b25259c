// Package display owns the SDL3 window, renderer and streaming texture the
// composed frames are presented through.
package display

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"unsafe"

	"github.com/jupiterrider/purego-sdl3/sdl"
)

// Window is an SDL window with a streaming RGB24 texture covering its
// drawable area.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	width    int
	height   int
}

// Init initialises SDL's video and joystick subsystems. It locks the
// calling goroutine to its OS thread; every later SDL call, including
// Quit, must happen on that goroutine.
func Init() error {
	runtime.LockOSThread()
	if !sdl.Init(sdl.InitVideo | sdl.InitJoystick) {
		runtime.UnlockOSThread()
		return fmt.Errorf("display: SDL init failed: %s", sdl.GetError())
	}
	return nil
}

// Quit shuts SDL down.
func Quit() {
	sdl.Quit()
	runtime.UnlockOSThread()
}

// Open creates a window of width×height logical pixels. Frames are
// presented at the window's pixel size, which is larger on high-density
// displays.
func Open(title string, width, height int) (*Window, error) {
	w := &Window{}
	if !sdl.CreateWindowAndRenderer(title, int32(width), int32(height), sdl.WindowHighPixelDensity, &w.window, &w.renderer) {
		return nil, fmt.Errorf("display: create window: %s", sdl.GetError())
	}
	if !sdl.SetRenderVSync(w.renderer, 1) {
		log.Printf("VSync unavailable: %s", sdl.GetError())
	}

	var pw, ph int32
	if !sdl.GetWindowSizeInPixels(w.window, &pw, &ph) {
		w.Close()
		return nil, fmt.Errorf("display: query drawable size: %s", sdl.GetError())
	}
	w.width, w.height = int(pw), int(ph)

	w.texture = sdl.CreateTexture(w.renderer, sdl.PixelFormatRGB24, sdl.TextureAccessStreaming, pw, ph)
	if w.texture == nil {
		w.Close()
		return nil, fmt.Errorf("display: create texture: %s", sdl.GetError())
	}
	return w, nil
}

// Size returns the drawable size in device pixels.
func (w *Window) Size() (int, int) {
	return w.width, w.height
}

// Present locks the texture, lets fill write the frame into it, unlocks
// and presents. The texture is unlocked on every path.
func (w *Window) Present(fill func(pix []byte, pitch int) error) error {
	if err := w.withLock(fill); err != nil {
		return err
	}

	sdl.SetRenderDrawColor(w.renderer, 128, 128, 128, 255)
	sdl.RenderClear(w.renderer)
	if !sdl.RenderTexture(w.renderer, w.texture, nil, nil) {
		return fmt.Errorf("display: copy texture: %s", sdl.GetError())
	}
	if !sdl.RenderPresent(w.renderer) {
		return fmt.Errorf("display: present: %s", sdl.GetError())
	}
	return nil
}

func (w *Window) withLock(fill func(pix []byte, pitch int) error) error {
	var pixels unsafe.Pointer
	var pitch int32
	if !sdl.LockTexture(w.texture, nil, &pixels, &pitch) {
		return fmt.Errorf("display: lock texture: %s", sdl.GetError())
	}
	defer sdl.UnlockTexture(w.texture)

	if pixels == nil || pitch <= 0 {
		return errors.New("display: texture lock returned no pixels")
	}
	pix := unsafe.Slice((*byte)(pixels), int(pitch)*w.height)
	return fill(pix, int(pitch))
}

// Close destroys the texture, renderer and window.
func (w *Window) Close() {
	if w.texture != nil {
		sdl.DestroyTexture(w.texture)
		w.texture = nil
	}
	if w.renderer != nil {
		sdl.DestroyRenderer(w.renderer)
		w.renderer = nil
	}
	if w.window != nil {
		sdl.DestroyWindow(w.window)
		w.window = nil
	}
}
