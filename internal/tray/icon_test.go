package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"runtime"
	"testing"
)

func TestIcon(t *testing.T) {
	data, err := Icon()
	if err != nil {
		t.Fatalf("Icon() error = %v", err)
	}
	if runtime.GOOS == "windows" {
		data = data[22:]
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
		t.Errorf("icon size = %v, want %dx%d", b, iconSize, iconSize)
	}
	// The marker sits in the centre.
	r, g, b, _ := img.At(iconSize/2, iconSize/2).RGBA()
	if r>>8 < 150 || g>>8 > 90 || b>>8 < 90 {
		t.Errorf("centre pixel = %d,%d,%d, want marker colour", r>>8, g>>8, b>>8)
	}
}

func TestWrapICO(t *testing.T) {
	payload := []byte("\x89PNG fake")
	ico := wrapICO(payload, 32)

	if len(ico) != 22+len(payload) {
		t.Fatalf("len = %d, want %d", len(ico), 22+len(payload))
	}
	var hdr [3]uint16
	if err := binary.Read(bytes.NewReader(ico[:6]), binary.LittleEndian, &hdr); err != nil {
		t.Fatal(err)
	}
	if hdr != [3]uint16{0, 1, 1} {
		t.Errorf("ICONDIR = %v, want [0 1 1]", hdr)
	}
	if ico[6] != 32 || ico[7] != 32 {
		t.Errorf("dimensions = %d x %d, want 32 x 32", ico[6], ico[7])
	}
	if size := binary.LittleEndian.Uint32(ico[14:18]); size != uint32(len(payload)) {
		t.Errorf("size = %d, want %d", size, len(payload))
	}
	if off := binary.LittleEndian.Uint32(ico[18:22]); off != 22 {
		t.Errorf("offset = %d, want 22", off)
	}
	if !bytes.Equal(ico[22:], payload) {
		t.Error("payload not copied verbatim")
	}
	if big := wrapICO(payload, 256); big[6] != 0 || big[7] != 0 {
		t.Errorf("256px dimensions = %d x %d, want 0 x 0", big[6], big[7])
	}
}
