package tray

import (
	"bytes"
	"encoding/binary"
	"runtime"

	"github.com/gogpu/gg"

	"github.com/soar/RCVisualiser/internal/render"
)

const iconSize = 32

// Icon draws a centred gimbal and returns it encoded for the current
// platform: ICO on Windows, PNG elsewhere.
func Icon() ([]byte, error) {
	dc := gg.NewContext(iconSize, iconSize)
	defer dc.Close()

	dc.Translate(iconSize/2, iconSize/2)
	dc.Scale(iconSize*0.6, iconSize*0.6)
	if err := render.DrawGimbal(dc, 1, 0, 0); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	if runtime.GOOS == "windows" {
		return wrapICO(buf.Bytes(), iconSize), nil
	}
	return buf.Bytes(), nil
}

// wrapICO embeds a PNG image in a single-entry ICO container.
func wrapICO(pngData []byte, size int) []byte {
	const headerLen = 6 + 16
	var buf bytes.Buffer
	buf.Grow(headerLen + len(pngData))

	// ICONDIR
	binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY; 0 means 256 in the width and height bytes.
	dim := byte(size)
	if size >= 256 {
		dim = 0
	}
	buf.Write([]byte{dim, dim, 0, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // planes
	binary.Write(&buf, binary.LittleEndian, uint16(32)) // bits per pixel
	binary.Write(&buf, binary.LittleEndian, uint32(len(pngData)))
	binary.Write(&buf, binary.LittleEndian, uint32(headerLen))

	buf.Write(pngData)
	return buf.Bytes()
}
