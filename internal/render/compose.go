package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"github.com/soar/RCVisualiser/internal/gamepad"
)

const (
	// GimbalSize is the logical size of one gimbal before DPI scaling.
	GimbalSize = 100.0
	// marginUnit is the logical margin per unit of device scale.
	marginUnit = 10.0
)

// Layout is the position of the gimbal pair for one frame, in logical
// units after the device scale has been applied.
type Layout struct {
	Margin  float64
	Width   float64
	Height  float64
	OriginX float64
	OriginY float64
	// Gimbal centres relative to the layout origin.
	A gg.Point
	B gg.Point
}

// ComputeLayout centres the two gimbals in a drawable of the given pixel
// size. The margin grows with the device scale in logical units.
func ComputeLayout(width, height, deviceScale int) Layout {
	scale := float64(deviceScale)
	margin := scale * marginUnit
	l := Layout{
		Margin: margin,
		Width:  2*GimbalSize + 5*margin,
		Height: GimbalSize,
		A:      gg.Pt(GimbalSize/2, GimbalSize/2),
		B:      gg.Pt(GimbalSize*1.5+5*margin, GimbalSize/2),
	}
	l.OriginX = float64(width)/scale/2 - l.Width/2
	l.OriginY = float64(height)/scale/2 - l.Height/2
	return l
}

// Clearer is implemented by canvases that can be wiped to a solid colour.
type Clearer interface {
	ClearWithColor(c gg.RGBA)
}

// Compose draws a full frame: white background, gimbal A fed by channels
// 4 and 3, gimbal B fed by channels 1 and 2. The canvas transform is left
// as it was found.
func Compose(dc Canvas, width, height, deviceScale int, s gamepad.DisplayState) error {
	if deviceScale < 1 {
		return fmt.Errorf("render: invalid device scale %d", deviceScale)
	}
	if c, ok := dc.(Clearer); ok {
		c.ClearWithColor(gg.White)
	} else {
		dc.Push()
		dc.Identity()
		dc.DrawRectangle(0, 0, float64(width), float64(height))
		dc.SetRGB(1, 1, 1)
		err := dc.Fill()
		dc.Pop()
		if err != nil {
			return err
		}
	}

	scale := float64(deviceScale)
	l := ComputeLayout(width, height, deviceScale)

	dc.Push()
	defer dc.Pop()
	dc.Scale(scale, scale)
	dc.Translate(l.OriginX, l.OriginY)

	if err := drawAt(dc, l.A, scale, s.Channel4, s.Channel3); err != nil {
		return fmt.Errorf("render: gimbal A: %w", err)
	}
	if err := drawAt(dc, l.B, scale, s.Channel1, s.Channel2); err != nil {
		return fmt.Errorf("render: gimbal B: %w", err)
	}
	return nil
}

func drawAt(dc Canvas, centre gg.Point, scale, x, y float64) error {
	dc.Push()
	defer dc.Pop()
	dc.Translate(centre.X, centre.Y)
	dc.Scale(GimbalSize, GimbalSize)
	return DrawGimbal(dc, scale, x, y)
}

// Surface owns the drawing context and pixel buffer for one drawable size.
type Surface struct {
	dc     *gg.Context
	pixmap *gg.Pixmap
	width  int
	height int
}

// NewSurface allocates a surface of width×height device pixels.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid surface size %dx%d", width, height)
	}
	pm := gg.NewPixmap(width, height)
	return &Surface{
		dc:     gg.NewContext(width, height, gg.WithPixmap(pm)),
		pixmap: pm,
		width:  width,
		height: height,
	}, nil
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

// Render composes one frame into the surface.
func (s *Surface) Render(deviceScale int, state gamepad.DisplayState) error {
	return Compose(s.dc, s.width, s.height, deviceScale, state)
}

// Pixmap returns the surface's pixel buffer.
func (s *Surface) Pixmap() *gg.Pixmap {
	return s.pixmap
}

// Image returns a copy of the last composed frame.
func (s *Surface) Image() *image.RGBA {
	return s.pixmap.ToImage()
}

// CopyRGB24 packs the frame into dst as 24-bit RGB rows of pitch bytes.
func (s *Surface) CopyRGB24(dst []byte, pitch int) error {
	return PackRGB24(dst, pitch, s.pixmap.Data(), s.width, s.height)
}

// Close releases the drawing context.
func (s *Surface) Close() error {
	return s.dc.Close()
}

// PackRGB24 converts tightly packed RGBA pixels into RGB rows of pitch
// bytes. Alpha is dropped; frames are composed over an opaque background.
func PackRGB24(dst []byte, pitch int, rgba []byte, width, height int) error {
	if pitch < width*3 {
		return fmt.Errorf("render: pitch %d too small for width %d", pitch, width)
	}
	if need := pitch*(height-1) + width*3; height > 0 && len(dst) < need {
		return fmt.Errorf("render: buffer of %d bytes too small, need %d", len(dst), need)
	}
	if len(rgba) < width*height*4 {
		return fmt.Errorf("render: source of %d bytes too small for %dx%d", len(rgba), width, height)
	}
	for y := 0; y < height; y++ {
		src := rgba[y*width*4 : (y+1)*width*4]
		row := dst[y*pitch : y*pitch+width*3]
		for x := 0; x < width; x++ {
			row[x*3+0] = src[x*4+0]
			row[x*3+1] = src[x*4+1]
			row[x*3+2] = src[x*4+2]
		}
	}
	return nil
}
