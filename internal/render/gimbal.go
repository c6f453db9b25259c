// Package render draws the two-gimbal frame with gg.
//
// Gimbals are drawn in a logical coordinate system where the bounding
// square spans -0.5..0.5. Cross-hair and square strokes are issued with the
// identity transform so their width is measured in device pixels.
package render

import "github.com/gogpu/gg"

// Canvas is the subset of *gg.Context used for drawing.
type Canvas interface {
	Push()
	Pop()
	Identity()
	Translate(x, y float64)
	Scale(x, y float64)
	SetRGB(r, g, b float64)
	SetLineWidth(width float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	DrawCircle(x, y, r float64)
	DrawRectangle(x, y, w, h float64)
	Fill() error
	FillPreserve() error
	Stroke() error
}

var _ Canvas = (*gg.Context)(nil)

// Colour is an RGB triple with components in 0..1.
type Colour struct {
	R, G, B float64
}

var (
	PlateColour     = Colour{0.8, 0.8, 0.8}
	CrossHairColour = Colour{0.7, 0.7, 0.7}
	BoundsColour    = Colour{0.3, 0.3, 0.3}
	MarkerColour    = Colour{179. / 255., 52. / 255., 121. / 255.}
)

const (
	plateRadius  = 0.825
	markerRadius = 0.1

	crossHairWidth = 2 // device pixels per unit of scale
	boundsWidth    = 1
)

func setColour(dc Canvas, c Colour) {
	dc.SetRGB(c.R, c.G, c.B)
}

// DrawGimbal draws one gimbal centred on the current origin with the
// marker at (x, y). deviceScale sets the stroke widths in device pixels.
// The marker is not clamped to the bounding square.
func DrawGimbal(dc Canvas, deviceScale, x, y float64) error {
	// The plate outline stays in the path and is stroked with the cross-hair.
	setColour(dc, PlateColour)
	dc.DrawCircle(0, 0, plateRadius)
	if err := dc.FillPreserve(); err != nil {
		return err
	}

	dc.MoveTo(-0.5, 0)
	dc.LineTo(0.5, 0)
	dc.MoveTo(0, -0.5)
	dc.LineTo(0, 0.5)
	setColour(dc, CrossHairColour)
	if err := strokeDevice(dc, crossHairWidth*deviceScale); err != nil {
		return err
	}

	dc.DrawRectangle(-0.5, -0.5, 1, 1)
	setColour(dc, BoundsColour)
	if err := strokeDevice(dc, boundsWidth*deviceScale); err != nil {
		return err
	}

	dc.Push()
	defer dc.Pop()
	dc.Translate(x, y)
	setColour(dc, MarkerColour)
	dc.DrawCircle(0, 0, markerRadius)
	return dc.Fill()
}

// strokeDevice strokes the current path with width in device pixels.
// The path has already been transformed when it was built.
func strokeDevice(dc Canvas, width float64) error {
	dc.Push()
	defer dc.Pop()
	dc.Identity()
	dc.SetLineWidth(width)
	return dc.Stroke()
}
