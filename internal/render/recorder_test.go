package render

import (
	"github.com/gogpu/gg"
)

// drawOp is a fill or stroke captured by recorder.
type drawOp struct {
	kind      string // "fill" or "stroke"
	colour    Colour
	lineWidth float64
	matrix    gg.Matrix
	// circles built into the path since the previous draw, in device space.
	circles []circle
}

type circle struct {
	centre gg.Point
	radius float64 // logical
}

// recorder is a Canvas that tracks the transform stack and captures every
// draw call instead of rasterising.
type recorder struct {
	m         gg.Matrix
	stack     []gg.Matrix
	colour    Colour
	lineWidth float64
	pending   []circle
	ops       []drawOp
	maxDepth  int
}

func newRecorder() *recorder {
	return &recorder{m: gg.Identity(), lineWidth: 1}
}

func (r *recorder) Push() {
	r.stack = append(r.stack, r.m)
	if len(r.stack) > r.maxDepth {
		r.maxDepth = len(r.stack)
	}
}

func (r *recorder) Pop() {
	if len(r.stack) == 0 {
		return
	}
	r.m = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *recorder) Identity()                { r.m = gg.Identity() }
func (r *recorder) Translate(x, y float64)   { r.m = r.m.Multiply(gg.Translate(x, y)) }
func (r *recorder) Scale(x, y float64)       { r.m = r.m.Multiply(gg.Scale(x, y)) }
func (r *recorder) SetRGB(red, g, b float64) { r.colour = Colour{red, g, b} }
func (r *recorder) SetLineWidth(w float64)   { r.lineWidth = w }
func (r *recorder) MoveTo(x, y float64)      {}
func (r *recorder) LineTo(x, y float64)      {}

func (r *recorder) DrawRectangle(x, y, w, h float64) {}

func (r *recorder) DrawCircle(x, y, radius float64) {
	r.pending = append(r.pending, circle{centre: r.m.TransformPoint(gg.Pt(x, y)), radius: radius})
}

func (r *recorder) Fill() error   { return r.flush("fill") }
func (r *recorder) Stroke() error { return r.flush("stroke") }

func (r *recorder) FillPreserve() error {
	pending := r.pending
	r.flush("fill")
	r.pending = append([]circle(nil), pending...)
	return nil
}

func (r *recorder) flush(kind string) error {
	r.ops = append(r.ops, drawOp{
		kind:      kind,
		colour:    r.colour,
		lineWidth: r.lineWidth,
		matrix:    r.m,
		circles:   r.pending,
	})
	r.pending = nil
	return nil
}

// markers returns the device-space centres of all marker discs.
func (r *recorder) markers() []gg.Point {
	var pts []gg.Point
	for _, op := range r.ops {
		if op.kind != "fill" || op.colour != MarkerColour {
			continue
		}
		for _, c := range op.circles {
			pts = append(pts, c.centre)
		}
	}
	return pts
}

var _ Canvas = (*recorder)(nil)
