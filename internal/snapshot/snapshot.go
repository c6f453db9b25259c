// Package snapshot writes composed frames to image files.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Writer saves frames into Dir.
type Writer struct {
	Dir    string
	Format string // "webp" or "png"
	// Logical resamples frames back to scale 1 before encoding.
	Logical bool

	now func() time.Time
}

// New returns a Writer for the given directory and format.
func New(dir, format string, logical bool) *Writer {
	return &Writer{Dir: dir, Format: format, Logical: logical, now: time.Now}
}

// Save encodes img, rendered at deviceScale, to a new timestamped file and
// returns its path.
func (w *Writer) Save(img image.Image, deviceScale int) (string, error) {
	if w.Logical && deviceScale > 1 {
		img = Downscale(img, deviceScale)
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}

	now := time.Now
	if w.now != nil {
		now = w.now
	}
	name := "rcvis-" + now().Format("20060102-150405.000") + "." + w.Format
	path := filepath.Join(w.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	if err := Encode(f, img, w.Format); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("snapshot: close %s: %w", path, err)
	}
	return path, nil
}

// Encode writes img to out as "webp" or "png".
func Encode(out io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case "webp":
		err = nativewebp.Encode(out, img, nil)
	case "png":
		err = png.Encode(out, img)
	default:
		return fmt.Errorf("snapshot: unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", format, err)
	}
	return nil
}

// Downscale shrinks img by factor with Catmull-Rom filtering.
func Downscale(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx()/factor, b.Dy()/factor
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
