package engine

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	// Decoders for the formats YouTube serves thumbnails in.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

// RenderThumb center-crops src to a square, scales it to size×size with
// CatmullRom resampling and applies the shape's alpha mask: a full circle
// for channel avatars, a rounded rectangle for video previews.
func RenderThumb(src image.Image, size, radius int, shape ThumbShape) *image.RGBA {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	scaled := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, crop, xdraw.Src, nil)

	var mask image.Image
	if shape == ShapeCircle {
		mask = &circleMask{size: size}
	} else {
		mask = &roundedMask{size: size, radius: radius}
	}

	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.DrawMask(out, out.Bounds(), scaled, image.Point{}, mask, image.Point{}, draw.Src)
	return out
}

// EncodePNG writes img losslessly to path via a temp file and rename, so a
// concurrent reader never sees a half-written thumbnail and a same-key race
// ends with one complete file.
func EncodePNG(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".thumb-*.png")
	if err != nil {
		return fmt.Errorf("create temp thumbnail: %w", err)
	}
	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp thumbnail: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist thumbnail: %w", err)
	}
	return nil
}

// circleMask is an alpha mask that is opaque inside the inscribed circle.
type circleMask struct {
	size int
}

func (m *circleMask) ColorModel() color.Model { return color.AlphaModel }

func (m *circleMask) Bounds() image.Rectangle { return image.Rect(0, 0, m.size, m.size) }

func (m *circleMask) At(x, y int) color.Color {
	r := float64(m.size) / 2
	dx := float64(x) + 0.5 - r
	dy := float64(y) + 0.5 - r
	if dx*dx+dy*dy <= r*r {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

// roundedMask is an alpha mask for a square with rounded corners.
type roundedMask struct {
	size   int
	radius int
}

func (m *roundedMask) ColorModel() color.Model { return color.AlphaModel }

func (m *roundedMask) Bounds() image.Rectangle { return image.Rect(0, 0, m.size, m.size) }

func (m *roundedMask) At(x, y int) color.Color {
	fx := float64(x) + 0.5
	fy := float64(y) + 0.5
	r := float64(m.radius)
	d := float64(m.size)

	// Distance from the nearest corner-circle center; points along the
	// straight edges clamp onto themselves and always pass.
	cx := clampFloat(fx, r, d-r)
	cy := clampFloat(fy, r, d-r)
	dx := fx - cx
	dy := fy - cy
	if dx*dx+dy*dy <= r*r {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
