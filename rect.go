package texres

import (
	"fmt"
	"image"
)

// RectangleF is an axis-aligned rectangle with float64 coordinates, used
// for texture-coordinate rectangles and sub-rectangle selection.
type RectangleF struct {
	X, Y, W, H float64
}

// RectF is a convenience constructor for RectangleF.
func RectF(x, y, w, h float64) RectangleF {
	return RectangleF{X: x, Y: y, W: w, H: h}
}

// rectFFromImage converts an image.Rectangle to a RectangleF.
func rectFFromImage(r image.Rectangle) RectangleF {
	return RectangleF{
		X: float64(r.Min.X),
		Y: float64(r.Min.Y),
		W: float64(r.Dx()),
		H: float64(r.Dy()),
	}
}

// IsEmpty reports whether the rectangle covers no area.
func (r RectangleF) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Right returns the X coordinate of the right edge.
func (r RectangleF) Right() float64 { return r.X + r.W }

// Bottom returns the Y coordinate of the bottom edge.
func (r RectangleF) Bottom() float64 { return r.Y + r.H }

// Offset returns the rectangle translated by (dx, dy).
func (r RectangleF) Offset(dx, dy float64) RectangleF {
	return RectangleF{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Inflate expands the rectangle by the given percentage of its size on
// every side: the width grows by 2*px*W and the height by 2*py*H.
// Negative percentages shrink the rectangle.
func (r RectangleF) Inflate(px, py float64) RectangleF {
	dx := px * r.W
	dy := py * r.H
	return RectangleF{
		X: r.X - dx,
		Y: r.Y - dy,
		W: r.W + 2*dx,
		H: r.H + 2*dy,
	}
}

// normalizedWithin maps the rectangle from pixel coordinates into the
// [0, 1] texture-coordinate space of an allocation with the given size.
func (r RectangleF) normalizedWithin(width, height int) RectangleF {
	if width <= 0 || height <= 0 {
		return RectangleF{}
	}
	fw := float64(width)
	fh := float64(height)
	return RectangleF{
		X: r.X / fw,
		Y: r.Y / fh,
		W: r.W / fw,
		H: r.H / fh,
	}
}

// String returns a string representation of the rectangle.
func (r RectangleF) String() string {
	return fmt.Sprintf("RectF(%g,%g %gx%g)", r.X, r.Y, r.W, r.H)
}
