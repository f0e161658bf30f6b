package texres

import "golang.org/x/image/math/f32"

// DrawOptions carries the optional parameters of DrawTriangle and DrawQuad.
// A nil *DrawOptions selects all defaults: full texture, no inflation, no
// blend range.
type DrawOptions struct {
	// TextureRect selects a pixel sub-rectangle of the resource to sample,
	// relative to its Bounds. Nil samples the full resource.
	TextureRect *RectangleF

	// TextureCoords, when non-nil, supplies the normalized texture
	// coordinates directly, bypassing TextureRect mapping entirely.
	TextureCoords *RectangleF

	// Inflation expands the sampled rectangle by a percentage of its size
	// on every side, to combat edge bleeding from linear filtering.
	Inflation f32.Vec2

	// BlendRange overrides the width of the anti-aliasing blend band at
	// primitive edges. Quads only; ignored for triangles.
	BlendRange *f32.Vec2
}

// sampleRect resolves the normalized texture rectangle for a draw call:
// explicit coordinates win, otherwise the pixel sub-rectangle (or the full
// resource) is mapped through GetTextureRect, and inflation is applied
// last.
func sampleRect(t Texture, opts *DrawOptions) RectangleF {
	if opts == nil {
		return t.GetTextureRect(nil)
	}

	var rect RectangleF
	if opts.TextureCoords != nil {
		rect = *opts.TextureCoords
	} else {
		rect = t.GetTextureRect(opts.TextureRect)
	}

	if opts.Inflation != (f32.Vec2{}) {
		rect = rect.Inflate(float64(opts.Inflation[0]), float64(opts.Inflation[1]))
	}
	return rect
}

// drawTriangle emits the three textured vertices of a screen-space
// triangle. Texture coordinates are interpolated across the triangle's
// bounding box, so the sampled rectangle maps onto the triangle's extent.
func drawTriangle(t Texture, tri Triangle, col RGBA, emit VertexEmitter, opts *DrawOptions) error {
	if emit == nil {
		return ErrNilEmitter
	}
	if !t.Available() {
		return ErrTextureDisposed
	}

	rect := sampleRect(t, opts)

	minX := min3(tri.P0[0], tri.P1[0], tri.P2[0])
	maxX := max3(tri.P0[0], tri.P1[0], tri.P2[0])
	minY := min3(tri.P0[1], tri.P1[1], tri.P2[1])
	maxY := max3(tri.P0[1], tri.P1[1], tri.P2[1])

	for _, p := range [3]f32.Vec2{tri.P0, tri.P1, tri.P2} {
		emit(TexturedVertex{
			Position: p,
			Color:    col,
			TexCoord: f32.Vec2{
				texLerp(rect.X, rect.W, p[0], minX, maxX),
				texLerp(rect.Y, rect.H, p[1], minY, maxY),
			},
		})
	}
	return nil
}

// drawQuad emits the four textured vertices of a screen-space quad in
// clockwise order: top-left, top-right, bottom-right, bottom-left.
func drawQuad(t Texture, q Quad, col RGBA, emit VertexEmitter, opts *DrawOptions) error {
	if emit == nil {
		return ErrNilEmitter
	}
	if !t.Available() {
		return ErrTextureDisposed
	}

	rect := sampleRect(t, opts)

	var blend f32.Vec2
	if opts != nil && opts.BlendRange != nil {
		blend = *opts.BlendRange
	}

	corners := [4]struct {
		pos f32.Vec2
		u   float64
		v   float64
	}{
		{q.TopLeft, rect.X, rect.Y},
		{q.TopRight, rect.Right(), rect.Y},
		{q.BottomRight, rect.Right(), rect.Bottom()},
		{q.BottomLeft, rect.X, rect.Bottom()},
	}

	for _, c := range corners {
		emit(TexturedVertex{
			Position:   c.pos,
			Color:      col,
			TexCoord:   f32.Vec2{float32(c.u), float32(c.v)},
			BlendRange: blend,
		})
	}
	return nil
}

// texLerp maps a position within [lo, hi] onto the texture-coordinate span
// starting at origin with the given extent. A degenerate span maps to the
// origin.
func texLerp(origin, extent float64, p, lo, hi float32) float32 {
	if hi <= lo {
		return float32(origin)
	}
	frac := float64(p-lo) / float64(hi-lo)
	return float32(origin + extent*frac)
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
