package texres

import "golang.org/x/image/math/f32"

// TexturedVertex is one vertex of a textured primitive, emitted by the
// draw operations. The layout matches what vertex batchers expect:
// screen-space position, vertex colour, normalized texture coordinate,
// and the blend-range band used for edge anti-aliasing.
type TexturedVertex struct {
	// Position is the screen-space position.
	Position f32.Vec2

	// Color is the vertex colour, multiplied with the sampled texel.
	Color RGBA

	// TexCoord is the normalized texture coordinate.
	TexCoord f32.Vec2

	// BlendRange is the width of the anti-aliasing blend band at the
	// primitive edge, in texture-coordinate units. Zero disables blending.
	BlendRange f32.Vec2
}

// VertexEmitter receives textured vertices one at a time. Draw operations
// call it once per emitted vertex and perform no batching themselves;
// collecting vertices into GPU buffers is the caller's concern.
type VertexEmitter func(TexturedVertex)

// Triangle is a screen-space triangle.
type Triangle struct {
	P0, P1, P2 f32.Vec2
}

// Quad is a screen-space quadrilateral. The corners need not form a
// rectangle; draw operations interpolate texture coordinates per corner.
type Quad struct {
	TopLeft, TopRight, BottomLeft, BottomRight f32.Vec2
}

// QuadFromRect builds an axis-aligned quad from a position and size.
func QuadFromRect(x, y, w, h float32) Quad {
	return Quad{
		TopLeft:     f32.Vec2{x, y},
		TopRight:    f32.Vec2{x + w, y},
		BottomLeft:  f32.Vec2{x, y + h},
		BottomRight: f32.Vec2{x + w, y + h},
	}
}
