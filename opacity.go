package texres

import "fmt"

// Opacity is a coarse classification of a texture's alpha channel, used by
// renderers to skip blending work for fully opaque or fully transparent
// regions.
type Opacity uint8

// Opacity classifications.
const (
	// OpacityTransparent means every pixel has alpha 0.
	OpacityTransparent Opacity = iota

	// OpacityMixed means the resource contains (or may contain) both
	// translucent and opaque pixels.
	OpacityMixed

	// OpacityOpaque means every pixel has alpha 255.
	OpacityOpaque
)

// String returns a human-readable name for the classification.
func (o Opacity) String() string {
	switch o {
	case OpacityTransparent:
		return "Transparent"
	case OpacityMixed:
		return "Mixed"
	case OpacityOpaque:
		return "Opaque"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(o))
	}
}

// ClassifyPixels derives an opacity classification from an RGBA pixel
// buffer (4 bytes per pixel, alpha last).
//
// The buffer is scanned once with two accumulators: all-transparent-so-far
// and all-opaque-so-far. The scan short-circuits to [OpacityMixed] the
// moment both accumulators fail. An empty buffer classifies as
// [OpacityTransparent].
func ClassifyPixels(rgba []byte) Opacity {
	if len(rgba) == 0 {
		return OpacityTransparent
	}

	allTransparent := true
	allOpaque := true

	for i := 3; i < len(rgba); i += 4 {
		a := rgba[i]
		allTransparent = allTransparent && a == 0
		allOpaque = allOpaque && a == 0xff
		if !allTransparent && !allOpaque {
			return OpacityMixed
		}
	}

	if allOpaque {
		return OpacityOpaque
	}
	return OpacityTransparent
}

// mergeOpacity combines a texture's current classification with the
// classification of a new upload.
//
// A full-bounds, mip-0 upload replaces the classification outright.
// Otherwise a partial update can only degrade precision: if the new
// classification differs from the current one, the result is
// [OpacityMixed]. A partial update never re-promotes to a more precise
// class.
func mergeOpacity(current, upload Opacity, fullReplace bool) Opacity {
	if fullReplace {
		return upload
	}
	if current != upload {
		return OpacityMixed
	}
	return current
}
