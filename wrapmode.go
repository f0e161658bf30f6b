package texres

import (
	"fmt"

	"github.com/gogpu/texres/gpucore"
)

// WrapMode governs sampling behavior outside the [0, 1] texture-coordinate
// range. Wrap modes are fixed at texture construction; Bind may override
// them for a single bind via BindWith.
type WrapMode uint8

// Wrap modes.
const (
	// WrapModeNone performs no explicit wrap control. Sampling outside the
	// addressable rectangle is undefined and callers are expected to keep
	// coordinates inside it.
	WrapModeNone WrapMode = iota

	// WrapModeClampToEdge clamps coordinates to the edge texel.
	WrapModeClampToEdge

	// WrapModeClampToBorder clamps coordinates to a transparent border.
	WrapModeClampToBorder

	// WrapModeRepeat wraps coordinates, tiling the texture.
	WrapModeRepeat
)

// String returns a human-readable name for the wrap mode.
func (m WrapMode) String() string {
	switch m {
	case WrapModeNone:
		return "None"
	case WrapModeClampToEdge:
		return "ClampToEdge"
	case WrapModeClampToBorder:
		return "ClampToBorder"
	case WrapModeRepeat:
		return "Repeat"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(m))
	}
}

// addressMode converts the wrap mode to the adapter sampler representation.
// WrapModeNone maps to the zero AddressMode, leaving the choice to the
// adapter.
func (m WrapMode) addressMode() gpucore.AddressMode {
	switch m {
	case WrapModeClampToEdge:
		return gpucore.AddressModeClampToEdge
	case WrapModeClampToBorder:
		return gpucore.AddressModeClampToBorder
	case WrapModeRepeat:
		return gpucore.AddressModeRepeat
	default:
		return 0
	}
}
