package gpucore

import "fmt"

// TextureID is an opaque handle to a backend texture resource.
//
// IDs are allocated by adapters, are never zero for live resources, and are
// never reused after destruction. A TextureID is only meaningful to the
// adapter that issued it.
type TextureID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID TextureID = 0

// IsValid reports whether the ID refers to a live resource.
func (id TextureID) IsValid() bool {
	return id != InvalidID
}

// TextureFormat specifies the format of texture data.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatRGBA8Unorm is 8-bit RGBA, normalized unsigned integer.
	TextureFormatRGBA8Unorm TextureFormat = iota + 1

	// TextureFormatBGRA8Unorm is 8-bit BGRA, normalized unsigned integer.
	TextureFormatBGRA8Unorm

	// TextureFormatR8Unorm is 8-bit red channel only, normalized unsigned integer.
	TextureFormatR8Unorm
)

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatRGBA8Unorm, TextureFormatBGRA8Unorm:
		return 4
	case TextureFormatR8Unorm:
		return 1
	default:
		return 4
	}
}

// String returns a human-readable name for the format.
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8Unorm:
		return "RGBA8Unorm"
	case TextureFormatBGRA8Unorm:
		return "BGRA8Unorm"
	case TextureFormatR8Unorm:
		return "R8Unorm"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(f))
	}
}

// TextureUsage is a bitmask specifying how a texture will be used.
type TextureUsage uint32

// Texture usage flags.
const (
	// TextureUsageCopySrc indicates the texture can be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << 0

	// TextureUsageCopyDst indicates the texture can be used as a copy destination.
	TextureUsageCopyDst TextureUsage = 1 << 1

	// TextureUsageBinding indicates the texture can be bound as a sampled texture.
	TextureUsageBinding TextureUsage = 1 << 2

	// TextureUsageRenderAttachment indicates the texture can be used as a render target.
	TextureUsageRenderAttachment TextureUsage = 1 << 3
)

// DefaultTextureUsage is the usage for textures created without explicit flags.
const DefaultTextureUsage = TextureUsageCopyDst | TextureUsageBinding

// AddressMode controls sampling behavior for texture coordinates outside
// the [0, 1] range. The zero value leaves the choice to the adapter.
type AddressMode uint32

// Address modes.
const (
	// AddressModeClampToEdge clamps coordinates to the edge texel.
	AddressModeClampToEdge AddressMode = iota + 1

	// AddressModeClampToBorder clamps coordinates to a transparent border.
	AddressModeClampToBorder

	// AddressModeRepeat wraps coordinates, tiling the texture.
	AddressModeRepeat
)

// String returns a human-readable name for the address mode.
func (m AddressMode) String() string {
	switch m {
	case AddressModeClampToEdge:
		return "ClampToEdge"
	case AddressModeClampToBorder:
		return "ClampToBorder"
	case AddressModeRepeat:
		return "Repeat"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(m))
	}
}

// SamplerState carries the per-bind sampler parameters an adapter needs to
// select a texture for drawing.
type SamplerState struct {
	// AddressModeU controls wrapping along the horizontal texture axis.
	AddressModeU AddressMode

	// AddressModeV controls wrapping along the vertical texture axis.
	AddressModeV AddressMode
}

// TextureDescriptor describes parameters for creating a backend texture.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width is the texture width in pixels. Must be positive.
	Width int

	// Height is the texture height in pixels. Must be positive.
	Height int

	// Format is the pixel format. Zero value defaults to RGBA8Unorm.
	Format TextureFormat

	// Usage specifies how the texture will be used.
	// Zero value defaults to DefaultTextureUsage.
	Usage TextureUsage

	// MipLevelCount is the number of mipmap levels. Zero means 1.
	MipLevelCount int
}
