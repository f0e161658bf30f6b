package gpucore

import (
	"errors"
	"image"
)

// Adapter errors shared across implementations.
var (
	// ErrNotInitialized is returned when using an adapter before Init.
	ErrNotInitialized = errors.New("gpucore: adapter not initialized")

	// ErrInvalidDimensions is returned for non-positive texture dimensions.
	ErrInvalidDimensions = errors.New("gpucore: invalid texture dimensions")

	// ErrTextureNotFound is returned when an ID does not name a live texture.
	ErrTextureNotFound = errors.New("gpucore: texture not found")

	// ErrRegionOutOfBounds is returned when a write region exceeds the texture.
	ErrRegionOutOfBounds = errors.New("gpucore: region is outside texture bounds")
)

// Adapter abstracts a GPU backend's texture operations.
//
// Implementations must be safe for concurrent use. Adapters do not defer
// work: WriteTexture and DestroyTexture take effect immediately.
// Safe-point scheduling is layered on top by texres.Context.
type Adapter interface {
	// Name returns the adapter identifier (e.g. "software", "wgpu").
	Name() string

	// Init initializes backend resources. Calling Init on an initialized
	// adapter is a no-op.
	Init() error

	// Close releases all backend resources, including any textures that
	// were not individually destroyed.
	Close()

	// CreateTexture creates a backend texture and returns its handle.
	CreateTexture(desc TextureDescriptor) (TextureID, error)

	// DestroyTexture releases a backend texture. Destroying an unknown or
	// already-destroyed ID is a no-op; the ID is never reused.
	DestroyTexture(id TextureID)

	// WriteTexture transfers pixel data into a region of a texture at the
	// given mip level. The data length must match the region size times the
	// texture format's bytes per pixel.
	WriteTexture(id TextureID, level int, region image.Rectangle, data []byte) error

	// BindTexture selects a texture as active for the given texture unit
	// with the supplied sampler parameters.
	BindTexture(unit uint32, id TextureID, sampler SamplerState) error
}
