package backend

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/texres/gpucore"
)

// Adapter name constants.
const (
	// AdapterSoftware is the name of the RAM-backed software adapter.
	AdapterSoftware = "software"
	// AdapterWGPU is the name of the Pure Go WebGPU adapter (gogpu/wgpu).
	AdapterWGPU = "wgpu"
)

// init registers the software adapter on package import.
func init() {
	Register(AdapterSoftware, func() gpucore.Adapter {
		return NewSoftwareAdapter()
	})
}

// softwareTexture is a RAM-backed texture: one pixel buffer per mip level,
// allocated lazily on first write.
type softwareTexture struct {
	width  int
	height int
	format gpucore.TextureFormat
	levels map[int][]byte
}

// levelSize returns the dimensions of a mip level.
func (t *softwareTexture) levelSize(level int) (int, int) {
	w := t.width >> level
	h := t.height >> level
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// SoftwareAdapter is a gpucore.Adapter that stores texels in RAM and
// records bindings. It backs the test suite and serves as a fallback when
// no GPU adapter is registered. Handles are never reused.
//
// SoftwareAdapter is safe for concurrent use.
type SoftwareAdapter struct {
	mu          sync.Mutex
	initialized bool
	nextID      gpucore.TextureID
	textures    map[gpucore.TextureID]*softwareTexture
	bindings    map[uint32]gpucore.TextureID
	samplers    map[uint32]gpucore.SamplerState

	createCount  int
	destroyCount int
	writeCount   int
}

// NewSoftwareAdapter creates a new software adapter.
func NewSoftwareAdapter() *SoftwareAdapter {
	return &SoftwareAdapter{
		textures: make(map[gpucore.TextureID]*softwareTexture),
		bindings: make(map[uint32]gpucore.TextureID),
		samplers: make(map[uint32]gpucore.SamplerState),
	}
}

// Name returns the adapter identifier.
func (a *SoftwareAdapter) Name() string {
	return AdapterSoftware
}

// Init initializes the adapter. Always succeeds.
func (a *SoftwareAdapter) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.initialized = true
	return nil
}

// Close releases all textures.
func (a *SoftwareAdapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.textures = make(map[gpucore.TextureID]*softwareTexture)
	a.bindings = make(map[uint32]gpucore.TextureID)
	a.samplers = make(map[uint32]gpucore.SamplerState)
	a.initialized = false
}

// CreateTexture allocates a logical texture and returns its handle.
func (a *SoftwareAdapter) CreateTexture(desc gpucore.TextureDescriptor) (gpucore.TextureID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return gpucore.InvalidID, gpucore.ErrNotInitialized
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: %dx%d", gpucore.ErrInvalidDimensions, desc.Width, desc.Height)
	}

	format := desc.Format
	if format == 0 {
		format = gpucore.TextureFormatRGBA8Unorm
	}

	a.nextID++
	id := a.nextID
	a.textures[id] = &softwareTexture{
		width:  desc.Width,
		height: desc.Height,
		format: format,
		levels: make(map[int][]byte),
	}
	a.createCount++
	return id, nil
}

// DestroyTexture releases a texture. Unknown IDs are ignored; IDs are
// never reused.
func (a *SoftwareAdapter) DestroyTexture(id gpucore.TextureID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.textures[id]; !ok {
		return
	}
	delete(a.textures, id)
	a.destroyCount++
}

// WriteTexture copies pixel rows into the texture's backing store.
func (a *SoftwareAdapter) WriteTexture(id gpucore.TextureID, level int, region image.Rectangle, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	tex, ok := a.textures[id]
	if !ok {
		return fmt.Errorf("%w: %d", gpucore.ErrTextureNotFound, uint64(id))
	}

	lw, lh := tex.levelSize(level)
	if !region.In(image.Rect(0, 0, lw, lh)) {
		return fmt.Errorf("%w: %v not in %dx%d (level %d)", gpucore.ErrRegionOutOfBounds, region, lw, lh, level)
	}

	bpp := tex.format.BytesPerPixel()
	if want := region.Dx() * region.Dy() * bpp; len(data) != want {
		return fmt.Errorf("backend: data length %d does not match region %v (%d bytes)", len(data), region, want)
	}

	store := tex.levels[level]
	if store == nil {
		store = make([]byte, lw*lh*bpp)
		tex.levels[level] = store
	}

	rowBytes := region.Dx() * bpp
	for y := 0; y < region.Dy(); y++ {
		dst := ((region.Min.Y+y)*lw + region.Min.X) * bpp
		src := y * rowBytes
		copy(store[dst:dst+rowBytes], data[src:src+rowBytes])
	}
	a.writeCount++
	return nil
}

// BindTexture records the texture as bound to the given unit.
func (a *SoftwareAdapter) BindTexture(unit uint32, id gpucore.TextureID, sampler gpucore.SamplerState) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.textures[id]; !ok {
		return fmt.Errorf("%w: %d", gpucore.ErrTextureNotFound, uint64(id))
	}
	a.bindings[unit] = id
	a.samplers[unit] = sampler
	return nil
}

// Bound returns the texture currently bound to a unit, or InvalidID.
func (a *SoftwareAdapter) Bound(unit uint32) gpucore.TextureID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bindings[unit]
}

// BoundSampler returns the sampler state recorded for a unit.
func (a *SoftwareAdapter) BoundSampler(unit uint32) gpucore.SamplerState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.samplers[unit]
}

// Exists reports whether a texture handle is live.
func (a *SoftwareAdapter) Exists(id gpucore.TextureID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.textures[id]
	return ok
}

// Pixels returns a copy of a texture's mip-level backing store, or nil if
// the texture does not exist or the level was never written.
func (a *SoftwareAdapter) Pixels(id gpucore.TextureID, level int) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	tex, ok := a.textures[id]
	if !ok {
		return nil
	}
	store := tex.levels[level]
	if store == nil {
		return nil
	}
	out := make([]byte, len(store))
	copy(out, store)
	return out
}

// TextureCount returns the number of live textures.
func (a *SoftwareAdapter) TextureCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.textures)
}

// WriteCount returns the number of WriteTexture calls that succeeded.
func (a *SoftwareAdapter) WriteCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writeCount
}

// DestroyCount returns the number of textures destroyed so far.
func (a *SoftwareAdapter) DestroyCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.destroyCount
}
