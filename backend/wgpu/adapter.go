//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/texres"
	"github.com/gogpu/texres/backend"
	"github.com/gogpu/texres/gpucore"
)

// init registers the wgpu adapter on package import.
func init() {
	backend.Register(backend.AdapterWGPU, func() gpucore.Adapter {
		return NewAdapter()
	})
}

// textureRecord tracks a logical texture so writes and binds can be
// validated against its dimensions.
type textureRecord struct {
	width  int
	height int
	format gpucore.TextureFormat
}

// levelSize returns the dimensions of a mip level.
func (r *textureRecord) levelSize(level int) (int, int) {
	w := r.width >> level
	h := r.height >> level
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Adapter implements gpucore.Adapter on top of gogpu/wgpu.
//
// The adapter manages GPU resources including instance, adapter, device,
// and queue. Texture create, write, and destroy are tracked as logical
// resources until wgpu texture support is complete; the tracked state
// keeps handle lifetimes and region validation identical to a full GPU
// path.
//
// Adapter is safe for concurrent use from multiple goroutines.
type Adapter struct {
	mu sync.Mutex

	// GPU resources
	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	// Optional shared device from the host application. When set, Init
	// skips instance and device creation and the adapter never releases
	// the device it did not create.
	provider texres.DeviceHandle

	gpuInfo *GPUInfo

	initialized bool
	ownsDevice  bool
	nextID      gpucore.TextureID
	textures    map[gpucore.TextureID]*textureRecord
	bindings    map[uint32]gpucore.TextureID
}

// NewAdapter creates a new wgpu adapter.
// The adapter must be initialized with Init before use.
func NewAdapter() *Adapter {
	return &Adapter{
		textures: make(map[gpucore.TextureID]*textureRecord),
		bindings: make(map[uint32]gpucore.TextureID),
	}
}

// Name returns the adapter identifier.
func (a *Adapter) Name() string {
	return backend.AdapterWGPU
}

// SetDeviceProvider configures the adapter to share the host
// application's GPU device instead of creating its own. Must be called
// before Init.
func (a *Adapter) SetDeviceProvider(provider texres.DeviceHandle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.provider = provider
}

// Init initializes the adapter by creating GPU resources.
// This includes creating an instance, requesting an adapter,
// creating a device, and getting the command queue. When a device
// provider is set, the shared device is used instead.
//
// Returns an error if GPU initialization fails.
func (a *Adapter) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return nil
	}

	if a.provider != nil {
		// Shared device mode. The host owns the device and queue.
		a.initialized = true
		a.ownsDevice = false
		texres.Logger().Info("wgpu: adapter initialized with shared device")
		return nil
	}

	// Step 1: Create Instance
	desc := &gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
		Flags:    0,
	}
	a.instance = core.NewInstance(desc)

	// Step 2: Request Adapter (prefer high performance GPU)
	adapterID, err := a.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("wgpu: no suitable GPU adapter: %w", err)
	}
	a.adapter = adapterID

	logGPUInfo(adapterID)
	a.gpuInfo, _ = getGPUInfo(adapterID)

	// Step 3: Create Device
	deviceID, err := createDevice(adapterID, "texres-wgpu-device")
	if err != nil {
		return fmt.Errorf("wgpu: device creation failed: %w", err)
	}
	a.device = deviceID

	// Step 4: Get Queue
	queueID, err := getDeviceQueue(deviceID)
	if err != nil {
		_ = releaseDevice(deviceID)
		return fmt.Errorf("wgpu: queue retrieval failed: %w", err)
	}
	a.queue = queueID

	a.initialized = true
	a.ownsDevice = true
	texres.Logger().Info("wgpu: adapter initialized")

	return nil
}

// Close releases all adapter resources.
// The adapter should not be used after Close is called.
func (a *Adapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return
	}

	// Release resources in reverse order of creation.
	// The queue is released when the device is dropped.
	if a.ownsDevice {
		if !a.device.IsZero() {
			if err := releaseDevice(a.device); err != nil {
				texres.Logger().Warn("wgpu: error releasing device", "error", err)
			}
			a.device = core.DeviceID{}
		}

		if !a.adapter.IsZero() {
			if err := releaseAdapter(a.adapter); err != nil {
				texres.Logger().Warn("wgpu: error releasing adapter", "error", err)
			}
			a.adapter = core.AdapterID{}
		}

		a.instance = nil
		a.queue = core.QueueID{}
	}

	a.textures = make(map[gpucore.TextureID]*textureRecord)
	a.bindings = make(map[uint32]gpucore.TextureID)
	a.gpuInfo = nil
	a.initialized = false
	a.ownsDevice = false

	texres.Logger().Info("wgpu: adapter closed")
}

// CreateTexture creates a new GPU texture.
//
// Note: the wgpu texture object is tracked logically until wgpu texture
// support is complete. Handle allocation, validation, and lifetimes are
// final.
func (a *Adapter) CreateTexture(desc gpucore.TextureDescriptor) (gpucore.TextureID, error) {
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
	mips := desc.MipLevelCount
	if mips < 1 {
		mips = 1
	}
	_ = mips

	// TODO: Actual wgpu texture creation when available
	//
	// gpuDesc := &gputypes.TextureDescriptor{
	//     Label: desc.Label,
	//     Size: gputypes.Extent3D{
	//         Width:              uint32(desc.Width),
	//         Height:             uint32(desc.Height),
	//         DepthOrArrayLayers: 1,
	//     },
	//     MipLevelCount: uint32(mips),
	//     SampleCount:   1,
	//     Dimension:     gputypes.TextureDimension2D,
	//     Format:        toWGPUFormat(format),
	//     Usage:         toWGPUUsage(desc.Usage),
	// }
	// textureID, err := core.CreateTexture(a.device, gpuDesc)

	a.nextID++
	id := a.nextID
	a.textures[id] = &textureRecord{
		width:  desc.Width,
		height: desc.Height,
		format: format,
	}
	return id, nil
}

// DestroyTexture releases a GPU texture. Unknown IDs are ignored; IDs
// are never reused.
func (a *Adapter) DestroyTexture(id gpucore.TextureID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.textures[id]; !ok {
		return
	}

	// TODO: core.TextureDrop(textureID) when available

	delete(a.textures, id)
}

// WriteTexture uploads pixel data into a texture region.
func (a *Adapter) WriteTexture(id gpucore.TextureID, level int, region image.Rectangle, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.textures[id]
	if !ok {
		return fmt.Errorf("%w: %d", gpucore.ErrTextureNotFound, uint64(id))
	}

	lw, lh := rec.levelSize(level)
	if level < 0 || !region.In(image.Rect(0, 0, lw, lh)) {
		return fmt.Errorf("%w: %v not in %dx%d (level %d)", gpucore.ErrRegionOutOfBounds, region, lw, lh, level)
	}

	bpp := rec.format.BytesPerPixel()
	if want := region.Dx() * region.Dy() * bpp; len(data) != want {
		return fmt.Errorf("wgpu: data length %d does not match region %v (%d bytes)", len(data), region, want)
	}

	// TODO: Actual GPU upload when wgpu queue.WriteTexture is available
	//
	// core.QueueWriteTexture(a.queue, &gputypes.ImageCopyTexture{
	//     Texture:  uintptr(textureID.Raw()),
	//     MipLevel: uint32(level),
	//     Origin:   gputypes.Origin3D{X: uint32(region.Min.X), Y: uint32(region.Min.Y), Z: 0},
	//     Aspect:   gputypes.TextureAspectAll,
	// }, data, &gputypes.TextureDataLayout{
	//     Offset:       0,
	//     BytesPerRow:  uint32(region.Dx() * bpp),
	//     RowsPerImage: uint32(region.Dy()),
	// }, &gputypes.Extent3D{
	//     Width:              uint32(region.Dx()),
	//     Height:             uint32(region.Dy()),
	//     DepthOrArrayLayers: 1,
	// })

	return nil
}

// BindTexture binds a texture to a sampler unit for the next draw.
func (a *Adapter) BindTexture(unit uint32, id gpucore.TextureID, sampler gpucore.SamplerState) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.textures[id]; !ok {
		return fmt.Errorf("%w: %d", gpucore.ErrTextureNotFound, uint64(id))
	}

	// TODO: bind group creation per (texture view, sampler) when wgpu
	// texture views are available.
	_ = sampler

	a.bindings[unit] = id
	return nil
}

// IsInitialized returns true if the adapter has been initialized.
func (a *Adapter) IsInitialized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initialized
}

// GPUInfo returns information about the selected GPU.
// Returns nil if the adapter is not initialized or shares a host device.
func (a *Adapter) GPUInfo() *GPUInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuInfo
}

// Device returns the GPU device ID.
// Returns a zero ID if the adapter is not initialized or shares a host device.
func (a *Adapter) Device() core.DeviceID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.device
}

// Queue returns the GPU queue ID.
// Returns a zero ID if the adapter is not initialized or shares a host device.
func (a *Adapter) Queue() core.QueueID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queue
}

// toWGPUFormat converts a gpucore.TextureFormat to the wgpu format enum.
func toWGPUFormat(format gpucore.TextureFormat) gputypes.TextureFormat {
	switch format {
	case gpucore.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	case gpucore.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	case gpucore.TextureFormatR8Unorm:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// toWGPUUsage converts gpucore.TextureUsage flags to wgpu usage flags.
func toWGPUUsage(usage gpucore.TextureUsage) gputypes.TextureUsage {
	var result gputypes.TextureUsage
	if usage&gpucore.TextureUsageCopySrc != 0 {
		result |= gputypes.TextureUsageCopySrc
	}
	if usage&gpucore.TextureUsageCopyDst != 0 {
		result |= gputypes.TextureUsageCopyDst
	}
	if usage&gpucore.TextureUsageBinding != 0 {
		result |= gputypes.TextureUsageTextureBinding
	}
	if usage&gpucore.TextureUsageRenderAttachment != 0 {
		result |= gputypes.TextureUsageRenderAttachment
	}
	return result
}
