package texres

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/texres/gpucore"
)

// TextureConfig holds configuration for creating a NativeTexture.
type TextureConfig struct {
	// Width is the texture width in pixels. Zero is allowed: the GPU
	// handle simply cannot be created until the texture is resized, and
	// Bind fails gracefully.
	Width int

	// Height is the texture height in pixels.
	Height int

	// WrapModeS is the horizontal wrap mode, fixed for the texture's life.
	WrapModeS WrapMode

	// WrapModeT is the vertical wrap mode, fixed for the texture's life.
	WrapModeT WrapMode

	// Format is the pixel format. Zero value defaults to RGBA8Unorm.
	Format gpucore.TextureFormat

	// Label is an optional debug label.
	Label string

	// BypassUploadQueue makes SetData skip the shared per-frame upload
	// queue. Use for textures rewritten every frame.
	BypassUploadQueue bool
}

// NativeTexture is a texture resource that exclusively owns its GPU
// handle. The handle is created lazily on the first upload or bind and is
// destroyed only at a context safe point after Dispose.
//
// NativeTexture implements [Texture].
type NativeTexture struct {
	ctx *Context

	mu      sync.Mutex
	id      gpucore.TextureID
	width   int
	height  int
	opacity Opacity
	pending Upload
	queued  bool // present in the context's upload queue
	manager *MemoryManager

	// Immutable after construction.
	wrapS  WrapMode
	wrapT  WrapMode
	format gpucore.TextureFormat
	label  string

	bypass   atomic.Bool
	disposed atomic.Bool
}

// NewTexture creates a texture resource on this context. No GPU object is
// allocated until the first upload or bind.
func (c *Context) NewTexture(config TextureConfig) (*NativeTexture, error) {
	if config.Width < 0 || config.Height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", gpucore.ErrInvalidDimensions, config.Width, config.Height)
	}

	format := config.Format
	if format == 0 {
		format = gpucore.TextureFormatRGBA8Unorm
	}

	t := &NativeTexture{
		ctx:     c,
		width:   config.Width,
		height:  config.Height,
		opacity: OpacityTransparent,
		wrapS:   config.WrapModeS,
		wrapT:   config.WrapModeT,
		format:  format,
		label:   config.Label,
	}
	t.bypass.Store(config.BypassUploadQueue)
	return t, nil
}

// Width returns the addressable width in pixels.
func (t *NativeTexture) Width() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width
}

// Height returns the addressable height in pixels.
func (t *NativeTexture) Height() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.height
}

// Bounds returns the full addressable rectangle (0,0)-(Width,Height).
func (t *NativeTexture) Bounds() image.Rectangle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return image.Rect(0, 0, t.width, t.height)
}

// WrapModeS returns the horizontal wrap mode.
func (t *NativeTexture) WrapModeS() WrapMode { return t.wrapS }

// WrapModeT returns the vertical wrap mode.
func (t *NativeTexture) WrapModeT() WrapMode { return t.wrapT }

// Label returns the debug label.
func (t *NativeTexture) Label() string { return t.label }

// Format returns the pixel format.
func (t *NativeTexture) Format() gpucore.TextureFormat { return t.format }

// Opacity returns the current alpha-channel classification.
func (t *NativeTexture) Opacity() Opacity {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opacity
}

// Available reports whether the resource may still be used.
func (t *NativeTexture) Available() bool {
	return !t.disposed.Load()
}

// UploadPending reports whether a payload is waiting for transfer.
func (t *NativeTexture) UploadPending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

// BypassUploadQueue reports whether uploads skip the shared queue.
func (t *NativeTexture) BypassUploadQueue() bool {
	return t.bypass.Load()
}

// SetBypassUploadQueue opts the texture out of deferred upload batching.
func (t *NativeTexture) SetBypassUploadQueue(bypass bool) {
	t.bypass.Store(bypass)
}

// TextureID returns the underlying GPU handle. It is only valid after an
// upload or bind has created the GPU object, and becomes invalid again
// after disposal or resize.
func (t *NativeTexture) TextureID() gpucore.TextureID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

// SizeBytes returns the CPU-visible estimate of the GPU allocation size.
func (t *NativeTexture) SizeBytes() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return uint64(t.width) * uint64(t.height) * uint64(t.format.BytesPerPixel())
}

// SetData submits a pixel upload, recomputing the opacity classification
// and queueing (or, with bypass set, leaving for the next Bind) the GPU
// transfer. Safe from any goroutine.
func (t *NativeTexture) SetData(u Upload) error {
	if u == nil {
		return ErrNilUpload
	}
	return t.submit(u, u.Classify())
}

// submit stores a classified payload as the single pending upload.
// Classification happens before this call so region textures can merge the
// same scan result into both their own and the parent's opacity state.
func (t *NativeTexture) submit(u Upload, class Opacity) error {
	target := u.Bounds()

	t.mu.Lock()
	// Checked under the lock: Dispose clears the pending slot under the
	// same lock, so a write racing with disposal either lands before the
	// clear or is rejected here, never after.
	if t.disposed.Load() {
		t.mu.Unlock()
		return ErrTextureDisposed
	}
	bounds := image.Rect(0, 0, t.width, t.height)
	if !target.In(bounds) {
		t.mu.Unlock()
		return fmt.Errorf("%w: %v not in %v", ErrUploadOutOfBounds, target, bounds)
	}

	fullReplace := target == bounds && u.Level() == 0
	t.opacity = mergeOpacity(t.opacity, class, fullReplace)

	// Single pending slot: a second SetData before the first is flushed
	// replaces the payload, never appends.
	t.pending = u

	enqueue := !t.bypass.Load() && !t.queued
	if enqueue {
		t.queued = true
	}
	t.mu.Unlock()

	if enqueue {
		t.ctx.enqueueUpload(t)
	}
	return nil
}

// Upload transfers the pending payload to the GPU, creating the handle if
// needed. Returns false when nothing is pending or the handle cannot be
// created. Render goroutine only.
func (t *NativeTexture) Upload() bool {
	t.mu.Lock()
	u := t.pending
	if u == nil {
		t.mu.Unlock()
		return false
	}
	if !t.ensureHandleLocked() {
		t.mu.Unlock()
		return false
	}
	t.pending = nil
	id := t.id
	t.mu.Unlock()

	if err := t.ctx.adapter.WriteTexture(id, u.Level(), u.Bounds(), u.Data()); err != nil {
		Logger().Warn("texres: texture upload failed", "label", t.label, "err", err)
		return false
	}
	t.touch()
	return true
}

// sweepUpload is the frame-start path: it leaves the upload queue before
// transferring, so a SetData racing with the sweep re-enqueues the texture
// for the next frame instead of being lost.
func (t *NativeTexture) sweepUpload() bool {
	t.mu.Lock()
	t.queued = false
	t.mu.Unlock()
	return t.Upload()
}

// FlushUploads discards any pending payload without applying it. Used when
// the resource is about to be disposed or fully replaced, to avoid wasted
// transfer work.
func (t *NativeTexture) FlushUploads() {
	t.mu.Lock()
	t.pending = nil
	t.mu.Unlock()
}

// Bind selects the texture for the given unit using the wrap modes fixed
// at construction.
func (t *NativeTexture) Bind(unit uint32) bool {
	return t.bind(unit, t.wrapS, t.wrapT)
}

// BindWith is Bind with wrap-mode overrides for this bind only.
func (t *NativeTexture) BindWith(unit uint32, wrapS, wrapT WrapMode) bool {
	return t.bind(unit, wrapS, wrapT)
}

func (t *NativeTexture) bind(unit uint32, wrapS, wrapT WrapMode) bool {
	if t.disposed.Load() {
		Logger().Warn("texres: bind on unavailable texture", "label", t.label)
		return false
	}

	// At most one pending transfer is applied per bind. Bypass-queueing
	// textures rely on this path, since they never enter the shared queue.
	if t.UploadPending() {
		t.Upload()
	}

	t.mu.Lock()
	if !t.ensureHandleLocked() {
		t.mu.Unlock()
		return false
	}
	id := t.id
	t.mu.Unlock()

	sampler := gpucore.SamplerState{
		AddressModeU: wrapS.addressMode(),
		AddressModeV: wrapT.addressMode(),
	}
	if err := t.ctx.adapter.BindTexture(unit, id, sampler); err != nil {
		Logger().Warn("texres: bind failed", "label", t.label, "unit", unit, "err", err)
		return false
	}
	t.touch()
	return true
}

// ensureHandleLocked creates the GPU handle if it does not exist yet.
// Returns false when creation is impossible (zero-sized bounds, disposed
// texture) or fails. Caller must hold t.mu.
func (t *NativeTexture) ensureHandleLocked() bool {
	if t.id.IsValid() {
		return true
	}
	// A disposed texture must never grow a fresh handle: nothing would be
	// left to schedule its destruction.
	if t.disposed.Load() {
		return false
	}
	if t.width <= 0 || t.height <= 0 {
		return false
	}

	id, err := t.ctx.adapter.CreateTexture(gpucore.TextureDescriptor{
		Label:  t.label,
		Width:  t.width,
		Height: t.height,
		Format: t.format,
		Usage:  gpucore.DefaultTextureUsage,
	})
	if err != nil {
		Logger().Warn("texres: texture creation failed", "label", t.label, "err", err)
		return false
	}
	t.id = id
	return true
}

// acquireHandle creates the GPU handle if needed and returns it. Used by
// region textures, which transfer into the parent's allocation. Returns
// false when the parent is disposed or the handle cannot be created.
func (t *NativeTexture) acquireHandle() (gpucore.TextureID, bool) {
	if t.disposed.Load() {
		return gpucore.InvalidID, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ensureHandleLocked() {
		return gpucore.InvalidID, false
	}
	return t.id, true
}

// allocSize returns the dimensions of the backing allocation.
func (t *NativeTexture) allocSize() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// mergeUploadOpacity folds a region upload's classification into the
// parent allocation's classification. Region uploads never cover the full
// parent, so this is always a partial merge.
func (t *NativeTexture) mergeUploadOpacity(class Opacity) {
	t.mu.Lock()
	t.opacity = mergeOpacity(t.opacity, class, false)
	t.mu.Unlock()
}

// GetTextureRect maps a pixel sub-rectangle (nil for the full resource)
// into normalized coordinates of the backing allocation.
func (t *NativeTexture) GetTextureRect(r *RectangleF) RectangleF {
	t.mu.Lock()
	w, h := t.width, t.height
	t.mu.Unlock()

	sel := RectangleF{W: float64(w), H: float64(h)}
	if r != nil {
		sel = *r
	}
	return sel.normalizedWithin(w, h)
}

// DrawTriangle emits the textured vertices of a screen-space triangle.
func (t *NativeTexture) DrawTriangle(tri Triangle, col RGBA, emit VertexEmitter, opts *DrawOptions) error {
	return drawTriangle(t, tri, col, emit, opts)
}

// DrawQuad emits the textured vertices of a screen-space quad.
func (t *NativeTexture) DrawQuad(q Quad, col RGBA, emit VertexEmitter, opts *DrawOptions) error {
	return drawQuad(t, q, col, emit, opts)
}

// Resize changes the texture dimensions, scheduling the old GPU handle for
// safe-point destruction. The contents are lost: any pending upload is
// discarded and the opacity classification resets to Transparent. A new
// handle is created lazily on the next upload or bind.
func (t *NativeTexture) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", gpucore.ErrInvalidDimensions, width, height)
	}

	t.mu.Lock()
	if t.disposed.Load() {
		t.mu.Unlock()
		return ErrTextureDisposed
	}
	old := t.id
	t.id = gpucore.InvalidID
	t.width = width
	t.height = height
	t.pending = nil
	t.opacity = OpacityTransparent
	t.mu.Unlock()

	t.ctx.ScheduleDisposal(old)
	return nil
}

// Dispose marks the texture unavailable and schedules GPU-object teardown
// for the next safe point. Idempotent; safe from any goroutine. Binding
// and the destructive phase are mutually exclusive in time because the
// teardown only ever runs at a safe point on the render goroutine.
func (t *NativeTexture) Dispose() {
	if t.disposed.Swap(true) {
		return
	}

	t.mu.Lock()
	t.pending = nil
	id := t.id
	t.id = gpucore.InvalidID
	manager := t.manager
	t.manager = nil
	t.mu.Unlock()

	if manager != nil {
		manager.unregisterTexture(t)
	}
	t.ctx.ScheduleDisposal(id)
}

// setMemoryManager attaches the texture to a memory manager for budget
// tracking. Called by MemoryManager when registering the texture.
func (t *NativeTexture) setMemoryManager(m *MemoryManager) {
	t.mu.Lock()
	t.manager = m
	t.mu.Unlock()
}

// touch refreshes the texture's position in its memory manager's LRU
// order, if it is managed.
func (t *NativeTexture) touch() {
	t.mu.Lock()
	manager := t.manager
	t.mu.Unlock()
	if manager != nil {
		manager.touchTexture(t)
	}
}

// String returns a string representation of the texture.
func (t *NativeTexture) String() string {
	status := "available"
	if t.disposed.Load() {
		status = "disposed"
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fmt.Sprintf("NativeTexture[%s %dx%d %s %s %s]",
		t.label, t.width, t.height, t.format, t.opacity, status)
}
