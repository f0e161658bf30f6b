package texres

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
)

// RegionTexture is a texture resource backed by a sub-rectangle of another
// texture's GPU allocation, typically handed out by an [Atlas]. It holds a
// non-owning back-reference to its parent: disposing a region never
// destroys the shared GPU object.
//
// RegionTexture implements [Texture]. It keeps its own pending-upload slot
// and opacity classification; transfers are re-addressed into the parent
// allocation.
type RegionTexture struct {
	parent *NativeTexture
	region image.Rectangle // inside the parent allocation

	mu      sync.Mutex
	opacity Opacity
	pending Upload
	queued  bool

	// Immutable after construction.
	wrapS WrapMode
	wrapT WrapMode

	bypass   atomic.Bool
	disposed atomic.Bool
}

// newRegionTexture wraps a rectangle of the parent allocation as an
// independent texture resource.
func newRegionTexture(parent *NativeTexture, region image.Rectangle, wrapS, wrapT WrapMode) *RegionTexture {
	return &RegionTexture{
		parent:  parent,
		region:  region,
		opacity: OpacityTransparent,
		wrapS:   wrapS,
		wrapT:   wrapT,
	}
}

// Parent returns the texture owning the shared GPU allocation.
func (t *RegionTexture) Parent() *NativeTexture { return t.parent }

// Width returns the region width in pixels.
func (t *RegionTexture) Width() int { return t.region.Dx() }

// Height returns the region height in pixels.
func (t *RegionTexture) Height() int { return t.region.Dy() }

// Bounds returns the region's rectangle within the parent allocation.
func (t *RegionTexture) Bounds() image.Rectangle { return t.region }

// WrapModeS returns the horizontal wrap mode.
func (t *RegionTexture) WrapModeS() WrapMode { return t.wrapS }

// WrapModeT returns the vertical wrap mode.
func (t *RegionTexture) WrapModeT() WrapMode { return t.wrapT }

// Opacity returns the region's own alpha-channel classification.
func (t *RegionTexture) Opacity() Opacity {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opacity
}

// Available reports whether both the region and its parent allocation may
// still be used.
func (t *RegionTexture) Available() bool {
	return !t.disposed.Load() && t.parent.Available()
}

// UploadPending reports whether a payload is waiting for transfer.
func (t *RegionTexture) UploadPending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

// BypassUploadQueue reports whether uploads skip the shared queue.
func (t *RegionTexture) BypassUploadQueue() bool {
	return t.bypass.Load()
}

// SetBypassUploadQueue opts the region out of deferred upload batching.
func (t *RegionTexture) SetBypassUploadQueue(bypass bool) {
	t.bypass.Store(bypass)
}

// SetData submits a pixel upload addressed in region-local coordinates.
// The region's classification follows the usual merge rules; the parent's
// classification degrades as for any partial update of the allocation.
func (t *RegionTexture) SetData(u Upload) error {
	if u == nil {
		return ErrNilUpload
	}
	if !t.Available() {
		return ErrTextureDisposed
	}

	target := u.Bounds()
	local := image.Rect(0, 0, t.region.Dx(), t.region.Dy())
	if !target.In(local) {
		return fmt.Errorf("%w: %v not in %v", ErrUploadOutOfBounds, target, local)
	}

	class := u.Classify()

	t.mu.Lock()
	// Re-checked under the lock: Dispose flushes the pending slot under
	// the same lock, so a racing write cannot land after the flush.
	if t.disposed.Load() {
		t.mu.Unlock()
		return ErrTextureDisposed
	}
	fullReplace := target == local && u.Level() == 0
	t.opacity = mergeOpacity(t.opacity, class, fullReplace)
	t.pending = u
	enqueue := !t.bypass.Load() && !t.queued
	if enqueue {
		t.queued = true
	}
	t.mu.Unlock()

	t.parent.mergeUploadOpacity(class)

	if enqueue {
		t.parent.ctx.enqueueUpload(t)
	}
	return nil
}

// Upload transfers the pending payload into the parent allocation.
// Render goroutine only.
func (t *RegionTexture) Upload() bool {
	t.mu.Lock()
	u := t.pending
	if u == nil {
		t.mu.Unlock()
		return false
	}
	t.pending = nil
	t.mu.Unlock()

	id, ok := t.parent.acquireHandle()
	if !ok {
		return false
	}

	target := u.Bounds().Add(t.region.Min)
	if err := t.parent.ctx.adapter.WriteTexture(id, u.Level(), target, u.Data()); err != nil {
		Logger().Warn("texres: region upload failed", "label", t.parent.label, "err", err)
		return false
	}
	return true
}

func (t *RegionTexture) sweepUpload() bool {
	t.mu.Lock()
	t.queued = false
	t.mu.Unlock()
	return t.Upload()
}

// FlushUploads discards any pending payload without applying it.
func (t *RegionTexture) FlushUploads() {
	t.mu.Lock()
	t.pending = nil
	t.mu.Unlock()
}

// Bind applies any pending transfer, then binds the parent allocation
// using the region's wrap modes.
func (t *RegionTexture) Bind(unit uint32) bool {
	return t.BindWith(unit, t.wrapS, t.wrapT)
}

// BindWith is Bind with wrap-mode overrides for this bind only.
func (t *RegionTexture) BindWith(unit uint32, wrapS, wrapT WrapMode) bool {
	if !t.Available() {
		Logger().Warn("texres: bind on unavailable region texture")
		return false
	}
	if t.UploadPending() {
		t.Upload()
	}
	return t.parent.bind(unit, wrapS, wrapT)
}

// GetTextureRect maps a region-local pixel sub-rectangle (nil for the full
// region) into normalized coordinates of the parent allocation.
func (t *RegionTexture) GetTextureRect(r *RectangleF) RectangleF {
	sel := RectangleF{W: float64(t.region.Dx()), H: float64(t.region.Dy())}
	if r != nil {
		sel = *r
	}
	sel = sel.Offset(float64(t.region.Min.X), float64(t.region.Min.Y))

	w, h := t.parent.allocSize()
	return sel.normalizedWithin(w, h)
}

// DrawTriangle emits the textured vertices of a screen-space triangle.
func (t *RegionTexture) DrawTriangle(tri Triangle, col RGBA, emit VertexEmitter, opts *DrawOptions) error {
	return drawTriangle(t, tri, col, emit, opts)
}

// DrawQuad emits the textured vertices of a screen-space quad.
func (t *RegionTexture) DrawQuad(q Quad, col RGBA, emit VertexEmitter, opts *DrawOptions) error {
	return drawQuad(t, q, col, emit, opts)
}

// Dispose marks the region unavailable and discards any pending upload.
// The shared GPU allocation is owned by the parent and is not touched;
// atlas space is not reclaimed.
func (t *RegionTexture) Dispose() {
	if t.disposed.Swap(true) {
		return
	}
	t.FlushUploads()
}
