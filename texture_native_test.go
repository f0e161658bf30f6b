package texres

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/texres/gpucore"
)

func TestNewTextureDefaults(t *testing.T) {
	ctx, _ := newTestContext(t)

	tex, err := ctx.NewTexture(TextureConfig{Width: 8, Height: 4, Label: "ui"})
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}

	if tex.Width() != 8 || tex.Height() != 4 {
		t.Errorf("dimensions = %dx%d, want 8x4", tex.Width(), tex.Height())
	}
	if got := tex.Bounds(); got != image.Rect(0, 0, 8, 4) {
		t.Errorf("Bounds() = %v", got)
	}
	if tex.Format() != gpucore.TextureFormatRGBA8Unorm {
		t.Errorf("Format() = %v, want RGBA8Unorm", tex.Format())
	}
	if tex.Opacity() != OpacityTransparent {
		t.Errorf("Opacity() = %v, want Transparent", tex.Opacity())
	}
	if !tex.Available() {
		t.Error("Available() = false for fresh texture")
	}
	if tex.UploadPending() {
		t.Error("UploadPending() = true for fresh texture")
	}
}

func TestNewTextureNegativeDimensions(t *testing.T) {
	ctx, _ := newTestContext(t)
	if _, err := ctx.NewTexture(TextureConfig{Width: -1, Height: 4}); !errors.Is(err, gpucore.ErrInvalidDimensions) {
		t.Errorf("error = %v, want ErrInvalidDimensions", err)
	}
}

// No GPU object may exist until the first upload or bind.
func TestTextureLazyHandleCreation(t *testing.T) {
	ctx, adapter := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})
	if adapter.TextureCount() != 0 {
		t.Fatal("GPU object created eagerly")
	}
	if tex.TextureID().IsValid() {
		t.Fatal("TextureID valid before first upload")
	}

	tex.SetData(&PixmapUpload{Pixmap: opaquePixmap(4, 4)})
	if adapter.TextureCount() != 0 {
		t.Fatal("GPU object created by SetData instead of the transfer")
	}

	ctx.BeginFrame()
	if adapter.TextureCount() != 1 {
		t.Errorf("texture count = %d, want 1", adapter.TextureCount())
	}
	if !tex.TextureID().IsValid() {
		t.Error("TextureID invalid after upload")
	}
}

// Binding with no prior upload also creates the handle.
func TestBindCreatesHandle(t *testing.T) {
	ctx, adapter := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})
	if !tex.Bind(0) {
		t.Fatal("Bind() = false")
	}
	if adapter.TextureCount() != 1 {
		t.Errorf("texture count = %d, want 1", adapter.TextureCount())
	}
	if got := adapter.Bound(0); got != tex.TextureID() {
		t.Errorf("Bound(0) = %v, want %v", got, tex.TextureID())
	}
}

func TestBindZeroAreaTexture(t *testing.T) {
	ctx, adapter := newTestContext(t)

	tex, err := ctx.NewTexture(TextureConfig{})
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	if tex.Bind(0) {
		t.Error("Bind() = true for zero-area texture")
	}
	if adapter.TextureCount() != 0 {
		t.Error("zero-area bind created a GPU object")
	}
}

func TestBindAppliesPendingUpload(t *testing.T) {
	ctx, adapter := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})
	tex.SetData(&PixmapUpload{Pixmap: opaquePixmap(4, 4)})

	if !tex.Bind(2) {
		t.Fatal("Bind() = false")
	}
	if tex.UploadPending() {
		t.Error("pending upload survived the bind")
	}
	if adapter.WriteCount() != 1 {
		t.Errorf("write count = %d, want 1", adapter.WriteCount())
	}
}

func TestBindWithWrapModeOverride(t *testing.T) {
	ctx, adapter := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{
		Width: 4, Height: 4,
		WrapModeS: WrapModeClampToEdge,
		WrapModeT: WrapModeClampToEdge,
	})

	if !tex.BindWith(0, WrapModeRepeat, WrapModeClampToBorder) {
		t.Fatal("BindWith() = false")
	}
	sampler := adapter.BoundSampler(0)
	if sampler.AddressModeU != gpucore.AddressModeRepeat {
		t.Errorf("AddressModeU = %v, want Repeat", sampler.AddressModeU)
	}
	if sampler.AddressModeV != gpucore.AddressModeClampToBorder {
		t.Errorf("AddressModeV = %v, want ClampToBorder", sampler.AddressModeV)
	}

	// Overrides are per-bind; the next plain Bind uses the fixed modes.
	tex.Bind(0)
	if got := adapter.BoundSampler(0).AddressModeU; got != gpucore.AddressModeClampToEdge {
		t.Errorf("AddressModeU after plain Bind = %v, want ClampToEdge", got)
	}
}

func TestSetDataOutOfBounds(t *testing.T) {
	ctx, _ := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})
	err := tex.SetData(&PixmapUpload{Pixmap: opaquePixmap(2, 2), Origin: image.Pt(3, 3)})
	if !errors.Is(err, ErrUploadOutOfBounds) {
		t.Errorf("error = %v, want ErrUploadOutOfBounds", err)
	}
	if tex.UploadPending() {
		t.Error("rejected upload left a pending payload")
	}
	if tex.Opacity() != OpacityTransparent {
		t.Error("rejected upload changed the classification")
	}
}

func TestSetDataNil(t *testing.T) {
	ctx, _ := newTestContext(t)
	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})
	if err := tex.SetData(nil); err != ErrNilUpload {
		t.Errorf("SetData(nil) error = %v, want ErrNilUpload", err)
	}
}

// The classification scenario: a full opaque upload makes the texture
// Opaque; a subsequent transparent sub-rectangle degrades it to Mixed.
func TestOpacityTracking(t *testing.T) {
	ctx, _ := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})

	if err := tex.SetData(&PixmapUpload{Pixmap: opaquePixmap(4, 4)}); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if got := tex.Opacity(); got != OpacityOpaque {
		t.Fatalf("Opacity() after full opaque upload = %v, want Opaque", got)
	}

	sub := transparentPixmap(2, 2)
	if err := tex.SetData(&PixmapUpload{Pixmap: sub, Origin: image.Pt(1, 1)}); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if got := tex.Opacity(); got != OpacityMixed {
		t.Errorf("Opacity() after transparent sub-rect = %v, want Mixed", got)
	}

	// A later full replacement restores precision.
	if err := tex.SetData(&PixmapUpload{Pixmap: transparentPixmap(4, 4)}); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if got := tex.Opacity(); got != OpacityTransparent {
		t.Errorf("Opacity() after full transparent upload = %v, want Transparent", got)
	}
}

// A full-bounds upload at a higher mip level is not a full replacement.
func TestOpacityMipUploadIsPartial(t *testing.T) {
	ctx, _ := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})
	tex.SetData(&PixmapUpload{Pixmap: opaquePixmap(4, 4)})

	tex.SetData(&PixmapUpload{Pixmap: transparentPixmap(2, 2), MipLevel: 1})
	if got := tex.Opacity(); got != OpacityMixed {
		t.Errorf("Opacity() after mip upload = %v, want Mixed", got)
	}
}

func TestBypassUploadQueue(t *testing.T) {
	ctx, adapter := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4, BypassUploadQueue: true})
	if !tex.BypassUploadQueue() {
		t.Fatal("BypassUploadQueue() = false")
	}

	tex.SetData(&PixmapUpload{Pixmap: opaquePixmap(4, 4)})
	if got := ctx.PendingUploads(); got != 0 {
		t.Fatalf("bypass texture entered the shared queue (%d pending)", got)
	}
	if !tex.UploadPending() {
		t.Fatal("UploadPending() = false")
	}

	// The transfer happens on bind, not at the frame sweep.
	ctx.BeginFrame()
	if adapter.WriteCount() != 0 {
		t.Fatal("bypass upload applied by the frame sweep")
	}
	if !tex.Bind(0) {
		t.Fatal("Bind() = false")
	}
	if adapter.WriteCount() != 1 {
		t.Errorf("write count = %d, want 1", adapter.WriteCount())
	}
}

func TestFlushUploadsDiscardsPending(t *testing.T) {
	ctx, adapter := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})
	tex.SetData(&PixmapUpload{Pixmap: opaquePixmap(4, 4)})
	tex.FlushUploads()

	if tex.UploadPending() {
		t.Error("UploadPending() = true after FlushUploads")
	}
	ctx.BeginFrame()
	if adapter.WriteCount() != 0 {
		t.Error("discarded payload reached the GPU")
	}
}

func TestDispose(t *testing.T) {
	ctx, adapter := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})
	tex.SetData(&PixmapUpload{Pixmap: opaquePixmap(4, 4)})
	ctx.BeginFrame()
	id := tex.TextureID()

	tex.Dispose()
	tex.Dispose() // idempotent

	if tex.Available() {
		t.Error("Available() = true after Dispose")
	}
	if tex.Bind(0) {
		t.Error("Bind() = true after Dispose")
	}
	if err := tex.SetData(&PixmapUpload{Pixmap: opaquePixmap(4, 4)}); err != ErrTextureDisposed {
		t.Errorf("SetData() after Dispose error = %v, want ErrTextureDisposed", err)
	}

	// A rejected bind must not cancel the scheduled teardown.
	if got := ctx.PendingDisposals(); got != 1 {
		t.Fatalf("PendingDisposals() = %d, want 1", got)
	}
	ctx.BeginFrame()
	if adapter.Exists(id) {
		t.Error("GPU object alive after safe point")
	}
}

func TestDisposeBeforeHandleCreated(t *testing.T) {
	ctx, _ := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})
	tex.Dispose()

	// No handle was ever created, so nothing to destroy.
	if got := ctx.PendingDisposals(); got != 0 {
		t.Errorf("PendingDisposals() = %d, want 0", got)
	}
}

func TestResize(t *testing.T) {
	ctx, adapter := newTestContext(t)

	tex, _ := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})
	tex.SetData(&PixmapUpload{Pixmap: opaquePixmap(4, 4)})
	ctx.BeginFrame()
	oldID := tex.TextureID()

	if err := tex.Resize(8, 8); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if tex.Width() != 8 || tex.Height() != 8 {
		t.Errorf("dimensions = %dx%d, want 8x8", tex.Width(), tex.Height())
	}
	if tex.Opacity() != OpacityTransparent {
		t.Error("Resize did not reset classification")
	}
	if tex.TextureID().IsValid() {
		t.Error("Resize kept the old handle")
	}

	// The old handle is torn down at the next safe point; the new one is
	// created lazily, with a fresh ID.
	ctx.BeginFrame()
	if adapter.Exists(oldID) {
		t.Error("old GPU object alive after safe point")
	}
	if !tex.Bind(0) {
		t.Fatal("Bind() after Resize = false")
	}
	if tex.TextureID() == oldID {
		t.Error("handle was reused after Resize")
	}
}

func TestVideoTexture(t *testing.T) {
	ctx, adapter := newTestContext(t)

	vid, err := ctx.NewVideoTexture(VideoTextureConfig{Width: 4, Height: 2})
	if err != nil {
		t.Fatalf("NewVideoTexture() error = %v", err)
	}
	if !vid.BypassUploadQueue() {
		t.Error("video texture must bypass the shared queue")
	}
	if vid.WrapModeS() != WrapModeClampToEdge || vid.WrapModeT() != WrapModeClampToEdge {
		t.Error("video texture wrap modes are not clamp-to-edge")
	}

	// Frames classify Opaque without scanning, even when all alpha is 0.
	frame := transparentPixmap(4, 2)
	if err := vid.SetFrame(frame); err != nil {
		t.Fatalf("SetFrame() error = %v", err)
	}
	if got := vid.Opacity(); got != OpacityOpaque {
		t.Errorf("Opacity() = %v, want Opaque", got)
	}
	if got := ctx.PendingUploads(); got != 0 {
		t.Errorf("video frame entered the shared queue (%d pending)", got)
	}

	if !vid.Bind(0) {
		t.Fatal("Bind() = false")
	}
	if adapter.WriteCount() != 1 {
		t.Errorf("write count = %d, want 1", adapter.WriteCount())
	}

	if err := vid.SetFrame(nil); err != ErrNilUpload {
		t.Errorf("SetFrame(nil) error = %v, want ErrNilUpload", err)
	}
}

func TestDisposedTextureNeverGrowsHandle(t *testing.T) {
	ctx, adapter := newTestContext(t)

	tex, err := ctx.NewTexture(TextureConfig{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	tex.Dispose()

	if err := tex.SetData(&PixmapUpload{Pixmap: opaquePixmap(4, 4)}); !errors.Is(err, ErrTextureDisposed) {
		t.Errorf("SetData() after Dispose error = %v, want ErrTextureDisposed", err)
	}
	if err := tex.Resize(8, 8); !errors.Is(err, ErrTextureDisposed) {
		t.Errorf("Resize() after Dispose error = %v, want ErrTextureDisposed", err)
	}

	// Simulate a write that lost the race with Dispose: the payload lands
	// in the pending slot after Dispose already cleared it. The transfer
	// must still refuse to create a GPU object, because nothing would be
	// left to schedule its destruction.
	tex.mu.Lock()
	tex.pending = &PixmapUpload{Pixmap: opaquePixmap(4, 4)}
	tex.mu.Unlock()

	if tex.Upload() {
		t.Error("Upload() = true on a disposed texture")
	}
	ctx.BeginFrame()
	if n := adapter.TextureCount(); n != 0 {
		t.Errorf("TextureCount() = %d, want 0: disposed texture grew a handle", n)
	}
}
