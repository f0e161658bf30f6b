package texres

import (
	"errors"
	"image"
	"testing"
)

// newTestRegion allocates a region inside a fresh atlas and returns it
// together with the atlas.
func newTestRegion(t *testing.T, ctx *Context, w, h int) (*RegionTexture, *Atlas) {
	t.Helper()
	atlas, err := ctx.NewAtlas(AtlasConfig{Width: 256, Height: 256, Label: "test-atlas"})
	if err != nil {
		t.Fatalf("NewAtlas() error = %v", err)
	}
	region, err := atlas.Allocate(w, h)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	return region, atlas
}

func TestRegionTextureBasics(t *testing.T) {
	ctx, _ := newTestContext(t)
	region, atlas := newTestRegion(t, ctx, 16, 8)

	if region.Width() != 16 || region.Height() != 8 {
		t.Errorf("dimensions = %dx%d, want 16x8", region.Width(), region.Height())
	}
	if region.Parent() != atlas.Texture() {
		t.Error("Parent() is not the atlas texture")
	}
	if region.WrapModeS() != WrapModeNone || region.WrapModeT() != WrapModeNone {
		t.Error("atlas regions must use WrapModeNone")
	}
	if !region.Available() {
		t.Error("Available() = false for fresh region")
	}
}

// Region uploads are re-addressed into the parent allocation.
func TestRegionUploadOffset(t *testing.T) {
	ctx, adapter := newTestContext(t)

	atlas, _ := ctx.NewAtlas(AtlasConfig{Width: 256, Height: 256})
	first, _ := atlas.Allocate(8, 8)
	second, err := atlas.Allocate(8, 8)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if second.Bounds().Min == first.Bounds().Min {
		t.Fatal("allocator handed out overlapping regions")
	}

	pix := NewPixmap(8, 8)
	pix.Fill(RGBA{R: 1, A: 1})
	if err := second.SetData(&PixmapUpload{Pixmap: pix}); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	ctx.BeginFrame()

	parent := atlas.Texture()
	pixels := adapter.Pixels(parent.TextureID(), 0)
	if pixels == nil {
		t.Fatal("no pixels written to the parent allocation")
	}

	// The write must land at the region's offset inside the parent.
	min := second.Bounds().Min
	idx := (min.Y*parent.Width() + min.X) * 4
	if pixels[idx] != 255 || pixels[idx+3] != 255 {
		t.Errorf("pixel at region origin = (%d, a=%d), want opaque red",
			pixels[idx], pixels[idx+3])
	}
	// The first region's origin must be untouched.
	if pixels[3] != 0 {
		t.Error("upload bled outside the region")
	}
}

func TestRegionSetDataOutOfBounds(t *testing.T) {
	ctx, _ := newTestContext(t)
	region, _ := newTestRegion(t, ctx, 8, 8)

	err := region.SetData(&PixmapUpload{Pixmap: opaquePixmap(4, 4), Origin: image.Pt(6, 6)})
	if !errors.Is(err, ErrUploadOutOfBounds) {
		t.Errorf("error = %v, want ErrUploadOutOfBounds", err)
	}
}

// Each region keeps its own pending slot: two regions uploading in the
// same frame must both reach the parent allocation.
func TestRegionsUploadIndependently(t *testing.T) {
	ctx, adapter := newTestContext(t)

	atlas, _ := ctx.NewAtlas(AtlasConfig{Width: 256, Height: 256})
	a, _ := atlas.Allocate(8, 8)
	b, _ := atlas.Allocate(8, 8)

	a.SetData(&PixmapUpload{Pixmap: opaquePixmap(8, 8)})
	b.SetData(&PixmapUpload{Pixmap: opaquePixmap(8, 8)})
	if got := ctx.PendingUploads(); got != 2 {
		t.Fatalf("PendingUploads() = %d, want 2", got)
	}

	ctx.BeginFrame()
	if got := adapter.WriteCount(); got != 2 {
		t.Errorf("write count = %d, want 2", got)
	}
}

func TestRegionOpacity(t *testing.T) {
	ctx, _ := newTestContext(t)
	region, atlas := newTestRegion(t, ctx, 8, 8)

	if err := region.SetData(&PixmapUpload{Pixmap: opaquePixmap(8, 8)}); err != nil {
		t.Fatalf("SetData() error = %v", err)
	}
	if got := region.Opacity(); got != OpacityOpaque {
		t.Errorf("region Opacity() = %v, want Opaque", got)
	}

	// The parent allocation only sees a partial update, so its own
	// classification coarsens rather than adopting the region's.
	if got := atlas.Texture().Opacity(); got != OpacityMixed {
		t.Errorf("parent Opacity() = %v, want Mixed", got)
	}
}

func TestRegionGetTextureRect(t *testing.T) {
	ctx, _ := newTestContext(t)

	atlas, _ := ctx.NewAtlas(AtlasConfig{Width: 256, Height: 256, Padding: 0})
	region, err := atlas.Allocate(64, 32)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	min := region.Bounds().Min
	got := region.GetTextureRect(nil)
	want := RectF(float64(min.X)/256, float64(min.Y)/256, 64.0/256, 32.0/256)
	if got != want {
		t.Errorf("GetTextureRect(nil) = %v, want %v", got, want)
	}

	// A region-local sub-rectangle maps through the region's offset.
	sub := RectF(16, 8, 32, 16)
	got = region.GetTextureRect(&sub)
	want = RectF(float64(min.X+16)/256, float64(min.Y+8)/256, 32.0/256, 16.0/256)
	if got != want {
		t.Errorf("GetTextureRect(sub) = %v, want %v", got, want)
	}
}

// Disposing a region never destroys the shared GPU allocation.
func TestRegionDisposeIsNonOwning(t *testing.T) {
	ctx, adapter := newTestContext(t)
	region, atlas := newTestRegion(t, ctx, 8, 8)

	region.SetData(&PixmapUpload{Pixmap: opaquePixmap(8, 8)})
	ctx.BeginFrame()
	parentID := atlas.Texture().TextureID()

	region.SetData(&PixmapUpload{Pixmap: opaquePixmap(8, 8)})
	region.Dispose()
	region.Dispose() // idempotent

	if region.Available() {
		t.Error("Available() = true after Dispose")
	}
	if region.UploadPending() {
		t.Error("Dispose left a pending upload")
	}
	if got := ctx.PendingDisposals(); got != 0 {
		t.Errorf("region Dispose scheduled a teardown (%d pending)", got)
	}

	ctx.BeginFrame()
	if !adapter.Exists(parentID) {
		t.Error("shared allocation destroyed by region disposal")
	}

	if err := region.SetData(&PixmapUpload{Pixmap: opaquePixmap(8, 8)}); err != ErrTextureDisposed {
		t.Errorf("SetData() after Dispose error = %v, want ErrTextureDisposed", err)
	}
}

// Regions become unavailable when the parent allocation is disposed.
func TestRegionUnavailableAfterAtlasDispose(t *testing.T) {
	ctx, _ := newTestContext(t)
	region, atlas := newTestRegion(t, ctx, 8, 8)

	atlas.Dispose()
	if region.Available() {
		t.Error("Available() = true after atlas disposal")
	}
	if region.Bind(0) {
		t.Error("Bind() = true after atlas disposal")
	}
}
