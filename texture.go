package texres

import (
	"errors"
	"image"
)

// Texture errors.
var (
	// ErrTextureDisposed is returned when mutating a disposed texture.
	ErrTextureDisposed = errors.New("texres: texture has been disposed")

	// ErrNilUpload is returned when SetData receives a nil payload.
	ErrNilUpload = errors.New("texres: upload is nil")

	// ErrUploadOutOfBounds is returned when an upload's target rectangle
	// does not lie within the texture's bounds. This is a caller contract
	// violation, not a recoverable runtime condition.
	ErrUploadOutOfBounds = errors.New("texres: upload rectangle outside texture bounds")

	// ErrNilEmitter is returned when a draw operation has no vertex emitter.
	ErrNilEmitter = errors.New("texres: vertex emitter is nil")
)

// Texture is one GPU texture resource, or a sub-region of one. It is the
// only legal surface through which the underlying GPU object is read,
// mutated, bound, or destroyed.
//
// Three implementations satisfy the interface: [NativeTexture] (owns the
// GPU handle), [RegionTexture] (non-owning atlas sub-region), and
// [VideoTexture] (every-frame-rewritten streaming texture).
//
// SetData and Dispose are safe from any goroutine. Bind, Upload, and the
// draw operations must run on the render goroutine.
type Texture interface {
	// Width returns the addressable width in pixels.
	Width() int

	// Height returns the addressable height in pixels.
	Height() int

	// Bounds returns the addressable pixel rectangle within the backing
	// GPU allocation. For a plain texture this is (0,0)-(Width,Height);
	// for an atlas sub-region it is the region inside the shared atlas.
	Bounds() image.Rectangle

	// WrapModeS returns the horizontal wrap mode fixed at construction.
	WrapModeS() WrapMode

	// WrapModeT returns the vertical wrap mode fixed at construction.
	WrapModeT() WrapMode

	// Opacity returns the current alpha-channel classification. It is a
	// sound over-approximation: once Mixed, it stays Mixed until a
	// full-bounds mip-0 upload replaces the contents outright.
	Opacity() Opacity

	// Available reports whether the resource may still be used. It flips
	// to false exactly once, when disposal is requested, and never
	// returns to true.
	Available() bool

	// UploadPending reports whether pixel data has been submitted but not
	// yet transferred to the GPU.
	UploadPending() bool

	// BypassUploadQueue reports whether uploads skip the shared per-frame
	// queue.
	BypassUploadQueue() bool

	// SetBypassUploadQueue opts the texture out of (or back into) deferred
	// upload batching. Required for resources rewritten every frame, where
	// deferring would grow a shared backlog.
	SetBypassUploadQueue(bypass bool)

	// SetData submits a pixel upload. The payload's target rectangle must
	// lie within Bounds. The texture retains at most one pending payload:
	// a second SetData before the first is flushed replaces it (last
	// write wins). Safe to call from any goroutine.
	SetData(u Upload) error

	// Upload transfers the pending payload to the GPU, if any, and
	// reports whether a transfer happened. Idempotent: returns false
	// immediately when nothing is pending. Render goroutine only.
	Upload() bool

	// FlushUploads discards any pending payload without applying it.
	FlushUploads()

	// Bind selects the texture as active for the given texture unit,
	// first applying a pending upload if one exists. It returns false if
	// the underlying GPU handle does not exist and cannot be created
	// (zero-sized bounds, disposed resource); the caller must skip the
	// draw in that case. Render goroutine only.
	Bind(unit uint32) bool

	// BindWith is Bind with wrap-mode overrides applied for this bind
	// only.
	BindWith(unit uint32, wrapS, wrapT WrapMode) bool

	// GetTextureRect maps a sub-rectangle, given in pixels relative to
	// Bounds, into normalized texture coordinates of the backing
	// allocation. A nil rectangle selects the full resource.
	GetTextureRect(r *RectangleF) RectangleF

	// DrawTriangle converts a screen-space triangle plus an optional
	// texture sub-rectangle into textured vertices, emitted one by one.
	// It has no effect on GPU state and does not bind.
	DrawTriangle(tri Triangle, col RGBA, emit VertexEmitter, opts *DrawOptions) error

	// DrawQuad is DrawTriangle for quadrilaterals, with optional
	// blend-range override.
	DrawQuad(q Quad, col RGBA, emit VertexEmitter, opts *DrawOptions) error

	// Dispose marks the resource unavailable and schedules GPU-object
	// teardown for the next safe point. Idempotent; safe from any
	// goroutine; never frees the GPU object synchronously.
	Dispose()
}
