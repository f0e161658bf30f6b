package texres

import (
	"errors"
	"sync"

	"github.com/gogpu/texres/gpucore"
)

// Context errors.
var (
	// ErrNilAdapter is returned when creating a context without an adapter.
	ErrNilAdapter = errors.New("texres: adapter is nil")

	// ErrContextClosed is returned when operating on a closed context.
	ErrContextClosed = errors.New("texres: context is closed")
)

// Context coordinates a GPU adapter with the frame pipeline. It owns the
// two work queues that decouple arbitrary-goroutine texture mutation from
// the render goroutine:
//
//   - the upload queue: textures with deferred pending uploads, swept once
//     per frame by BeginFrame;
//   - the disposal queue: typed "destroy handle" commands, executed only at
//     safe points (BeginFrame or FlushDisposals), because destroying a GPU
//     object mid-frame can corrupt an in-flight draw that still references
//     it.
//
// SetData and Dispose may push into the queues from any goroutine.
// BeginFrame, FlushDisposals, and Close must run on the render goroutine
// that owns the adapter.
type Context struct {
	adapter gpucore.Adapter

	mu          sync.Mutex
	uploadQueue []uploader
	disposals   []gpucore.TextureID
	closed      bool
}

// uploader is the upload-queue element: a texture that can apply its
// pending payload during the frame-start sweep.
type uploader interface {
	sweepUpload() bool
}

// NewContext creates a context driving the given adapter. The adapter is
// initialized if it is not already.
func NewContext(adapter gpucore.Adapter) (*Context, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}
	if err := adapter.Init(); err != nil {
		return nil, err
	}
	return &Context{adapter: adapter}, nil
}

// Adapter returns the adapter this context drives.
func (c *Context) Adapter() gpucore.Adapter {
	return c.adapter
}

// BeginFrame is the per-frame safe point. It first sweeps the upload
// queue, applying at most one pending payload per queued texture, then
// executes all scheduled disposals. Uploads run before disposals so that a
// disposal always executes strictly after uploads submitted before the
// disposal call.
//
// Must run on the render goroutine.
func (c *Context) BeginFrame() {
	c.mu.Lock()
	queue := c.uploadQueue
	c.uploadQueue = nil
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return
	}

	uploaded := 0
	for _, t := range queue {
		if t.sweepUpload() {
			uploaded++
		}
	}
	if uploaded > 0 {
		Logger().Debug("texres: frame upload sweep", "queued", len(queue), "applied", uploaded)
	}

	c.FlushDisposals()
}

// FlushDisposals executes all scheduled "destroy handle" commands. It is
// the explicit safe point for callers that tear down resources outside the
// regular frame cadence.
//
// Must run on the render goroutine.
func (c *Context) FlushDisposals() {
	c.mu.Lock()
	disposals := c.disposals
	c.disposals = nil
	closed := c.closed
	c.mu.Unlock()

	if closed || len(disposals) == 0 {
		return
	}

	for _, id := range disposals {
		c.adapter.DestroyTexture(id)
	}
	Logger().Debug("texres: disposal flush", "destroyed", len(disposals))
}

// ScheduleDisposal queues a "destroy handle" command for execution at the
// next safe point. Invalid IDs are ignored. Safe from any goroutine.
func (c *Context) ScheduleDisposal(id gpucore.TextureID) {
	if !id.IsValid() {
		return
	}
	c.mu.Lock()
	if !c.closed {
		c.disposals = append(c.disposals, id)
	}
	c.mu.Unlock()
}

// enqueueUpload registers a texture for the next frame's upload sweep.
// Each texture appears in the queue at most once; the texture's queued
// flag is maintained by the texture itself under its own lock.
func (c *Context) enqueueUpload(t uploader) {
	c.mu.Lock()
	if !c.closed {
		c.uploadQueue = append(c.uploadQueue, t)
	}
	c.mu.Unlock()
}

// PendingUploads returns the number of textures waiting in the shared
// upload queue.
func (c *Context) PendingUploads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.uploadQueue)
}

// PendingDisposals returns the number of scheduled destroy commands.
func (c *Context) PendingDisposals() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.disposals)
}

// Close executes outstanding disposals and releases the adapter. The
// context should not be used after Close. Must run on the render
// goroutine. Close is idempotent.
func (c *Context) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	disposals := c.disposals
	c.disposals = nil
	c.uploadQueue = nil
	c.closed = true
	c.mu.Unlock()

	for _, id := range disposals {
		c.adapter.DestroyTexture(id)
	}
	c.adapter.Close()
}
