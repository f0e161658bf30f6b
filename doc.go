// Package texres is the texture-resource layer of a real-time rendering
// pipeline. It owns the lifecycle of GPU-backed textures, tracks their
// transparency classification for draw-call optimization, and mediates
// between CPU-side pixel uploads and GPU-side binding and draw submission.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/texres"
//	    "github.com/gogpu/texres/backend"
//	)
//
//	ctx, err := texres.NewContext(backend.Default())
//	if err != nil { ... }
//	defer ctx.Close()
//
//	tex, _ := ctx.NewTexture(texres.TextureConfig{Width: 256, Height: 256})
//	tex.SetData(&texres.PixmapUpload{Pixmap: pix})
//
//	// Per frame, on the render goroutine:
//	ctx.BeginFrame() // flush queued uploads, run safe-point disposals
//	if tex.Bind(0) {
//	    tex.DrawQuad(texres.QuadFromRect(0, 0, 256, 256), texres.White, emit, nil)
//	}
//
//	tex.Dispose() // teardown runs at the next BeginFrame
//
// # Timelines
//
// Three loosely-synchronized timelines meet in this package: application
// code creating and mutating textures at arbitrary points in a frame, a
// GPU device that may only mutate or destroy objects at specific pipeline
// points, and draw submission that reads texture state without tearing.
// Context reconciles them: SetData and Dispose are safe from any
// goroutine and only enqueue work; transfers and teardown execute at safe
// points on the render goroutine.
//
// # Architecture
//
// The package is organized into:
//   - Public API: Texture, Context, Atlas, MemoryManager, upload payloads
//   - gpucore: the backend adapter contract (opaque texture IDs)
//   - backend: adapter registry with a software adapter (always available)
//   - backend/wgpu: Pure Go WebGPU adapter via gogpu/wgpu
//
// # Opacity Classification
//
// Every upload is classified as Opaque, Mixed, or Transparent by a single
// alpha scan, and the result is merged into the texture's running
// classification. Renderers use it to skip blending for fully opaque or
// fully transparent resources.
package texres
