// Package gpucore defines the backend adapter contract for texres.
//
// The texture layer never talks to a GPU API directly. Instead it drives an
// [Adapter]: an abstraction over texture creation, pixel transfer, sampler
// binding, and destruction. Each adapter implementation maintains a mapping
// between opaque resource IDs and actual backend resources.
//
// Two adapters ship with texres:
//   - backend (software): stores texels in RAM; always available; used by
//     the test suite and as a fallback.
//   - backend/wgpu: Pure Go WebGPU adapter built on gogpu/wgpu.
//
// Adapter implementations are safe for concurrent use; both shipped
// adapters synchronize internally. Frame-level coordination is the job of
// texres.Context, which funnels uploads and disposals from arbitrary
// goroutines to safe points on the render goroutine.
package gpucore
