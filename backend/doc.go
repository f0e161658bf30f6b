// Package backend provides the adapter registry for texres.
//
// Adapters implement gpucore.Adapter and register themselves by name on
// package import. The software adapter registers itself from this package
// and is always available; the wgpu adapter registers on import of
// backend/wgpu:
//
//	import _ "github.com/gogpu/texres/backend/wgpu" // enable GPU textures
//
// Selection is by priority: wgpu when registered, software otherwise. Use
// Default to get the best available adapter, or Get to pick one by name.
package backend
