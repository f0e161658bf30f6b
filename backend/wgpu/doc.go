// Package wgpu provides a texres adapter backed by gogpu/wgpu, the Pure
// Go WebGPU implementation.
//
// Importing this package registers the adapter under the name "wgpu":
//
//	import _ "github.com/gogpu/texres/backend/wgpu"
//
// The adapter owns its GPU instance, adapter, device, and queue by
// default. Applications that already hold a GPU device (for example via
// gogpu) can share it instead:
//
//	a := wgpu.NewAdapter()
//	a.SetDeviceProvider(provider) // gpucontext.DeviceProvider
//
// Texture create, write, and destroy are tracked as logical resources
// until wgpu texture support is complete; device and queue initialization
// is fully functional.
package wgpu
