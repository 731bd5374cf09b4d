// Package gpucore provides the GPU abstractions shared by the presentation
// layer, the scene scheduler and the device backends.
//
// # Handles
//
// GPU objects never cross package boundaries as raw pointers. Backends keep
// their native objects in an [Arena] and hand out typed [Handle] values:
//
//	var fences gpucore.Arena[gpucore.FenceKind, vkFence]
//	h := fences.Insert(native)   // h is a gpucore.Fence
//	native, ok := fences.Get(h)  // ok is false once h was removed
//
// The kind parameter makes passing a [Fence] where a [Semaphore] is expected
// a compile error. Each handle carries a generation, so a handle that
// outlives its object (for example an image view from a swapchain that was
// recreated) is detected as stale instead of aliasing a newer object.
//
// # Device
//
// The [Device] interface is the surface the presentation layer drives:
// synchronization objects, command buffers, swapchain images and the
// acquire/submit/present calls. Backends translate it to their native API
// and map native result codes to the sentinel errors of the root package
// (ErrSwapchainOutOfDate, ErrSuboptimal, ErrDeviceLost).
package gpucore
