// Package vulkan is the Vulkan backend, built on vkngwrapper and an SDL2
// window surface.
//
// Importing the package registers the backend under the name "vulkan":
//
//	import _ "github.com/gogpu/shaderview/backend/vulkan"
//
// The window passed to backend.Open must implement [Window]. The device
// keeps every native object in a gpucore arena and hands out typed handles;
// driver result codes are mapped onto the root package sentinels
// (ErrSwapchainOutOfDate, ErrSuboptimal, ErrDeviceLost, ErrSurfaceLost).
//
// Widget shapes and text are drawn with an internal pipeline built from the
// "ui" shader: one 6-vertex draw per rectangle, circle or glyph pixel run.
package vulkan
