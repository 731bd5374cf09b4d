// Package backend provides the pluggable GPU device abstraction.
//
// A backend opens a [Device] for a window. The device is the presentation
// device consumed by package present, the pass encoder consumed by package
// render, and a pipeline factory.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime:
//
//	import _ "github.com/gogpu/shaderview/backend/vulkan"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name. Open combines selection with opening a
// device:
//
//	dev, err := backend.Open("", window, backend.Options{AppName: "shaderview"})
//
// # Available Backends
//
//   - "vulkan": Vulkan through vkngwrapper, presenting to an SDL2 window
//   - "null": headless validating device for tests and dry runs
package backend
