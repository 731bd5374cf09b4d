// Package shaderview is the adaptive frame-presentation and coordinate-transform
// engine of an interactive shader-preview application.
//
// # Overview
//
// A window hosts a GPU surface on which one of several mutually exclusive
// scenes is rendered every frame, with clickable UI controls overlaid. This
// package holds the leaf of that engine: the geometry and stretch math that
// every other component consults.
//
//	win := shaderview.Sz(1280, 720)
//	ref := shaderview.Sz(800, 800)
//	tr := shaderview.ComputeTransform(shaderview.StretchFit, win, ref)
//	// tr.Viewport == {X: 280, Y: 0, W: 720, H: 720}
//	logical := tr.Inverse(shaderview.Pt(640, 360))
//
// # Stretch Policies
//
// Three policies decide how logical (reference) pixels become screen pixels:
//   - [StretchDisabled]: the reference rectangle is centered, never scaled
//   - [StretchScaled]: the reference rectangle is stretched over the full window
//   - [StretchFit]: the reference rectangle is letterboxed or pillarboxed
//
// [ComputeTransform] is the single place where these branches live. Widgets,
// the text overlay, the background layer and input hit testing all derive
// their coordinates from the returned [Transform], so a click always lands on
// the widget that was drawn under it.
//
// # Architecture
//
// The module is organized into:
//   - shaderview: geometry, stretch transform, error taxonomy, logger
//   - gpucore: typed arena handles and the device interface
//   - present: swapchain lifecycle and frame pacing
//   - render: backend-neutral per-frame command lists
//   - ui, scene: widgets and the scene scheduler
//   - backend/null, backend/vulkan: devices
//   - app: the render context and the per-frame entry point
//
// # Coordinate System
//
// Uses standard window coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
package shaderview

// Version information
const (
	// Version is the current version of the module
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
