// Package app wires the presentation, scene and widget packages into a
// RenderContext that renders one frame per call.
//
// A RenderContext replaces process-wide state: it owns the device, the
// swapchain lifecycle, the frame pacer and the scene scheduler, and is
// passed explicitly to whatever drives the main loop:
//
//	rc, err := app.New(window, cfg)
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
//	for !rc.Tick() {
//	    pollEvents(rc)
//	}
package app
