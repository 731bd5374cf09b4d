// Package present owns the presentable-image chain and the per-frame
// synchronization objects.
//
// [Lifecycle] creates, destroys and recreates the swapchain together with
// its image views and framebuffers. [Pacer] owns N frame slots, each with an
// acquire semaphore, a submit semaphore, a fence and a command buffer, and
// sequences a frame:
//
//	frame, err := pacer.BeginFrame()   // wait slot fence, acquire image
//	if errors.Is(err, present.ErrRetry) {
//	    lifecycle.Recreate(extent)     // skip this frame
//	    return
//	}
//	record(frame.CommandBuffer, frame.Framebuffer)
//	err = pacer.SubmitAndPresent(frame) // submit, present, advance ring
//
// At most N frames have GPU work outstanding at any time, and a slot's
// command buffer is only re-recorded after its fence has signaled.
package present
