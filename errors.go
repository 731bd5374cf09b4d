package shaderview

import (
	"errors"
	"fmt"
)

// Presentation and device errors. Backends map their native result codes
// onto these sentinels so that callers can classify failures with errors.Is.
var (
	// ErrDeviceLost is fatal: the device cannot be recovered and the
	// application must exit.
	ErrDeviceLost = errors.New("shaderview: device lost")

	// ErrSwapchainOutOfDate means the swapchain no longer matches the
	// surface and must be recreated before the next frame.
	ErrSwapchainOutOfDate = errors.New("shaderview: swapchain out of date")

	// ErrSuboptimal means the swapchain still presents but no longer
	// matches the surface exactly; it is recreated like an out-of-date one.
	ErrSuboptimal = errors.New("shaderview: swapchain suboptimal")

	// ErrSurfaceLost means the window surface was destroyed.
	ErrSurfaceLost = errors.New("shaderview: surface lost")

	// ErrNoCompatibleFormat means the surface offers no usable format.
	ErrNoCompatibleFormat = errors.New("shaderview: no compatible surface format")

	// ErrPipelineCompileFailed means a scene pipeline could not be built.
	// The scene reverts to Loading.
	ErrPipelineCompileFailed = errors.New("shaderview: pipeline compile failed")

	// ErrMemoryTypeNotFound means no device memory type satisfied a request.
	// Callers substitute a default allocation.
	ErrMemoryTypeNotFound = errors.New("shaderview: memory type not found")

	// ErrInvalidReferenceSize means the reference size is zero or negative.
	// Callers substitute DefaultReference.
	ErrInvalidReferenceSize = errors.New("shaderview: invalid reference size")
)

// IsFatal reports whether err can only be handled by exiting.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDeviceLost) || errors.Is(err, ErrSurfaceLost)
}

// IsRecoverable reports whether err is handled by recreating the swapchain
// and skipping the current frame.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrSwapchainOutOfDate) || errors.Is(err, ErrSuboptimal)
}

// ValidateReference returns ErrInvalidReferenceSize if s cannot be used as a
// reference size.
func ValidateReference(s Size) error {
	if s.Empty() {
		return fmt.Errorf("%w: %gx%g", ErrInvalidReferenceSize, s.W, s.H)
	}
	return nil
}

// PipelineError describes a pipeline that failed to build for a scene.
type PipelineError struct {
	Scene  string
	Vertex string
	Frag   string
	Err    error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("shaderview: %s pipeline (%s, %s): %v", e.Scene, e.Vertex, e.Frag, e.Err)
}

// Unwrap returns both the underlying cause and ErrPipelineCompileFailed so
// that errors.Is matches either.
func (e *PipelineError) Unwrap() []error {
	return []error{ErrPipelineCompileFailed, e.Err}
}
