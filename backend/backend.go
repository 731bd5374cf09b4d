package backend

import (
	"errors"

	"github.com/gogpu/shaderview/gpucore"
	"github.com/gogpu/shaderview/render"
	"github.com/gogpu/shaderview/shader"
)

// Backend names.
const (
	BackendVulkan = "vulkan"
	BackendNull   = "null"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrClosed is returned when a device is used after Close.
	ErrClosed = errors.New("backend: device closed")
)

// Target is the window a device presents to.
type Target interface {
	// ClientSize returns the drawable size in pixels.
	ClientSize() (width, height int)
}

// Options configures a device.
type Options struct {
	// AppName is reported to the driver.
	AppName string

	// Validation enables driver validation layers where available.
	Validation bool

	// ShaderDir and UIShader locate the shader the backend draws widget
	// shapes and text with. An empty UIShader selects the builtin one.
	ShaderDir string
	UIShader  string
}

// RenderBackend opens devices.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type RenderBackend interface {
	// Name returns the backend identifier (e.g., "vulkan", "null").
	Name() string

	// Open creates a device presenting to target.
	Open(target Target, opts Options) (Device, error)
}

// PipelineDesc describes a full-screen graphics pipeline.
type PipelineDesc struct {
	// Name identifies the pipeline in logs.
	Name string

	Vertex   shader.Module
	Fragment shader.Module

	// PushConstantSize is the size of the fragment push-constant block in
	// bytes.
	PushConstantSize uint32
}

// Device is everything the application needs from an opened backend: the
// presentation device, pass replay, and pipeline creation.
type Device interface {
	gpucore.Device
	render.Encoder

	// CreatePipeline builds a pipeline compatible with the swapchain
	// render pass. Viewport and scissor are dynamic.
	CreatePipeline(PipelineDesc) (gpucore.Pipeline, error)
	DestroyPipeline(gpucore.Pipeline)

	// Close waits for the device to go idle and releases everything it
	// still owns.
	Close() error
}
