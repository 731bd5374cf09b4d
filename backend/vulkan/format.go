package vulkan

import (
	"github.com/gogpu/gputypes"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/gogpu/shaderview/gpucore"
)

var formats = []struct {
	gpu gputypes.TextureFormat
	vk  core1_0.Format
}{
	{gputypes.TextureFormatBGRA8Unorm, core1_0.FormatB8G8R8A8UnsignedNormalized},
	{gputypes.TextureFormatRGBA8Unorm, core1_0.FormatR8G8B8A8UnsignedNormalized},
}

func toVkFormat(f gputypes.TextureFormat) (core1_0.Format, bool) {
	for _, m := range formats {
		if m.gpu == f {
			return m.vk, true
		}
	}
	return core1_0.FormatUndefined, false
}

func fromVkFormat(f core1_0.Format) (gputypes.TextureFormat, bool) {
	for _, m := range formats {
		if m.vk == f {
			return m.gpu, true
		}
	}
	return gputypes.TextureFormatUndefined, false
}

var presentModes = []struct {
	gpu gpucore.PresentMode
	vk  khr_surface.PresentMode
}{
	{gpucore.PresentModeFifo, khr_surface.PresentModeFIFO},
	{gpucore.PresentModeMailbox, khr_surface.PresentModeMailbox},
	{gpucore.PresentModeImmediate, khr_surface.PresentModeImmediate},
	{gpucore.PresentModeFifoRelaxed, khr_surface.PresentModeFIFORelaxed},
}

func toVkPresentMode(m gpucore.PresentMode) khr_surface.PresentMode {
	for _, p := range presentModes {
		if p.gpu == m {
			return p.vk
		}
	}
	return khr_surface.PresentModeFIFO
}

func fromVkPresentMode(m khr_surface.PresentMode) (gpucore.PresentMode, bool) {
	for _, p := range presentModes {
		if p.vk == m {
			return p.gpu, true
		}
	}
	return gpucore.PresentModeFifo, false
}

// toExtent converts a driver extent. Negative dimensions mean the surface
// size is decided by the swapchain.
func toExtent(e core1_0.Extent2D) gpucore.Extent {
	conv := func(v int) uint32 {
		if v < 0 {
			return gpucore.UndefinedExtent
		}
		return uint32(v)
	}
	return gpucore.Extent{Width: conv(e.Width), Height: conv(e.Height)}
}

func toVkExtent(e gpucore.Extent) core1_0.Extent2D {
	return core1_0.Extent2D{Width: int(e.Width), Height: int(e.Height)}
}
