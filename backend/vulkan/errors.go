package vulkan

import (
	"github.com/pkg/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/gogpu/shaderview"
)

// errNotWindow is returned when backend.Open is given a target without an
// SDL window.
var errNotWindow = errors.New("vulkan: target does not provide an SDL window")

// sentinel returns the root package error a result code stands for.
func sentinel(res common.VkResult) error {
	switch res {
	case khr_swapchain.VKErrorOutOfDate:
		return shaderview.ErrSwapchainOutOfDate
	case khr_swapchain.VKSuboptimal:
		return shaderview.ErrSuboptimal
	case core1_0.VKErrorDeviceLost:
		return shaderview.ErrDeviceLost
	case khr_surface.VKErrorSurfaceLost:
		return shaderview.ErrSurfaceLost
	}
	return nil
}

// check converts the result of a driver call into an error annotated with
// op. Result codes with a root sentinel are returned as that sentinel so
// callers can match them with errors.Is.
func check(op string, res common.VkResult, err error) error {
	if s := sentinel(res); s != nil {
		return errors.Wrapf(s, "vulkan: %s", op)
	}
	if err != nil {
		return errors.Wrapf(err, "vulkan: %s", op)
	}
	return nil
}
