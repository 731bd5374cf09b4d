package vulkan

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/backend"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

// rayTracingExtension is advertised by devices with hardware ray-tracing
// pipelines.
const rayTracingExtension = "VK_KHR_ray_tracing_pipeline"

var deviceExtensions = []string{khr_swapchain.ExtensionName}

type queueFamilies struct {
	graphics, present int
	found             bool
}

func (d *Device) createInstance(win *sdl.Window, opts backend.Options) error {
	var err error
	d.global, err = core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return errors.Wrap(err, "vulkan: load driver")
	}

	info := core1_0.InstanceCreateInfo{
		ApplicationName:    opts.AppName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "shaderview",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	available, _, err := d.global.AvailableExtensions()
	if err != nil {
		return errors.Wrap(err, "vulkan: instance extensions")
	}
	for _, ext := range win.VulkanGetInstanceExtensions() {
		if _, ok := available[ext]; !ok {
			return errors.Errorf("vulkan: missing instance extension %s", ext)
		}
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext)
	}
	if _, ok := available[khr_portability_enumeration.ExtensionName]; ok {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		info.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	validation := opts.Validation
	if validation {
		layers, _, err := d.global.AvailableLayers()
		if err != nil {
			return errors.Wrap(err, "vulkan: instance layers")
		}
		if _, ok := layers[validationLayer]; ok {
			info.EnabledLayerNames = append(info.EnabledLayerNames, validationLayer)
			info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext_debug_utils.ExtensionName)
			info.Next = d.messengerInfo()
		} else {
			d.log.Warn("validation layer not installed", "layer", validationLayer)
			validation = false
		}
	}

	d.instance, _, err = d.global.CreateInstance(nil, info)
	if err != nil {
		return errors.Wrap(err, "vulkan: create instance")
	}

	if validation {
		d.debug = ext_debug_utils.CreateExtensionDriverFromCoreDriver(d.instance)
		d.messenger, _, err = d.debug.CreateDebugUtilsMessenger(nil, d.messengerInfo())
		if err != nil {
			return errors.Wrap(err, "vulkan: debug messenger")
		}
	}
	return nil
}

func (d *Device) messengerInfo() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    d.logValidation,
	}
}

func (d *Device) logValidation(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	level := slog.LevelWarn
	if severity&ext_debug_utils.SeverityError != 0 {
		level = slog.LevelError
	}
	d.log.Log(context.Background(), level, "vulkan validation", "type", msgType, "message", data.Message)
	return false
}

func (d *Device) createSurface(win *sdl.Window) error {
	d.surfaceExt = khr_surface.CreateExtensionDriverFromCoreDriver(d.instance)
	surface, err := vkng_sdl2.CreateSurface(d.instance.Instance(), d.surfaceExt, win)
	if err != nil {
		return errors.Wrap(err, "vulkan: create surface")
	}
	d.surface = surface
	return nil
}

func (d *Device) findQueueFamilies(pd core1_0.PhysicalDevice) (queueFamilies, error) {
	var q queueFamilies
	graphics, present := -1, -1
	for i, family := range d.instance.GetPhysicalDeviceQueueFamilyProperties(pd) {
		if family.QueueFlags&core1_0.QueueGraphics != 0 && graphics < 0 {
			graphics = i
		}
		ok, _, err := d.surfaceExt.GetPhysicalDeviceSurfaceSupport(d.surface, pd, i)
		if err != nil {
			return q, errors.Wrap(err, "vulkan: surface support")
		}
		// Prefer a family that does both.
		if ok && (present < 0 || i == graphics) {
			present = i
		}
		if graphics >= 0 && present == graphics {
			break
		}
	}
	if graphics < 0 || present < 0 {
		return q, nil
	}
	return queueFamilies{graphics: graphics, present: present, found: true}, nil
}

type candidate struct {
	device     core1_0.PhysicalDevice
	families   queueFamilies
	extensions map[string]bool
}

func (d *Device) suitable(pd core1_0.PhysicalDevice) (candidate, bool) {
	c := candidate{device: pd, extensions: make(map[string]bool)}
	families, err := d.findQueueFamilies(pd)
	if err != nil || !families.found {
		return c, false
	}
	c.families = families

	exts, _, err := d.instance.EnumerateDeviceExtensionProperties(pd)
	if err != nil {
		return c, false
	}
	for name := range exts {
		c.extensions[name] = true
	}
	for _, want := range deviceExtensions {
		if !c.extensions[want] {
			return c, false
		}
	}

	formats, _, err := d.surfaceExt.GetPhysicalDeviceSurfaceFormats(d.surface, pd)
	if err != nil || len(formats) == 0 {
		return c, false
	}
	modes, _, err := d.surfaceExt.GetPhysicalDeviceSurfacePresentModes(d.surface, pd)
	if err != nil || len(modes) == 0 {
		return c, false
	}
	return c, true
}

func (d *Device) pickPhysicalDevice() (candidate, error) {
	devices, _, err := d.instance.EnumeratePhysicalDevices()
	if err != nil {
		return candidate{}, errors.Wrap(err, "vulkan: enumerate physical devices")
	}
	for _, pd := range devices {
		if c, ok := d.suitable(pd); ok {
			return c, nil
		}
	}
	return candidate{}, errors.Wrap(backend.ErrBackendNotAvailable, "vulkan: no GPU can present to the window")
}

func (d *Device) createDevice(c candidate) error {
	d.physical = c.device
	d.families = c.families

	unique := []int{c.families.graphics}
	if c.families.present != c.families.graphics {
		unique = append(unique, c.families.present)
	}
	queues := make([]core1_0.DeviceQueueCreateInfo, 0, len(unique))
	for _, family := range unique {
		queues = append(queues, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: family,
			QueuePriorities:  []float32{1},
		})
	}

	names := append([]string(nil), deviceExtensions...)
	if c.extensions[khr_portability_subset.ExtensionName] {
		names = append(names, khr_portability_subset.ExtensionName)
	}

	var err error
	d.device, _, err = d.instance.CreateDevice(c.device, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queues,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: names,
	})
	if err != nil {
		return errors.Wrap(err, "vulkan: create device")
	}
	d.graphicsQueue = d.device.GetQueue(c.families.graphics, 0)
	d.presentQueue = d.device.GetQueue(c.families.present, 0)
	d.swapchainExt = khr_swapchain.CreateExtensionDriverFromCoreDriver(d.device)

	props, err := d.instance.GetPhysicalDeviceProperties(c.device)
	if err != nil {
		return errors.Wrap(err, "vulkan: device properties")
	}
	d.caps.DeviceName = props.DeviceName
	d.caps.MaxPushConstantsSize = uint32(props.Limits.MaxPushConstantsSize)
	d.caps.RayTracing = c.extensions[rayTracingExtension]

	d.pool, _, err = d.device.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		Flags:            core1_0.CommandPoolCreateResetBuffer,
		QueueFamilyIndex: c.families.graphics,
	})
	if err != nil {
		return errors.Wrap(err, "vulkan: create command pool")
	}
	return nil
}

// surfaceFormat picks the format the render pass and every swapchain use.
func (d *Device) surfaceFormat() error {
	available, _, err := d.surfaceExt.GetPhysicalDeviceSurfaceFormats(d.surface, d.physical)
	if err != nil {
		return errors.Wrap(err, "vulkan: surface formats")
	}
	for _, want := range formats {
		for _, f := range available {
			if f.Format == want.vk {
				d.format = f
				return nil
			}
		}
	}
	return errors.Wrapf(shaderview.ErrNoCompatibleFormat, "vulkan: %d surface formats offered", len(available))
}

func (d *Device) createRenderPass() error {
	var err error
	d.renderPass, _, err = d.device.CreateRenderPass(nil, core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         d.format.Format,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{Attachment: 0, Layout: core1_0.ImageLayoutColorAttachmentOptimal},
				},
			},
		},
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass:    core1_0.SubpassExternal,
				DstSubpass:    0,
				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				DstAccessMask: core1_0.AccessColorAttachmentWrite,
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, "vulkan: create render pass")
	}
	return nil
}
