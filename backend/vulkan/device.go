package vulkan

import (
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/backend"
	"github.com/gogpu/shaderview/gpucore"
	"github.com/gogpu/shaderview/shader"
)

func init() {
	backend.Register(backend.BackendVulkan, func() backend.RenderBackend { return Backend{} })
}

// Window is a backend.Target backed by an SDL window created with the
// SDL_WINDOW_VULKAN flag.
type Window interface {
	backend.Target
	SDLWindow() *sdl.Window
}

// Backend opens Vulkan devices.
type Backend struct{}

// Name returns "vulkan".
func (Backend) Name() string { return backend.BackendVulkan }

// Open creates a Vulkan device presenting to target, which must implement
// Window.
func (Backend) Open(target backend.Target, opts backend.Options) (backend.Device, error) {
	w, ok := target.(Window)
	if !ok {
		return nil, errNotWindow
	}
	return Open(w, opts)
}

type swapchainEntry struct {
	swapchain khr_swapchain.Swapchain
	images    []gpucore.Image
}

type framebufferEntry struct {
	framebuffer core1_0.Framebuffer
	extent      core1_0.Extent2D
}

// Device is a Vulkan gpucore.Device, render.Encoder and pipeline factory.
// It must be used from the goroutine that created the SDL window.
type Device struct {
	global    core1_0.GlobalDriver
	instance  core1_0.CoreInstanceDriver
	debug     ext_debug_utils.ExtensionDriver
	messenger ext_debug_utils.DebugUtilsMessenger

	surfaceExt khr_surface.ExtensionDriver
	surface    khr_surface.Surface

	physical      core1_0.PhysicalDevice
	families      queueFamilies
	device        core1_0.CoreDeviceDriver
	swapchainExt  khr_swapchain.ExtensionDriver
	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue
	pool          core1_0.CommandPool

	format     khr_surface.SurfaceFormat
	renderPass core1_0.RenderPass
	ui         pipeline
	caps       gpucore.Capabilities

	semaphores   gpucore.Arena[gpucore.SemaphoreKind, core1_0.Semaphore]
	fences       gpucore.Arena[gpucore.FenceKind, core1_0.Fence]
	cmds         gpucore.Arena[gpucore.CommandBufferKind, core1_0.CommandBuffer]
	swapchains   gpucore.Arena[gpucore.SwapchainKind, swapchainEntry]
	images       gpucore.Arena[gpucore.ImageKind, core1_0.Image]
	views        gpucore.Arena[gpucore.ImageViewKind, core1_0.ImageView]
	framebuffers gpucore.Arena[gpucore.FramebufferKind, framebufferEntry]
	pipelines    gpucore.Arena[gpucore.PipelineKind, pipeline]

	replay replay
	closed bool
	log    *slog.Logger
}

var _ backend.Device = (*Device)(nil)

// Open creates the instance, surface and logical device for w, the render
// pass every swapchain framebuffer uses, and the widget pipeline.
func Open(w Window, opts backend.Options) (*Device, error) {
	d := &Device{log: shaderview.ComponentLogger("vulkan")}
	win := w.SDLWindow()

	steps := []func() error{
		func() error { return d.createInstance(win, opts) },
		func() error { return d.createSurface(win) },
		func() error {
			c, err := d.pickPhysicalDevice()
			if err != nil {
				return err
			}
			return d.createDevice(c)
		},
		d.surfaceFormat,
		d.createRenderPass,
		func() error { return d.createUIPipeline(opts) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			d.Close()
			return nil, err
		}
	}
	d.log.Info("vulkan device ready",
		"device", d.caps.DeviceName,
		"format", d.format.Format,
		"ray_tracing", d.caps.RayTracing,
		"max_push_constants", d.caps.MaxPushConstantsSize)
	return d, nil
}

func (d *Device) createUIPipeline(opts backend.Options) error {
	path := opts.UIShader
	if path == "" {
		path = shader.BuiltinPrefix + "ui"
	}
	loader := shader.NewLoader(opts.ShaderDir)
	vs, err := loader.Load(path, shader.StageVertex)
	if err != nil {
		return errors.Wrap(err, "vulkan: ui shader")
	}
	fs, err := loader.Load(path, shader.StageFragment)
	if err != nil {
		return errors.Wrap(err, "vulkan: ui shader")
	}
	d.ui, err = d.buildPipeline(backend.PipelineDesc{
		Name:             "ui",
		Vertex:           vs,
		Fragment:         fs,
		PushConstantSize: shader.UIPushSize,
	}, true)
	return err
}

// Capabilities reports device features.
func (d *Device) Capabilities() gpucore.Capabilities { return d.caps }

// WaitIdle blocks until the device has finished all submitted work.
func (d *Device) WaitIdle() error {
	if d.closed {
		return backend.ErrClosed
	}
	res, err := d.device.DeviceWaitIdle()
	return check("wait idle", res, err)
}

func (d *Device) CreateSemaphore() (gpucore.Semaphore, error) {
	s, res, err := d.device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err := check("create semaphore", res, err); err != nil {
		return gpucore.Semaphore{}, err
	}
	return d.semaphores.Insert(s), nil
}

func (d *Device) DestroySemaphore(h gpucore.Semaphore) {
	if s, ok := d.semaphores.Remove(h); ok {
		d.device.DestroySemaphore(s, nil)
	}
}

func (d *Device) CreateFence(signaled bool) (gpucore.Fence, error) {
	var info core1_0.FenceCreateInfo
	if signaled {
		info.Flags = core1_0.FenceCreateSignaled
	}
	f, res, err := d.device.CreateFence(nil, info)
	if err := check("create fence", res, err); err != nil {
		return gpucore.Fence{}, err
	}
	return d.fences.Insert(f), nil
}

func (d *Device) DestroyFence(h gpucore.Fence) {
	if f, ok := d.fences.Remove(h); ok {
		d.device.DestroyFence(f, nil)
	}
}

func (d *Device) WaitFence(h gpucore.Fence) error {
	f, err := d.fences.MustGet(h)
	if err != nil {
		return err
	}
	res, err := d.device.WaitForFences(true, common.NoTimeout, f)
	return check("wait fence", res, err)
}

func (d *Device) ResetFence(h gpucore.Fence) error {
	f, err := d.fences.MustGet(h)
	if err != nil {
		return err
	}
	res, err := d.device.ResetFences(f)
	return check("reset fence", res, err)
}

func (d *Device) AllocateCommandBuffer() (gpucore.CommandBuffer, error) {
	bufs, res, err := d.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        d.pool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err := check("allocate command buffer", res, err); err != nil {
		return gpucore.CommandBuffer{}, err
	}
	return d.cmds.Insert(bufs[0]), nil
}

func (d *Device) FreeCommandBuffer(h gpucore.CommandBuffer) {
	if b, ok := d.cmds.Remove(h); ok {
		d.device.FreeCommandBuffers(b)
	}
}

// SurfaceCapabilities queries the window surface. Only formats the
// backend can render to are reported.
func (d *Device) SurfaceCapabilities() (gpucore.SurfaceCapabilities, error) {
	if d.closed {
		return gpucore.SurfaceCapabilities{}, shaderview.ErrSurfaceLost
	}
	caps, res, err := d.surfaceExt.GetPhysicalDeviceSurfaceCapabilities(d.surface, d.physical)
	if err := check("surface capabilities", res, err); err != nil {
		return gpucore.SurfaceCapabilities{}, err
	}
	out := gpucore.SurfaceCapabilities{
		MinImageCount: uint32(caps.MinImageCount),
		MaxImageCount: uint32(max(caps.MaxImageCount, 0)),
		CurrentExtent: toExtent(caps.CurrentExtent),
		MinExtent:     toExtent(caps.MinImageExtent),
		MaxExtent:     toExtent(caps.MaxImageExtent),
	}
	if f, ok := fromVkFormat(d.format.Format); ok {
		out.Formats = []gputypes.TextureFormat{f}
	}
	modes, res, err := d.surfaceExt.GetPhysicalDeviceSurfacePresentModes(d.surface, d.physical)
	if err := check("surface present modes", res, err); err != nil {
		return gpucore.SurfaceCapabilities{}, err
	}
	for _, m := range modes {
		if pm, ok := fromVkPresentMode(m); ok {
			out.PresentModes = append(out.PresentModes, pm)
		}
	}
	return out, nil
}

// CreateSwapchain creates a swapchain for the window surface. The desc
// format must be the one SurfaceCapabilities reported.
func (d *Device) CreateSwapchain(desc gpucore.SwapchainDesc, _ gpucore.Swapchain) (gpucore.Swapchain, error) {
	if desc.Extent.IsZero() {
		return gpucore.Swapchain{}, errors.Wrap(shaderview.ErrSwapchainOutOfDate, "vulkan: zero swapchain extent")
	}
	if f, ok := toVkFormat(desc.Format); !ok || f != d.format.Format {
		return gpucore.Swapchain{}, errors.Wrapf(shaderview.ErrNoCompatibleFormat, "vulkan: swapchain format %v", desc.Format)
	}
	caps, res, err := d.surfaceExt.GetPhysicalDeviceSurfaceCapabilities(d.surface, d.physical)
	if err := check("surface capabilities", res, err); err != nil {
		return gpucore.Swapchain{}, err
	}

	sharing := core1_0.SharingModeExclusive
	var families []int
	if d.families.graphics != d.families.present {
		sharing = core1_0.SharingModeConcurrent
		families = []int{d.families.graphics, d.families.present}
	}

	sc, res, err := d.swapchainExt.CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface:            d.surface,
		MinImageCount:      int(desc.ImageCount),
		ImageFormat:        d.format.Format,
		ImageColorSpace:    d.format.ColorSpace,
		ImageExtent:        toVkExtent(desc.Extent),
		ImageArrayLayers:   1,
		ImageUsage:         core1_0.ImageUsageColorAttachment,
		ImageSharingMode:   sharing,
		QueueFamilyIndices: families,
		PreTransform:       caps.CurrentTransform,
		CompositeAlpha:     khr_surface.CompositeAlphaOpaque,
		PresentMode:        toVkPresentMode(desc.PresentMode),
		Clipped:            true,
	})
	if err := check("create swapchain", res, err); err != nil {
		return gpucore.Swapchain{}, err
	}

	native, res, err := d.swapchainExt.GetSwapchainImages(sc)
	if err := check("swapchain images", res, err); err != nil {
		d.swapchainExt.DestroySwapchain(sc, nil)
		return gpucore.Swapchain{}, err
	}
	entry := swapchainEntry{swapchain: sc, images: make([]gpucore.Image, len(native))}
	for i, img := range native {
		entry.images[i] = d.images.Insert(img)
	}
	return d.swapchains.Insert(entry), nil
}

// DestroySwapchain destroys the swapchain. Its images become stale.
func (d *Device) DestroySwapchain(h gpucore.Swapchain) {
	e, ok := d.swapchains.Remove(h)
	if !ok {
		return
	}
	for _, img := range e.images {
		d.images.Remove(img)
	}
	d.swapchainExt.DestroySwapchain(e.swapchain, nil)
}

func (d *Device) SwapchainImages(h gpucore.Swapchain) ([]gpucore.Image, error) {
	e, err := d.swapchains.MustGet(h)
	if err != nil {
		return nil, err
	}
	return append([]gpucore.Image(nil), e.images...), nil
}

func (d *Device) CreateImageView(h gpucore.Image, desc gpucore.SwapchainDesc) (gpucore.ImageView, error) {
	img, err := d.images.MustGet(h)
	if err != nil {
		return gpucore.ImageView{}, err
	}
	format, ok := toVkFormat(desc.Format)
	if !ok {
		return gpucore.ImageView{}, errors.Wrapf(shaderview.ErrNoCompatibleFormat, "vulkan: image view format %v", desc.Format)
	}
	view, res, err := d.device.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    img,
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask: core1_0.ImageAspectColor,
			LevelCount: 1,
			LayerCount: 1,
		},
	})
	if err := check("create image view", res, err); err != nil {
		return gpucore.ImageView{}, err
	}
	return d.views.Insert(view), nil
}

func (d *Device) DestroyImageView(h gpucore.ImageView) {
	if v, ok := d.views.Remove(h); ok {
		d.device.DestroyImageView(v, nil)
	}
}

func (d *Device) CreateFramebuffer(h gpucore.ImageView, extent gpucore.Extent) (gpucore.Framebuffer, error) {
	view, err := d.views.MustGet(h)
	if err != nil {
		return gpucore.Framebuffer{}, err
	}
	ext := toVkExtent(extent)
	fb, res, err := d.device.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
		RenderPass:  d.renderPass,
		Attachments: []core1_0.ImageView{view},
		Width:       ext.Width,
		Height:      ext.Height,
		Layers:      1,
	})
	if err := check("create framebuffer", res, err); err != nil {
		return gpucore.Framebuffer{}, err
	}
	return d.framebuffers.Insert(framebufferEntry{framebuffer: fb, extent: ext}), nil
}

func (d *Device) DestroyFramebuffer(h gpucore.Framebuffer) {
	if e, ok := d.framebuffers.Remove(h); ok {
		d.device.DestroyFramebuffer(e.framebuffer, nil)
	}
}

// AcquireNextImage acquires the next presentable image. A suboptimal
// swapchain still returns the image together with ErrSuboptimal.
func (d *Device) AcquireNextImage(h gpucore.Swapchain, signal gpucore.Semaphore) (uint32, error) {
	e, err := d.swapchains.MustGet(h)
	if err != nil {
		return 0, err
	}
	sem, err := d.semaphores.MustGet(signal)
	if err != nil {
		return 0, err
	}
	idx, res, err := d.swapchainExt.AcquireNextImage(e.swapchain, common.NoTimeout, &sem, nil)
	if res == khr_swapchain.VKSuboptimal {
		return uint32(idx), errors.Wrap(shaderview.ErrSuboptimal, "vulkan: acquire")
	}
	if err := check("acquire", res, err); err != nil {
		return 0, err
	}
	return uint32(idx), nil
}

func (d *Device) Submit(s gpucore.Submission) error {
	buf, err := d.cmds.MustGet(s.CommandBuffer)
	if err != nil {
		return err
	}
	fence, err := d.fences.MustGet(s.Fence)
	if err != nil {
		return err
	}
	info := core1_0.SubmitInfo{CommandBuffers: []core1_0.CommandBuffer{buf}}
	if s.Wait.IsValid() {
		wait, err := d.semaphores.MustGet(s.Wait)
		if err != nil {
			return err
		}
		info.WaitSemaphores = []core1_0.Semaphore{wait}
		info.WaitDstStageMask = []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput}
	}
	if s.Signal.IsValid() {
		signal, err := d.semaphores.MustGet(s.Signal)
		if err != nil {
			return err
		}
		info.SignalSemaphores = []core1_0.Semaphore{signal}
	}
	res, err := d.device.QueueSubmit(d.graphicsQueue, &fence, info)
	return check("submit", res, err)
}

func (d *Device) Present(p gpucore.Presentation) error {
	e, err := d.swapchains.MustGet(p.Swapchain)
	if err != nil {
		return err
	}
	wait, err := d.semaphores.MustGet(p.Wait)
	if err != nil {
		return err
	}
	res, err := d.swapchainExt.QueuePresent(d.presentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{wait},
		Swapchains:     []khr_swapchain.Swapchain{e.swapchain},
		ImageIndices:   []int{int(p.ImageIndex)},
	})
	return check("present", res, err)
}

// Close waits for the device to go idle and destroys every object it
// still owns, then the device, surface and instance. Objects the caller
// did not release are logged. Close is idempotent.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.device == nil {
		d.destroyInstance()
		return nil
	}

	var first error
	if res, err := d.device.DeviceWaitIdle(); err != nil {
		first = check("wait idle", res, err)
	}

	leaked := d.pipelines.Len() + d.framebuffers.Len() + d.views.Len() +
		d.swapchains.Len() + d.fences.Len() + d.semaphores.Len() + d.cmds.Len()
	if leaked > 0 {
		d.log.Warn("vulkan objects live at close", "count", leaked)
	}
	for h := range d.pipelines.All() {
		d.DestroyPipeline(h)
	}
	for h := range d.framebuffers.All() {
		d.DestroyFramebuffer(h)
	}
	for h := range d.views.All() {
		d.DestroyImageView(h)
	}
	for h := range d.swapchains.All() {
		d.DestroySwapchain(h)
	}
	for h := range d.fences.All() {
		d.DestroyFence(h)
	}
	for h := range d.semaphores.All() {
		d.DestroySemaphore(h)
	}
	for h := range d.cmds.All() {
		d.FreeCommandBuffer(h)
	}

	d.ui.destroy(d.device)
	if d.renderPass.Initialized() {
		d.device.DestroyRenderPass(d.renderPass, nil)
	}
	if d.pool.Initialized() {
		d.device.DestroyCommandPool(d.pool, nil)
	}
	d.device.DestroyDevice(nil)
	d.destroyInstance()
	return first
}

func (d *Device) destroyInstance() {
	if d.messenger.Initialized() {
		d.debug.DestroyDebugUtilsMessenger(d.messenger, nil)
	}
	if d.surface.Initialized() {
		d.surfaceExt.DestroySurface(d.surface, nil)
	}
	if d.instance != nil {
		d.instance.DestroyInstance(nil)
	}
}
