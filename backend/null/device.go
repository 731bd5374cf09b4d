package null

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/backend"
	"github.com/gogpu/shaderview/gpucore"
	"github.com/gogpu/shaderview/render"
)

func init() {
	backend.Register(backend.BackendNull, func() backend.RenderBackend { return Backend{} })
}

// Backend opens null devices.
type Backend struct{}

// Name returns "null".
func (Backend) Name() string { return backend.BackendNull }

// Open returns a device whose surface follows target's client size.
func (Backend) Open(target backend.Target, _ backend.Options) (backend.Device, error) {
	return New(WithTarget(target)), nil
}

// Option configures a Device.
type Option func(*Device)

// WithTarget makes the surface extent follow the target's client size.
func WithTarget(t backend.Target) Option {
	return func(d *Device) { d.target = t }
}

// WithExtent sets a fixed surface extent.
func WithExtent(w, h uint32) Option {
	return func(d *Device) { d.surface.CurrentExtent = gpucore.Extent{Width: w, Height: h} }
}

// WithRayTracing sets the ray tracing capability.
func WithRayTracing(on bool) Option {
	return func(d *Device) { d.caps.RayTracing = on }
}

// WithFormats sets the surface formats.
func WithFormats(formats ...gputypes.TextureFormat) Option {
	return func(d *Device) { d.surface.Formats = formats }
}

// WithPresentModes sets the surface present modes.
func WithPresentModes(modes ...gpucore.PresentMode) Option {
	return func(d *Device) { d.surface.PresentModes = modes }
}

// Stats counts device calls.
type Stats struct {
	Acquires       int
	Submits        int
	Presents       int
	FenceWaits     int
	WaitIdles      int
	Encodes        int
	Swapchains     int
	PipelinesBuilt int
}

type semaphore struct {
	signaled bool
}

type fence struct {
	signaled bool
	// waited is set by WaitFence and cleared by Submit.
	waited bool
}

type swapchain struct {
	desc   gpucore.SwapchainDesc
	images []gpucore.Image
	next   uint32
}

type encoded struct {
	framebuffer gpucore.Framebuffer
	clear       gputypes.Color
	commands    []render.Command
	push        [][]float32
}

// Device is a headless gpucore.Device, render.Encoder and pipeline factory.
// It is not safe for concurrent use.
type Device struct {
	caps    gpucore.Capabilities
	surface gpucore.SurfaceCapabilities
	target  backend.Target

	semaphores   gpucore.Arena[gpucore.SemaphoreKind, semaphore]
	fences       gpucore.Arena[gpucore.FenceKind, fence]
	cmds         gpucore.Arena[gpucore.CommandBufferKind, encoded]
	swapchains   gpucore.Arena[gpucore.SwapchainKind, swapchain]
	images       gpucore.Arena[gpucore.ImageKind, gpucore.Swapchain]
	views        gpucore.Arena[gpucore.ImageViewKind, gpucore.Image]
	framebuffers gpucore.Arena[gpucore.FramebufferKind, gpucore.Extent]
	pipelines    gpucore.Arena[gpucore.PipelineKind, backend.PipelineDesc]

	// AcquireErrs and PresentErrs are consumed one per call; a nil entry
	// means success. ErrSuboptimal from acquire still returns an image
	// and signals the semaphore.
	AcquireErrs []error
	PresentErrs []error

	// EncodeErrs and ResetFenceErrs are consumed the same way. A scripted
	// failure leaves the command buffer or fence untouched.
	EncodeErrs     []error
	ResetFenceErrs []error

	// SubmitErr, when set, is returned by every Submit.
	SubmitErr error

	// PipelineErr, when set, decides whether CreatePipeline fails.
	PipelineErr func(backend.PipelineDesc) error

	Stats Stats

	fenceWaits map[gpucore.Fence]int
	last       encoded
	violations []string
	closed     bool
}

var _ backend.Device = (*Device)(nil)

// New returns a device with an 800x500 BGRA8 surface offering FIFO and
// mailbox presentation.
func New(opts ...Option) *Device {
	d := &Device{
		caps: gpucore.Capabilities{
			DeviceName:           "null",
			MaxPushConstantsSize: 128,
		},
		surface: gpucore.SurfaceCapabilities{
			MinImageCount: 2,
			MaxImageCount: 4,
			CurrentExtent: gpucore.Extent{Width: 800, Height: 500},
			MinExtent:     gpucore.Extent{Width: 1, Height: 1},
			MaxExtent:     gpucore.Extent{Width: 16384, Height: 16384},
			Formats:       []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm},
			PresentModes:  []gpucore.PresentMode{gpucore.PresentModeFifo, gpucore.PresentModeMailbox},
		},
		fenceWaits: make(map[gpucore.Fence]int),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) violate(format string, args ...any) {
	v := fmt.Sprintf(format, args...)
	d.violations = append(d.violations, v)
	shaderview.Logger().Warn("null device violation", "violation", v)
}

// Violations returns the recorded misuse, in order.
func (d *Device) Violations() []string { return slices.Clone(d.violations) }

// FenceWaits returns how many times f was waited on.
func (d *Device) FenceWaits(f gpucore.Fence) int { return d.fenceWaits[f] }

// Live returns the number of live objects of every kind.
func (d *Device) Live() int {
	return d.semaphores.Len() + d.fences.Len() + d.cmds.Len() + d.swapchains.Len() +
		d.views.Len() + d.framebuffers.Len() + d.pipelines.Len()
}

// LiveFramebuffers returns the number of live framebuffers.
func (d *Device) LiveFramebuffers() int { return d.framebuffers.Len() }

// LivePipelines returns the number of live pipelines.
func (d *Device) LivePipelines() int { return d.pipelines.Len() }

// LastClear returns the clear color of the most recently encoded pass.
func (d *Device) LastClear() gputypes.Color { return d.last.clear }

// LastCommands returns the commands of the most recently encoded pass.
func (d *Device) LastCommands() []render.Command { return d.last.commands }

// LastOps returns the opcodes of the most recently encoded pass.
func (d *Device) LastOps() []render.Op {
	ops := make([]render.Op, len(d.last.commands))
	for i, c := range d.last.commands {
		ops[i] = c.Op
	}
	return ops
}

// LastPush returns the push-constant blocks of the most recently encoded
// pass, in order.
func (d *Device) LastPush() [][]float32 { return d.last.push }

// Pipeline returns the description a live pipeline was created with.
func (d *Device) Pipeline(p gpucore.Pipeline) (backend.PipelineDesc, bool) {
	return d.pipelines.Get(p)
}

// Capabilities reports device features.
func (d *Device) Capabilities() gpucore.Capabilities { return d.caps }

// WaitIdle returns immediately; all work is already complete.
func (d *Device) WaitIdle() error {
	d.Stats.WaitIdles++
	if d.closed {
		return backend.ErrClosed
	}
	return nil
}

func (d *Device) CreateSemaphore() (gpucore.Semaphore, error) {
	return d.semaphores.Insert(semaphore{}), nil
}

func (d *Device) DestroySemaphore(s gpucore.Semaphore) {
	if _, ok := d.semaphores.Remove(s); !ok {
		d.violate("destroy of unknown semaphore %v", s)
	}
}

func (d *Device) CreateFence(signaled bool) (gpucore.Fence, error) {
	return d.fences.Insert(fence{signaled: signaled}), nil
}

func (d *Device) DestroyFence(f gpucore.Fence) {
	if _, ok := d.fences.Remove(f); !ok {
		d.violate("destroy of unknown fence %v", f)
	}
	delete(d.fenceWaits, f)
}

// WaitFence checks that the fence will ever signal and that it has not
// already been waited on since its last submit.
func (d *Device) WaitFence(f gpucore.Fence) error {
	fc, err := d.fences.MustGet(f)
	if err != nil {
		return err
	}
	d.Stats.FenceWaits++
	d.fenceWaits[f]++
	if !fc.signaled {
		d.violate("wait on fence %v that was never submitted", f)
		return fmt.Errorf("null: fence %v would block forever", f)
	}
	if fc.waited {
		d.violate("fence %v waited twice without a submit", f)
	}
	fc.waited = true
	d.fences.Set(f, fc)
	return nil
}

func (d *Device) ResetFence(f gpucore.Fence) error {
	fc, err := d.fences.MustGet(f)
	if err != nil {
		return err
	}
	if err := popErr(&d.ResetFenceErrs); err != nil {
		return err
	}
	if fc.signaled && !fc.waited {
		d.violate("reset of fence %v before waiting on it", f)
	}
	fc.signaled = false
	d.fences.Set(f, fc)
	return nil
}

func (d *Device) AllocateCommandBuffer() (gpucore.CommandBuffer, error) {
	return d.cmds.Insert(encoded{}), nil
}

func (d *Device) FreeCommandBuffer(c gpucore.CommandBuffer) {
	if _, ok := d.cmds.Remove(c); !ok {
		d.violate("free of unknown command buffer %v", c)
	}
}

// SurfaceCapabilities reports the surface. With a target, the current
// extent is the target's client size.
func (d *Device) SurfaceCapabilities() (gpucore.SurfaceCapabilities, error) {
	if d.closed {
		return gpucore.SurfaceCapabilities{}, shaderview.ErrSurfaceLost
	}
	caps := d.surface
	if d.target != nil {
		w, h := d.target.ClientSize()
		caps.CurrentExtent = gpucore.Extent{Width: uint32(max(w, 0)), Height: uint32(max(h, 0))}
	}
	return caps, nil
}

func (d *Device) CreateSwapchain(desc gpucore.SwapchainDesc, old gpucore.Swapchain) (gpucore.Swapchain, error) {
	if desc.Extent.IsZero() {
		return gpucore.Swapchain{}, fmt.Errorf("null: zero swapchain extent: %w", shaderview.ErrSwapchainOutOfDate)
	}
	if old.IsValid() && !d.swapchains.Contains(old) {
		d.violate("old swapchain %v is not live", old)
	}
	sc := d.swapchains.Insert(swapchain{desc: desc})
	images := make([]gpucore.Image, desc.ImageCount)
	for i := range images {
		images[i] = d.images.Insert(sc)
	}
	d.swapchains.Set(sc, swapchain{desc: desc, images: images})
	d.Stats.Swapchains++
	return sc, nil
}

func (d *Device) DestroySwapchain(sc gpucore.Swapchain) {
	s, ok := d.swapchains.Remove(sc)
	if !ok {
		d.violate("destroy of unknown swapchain %v", sc)
		return
	}
	for _, img := range s.images {
		d.images.Remove(img)
	}
}

func (d *Device) SwapchainImages(sc gpucore.Swapchain) ([]gpucore.Image, error) {
	s, err := d.swapchains.MustGet(sc)
	if err != nil {
		return nil, err
	}
	return slices.Clone(s.images), nil
}

func (d *Device) CreateImageView(img gpucore.Image, _ gpucore.SwapchainDesc) (gpucore.ImageView, error) {
	if _, err := d.images.MustGet(img); err != nil {
		return gpucore.ImageView{}, err
	}
	return d.views.Insert(img), nil
}

func (d *Device) DestroyImageView(v gpucore.ImageView) {
	if _, ok := d.views.Remove(v); !ok {
		d.violate("destroy of unknown image view %v", v)
	}
}

func (d *Device) CreateFramebuffer(v gpucore.ImageView, extent gpucore.Extent) (gpucore.Framebuffer, error) {
	if _, err := d.views.MustGet(v); err != nil {
		return gpucore.Framebuffer{}, err
	}
	return d.framebuffers.Insert(extent), nil
}

func (d *Device) DestroyFramebuffer(fb gpucore.Framebuffer) {
	if _, ok := d.framebuffers.Remove(fb); !ok {
		d.violate("destroy of unknown framebuffer %v", fb)
	}
}

func popErr(q *[]error) error {
	if len(*q) == 0 {
		return nil
	}
	err := (*q)[0]
	*q = (*q)[1:]
	return err
}

// AcquireNextImage hands out images round-robin.
func (d *Device) AcquireNextImage(sc gpucore.Swapchain, signal gpucore.Semaphore) (uint32, error) {
	s, err := d.swapchains.MustGet(sc)
	if err != nil {
		return 0, err
	}
	sem, err := d.semaphores.MustGet(signal)
	if err != nil {
		return 0, err
	}
	d.Stats.Acquires++
	scripted := popErr(&d.AcquireErrs)
	if scripted != nil && !errors.Is(scripted, shaderview.ErrSuboptimal) {
		return 0, scripted
	}
	if sem.signaled {
		d.violate("acquire into semaphore %v that is still signaled", signal)
	}
	d.semaphores.Set(signal, semaphore{signaled: true})
	idx := s.next
	s.next = (s.next + 1) % uint32(len(s.images))
	d.swapchains.Set(sc, s)
	return idx, scripted
}

// Encode stores a copy of the finished pass in the command buffer.
func (d *Device) Encode(cmd gpucore.CommandBuffer, fb gpucore.Framebuffer, pass *render.Pass) error {
	if !d.cmds.Contains(cmd) {
		return fmt.Errorf("null: encode: %w: %v", gpucore.ErrStaleHandle, cmd)
	}
	if !d.framebuffers.Contains(fb) {
		return fmt.Errorf("null: encode: %w: %v", gpucore.ErrStaleHandle, fb)
	}
	if pass.State() != render.PassStateEnded {
		return fmt.Errorf("null: encode pass in state %v", pass.State())
	}
	if err := popErr(&d.EncodeErrs); err != nil {
		return err
	}
	e := encoded{
		framebuffer: fb,
		clear:       pass.ClearColor(),
		commands:    slices.Clone(pass.Commands()),
	}
	for _, c := range e.commands {
		switch c.Op {
		case render.OpBindPipeline:
			if !d.pipelines.Contains(c.Pipeline) {
				return fmt.Errorf("null: encode: %w: pipeline %v", gpucore.ErrStaleHandle, c.Pipeline)
			}
		case render.OpPushConstants:
			e.push = append(e.push, slices.Clone(pass.PushData(c)))
		}
	}
	d.cmds.Set(cmd, e)
	d.Stats.Encodes++
	return nil
}

// Submit completes the work immediately.
func (d *Device) Submit(s gpucore.Submission) error {
	if d.SubmitErr != nil {
		return d.SubmitErr
	}
	e, err := d.cmds.MustGet(s.CommandBuffer)
	if err != nil {
		return err
	}
	fc, err := d.fences.MustGet(s.Fence)
	if err != nil {
		return err
	}
	if fc.signaled {
		d.violate("submit with fence %v still signaled", s.Fence)
	}
	if s.Wait.IsValid() {
		sem, err := d.semaphores.MustGet(s.Wait)
		if err != nil {
			return err
		}
		if !sem.signaled {
			d.violate("submit waits on semaphore %v that is never signaled", s.Wait)
		}
		d.semaphores.Set(s.Wait, semaphore{})
	}
	if s.Signal.IsValid() {
		if !d.semaphores.Set(s.Signal, semaphore{signaled: true}) {
			return fmt.Errorf("null: submit: %w: %v", gpucore.ErrStaleHandle, s.Signal)
		}
	}
	d.fences.Set(s.Fence, fence{signaled: true})
	d.last = e
	d.Stats.Submits++
	return nil
}

// Present consumes the wait semaphore and returns the next scripted result.
func (d *Device) Present(p gpucore.Presentation) error {
	if !d.swapchains.Contains(p.Swapchain) {
		return fmt.Errorf("null: present: %w: %v", gpucore.ErrStaleHandle, p.Swapchain)
	}
	sem, err := d.semaphores.MustGet(p.Wait)
	if err != nil {
		return err
	}
	if !sem.signaled {
		d.violate("present waits on semaphore %v that is never signaled", p.Wait)
	}
	d.semaphores.Set(p.Wait, semaphore{})
	d.Stats.Presents++
	return popErr(&d.PresentErrs)
}

// CreatePipeline records the description.
func (d *Device) CreatePipeline(desc backend.PipelineDesc) (gpucore.Pipeline, error) {
	if d.PipelineErr != nil {
		if err := d.PipelineErr(desc); err != nil {
			return gpucore.Pipeline{}, err
		}
	}
	if len(desc.Vertex.Words) == 0 || len(desc.Fragment.Words) == 0 {
		return gpucore.Pipeline{}, errors.New("null: pipeline without shader code")
	}
	if desc.PushConstantSize > d.caps.MaxPushConstantsSize {
		return gpucore.Pipeline{}, fmt.Errorf("null: push constants %d > %d bytes",
			desc.PushConstantSize, d.caps.MaxPushConstantsSize)
	}
	d.Stats.PipelinesBuilt++
	return d.pipelines.Insert(desc), nil
}

func (d *Device) DestroyPipeline(p gpucore.Pipeline) {
	if _, ok := d.pipelines.Remove(p); !ok {
		d.violate("destroy of unknown pipeline %v", p)
	}
}

// Close marks the device closed. Objects still live are reported as a
// violation.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if n := d.Live(); n > 0 {
		d.violate("%d objects live at close", n)
	}
	return nil
}
