package present

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/gpucore"
)

// ErrNotCreated is returned when the swapchain is used before Create.
var ErrNotCreated = errors.New("present: swapchain not created")

// State is a created swapchain with one image view and one framebuffer per
// presentable image. Handles in a State become stale after the next
// Recreate or Destroy; compare Generation to detect that.
type State struct {
	Swapchain    gpucore.Swapchain
	Desc         gpucore.SwapchainDesc
	Images       []gpucore.Image
	Views        []gpucore.ImageView
	Framebuffers []gpucore.Framebuffer
	Generation   uint64
}

// ImageCount returns the number of presentable images.
func (s *State) ImageCount() int { return len(s.Images) }

// Consistent reports whether image, view and framebuffer counts agree.
func (s *State) Consistent() bool {
	return len(s.Images) == len(s.Views) && len(s.Views) == len(s.Framebuffers)
}

// Framebuffer returns the framebuffer for an acquired image index.
func (s *State) Framebuffer(index uint32) (gpucore.Framebuffer, error) {
	if int(index) >= len(s.Framebuffers) {
		return gpucore.Framebuffer{}, fmt.Errorf("present: image index %d out of range [0,%d)", index, len(s.Framebuffers))
	}
	return s.Framebuffers[index], nil
}

// Lifecycle exclusively owns the swapchain and every object derived from
// it.
type Lifecycle struct {
	dev         gpucore.Device
	presentMode gpucore.PresentMode
	state       *State
	generation  uint64
	listeners   []func(*State)
	log         *slog.Logger
}

// NewLifecycle returns a lifecycle that creates swapchains on dev with the
// preferred present mode. Nothing is created until Create.
func NewLifecycle(dev gpucore.Device, presentMode gpucore.PresentMode) *Lifecycle {
	return &Lifecycle{dev: dev, presentMode: presentMode, log: shaderview.ComponentLogger("present")}
}

// State returns the current swapchain state, or nil before Create.
func (l *Lifecycle) State() *State { return l.state }

// Generation returns a counter incremented on every successful Create.
func (l *Lifecycle) Generation() uint64 { return l.generation }

// OnCreate registers fn to be called with every newly created state,
// including those created by Recreate.
func (l *Lifecycle) OnCreate(fn func(*State)) {
	l.listeners = append(l.listeners, fn)
}

// Create builds the swapchain for the surface at the desired extent.
//
// It fails with ErrNoCompatibleFormat when the surface offers no format,
// with ErrSwapchainOutOfDate when the surface has a zero extent (a minimized
// window), and with ErrSurfaceLost or ErrDeviceLost from the device.
func (l *Lifecycle) Create(desired gpucore.Extent) (*State, error) {
	if l.state != nil {
		return nil, errors.New("present: swapchain already created")
	}
	caps, err := l.dev.SurfaceCapabilities()
	if err != nil {
		return nil, fmt.Errorf("present: surface capabilities: %w", err)
	}
	format, ok := gpucore.ChooseFormat(caps.Formats)
	if !ok {
		return nil, shaderview.ErrNoCompatibleFormat
	}
	extent := gpucore.ChooseExtent(caps, desired)
	if extent.IsZero() {
		return nil, fmt.Errorf("present: zero surface extent: %w", shaderview.ErrSwapchainOutOfDate)
	}
	desc := gpucore.SwapchainDesc{
		Extent:      extent,
		Format:      format,
		PresentMode: gpucore.ChoosePresentMode(caps.PresentModes, l.presentMode),
		ImageCount:  gpucore.ChooseImageCount(caps),
	}

	sc, err := l.dev.CreateSwapchain(desc, gpucore.Swapchain{})
	if err != nil {
		return nil, fmt.Errorf("present: create swapchain: %w", err)
	}
	st := &State{Swapchain: sc, Desc: desc}
	if err := l.populate(st); err != nil {
		l.release(st)
		return nil, err
	}

	l.generation++
	st.Generation = l.generation
	l.state = st
	l.log.Info("swapchain created",
		"width", extent.Width, "height", extent.Height,
		"images", len(st.Images), "mode", desc.PresentMode, "generation", st.Generation)
	for _, fn := range l.listeners {
		fn(st)
	}
	return st, nil
}

func (l *Lifecycle) populate(st *State) error {
	images, err := l.dev.SwapchainImages(st.Swapchain)
	if err != nil {
		return fmt.Errorf("present: swapchain images: %w", err)
	}
	st.Images = images
	st.Views = make([]gpucore.ImageView, 0, len(images))
	st.Framebuffers = make([]gpucore.Framebuffer, 0, len(images))
	for i, img := range images {
		view, err := l.dev.CreateImageView(img, st.Desc)
		if err != nil {
			return fmt.Errorf("present: image view %d: %w", i, err)
		}
		st.Views = append(st.Views, view)

		fb, err := l.dev.CreateFramebuffer(view, st.Desc.Extent)
		if err != nil {
			return fmt.Errorf("present: framebuffer %d: %w", i, err)
		}
		st.Framebuffers = append(st.Framebuffers, fb)
	}
	return nil
}

// release destroys dependents before the swapchain that owns their images.
func (l *Lifecycle) release(st *State) {
	for _, fb := range st.Framebuffers {
		l.dev.DestroyFramebuffer(fb)
	}
	for _, v := range st.Views {
		l.dev.DestroyImageView(v)
	}
	if st.Swapchain.IsValid() {
		l.dev.DestroySwapchain(st.Swapchain)
	}
	st.Framebuffers = nil
	st.Views = nil
	st.Images = nil
}

// Destroy releases the swapchain and its dependents. The caller must ensure
// no submitted work still uses them. Destroy is idempotent.
func (l *Lifecycle) Destroy() {
	if l.state == nil {
		return
	}
	l.release(l.state)
	l.state = nil
}

// Recreate waits for the device to go idle, destroys the current swapchain
// and creates a new one at the given extent. It is safe to call while
// frames are in flight.
func (l *Lifecycle) Recreate(desired gpucore.Extent) (*State, error) {
	if err := l.dev.WaitIdle(); err != nil {
		return nil, fmt.Errorf("present: wait idle: %w", err)
	}
	l.Destroy()
	st, err := l.Create(desired)
	if err != nil {
		return nil, err
	}
	l.log.Info("swapchain recreated", "generation", st.Generation)
	return st, nil
}
