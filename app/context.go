package app

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/backend"
	"github.com/gogpu/shaderview/config"
	"github.com/gogpu/shaderview/gpucore"
	"github.com/gogpu/shaderview/present"
	"github.com/gogpu/shaderview/render"
	"github.com/gogpu/shaderview/scene"
	"github.com/gogpu/shaderview/shader"
	"github.com/gogpu/shaderview/ui"
)

// Window is the window a RenderContext presents to.
type Window interface {
	backend.Target

	// IsMinimized reports whether the window is iconified.
	IsMinimized() bool
}

// RenderContext owns everything needed to render frames into one window.
// It is not safe for concurrent use; all methods must be called from the
// goroutine that created it.
type RenderContext struct {
	cfg    config.Config
	window Window
	dev    backend.Device

	lifecycle *present.Lifecycle
	pacer     *present.Pacer
	pipelines *backend.Pipelines
	cache     *scene.PipelineCache
	sched     *scene.Scheduler
	pass      render.Pass

	policy    shaderview.StretchPolicy
	reference shaderview.Size

	clock   Clock
	last    time.Duration
	fps     *FPSMonitor
	fpsText *ui.Label
	watcher *shader.Watcher
	alerter scene.Alerter

	needsRecreate bool
	refFallback   bool
	lost          bool
	quit          bool
	closed        bool
	log           *slog.Logger
}

// New opens a device for window and prepares the presentation chain and
// the scene scheduler. cfg is validated first.
func New(window Window, cfg config.Config, opts ...Option) (*RenderContext, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.apply()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dev := o.device
	if dev == nil {
		name := cfg.Present.Backend
		if o.backend != "" {
			name = o.backend
		}
		var err error
		dev, err = backend.Open(name, window, backend.Options{
			AppName:    cfg.Window.Title,
			Validation: cfg.Present.Validation,
			ShaderDir:  cfg.Shaders.Dir,
			UIShader:   cfg.Shaders.UI,
		})
		if err != nil {
			return nil, err
		}
	}

	r := &RenderContext{
		cfg:       cfg,
		window:    window,
		dev:       dev,
		lifecycle: present.NewLifecycle(dev, cfg.Present.PresentMode()),
		policy:    cfg.Stretch.StretchPolicy(),
		reference: cfg.Stretch.Reference(),
		clock:     o.clock,
		alerter:   o.alerter,
		log:       shaderview.ComponentLogger("app"),
	}

	pacer, err := present.NewPacer(dev, r.lifecycle, cfg.Present.FramesInFlight)
	if err != nil {
		dev.Close()
		return nil, err
	}
	r.pacer = pacer

	loader := shader.NewLoader(cfg.Shaders.Dir)
	r.pipelines = backend.NewPipelines(dev, loader)
	r.cache = scene.NewPipelineCache(r.pipelines, scene.Specs(cfg.Shaders), func(p string) string {
		abs, err := filepath.Abs(loader.Resolve(p))
		if err != nil {
			return p
		}
		return abs
	})
	r.sched = scene.NewScheduler(r.cache, scene.Options{
		Camera:     cfg.Camera,
		Background: cfg.Stretch.BackgroundMode(),
		Alerter:    scene.AlertFunc(r.alert),
	})

	if cfg.Overlay.ShowFPS {
		r.fps = NewFPSMonitor(cfg.Overlay.Interval())
		r.fpsText = ui.NewLabel("fps", shaderview.Pt(10, 10), r.fps.Label())
		r.fpsText.Color = ui.Yellow
		r.fpsText.Fixed = true
		r.sched.Overlay().Add(r.fpsText)
	}
	if cfg.Shaders.Watch {
		r.watch(loader)
	}

	w, h := window.ClientSize()
	if window.IsMinimized() || w <= 0 || h <= 0 {
		r.needsRecreate = true
	} else if _, err := r.lifecycle.Create(extentOf(w, h)); err != nil {
		r.Close()
		return nil, err
	}
	r.last = r.clock.Now()

	r.log.Info("render context ready",
		"device", dev.Capabilities().DeviceName,
		"stretch", r.policy,
		"reference", fmt.Sprintf("%gx%g", r.reference.W, r.reference.H),
		"ray_tracing", dev.Capabilities().RayTracing)
	return r, nil
}

func (r *RenderContext) watch(loader *shader.Loader) {
	w, err := shader.NewWatcher()
	if err != nil {
		r.log.Warn("shader watching disabled", "err", err)
		return
	}
	s := r.cfg.Shaders
	for _, p := range []string{s.Vertex, s.Fragment, s.CubesFragment} {
		if err := w.Add(loader.Resolve(p)); err != nil {
			r.log.Warn("cannot watch shader", "path", p, "err", err)
		}
	}
	r.watcher = w
}

func extentOf(w, h int) gpucore.Extent {
	return gpucore.Extent{Width: uint32(max(w, 0)), Height: uint32(max(h, 0))}
}

func (r *RenderContext) alert(title, message string) {
	if r.alerter != nil {
		r.alerter.Alert(title, message)
	}
}

// Scheduler returns the scene scheduler.
func (r *RenderContext) Scheduler() *scene.Scheduler { return r.sched }

// Device returns the device.
func (r *RenderContext) Device() backend.Device { return r.dev }

// Lifecycle returns the swapchain lifecycle.
func (r *RenderContext) Lifecycle() *present.Lifecycle { return r.lifecycle }

// Pacer returns the frame pacer.
func (r *RenderContext) Pacer() *present.Pacer { return r.pacer }

// Post queues an event for the next frame.
func (r *RenderContext) Post(e scene.Event) {
	if _, ok := e.(scene.QuitEvent); ok {
		r.quit = true
	}
	r.sched.Post(e)
}

// OnWindowResized schedules a swapchain recreate for the new client size.
func (r *RenderContext) OnWindowResized(width, height int) {
	r.needsRecreate = true
	r.sched.Post(scene.ResizeEvent{Width: width, Height: height})
	r.log.Debug("window resized", "width", width, "height", height)
}

// Transform computes the stretch transform for the current client size.
func (r *RenderContext) Transform() shaderview.Transform {
	w, h := r.window.ClientSize()
	return shaderview.ComputeTransform(r.policy, shaderview.Sz(float32(w), float32(h)), r.reference)
}

// ActiveStretchParams returns the stretch params for the current client
// size. The second result is false unless the policy is StretchScaled.
func (r *RenderContext) ActiveStretchParams() (shaderview.StretchParams, bool) {
	t := r.Transform()
	if t.Params == nil {
		return shaderview.StretchParams{}, false
	}
	return *t.Params, true
}

// SetStretchPolicy changes the stretch policy from the next frame on.
func (r *RenderContext) SetStretchPolicy(p shaderview.StretchPolicy) {
	r.policy = p
}

// SetReference changes the reference size from the next frame on. An
// unusable size falls back to the default reference when the transform is
// computed.
func (r *RenderContext) SetReference(s shaderview.Size) {
	r.reference = s
}

// IsRayTracingAvailable reports whether the device supports ray-tracing
// pipelines.
func (r *RenderContext) IsRayTracingAvailable() bool {
	return r.dev.Capabilities().RayTracing
}

// Tick renders one frame with times read from the clock and reports whether
// the application should exit.
func (r *RenderContext) Tick() bool {
	now := r.clock.Now()
	dt := now - r.last
	r.last = now
	return r.RenderFrame(float32(now.Seconds()), float32(dt.Seconds()))
}

// RenderFrame renders one frame at time seconds, dt seconds after the
// previous one, and reports whether the application should exit.
//
// Swapchain staleness is handled here: the frame is skipped and the
// swapchain is recreated. Only device loss or a quit request return true.
func (r *RenderContext) RenderFrame(time, dt float32) bool {
	if r.closed || r.lost {
		return true
	}
	r.pumpWatcher()

	w, h := r.window.ClientSize()
	if r.window.IsMinimized() || w <= 0 || h <= 0 {
		r.needsRecreate = true
		return r.exitRequested()
	}
	if r.needsRecreate || r.lifecycle.State() == nil {
		if err := r.recreate(w, h); err != nil {
			return r.fail(err)
		}
	}

	frame, err := r.pacer.BeginFrame()
	if err != nil {
		return r.fail(err)
	}

	if r.fps != nil && r.fps.Frame(durationOf(time)) {
		r.fpsText.SetText(r.fps.Label())
	}

	window := shaderview.Sz(float32(frame.Extent.Width), float32(frame.Extent.Height))
	t := shaderview.ComputeTransform(r.policy, window, r.reference)
	if t.ReferenceFallback != r.refFallback {
		r.refFallback = t.ReferenceFallback
		if t.ReferenceFallback {
			r.log.Warn("invalid reference size, using default",
				"width", r.reference.W, "height", r.reference.H)
		}
	}
	if err := r.sched.Frame(&r.pass, t, time, dt); err != nil {
		r.log.Error("frame recording failed", "err", err)
		r.pass.Begin(render.ClearBlack)
		r.pass.End()
	}
	if err := r.dev.Encode(frame.CommandBuffer, frame.Framebuffer, &r.pass); err != nil {
		if aerr := r.pacer.AbortFrame(frame); aerr != nil {
			r.log.Warn("abort frame", "err", aerr)
		}
		return r.fail(fmt.Errorf("app: encode: %w", err))
	}
	if err := r.pacer.SubmitAndPresent(frame); err != nil {
		return r.fail(err)
	}
	return r.exitRequested()
}

func durationOf(seconds float32) time.Duration {
	return time.Duration(float64(seconds) * float64(time.Second))
}

func (r *RenderContext) recreate(w, h int) error {
	var err error
	if r.lifecycle.State() == nil {
		_, err = r.lifecycle.Create(extentOf(w, h))
	} else {
		_, err = r.lifecycle.Recreate(extentOf(w, h))
	}
	if err != nil {
		return err
	}
	r.needsRecreate = false
	return nil
}

// fail classifies a frame error. Staleness schedules a recreate, device
// loss alerts and requests exit, anything else is logged and the frame is
// dropped.
func (r *RenderContext) fail(err error) bool {
	switch {
	case errors.Is(err, present.ErrRetry) || shaderview.IsRecoverable(err):
		r.needsRecreate = true
		r.log.Debug("frame skipped, swapchain will be recreated", "err", err)
	case shaderview.IsFatal(err):
		r.lost = true
		r.log.Error("device lost", "err", err)
		r.alert("Device lost", err.Error())
	default:
		r.log.Error("frame failed", "err", err)
	}
	return r.exitRequested()
}

func (r *RenderContext) exitRequested() bool {
	return r.lost || r.quit || r.sched.QuitRequested()
}

func (r *RenderContext) pumpWatcher() {
	if r.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-r.watcher.Events():
			if !ok {
				r.watcher = nil
				return
			}
			r.sched.Post(scene.ShaderChangedEvent{Path: path})
		default:
			return
		}
	}
}

// Close waits for in-flight frames and releases every GPU object before
// closing the device. Close is idempotent.
func (r *RenderContext) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var errs []error
	if r.watcher != nil {
		errs = append(errs, r.watcher.Close())
	}
	errs = append(errs, r.pacer.Close())
	r.cache.Close()
	r.lifecycle.Destroy()
	errs = append(errs, r.dev.Close())
	return errors.Join(errs...)
}
