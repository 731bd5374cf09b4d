package scene

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/config"
	"github.com/gogpu/shaderview/render"
	"github.com/gogpu/shaderview/ui"
)

// Widget IDs of the default loading scene.
const (
	IDEnter  = "enter"
	IDLeft   = "left"
	IDColors = "colors"
)

// boxSliders are the RGBA sliders of the loading box color, in channel
// order.
var boxSliders = [4]string{"box_r", "box_g", "box_b", "box_a"}

// Alerter shows a user-visible error message.
type Alerter interface {
	Alert(title, message string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(title, message string)

// Alert calls f.
func (f AlertFunc) Alert(title, message string) { f(title, message) }

// Options configures a Scheduler.
type Options struct {
	Camera     config.Camera
	Background shaderview.BackgroundMode
	Alerter    Alerter
}

// Scheduler owns the active scene, the event queue and the widgets, and
// records one frame at a time. It is used from the render goroutine only.
type Scheduler struct {
	current    Scene
	queue      Queue
	input      Input
	camera     Camera
	pipelines  *PipelineCache
	widgets    *ui.Layer
	overlay    *ui.Layer
	anim       *ui.LoadingAnimation
	alerter    Alerter
	background shaderview.BackgroundMode
	quit       bool
	log        *slog.Logger
}

// NewScheduler returns a scheduler in the Loading scene with the default
// widget tree.
func NewScheduler(pipelines *PipelineCache, opts Options) *Scheduler {
	s := &Scheduler{
		current:    Loading{},
		camera:     NewCamera(opts.Camera),
		pipelines:  pipelines,
		widgets:    ui.NewLayer(),
		overlay:    ui.NewLayer(),
		anim:       ui.NewLoadingAnimation(),
		alerter:    opts.Alerter,
		background: opts.Background,
		log:        shaderview.ComponentLogger("scene"),
	}
	s.buildWidgets()
	return s
}

func (s *Scheduler) buildWidgets() {
	enter := ui.NewButton(IDEnter, shaderview.Rect{W: 160, H: 48}, "Enter")
	enter.SetRelative(0.5, 0.78)
	enter.Z = 25

	left := ui.NewButton(IDLeft, shaderview.Rect{W: 72, H: 72}, "3D")
	left.Shape = ui.ShapeCircle
	left.SetRelative(0.12, 0.5)

	colors := ui.NewButton(IDColors, shaderview.Rect{W: 120, H: 36}, "Colors")
	colors.SetRelative(0.84, 0.07)
	colors.Z = 10
	s.widgets.Add(enter, left, colors)

	labels := [4]string{"R", "G", "B", "A"}
	thumbs := [4]gputypes.Color{
		{R: 1, G: 0.3, B: 0.3, A: 1},
		{R: 0.3, G: 1, B: 0.3, A: 1},
		{R: 0.3, G: 0.3, B: 1, A: 1},
		{R: 0.9, G: 0.9, B: 0.9, A: 1},
	}
	for i, id := range boxSliders {
		sl := ui.NewSlider(id, shaderview.Rect{W: 160, H: 12}, labels[i])
		sl.SetRelative(0.84, 0.16+float32(i)*0.06)
		sl.SetValue(1)
		sl.ThumbColor = thumbs[i]
		sl.Z = 10
		sl.Hidden = true
		s.widgets.Add(sl)
	}
}

// Current returns the active scene.
func (s *Scheduler) Current() Scene { return s.current }

// Widgets returns the loading scene widgets.
func (s *Scheduler) Widgets() *ui.Layer { return s.widgets }

// Overlay returns the layer drawn on top of every scene.
func (s *Scheduler) Overlay() *ui.Layer { return s.overlay }

// Animation returns the loading animation.
func (s *Scheduler) Animation() *ui.LoadingAnimation { return s.anim }

// Camera returns the cube scene camera.
func (s *Scheduler) Camera() *Camera { return &s.camera }

// Input returns the accumulated input state.
func (s *Scheduler) Input() *Input { return &s.input }

// Pipelines returns the pipeline cache.
func (s *Scheduler) Pipelines() *PipelineCache { return s.pipelines }

// QuitRequested reports whether a QuitEvent has been handled.
func (s *Scheduler) QuitRequested() bool { return s.quit }

// Post queues an event for the next Frame.
func (s *Scheduler) Post(e Event) { s.queue.Post(e) }

// Pending returns the number of queued events.
func (s *Scheduler) Pending() int { return s.queue.Len() }

// Frame adopts this frame's transform, drains the event queue and records
// the active scene followed by the overlay into pass.
func (s *Scheduler) Frame(pass *render.Pass, t shaderview.Transform, time, dt float32) error {
	s.widgets.Sync(t)
	s.overlay.Sync(t)
	s.queue.Drain(s.handle)

	pass.Begin(s.current.Clear())
	f := &Frame{
		Pass:       pass,
		Transform:  t,
		Time:       time,
		Delta:      dt,
		Background: s.background,
		Input:      &s.input,
		Camera:     &s.camera,
		Pipelines:  s.pipelines,
		Widgets:    s.widgets,
		Animation:  s.anim,
	}
	if err := s.current.Render(f); err != nil {
		pass.End()
		return fmt.Errorf("scene: render %s: %w", s.current.Kind(), err)
	}
	if err := s.overlay.Draw(pass); err != nil {
		pass.End()
		return fmt.Errorf("scene: overlay: %w", err)
	}
	return pass.End()
}

func (s *Scheduler) handle(e Event) {
	s.input.apply(e)
	switch e := e.(type) {
	case KeyEvent:
		if !e.Down {
			return
		}
		switch {
		case e.Key == KeyEscape && s.current.Kind() != KindLoading:
			s.Enter(KindLoading)
		case e.Key == KeyEnter && s.current.Kind() == KindLoading:
			s.Enter(KindShader)
		}
	case MouseMoveEvent:
		if s.current.Kind() == KindLoading {
			s.postActions(s.widgets.PointerMove(shaderview.Point{X: e.X, Y: e.Y}))
		}
	case MouseButtonEvent:
		if e.Button != MouseLeft || s.current.Kind() != KindLoading {
			return
		}
		p := shaderview.Point{X: e.X, Y: e.Y}
		if e.Down {
			acts, _ := s.widgets.PointerDown(p)
			s.postActions(acts)
		} else {
			s.postActions(s.widgets.PointerUp(p))
		}
	case ButtonClickedEvent:
		s.clicked(e.ID)
	case SliderChangedEvent:
		s.sliderChanged(e.ID, e.Value)
	case ShaderChangedEvent:
		s.shaderChanged(e.Path)
	case ResizeEvent:
		s.log.Debug("scene resize", "width", e.Width, "height", e.Height)
	case QuitEvent:
		s.quit = true
	}
}

func (s *Scheduler) postActions(acts []ui.Action) {
	for _, a := range acts {
		switch a.Kind {
		case ui.ActionClick:
			s.queue.Post(ButtonClickedEvent{ID: a.ID})
		case ui.ActionValueChanged:
			s.queue.Post(SliderChangedEvent{ID: a.ID, Value: a.Value})
		}
	}
}

func (s *Scheduler) clicked(id string) {
	switch id {
	case IDEnter:
		s.Enter(KindShader)
	case IDLeft:
		s.Enter(KindLoadingCubes)
	case IDColors:
		for _, sid := range boxSliders {
			if w, ok := s.widgets.Widget(sid).(*ui.Slider); ok {
				w.Hidden = !w.Hidden
			}
		}
	}
}

func (s *Scheduler) sliderChanged(id string, v float32) {
	c := &s.anim.Color
	switch id {
	case boxSliders[0]:
		c.R = float64(v)
	case boxSliders[1]:
		c.G = float64(v)
	case boxSliders[2]:
		c.B = float64(v)
	case boxSliders[3]:
		c.A = float64(v)
	}
}

func (s *Scheduler) shaderChanged(path string) {
	kinds := s.pipelines.Invalidate(path)
	if len(kinds) == 0 {
		return
	}
	s.log.Info("shader changed", "path", path, "scenes", kinds)
	cur := s.current.Kind()
	for _, k := range kinds {
		if k != cur {
			continue
		}
		if _, err := s.pipelines.Get(k); err != nil {
			s.fail(k, err)
		}
	}
}

// Enter transitions to scene k. Scenes with a pipeline create it on first
// entry; if that fails the scheduler returns to Loading and raises an
// alert. Entering the active scene does nothing.
func (s *Scheduler) Enter(k Kind) {
	from := s.current.Kind()
	if from == k {
		return
	}
	if k != KindLoading {
		if _, err := s.pipelines.Get(k); err != nil {
			s.fail(k, err)
			return
		}
	}
	if k == KindLoadingCubes {
		s.camera.Reset()
		s.input.TakeDelta()
	}
	s.current = sceneOf(k)
	s.log.Info("scene transition", "from", from, "to", k)
}

func (s *Scheduler) fail(k Kind, err error) {
	s.log.Warn("scene pipeline failed, returning to loading", "scene", k, "err", err)
	s.current = Loading{}
	if s.alerter != nil {
		s.alerter.Alert("Pipeline error", fmt.Sprintf("Could not enter the %s scene:\n%v", k, err))
	}
}
