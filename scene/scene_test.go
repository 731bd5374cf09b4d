package scene_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/backend"
	"github.com/gogpu/shaderview/backend/null"
	"github.com/gogpu/shaderview/config"
	"github.com/gogpu/shaderview/gpucore"
	"github.com/gogpu/shaderview/render"
	"github.com/gogpu/shaderview/scene"
	"github.com/gogpu/shaderview/shader"
	"github.com/gogpu/shaderview/ui"
)

var errCompile = errors.New("compile failed")

type fakeFactory struct {
	arena   gpucore.Arena[gpucore.PipelineKind, string]
	creates map[string]int
	fail    map[string]error
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{creates: map[string]int{}, fail: map[string]error{}}
}

func (f *fakeFactory) Create(name, vertex, fragment string, _ uint32) (gpucore.Pipeline, error) {
	if err := f.fail[name]; err != nil {
		return gpucore.Pipeline{}, &shaderview.PipelineError{Scene: name, Vertex: vertex, Frag: fragment, Err: err}
	}
	f.creates[name]++
	return f.arena.Insert(name), nil
}

func (f *fakeFactory) Destroy(pl gpucore.Pipeline) { f.arena.Remove(pl) }

type alerts []string

func (a *alerts) Alert(title, message string) { *a = append(*a, title+": "+message) }

func testShaders() config.Shaders {
	return config.Shaders{
		Vertex:        "fullscreen.wgsl",
		Fragment:      "plasma.wgsl",
		CubesFragment: "cubes.wgsl",
	}
}

func newScheduler(t *testing.T, f scene.PipelineFactory) (*scene.Scheduler, *alerts) {
	t.Helper()
	a := &alerts{}
	cache := scene.NewPipelineCache(f, scene.Specs(testShaders()), nil)
	s := scene.NewScheduler(cache, scene.Options{
		Camera:  config.Default().Camera,
		Alerter: a,
	})
	return s, a
}

func fit(w, h float32) shaderview.Transform {
	return shaderview.ComputeTransform(shaderview.StretchFit, shaderview.Sz(w, h), shaderview.DefaultReference())
}

func runFrame(t *testing.T, s *scene.Scheduler, tr shaderview.Transform) *render.Pass {
	t.Helper()
	var p render.Pass
	if err := s.Frame(&p, tr, 1, 0.016); err != nil {
		t.Fatalf("Frame() error = %v", err)
	}
	return &p
}

func TestEnterIdempotent(t *testing.T) {
	f := newFakeFactory()
	s, _ := newScheduler(t, f)

	s.Post(scene.ButtonClickedEvent{ID: scene.IDEnter})
	s.Post(scene.ButtonClickedEvent{ID: scene.IDEnter})
	runFrame(t, s, fit(800, 800))

	if got := s.Current().Kind(); got != scene.KindShader {
		t.Fatalf("Current() = %v, want %v", got, scene.KindShader)
	}
	if !s.Pipelines().Created(scene.KindShader) {
		t.Error("Created(shader) = false")
	}
	if got := s.Pipelines().Builds(scene.KindShader); got != 1 {
		t.Errorf("Builds(shader) = %d, want 1", got)
	}
	if got := f.creates["shader"]; got != 1 {
		t.Errorf("factory creates = %d, want 1", got)
	}
}

func TestEnterFailureRevertsToLoading(t *testing.T) {
	tests := []struct {
		name string
		id   string
		pl   string
	}{
		{"shader", scene.IDEnter, "shader"},
		{"cubes", scene.IDLeft, "cubes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeFactory()
			f.fail[tt.pl] = errCompile
			s, a := newScheduler(t, f)

			s.Post(scene.ButtonClickedEvent{ID: tt.id})
			p := runFrame(t, s, fit(800, 800))

			if got := s.Current().Kind(); got != scene.KindLoading {
				t.Errorf("Current() = %v, want loading", got)
			}
			if p.ClearColor() != render.ClearBlack {
				t.Errorf("ClearColor() = %v, want black", p.ClearColor())
			}
			if len(*a) != 1 || !strings.Contains((*a)[0], "compile failed") {
				t.Errorf("alerts = %q, want one mentioning the failure", *a)
			}
			if s.Pipelines().Created(scene.KindShader) || s.Pipelines().Created(scene.KindLoadingCubes) {
				t.Error("pipeline cached after failure")
			}
		})
	}
}

func TestEscapeReturnsToLoading(t *testing.T) {
	for _, id := range []string{scene.IDEnter, scene.IDLeft} {
		s, _ := newScheduler(t, newFakeFactory())
		s.Post(scene.ButtonClickedEvent{ID: id})
		runFrame(t, s, fit(800, 800))
		if s.Current().Kind() == scene.KindLoading {
			t.Fatalf("click %q did not leave loading", id)
		}
		s.Post(scene.KeyEvent{Key: scene.KeyEscape, Down: true})
		runFrame(t, s, fit(800, 800))
		if got := s.Current().Kind(); got != scene.KindLoading {
			t.Errorf("after Escape Current() = %v, want loading", got)
		}
	}
}

func TestClickThroughWidgets(t *testing.T) {
	s, _ := newScheduler(t, newFakeFactory())
	// Window 1600x800 under Fit: the 800x800 layout sits at x=400 with
	// scale 1, and the enter button is centered at logical (400, 624).
	tr := fit(1600, 800)
	runFrame(t, s, tr)

	s.Post(scene.MouseButtonEvent{Button: scene.MouseLeft, Down: true, X: 800, Y: 624})
	s.Post(scene.MouseButtonEvent{Button: scene.MouseLeft, Down: false, X: 800, Y: 624})
	runFrame(t, s, tr)
	if got := s.Current().Kind(); got != scene.KindShader {
		t.Errorf("Current() = %v, want shader", got)
	}
}

func TestClickInLetterboxMisses(t *testing.T) {
	s, _ := newScheduler(t, newFakeFactory())
	tr := fit(1600, 800)
	s.Post(scene.MouseButtonEvent{Button: scene.MouseLeft, Down: true, X: 400, Y: 624})
	s.Post(scene.MouseButtonEvent{Button: scene.MouseLeft, Down: false, X: 400, Y: 624})
	runFrame(t, s, tr)
	if got := s.Current().Kind(); got != scene.KindLoading {
		t.Errorf("Current() = %v, want loading", got)
	}
}

func TestShaderSceneRespectsStretch(t *testing.T) {
	s, _ := newScheduler(t, newFakeFactory())
	s.Enter(scene.KindShader)
	tr := fit(1280, 720)
	p := runFrame(t, s, tr)

	if p.ClearColor() != render.ClearBlack {
		t.Errorf("ClearColor() = %v, want black", p.ClearColor())
	}
	cmds := p.Commands()
	if want := (shaderview.Viewport{X: 280, Y: 0, W: 720, H: 720, MaxDepth: 1}); cmds[0].Viewport != want {
		t.Errorf("viewport = %+v, want %+v", cmds[0].Viewport, want)
	}
	i := slices.IndexFunc(cmds, func(c render.Command) bool { return c.Op == render.OpPushConstants })
	if got := p.PushData(cmds[i]); !slices.Equal(got, []float32{1, 1}) {
		t.Errorf("push = %v, want [1 1]", got)
	}
	if cmds[i+1].Op != render.OpDraw || cmds[i+1].VertexCount != render.FullscreenVertices {
		t.Errorf("command after push = %+v, want 6-vertex draw", cmds[i+1])
	}
}

func TestCubesSceneFullWindow(t *testing.T) {
	s, _ := newScheduler(t, newFakeFactory())
	s.Enter(scene.KindLoadingCubes)
	p := runFrame(t, s, fit(1280, 720))

	if p.ClearColor() != render.ClearTan {
		t.Errorf("ClearColor() = %v, want tan", p.ClearColor())
	}
	cmds := p.Commands()
	if want := (shaderview.Viewport{W: 1280, H: 720, MaxDepth: 1}); cmds[0].Viewport != want {
		t.Errorf("viewport = %+v, want %+v", cmds[0].Viewport, want)
	}
	i := slices.IndexFunc(cmds, func(c render.Command) bool { return c.Op == render.OpPushConstants })
	push := p.PushData(cmds[i])
	if len(push) != 7 {
		t.Fatalf("push = %v, want 7 floats", push)
	}
	if push[1] != float32(1280)/720 || push[6] != 2.2 {
		t.Errorf("push aspect, z = %v, %v, want %v, 2.2", push[1], push[6], float32(1280)/720)
	}
}

func TestHotReload(t *testing.T) {
	f := newFakeFactory()
	s, a := newScheduler(t, f)
	s.Enter(scene.KindShader)

	s.Post(scene.ShaderChangedEvent{Path: "plasma.wgsl.spv"})
	runFrame(t, s, fit(800, 800))
	if got := s.Pipelines().Builds(scene.KindShader); got != 2 {
		t.Errorf("Builds(shader) = %d after reload, want 2", got)
	}
	if got := f.arena.Len(); got != 1 {
		t.Errorf("live pipelines = %d, want 1", got)
	}

	f.fail["shader"] = errCompile
	s.Post(scene.ShaderChangedEvent{Path: "plasma.wgsl"})
	runFrame(t, s, fit(800, 800))
	if got := s.Current().Kind(); got != scene.KindLoading {
		t.Errorf("Current() = %v after failed reload, want loading", got)
	}
	if len(*a) != 1 {
		t.Errorf("alerts = %d, want 1", len(*a))
	}

	s.Post(scene.ShaderChangedEvent{Path: "unrelated.wgsl"})
	runFrame(t, s, fit(800, 800))
	if len(*a) != 1 {
		t.Errorf("unrelated change raised an alert")
	}
}

func TestLoadingDrawOrder(t *testing.T) {
	s, _ := newScheduler(t, newFakeFactory())
	p := runFrame(t, s, fit(800, 800))

	cmds := p.Commands()
	if cmds[2].Op != render.OpFillRect || cmds[2].Color != scene.BackgroundColor {
		t.Errorf("third command = %+v, want background fill", cmds[2])
	}
	var texts []string
	for _, c := range cmds {
		if c.Op == render.OpText {
			texts = append(texts, c.Text)
		}
	}
	if want := []string{"Enter", "Colors", "3D"}; !slices.Equal(texts, want) {
		t.Errorf("text order = %v, want %v", texts, want)
	}
	if slices.Contains(p.Ops(), render.OpDraw) {
		t.Error("loading scene bound a scene pipeline")
	}
}

func TestBoxColorSliders(t *testing.T) {
	s, _ := newScheduler(t, newFakeFactory())
	s.Post(scene.ButtonClickedEvent{ID: scene.IDColors})
	s.Post(scene.SliderChangedEvent{ID: "box_g", Value: 0.5})
	runFrame(t, s, fit(800, 800))

	sl, ok := s.Widgets().Widget("box_r").(*ui.Slider)
	if !ok {
		t.Fatal("box_r slider missing")
	}
	if sl.Hidden {
		t.Error("sliders hidden after Colors click")
	}
	if got := s.Animation().Color.G; got != 0.5 {
		t.Errorf("box color G = %v, want 0.5", got)
	}
}

func TestQuit(t *testing.T) {
	s, _ := newScheduler(t, newFakeFactory())
	s.Post(scene.QuitEvent{})
	if s.QuitRequested() {
		t.Fatal("QuitRequested() before drain")
	}
	runFrame(t, s, fit(800, 800))
	if !s.QuitRequested() {
		t.Error("QuitRequested() = false")
	}
}

func TestQueueDrain(t *testing.T) {
	var q scene.Queue
	q.Post(scene.KeyEvent{Key: scene.KeyW, Down: true})
	q.Post(scene.QuitEvent{})

	var got []scene.Event
	q.Drain(func(e scene.Event) {
		got = append(got, e)
		if _, ok := e.(scene.KeyEvent); ok {
			q.Post(scene.ResizeEvent{Width: 1, Height: 1})
		}
	})
	want := []scene.Event{
		scene.KeyEvent{Key: scene.KeyW, Down: true},
		scene.QuitEvent{},
		scene.ResizeEvent{Width: 1, Height: 1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Drain() delivered %v, want %v", got, want)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after Drain, want 0", q.Len())
	}
}

func TestSchedulerWithNullDevice(t *testing.T) {
	dev := null.New()
	pipes := backend.NewPipelines(dev, shader.NewLoader(t.TempDir()))
	specs := map[scene.Kind]scene.PipelineSpec{
		scene.KindShader: {
			Name:     "shader",
			Vertex:   "builtin:fullscreen",
			Fragment: "builtin:plasma",
			PushSize: render.ShaderPushSize,
		},
	}
	cache := scene.NewPipelineCache(pipes, specs, nil)
	s := scene.NewScheduler(cache, scene.Options{Camera: config.Default().Camera})

	s.Post(scene.KeyEvent{Key: scene.KeyEnter, Down: true})
	s.Post(scene.ButtonClickedEvent{ID: scene.IDEnter})
	runFrame(t, s, fit(800, 500))

	if got := s.Current().Kind(); got != scene.KindShader {
		t.Fatalf("Current() = %v, want shader", got)
	}
	if got := dev.Stats.PipelinesBuilt; got != 1 {
		t.Errorf("PipelinesBuilt = %d, want 1", got)
	}
	cache.Close()
	if got := dev.LivePipelines(); got != 0 {
		t.Errorf("LivePipelines() = %d after Close, want 0", got)
	}
}

func TestSceneClearColors(t *testing.T) {
	tests := []struct {
		s    scene.Scene
		want gputypes.Color
	}{
		{scene.Loading{}, render.ClearBlack},
		{scene.LoadingCubes{}, render.ClearTan},
		{scene.Shader{}, render.ClearBlack},
	}
	for _, tt := range tests {
		if got := tt.s.Clear(); got != tt.want {
			t.Errorf("%v.Clear() = %v, want %v", tt.s.Kind(), got, tt.want)
		}
	}
}
