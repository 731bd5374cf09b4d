package scene

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/render"
	"github.com/gogpu/shaderview/ui"
)

var errNoSpec = errors.New("scene: no pipeline configured")

// Kind identifies a scene.
type Kind uint8

// Scenes.
const (
	KindLoading Kind = iota
	KindLoadingCubes
	KindShader
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindLoadingCubes:
		return "loading-cubes"
	case KindShader:
		return "shader"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// BackgroundColor fills the background rectangle of the loading scene.
var BackgroundColor = gputypes.Color{R: 0.27, G: 0.27, B: 0.3, A: 1}

// Frame is what a scene needs to record one frame.
type Frame struct {
	Pass      *render.Pass
	Transform shaderview.Transform
	Time      float32
	Delta     float32

	Background shaderview.BackgroundMode
	Input      *Input
	Camera     *Camera
	Pipelines  *PipelineCache
	Widgets    *ui.Layer
	Animation  *ui.LoadingAnimation
}

// Scene is one of Loading, LoadingCubes or Shader.
type Scene interface {
	Kind() Kind

	// Clear returns the color the frame is cleared to.
	Clear() gputypes.Color

	// Render records the scene into f.Pass, which is recording.
	Render(f *Frame) error

	sealed()
}

// Loading draws the background, the loading animation and the widgets.
type Loading struct{}

// LoadingCubes draws the ray-marched cube field full window, driven by the
// free-fly camera.
type LoadingCubes struct{}

// Shader draws the flat shader inside the stretch viewport.
type Shader struct{}

func (Loading) sealed()      {}
func (LoadingCubes) sealed() {}
func (Shader) sealed()       {}

func (Loading) Kind() Kind      { return KindLoading }
func (LoadingCubes) Kind() Kind { return KindLoadingCubes }
func (Shader) Kind() Kind       { return KindShader }

func (Loading) Clear() gputypes.Color      { return render.ClearBlack }
func (LoadingCubes) Clear() gputypes.Color { return render.ClearTan }
func (Shader) Clear() gputypes.Color       { return render.ClearBlack }

// Render records the background with a full-window viewport, then the
// animation and the widgets in the stretch layout.
func (Loading) Render(f *Frame) error {
	t := &f.Transform
	vp, sc := shaderview.FullWindow(t.Window)
	f.Pass.SetViewport(vp)
	f.Pass.SetScissor(sc)
	bg := shaderview.BackgroundRect(f.Background, t.Window, t.Reference)
	f.Pass.FillRect(bg, BackgroundColor)
	f.Pass.SetScissor(t.Scissor)
	if f.Animation != nil {
		f.Animation.Update(f.Time)
		if err := f.Animation.Draw(f.Pass, t); err != nil {
			return err
		}
	}
	if f.Widgets == nil {
		return f.Pass.Err()
	}
	return f.Widgets.Draw(f.Pass)
}

// Render updates the camera and draws the cube pipeline over the whole
// window. Without a pipeline only the clear color is shown.
func (LoadingCubes) Render(f *Frame) error {
	pl, ok := f.Pipelines.Lookup(KindLoadingCubes)
	if !ok {
		return nil
	}
	f.Camera.Update(f.Input, f.Delta)

	win := f.Transform.Window
	vp, sc := shaderview.FullWindow(win)
	f.Pass.SetViewport(vp)
	f.Pass.SetScissor(sc)
	f.Pass.BindPipeline(pl)
	f.Pass.PushConstants(f.Camera.Push(f.Time, win.Aspect()).Floats()...)
	return f.Pass.Draw(render.FullscreenVertices)
}

// Render draws the shader pipeline with the transform's viewport and
// scissor.
func (Shader) Render(f *Frame) error {
	pl, ok := f.Pipelines.Lookup(KindShader)
	if !ok {
		return nil
	}
	t := &f.Transform
	f.Pass.SetViewport(t.Viewport)
	f.Pass.SetScissor(t.Scissor)
	f.Pass.BindPipeline(pl)
	f.Pass.PushConstants(render.ShaderPush{Time: f.Time, Aspect: t.Aspect()}.Floats()...)
	return f.Pass.Draw(render.FullscreenVertices)
}

func sceneOf(k Kind) Scene {
	switch k {
	case KindLoadingCubes:
		return LoadingCubes{}
	case KindShader:
		return Shader{}
	default:
		return Loading{}
	}
}
