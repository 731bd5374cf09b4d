package sdlwindow

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/gogpu/shaderview/scene"
)

// Sink receives translated events.
type Sink interface {
	Post(scene.Event)
	OnWindowResized(width, height int)
}

// MinimizedWait is how long Poll blocks for the first event while the
// window is minimized.
const MinimizedWait = 100 * time.Millisecond

// Poll drains the SDL event queue into sink. While the window is minimized
// it first waits up to MinimizedWait for an event, so a render loop built
// on Poll sleeps instead of spinning.
func (w *Window) Poll(sink Sink) {
	if w.closed {
		return
	}
	sx, sy := w.pixelScale()
	for e := w.first(); e != nil; e = sdl.PollEvent() {
		if we, ok := e.(*sdl.WindowEvent); ok && we.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			sink.OnWindowResized(w.ClientSize())
			continue
		}
		if ev, ok := translate(e, sx, sy); ok {
			sink.Post(ev)
		}
	}
}

func (w *Window) first() sdl.Event {
	if ms := waitTimeout(w.IsMinimized()); ms > 0 {
		return sdl.WaitEventTimeout(ms)
	}
	return sdl.PollEvent()
}

// waitTimeout returns the milliseconds to wait for the first event, or 0
// to poll without blocking.
func waitTimeout(minimized bool) int {
	if !minimized {
		return 0
	}
	return int(MinimizedWait / time.Millisecond)
}

// translate converts an SDL event. Pointer coordinates are scaled from
// window coordinates to drawable pixels by sx and sy.
func translate(e sdl.Event, sx, sy float32) (scene.Event, bool) {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		return scene.QuitEvent{}, true
	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return nil, false
		}
		k := keyOf(e.Keysym.Sym)
		if k == scene.KeyUnknown {
			return nil, false
		}
		return scene.KeyEvent{Key: k, Down: e.State == sdl.PRESSED}, true
	case *sdl.MouseMotionEvent:
		return scene.MouseMoveEvent{
			X:  float32(e.X) * sx,
			Y:  float32(e.Y) * sy,
			DX: float32(e.XRel) * sx,
			DY: float32(e.YRel) * sy,
		}, true
	case *sdl.MouseButtonEvent:
		b, ok := buttonOf(e.Button)
		if !ok {
			return nil, false
		}
		return scene.MouseButtonEvent{
			Button: b,
			Down:   e.State == sdl.PRESSED,
			X:      float32(e.X) * sx,
			Y:      float32(e.Y) * sy,
		}, true
	}
	return nil, false
}

var keys = map[sdl.Keycode]scene.Key{
	sdl.K_w:      scene.KeyW,
	sdl.K_a:      scene.KeyA,
	sdl.K_s:      scene.KeyS,
	sdl.K_d:      scene.KeyD,
	sdl.K_UP:     scene.KeyUp,
	sdl.K_DOWN:   scene.KeyDown,
	sdl.K_LEFT:   scene.KeyLeft,
	sdl.K_RIGHT:  scene.KeyRight,
	sdl.K_ESCAPE: scene.KeyEscape,
	sdl.K_RETURN: scene.KeyEnter,
}

func keyOf(k sdl.Keycode) scene.Key {
	return keys[k]
}

func buttonOf(b uint8) (scene.MouseButton, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return scene.MouseLeft, true
	case sdl.BUTTON_MIDDLE:
		return scene.MouseMiddle, true
	case sdl.BUTTON_RIGHT:
		return scene.MouseRight, true
	}
	return 0, false
}
