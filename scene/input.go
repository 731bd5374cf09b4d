package scene

import "github.com/gogpu/shaderview"

// Input is the keyboard and mouse state accumulated from events.
type Input struct {
	keys      [keyCount]bool
	mouseDown [MouseRight + 1]bool
	pointer   shaderview.Point
	dx, dy    float32
}

// Pressed reports whether k is held.
func (in *Input) Pressed(k Key) bool {
	return k < keyCount && in.keys[k]
}

// MouseDown reports whether b is held.
func (in *Input) MouseDown(b MouseButton) bool {
	return int(b) < len(in.mouseDown) && in.mouseDown[b]
}

// Pointer returns the last pointer position in window pixels.
func (in *Input) Pointer() shaderview.Point { return in.pointer }

// TakeDelta returns the mouse motion accumulated since the last call and
// resets it.
func (in *Input) TakeDelta() (dx, dy float32) {
	dx, dy = in.dx, in.dy
	in.dx, in.dy = 0, 0
	return dx, dy
}

// Reset releases every key and button and drops accumulated motion.
func (in *Input) Reset() {
	p := in.pointer
	*in = Input{pointer: p}
}

func (in *Input) apply(e Event) {
	switch e := e.(type) {
	case KeyEvent:
		if e.Key < keyCount {
			in.keys[e.Key] = e.Down
		}
	case MouseMoveEvent:
		in.pointer = shaderview.Point{X: e.X, Y: e.Y}
		in.dx += e.DX
		in.dy += e.DY
	case MouseButtonEvent:
		in.pointer = shaderview.Point{X: e.X, Y: e.Y}
		if int(e.Button) < len(in.mouseDown) {
			in.mouseDown[e.Button] = e.Down
		}
	}
}
