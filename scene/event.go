package scene

// Key identifies a keyboard key the scenes react to.
type Key uint8

// Keys.
const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyEnter
	keyCount
)

func (k Key) String() string {
	switch k {
	case KeyW:
		return "W"
	case KeyA:
		return "A"
	case KeyS:
		return "S"
	case KeyD:
		return "D"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyEscape:
		return "Escape"
	case KeyEnter:
		return "Enter"
	default:
		return "Unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

// Mouse buttons.
const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
)

// Event is an input or application event. The set of events is closed.
type Event interface {
	event()
}

// KeyEvent reports a key press or release.
type KeyEvent struct {
	Key  Key
	Down bool
}

// MouseMoveEvent reports the pointer position in window pixels and the
// relative motion since the previous event.
type MouseMoveEvent struct {
	X, Y   float32
	DX, DY float32
}

// MouseButtonEvent reports a button press or release at a window position.
type MouseButtonEvent struct {
	Button MouseButton
	Down   bool
	X, Y   float32
}

// ButtonClickedEvent reports a click on the widget with the given ID.
type ButtonClickedEvent struct {
	ID string
}

// SliderChangedEvent reports a new normalized slider value.
type SliderChangedEvent struct {
	ID    string
	Value float32
}

// ShaderChangedEvent reports that a shader file changed on disk.
type ShaderChangedEvent struct {
	Path string
}

// ResizeEvent reports a new window client size.
type ResizeEvent struct {
	Width, Height int
}

// QuitEvent requests application exit.
type QuitEvent struct{}

func (KeyEvent) event()           {}
func (MouseMoveEvent) event()     {}
func (MouseButtonEvent) event()   {}
func (ButtonClickedEvent) event() {}
func (SliderChangedEvent) event() {}
func (ShaderChangedEvent) event() {}
func (ResizeEvent) event()        {}
func (QuitEvent) event()          {}

// Queue is a FIFO of events. Events posted while draining are delivered in
// the same drain.
type Queue struct {
	events []Event
	head   int
}

// Post appends an event.
func (q *Queue) Post(e Event) {
	q.events = append(q.events, e)
}

// Len returns the number of pending events.
func (q *Queue) Len() int { return len(q.events) - q.head }

// Drain calls fn for every pending event in order, including events fn
// posts, and leaves the queue empty.
func (q *Queue) Drain(fn func(Event)) {
	for q.head < len(q.events) {
		e := q.events[q.head]
		q.events[q.head] = nil
		q.head++
		fn(e)
	}
	q.events = q.events[:0]
	q.head = 0
}
