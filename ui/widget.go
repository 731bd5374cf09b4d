package ui

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/render"
)

// Shape is the outline of a widget.
type Shape uint8

// Shapes.
const (
	ShapeRect Shape = iota
	ShapeCircle
)

// AlphaThreshold is the minimum mask alpha that counts as a hit.
const AlphaThreshold = 128

// Base holds the state every widget shares.
type Base struct {
	// ID names the widget in actions.
	ID string

	// Bounds is the widget rectangle in logical coordinates.
	Bounds shaderview.Rect

	Z       int
	Hidden  bool
	Shape   Shape
	Color   gputypes.Color
	Rel     *shaderview.Point
	Mask    image.Image
	params  *shaderview.StretchParams
	hovered bool
	noHit   bool
}

// SetRelative positions the widget center at (rx, ry) in [0,1] of the
// layout extent. The position is resolved on every Sync.
func (b *Base) SetRelative(rx, ry float32) {
	b.Rel = &shaderview.Point{X: rx, Y: ry}
}

// UpdateRelativePosition resolves a relative position against extent.
func (b *Base) UpdateRelativePosition(extent shaderview.Size) {
	if b.Rel == nil {
		return
	}
	b.Bounds.X = b.Rel.X*extent.W - b.Bounds.W/2
	b.Bounds.Y = b.Rel.Y*extent.H - b.Bounds.H/2
}

// SetStretchParams stores a copy of p. A nil p selects the transform's own
// mapping.
func (b *Base) SetStretchParams(p *shaderview.StretchParams) {
	if p == nil {
		b.params = nil
		return
	}
	c := *p
	b.params = &c
}

// StretchParams returns the widget's copy of the stretch params, or nil.
func (b *Base) StretchParams() *shaderview.StretchParams { return b.params }

// ScreenRect maps the widget bounds to screen space.
func (b *Base) ScreenRect(t *shaderview.Transform) shaderview.Rect {
	return b.toScreen(t, b.Bounds)
}

func (b *Base) toScreen(t *shaderview.Transform, r shaderview.Rect) shaderview.Rect {
	if b.params != nil {
		return b.params.RectToScreen(r)
	}
	return t.ForwardRect(r)
}

// ToLogical maps a screen point into the widget's logical space.
func (b *Base) ToLogical(t *shaderview.Transform, p shaderview.Point) shaderview.Point {
	if b.params != nil {
		return b.params.ToLogical(p)
	}
	return t.Inverse(p)
}

// textScale returns the factor text sizes are multiplied by on screen.
func (b *Base) textScale(t *shaderview.Transform) float32 {
	if b.params != nil {
		return b.params.ScaleY
	}
	return t.Scale().Y
}

// Contains reports whether a logical point hits the widget shape.
func (b *Base) Contains(p shaderview.Point) bool {
	if b.Hidden || b.noHit || !b.Bounds.Contains(p) {
		return false
	}
	if b.Shape == ShapeCircle {
		c := b.Bounds.Center()
		r := min(b.Bounds.W, b.Bounds.H) / 2
		d := p.Sub(c)
		if d.X*d.X+d.Y*d.Y > r*r {
			return false
		}
	}
	if b.Mask != nil {
		return maskHit(b.Mask, b.Bounds, p)
	}
	return true
}

func maskHit(m image.Image, bounds shaderview.Rect, p shaderview.Point) bool {
	mb := m.Bounds()
	if mb.Empty() {
		return false
	}
	x := mb.Min.X + int((p.X-bounds.X)/bounds.W*float32(mb.Dx()))
	y := mb.Min.Y + int((p.Y-bounds.Y)/bounds.H*float32(mb.Dy()))
	x = min(max(x, mb.Min.X), mb.Max.X-1)
	y = min(max(y, mb.Min.Y), mb.Max.Y-1)
	_, _, _, a := m.At(x, y).RGBA()
	return a>>8 >= AlphaThreshold
}

func (b *Base) fill(pass *render.Pass, t *shaderview.Transform, r shaderview.Rect, c gputypes.Color) error {
	sr := b.toScreen(t, r)
	if b.Shape == ShapeCircle {
		return pass.FillCircle(sr, c)
	}
	return pass.FillRect(sr, c)
}

// Widget is an overlay element.
type Widget interface {
	base() *Base

	// DrawShape records the widget's shapes.
	DrawShape(pass *render.Pass, t *shaderview.Transform) error

	// DrawText records the widget's text.
	DrawText(pass *render.Pass, t *shaderview.Transform) error

	// Press, Drag and Release receive pointer input in logical
	// coordinates. Press is only called when the widget is hit.
	Press(p shaderview.Point) []Action
	Drag(p shaderview.Point) []Action
	Release(p shaderview.Point, inside bool) []Action
}

func (b *Base) base() *Base { return b }

// ActionKind identifies a widget action.
type ActionKind uint8

// Action kinds.
const (
	ActionClick ActionKind = iota
	ActionValueChanged
)

func (k ActionKind) String() string {
	if k == ActionValueChanged {
		return "value-changed"
	}
	return "click"
}

// Action is the result of pointer input on a widget.
type Action struct {
	Kind  ActionKind
	ID    string
	Value float32
}
