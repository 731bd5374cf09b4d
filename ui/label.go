package ui

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/render"
)

// Label is static text. It has no shape and is never hit.
type Label struct {
	Base

	Text     string
	TextSize float32

	// Fixed places Bounds in screen pixels relative to the viewport origin
	// and draws the text at its unscaled size.
	Fixed bool
}

// NewLabel returns a label with its top-left corner at p.
func NewLabel(id string, p shaderview.Point, text string) *Label {
	l := &Label{
		Base: Base{
			ID:    id,
			Color: gputypes.Color{R: 1, G: 1, B: 1, A: 1},
			noHit: true,
		},
		Text:     text,
		TextSize: DefaultTextSize,
	}
	l.Bounds = shaderview.Rect{X: p.X, Y: p.Y}
	l.fit()
	return l
}

// SetText replaces the text and resizes the bounds to fit it.
func (l *Label) SetText(s string) {
	l.Text = s
	l.fit()
}

func (l *Label) fit() {
	sz := MeasureText(l.Text, l.TextSize)
	l.Bounds.W, l.Bounds.H = sz.W, sz.H
}

// DrawShape draws nothing.
func (l *Label) DrawShape(*render.Pass, *shaderview.Transform) error { return nil }

// DrawText records the text.
func (l *Label) DrawText(pass *render.Pass, t *shaderview.Transform) error {
	if l.Text == "" {
		return nil
	}
	if l.Fixed {
		return pass.Text(t.Offset().Add(l.Bounds.Min()), l.Text, l.TextSize, l.Color)
	}
	o := l.toScreen(t, l.Bounds).Min()
	return pass.Text(o, l.Text, l.TextSize*l.textScale(t), l.Color)
}

func (l *Label) Press(shaderview.Point) []Action        { return nil }
func (l *Label) Drag(shaderview.Point) []Action         { return nil }
func (l *Label) Release(shaderview.Point, bool) []Action { return nil }

// Yellow is the color of the FPS overlay.
var Yellow = gputypes.Color{R: 1, G: 1, B: 0, A: 1}
