package ui

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/render"
)

// Button is a clickable rectangle or circle with an optional centered label.
type Button struct {
	Base

	HoverColor gputypes.Color
	Text       string
	TextColor  gputypes.Color
	TextSize   float32

	pressed bool
}

// NewButton returns a rectangular button with logical bounds r.
func NewButton(id string, r shaderview.Rect, text string) *Button {
	return &Button{
		Base: Base{
			ID:     id,
			Bounds: r,
			Color:  gputypes.Color{R: 0.25, G: 0.25, B: 0.3, A: 0.9},
		},
		HoverColor: gputypes.Color{R: 0.35, G: 0.35, B: 0.45, A: 0.95},
		Text:       text,
		TextColor:  gputypes.Color{R: 1, G: 1, B: 1, A: 1},
		TextSize:   DefaultTextSize,
	}
}

// Hovered reports whether the pointer is over the button.
func (b *Button) Hovered() bool { return b.hovered }

// DrawShape records the button body.
func (b *Button) DrawShape(pass *render.Pass, t *shaderview.Transform) error {
	c := b.Color
	if b.hovered {
		c = b.HoverColor
	}
	return b.fill(pass, t, b.Bounds, c)
}

// DrawText records the centered label.
func (b *Button) DrawText(pass *render.Pass, t *shaderview.Transform) error {
	if b.Text == "" {
		return nil
	}
	origin := CenterText(b.Bounds, b.Text, b.TextSize)
	size := b.TextSize * b.textScale(t)
	o := b.toScreen(t, shaderview.Rect{X: origin.X, Y: origin.Y}).Min()
	return pass.Text(o, b.Text, size, b.TextColor)
}

// Press arms the button.
func (b *Button) Press(shaderview.Point) []Action {
	b.pressed = true
	return nil
}

// Drag does nothing for buttons.
func (b *Button) Drag(shaderview.Point) []Action { return nil }

// Release fires a click when the pointer is released over the button that
// was pressed.
func (b *Button) Release(_ shaderview.Point, inside bool) []Action {
	was := b.pressed
	b.pressed = false
	if was && inside {
		return []Action{{Kind: ActionClick, ID: b.ID}}
	}
	return nil
}
