package ui

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/render"
)

// Slider is a horizontal slider. Its value is normalized to [0,1]; Min and
// Max only affect the displayed value.
type Slider struct {
	Base

	Min, Max   float32
	Label      string
	ThumbColor gputypes.Color
	TextColor  gputypes.Color
	TextSize   float32

	value    float32
	dragging bool
}

// NewSlider returns a slider over logical bounds r.
func NewSlider(id string, r shaderview.Rect, label string) *Slider {
	return &Slider{
		Base: Base{
			ID:     id,
			Bounds: r,
			Color:  gputypes.Color{R: 0.3, G: 0.3, B: 0.3, A: 0.9},
		},
		Max:        1,
		Label:      label,
		ThumbColor: gputypes.Color{R: 0.9, G: 0.9, B: 0.9, A: 1},
		TextColor:  gputypes.Color{R: 1, G: 1, B: 1, A: 1},
		TextSize:   DefaultTextSize,
	}
}

// Value returns the normalized value.
func (s *Slider) Value() float32 { return s.value }

// SetValue sets the normalized value, clamped to [0,1].
func (s *Slider) SetValue(v float32) { s.value = min(max(v, 0), 1) }

// Scaled returns the value mapped onto [Min, Max].
func (s *Slider) Scaled() float32 { return s.Min + s.value*(s.Max-s.Min) }

// Dragging reports whether a drag is in progress.
func (s *Slider) Dragging() bool { return s.dragging }

// thumb returns the logical thumb rectangle: a square of the track height
// centered on the value.
func (s *Slider) thumb() shaderview.Rect {
	d := s.Bounds.H
	x := s.Bounds.X + s.value*s.Bounds.W - d/2
	return shaderview.Rect{X: x, Y: s.Bounds.Y, W: d, H: d}
}

// DrawShape records the track and the thumb.
func (s *Slider) DrawShape(pass *render.Pass, t *shaderview.Transform) error {
	track := s.Bounds
	track.Y += track.H * 0.375
	track.H *= 0.25
	if err := pass.FillRect(s.toScreen(t, track), s.Color); err != nil {
		return err
	}
	return pass.FillCircle(s.toScreen(t, s.thumb()), s.ThumbColor)
}

// DrawText records the label above the track.
func (s *Slider) DrawText(pass *render.Pass, t *shaderview.Transform) error {
	if s.Label == "" {
		return nil
	}
	text := fmt.Sprintf("%s: %.2f", s.Label, s.Scaled())
	o := s.toScreen(t, shaderview.Rect{X: s.Bounds.X, Y: s.Bounds.Y - s.TextSize}).Min()
	return pass.Text(o, text, s.TextSize*s.textScale(t), s.TextColor)
}

func (s *Slider) valueAt(p shaderview.Point) float32 {
	if s.Bounds.W <= 0 {
		return s.value
	}
	return min(max((p.X-s.Bounds.X)/s.Bounds.W, 0), 1)
}

func (s *Slider) update(p shaderview.Point) []Action {
	v := s.valueAt(p)
	if v == s.value {
		return nil
	}
	s.value = v
	return []Action{{Kind: ActionValueChanged, ID: s.ID, Value: v}}
}

// Press starts a drag and jumps the thumb to the pointer.
func (s *Slider) Press(p shaderview.Point) []Action {
	s.dragging = true
	return s.update(p)
}

// Drag moves the thumb while a drag is in progress.
func (s *Slider) Drag(p shaderview.Point) []Action {
	if !s.dragging {
		return nil
	}
	return s.update(p)
}

// Release ends the drag.
func (s *Slider) Release(shaderview.Point, bool) []Action {
	s.dragging = false
	return nil
}
