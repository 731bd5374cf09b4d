package ui

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/gogpu/shaderview"
)

// DefaultTextSize is the default line height in logical pixels.
const DefaultTextSize = 16

// face is the reference face text is measured with; sizes scale its
// metrics linearly.
var face = basicfont.Face7x13

func faceHeight() float32 {
	return float32(face.Metrics().Height.Ceil())
}

// MeasureText returns the logical size of a single line of text drawn at
// the given size.
func MeasureText(s string, size float32) shaderview.Size {
	k := size / faceHeight()
	adv := font.MeasureString(face, s)
	return shaderview.Size{
		W: float32(adv.Ceil()) * k,
		H: size,
	}
}

// CenterText returns the top-left origin that centers s inside r.
func CenterText(r shaderview.Rect, s string, size float32) shaderview.Point {
	sz := MeasureText(s, size)
	c := r.Center()
	return shaderview.Point{X: c.X - sz.W/2, Y: c.Y - sz.H/2}
}
