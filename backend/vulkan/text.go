package vulkan

import (
	"image"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/shaderview"
)

// textFace is the face widget text is measured and drawn with.
var textFace = basicfont.Face7x13

// glyphRuns appends to dst the screen rectangles covering the set pixels of
// s drawn with its top-left corner at origin and the given line height.
// Each rectangle is one horizontal run of pixels in one glyph row.
func glyphRuns(dst []shaderview.Rect, origin shaderview.Point, s string, size float32) []shaderview.Rect {
	m := textFace.Metrics()
	k := size / float32(m.Height.Ceil())
	dot := fixed.P(0, m.Ascent.Ceil())
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			dot.X += textFace.Kern(prev, r)
		}
		dr, mask, mp, adv, ok := textFace.Glyph(dot, r)
		if !ok {
			dr, mask, mp, adv, _ = textFace.Glyph(dot, '?')
		}
		if mask != nil {
			dst = appendRuns(dst, origin, k, dr, mask, mp)
		}
		dot.X += adv
		prev = r
	}
	return dst
}

func appendRuns(dst []shaderview.Rect, origin shaderview.Point, k float32, dr image.Rectangle, mask image.Image, mp image.Point) []shaderview.Rect {
	w, h := dr.Dx(), dr.Dy()
	for y := range h {
		start := -1
		for x := 0; x <= w; x++ {
			set := x < w && covered(mask, mp.X+x, mp.Y+y)
			switch {
			case set && start < 0:
				start = x
			case !set && start >= 0:
				dst = append(dst, shaderview.Rect{
					X: origin.X + float32(dr.Min.X+start)*k,
					Y: origin.Y + float32(dr.Min.Y+y)*k,
					W: float32(x-start) * k,
					H: k,
				})
				start = -1
			}
		}
	}
	return dst
}

func covered(mask image.Image, x, y int) bool {
	_, _, _, a := mask.At(x, y).RGBA()
	return a >= 0x8000
}
