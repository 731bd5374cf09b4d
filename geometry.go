package shaderview

// Rect is an axis-aligned rectangle given by its top-left corner and extent.
type Rect struct {
	X, Y, W, H float32
}

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.X + r.W, Y: r.Y + r.H} }

// Size returns the extent of r.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Center returns the center point of r.
func (r Rect) Center() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Contains reports whether p lies inside r. The left and top edges are
// inclusive, the right and bottom edges exclusive, so adjacent rectangles
// never both claim a point.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Within reports whether r lies entirely inside outer.
func (r Rect) Within(outer Rect) bool {
	return r.X >= outer.X && r.Y >= outer.Y &&
		r.X+r.W <= outer.X+outer.W && r.Y+r.H <= outer.Y+outer.H
}

// FitRect returns the largest rectangle with the given aspect ratio
// (width/height) that fits inside a windowW×windowH window, centered.
//
// A window wider than the target is height-constrained and pillarboxed;
// otherwise it is width-constrained and letterboxed. Every caller that needs
// a fit rectangle (viewport, input inversion, overlay placement, background)
// goes through this function so that identical inputs always produce
// identical rectangles.
func FitRect(windowW, windowH, targetAspect float32) Rect {
	if windowW <= 0 || windowH <= 0 || targetAspect <= 0 {
		return Rect{W: max(windowW, 0), H: max(windowH, 0)}
	}
	if windowW/windowH > targetAspect {
		h := windowH
		w := h * targetAspect
		return Rect{X: (windowW - w) / 2, Y: 0, W: w, H: h}
	}
	w := windowW
	h := w / targetAspect
	return Rect{X: 0, Y: (windowH - h) / 2, W: w, H: h}
}

// CoverRect returns the smallest rectangle with the given aspect ratio that
// covers the whole windowW×windowH window, centered. The result extends past
// the window on one axis unless the aspect ratios match.
func CoverRect(windowW, windowH, targetAspect float32) Rect {
	if windowW <= 0 || windowH <= 0 || targetAspect <= 0 {
		return Rect{W: max(windowW, 0), H: max(windowH, 0)}
	}
	if windowW/windowH > targetAspect {
		w := windowW
		h := w / targetAspect
		return Rect{X: 0, Y: (windowH - h) / 2, W: w, H: h}
	}
	h := windowH
	w := h * targetAspect
	return Rect{X: (windowW - w) / 2, Y: 0, W: w, H: h}
}

// CenterRect returns a w×h rectangle centered in a windowW×windowH window.
// The offset is negative when the rectangle is larger than the window.
func CenterRect(windowW, windowH, w, h float32) Rect {
	return Rect{X: (windowW - w) / 2, Y: (windowH - h) / 2, W: w, H: h}
}
