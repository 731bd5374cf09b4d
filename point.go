package shaderview

// Point represents a 2D point or vector in pixels.
//
// Coordinates are float32 because they feed GPU viewports and push
// constants directly.
type Point struct {
	X, Y float32
}

// Pt is a convenience function to create a Point.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns the point scaled per axis.
func (p Point) Scale(sx, sy float32) Point {
	return Point{X: p.X * sx, Y: p.Y * sy}
}

// Size is a width/height pair in pixels.
type Size struct {
	W, H float32
}

// Sz is a convenience function to create a Size.
func Sz(w, h float32) Size {
	return Size{W: w, H: h}
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Aspect returns W/H, or 0 for an empty size.
func (s Size) Aspect() float32 {
	if s.Empty() {
		return 0
	}
	return s.W / s.H
}
