package shaderview

import "github.com/chewxy/math32"

// Viewport is the screen-space rectangle the rasterizer maps normalized
// device coordinates onto.
type Viewport struct {
	X, Y, W, H         float32
	MinDepth, MaxDepth float32
}

// Rect returns the viewport rectangle.
func (v Viewport) Rect() Rect { return Rect{X: v.X, Y: v.Y, W: v.W, H: v.H} }

// Scissor is an integer screen-space clip rectangle. It always lies inside
// the window and has a non-zero extent.
type Scissor struct {
	X, Y int32
	W, H uint32
}

// Rect returns the scissor rectangle in float coordinates.
func (s Scissor) Rect() Rect {
	return Rect{X: float32(s.X), Y: float32(s.Y), W: float32(s.W), H: float32(s.H)}
}

// Transform is the per-frame result of applying a stretch policy to a
// window and a reference size. It is the only source of truth for mapping
// logical pixels to screen pixels and back; it is recomputed every frame and
// must not be cached across frames.
type Transform struct {
	Policy    StretchPolicy
	Window    Size
	Reference Size

	Viewport Viewport
	Scissor  Scissor

	// UIExtent is the extent widget layout math is expressed against: the
	// reference size under Fit and Disabled, the window size under Scaled.
	UIExtent Size

	// Params is non-nil only under StretchScaled.
	Params *StretchParams

	// ReferenceFallback is set when the reference size was unusable and
	// the default reference was substituted.
	ReferenceFallback bool

	scale  Point
	offset Point
}

// ComputeTransform applies policy to a window of the given size and a
// reference (logical) rectangle. A zero or negative reference size is
// replaced by DefaultReference. Window dimensions below one pixel are
// clamped to one so that viewport and scissor extents stay positive.
func ComputeTransform(policy StretchPolicy, window, reference Size) Transform {
	t := Transform{
		Policy:    policy,
		Window:    Size{W: max(window.W, 1), H: max(window.H, 1)},
		Reference: reference,
	}
	if reference.Empty() || math32.IsNaN(reference.W) || math32.IsNaN(reference.H) {
		Logger().Debug("reference size fallback",
			"width", reference.W, "height", reference.H)
		t.Reference = DefaultReference()
		t.ReferenceFallback = true
	}

	win, ref := t.Window, t.Reference
	var vp Rect
	switch policy {
	case StretchScaled:
		vp = Rect{W: win.W, H: win.H}
		p := StretchParams{
			ScaleX:        win.W / ref.W,
			ScaleY:        win.H / ref.H,
			LogicalWidth:  ref.W,
			LogicalHeight: ref.H,
			ScreenWidth:   win.W,
			ScreenHeight:  win.H,
		}
		t.Params = &p
		t.UIExtent = win
		t.scale = Point{X: p.ScaleX, Y: p.ScaleY}
		t.offset = Point{X: p.MarginX, Y: p.MarginY}
	case StretchDisabled:
		vp = CenterRect(win.W, win.H, ref.W, ref.H)
		t.UIExtent = ref
		t.scale = Point{X: 1, Y: 1}
		t.offset = vp.Min()
	default:
		t.Policy = StretchFit
		vp = FitRect(win.W, win.H, ref.W/ref.H)
		t.UIExtent = ref
		t.scale = Point{X: vp.W / ref.W, Y: vp.H / ref.H}
		t.offset = vp.Min()
	}

	t.Viewport = Viewport{X: vp.X, Y: vp.Y, W: vp.W, H: vp.H, MinDepth: 0, MaxDepth: 1}
	t.Scissor = ScissorFor(vp, win)
	return t
}

// Forward maps a logical point to screen space.
func (t Transform) Forward(p Point) Point {
	return Point{X: p.X*t.scale.X + t.offset.X, Y: p.Y*t.scale.Y + t.offset.Y}
}

// Inverse maps a screen point to logical space. It is the exact inverse of
// Forward for the same transform.
func (t Transform) Inverse(p Point) Point {
	return Point{X: (p.X - t.offset.X) / t.scale.X, Y: (p.Y - t.offset.Y) / t.scale.Y}
}

// InverseInside maps a screen point to logical space and reports whether the
// point lies inside the viewport. Points in letterbox bars return false.
func (t Transform) InverseInside(p Point) (Point, bool) {
	return t.Inverse(p), t.Viewport.Rect().Contains(p)
}

// ForwardRect maps a logical rectangle to screen space.
func (t Transform) ForwardRect(r Rect) Rect {
	o := t.Forward(r.Min())
	return Rect{X: o.X, Y: o.Y, W: r.W * t.scale.X, H: r.H * t.scale.Y}
}

// Scale returns the per-axis logical-to-screen scale factor.
func (t Transform) Scale() Point { return t.scale }

// Offset returns the screen position of the logical origin.
func (t Transform) Offset() Point { return t.offset }

// LayoutExtent returns the extent relative widget positions resolve against:
// the logical size when StretchParams are active, UIExtent otherwise.
func (t Transform) LayoutExtent() Size {
	if t.Params != nil {
		return t.Params.Logical()
	}
	return t.UIExtent
}

// Aspect returns the aspect ratio of the viewport, used as the shader's
// aspect push constant.
func (t Transform) Aspect() float32 {
	return Size{W: t.Viewport.W, H: t.Viewport.H}.Aspect()
}

// FullWindow returns a viewport and scissor covering the whole window,
// used by scenes and layers that ignore the stretch policy.
func FullWindow(window Size) (Viewport, Scissor) {
	w := Size{W: max(window.W, 1), H: max(window.H, 1)}
	r := Rect{W: w.W, H: w.H}
	return Viewport{W: w.W, H: w.H, MaxDepth: 1}, ScissorFor(r, w)
}

// ScissorFor returns the integer clip rectangle covering r, clamped to the
// window bounds. The extent is at least one pixel on each axis.
func ScissorFor(r Rect, window Size) Scissor {
	x0 := clamp(math32.Floor(r.X), 0, window.W)
	y0 := clamp(math32.Floor(r.Y), 0, window.H)
	x1 := clamp(math32.Ceil(r.X+r.W), 0, window.W)
	y1 := clamp(math32.Ceil(r.Y+r.H), 0, window.H)
	s := Scissor{X: int32(x0), Y: int32(y0), W: uint32(max(x1-x0, 0)), H: uint32(max(y1-y0, 0))}
	if s.W == 0 {
		s.W = 1
		if float32(s.X) >= window.W && s.X > 0 {
			s.X--
		}
	}
	if s.H == 0 {
		s.H = 1
		if float32(s.Y) >= window.H && s.Y > 0 {
			s.Y--
		}
	}
	return s
}

// BackgroundRect returns where a background image of the given size is drawn
// inside the window. The background always uses the full window, whatever
// the UI stretch policy. An empty image fills the window.
func BackgroundRect(mode BackgroundMode, window, image Size) Rect {
	if image.Empty() {
		return Rect{W: window.W, H: window.H}
	}
	if mode == BackgroundCover {
		return CoverRect(window.W, window.H, image.Aspect())
	}
	return FitRect(window.W, window.H, image.Aspect())
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
