package shaderview

import (
	"fmt"
	"strings"
)

// StretchPolicy is the window-to-content scaling rule.
type StretchPolicy uint8

const (
	// StretchFit preserves the reference aspect ratio, letterboxing or
	// pillarboxing the content inside the window. Widgets reason in
	// reference coordinates and the viewport applies the mapping.
	StretchFit StretchPolicy = iota

	// StretchScaled stretches the reference rectangle over the full window.
	// Widgets reason in reference coordinates and map them to the screen
	// through StretchParams.
	StretchScaled

	// StretchDisabled centers the reference rectangle in the window without
	// scaling; content is cropped or bordered.
	StretchDisabled
)

// String returns the canonical name of the policy.
func (p StretchPolicy) String() string {
	switch p {
	case StretchFit:
		return "fit"
	case StretchScaled:
		return "scaled"
	case StretchDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("StretchPolicy(%d)", uint8(p))
	}
}

// ParseStretchPolicy parses a policy name, case-insensitively.
// "canvas_items" and "2d" are accepted as aliases of "scaled", "keep" as an
// alias of "fit".
func ParseStretchPolicy(s string) (StretchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fit", "keep":
		return StretchFit, nil
	case "scaled", "canvas_items", "2d":
		return StretchScaled, nil
	case "disabled", "none":
		return StretchDisabled, nil
	}
	return StretchFit, fmt.Errorf("shaderview: unknown stretch policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p StretchPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *StretchPolicy) UnmarshalText(text []byte) error {
	v, err := ParseStretchPolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// BackgroundMode selects how the background image fills the window. The
// background always uses a full-window viewport, independent of the UI
// stretch policy.
type BackgroundMode uint8

const (
	// BackgroundFit shows the whole image (contain).
	BackgroundFit BackgroundMode = iota
	// BackgroundCover fills the whole window, cropping the image (cover).
	BackgroundCover
)

// String returns the canonical name of the mode.
func (m BackgroundMode) String() string {
	switch m {
	case BackgroundFit:
		return "fit"
	case BackgroundCover:
		return "cover"
	default:
		return fmt.Sprintf("BackgroundMode(%d)", uint8(m))
	}
}

// ParseBackgroundMode parses a background mode name. "scaled" is accepted
// as an alias of "cover".
func ParseBackgroundMode(s string) (BackgroundMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fit", "contain":
		return BackgroundFit, nil
	case "cover", "scaled":
		return BackgroundCover, nil
	}
	return BackgroundFit, fmt.Errorf("shaderview: unknown background mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m BackgroundMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BackgroundMode) UnmarshalText(text []byte) error {
	v, err := ParseBackgroundMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Default reference size used when the configured or loaded reference size
// is unusable.
const (
	DefaultReferenceWidth  = 800
	DefaultReferenceHeight = 800
)

// DefaultReference returns the fallback reference size.
func DefaultReference() Size {
	return Size{W: DefaultReferenceWidth, H: DefaultReferenceHeight}
}

// StretchParams converts between a widget's logical (reference) coordinates
// and screen coordinates under StretchScaled. Widgets hold their own copy;
// a nil *StretchParams means identity mapping.
type StretchParams struct {
	ScaleX, ScaleY float32

	LogicalWidth, LogicalHeight float32
	ScreenWidth, ScreenHeight   float32

	MarginX, MarginY float32
}

// DefaultStretchParams returns the identity mapping over the default
// reference size.
func DefaultStretchParams() StretchParams {
	return StretchParams{
		ScaleX:        1,
		ScaleY:        1,
		LogicalWidth:  DefaultReferenceWidth,
		LogicalHeight: DefaultReferenceHeight,
		ScreenWidth:   DefaultReferenceWidth,
		ScreenHeight:  DefaultReferenceHeight,
	}
}

// Valid reports whether the params can be used for both directions of the
// mapping.
func (p StretchParams) Valid() bool {
	return p.ScaleX > 0 && p.ScaleY > 0 &&
		p.LogicalWidth > 0 && p.LogicalHeight > 0 &&
		p.ScreenWidth > 0 && p.ScreenHeight > 0
}

// LogicalAspect returns LogicalWidth/LogicalHeight.
func (p StretchParams) LogicalAspect() float32 {
	return Size{W: p.LogicalWidth, H: p.LogicalHeight}.Aspect()
}

// ScreenAspect returns ScreenWidth/ScreenHeight.
func (p StretchParams) ScreenAspect() float32 {
	return Size{W: p.ScreenWidth, H: p.ScreenHeight}.Aspect()
}

// Logical returns the logical size.
func (p StretchParams) Logical() Size {
	return Size{W: p.LogicalWidth, H: p.LogicalHeight}
}

// ToScreen maps a logical point to screen space.
func (p StretchParams) ToScreen(pt Point) Point {
	return Point{X: pt.X*p.ScaleX + p.MarginX, Y: pt.Y*p.ScaleY + p.MarginY}
}

// ToLogical maps a screen point to logical space. It is the exact inverse
// of ToScreen.
func (p StretchParams) ToLogical(pt Point) Point {
	return Point{X: (pt.X - p.MarginX) / p.ScaleX, Y: (pt.Y - p.MarginY) / p.ScaleY}
}

// ScaleSize maps a logical extent to a screen extent.
func (p StretchParams) ScaleSize(s Size) Size {
	return Size{W: s.W * p.ScaleX, H: s.H * p.ScaleY}
}

// RectToScreen maps a logical rectangle to screen space.
func (p StretchParams) RectToScreen(r Rect) Rect {
	o := p.ToScreen(r.Min())
	s := p.ScaleSize(r.Size())
	return Rect{X: o.X, Y: o.Y, W: s.W, H: s.H}
}
