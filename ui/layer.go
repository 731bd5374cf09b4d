package ui

import (
	"cmp"
	"slices"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/render"
)

// Layer owns the overlay widgets, draws them in z order and routes pointer
// input to the top-most widget under the pointer.
type Layer struct {
	widgets []Widget
	t       shaderview.Transform
	pressed Widget
	hovered Widget

	shapes []Widget
	texts  []Widget
}

// NewLayer returns an empty layer synced to the default reference size
// under StretchFit.
func NewLayer() *Layer {
	ref := shaderview.DefaultReference()
	return &Layer{t: shaderview.ComputeTransform(shaderview.StretchFit, ref, ref)}
}

// Add appends widgets. Among widgets with equal z, later ones are on top.
func (l *Layer) Add(ws ...Widget) {
	l.widgets = append(l.widgets, ws...)
	l.sort()
}

// Len returns the number of widgets.
func (l *Layer) Len() int { return len(l.widgets) }

// Widget returns the widget with the given ID, or nil.
func (l *Layer) Widget(id string) Widget {
	for _, w := range l.widgets {
		if w.base().ID == id {
			return w
		}
	}
	return nil
}

// Transform returns the transform of the last Sync.
func (l *Layer) Transform() shaderview.Transform { return l.t }

func (l *Layer) sort() {
	l.shapes = append(l.shapes[:0], l.widgets...)
	slices.SortStableFunc(l.shapes, func(a, b Widget) int {
		return cmp.Compare(a.base().Z, b.base().Z)
	})
	l.texts = append(l.texts[:0], l.widgets...)
	slices.SortStableFunc(l.texts, func(a, b Widget) int {
		return cmp.Compare(b.base().Z, a.base().Z)
	})
}

// Sync adopts the frame's transform: every widget gets its own copy of the
// stretch params and re-resolves its relative position. It must be called
// once per frame before Draw or pointer input.
func (l *Layer) Sync(t shaderview.Transform) {
	l.t = t
	extent := t.LayoutExtent()
	for _, w := range l.widgets {
		b := w.base()
		b.SetStretchParams(t.Params)
		b.UpdateRelativePosition(extent)
	}
	l.sort()
}

// Draw records every visible widget: shapes in ascending z order, then
// text in descending z order. The layer draws with a full-window viewport
// clipped to the content scissor.
func (l *Layer) Draw(pass *render.Pass) error {
	vp, _ := shaderview.FullWindow(l.t.Window)
	if err := pass.SetViewport(vp); err != nil {
		return err
	}
	if err := pass.SetScissor(l.t.Scissor); err != nil {
		return err
	}
	for _, w := range l.shapes {
		if w.base().Hidden {
			continue
		}
		if err := w.DrawShape(pass, &l.t); err != nil {
			return err
		}
	}
	for _, w := range l.texts {
		if w.base().Hidden {
			continue
		}
		if err := w.DrawText(pass, &l.t); err != nil {
			return err
		}
	}
	return nil
}

// HitTest returns the top-most visible widget under a screen point, or nil.
func (l *Layer) HitTest(screen shaderview.Point) Widget {
	for i := len(l.shapes) - 1; i >= 0; i-- {
		w := l.shapes[i]
		b := w.base()
		if b.Contains(b.ToLogical(&l.t, screen)) {
			return w
		}
	}
	return nil
}

// PointerMove updates hover state and drags the pressed widget.
func (l *Layer) PointerMove(screen shaderview.Point) []Action {
	hit := l.HitTest(screen)
	if hit != l.hovered {
		if l.hovered != nil {
			l.hovered.base().hovered = false
		}
		if hit != nil {
			hit.base().hovered = true
		}
		l.hovered = hit
	}
	if l.pressed == nil {
		return nil
	}
	b := l.pressed.base()
	return l.pressed.Drag(b.ToLogical(&l.t, screen))
}

// PointerDown presses the top-most widget under the pointer. It reports
// whether a widget took the press.
func (l *Layer) PointerDown(screen shaderview.Point) ([]Action, bool) {
	hit := l.HitTest(screen)
	if hit == nil {
		return nil, false
	}
	l.pressed = hit
	return hit.Press(hit.base().ToLogical(&l.t, screen)), true
}

// PointerUp releases the pressed widget.
func (l *Layer) PointerUp(screen shaderview.Point) []Action {
	w := l.pressed
	if w == nil {
		return nil
	}
	l.pressed = nil
	return w.Release(w.base().ToLogical(&l.t, screen), l.HitTest(screen) == w)
}
