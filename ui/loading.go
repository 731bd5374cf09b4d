package ui

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/render"
)

// Loading animation geometry, in logical pixels.
const (
	LoadingBoxSize    = 20
	LoadingBoxSpacing = 6
	LoadingCycle      = 2.5 // seconds

	loadingStep  = LoadingBoxSize + LoadingBoxSpacing
	loadingGrid  = 3
	loadingSpan  = loadingGrid*LoadingBoxSize + (loadingGrid-1)*LoadingBoxSpacing
	loadingFrame = 11
)

// loadingPath holds, per box, the offset in grid steps at each of the 11
// keyframes of a cycle.
var loadingPath = [loadingGrid * loadingGrid][loadingFrame][2]int8{
	{{-1, 0}, {0, 0}, {0, 0}, {1, 0}, {1, 1}, {1, 1}, {1, 1}, {1, 0}, {0, 0}, {-1, 0}, {0, 0}},
	{{0, 0}, {1, 0}, {0, 0}, {1, 0}, {1, 1}, {1, 1}, {1, 1}, {1, 1}, {0, 1}, {0, 1}, {0, 0}},
	{{-1, 0}, {-1, 0}, {0, 0}, {-1, 0}, {-1, 0}, {-1, 0}, {-1, 0}, {-1, 0}, {-1, -1}, {0, -1}, {0, 0}},
	{{-1, 0}, {-1, 0}, {-1, -1}, {0, -1}, {0, 0}, {0, -1}, {0, -1}, {0, -1}, {-1, -1}, {-1, 0}, {0, 0}},
	{{0, 0}, {0, 0}, {0, 0}, {1, 0}, {1, 0}, {1, 0}, {1, 0}, {1, 0}, {1, -1}, {0, -1}, {0, 0}},
	{{0, 0}, {-1, 0}, {-1, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 1}, {-1, 1}, {-1, 0}, {0, 0}},
	{{1, 0}, {1, 0}, {1, 0}, {0, 0}, {0, -1}, {1, -1}, {0, -1}, {0, -1}, {0, 0}, {1, 0}, {0, 0}},
	{{0, 0}, {-1, 0}, {-1, -1}, {0, -1}, {0, -1}, {0, -1}, {0, -1}, {0, -1}, {1, -1}, {1, 0}, {0, 0}},
	{{-1, 0}, {-1, 0}, {0, 0}, {-1, 0}, {0, 0}, {0, 0}, {-1, 0}, {-1, 0}, {-2, 0}, {-1, 0}, {0, 0}},
}

// LoadingAnimation is a 3x3 grid of boxes that shuffle around over a
// 2.5 second cycle, centered in the layout extent.
type LoadingAnimation struct {
	Color gputypes.Color
	boxes [loadingGrid * loadingGrid]shaderview.Point
}

// NewLoadingAnimation returns an animation at time zero.
func NewLoadingAnimation() *LoadingAnimation {
	a := &LoadingAnimation{Color: gputypes.Color{R: 1, G: 1, B: 1, A: 1}}
	a.Update(0)
	return a
}

// Update moves the boxes to their positions at time t in seconds.
func (a *LoadingAnimation) Update(t float32) {
	phase := math32.Mod(t, LoadingCycle)
	if phase < 0 {
		phase += LoadingCycle
	}
	frame := min(int(phase/LoadingCycle*loadingFrame), loadingFrame-1)
	for i := range a.boxes {
		row, col := i/loadingGrid, i%loadingGrid
		base := shaderview.Point{X: float32(col * loadingStep), Y: float32(row * loadingStep)}
		switch i {
		case 0, 3:
			base.X += loadingStep
		case 2:
			base.Y += 2 * loadingStep
		}
		off := loadingPath[i][frame]
		a.boxes[i] = base.Add(shaderview.Point{X: float32(off[0]) * loadingStep, Y: float32(off[1]) * loadingStep})
	}
}

// Boxes returns the box rectangles relative to the grid origin.
func (a *LoadingAnimation) Boxes() []shaderview.Rect {
	rs := make([]shaderview.Rect, len(a.boxes))
	for i, p := range a.boxes {
		rs[i] = shaderview.Rect{X: p.X, Y: p.Y, W: LoadingBoxSize, H: LoadingBoxSize}
	}
	return rs
}

// Draw records the boxes centered in the transform's layout extent.
func (a *LoadingAnimation) Draw(pass *render.Pass, t *shaderview.Transform) error {
	ext := t.LayoutExtent()
	origin := shaderview.Point{X: (ext.W - loadingSpan) / 2, Y: (ext.H - loadingSpan) / 2}
	for _, r := range a.Boxes() {
		r.X += origin.X
		r.Y += origin.Y
		if err := pass.FillRect(t.ForwardRect(r), a.Color); err != nil {
			return err
		}
	}
	return nil
}
