package shaderview

import "testing"

func TestFitRect(t *testing.T) {
	tests := []struct {
		name   string
		w, h   float32
		aspect float32
		want   Rect
	}{
		{"pillarbox", 1280, 720, 1, Rect{X: 280, Y: 0, W: 720, H: 720}},
		{"letterbox", 720, 1280, 1, Rect{X: 0, Y: 280, W: 720, H: 720}},
		{"exact", 800, 800, 1, Rect{W: 800, H: 800}},
		{"wide target", 800, 800, 2, Rect{X: 0, Y: 200, W: 800, H: 400}},
		{"tall target", 800, 800, 0.5, Rect{X: 200, Y: 0, W: 400, H: 800}},
		{"zero window", 0, 0, 1, Rect{}},
		{"zero aspect", 640, 480, 0, Rect{W: 640, H: 480}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitRect(tt.w, tt.h, tt.aspect)
			if !rectNear(got, tt.want, 1e-4) {
				t.Errorf("FitRect(%v, %v, %v) = %+v, want %+v", tt.w, tt.h, tt.aspect, got, tt.want)
			}
		})
	}
}

func TestFitRectDeterministic(t *testing.T) {
	// Rendering and input inversion call FitRect independently; identical
	// inputs must give bit-identical rectangles.
	for _, w := range []float32{333, 801, 1279, 1920} {
		for _, h := range []float32{211, 599, 719, 1080} {
			a := FitRect(w, h, 4.0/3.0)
			b := FitRect(w, h, 4.0/3.0)
			if a != b {
				t.Errorf("FitRect(%v, %v) not deterministic: %+v vs %+v", w, h, a, b)
			}
		}
	}
}

func TestCoverRect(t *testing.T) {
	tests := []struct {
		name   string
		w, h   float32
		aspect float32
		want   Rect
	}{
		{"wide window", 1280, 720, 1, Rect{X: 0, Y: -280, W: 1280, H: 1280}},
		{"tall window", 720, 1280, 1, Rect{X: -280, Y: 0, W: 1280, H: 1280}},
		{"exact", 640, 480, 4.0 / 3.0, Rect{W: 640, H: 480}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoverRect(tt.w, tt.h, tt.aspect)
			if !rectNear(got, tt.want, 1e-3) {
				t.Errorf("CoverRect(%v, %v, %v) = %+v, want %+v", tt.w, tt.h, tt.aspect, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}
	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(10, 20), true},
		{Pt(109.9, 69.9), true},
		{Pt(110, 20), false},
		{Pt(10, 70), false},
		{Pt(9.9, 30), false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Rect.Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestCenterRect(t *testing.T) {
	got := CenterRect(400, 300, 800, 800)
	want := Rect{X: -200, Y: -250, W: 800, H: 800}
	if got != want {
		t.Errorf("CenterRect() = %+v, want %+v", got, want)
	}
}

func near(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func rectNear(a, b Rect, eps float32) bool {
	return near(a.X, b.X, eps) && near(a.Y, b.Y, eps) && near(a.W, b.W, eps) && near(a.H, b.H, eps)
}

func TestPointArithmetic(t *testing.T) {
	p, q := Pt(26, 52), Pt(6, -2)
	if got := p.Add(q); got != Pt(32, 50) {
		t.Errorf("Add() = %v, want (32, 50)", got)
	}
	if got := p.Sub(q); got != Pt(20, 54) {
		t.Errorf("Sub() = %v, want (20, 54)", got)
	}
	if got := p.Scale(0.5, 2); got != Pt(13, 104) {
		t.Errorf("Scale() = %v, want (13, 104)", got)
	}
}
