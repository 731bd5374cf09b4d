package shaderview

import "testing"

func TestParseStretchPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    StretchPolicy
		wantErr bool
	}{
		{"fit", StretchFit, false},
		{"Keep", StretchFit, false},
		{"scaled", StretchScaled, false},
		{"canvas_items", StretchScaled, false},
		{"2D", StretchScaled, false},
		{" disabled ", StretchDisabled, false},
		{"bogus", StretchFit, true},
	}
	for _, tt := range tests {
		got, err := ParseStretchPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStretchPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseStretchPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStretchPolicyText(t *testing.T) {
	for _, p := range []StretchPolicy{StretchFit, StretchScaled, StretchDisabled} {
		b, err := p.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", p, err)
		}
		var got StretchPolicy
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", b, err)
		}
		if got != p {
			t.Errorf("UnmarshalText(%q) = %v, want %v", b, got, p)
		}
	}
}

func TestParseBackgroundMode(t *testing.T) {
	if m, err := ParseBackgroundMode("scaled"); err != nil || m != BackgroundCover {
		t.Errorf("ParseBackgroundMode(scaled) = %v, %v, want cover", m, err)
	}
	if _, err := ParseBackgroundMode("tile"); err == nil {
		t.Error("ParseBackgroundMode(tile) error = nil, want error")
	}
}

func TestStretchParamsMapping(t *testing.T) {
	p := StretchParams{
		ScaleX: 1.6, ScaleY: 0.9,
		LogicalWidth: 800, LogicalHeight: 800,
		ScreenWidth: 1280, ScreenHeight: 720,
		MarginX: 12, MarginY: 4,
	}
	in := Pt(100, 200)
	s := p.ToScreen(in)
	if !near(s.X, 172, 1e-4) || !near(s.Y, 184, 1e-4) {
		t.Errorf("ToScreen(%v) = %v, want (172, 184)", in, s)
	}
	back := p.ToLogical(s)
	if !near(back.X, in.X, 1e-4) || !near(back.Y, in.Y, 1e-4) {
		t.Errorf("ToLogical(ToScreen(%v)) = %v", in, back)
	}
	if got := p.LogicalAspect(); got != 1 {
		t.Errorf("LogicalAspect() = %v, want 1", got)
	}
	if got := p.ScreenAspect(); !near(got, 1280.0/720.0, 1e-6) {
		t.Errorf("ScreenAspect() = %v, want %v", got, 1280.0/720.0)
	}
	r := p.RectToScreen(Rect{X: 100, Y: 200, W: 50, H: 100})
	if !near(r.X, 172, 1e-4) || !near(r.Y, 184, 1e-4) || !near(r.W, 80, 1e-4) || !near(r.H, 90, 1e-4) {
		t.Errorf("RectToScreen() = %+v, want {172 184 80 90}", r)
	}
}

func TestStretchParamsValid(t *testing.T) {
	if !DefaultStretchParams().Valid() {
		t.Error("DefaultStretchParams().Valid() = false, want true")
	}
	if (StretchParams{}).Valid() {
		t.Error("StretchParams{}.Valid() = true, want false")
	}
}
