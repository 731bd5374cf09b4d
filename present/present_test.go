package present

import (
	"errors"
	"testing"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/backend/null"
	"github.com/gogpu/shaderview/gpucore"
)

func newTestPacer(t *testing.T, dev *null.Device, n int) (*Lifecycle, *Pacer) {
	t.Helper()
	lc := NewLifecycle(dev, gpucore.PresentModeMailbox)
	if _, err := lc.Create(gpucore.Extent{Width: 800, Height: 500}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	p, err := NewPacer(dev, lc, n)
	if err != nil {
		t.Fatalf("NewPacer() error = %v", err)
	}
	return lc, p
}

func cycle(t *testing.T, p *Pacer) {
	t.Helper()
	f, err := p.BeginFrame()
	if err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if err := p.SubmitAndPresent(f); err != nil {
		t.Fatalf("SubmitAndPresent() error = %v", err)
	}
}

func checkClean(t *testing.T, dev *null.Device) {
	t.Helper()
	for _, v := range dev.Violations() {
		t.Errorf("device violation: %s", v)
	}
}

func TestLifecycleCreate(t *testing.T) {
	dev := null.New()
	lc := NewLifecycle(dev, gpucore.PresentModeMailbox)
	if lc.State() != nil {
		t.Fatal("State() before Create is not nil")
	}
	st, err := lc.Create(gpucore.Extent{Width: 1, Height: 1})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !st.Consistent() {
		t.Errorf("state not consistent: %d images, %d views, %d framebuffers",
			len(st.Images), len(st.Views), len(st.Framebuffers))
	}
	if st.ImageCount() != 3 {
		t.Errorf("ImageCount() = %d, want 3", st.ImageCount())
	}
	if st.Desc.Extent != (gpucore.Extent{Width: 800, Height: 500}) {
		t.Errorf("Extent = %v, want surface extent 800x500", st.Desc.Extent)
	}
	if st.Desc.PresentMode != gpucore.PresentModeMailbox {
		t.Errorf("PresentMode = %v, want mailbox", st.Desc.PresentMode)
	}
	if st.Generation != 1 {
		t.Errorf("Generation = %d, want 1", st.Generation)
	}
	if _, err := lc.Create(gpucore.Extent{}); err == nil {
		t.Error("second Create() succeeded, want error")
	}

	lc.Destroy()
	lc.Destroy()
	if dev.Live() != 0 {
		t.Errorf("Live() after Destroy = %d, want 0", dev.Live())
	}
	checkClean(t, dev)
}

func TestLifecycleCreateErrors(t *testing.T) {
	tests := []struct {
		name string
		dev  *null.Device
		want error
	}{
		{"no format", null.New(null.WithFormats()), shaderview.ErrNoCompatibleFormat},
		{"minimized", null.New(null.WithExtent(0, 0)), shaderview.ErrSwapchainOutOfDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := NewLifecycle(tt.dev, gpucore.PresentModeFifo)
			_, err := lc.Create(gpucore.Extent{Width: 100, Height: 100})
			if !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
			if lc.State() != nil {
				t.Error("State() after failed Create is not nil")
			}
			if tt.dev.Live() != 0 {
				t.Errorf("Live() after failed Create = %d, want 0", tt.dev.Live())
			}
		})
	}
}

func TestLifecyclePresentModeFallback(t *testing.T) {
	dev := null.New(null.WithPresentModes(gpucore.PresentModeFifo))
	lc := NewLifecycle(dev, gpucore.PresentModeMailbox)
	st, err := lc.Create(gpucore.Extent{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if st.Desc.PresentMode != gpucore.PresentModeFifo {
		t.Errorf("PresentMode = %v, want fifo", st.Desc.PresentMode)
	}
}

func TestLifecycleRecreate(t *testing.T) {
	dev := null.New()
	lc := NewLifecycle(dev, gpucore.PresentModeFifo)

	var created []uint64
	lc.OnCreate(func(st *State) { created = append(created, st.Generation) })

	old, err := lc.Create(gpucore.Extent{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	oldFB := old.Framebuffers[0]

	st, err := lc.Recreate(gpucore.Extent{})
	if err != nil {
		t.Fatalf("Recreate() error = %v", err)
	}
	if dev.Stats.WaitIdles != 1 {
		t.Errorf("WaitIdle calls = %d, want 1", dev.Stats.WaitIdles)
	}
	if st.Generation != 2 || lc.Generation() != 2 {
		t.Errorf("Generation = %d, want 2", st.Generation)
	}
	if got := dev.LiveFramebuffers(); got != st.ImageCount() {
		t.Errorf("live framebuffers = %d, want %d", got, st.ImageCount())
	}
	if st.Framebuffers[0] == oldFB {
		t.Error("recreated framebuffer reuses the stale handle")
	}
	if len(created) != 2 || created[0] != 1 || created[1] != 2 {
		t.Errorf("OnCreate generations = %v, want [1 2]", created)
	}
	checkClean(t, dev)
}

func TestStateFramebuffer(t *testing.T) {
	st := &State{Framebuffers: make([]gpucore.Framebuffer, 2)}
	if _, err := st.Framebuffer(1); err != nil {
		t.Errorf("Framebuffer(1) error = %v", err)
	}
	if _, err := st.Framebuffer(2); err == nil {
		t.Error("Framebuffer(2) succeeded, want error")
	}
}

func TestNewPacerInvalid(t *testing.T) {
	if _, err := NewPacer(null.New(), nil, 0); err == nil {
		t.Error("NewPacer(0) succeeded, want error")
	}
}

func TestPacerRingWraps(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		dev := null.New()
		_, p := newTestPacer(t, dev, n)
		start := p.Index()
		for range n {
			cycle(t, p)
		}
		if p.Index() != start {
			t.Errorf("N=%d: Index() after N cycles = %d, want %d", n, p.Index(), start)
		}
		for range 2 * n {
			cycle(t, p)
		}
		for i := range p.slots {
			if got := dev.FenceWaits(p.slots[i].fence); got != 3 {
				t.Errorf("N=%d: slot %d fence waits = %d, want 3", n, i, got)
			}
		}
		if dev.Stats.Presents != 3*n {
			t.Errorf("N=%d: Presents = %d, want %d", n, dev.Stats.Presents, 3*n)
		}
		checkClean(t, dev)
	}
}

func TestPacerInFlight(t *testing.T) {
	dev := null.New()
	_, p := newTestPacer(t, dev, 2)
	if p.InFlight() != 0 {
		t.Errorf("InFlight() = %d, want 0", p.InFlight())
	}
	cycle(t, p)
	cycle(t, p)
	if p.InFlight() != 2 {
		t.Errorf("InFlight() = %d, want 2", p.InFlight())
	}
	if _, err := p.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if p.InFlight() != 1 {
		t.Errorf("InFlight() after wait = %d, want 1", p.InFlight())
	}
}

func TestPacerAcquireRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"out of date", shaderview.ErrSwapchainOutOfDate},
		{"suboptimal", shaderview.ErrSuboptimal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := null.New()
			lc, p := newTestPacer(t, dev, 2)
			cycle(t, p)
			dev.AcquireErrs = []error{tt.err}

			_, err := p.BeginFrame()
			if !errors.Is(err, ErrRetry) || !errors.Is(err, tt.err) {
				t.Fatalf("BeginFrame() error = %v, want ErrRetry wrapping %v", err, tt.err)
			}
			if p.Index() != 1 {
				t.Errorf("Index() after retry = %d, want 1", p.Index())
			}
			if p.State() != FrameIdle {
				t.Errorf("State() after retry = %v, want idle", p.State())
			}

			if _, err := lc.Recreate(gpucore.Extent{}); err != nil {
				t.Fatalf("Recreate() error = %v", err)
			}
			cycle(t, p)
			cycle(t, p)

			if got := dev.FenceWaits(p.slots[1].fence); got != 1 {
				t.Errorf("slot 1 fence waits = %d, want 1", got)
			}
			checkClean(t, dev)
		})
	}
}

func TestPacerPresentOutOfDateAdvances(t *testing.T) {
	dev := null.New()
	lc, p := newTestPacer(t, dev, 2)
	dev.PresentErrs = []error{shaderview.ErrSwapchainOutOfDate}

	f, err := p.BeginFrame()
	if err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	err = p.SubmitAndPresent(f)
	if !errors.Is(err, ErrRetry) {
		t.Fatalf("SubmitAndPresent() error = %v, want ErrRetry", err)
	}
	if p.Index() != 1 {
		t.Errorf("Index() = %d, want 1", p.Index())
	}
	if _, err := lc.Recreate(gpucore.Extent{}); err != nil {
		t.Fatalf("Recreate() error = %v", err)
	}
	cycle(t, p)
	checkClean(t, dev)
}

func TestPacerStaleGeneration(t *testing.T) {
	dev := null.New()
	lc, p := newTestPacer(t, dev, 2)

	f, err := p.BeginFrame()
	if err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if _, err := lc.Recreate(gpucore.Extent{}); err != nil {
		t.Fatalf("Recreate() error = %v", err)
	}
	if err := p.SubmitAndPresent(f); !errors.Is(err, ErrRetry) {
		t.Fatalf("SubmitAndPresent() error = %v, want ErrRetry", err)
	}
	if p.Index() != 0 {
		t.Errorf("Index() = %d, want 0", p.Index())
	}
	if dev.Stats.Submits != 0 {
		t.Errorf("Submits = %d, want 0", dev.Stats.Submits)
	}

	f, err = p.BeginFrame()
	if err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if f.Generation != 2 {
		t.Errorf("Frame.Generation = %d, want 2", f.Generation)
	}
	if err := p.SubmitAndPresent(f); err != nil {
		t.Fatalf("SubmitAndPresent() error = %v", err)
	}
	checkClean(t, dev)
}

func TestPacerOutOfOrder(t *testing.T) {
	dev := null.New()
	_, p := newTestPacer(t, dev, 2)

	if err := p.SubmitAndPresent(Frame{}); !errors.Is(err, ErrFrameState) {
		t.Errorf("SubmitAndPresent() before BeginFrame error = %v, want ErrFrameState", err)
	}
	if _, err := p.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if _, err := p.BeginFrame(); !errors.Is(err, ErrFrameState) {
		t.Errorf("second BeginFrame() error = %v, want ErrFrameState", err)
	}
}

func TestPacerNotCreated(t *testing.T) {
	dev := null.New()
	lc := NewLifecycle(dev, gpucore.PresentModeFifo)
	p, err := NewPacer(dev, lc, 2)
	if err != nil {
		t.Fatalf("NewPacer() error = %v", err)
	}
	_, err = p.BeginFrame()
	if !errors.Is(err, ErrRetry) || !errors.Is(err, ErrNotCreated) {
		t.Errorf("BeginFrame() error = %v, want ErrRetry wrapping ErrNotCreated", err)
	}
}

func TestPacerDeviceLost(t *testing.T) {
	dev := null.New()
	_, p := newTestPacer(t, dev, 2)
	dev.SubmitErr = shaderview.ErrDeviceLost

	f, err := p.BeginFrame()
	if err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	err = p.SubmitAndPresent(f)
	if !shaderview.IsFatal(err) {
		t.Errorf("SubmitAndPresent() error = %v, want fatal", err)
	}
	if errors.Is(err, ErrRetry) {
		t.Errorf("SubmitAndPresent() error = %v, must not be retryable", err)
	}
}

func TestPacerSubmitFailureRecovers(t *testing.T) {
	errQueue := errors.New("queue rejected submit")
	tests := []struct {
		name   string
		script func(*null.Device)
		clear  func(*null.Device)
	}{
		{
			"submit",
			func(d *null.Device) { d.SubmitErr = errQueue },
			func(d *null.Device) { d.SubmitErr = nil },
		},
		{
			"reset fence",
			func(d *null.Device) { d.ResetFenceErrs = []error{errQueue} },
			func(*null.Device) {},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := null.New()
			_, p := newTestPacer(t, dev, 2)
			cycle(t, p)

			tt.script(dev)
			f, err := p.BeginFrame()
			if err != nil {
				t.Fatalf("BeginFrame() error = %v", err)
			}
			if err := p.SubmitAndPresent(f); !errors.Is(err, errQueue) {
				t.Fatalf("SubmitAndPresent() error = %v, want %v", err, errQueue)
			}
			if p.State() != FrameIdle {
				t.Errorf("State() after failed submit = %v, want idle", p.State())
			}
			if p.Index() != 1 {
				t.Errorf("Index() after failed submit = %d, want 1", p.Index())
			}
			tt.clear(dev)

			cycle(t, p)
			cycle(t, p)
			if got := dev.Stats.Presents; got != 3 {
				t.Errorf("Presents = %d, want 3", got)
			}
			checkClean(t, dev)
		})
	}
}

func TestPacerAbortFrame(t *testing.T) {
	dev := null.New()
	_, p := newTestPacer(t, dev, 2)

	if err := p.AbortFrame(Frame{}); !errors.Is(err, ErrFrameState) {
		t.Errorf("AbortFrame() before BeginFrame error = %v, want ErrFrameState", err)
	}
	f, err := p.BeginFrame()
	if err != nil {
		t.Fatalf("BeginFrame() error = %v", err)
	}
	if err := p.AbortFrame(f); err != nil {
		t.Fatalf("AbortFrame() error = %v", err)
	}
	if p.State() != FrameIdle || p.Index() != 0 {
		t.Errorf("after AbortFrame state = %v, index = %d, want idle, 0", p.State(), p.Index())
	}
	if err := p.SubmitAndPresent(f); !errors.Is(err, ErrFrameState) {
		t.Errorf("SubmitAndPresent() of aborted frame error = %v, want ErrFrameState", err)
	}

	for range 3 {
		cycle(t, p)
	}
	if got := dev.Stats.Presents; got != 3 {
		t.Errorf("Presents = %d, want 3", got)
	}
	checkClean(t, dev)
}

func TestPacerClose(t *testing.T) {
	dev := null.New()
	lc, p := newTestPacer(t, dev, 2)
	cycle(t, p)

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := p.BeginFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("BeginFrame() after Close error = %v, want ErrClosed", err)
	}
	lc.Destroy()
	if dev.Live() != 0 {
		t.Errorf("Live() = %d, want 0", dev.Live())
	}
	checkClean(t, dev)
}

func TestFrameStateString(t *testing.T) {
	tests := []struct {
		s    FrameState
		want string
	}{
		{FrameIdle, "idle"},
		{FrameAcquiring, "acquiring"},
		{FrameRecording, "recording"},
		{FrameSubmitted, "submitted"},
		{FramePresenting, "presenting"},
		{FrameState(99), "FrameState(99)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("FrameState(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
