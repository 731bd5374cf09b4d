package null

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/gpucore"
	"github.com/gogpu/shaderview/render"
)

func newSwapchain(t *testing.T, d *Device) (gpucore.Swapchain, []gpucore.Framebuffer) {
	t.Helper()
	desc := gpucore.SwapchainDesc{
		Extent:     gpucore.Extent{Width: 64, Height: 64},
		Format:     gputypes.TextureFormatBGRA8Unorm,
		ImageCount: 2,
	}
	sc, err := d.CreateSwapchain(desc, gpucore.Swapchain{})
	if err != nil {
		t.Fatalf("CreateSwapchain() error = %v", err)
	}
	images, err := d.SwapchainImages(sc)
	if err != nil {
		t.Fatalf("SwapchainImages() error = %v", err)
	}
	fbs := make([]gpucore.Framebuffer, len(images))
	for i, img := range images {
		v, err := d.CreateImageView(img, desc)
		if err != nil {
			t.Fatalf("CreateImageView() error = %v", err)
		}
		if fbs[i], err = d.CreateFramebuffer(v, desc.Extent); err != nil {
			t.Fatalf("CreateFramebuffer() error = %v", err)
		}
	}
	return sc, fbs
}

func TestAcquireRoundRobin(t *testing.T) {
	d := New()
	sc, _ := newSwapchain(t, d)
	for i, want := range []uint32{0, 1, 0} {
		sem, _ := d.CreateSemaphore()
		got, err := d.AcquireNextImage(sc, sem)
		if err != nil {
			t.Fatalf("AcquireNextImage() error = %v", err)
		}
		if got != want {
			t.Errorf("acquire %d = %d, want %d", i, got, want)
		}
	}
}

func TestScriptedAcquire(t *testing.T) {
	d := New()
	sc, _ := newSwapchain(t, d)
	d.AcquireErrs = []error{shaderview.ErrSwapchainOutOfDate, shaderview.ErrSuboptimal, nil}

	sem, _ := d.CreateSemaphore()
	if _, err := d.AcquireNextImage(sc, sem); !errors.Is(err, shaderview.ErrSwapchainOutOfDate) {
		t.Errorf("acquire 1 error = %v, want out of date", err)
	}
	if _, err := d.AcquireNextImage(sc, sem); !errors.Is(err, shaderview.ErrSuboptimal) {
		t.Errorf("acquire 2 error = %v, want suboptimal", err)
	}
	if len(d.Violations()) != 0 {
		t.Errorf("Violations() = %v, want none", d.Violations())
	}
	// The suboptimal acquire signaled sem; acquiring into it again is misuse.
	if _, err := d.AcquireNextImage(sc, sem); err != nil {
		t.Errorf("acquire 3 error = %v", err)
	}
	if len(d.Violations()) != 1 {
		t.Errorf("Violations() = %v, want one", d.Violations())
	}
}

func TestFenceDoubleWait(t *testing.T) {
	d := New()
	f, _ := d.CreateFence(true)
	if err := d.WaitFence(f); err != nil {
		t.Fatalf("WaitFence() error = %v", err)
	}
	if err := d.WaitFence(f); err != nil {
		t.Fatalf("WaitFence() error = %v", err)
	}
	if got := d.FenceWaits(f); got != 2 {
		t.Errorf("FenceWaits() = %d, want 2", got)
	}
	if len(d.Violations()) != 1 {
		t.Errorf("Violations() = %v, want one double wait", d.Violations())
	}
}

func TestFenceNeverSignaled(t *testing.T) {
	d := New()
	f, _ := d.CreateFence(false)
	if err := d.WaitFence(f); err == nil {
		t.Error("WaitFence() on unsignaled fence succeeded, want error")
	}
}

func TestEncodeAndSubmit(t *testing.T) {
	d := New()
	sc, fbs := newSwapchain(t, d)
	cmd, _ := d.AllocateCommandBuffer()
	fence, _ := d.CreateFence(false)
	acquire, _ := d.CreateSemaphore()
	done, _ := d.CreateSemaphore()

	pl, err := d.CreatePipeline(testPipelineDesc())
	if err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}

	var pass render.Pass
	pass.Begin(render.ClearTan)
	_ = pass.BindPipeline(pl)
	_ = pass.PushConstants(1, 2)
	_ = pass.Draw(render.FullscreenVertices)
	if err := d.Encode(cmd, fbs[0], &pass); err == nil {
		t.Error("Encode() of recording pass succeeded, want error")
	}
	if err := pass.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if err := d.Encode(cmd, fbs[0], &pass); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	idx, err := d.AcquireNextImage(sc, acquire)
	if err != nil {
		t.Fatalf("AcquireNextImage() error = %v", err)
	}
	if err := d.Submit(gpucore.Submission{CommandBuffer: cmd, Wait: acquire, Signal: done, Fence: fence}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := d.Present(gpucore.Presentation{Swapchain: sc, ImageIndex: idx, Wait: done}); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	if d.LastClear() != render.ClearTan {
		t.Errorf("LastClear() = %v, want tan", d.LastClear())
	}
	wantOps := []render.Op{render.OpBindPipeline, render.OpPushConstants, render.OpDraw}
	gotOps := d.LastOps()
	if len(gotOps) != len(wantOps) {
		t.Fatalf("LastOps() = %v, want %v", gotOps, wantOps)
	}
	for i := range wantOps {
		if gotOps[i] != wantOps[i] {
			t.Errorf("LastOps()[%d] = %v, want %v", i, gotOps[i], wantOps[i])
		}
	}
	if push := d.LastPush(); len(push) != 1 || len(push[0]) != 2 || push[0][1] != 2 {
		t.Errorf("LastPush() = %v, want [[1 2]]", push)
	}
	if err := d.WaitFence(fence); err != nil {
		t.Errorf("WaitFence() after submit error = %v", err)
	}
	if len(d.Violations()) != 0 {
		t.Errorf("Violations() = %v, want none", d.Violations())
	}
}

func TestEncodeStalePipeline(t *testing.T) {
	d := New()
	_, fbs := newSwapchain(t, d)
	cmd, _ := d.AllocateCommandBuffer()
	pl, _ := d.CreatePipeline(testPipelineDesc())
	d.DestroyPipeline(pl)

	var pass render.Pass
	pass.Begin(render.ClearBlack)
	_ = pass.BindPipeline(pl)
	_ = pass.End()
	if err := d.Encode(cmd, fbs[0], &pass); !errors.Is(err, gpucore.ErrStaleHandle) {
		t.Errorf("Encode() error = %v, want ErrStaleHandle", err)
	}
}

func TestCreatePipelineLimits(t *testing.T) {
	d := New()
	desc := testPipelineDesc()
	desc.PushConstantSize = 4096
	if _, err := d.CreatePipeline(desc); err == nil {
		t.Error("CreatePipeline() over push budget succeeded, want error")
	}
	desc = testPipelineDesc()
	desc.Fragment.Words = nil
	if _, err := d.CreatePipeline(desc); err == nil {
		t.Error("CreatePipeline() without code succeeded, want error")
	}
}

func TestCloseReportsLeaks(t *testing.T) {
	d := New(WithRayTracing(true))
	if !d.Capabilities().RayTracing {
		t.Error("RayTracing = false, want true")
	}
	_, _ = d.CreateSemaphore()
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(d.Violations()) != 1 {
		t.Errorf("Violations() = %v, want one leak report", d.Violations())
	}
	if _, err := d.SurfaceCapabilities(); !errors.Is(err, shaderview.ErrSurfaceLost) {
		t.Errorf("SurfaceCapabilities() after Close error = %v, want ErrSurfaceLost", err)
	}
}
