package backend_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/backend"
	"github.com/gogpu/shaderview/backend/null"
	"github.com/gogpu/shaderview/gpucore"
	"github.com/gogpu/shaderview/shader"
)

type fixedTarget struct{ w, h int }

func (t fixedTarget) ClientSize() (int, int) { return t.w, t.h }

type namedBackend struct {
	null.Backend
	name string
}

func (b namedBackend) Name() string { return b.name }

func TestRegistryRegisterAndGet(t *testing.T) {
	// The null backend is registered by importing its package.
	if !backend.IsRegistered(backend.BackendNull) {
		t.Error("null backend should be registered")
	}

	b := backend.Get(backend.BackendNull)
	if b == nil {
		t.Fatal("Get(null) returned nil")
	}
	if b.Name() != backend.BackendNull {
		t.Errorf("Get(null).Name() = %q, want %q", b.Name(), backend.BackendNull)
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	if b := backend.Get("nonexistent"); b != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryAvailable(t *testing.T) {
	if !slices.Contains(backend.Available(), backend.BackendNull) {
		t.Error("Available() should include 'null'")
	}
}

func TestRegistryDefaultPrefersKnownBackends(t *testing.T) {
	backend.Register("aaa", func() backend.RenderBackend { return namedBackend{name: "aaa"} })
	t.Cleanup(func() { backend.Unregister("aaa") })

	b := backend.Default()
	if b == nil {
		t.Fatal("Default() = nil")
	}
	if b.Name() != backend.BackendNull {
		t.Errorf("Default().Name() = %q, want %q", b.Name(), backend.BackendNull)
	}
	if got := backend.Available(); !slices.IsSorted(got) {
		t.Errorf("Available() = %v, want sorted", got)
	}
}

func TestRegistryUnregister(t *testing.T) {
	backend.Register("test-backend", func() backend.RenderBackend { return null.Backend{} })
	if !backend.IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}

	backend.Unregister("test-backend")
	if backend.IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

func TestOpen(t *testing.T) {
	dev, err := backend.Open(backend.BackendNull, fixedTarget{640, 480}, backend.Options{})
	if err != nil {
		t.Fatalf("Open(null) error = %v", err)
	}
	defer dev.Close()

	caps, err := dev.SurfaceCapabilities()
	if err != nil {
		t.Fatalf("SurfaceCapabilities() error = %v", err)
	}
	if want := (gpucore.Extent{Width: 640, Height: 480}); caps.CurrentExtent != want {
		t.Errorf("CurrentExtent = %v, want %v", caps.CurrentExtent, want)
	}

	_, err = backend.Open("nonexistent", fixedTarget{}, backend.Options{})
	if !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Errorf("Open(nonexistent) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestPipelinesCreate(t *testing.T) {
	dev := null.New()
	pipes := backend.NewPipelines(dev, shader.NewLoader(t.TempDir()))

	pl, err := pipes.Create("shader", "builtin:fullscreen", "builtin:plasma", 8)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	desc, ok := dev.Pipeline(pl)
	if !ok {
		t.Fatal("pipeline not live on device")
	}
	if desc.Fragment.Entry != "fs_main" || desc.PushConstantSize != 8 {
		t.Errorf("desc = {entry %q, push %d}, want {fs_main, 8}", desc.Fragment.Entry, desc.PushConstantSize)
	}
	pipes.Destroy(pl)
	pipes.Destroy(gpucore.Pipeline{})
	if dev.LivePipelines() != 0 {
		t.Errorf("LivePipelines() = %d, want 0", dev.LivePipelines())
	}
}

func TestPipelinesCreateFailure(t *testing.T) {
	dev := null.New()
	pipes := backend.NewPipelines(dev, shader.NewLoader(t.TempDir()))

	_, err := pipes.Create("cubes", "builtin:fullscreen", "missing.frag", 28)
	if !errors.Is(err, shaderview.ErrPipelineCompileFailed) {
		t.Fatalf("Create() error = %v, want ErrPipelineCompileFailed", err)
	}
	var pe *shaderview.PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("Create() error = %T, want *PipelineError", err)
	}
	if pe.Scene != "cubes" || pe.Frag != "missing.frag" {
		t.Errorf("PipelineError = %+v", pe)
	}

	boom := errors.New("driver rejected pipeline")
	dev.PipelineErr = func(backend.PipelineDesc) error { return boom }
	_, err = pipes.Create("shader", "builtin:fullscreen", "builtin:plasma", 8)
	if !errors.Is(err, boom) || !errors.Is(err, shaderview.ErrPipelineCompileFailed) {
		t.Errorf("Create() error = %v, want both driver error and ErrPipelineCompileFailed", err)
	}
}
