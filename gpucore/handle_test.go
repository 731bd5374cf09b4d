package gpucore

import (
	"errors"
	"testing"
)

func TestArenaInsertGet(t *testing.T) {
	var a Arena[FenceKind, string]
	h1 := a.Insert("a")
	h2 := a.Insert("b")

	if !h1.IsValid() || !h2.IsValid() {
		t.Fatal("Insert() returned null handle")
	}
	if h1 == h2 {
		t.Fatalf("Insert() returned duplicate handles %v", h1)
	}
	if v, ok := a.Get(h1); !ok || v != "a" {
		t.Errorf("Get(h1) = %q, %v, want a, true", v, ok)
	}
	if got := a.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestArenaStaleHandle(t *testing.T) {
	var a Arena[ImageViewKind, int]
	old := a.Insert(1)
	if _, ok := a.Remove(old); !ok {
		t.Fatal("Remove() = false, want true")
	}
	fresh := a.Insert(2)

	if fresh.Index() != old.Index() {
		t.Fatalf("slot not reused: old %v fresh %v", old, fresh)
	}
	if _, ok := a.Get(old); ok {
		t.Error("Get(stale) = ok, want miss")
	}
	if a.Set(old, 5) {
		t.Error("Set(stale) = true, want false")
	}
	if _, err := a.MustGet(old); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("MustGet(stale) error = %v, want ErrStaleHandle", err)
	}
	if v, _ := a.Get(fresh); v != 2 {
		t.Errorf("Get(fresh) = %d, want 2", v)
	}
}

func TestArenaNullHandle(t *testing.T) {
	var a Arena[SemaphoreKind, int]
	var null Semaphore
	if null.IsValid() {
		t.Error("zero Handle.IsValid() = true")
	}
	if a.Contains(null) {
		t.Error("Contains(null) = true")
	}
	if _, ok := a.Remove(null); ok {
		t.Error("Remove(null) = true")
	}
	if null.String() != "null" {
		t.Errorf("String() = %q, want null", null.String())
	}
}

func TestArenaAll(t *testing.T) {
	var a Arena[PipelineKind, int]
	hs := []Pipeline{a.Insert(10), a.Insert(20), a.Insert(30)}
	a.Remove(hs[1])

	sum := 0
	n := 0
	for h, v := range a.All() {
		if !a.Contains(h) {
			t.Errorf("All() yielded dead handle %v", h)
		}
		sum += v
		n++
	}
	if n != 2 || sum != 40 {
		t.Errorf("All() visited %d objects summing %d, want 2 and 40", n, sum)
	}
}
