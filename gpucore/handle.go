package gpucore

import (
	"errors"
	"fmt"
	"iter"
)

// ErrStaleHandle is returned when a handle refers to an object that was
// already destroyed.
var ErrStaleHandle = errors.New("gpucore: stale handle")

// Handle is a typed, generation-checked index into an Arena. The zero value
// is the null handle.
type Handle[K any] struct {
	index uint32
	gen   uint32
}

// IsValid reports whether h was issued by an Arena. It does not report
// whether the object is still alive; use Arena.Contains for that.
func (h Handle[K]) IsValid() bool { return h.gen != 0 }

// Index returns the slot index of h.
func (h Handle[K]) Index() uint32 { return h.index }

func (h Handle[K]) String() string {
	if !h.IsValid() {
		return "null"
	}
	return fmt.Sprintf("%d#%d", h.index, h.gen)
}

// Resource kinds. They are only used as Handle type parameters.
type (
	SemaphoreKind     struct{}
	FenceKind         struct{}
	CommandBufferKind struct{}
	SwapchainKind     struct{}
	ImageKind         struct{}
	ImageViewKind     struct{}
	FramebufferKind   struct{}
	PipelineKind      struct{}
	ShaderModuleKind  struct{}
)

// Typed handles.
type (
	Semaphore     = Handle[SemaphoreKind]
	Fence         = Handle[FenceKind]
	CommandBuffer = Handle[CommandBufferKind]
	Swapchain     = Handle[SwapchainKind]
	Image         = Handle[ImageKind]
	ImageView     = Handle[ImageViewKind]
	Framebuffer   = Handle[FramebufferKind]
	Pipeline      = Handle[PipelineKind]
	ShaderModule  = Handle[ShaderModuleKind]
)

type arenaSlot[V any] struct {
	value V
	gen   uint32
	live  bool
}

// Arena stores objects of type V addressed by Handle[K]. Removed slots are
// reused with a bumped generation. The zero value is ready to use.
//
// Arena is not safe for concurrent use; every arena is owned by the single
// render thread.
type Arena[K, V any] struct {
	slots []arenaSlot[V]
	free  []uint32
	live  int
}

// Insert stores v and returns its handle.
func (a *Arena[K, V]) Insert(v V) Handle[K] {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot[V]{})
	}
	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.value = v
	s.live = true
	a.live++
	return Handle[K]{index: idx, gen: s.gen}
}

func (a *Arena[K, V]) slot(h Handle[K]) *arenaSlot[V] {
	if !h.IsValid() || int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return s
}

// Get returns the object h refers to.
func (a *Arena[K, V]) Get(h Handle[K]) (V, bool) {
	if s := a.slot(h); s != nil {
		return s.value, true
	}
	var zero V
	return zero, false
}

// MustGet returns the object h refers to or ErrStaleHandle.
func (a *Arena[K, V]) MustGet(h Handle[K]) (V, error) {
	v, ok := a.Get(h)
	if !ok {
		return v, fmt.Errorf("%w: %v", ErrStaleHandle, h)
	}
	return v, nil
}

// Set replaces the object h refers to. It reports false for a stale handle.
func (a *Arena[K, V]) Set(h Handle[K], v V) bool {
	s := a.slot(h)
	if s == nil {
		return false
	}
	s.value = v
	return true
}

// Contains reports whether h refers to a live object.
func (a *Arena[K, V]) Contains(h Handle[K]) bool {
	return a.slot(h) != nil
}

// Remove deletes the object h refers to and returns it.
func (a *Arena[K, V]) Remove(h Handle[K]) (V, bool) {
	s := a.slot(h)
	if s == nil {
		var zero V
		return zero, false
	}
	v := s.value
	var zero V
	s.value = zero
	s.live = false
	a.free = append(a.free, h.index)
	a.live--
	return v, true
}

// Len returns the number of live objects.
func (a *Arena[K, V]) Len() int { return a.live }

// All iterates over live objects in slot order.
func (a *Arena[K, V]) All() iter.Seq2[Handle[K], V] {
	return func(yield func(Handle[K], V) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if !s.live {
				continue
			}
			if !yield(Handle[K]{index: uint32(i), gen: s.gen}, s.value) {
				return
			}
		}
	}
}
