package present

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/gpucore"
)

// Pacer errors.
var (
	// ErrRetry is returned by BeginFrame and SubmitAndPresent when the
	// swapchain must be recreated. The current frame is skipped.
	ErrRetry = errors.New("present: swapchain needs recreate")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("present: pacer closed")

	// ErrFrameState is returned when frame operations are called out of
	// order.
	ErrFrameState = errors.New("present: frame operation out of order")
)

// DefaultFramesInFlight is the default number of frame slots.
const DefaultFramesInFlight = 2

// FrameState is the phase of the frame currently owned by a Pacer.
type FrameState uint8

// Frame phases. A frame moves Idle → Acquiring → Recording → Submitted →
// Presenting → Idle.
const (
	FrameIdle FrameState = iota
	FrameAcquiring
	FrameRecording
	FrameSubmitted
	FramePresenting
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameAcquiring:
		return "acquiring"
	case FrameRecording:
		return "recording"
	case FrameSubmitted:
		return "submitted"
	case FramePresenting:
		return "presenting"
	default:
		return fmt.Sprintf("FrameState(%d)", uint8(s))
	}
}

// slot is one frame in flight.
type slot struct {
	acquire gpucore.Semaphore
	submit  gpucore.Semaphore
	fence   gpucore.Fence
	cmd     gpucore.CommandBuffer

	// waited is set once the fence has been waited on since the last
	// submit, so a retried BeginFrame does not wait twice.
	waited bool

	// pending is set between a submit and the next wait on the fence.
	pending bool

	// acquireStale is set when an acquire signaled the semaphore but the
	// frame was abandoned; the semaphore is replaced before reuse.
	acquireStale bool
}

// Frame is an acquired swapchain image ready for recording.
type Frame struct {
	// Slot is the ring index of the frame slot.
	Slot int

	ImageIndex    uint32
	CommandBuffer gpucore.CommandBuffer
	Framebuffer   gpucore.Framebuffer
	Extent        gpucore.Extent

	// Generation is the swapchain generation the image belongs to.
	Generation uint64
}

// Pacer exclusively owns the per-frame synchronization objects and the
// frame-index ring.
type Pacer struct {
	dev       gpucore.Device
	lifecycle *Lifecycle
	slots     []slot
	index     int
	state     FrameState
	closed    bool
	log       *slog.Logger
}

// NewPacer creates n frame slots on dev. Fences are created signaled so the
// first wait on each slot returns immediately.
func NewPacer(dev gpucore.Device, lifecycle *Lifecycle, n int) (*Pacer, error) {
	if n < 1 {
		return nil, fmt.Errorf("present: frames in flight must be at least 1, got %d", n)
	}
	p := &Pacer{
		dev:       dev,
		lifecycle: lifecycle,
		slots:     make([]slot, 0, n),
		log:       shaderview.ComponentLogger("present"),
	}
	for i := range n {
		s, err := p.newSlot()
		if err != nil {
			p.destroySlots()
			return nil, fmt.Errorf("present: frame slot %d: %w", i, err)
		}
		p.slots = append(p.slots, s)
	}
	return p, nil
}

func (p *Pacer) newSlot() (slot, error) {
	var s slot
	var err error
	if s.acquire, err = p.dev.CreateSemaphore(); err != nil {
		return s, err
	}
	if s.submit, err = p.dev.CreateSemaphore(); err != nil {
		p.dev.DestroySemaphore(s.acquire)
		return s, err
	}
	if s.fence, err = p.dev.CreateFence(true); err != nil {
		p.dev.DestroySemaphore(s.acquire)
		p.dev.DestroySemaphore(s.submit)
		return s, err
	}
	if s.cmd, err = p.dev.AllocateCommandBuffer(); err != nil {
		p.dev.DestroySemaphore(s.acquire)
		p.dev.DestroySemaphore(s.submit)
		p.dev.DestroyFence(s.fence)
		return s, err
	}
	return s, nil
}

// FramesInFlight returns N.
func (p *Pacer) FramesInFlight() int { return len(p.slots) }

// Index returns the current ring index.
func (p *Pacer) Index() int { return p.index }

// State returns the phase of the current frame.
func (p *Pacer) State() FrameState { return p.state }

// BeginFrame waits for the current slot's fence and acquires the next
// swapchain image with the slot's acquire semaphore.
//
// When the swapchain is out of date or suboptimal it returns an error
// matching ErrRetry (and the underlying sentinel) without advancing the
// ring index; the caller recreates the swapchain and skips the frame.
func (p *Pacer) BeginFrame() (Frame, error) {
	if p.closed {
		return Frame{}, ErrClosed
	}
	if p.state != FrameIdle {
		return Frame{}, fmt.Errorf("%w: BeginFrame in state %v", ErrFrameState, p.state)
	}
	st := p.lifecycle.State()
	if st == nil {
		return Frame{}, fmt.Errorf("%w: %w", ErrRetry, ErrNotCreated)
	}

	s := &p.slots[p.index]
	p.state = FrameAcquiring
	if !s.waited {
		if err := p.dev.WaitFence(s.fence); err != nil {
			p.state = FrameIdle
			return Frame{}, fmt.Errorf("present: wait fence: %w", err)
		}
		s.waited = true
		s.pending = false
	}
	if s.acquireStale {
		if err := p.replaceAcquire(s); err != nil {
			p.state = FrameIdle
			return Frame{}, err
		}
	}

	idx, err := p.dev.AcquireNextImage(st.Swapchain, s.acquire)
	if err != nil {
		p.state = FrameIdle
		if shaderview.IsRecoverable(err) {
			if errors.Is(err, shaderview.ErrSuboptimal) {
				s.acquireStale = true
			}
			p.log.Debug("acquire needs recreate", "slot", p.index, "err", err)
			return Frame{}, fmt.Errorf("%w: %w", ErrRetry, err)
		}
		return Frame{}, fmt.Errorf("present: acquire: %w", err)
	}

	fb, err := st.Framebuffer(idx)
	if err != nil {
		p.state = FrameIdle
		s.acquireStale = true
		return Frame{}, err
	}
	p.state = FrameRecording
	return Frame{
		Slot:          p.index,
		ImageIndex:    idx,
		CommandBuffer: s.cmd,
		Framebuffer:   fb,
		Extent:        st.Desc.Extent,
		Generation:    st.Generation,
	}, nil
}

// replaceAcquire swaps a possibly signaled acquire semaphore for a fresh
// one. The device is drained first so no pending signal targets the old
// semaphore.
func (p *Pacer) replaceAcquire(s *slot) error {
	if err := p.dev.WaitIdle(); err != nil {
		return fmt.Errorf("present: replace acquire semaphore: %w", err)
	}
	sem, err := p.dev.CreateSemaphore()
	if err != nil {
		return fmt.Errorf("present: replace acquire semaphore: %w", err)
	}
	p.dev.DestroySemaphore(s.acquire)
	s.acquire = sem
	s.acquireStale = false
	return nil
}

// AbortFrame gives up on a frame returned by BeginFrame without submitting
// it, for example when recording failed. The slot's acquire semaphore was
// signaled and is replaced before the slot acquires again. The ring index
// does not advance.
func (p *Pacer) AbortFrame(f Frame) error {
	if p.closed {
		return ErrClosed
	}
	if p.state != FrameRecording || f.Slot != p.index {
		return fmt.Errorf("%w: AbortFrame in state %v for slot %d", ErrFrameState, p.state, f.Slot)
	}
	p.state = FrameIdle
	p.slots[p.index].acquireStale = true
	p.log.Debug("frame aborted", "slot", p.index, "image", f.ImageIndex)
	return nil
}

// SubmitAndPresent resets the slot's fence, submits the recorded command
// buffer waiting on the acquire semaphore and signaling the submit
// semaphore and the fence, then presents waiting on the submit semaphore.
//
// Once the present call returns, the ring index advances to (i+1) mod N,
// even when presentation reports an out-of-date swapchain; in that case
// the returned error matches ErrRetry.
func (p *Pacer) SubmitAndPresent(f Frame) error {
	if p.closed {
		return ErrClosed
	}
	if p.state != FrameRecording || f.Slot != p.index {
		return fmt.Errorf("%w: SubmitAndPresent in state %v for slot %d", ErrFrameState, p.state, f.Slot)
	}
	st := p.lifecycle.State()
	if st == nil || st.Generation != f.Generation {
		p.state = FrameIdle
		p.slots[p.index].acquireStale = true
		return fmt.Errorf("%w: frame from swapchain generation %d", ErrRetry, f.Generation)
	}

	s := &p.slots[p.index]
	if err := p.dev.ResetFence(s.fence); err != nil {
		p.state = FrameIdle
		s.acquireStale = true
		return fmt.Errorf("present: reset fence: %w", err)
	}
	err := p.dev.Submit(gpucore.Submission{
		CommandBuffer: s.cmd,
		Wait:          s.acquire,
		Signal:        s.submit,
		Fence:         s.fence,
	})
	if err != nil {
		// The fence was reset but never submitted; s.waited stays set so
		// the next BeginFrame does not wait on it.
		p.state = FrameIdle
		s.acquireStale = true
		return fmt.Errorf("present: submit: %w", err)
	}
	s.waited = false
	s.pending = true
	p.state = FrameSubmitted

	p.state = FramePresenting
	err = p.dev.Present(gpucore.Presentation{
		Swapchain:  st.Swapchain,
		ImageIndex: f.ImageIndex,
		Wait:       s.submit,
	})
	p.index = (p.index + 1) % len(p.slots)
	p.state = FrameIdle

	if err != nil {
		if shaderview.IsRecoverable(err) {
			p.log.Debug("present needs recreate", "err", err)
			return fmt.Errorf("%w: %w", ErrRetry, err)
		}
		return fmt.Errorf("present: present: %w", err)
	}
	return nil
}

// InFlight returns the number of slots with submitted work whose fence has
// not been waited on yet.
func (p *Pacer) InFlight() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].pending {
			n++
		}
	}
	return n
}

// Close waits for the device to go idle and destroys all frame slots.
// Further frame calls return ErrClosed. Close is idempotent.
func (p *Pacer) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	err := p.dev.WaitIdle()
	p.destroySlots()
	if err != nil {
		return fmt.Errorf("present: wait idle: %w", err)
	}
	return nil
}

func (p *Pacer) destroySlots() {
	for _, s := range p.slots {
		p.dev.FreeCommandBuffer(s.cmd)
		p.dev.DestroyFence(s.fence)
		p.dev.DestroySemaphore(s.submit)
		p.dev.DestroySemaphore(s.acquire)
	}
	p.slots = nil
}
