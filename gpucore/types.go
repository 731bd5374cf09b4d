package gpucore

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Extent is a size in whole pixels.
type Extent struct {
	Width, Height uint32
}

// Extent3D converts e to a single-layer gputypes extent.
func (e Extent) Extent3D() gputypes.Extent3D {
	return gputypes.Extent3D{Width: e.Width, Height: e.Height, DepthOrArrayLayers: 1}
}

// IsZero reports whether either dimension is zero.
func (e Extent) IsZero() bool { return e.Width == 0 || e.Height == 0 }

// UndefinedExtent marks a surface whose extent is decided by the swapchain.
const UndefinedExtent = ^uint32(0)

// PresentMode selects how presented images are queued for display.
type PresentMode uint8

// Present modes.
const (
	PresentModeFifo PresentMode = iota
	PresentModeMailbox
	PresentModeImmediate
	PresentModeFifoRelaxed
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "fifo"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeImmediate:
		return "immediate"
	case PresentModeFifoRelaxed:
		return "fifo_relaxed"
	default:
		return fmt.Sprintf("PresentMode(%d)", uint8(m))
	}
}

// ParsePresentMode parses a present mode name. "vsync" is an alias of fifo.
func ParsePresentMode(s string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo", "vsync":
		return PresentModeFifo, nil
	case "mailbox":
		return PresentModeMailbox, nil
	case "immediate":
		return PresentModeImmediate, nil
	case "fifo_relaxed":
		return PresentModeFifoRelaxed, nil
	}
	return PresentModeFifo, fmt.Errorf("gpucore: unknown present mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m PresentMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PresentMode) UnmarshalText(text []byte) error {
	v, err := ParsePresentMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// SurfaceCapabilities describes what a window surface supports.
type SurfaceCapabilities struct {
	MinImageCount uint32
	// MaxImageCount is zero when there is no upper limit.
	MaxImageCount uint32

	// CurrentExtent is UndefinedExtent on both axes when the swapchain
	// decides the surface size.
	CurrentExtent Extent
	MinExtent     Extent
	MaxExtent     Extent

	Formats      []gputypes.TextureFormat
	PresentModes []PresentMode
}

// SwapchainDesc describes a swapchain to create.
type SwapchainDesc struct {
	Extent      Extent
	Format      gputypes.TextureFormat
	PresentMode PresentMode
	ImageCount  uint32
}

// Capabilities describes the device.
type Capabilities struct {
	// DeviceName is the human-readable adapter name.
	DeviceName string

	// RayTracing reports hardware ray-tracing pipeline support. It is a
	// capability flag only; nothing in this module traces rays.
	RayTracing bool

	// MaxPushConstantsSize is the push-constant budget in bytes.
	MaxPushConstantsSize uint32
}

// preferredFormats lists surface formats in order of preference.
var preferredFormats = []gputypes.TextureFormat{
	gputypes.TextureFormatBGRA8Unorm,
	gputypes.TextureFormatRGBA8Unorm,
}

// ChooseFormat picks the surface format to create the swapchain with.
// It prefers BGRA8 and falls back to the first format offered.
func ChooseFormat(available []gputypes.TextureFormat) (gputypes.TextureFormat, bool) {
	for _, want := range preferredFormats {
		for _, f := range available {
			if f == want {
				return f, true
			}
		}
	}
	for _, f := range available {
		if f != gputypes.TextureFormatUndefined {
			return f, true
		}
	}
	return gputypes.TextureFormatUndefined, false
}

// ChoosePresentMode returns preferred if the surface supports it, otherwise
// fifo, which every surface supports.
func ChoosePresentMode(available []PresentMode, preferred PresentMode) PresentMode {
	for _, m := range available {
		if m == preferred {
			return m
		}
	}
	return PresentModeFifo
}

// ChooseExtent returns the swapchain extent for a surface: the surface's
// current extent when it is defined, otherwise desired clamped to the
// supported range.
func ChooseExtent(caps SurfaceCapabilities, desired Extent) Extent {
	if caps.CurrentExtent.Width != UndefinedExtent {
		return caps.CurrentExtent
	}
	e := desired
	if caps.MaxExtent.Width > 0 {
		e.Width = min(max(e.Width, caps.MinExtent.Width), caps.MaxExtent.Width)
	}
	if caps.MaxExtent.Height > 0 {
		e.Height = min(max(e.Height, caps.MinExtent.Height), caps.MaxExtent.Height)
	}
	return e
}

// ChooseImageCount requests one image more than the minimum so the driver
// never blocks acquire on the presentation engine, capped by the maximum.
func ChooseImageCount(caps SurfaceCapabilities) uint32 {
	n := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && n > caps.MaxImageCount {
		n = caps.MaxImageCount
	}
	return max(n, 1)
}
