package sdlwindow

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/config"
)

// Window is a resizable SDL window with a Vulkan drawable.
type Window struct {
	win    *sdl.Window
	closed bool
}

// New initializes SDL video and opens a window configured by cfg.
func New(cfg config.Window) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdlwindow: init: %w", err)
	}
	win, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdlwindow: create window: %w", err)
	}
	if cfg.MinWidth > 0 && cfg.MinHeight > 0 {
		win.SetMinimumSize(int32(cfg.MinWidth), int32(cfg.MinHeight))
	}
	shaderview.Logger().Info("window opened", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
	return &Window{win: win}, nil
}

// SDLWindow returns the underlying SDL window.
func (w *Window) SDLWindow() *sdl.Window { return w.win }

// ClientSize returns the drawable size in pixels, which differs from the
// window size on high-density displays.
func (w *Window) ClientSize() (width, height int) {
	if w.closed {
		return 0, 0
	}
	dw, dh := w.win.VulkanGetDrawableSize()
	return int(dw), int(dh)
}

// IsMinimized reports whether the window is iconified.
func (w *Window) IsMinimized() bool {
	if w.closed {
		return true
	}
	return w.win.GetFlags()&sdl.WINDOW_MINIMIZED != 0
}

// pixelScale returns drawable pixels per window coordinate.
func (w *Window) pixelScale() (sx, sy float32) {
	ww, wh := w.win.GetSize()
	dw, dh := w.win.VulkanGetDrawableSize()
	if ww <= 0 || wh <= 0 || dw <= 0 || dh <= 0 {
		return 1, 1
	}
	return float32(dw) / float32(ww), float32(dh) / float32(wh)
}

// Close destroys the window and shuts SDL down. Close is idempotent.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.win.Destroy()
	sdl.Quit()
	if err != nil {
		return fmt.Errorf("sdlwindow: destroy: %w", err)
	}
	return nil
}
