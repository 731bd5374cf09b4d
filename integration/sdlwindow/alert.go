package sdlwindow

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/gogpu/shaderview"
)

// Alert shows a modal error dialog over the window. It blocks until the
// user dismisses it.
func (w *Window) Alert(title, message string) {
	var parent *sdl.Window
	if !w.closed {
		parent = w.win
	}
	if err := sdl.ShowSimpleMessageBox(sdl.MESSAGEBOX_ERROR, title, message, parent); err != nil {
		shaderview.Logger().Warn("message box failed", "title", title, "err", err)
	}
}
