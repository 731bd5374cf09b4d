// Package sdlwindow provides an SDL2 window for the shaderview render
// context.
//
// The [Window] type satisfies app.Window and the Vulkan backend's window
// interface, translates SDL events into scene events and shows error
// dialogs:
//
//	win, err := sdlwindow.New(cfg.Window)
//	if err != nil {
//	    return err
//	}
//	defer win.Close()
//
//	rc, err := app.New(win, cfg, app.WithAlerter(win))
//	...
//	for !quit {
//	    win.Poll(rc)
//	    quit = rc.Tick()
//	}
//
// # Thread Safety
//
// SDL must be driven from the thread that initialized it. Lock the main
// goroutine to its thread with runtime.LockOSThread before calling New.
package sdlwindow
