package app

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FPSMonitor averages the frame rate over fixed intervals.
type FPSMonitor struct {
	interval time.Duration
	start    time.Duration
	frames   int
	fps      float64
	started  bool
	printer  *message.Printer
}

// NewFPSMonitor returns a monitor that updates every interval.
func NewFPSMonitor(interval time.Duration) *FPSMonitor {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &FPSMonitor{
		interval: interval,
		printer:  message.NewPrinter(language.English),
	}
}

// Frame counts a frame at time now and reports whether the rate was
// updated.
func (m *FPSMonitor) Frame(now time.Duration) bool {
	if !m.started {
		m.started = true
		m.start = now
		return false
	}
	m.frames++
	elapsed := now - m.start
	if elapsed < m.interval {
		return false
	}
	m.fps = float64(m.frames) / elapsed.Seconds()
	m.frames = 0
	m.start = now
	return true
}

// FPS returns the last computed rate.
func (m *FPSMonitor) FPS() float64 { return m.fps }

// Label returns the overlay text.
func (m *FPSMonitor) Label() string {
	return m.printer.Sprintf("FPS: %.1f", m.fps)
}
