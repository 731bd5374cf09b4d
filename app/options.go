package app

import (
	"log/slog"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/backend"
	"github.com/gogpu/shaderview/scene"
)

// Option configures a RenderContext during creation.
//
// Example:
//
//	rc, err := app.New(window, cfg,
//	    app.WithBackend("null"),
//	    app.WithAlerter(scene.AlertFunc(showMessageBox)))
type Option func(*options)

type options struct {
	logger  *slog.Logger
	backend string
	device  backend.Device
	clock   Clock
	alerter scene.Alerter
}

func defaultOptions() options {
	return options{clock: NewClock()}
}

// WithLogger installs l as the shaderview logger before anything is
// created. It is equivalent to calling shaderview.SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithBackend selects a registered backend by name, overriding the
// configuration.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithDevice uses an already opened device instead of opening a backend.
// The RenderContext takes ownership and closes it.
func WithDevice(dev backend.Device) Option {
	return func(o *options) {
		o.device = dev
	}
}

// WithClock sets the clock Tick reads frame times from.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithAlerter sets where user-visible errors are shown.
func WithAlerter(a scene.Alerter) Option {
	return func(o *options) {
		o.alerter = a
	}
}

func (o *options) apply() {
	if o.logger != nil {
		shaderview.SetLogger(o.logger)
	}
}
