// Command shaderview opens a window and renders the shader viewer scenes.
//
// Usage:
//
//	shaderview [-config shaderview.toml] [-backend vulkan] [-stretch fit] [-shader dir] [-v]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/app"
	"github.com/gogpu/shaderview/config"
	"github.com/gogpu/shaderview/integration/sdlwindow"

	_ "github.com/gogpu/shaderview/backend/null"
	_ "github.com/gogpu/shaderview/backend/vulkan"
)

func init() {
	// SDL and the Vulkan surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "configuration file (.toml or .yaml)")
		backendArg = flag.String("backend", "", "render backend (vulkan, null)")
		stretch    = flag.String("stretch", "", "stretch policy (fit, scaled, disabled)")
		shaderDir  = flag.String("shader", "", "shader directory")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *configPath, *backendArg, *stretch, *shaderDir); err != nil {
		logger.Error("shaderview failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, backendName, stretch, shaderDir string) error {
	shaderview.SetLogger(logger)

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	if stretch != "" {
		if _, err := shaderview.ParseStretchPolicy(stretch); err != nil {
			return err
		}
		cfg.Stretch.Policy = stretch
	}
	if shaderDir != "" {
		cfg.Shaders.Dir = shaderDir
	}

	win, err := sdlwindow.New(cfg.Window)
	if err != nil {
		return err
	}
	defer win.Close()

	opts := []app.Option{app.WithLogger(logger), app.WithAlerter(win)}
	if backendName != "" {
		opts = append(opts, app.WithBackend(backendName))
	}
	rc, err := app.New(win, cfg, opts...)
	if err != nil {
		win.Alert("shaderview", fmt.Sprintf("Failed to start: %v", err))
		return err
	}
	defer rc.Close()

	for {
		win.Poll(rc)
		if rc.Tick() {
			return nil
		}
	}
}
