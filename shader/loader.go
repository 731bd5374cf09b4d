package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/shaderview"
)

// ErrUnsupportedFormat is returned for shader files that are neither
// SPIR-V nor WGSL.
var ErrUnsupportedFormat = errors.New("shader: unsupported format")

// BuiltinPrefix marks paths that resolve to embedded WGSL sources.
const BuiltinPrefix = "builtin:"

// Stage is a pipeline stage.
type Stage uint8

// Stages.
const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// wgslEntry returns the entry point WGSL modules use for s.
func (s Stage) wgslEntry() string {
	if s == StageVertex {
		return "vs_main"
	}
	return "fs_main"
}

// Module is a loaded shader stage.
type Module struct {
	// Path is the path the module was actually loaded from, after
	// fallback resolution.
	Path  string
	Stage Stage
	Entry string
	Words []uint32
}

// Loader reads shader modules relative to a base directory.
type Loader struct {
	dir string
	log *slog.Logger
}

// NewLoader returns a loader that resolves relative paths against dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, log: shaderview.ComponentLogger("shader")}
}

// Resolve returns the file system path for a shader path. Builtin paths
// are returned unchanged.
func (l *Loader) Resolve(path string) string {
	if strings.HasPrefix(path, BuiltinPrefix) || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.dir, path)
}

// Load loads the module at path for the given stage.
func (l *Loader) Load(path string, stage Stage) (Module, error) {
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		src, ok := Builtin(name)
		if !ok {
			return Module{}, fmt.Errorf("shader: unknown builtin %q: %w", name, fs.ErrNotExist)
		}
		words, err := CompileWGSL(src)
		if err != nil {
			return Module{}, fmt.Errorf("shader: builtin %q: %w", name, err)
		}
		return Module{Path: path, Stage: stage, Entry: stage.wgslEntry(), Words: words}, nil
	}

	data, resolved, err := l.read(path)
	if err != nil {
		return Module{}, err
	}
	m := Module{Path: resolved, Stage: stage}
	switch {
	case strings.HasSuffix(resolved, ".wgsl"):
		m.Entry = stage.wgslEntry()
		m.Words, err = CompileWGSL(string(data))
	default:
		m.Entry = "main"
		m.Words, err = Words(data)
		if errors.Is(err, ErrInvalidSPIRV) && !strings.HasSuffix(resolved, ".spv") {
			err = fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, resolved, err)
		}
	}
	if err != nil {
		return Module{}, fmt.Errorf("shader: %s: %w", resolved, err)
	}
	return m, nil
}

// read reads path, retrying with the .spv extension toggled.
func (l *Loader) read(path string) ([]byte, string, error) {
	clean := l.Resolve(path)
	data, err := os.ReadFile(clean)
	if err == nil {
		return data, clean, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, "", fmt.Errorf("shader: read %s: %w", clean, err)
	}

	alt := clean + ".spv"
	if trimmed, ok := strings.CutSuffix(clean, ".spv"); ok {
		alt = trimmed
	}
	data, altErr := os.ReadFile(alt)
	if altErr != nil {
		return nil, "", fmt.Errorf("shader: read %s: %w", clean, err)
	}
	l.log.Info("shader path fallback", "requested", clean, "loaded", alt)
	return data, alt, nil
}
