package shader

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed shaders/*.wgsl
var builtinFS embed.FS

// UIPushSize is the size in bytes of the ui builtin's push-constant block.
const UIPushSize = 9 * 4

// Builtin returns the WGSL source of an embedded shader. The .wgsl
// extension is optional.
func Builtin(name string) (string, bool) {
	src, err := builtinFS.ReadFile(path.Join("shaders", strings.TrimSuffix(name, ".wgsl")+".wgsl"))
	if err != nil {
		return "", false
	}
	return string(src), true
}

// Builtins returns the names of the embedded shaders, sorted.
func Builtins() []string {
	entries, _ := fs.ReadDir(builtinFS, "shaders")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".wgsl"))
	}
	slices.Sort(names)
	return names
}
