package scene

import (
	"slices"
	"strings"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/config"
	"github.com/gogpu/shaderview/gpucore"
	"github.com/gogpu/shaderview/render"
	"github.com/gogpu/shaderview/shader"
)

// PipelineFactory creates and destroys scene pipelines from shader paths.
// *backend.Pipelines implements it.
type PipelineFactory interface {
	Create(name, vertexPath, fragmentPath string, pushSize uint32) (gpucore.Pipeline, error)
	Destroy(gpucore.Pipeline)
}

// PipelineSpec describes the pipeline of one scene.
type PipelineSpec struct {
	Name     string
	Vertex   string
	Fragment string
	PushSize uint32
}

// Specs returns the pipeline specs of the shader and cube scenes.
func Specs(cfg config.Shaders) map[Kind]PipelineSpec {
	return map[Kind]PipelineSpec{
		KindShader: {
			Name:     "shader",
			Vertex:   cfg.Vertex,
			Fragment: cfg.Fragment,
			PushSize: render.ShaderPushSize,
		},
		KindLoadingCubes: {
			Name:     "cubes",
			Vertex:   cfg.Vertex,
			Fragment: cfg.CubesFragment,
			PushSize: render.CubesPushSize,
		},
	}
}

// PipelineCache creates scene pipelines on first use and keeps them until
// they are invalidated.
type PipelineCache struct {
	factory PipelineFactory
	specs   map[Kind]PipelineSpec
	resolve func(string) string
	live    map[Kind]gpucore.Pipeline
	builds  map[Kind]int
}

// NewPipelineCache returns an empty cache. resolve maps a shader path to
// the file system path reported by file watching; nil means identity.
func NewPipelineCache(f PipelineFactory, specs map[Kind]PipelineSpec, resolve func(string) string) *PipelineCache {
	if resolve == nil {
		resolve = func(p string) string { return p }
	}
	return &PipelineCache{
		factory: f,
		specs:   specs,
		resolve: resolve,
		live:    make(map[Kind]gpucore.Pipeline),
		builds:  make(map[Kind]int),
	}
}

// Get returns the pipeline of scene k, creating it if needed. Repeated
// calls return the same pipeline without creating another.
func (c *PipelineCache) Get(k Kind) (gpucore.Pipeline, error) {
	if pl, ok := c.live[k]; ok {
		return pl, nil
	}
	spec, ok := c.specs[k]
	if !ok {
		return gpucore.Pipeline{}, &shaderview.PipelineError{Scene: k.String(), Err: errNoSpec}
	}
	pl, err := c.factory.Create(spec.Name, spec.Vertex, spec.Fragment, spec.PushSize)
	if err != nil {
		return gpucore.Pipeline{}, err
	}
	c.live[k] = pl
	c.builds[k]++
	return pl, nil
}

// Lookup returns the pipeline of scene k if it has been created.
func (c *PipelineCache) Lookup(k Kind) (gpucore.Pipeline, bool) {
	pl, ok := c.live[k]
	return pl, ok
}

// Created reports whether the pipeline of scene k exists.
func (c *PipelineCache) Created(k Kind) bool {
	_, ok := c.live[k]
	return ok
}

// Builds returns how many times the pipeline of scene k has been created.
func (c *PipelineCache) Builds(k Kind) int { return c.builds[k] }

// Invalidate destroys the pipelines built from the shader file at path and
// returns their scenes. The next Get rebuilds them.
func (c *PipelineCache) Invalidate(path string) []Kind {
	var kinds []Kind
	for k, spec := range c.specs {
		if !c.matches(spec.Vertex, path) && !c.matches(spec.Fragment, path) {
			continue
		}
		if pl, ok := c.live[k]; ok {
			c.factory.Destroy(pl)
			delete(c.live, k)
			kinds = append(kinds, k)
		}
	}
	slices.Sort(kinds)
	return kinds
}

// matches compares a configured shader path with a changed file path,
// ignoring a .spv extension on either side.
func (c *PipelineCache) matches(configured, changed string) bool {
	if strings.HasPrefix(configured, shader.BuiltinPrefix) {
		return false
	}
	a := strings.TrimSuffix(c.resolve(configured), ".spv")
	b := strings.TrimSuffix(changed, ".spv")
	return a == b
}

// Close destroys every live pipeline.
func (c *PipelineCache) Close() {
	for k, pl := range c.live {
		c.factory.Destroy(pl)
		delete(c.live, k)
	}
}
