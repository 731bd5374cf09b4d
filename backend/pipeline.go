package backend

import (
	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/gpucore"
	"github.com/gogpu/shaderview/shader"
)

// Pipelines builds scene pipelines from shader paths.
type Pipelines struct {
	dev    Device
	loader *shader.Loader
}

// NewPipelines returns a pipeline factory that loads shaders with loader
// and creates pipelines on dev.
func NewPipelines(dev Device, loader *shader.Loader) *Pipelines {
	return &Pipelines{dev: dev, loader: loader}
}

// Loader returns the shader loader.
func (p *Pipelines) Loader() *shader.Loader { return p.loader }

// Create loads both stages and creates the pipeline. Any failure is
// returned as a *shaderview.PipelineError.
func (p *Pipelines) Create(name, vertexPath, fragmentPath string, pushSize uint32) (gpucore.Pipeline, error) {
	fail := func(err error) (gpucore.Pipeline, error) {
		return gpucore.Pipeline{}, &shaderview.PipelineError{
			Scene:  name,
			Vertex: vertexPath,
			Frag:   fragmentPath,
			Err:    err,
		}
	}
	vs, err := p.loader.Load(vertexPath, shader.StageVertex)
	if err != nil {
		return fail(err)
	}
	fs, err := p.loader.Load(fragmentPath, shader.StageFragment)
	if err != nil {
		return fail(err)
	}
	pl, err := p.dev.CreatePipeline(PipelineDesc{
		Name:             name,
		Vertex:           vs,
		Fragment:         fs,
		PushConstantSize: pushSize,
	})
	if err != nil {
		return fail(err)
	}
	shaderview.Logger().Info("pipeline created", "name", name, "vertex", vs.Path, "fragment", fs.Path)
	return pl, nil
}

// Destroy waits for the device to go idle, then releases a pipeline.
func (p *Pipelines) Destroy(pl gpucore.Pipeline) {
	if !pl.IsValid() {
		return
	}
	if err := p.dev.WaitIdle(); err != nil {
		shaderview.Logger().Warn("wait idle before pipeline destroy", "err", err)
	}
	p.dev.DestroyPipeline(pl)
}
