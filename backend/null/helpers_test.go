package null

import (
	"github.com/gogpu/shaderview/backend"
	"github.com/gogpu/shaderview/shader"
)

func testPipelineDesc() backend.PipelineDesc {
	words := []uint32{shader.SPIRVMagic, 0x00010000, 0, 1, 0}
	return backend.PipelineDesc{
		Name:             "test",
		Vertex:           shader.Module{Stage: shader.StageVertex, Entry: "main", Words: words},
		Fragment:         shader.Module{Stage: shader.StageFragment, Entry: "main", Words: words},
		PushConstantSize: 8,
	}
}
