package vulkan

import (
	"github.com/pkg/errors"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/gogpu/shaderview/backend"
	"github.com/gogpu/shaderview/gpucore"
)

// pushStages is where push constants are visible. Scene shaders read them
// in the fragment stage and the widget shader in both.
const pushStages = core1_0.StageVertex | core1_0.StageFragment

type pipeline struct {
	pipeline core1_0.Pipeline
	layout   core1_0.PipelineLayout
	push     int
}

func (p *pipeline) destroy(dev core1_0.CoreDeviceDriver) {
	if p.pipeline.Initialized() {
		dev.DestroyPipeline(p.pipeline, nil)
	}
	if p.layout.Initialized() {
		dev.DestroyPipelineLayout(p.layout, nil)
	}
	*p = pipeline{}
}

// CreatePipeline builds a full-screen pipeline for the swapchain render
// pass. Viewport and scissor are dynamic.
func (d *Device) CreatePipeline(desc backend.PipelineDesc) (gpucore.Pipeline, error) {
	p, err := d.buildPipeline(desc, false)
	if err != nil {
		return gpucore.Pipeline{}, err
	}
	return d.pipelines.Insert(p), nil
}

// DestroyPipeline releases a pipeline. The caller must ensure no submitted
// work still uses it.
func (d *Device) DestroyPipeline(h gpucore.Pipeline) {
	if p, ok := d.pipelines.Remove(h); ok {
		p.destroy(d.device)
	}
}

func (d *Device) createModule(words []uint32) (core1_0.ShaderModule, error) {
	m, res, err := d.device.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{Code: words})
	if err := check("create shader module", res, err); err != nil {
		return core1_0.ShaderModule{}, err
	}
	return m, nil
}

func (d *Device) buildPipeline(desc backend.PipelineDesc, blend bool) (pipeline, error) {
	if len(desc.Vertex.Words) == 0 || len(desc.Fragment.Words) == 0 {
		return pipeline{}, errors.Errorf("vulkan: %s pipeline without shader code", desc.Name)
	}
	if desc.PushConstantSize > d.caps.MaxPushConstantsSize {
		return pipeline{}, errors.Errorf("vulkan: %s push constants %d > %d bytes",
			desc.Name, desc.PushConstantSize, d.caps.MaxPushConstantsSize)
	}

	vs, err := d.createModule(desc.Vertex.Words)
	if err != nil {
		return pipeline{}, err
	}
	defer d.device.DestroyShaderModule(vs, nil)
	fs, err := d.createModule(desc.Fragment.Words)
	if err != nil {
		return pipeline{}, err
	}
	defer d.device.DestroyShaderModule(fs, nil)

	var layoutInfo core1_0.PipelineLayoutCreateInfo
	if desc.PushConstantSize > 0 {
		layoutInfo.PushConstantRanges = []core1_0.PushConstantRange{
			{StageFlags: pushStages, Offset: 0, Size: int(desc.PushConstantSize)},
		}
	}
	out := pipeline{push: int(desc.PushConstantSize)}
	out.layout, _, err = d.device.CreatePipelineLayout(nil, layoutInfo)
	if err != nil {
		return pipeline{}, errors.Wrapf(err, "vulkan: %s pipeline layout", desc.Name)
	}

	attachment := core1_0.PipelineColorBlendAttachmentState{
		ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen |
			core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
	}
	if blend {
		attachment.BlendEnabled = true
		attachment.SrcColorBlendFactor = core1_0.BlendFactorSrcAlpha
		attachment.DstColorBlendFactor = core1_0.BlendFactorOneMinusSrcAlpha
		attachment.ColorBlendOp = core1_0.BlendOpAdd
		attachment.SrcAlphaBlendFactor = core1_0.BlendFactorOne
		attachment.DstAlphaBlendFactor = core1_0.BlendFactorOneMinusSrcAlpha
		attachment.AlphaBlendOp = core1_0.BlendOpAdd
	}

	pipelines, _, err := d.device.CreateGraphicsPipelines(nil, nil, core1_0.GraphicsPipelineCreateInfo{
		Stages: []core1_0.PipelineShaderStageCreateInfo{
			{Stage: core1_0.StageVertex, Module: vs, Name: desc.Vertex.Entry},
			{Stage: core1_0.StageFragment, Module: fs, Name: desc.Fragment.Entry},
		},
		VertexInputState: &core1_0.PipelineVertexInputStateCreateInfo{},
		InputAssemblyState: &core1_0.PipelineInputAssemblyStateCreateInfo{
			Topology: core1_0.PrimitiveTopologyTriangleList,
		},
		// One placeholder each; the real values are set per draw.
		ViewportState: &core1_0.PipelineViewportStateCreateInfo{
			Viewports: []core1_0.Viewport{{Width: 1, Height: 1, MaxDepth: 1}},
			Scissors:  []core1_0.Rect2D{{Extent: core1_0.Extent2D{Width: 1, Height: 1}}},
		},
		RasterizationState: &core1_0.PipelineRasterizationStateCreateInfo{
			PolygonMode: core1_0.PolygonModeFill,
			FrontFace:   core1_0.FrontFaceCounterClockwise,
			LineWidth:   1,
		},
		MultisampleState: &core1_0.PipelineMultisampleStateCreateInfo{
			RasterizationSamples: core1_0.Samples1,
			MinSampleShading:     1,
		},
		ColorBlendState: &core1_0.PipelineColorBlendStateCreateInfo{
			LogicOp:     core1_0.LogicOpCopy,
			Attachments: []core1_0.PipelineColorBlendAttachmentState{attachment},
		},
		DynamicState: &core1_0.PipelineDynamicStateCreateInfo{
			DynamicStates: []core1_0.DynamicState{core1_0.DynamicStateViewport, core1_0.DynamicStateScissor},
		},
		Layout:            out.layout,
		RenderPass:        d.renderPass,
		Subpass:           0,
		BasePipelineIndex: -1,
	})
	if err != nil {
		out.destroy(d.device)
		return pipeline{}, errors.Wrapf(err, "vulkan: %s pipeline", desc.Name)
	}
	out.pipeline = pipelines[0]
	return out, nil
}
