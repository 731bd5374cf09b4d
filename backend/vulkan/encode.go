package vulkan

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/gpucore"
	"github.com/gogpu/shaderview/render"
)

type stepKind uint8

const (
	stepViewport stepKind = iota
	stepScissor
	stepBind
	stepPush
	stepDraw
)

// step is one native command. Bind and push steps with ui set address the
// widget pipeline instead of a scene pipeline.
type step struct {
	kind     stepKind
	ui       bool
	viewport shaderview.Viewport
	scissor  shaderview.Scissor
	pipeline gpucore.Pipeline
	off, n   int
	count    uint32
}

// replay lowers a finished pass into native steps. Widget shapes and text
// become ui pipeline draws whose rectangles are pushed in normalized device
// coordinates of the current viewport. A scene pipeline interrupted by
// widget draws is rebound, together with its last push block, before its
// next draw.
type replay struct {
	steps []step
	push  []byte
	runs  []shaderview.Rect

	viewport     shaderview.Viewport
	scene        gpucore.Pipeline
	scenePush    int
	scenePushLen int
	ui           bool
}

func (r *replay) add(s step) { r.steps = append(r.steps, s) }

func (r *replay) build(pass *render.Pass, width, height int) {
	r.steps = r.steps[:0]
	r.push = r.push[:0]
	r.scene = gpucore.Pipeline{}
	r.scenePush, r.scenePushLen = 0, 0
	r.ui = false

	full := shaderview.Sz(float32(width), float32(height))
	vp, sc := shaderview.FullWindow(full)
	r.viewport = vp
	r.add(step{kind: stepViewport, viewport: vp})
	r.add(step{kind: stepScissor, scissor: sc})

	for _, c := range pass.Commands() {
		switch c.Op {
		case render.OpSetViewport:
			r.viewport = c.Viewport
			r.add(step{kind: stepViewport, viewport: c.Viewport})
		case render.OpSetScissor:
			r.add(step{kind: stepScissor, scissor: c.Scissor})
		case render.OpBindPipeline:
			r.scene = c.Pipeline
			r.scenePushLen = 0
			r.ui = false
			r.add(step{kind: stepBind, pipeline: c.Pipeline})
		case render.OpPushConstants:
			r.rebindScene()
			r.scenePush = len(r.push)
			for _, v := range pass.PushData(c) {
				r.push = binary.NativeEndian.AppendUint32(r.push, math.Float32bits(v))
			}
			r.scenePushLen = len(r.push) - r.scenePush
			r.add(step{kind: stepPush, off: r.scenePush, n: r.scenePushLen})
		case render.OpDraw:
			r.rebindScene()
			r.add(step{kind: stepDraw, count: c.VertexCount})
		case render.OpFillRect:
			r.shape(c.Rect, c.Color, 0)
		case render.OpFillCircle:
			r.shape(c.Rect, c.Color, 1)
		case render.OpText:
			r.runs = glyphRuns(r.runs[:0], c.Rect.Min(), c.Text, c.TextSize)
			for _, run := range r.runs {
				r.shape(run, c.Color, 0)
			}
		}
	}
}

func (r *replay) rebindScene() {
	if !r.ui || !r.scene.IsValid() {
		return
	}
	r.ui = false
	r.add(step{kind: stepBind, pipeline: r.scene})
	if r.scenePushLen > 0 {
		r.add(step{kind: stepPush, off: r.scenePush, n: r.scenePushLen})
	}
}

// shape draws rect with the widget pipeline. shape 1 selects the inscribed
// ellipse.
func (r *replay) shape(rect shaderview.Rect, c gputypes.Color, shape float32) {
	vp := r.viewport
	if vp.W <= 0 || vp.H <= 0 || rect.W <= 0 || rect.H <= 0 {
		return
	}
	if !r.ui {
		r.ui = true
		r.add(step{kind: stepBind, ui: true})
	}
	off := len(r.push)
	for _, v := range [...]float32{
		(rect.X-vp.X)/vp.W*2 - 1,
		(rect.Y-vp.Y)/vp.H*2 - 1,
		rect.W / vp.W * 2,
		rect.H / vp.H * 2,
		float32(c.R), float32(c.G), float32(c.B), float32(c.A),
		shape,
	} {
		r.push = binary.NativeEndian.AppendUint32(r.push, math.Float32bits(v))
	}
	r.add(step{kind: stepPush, ui: true, off: off, n: len(r.push) - off})
	r.add(step{kind: stepDraw, count: render.FullscreenVertices})
}

// Encode records pass into cmd, rendering to fb. The command buffer is
// reset first, so it must not be in use by the GPU.
func (d *Device) Encode(cmd gpucore.CommandBuffer, fb gpucore.Framebuffer, pass *render.Pass) error {
	buf, err := d.cmds.MustGet(cmd)
	if err != nil {
		return err
	}
	f, err := d.framebuffers.MustGet(fb)
	if err != nil {
		return err
	}
	if pass.State() != render.PassStateEnded {
		return errors.Errorf("vulkan: encode pass in state %v", pass.State())
	}
	d.replay.build(pass, f.extent.Width, f.extent.Height)

	res, err := d.device.ResetCommandBuffer(buf, 0)
	if err := check("reset command buffer", res, err); err != nil {
		return err
	}
	res, err = d.device.BeginCommandBuffer(buf, core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err := check("begin command buffer", res, err); err != nil {
		return err
	}

	clear := pass.ClearColor()
	err = d.device.CmdBeginRenderPass(buf, core1_0.SubpassContentsInline, core1_0.RenderPassBeginInfo{
		RenderPass:  d.renderPass,
		Framebuffer: f.framebuffer,
		RenderArea:  core1_0.Rect2D{Extent: f.extent},
		ClearValues: []core1_0.ClearValue{
			core1_0.ClearValueFloat{float32(clear.R), float32(clear.G), float32(clear.B), float32(clear.A)},
		},
	})
	if err != nil {
		return errors.Wrap(err, "vulkan: begin render pass")
	}
	recErr := d.record(buf)
	d.device.CmdEndRenderPass(buf)
	res, err = d.device.EndCommandBuffer(buf)
	if recErr != nil {
		return recErr
	}
	return check("end command buffer", res, err)
}

func (d *Device) record(buf core1_0.CommandBuffer) error {
	var cur *pipeline
	for _, s := range d.replay.steps {
		switch s.kind {
		case stepViewport:
			d.device.CmdSetViewport(buf, core1_0.Viewport{
				X: s.viewport.X, Y: s.viewport.Y,
				Width: s.viewport.W, Height: s.viewport.H,
				MinDepth: s.viewport.MinDepth, MaxDepth: s.viewport.MaxDepth,
			})
		case stepScissor:
			d.device.CmdSetScissor(buf, core1_0.Rect2D{
				Offset: core1_0.Offset2D{X: int(s.scissor.X), Y: int(s.scissor.Y)},
				Extent: core1_0.Extent2D{Width: int(s.scissor.W), Height: int(s.scissor.H)},
			})
		case stepBind:
			if s.ui {
				cur = &d.ui
			} else {
				p, err := d.pipelines.MustGet(s.pipeline)
				if err != nil {
					return errors.Wrap(err, "vulkan: bind pipeline")
				}
				cur = &p
			}
			d.device.CmdBindPipeline(buf, core1_0.PipelineBindPointGraphics, cur.pipeline)
		case stepPush:
			if cur == nil {
				return errors.New("vulkan: push constants without a pipeline")
			}
			if s.n > cur.push {
				return errors.Errorf("vulkan: push of %d bytes exceeds the %d-byte block", s.n, cur.push)
			}
			d.device.CmdPushConstants(buf, cur.layout, pushStages, 0, d.replay.push[s.off:s.off+s.n])
		case stepDraw:
			if cur == nil {
				return render.ErrNoPipelineBound
			}
			d.device.CmdDraw(buf, int(s.count), 1, 0, 0)
		}
	}
	return nil
}
