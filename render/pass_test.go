// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/gpucore"
)

func testPipeline() gpucore.Pipeline {
	var a gpucore.Arena[gpucore.PipelineKind, struct{}]
	return a.Insert(struct{}{})
}

func TestPassRecording(t *testing.T) {
	var p Pass
	p.Begin(ClearBlack)
	tr := shaderview.ComputeTransform(shaderview.StretchFit, shaderview.Sz(1280, 720), shaderview.Sz(800, 800))

	p.SetViewport(tr.Viewport)
	p.SetScissor(tr.Scissor)
	p.BindPipeline(testPipeline())
	p.PushConstants(ShaderPush{Time: 1.5, Aspect: 1}.Floats()...)
	p.Draw(FullscreenVertices)
	if err := p.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	want := []Op{OpSetViewport, OpSetScissor, OpBindPipeline, OpPushConstants, OpDraw}
	if got := p.Ops(); !slices.Equal(got, want) {
		t.Errorf("Ops() = %v, want %v", got, want)
	}
	push := p.PushData(p.Commands()[3])
	if !slices.Equal(push, []float32{1.5, 1}) {
		t.Errorf("PushData() = %v, want [1.5 1]", push)
	}
	if p.Commands()[4].VertexCount != 6 {
		t.Errorf("VertexCount = %d, want 6", p.Commands()[4].VertexCount)
	}
}

func TestPassErrors(t *testing.T) {
	t.Run("not recording", func(t *testing.T) {
		var p Pass
		if err := p.FillRect(shaderview.Rect{}, ClearBlack); !errors.Is(err, ErrPassNotRecording) {
			t.Errorf("FillRect() before Begin = %v, want ErrPassNotRecording", err)
		}
	})

	t.Run("ended", func(t *testing.T) {
		var p Pass
		p.Begin(ClearBlack)
		p.End()
		if err := p.SetScissor(shaderview.Scissor{W: 1, H: 1}); !errors.Is(err, ErrPassEnded) {
			t.Errorf("SetScissor() after End = %v, want ErrPassEnded", err)
		}
	})

	t.Run("null pipeline", func(t *testing.T) {
		var p Pass
		p.Begin(ClearBlack)
		if err := p.BindPipeline(gpucore.Pipeline{}); !errors.Is(err, ErrNilPipeline) {
			t.Errorf("BindPipeline(null) = %v, want ErrNilPipeline", err)
		}
		if err := p.End(); !errors.Is(err, ErrNilPipeline) {
			t.Errorf("End() = %v, want first error ErrNilPipeline", err)
		}
	})

	t.Run("draw without pipeline", func(t *testing.T) {
		var p Pass
		p.Begin(ClearBlack)
		if err := p.Draw(FullscreenVertices); !errors.Is(err, ErrNoPipelineBound) {
			t.Errorf("Draw() = %v, want ErrNoPipelineBound", err)
		}
	})

	t.Run("push too large", func(t *testing.T) {
		var p Pass
		p.Begin(ClearBlack)
		if err := p.PushConstants(make([]float32, MaxPushFloats+1)...); !errors.Is(err, ErrPushConstantsTooLarge) {
			t.Errorf("PushConstants() = %v, want ErrPushConstantsTooLarge", err)
		}
	})
}

func TestPassReuse(t *testing.T) {
	var p Pass
	p.Begin(ClearBlack)
	p.FillRect(shaderview.Rect{W: 10, H: 10}, ClearBlack)
	p.End()

	p.Begin(ClearTan)
	if p.Len() != 0 {
		t.Errorf("Len() after Begin = %d, want 0", p.Len())
	}
	if p.ClearColor() != ClearTan {
		t.Errorf("ClearColor() = %v, want tan", p.ClearColor())
	}
	if p.State() != PassStateRecording {
		t.Errorf("State() = %v, want Recording", p.State())
	}
}

func TestCubesPushLayout(t *testing.T) {
	got := CubesPush{Time: 1, Aspect: 2, Yaw: 3, Pitch: 4, PosX: 5, PosY: 6, PosZ: 7}.Floats()
	if len(got)*4 != CubesPushSize {
		t.Fatalf("len = %d floats, want %d bytes", len(got), CubesPushSize)
	}
	if !slices.Equal(got, []float32{1, 2, 3, 4, 5, 6, 7}) {
		t.Errorf("Floats() = %v", got)
	}
	if len(ShaderPush{}.Floats())*4 != ShaderPushSize {
		t.Errorf("ShaderPush size mismatch")
	}
}
