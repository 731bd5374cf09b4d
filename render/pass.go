// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/gpucore"
)

// Pass errors.
var (
	// ErrPassEnded is returned when commands are recorded after End.
	ErrPassEnded = errors.New("render: pass has already ended")

	// ErrPassNotRecording is returned when a pass is used before Begin.
	ErrPassNotRecording = errors.New("render: pass is not recording")

	// ErrNilPipeline is returned when BindPipeline is called with a null handle.
	ErrNilPipeline = errors.New("render: pipeline is null")

	// ErrNoPipelineBound is returned when Draw is called before BindPipeline.
	ErrNoPipelineBound = errors.New("render: no pipeline bound")

	// ErrPushConstantsTooLarge is returned when push constants exceed MaxPushFloats.
	ErrPushConstantsTooLarge = errors.New("render: push constants too large")
)

// FullscreenVertices is the vertex count of the full-screen quad drawn by
// the scene pipelines: two triangles generated in the vertex shader.
const FullscreenVertices = 6

// MaxPushFloats is the largest push-constant block a pass accepts.
const MaxPushFloats = 32

// Common clear colors.
var (
	ClearBlack = gputypes.Color{R: 0, G: 0, B: 0, A: 1}
	ClearTan   = gputypes.Color{R: 210.0 / 255, G: 180.0 / 255, B: 140.0 / 255, A: 1}
)

// PassState is the recording state of a Pass.
type PassState int

const (
	// PassStateIdle means Begin has not been called.
	PassStateIdle PassState = iota

	// PassStateRecording means the pass is accepting commands.
	PassStateRecording

	// PassStateEnded means the pass is complete and ready to encode.
	PassStateEnded
)

// String returns the string representation of PassState.
func (s PassState) String() string {
	switch s {
	case PassStateIdle:
		return "Idle"
	case PassStateRecording:
		return "Recording"
	case PassStateEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Op identifies a recorded command.
type Op uint8

// Commands.
const (
	OpSetViewport Op = iota
	OpSetScissor
	OpBindPipeline
	OpPushConstants
	OpDraw
	OpFillRect
	OpFillCircle
	OpText
)

func (o Op) String() string {
	switch o {
	case OpSetViewport:
		return "SetViewport"
	case OpSetScissor:
		return "SetScissor"
	case OpBindPipeline:
		return "BindPipeline"
	case OpPushConstants:
		return "PushConstants"
	case OpDraw:
		return "Draw"
	case OpFillRect:
		return "FillRect"
	case OpFillCircle:
		return "FillCircle"
	case OpText:
		return "Text"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// Command is one recorded command. Only the fields relevant to Op are set.
type Command struct {
	Op Op

	Viewport shaderview.Viewport
	Scissor  shaderview.Scissor

	Pipeline gpucore.Pipeline

	// pushOff and pushLen locate PushConstants values in the pass storage.
	pushOff, pushLen int

	VertexCount uint32

	// Rect is the screen rectangle of FillRect and FillCircle, and the
	// top-left origin of Text.
	Rect  shaderview.Rect
	Color gputypes.Color

	Text     string
	TextSize float32
}

// Pass is one frame's worth of recorded commands for a single render pass.
// The zero value is ready for Begin. A Pass is reused across frames; Begin
// resets it without releasing its storage.
type Pass struct {
	state    PassState
	clear    gputypes.Color
	cmds     []Command
	push     []float32
	pipeline gpucore.Pipeline
	err      error
}

// Begin starts recording a pass that clears the framebuffer to clear.
func (p *Pass) Begin(clear gputypes.Color) {
	p.state = PassStateRecording
	p.clear = clear
	p.cmds = p.cmds[:0]
	p.push = p.push[:0]
	p.pipeline = gpucore.Pipeline{}
	p.err = nil
}

// End completes the pass. It returns the first recording error, if any.
func (p *Pass) End() error {
	if p.state != PassStateRecording {
		return p.fail(ErrPassNotRecording)
	}
	p.state = PassStateEnded
	return p.err
}

// State returns the current pass state.
func (p *Pass) State() PassState { return p.state }

// ClearColor returns the clear color given to Begin.
func (p *Pass) ClearColor() gputypes.Color { return p.clear }

// Err returns the first error recorded.
func (p *Pass) Err() error { return p.err }

// Commands returns the recorded commands. The slice is valid until the next
// Begin.
func (p *Pass) Commands() []Command { return p.cmds }

// Len returns the number of recorded commands.
func (p *Pass) Len() int { return len(p.cmds) }

// PushData returns the push-constant values of a PushConstants command.
func (p *Pass) PushData(c Command) []float32 {
	if c.Op != OpPushConstants {
		return nil
	}
	return p.push[c.pushOff : c.pushOff+c.pushLen]
}

func (p *Pass) fail(err error) error {
	if p.err == nil {
		p.err = err
	}
	return err
}

func (p *Pass) record(c Command) error {
	switch p.state {
	case PassStateEnded:
		return p.fail(ErrPassEnded)
	case PassStateIdle:
		return p.fail(ErrPassNotRecording)
	}
	p.cmds = append(p.cmds, c)
	return nil
}

// SetViewport sets the viewport for subsequent draws.
func (p *Pass) SetViewport(v shaderview.Viewport) error {
	return p.record(Command{Op: OpSetViewport, Viewport: v})
}

// SetScissor sets the scissor rectangle for subsequent draws.
func (p *Pass) SetScissor(s shaderview.Scissor) error {
	return p.record(Command{Op: OpSetScissor, Scissor: s})
}

// BindPipeline binds a scene pipeline for subsequent Draw calls.
func (p *Pass) BindPipeline(pl gpucore.Pipeline) error {
	if !pl.IsValid() {
		return p.fail(ErrNilPipeline)
	}
	if err := p.record(Command{Op: OpBindPipeline, Pipeline: pl}); err != nil {
		return err
	}
	p.pipeline = pl
	return nil
}

// PushConstants records push-constant values for the bound pipeline.
func (p *Pass) PushConstants(values ...float32) error {
	if len(values) > MaxPushFloats {
		return p.fail(fmt.Errorf("%w: %d floats", ErrPushConstantsTooLarge, len(values)))
	}
	off := len(p.push)
	if err := p.record(Command{Op: OpPushConstants, pushOff: off, pushLen: len(values)}); err != nil {
		return err
	}
	p.push = append(p.push, values...)
	return nil
}

// Draw draws vertexCount vertices with the bound pipeline.
func (p *Pass) Draw(vertexCount uint32) error {
	if !p.pipeline.IsValid() {
		return p.fail(ErrNoPipelineBound)
	}
	return p.record(Command{Op: OpDraw, VertexCount: vertexCount})
}

// FillRect fills a screen rectangle with a solid color.
func (p *Pass) FillRect(r shaderview.Rect, c gputypes.Color) error {
	return p.record(Command{Op: OpFillRect, Rect: r, Color: c})
}

// FillCircle fills the ellipse inscribed in a screen rectangle.
func (p *Pass) FillCircle(r shaderview.Rect, c gputypes.Color) error {
	return p.record(Command{Op: OpFillCircle, Rect: r, Color: c})
}

// Text draws a single line of text with its top-left corner at origin.
func (p *Pass) Text(origin shaderview.Point, s string, size float32, c gputypes.Color) error {
	return p.record(Command{
		Op:       OpText,
		Rect:     shaderview.Rect{X: origin.X, Y: origin.Y},
		Color:    c,
		Text:     s,
		TextSize: size,
	})
}

// Ops returns the sequence of recorded opcodes.
func (p *Pass) Ops() []Op {
	ops := make([]Op, len(p.cmds))
	for i, c := range p.cmds {
		ops[i] = c.Op
	}
	return ops
}

// Encoder replays a finished pass into a command buffer that renders to
// framebuffer. Backends implement it.
type Encoder interface {
	Encode(cmd gpucore.CommandBuffer, fb gpucore.Framebuffer, pass *Pass) error
}
