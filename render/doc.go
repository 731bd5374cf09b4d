// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render records backend-neutral frame commands.
//
// Scenes and widgets never talk to a GPU API directly. Each frame they
// record into a [Pass]: viewport and scissor changes, pipeline binds, push
// constants, full-screen draws, and 2D overlay primitives (rectangles,
// circles, text). A backend implementing [Encoder] replays the finished pass
// into the frame's command buffer.
//
// # Key Principle
//
// The pass carries every coordinate already in screen pixels. The stretch
// transform is applied once, while recording, by the code that owns the
// transform; backends never re-derive it.
//
// # Usage
//
//	var pass render.Pass
//	pass.Begin(render.ClearBlack)
//	pass.SetViewport(tr.Viewport)
//	pass.SetScissor(tr.Scissor)
//	pass.BindPipeline(pipeline)
//	pass.PushConstants(render.ShaderPush{Time: t, Aspect: a}.Floats()...)
//	pass.Draw(render.FullscreenVertices)
//	pass.End()
//	err := encoder.Encode(frame.CommandBuffer, frame.Framebuffer, &pass)
package render
