// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// ShaderPush is the push-constant block of the flat shader scene.
type ShaderPush struct {
	Time   float32
	Aspect float32
}

// Floats returns the block in shader layout order.
func (s ShaderPush) Floats() []float32 {
	return []float32{s.Time, s.Aspect}
}

// CubesPush is the push-constant block of the 3D cube scene.
type CubesPush struct {
	Time   float32
	Aspect float32
	Yaw    float32
	Pitch  float32
	PosX   float32
	PosY   float32
	PosZ   float32
}

// Floats returns the block in shader layout order.
func (c CubesPush) Floats() []float32 {
	return []float32{c.Time, c.Aspect, c.Yaw, c.Pitch, c.PosX, c.PosY, c.PosZ}
}

// ShaderPushSize and CubesPushSize are the block sizes in bytes.
const (
	ShaderPushSize = 2 * 4
	CubesPushSize  = 7 * 4
)
