package scene

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/shaderview/config"
	"github.com/gogpu/shaderview/render"
)

// Camera is a free-fly camera. Yaw rotates about the vertical axis, pitch
// is clamped to ±MaxPitch.
type Camera struct {
	Yaw, Pitch float32
	Pos        config.Vec3

	Sensitivity float32
	MoveSpeed   float32
	MaxPitch    float32
	Start       config.Vec3
}

// NewCamera returns a camera at cfg.Start.
func NewCamera(cfg config.Camera) Camera {
	c := Camera{
		Sensitivity: cfg.Sensitivity,
		MoveSpeed:   cfg.MoveSpeed,
		MaxPitch:    cfg.MaxPitch,
		Start:       cfg.Start,
	}
	c.Reset()
	return c
}

// Reset returns the camera to its start position looking down -Z.
func (c *Camera) Reset() {
	c.Yaw, c.Pitch = 0, 0
	c.Pos = c.Start
}

// Look rotates the camera by a mouse delta in pixels.
func (c *Camera) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity
	c.Pitch = min(max(c.Pitch, -c.MaxPitch), c.MaxPitch)
}

// Forward returns the unit view direction.
func (c *Camera) Forward() config.Vec3 {
	sy, cy := math32.Sincos(c.Yaw)
	sp, cp := math32.Sincos(c.Pitch)
	return config.Vec3{X: sy * cp, Y: -sp, Z: -cy * cp}
}

// Right returns the horizontal unit vector to the camera's right.
func (c *Camera) Right() config.Vec3 {
	sy, cy := math32.Sincos(c.Yaw)
	return config.Vec3{X: cy, Z: sy}
}

// Update applies one frame of input: mouse look while the left button is
// held, then WASD or arrow-key movement scaled by dt.
func (c *Camera) Update(in *Input, dt float32) {
	dx, dy := in.TakeDelta()
	if in.MouseDown(MouseLeft) {
		c.Look(dx, dy)
	}
	f, r := c.Forward(), c.Right()
	d := c.MoveSpeed * dt
	move := func(v config.Vec3, k float32) {
		c.Pos.X += v.X * k
		c.Pos.Y += v.Y * k
		c.Pos.Z += v.Z * k
	}
	if in.Pressed(KeyW) || in.Pressed(KeyUp) {
		move(f, d)
	}
	if in.Pressed(KeyS) || in.Pressed(KeyDown) {
		move(f, -d)
	}
	if in.Pressed(KeyA) || in.Pressed(KeyLeft) {
		move(r, -d)
	}
	if in.Pressed(KeyD) || in.Pressed(KeyRight) {
		move(r, d)
	}
}

// Push returns the cube scene push constants for the camera.
func (c *Camera) Push(time, aspect float32) render.CubesPush {
	return render.CubesPush{
		Time:   time,
		Aspect: aspect,
		Yaw:    c.Yaw,
		Pitch:  c.Pitch,
		PosX:   c.Pos.X,
		PosY:   c.Pos.Y,
		PosZ:   c.Pos.Z,
	}
}
