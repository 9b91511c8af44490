package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Follow is a third-person camera that trails a target from behind and
// above. Yaw is the heading the camera looks along, in degrees.
type Follow struct {
	Position rl.Vector3
	Target   rl.Vector3
	Yaw      float32

	Distance   float32
	Height     float32
	Smoothing  float32 // fraction of the gap closed per 1/60 s
	OrbitSpeed float32 // degrees per pixel of mouse drag
	Fovy       float32
}

func NewFollow() *Follow {
	return &Follow{
		Yaw:        90,
		Distance:   25,
		Height:     15,
		Smoothing:  0.15,
		OrbitSpeed: 0.3,
		Fovy:       60,
	}
}

const (
	minHeight = 3
	maxHeight = 40
)

// Orbit rotates the camera around its target and raises or lowers it.
func (c *Follow) Orbit(deltaYaw, deltaHeight float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+deltaYaw), 360))
	c.Height += deltaHeight
	if c.Height < minHeight {
		c.Height = minHeight
	}
	if c.Height > maxHeight {
		c.Height = maxHeight
	}
}

// Update eases the camera toward its resting spot behind target.
func (c *Follow) Update(target rl.Vector3, deltaTime float32) {
	alpha := float32(1 - math.Pow(float64(1-c.Smoothing), float64(deltaTime*60)))
	c.Target = rl.Vector3Lerp(c.Target, target, alpha)
	c.Position = rl.Vector3Lerp(c.Position, c.desired(target), alpha)
}

// Snap places the camera at its resting spot immediately.
func (c *Follow) Snap(target rl.Vector3) {
	c.Target = target
	c.Position = c.desired(target)
}

func (c *Follow) desired(target rl.Vector3) rl.Vector3 {
	forward, _ := c.Basis()
	behind := rl.Vector3Scale(forward, -c.Distance)
	return rl.Vector3Add(target, rl.Vector3{X: behind.X, Y: c.Height, Z: behind.Z})
}

// Basis returns the horizontal forward and right vectors of the view.
func (c *Follow) Basis() (forward, right rl.Vector3) {
	yawRad := float64(c.Yaw) * math.Pi / 180
	forward = rl.Vector3{
		X: float32(math.Cos(yawRad)),
		Y: 0,
		Z: float32(math.Sin(yawRad)),
	}
	right = rl.Vector3{
		X: float32(-math.Sin(yawRad)),
		Y: 0,
		Z: float32(math.Cos(yawRad)),
	}
	return
}

func (c *Follow) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position,
		Target:     c.Target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       c.Fovy,
		Projection: rl.CameraPerspective,
	}
}
