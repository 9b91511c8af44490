package terrain

import (
	"pillarhop/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Orientation selects which of the two interlocking triangle rotations a
// column is drawn with. It has no effect on the collision shape.
type Orientation int

const (
	Standard Orientation = iota
	Inverted
)

func (o Orientation) String() string {
	if o == Inverted {
		return "inverted"
	}
	return "standard"
}

// VisualYaw is the rotation in degrees renderers apply around Y.
func (o Orientation) VisualYaw() float32 {
	if o == Inverted {
		return 30
	}
	return -30
}

// Column is one triangular pillar. Columns are immutable after generation.
type Column struct {
	Index       int
	X, Z        float32
	Height      float32
	Radius      float32
	Orientation Orientation
	IsGoal      bool

	// Elevation is the normalized noise value in [0, 1] the height came from.
	Elevation float32

	// Body is owned by the physics world.
	Body *physics.Body
}

// Top returns the centre of the column's top face.
func (c *Column) Top() rl.Vector3 {
	return rl.Vector3{X: c.X, Y: c.Height, Z: c.Z}
}

// Center returns the volumetric centre, where the collision body sits.
func (c *Column) Center() rl.Vector3 {
	return rl.Vector3{X: c.X, Y: c.Height / 2, Z: c.Z}
}

var (
	tintLow  = rl.NewColor(0xbb, 0xbb, 0xbb, 0xff)
	tintMid  = rl.NewColor(0xff, 0xff, 0xff, 0xff)
	tintHigh = rl.NewColor(0x88, 0xaa, 0xff, 0xff)
	tintGoal = rl.NewColor(0x00, 0xff, 0x00, 0xff)
)

// Tint returns the height-gradient colour used to draw the column.
func (c *Column) Tint() rl.Color {
	if c.IsGoal {
		return tintGoal
	}
	if c.Elevation < 0.5 {
		return lerpColor(tintLow, tintMid, c.Elevation*2)
	}
	return lerpColor(tintMid, tintHigh, (c.Elevation-0.5)*2)
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return rl.NewColor(mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A))
}

// Marker is the tall beacon drawn above the goal column.
type Marker struct {
	Base   rl.Vector3
	Height float32
	Radius float32
}

const (
	markerHeight = 200
	markerRadius = 0.4
	markerLift   = 0.1
)

func newMarker(goal *Column) Marker {
	return Marker{
		Base:   rl.Vector3Add(goal.Top(), rl.Vector3{Y: markerLift}),
		Height: markerHeight,
		Radius: markerRadius,
	}
}
