package physics

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Tag classifies a body for collision and ray filtering.
type Tag uint16

const (
	TagTerrain Tag = 1 << iota
	TagGoal
	TagSafetyFloor
	TagPlayer
	TagBall
	TagCupcake
)

var tagNames = []struct {
	tag  Tag
	name string
}{
	{TagTerrain, "terrain"},
	{TagGoal, "goal"},
	{TagSafetyFloor, "safety-floor"},
	{TagPlayer, "player"},
	{TagBall, "ball"},
	{TagCupcake, "cupcake"},
}

// Has reports whether every flag in f is set.
func (t Tag) Has(f Tag) bool { return f != 0 && t&f == f }

// Any reports whether at least one flag in f is set.
func (t Tag) Any(f Tag) bool { return t&f != 0 }

func (t Tag) String() string {
	if t == 0 {
		return "none"
	}
	var parts []string
	for _, n := range tagNames {
		if t&n.tag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

type Shape int

const (
	ShapeSphere Shape = iota
	ShapeBox
	// ShapePrism is an upright three-sided cylinder. Its vertices sit at
	// 0, 120 and 240 degrees around the Y axis regardless of how the
	// column is drawn.
	ShapePrism
)

func (s Shape) String() string {
	switch s {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapePrism:
		return "prism"
	}
	return "unknown"
}

// Material names a surface for contact-material lookups.
type Material struct {
	Name string
}

type BodyID uint32

// Body is a rigid body owned by a World. Mass 0 means static.
type Body struct {
	ID          BodyID
	Shape       Shape
	Radius      float32    // sphere radius or prism circumradius
	Height      float32    // prism height
	HalfExtents rl.Vector3 // box
	Position    rl.Vector3
	Velocity    rl.Vector3

	Mass          float32
	LinearDamping float32
	Material      *Material
	Tags          Tag

	// UserData lets gameplay code map a body back to its owner.
	UserData any

	force rl.Vector3
	world *World
}

func NewSphere(radius, mass float32) *Body {
	return &Body{Shape: ShapeSphere, Radius: radius, Mass: mass}
}

// NewBox creates a static box.
func NewBox(halfExtents rl.Vector3) *Body {
	return &Body{Shape: ShapeBox, HalfExtents: halfExtents}
}

// NewPrism creates a static upright triangular prism centred on its position.
func NewPrism(radius, height float32) *Body {
	return &Body{Shape: ShapePrism, Radius: radius, Height: height}
}

func (b *Body) IsStatic() bool { return b.Mass <= 0 }

// InWorld reports whether the body is currently simulated.
func (b *Body) InWorld() bool { return b.world != nil }

// ApplyForce accumulates a force for the next integration step.
func (b *Body) ApplyForce(f rl.Vector3) {
	if b.IsStatic() {
		return
	}
	b.force = rl.Vector3Add(b.force, f)
}

// ApplyImpulse changes velocity immediately by impulse / mass.
func (b *Body) ApplyImpulse(impulse rl.Vector3) {
	if b.IsStatic() {
		return
	}
	b.Velocity = rl.Vector3Add(b.Velocity, rl.Vector3Scale(impulse, 1/b.Mass))
}

// Teleport moves the body and clears its motion.
func (b *Body) Teleport(pos rl.Vector3) {
	b.Position = pos
	b.Velocity = rl.Vector3Zero()
	b.force = rl.Vector3Zero()
}

// AABB returns the world-space bounds of the body's shape.
func (b *Body) AABB() AABB {
	switch b.Shape {
	case ShapeBox:
		return NewAABBFromCenter(b.Position, rl.Vector3Scale(b.HalfExtents, 2))
	case ShapePrism:
		return NewAABBFromCenter(b.Position, rl.Vector3{X: b.Radius * 2, Y: b.Height, Z: b.Radius * 2})
	default:
		d := b.Radius * 2
		return NewAABBFromCenter(b.Position, rl.Vector3{X: d, Y: d, Z: d})
	}
}

func (b *Body) materialName() string {
	if b.Material == nil {
		return ""
	}
	return b.Material.Name
}
