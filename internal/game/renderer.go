package game

import (
	"math"

	"pillarhop/internal/level"
	"pillarhop/internal/props"
	"pillarhop/internal/terrain"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	ringLifetime  = 0.6 // seconds
	ringMinRadius = 0.5
	ringMaxRadius = 2.5
	waterMargin   = 20
)

var (
	colorWater    = rl.NewColor(40, 90, 160, 160)
	colorWires    = rl.NewColor(30, 30, 40, 255)
	colorReach    = rl.NewColor(255, 220, 60, 255)
	colorPlayer   = rl.NewColor(70, 130, 255, 255)
	colorCupcake  = rl.NewColor(255, 140, 190, 255)
	colorFrosting = rl.NewColor(255, 245, 250, 255)
	colorRing     = rl.NewColor(255, 255, 255, 255)
)

var ballColors = map[string]rl.Color{
	"standard": rl.Red,
	"heavy":    rl.Maroon,
	"light":    rl.Orange,
}

type ring struct {
	pos  rl.Vector3
	born float64
}

// Renderer draws the level with plain primitives. Columns share one
// three-sided cylinder model scaled per column.
type Renderer struct {
	prism  rl.Model
	loaded bool
	rings  []ring
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Load creates GPU resources; it needs an open window.
func (r *Renderer) Load() {
	mesh := rl.GenMeshCylinder(1, 1, 3)
	r.prism = rl.LoadModelFromMesh(mesh)
	r.loaded = true
}

func (r *Renderer) Unload() {
	if r.loaded {
		rl.UnloadModel(r.prism)
		r.loaded = false
	}
}

// AddBounce starts a fading ring where a ball hit the terrain.
func (r *Renderer) AddBounce(pos rl.Vector3, now float64) {
	r.rings = append(r.rings, ring{pos: pos, born: now})
}

// Update drops rings that have faded out.
func (r *Renderer) Update(now float64) {
	r.rings = liveRings(r.rings, now)
}

func liveRings(rings []ring, now float64) []ring {
	kept := rings[:0]
	for _, rg := range rings {
		if now-rg.born < ringLifetime {
			kept = append(kept, rg)
		}
	}
	return kept
}

// ringShape returns the radius and opacity of a ring of the given age.
func ringShape(age float64) (radius, alpha float32) {
	t := float32(age / ringLifetime)
	t = min(max(t, 0), 1)
	return ringMinRadius + (ringMaxRadius-ringMinRadius)*t, 1 - t
}

func (r *Renderer) Draw(m *level.Manager, reachable map[int]bool, now float64) {
	gen := m.Terrain()
	r.drawWater(gen)
	for _, c := range gen.Columns() {
		r.drawColumn(c, reachable[c.Index])
	}
	if marker, ok := gen.GoalMarker(); ok {
		drawMarker(marker, now)
	}
	drawProps(m.Balls())
	drawProps(m.Cupcakes())
	drawPlayer(m)
	r.drawRings(now)
}

func (r *Renderer) drawWater(gen *terrain.Generator) {
	lo, hi := gen.Bounds()
	center := rl.Vector3{X: (lo.X + hi.X) / 2, Y: gen.WaterLevel(), Z: (lo.Y + hi.Y) / 2}
	size := rl.Vector2{X: hi.X - lo.X + 2*waterMargin, Y: hi.Y - lo.Y + 2*waterMargin}
	rl.DrawPlane(center, size, colorWater)
}

func (r *Renderer) drawColumn(c *terrain.Column, reachable bool) {
	if !r.loaded {
		return
	}
	base := rl.Vector3{X: c.X, Y: 0, Z: c.Z}
	axis := rl.Vector3{Y: 1}
	scale := rl.Vector3{X: c.Radius, Y: c.Height, Z: c.Radius}
	yaw := c.Orientation.VisualYaw()

	rl.DrawModelEx(r.prism, base, axis, yaw, scale, c.Tint())
	wires := colorWires
	if reachable {
		wires = colorReach
	}
	rl.DrawModelWiresEx(r.prism, base, axis, yaw, scale, wires)
}

func drawMarker(mk terrain.Marker, now float64) {
	pulse := float32(0.5 + 0.5*math.Sin(now*3))
	top := rl.Vector3{X: mk.Base.X, Y: mk.Base.Y + mk.Height, Z: mk.Base.Z}
	rl.DrawCylinderEx(mk.Base, top, mk.Radius, mk.Radius, 8, rl.Fade(rl.Green, 0.25+0.25*pulse))
	rl.DrawCircle3D(mk.Base, 1.5+0.5*pulse, rl.Vector3{X: 1}, 90, rl.Lime)
}

func drawProps(s *props.Spawner) {
	for _, p := range s.Props() {
		if p.Body == nil || !p.Body.InWorld() {
			continue
		}
		pos := p.Body.Position
		switch s.Kind {
		case props.Cupcake:
			rl.DrawSphere(pos, p.Profile.Radius, colorCupcake)
			top := rl.Vector3{X: pos.X, Y: pos.Y + p.Profile.Radius*0.6, Z: pos.Z}
			rl.DrawSphere(top, p.Profile.Radius*0.5, colorFrosting)
		default:
			color, ok := ballColors[p.Profile.ID]
			if !ok {
				color = rl.Red
			}
			rl.DrawSphere(pos, p.Profile.Radius, color)
		}
	}
}

func drawPlayer(m *level.Manager) {
	ctrl := m.Player()
	body := ctrl.Body()
	if body == nil || !body.InWorld() {
		return
	}
	rl.DrawSphere(body.Position, body.Radius, colorPlayer)
	rl.DrawSphereWires(body.Position, body.Radius, 8, 8, rl.DarkBlue)

	dir := facingVector(ctrl.FacingYaw())
	nose := rl.Vector3Add(body.Position, rl.Vector3Scale(dir, body.Radius))
	rl.DrawLine3D(body.Position, rl.Vector3Add(nose, rl.Vector3Scale(dir, 0.8)), rl.White)
	rl.DrawSphere(nose, body.Radius*0.2, rl.White)
}

// facingVector converts a yaw measured from +Z toward +X into a direction.
func facingVector(yaw float32) rl.Vector3 {
	s, c := math.Sincos(float64(yaw))
	return rl.Vector3{X: float32(s), Z: float32(c)}
}

func (r *Renderer) drawRings(now float64) {
	axis := rl.Vector3{X: 1}
	for _, rg := range r.rings {
		radius, alpha := ringShape(now - rg.born)
		rl.DrawCircle3D(rg.pos, radius, axis, 90, rl.Fade(colorRing, alpha))
	}
}
