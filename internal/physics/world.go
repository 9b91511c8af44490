package physics

import (
	"log"
	"math"

	"pillarhop/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Closing speeds below this resolve without bounce so resting bodies settle.
const bounceThreshold = 1.0

// Config holds the simulation constants of a World.
type Config struct {
	Gravity     rl.Vector3 `yaml:"gravity"`
	FixedStep   float32    `yaml:"fixed_step"`
	MaxSubSteps int        `yaml:"max_sub_steps"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:     rl.Vector3{X: 0, Y: -9.82, Z: 0},
		FixedStep:   1.0 / 60.0,
		MaxSubSteps: 3,
	}
}

// ContactMaterial is the response used when two materials touch.
type ContactMaterial struct {
	Friction    float32 `yaml:"friction"`
	Restitution float32 `yaml:"restitution"`
}

type materialPair struct {
	a, b string
}

func makeMaterialPair(a, b string) materialPair {
	if a > b {
		a, b = b, a
	}
	return materialPair{a, b}
}

// CollisionPair represents two bodies that are touching, lower ID first
type CollisionPair struct {
	A, B BodyID
}

func makePair(a, b *Body) CollisionPair {
	if a.ID > b.ID {
		return CollisionPair{A: b.ID, B: a.ID}
	}
	return CollisionPair{A: a.ID, B: b.ID}
}

// Contact is delivered to collision listeners. Normal points from B toward A.
type Contact struct {
	A, B   *Body
	Normal rl.Vector3
	Depth  float32
	// Begin is true on the first step the pair touches.
	Begin bool
}

// Match returns the body carrying tag as self and the other body as other.
func (c Contact) Match(tag Tag) (self, other *Body, ok bool) {
	switch {
	case c.A.Tags.Has(tag):
		return c.A, c.B, true
	case c.B.Tags.Has(tag):
		return c.B, c.A, true
	}
	return nil, nil, false
}

// Involves reports whether b is one side of the contact.
func (c Contact) Involves(b *Body) bool {
	return b != nil && (c.A == b || c.B == b)
}

type World struct {
	Gravity        rl.Vector3
	FixedStep      float32
	MaxSubSteps    int
	DefaultContact ContactMaterial

	// OnCollide fires for every touching pair at the end of each sub-step.
	// Listeners run while the world is stepping and must only queue work.
	OnCollide engine.Event[Contact]
	// OnSeparate fires once when a pair stops touching.
	OnSeparate engine.Event[Contact]

	dynamics []*Body
	statics  []*Body
	byID     map[BodyID]*Body
	nextID   BodyID
	grid     *staticGrid

	materials map[materialPair]ContactMaterial

	// Collision tracking for callbacks
	activeCollisions  map[CollisionPair]Contact
	currentCollisions map[CollisionPair]Contact
	contactOrder      []CollisionPair
	activeOrder       []CollisionPair

	accumulator float32
	stepping    bool
	deferred    []*Body
	simTime     float64
}

func NewWorld(cfg Config) *World {
	def := DefaultConfig()
	if cfg.FixedStep <= 0 {
		cfg.FixedStep = def.FixedStep
	}
	if cfg.MaxSubSteps <= 0 {
		cfg.MaxSubSteps = def.MaxSubSteps
	}
	return &World{
		Gravity:           cfg.Gravity,
		FixedStep:         cfg.FixedStep,
		MaxSubSteps:       cfg.MaxSubSteps,
		DefaultContact:    ContactMaterial{Friction: 0.3, Restitution: 0},
		byID:              make(map[BodyID]*Body),
		grid:              newStaticGrid(),
		materials:         make(map[materialPair]ContactMaterial),
		activeCollisions:  make(map[CollisionPair]Contact),
		currentCollisions: make(map[CollisionPair]Contact),
	}
}

// SetContactMaterial configures the response between two materials.
// Order does not matter.
func (w *World) SetContactMaterial(a, b *Material, cm ContactMaterial) {
	w.materials[makeMaterialPair(a.Name, b.Name)] = cm
}

// ContactMaterialFor returns the response used between two bodies.
func (w *World) ContactMaterialFor(a, b *Body) ContactMaterial {
	if cm, ok := w.materials[makeMaterialPair(a.materialName(), b.materialName())]; ok {
		return cm
	}
	return w.DefaultContact
}

// AddBody assigns an ID and starts simulating b. Adding a body twice is a no-op.
func (w *World) AddBody(b *Body) *Body {
	if b.world == w {
		return b
	}
	w.nextID++
	b.ID = w.nextID
	b.world = w
	w.byID[b.ID] = b
	if b.IsStatic() {
		w.statics = append(w.statics, b)
		w.grid.insert(b)
	} else {
		w.dynamics = append(w.dynamics, b)
	}
	return b
}

// RemoveBody stops simulating b. Unknown or already removed bodies are
// ignored. While the world is stepping the removal waits for the step to end.
func (w *World) RemoveBody(b *Body) bool {
	if b == nil || b.world != w {
		return false
	}
	if w.stepping {
		for _, d := range w.deferred {
			if d == b {
				return false
			}
		}
		w.deferred = append(w.deferred, b)
		return true
	}
	w.detach(b)
	return true
}

func (w *World) detach(b *Body) {
	if b.world != w {
		return
	}
	list := &w.dynamics
	if b.IsStatic() {
		list = &w.statics
		w.grid.remove(b)
	}
	for i, other := range *list {
		if other == b {
			*list = append((*list)[:i], (*list)[i+1:]...)
			break
		}
	}
	delete(w.byID, b.ID)
	for pair := range w.activeCollisions {
		if pair.A == b.ID || pair.B == b.ID {
			delete(w.activeCollisions, pair)
		}
	}
	b.world = nil
}

func (w *World) Body(id BodyID) (*Body, bool) {
	b, ok := w.byID[id]
	return b, ok
}

func (w *World) BodyCount() int {
	return len(w.dynamics) + len(w.statics)
}

// DynamicBodyCount returns the number of bodies with mass
func (w *World) DynamicBodyCount() int {
	return len(w.dynamics)
}

// Bodies returns dynamic bodies followed by statics, each in insertion order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, 0, w.BodyCount())
	out = append(out, w.dynamics...)
	return append(out, w.statics...)
}

// Stepping reports whether a sub-step is in progress.
func (w *World) Stepping() bool {
	return w.stepping
}

// Time returns the simulated time in seconds.
func (w *World) Time() float64 {
	return w.simTime
}

// Step advances the simulation by dt of wall-clock time in whole fixed
// steps. At most MaxSubSteps run per call; time beyond that is dropped.
// Returns the number of sub-steps taken.
func (w *World) Step(dt float32) int {
	if dt <= 0 || w.stepping {
		return 0
	}
	w.accumulator += dt
	steps := 0
	for w.accumulator+1e-6 >= w.FixedStep && steps < w.MaxSubSteps {
		w.substep(w.FixedStep)
		w.accumulator -= w.FixedStep
		steps++
	}
	if w.accumulator < 0 {
		w.accumulator = 0
	}
	if w.accumulator >= w.FixedStep {
		w.accumulator = 0
	}
	if steps > 0 {
		for _, b := range w.dynamics {
			b.force = rl.Vector3Zero()
		}
	}
	return steps
}

func (w *World) substep(h float32) {
	w.stepping = true
	w.simTime += float64(h)

	// 1. Integrate forces and velocity
	for _, b := range w.dynamics {
		accel := rl.Vector3Add(w.Gravity, rl.Vector3Scale(b.force, 1/b.Mass))
		b.Velocity = rl.Vector3Add(b.Velocity, rl.Vector3Scale(accel, h))
		if b.LinearDamping > 0 {
			b.Velocity = rl.Vector3Scale(b.Velocity, float32(math.Pow(float64(1-clamp(b.LinearDamping, 0, 1)), float64(h))))
		}
		b.Position = rl.Vector3Add(b.Position, rl.Vector3Scale(b.Velocity, h))
	}

	// 2. Narrow phase
	clear(w.currentCollisions)
	w.contactOrder = w.contactOrder[:0]
	for i, a := range w.dynamics {
		if a.Shape != ShapeSphere {
			continue
		}
		for _, b := range w.dynamics[i+1:] {
			if b.Shape == ShapeSphere {
				w.resolveDynamic(a, b)
			}
		}
		w.grid.query(a.AABB(), func(s *Body) {
			if a.AABB().Intersects(s.AABB()) {
				w.resolveStatic(a, s)
			}
		})
	}

	// 3. Dispatch collision callbacks
	w.dispatchCollisionCallbacks()
	w.stepping = false

	// 4. Apply removals requested during the step
	if len(w.deferred) > 0 {
		pending := w.deferred
		w.deferred = nil
		for _, b := range pending {
			w.detach(b)
		}
	}
}

// recordCollision marks a pair as touching this step
func (w *World) recordCollision(a, b *Body, m manifold) {
	pair := makePair(a, b)
	if _, ok := w.currentCollisions[pair]; ok {
		return
	}
	w.currentCollisions[pair] = Contact{A: a, B: b, Normal: m.Normal, Depth: m.Depth}
	w.contactOrder = append(w.contactOrder, pair)
}

func (w *World) dispatchCollisionCallbacks() {
	for _, pair := range w.contactOrder {
		c := w.currentCollisions[pair]
		_, wasActive := w.activeCollisions[pair]
		c.Begin = !wasActive
		w.OnCollide.Invoke(c)
	}

	// Ended contacts
	for _, pair := range w.activeOrder {
		c, ok := w.activeCollisions[pair]
		if !ok {
			continue
		}
		if _, still := w.currentCollisions[pair]; still {
			continue
		}
		if c.A.world == w && c.B.world == w {
			w.OnSeparate.Invoke(c)
		}
	}

	// Swap buffers
	clear(w.activeCollisions)
	for pair, c := range w.currentCollisions {
		w.activeCollisions[pair] = c
	}
	w.activeOrder = append(w.activeOrder[:0], w.contactOrder...)
}

// resolveStatic pushes dynamic sphere a out of static s.
func (w *World) resolveStatic(a, s *Body) {
	m, ok := collideSphere(a.Position, a.Radius, s)
	if !ok {
		return
	}
	w.recordCollision(a, s, m)

	a.Position = rl.Vector3Add(a.Position, rl.Vector3Scale(m.Normal, m.Depth))
	a.Velocity = w.respond(a.Velocity, m.Normal, w.ContactMaterialFor(a, s))
}

// respond removes the approaching normal velocity of v against a static
// surface, applying restitution and Coulomb friction.
func (w *World) respond(v, normal rl.Vector3, cm ContactMaterial) rl.Vector3 {
	vn := rl.Vector3DotProduct(v, normal)
	if vn >= 0 {
		return v
	}
	e := cm.Restitution
	if -vn < bounceThreshold {
		e = 0
	}
	tangent := rl.Vector3Subtract(v, rl.Vector3Scale(normal, vn))
	tangent = applyFriction(tangent, -vn*(1+e), cm.Friction)
	return rl.Vector3Add(tangent, rl.Vector3Scale(normal, -vn*e))
}

// applyFriction shrinks the tangential velocity by at most friction times
// the normal velocity change.
func applyFriction(tangent rl.Vector3, normalDelta, friction float32) rl.Vector3 {
	speed := rl.Vector3Length(tangent)
	if speed < 0.0001 || friction <= 0 {
		return tangent
	}
	drop := friction * normalDelta
	if drop >= speed {
		return rl.Vector3Zero()
	}
	return rl.Vector3Scale(tangent, (speed-drop)/speed)
}

// Sphere vs Sphere collision between two dynamic bodies
func (w *World) resolveDynamic(a, b *Body) {
	m, ok := sphereVsSphere(a.Position, a.Radius, b.Position, b.Radius)
	if !ok {
		return
	}
	w.recordCollision(a, b, m)

	// Split push based on mass
	totalMass := a.Mass + b.Mass
	ratioA := b.Mass / totalMass
	ratioB := a.Mass / totalMass
	a.Position = rl.Vector3Add(a.Position, rl.Vector3Scale(m.Normal, m.Depth*ratioA))
	b.Position = rl.Vector3Subtract(b.Position, rl.Vector3Scale(m.Normal, m.Depth*ratioB))

	relVel := rl.Vector3Subtract(a.Velocity, b.Velocity)
	velAlongNormal := rl.Vector3DotProduct(relVel, m.Normal)
	if velAlongNormal > 0 {
		return
	}

	cm := w.ContactMaterialFor(a, b)
	e := cm.Restitution
	if -velAlongNormal < bounceThreshold {
		e = 0
	}

	// Impulse magnitude
	j := -(1 + e) * velAlongNormal
	j /= (1/a.Mass + 1/b.Mass)

	impulse := rl.Vector3Scale(m.Normal, j)
	a.Velocity = rl.Vector3Add(a.Velocity, rl.Vector3Scale(impulse, 1/a.Mass))
	b.Velocity = rl.Vector3Subtract(b.Velocity, rl.Vector3Scale(impulse, 1/b.Mass))

	// Friction on the relative tangential motion, shared by inverse mass
	if cm.Friction <= 0 {
		return
	}
	tangent := rl.Vector3Subtract(relVel, rl.Vector3Scale(m.Normal, velAlongNormal))
	reduced := applyFriction(tangent, -velAlongNormal*(1+e), cm.Friction)
	delta := rl.Vector3Subtract(tangent, reduced)
	invA, invB := 1/a.Mass, 1/b.Mass
	share := invA / (invA + invB)
	a.Velocity = rl.Vector3Subtract(a.Velocity, rl.Vector3Scale(delta, share))
	b.Velocity = rl.Vector3Add(b.Velocity, rl.Vector3Scale(delta, 1-share))
}

// Summary logs the current body counts.
func (w *World) Summary() {
	log.Printf("Physics: %d dynamic, %d static bodies, %d contacts", len(w.dynamics), len(w.statics), len(w.activeCollisions))
}
