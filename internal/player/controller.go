package player

import (
	"log"
	"math"

	"pillarhop/internal/engine"
	"pillarhop/internal/physics"
	"pillarhop/internal/terrain"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// GroundState is the locomotion state derived from the ground probe.
type GroundState int

const (
	Grounded GroundState = iota
	// Coyote is the short window after leaving the ground in which a jump
	// still counts as a ground jump.
	Coyote
	Airborne
)

func (s GroundState) String() string {
	switch s {
	case Grounded:
		return "grounded"
	case Coyote:
		return "coyote"
	}
	return "airborne"
}

// Input is the pressed state of the movement keys for one tick.
type Input struct {
	Forward, Backward, Left, Right, Jump bool
}

// CameraSource supplies the view basis movement is resolved against.
type CameraSource interface {
	Basis() (forward, right rl.Vector3)
}

// ColumnFinder locates the column under a point for respawning.
type ColumnFinder interface {
	Nearest(x, z float32) (*terrain.Column, bool)
}

// DefaultSpawn is used when no terrain is available to respawn on.
var DefaultSpawn = rl.Vector3{X: 0, Y: 5, Z: 0}

const groundMask = physics.TagTerrain | physics.TagSafetyFloor

// Controller drives the player's body: ground detection, jumps with coyote
// time and a double jump, camera-relative movement, heading and respawn.
type Controller struct {
	Config Config

	// OnGoalReached fires once per level when the player touches the goal.
	OnGoalReached engine.Signal
	// OnFellOff fires after every respawn.
	OnFellOff engine.Signal
	// OnJump carries the jumps left after a successful jump.
	OnJump engine.Event[int]

	world    *physics.World
	material *physics.Material
	body     *physics.Body
	camera   CameraSource
	terrain  ColumnFinder
	listener engine.ListenerID

	state          GroundState
	coyote         float32
	jumpsRemaining int
	facingYaw      float32
	jumpHeld       bool

	canTriggerGoal bool
	goalPending    bool
	hazardPending  bool
}

// New creates a controller and subscribes it to the world's contacts.
func New(world *physics.World, material *physics.Material, cfg Config) *Controller {
	c := &Controller{
		Config:         cfg.WithDefaults(),
		world:          world,
		material:       material,
		canTriggerGoal: true,
	}
	c.listener = world.OnCollide.AddListener(c.HandleContact)
	return c
}

// Close removes the player body and stops listening to contacts.
func (c *Controller) Close() {
	c.world.OnCollide.RemoveListener(c.listener)
	if c.body != nil {
		c.world.RemoveBody(c.body)
		c.body = nil
	}
}

func (c *Controller) SetCamera(cam CameraSource) {
	c.camera = cam
}

func (c *Controller) SetTerrain(finder ColumnFinder) {
	c.terrain = finder
}

// Spawn creates the player body on first use and places it at pos as if
// freshly grounded.
func (c *Controller) Spawn(pos rl.Vector3) *physics.Body {
	if c.body == nil {
		body := physics.NewSphere(c.Config.Radius, c.Config.Mass)
		body.LinearDamping = c.Config.LinearDamping
		body.Tags = physics.TagPlayer
		body.Material = c.material
		body.UserData = c
		c.body = body
	}
	c.world.AddBody(c.body)
	c.body.Teleport(pos)
	c.resetGrounded()
	c.hazardPending = false
	return c.body
}

// SpawnOn places the player resting on top of col.
func (c *Controller) SpawnOn(col *terrain.Column) *physics.Body {
	return c.Spawn(rl.Vector3Add(col.Top(), rl.Vector3{Y: c.Config.Radius}))
}

// ApplyTuning swaps the locomotion parameters without touching state.
func (c *Controller) ApplyTuning(cfg Config) {
	c.Config = cfg.WithDefaults()
	if c.body != nil {
		c.body.LinearDamping = c.Config.LinearDamping
	}
	if c.jumpsRemaining > c.Config.MaxJumps {
		c.jumpsRemaining = c.Config.MaxJumps
	}
}

func (c *Controller) Body() *physics.Body { return c.body }
func (c *Controller) State() GroundState { return c.state }
func (c *Controller) JumpsRemaining() int { return c.jumpsRemaining }
func (c *Controller) CoyoteRemaining() float32 { return c.coyote }
func (c *Controller) FacingYaw() float32 { return c.facingYaw }
func (c *Controller) CanTriggerGoal() bool { return c.canTriggerGoal }
func (c *Controller) Camera() CameraSource { return c.camera }
func (c *Controller) Terrain() ColumnFinder { return c.terrain }
func (c *Controller) Position() rl.Vector3 { return c.body.Position }
func (c *Controller) Ready() bool { return c.body != nil && c.camera != nil }

// ResetGoalLatch re-arms the goal trigger. Called on level load.
func (c *Controller) ResetGoalLatch() {
	c.canTriggerGoal = true
	c.goalPending = false
}

// HandleContact classifies contacts involving the player. It runs inside
// the physics step and only records flags for the next Update.
func (c *Controller) HandleContact(contact physics.Contact) {
	if c.body == nil || !contact.Involves(c.body) {
		return
	}
	other := contact.A
	if other == c.body {
		other = contact.B
	}
	if other.Tags.Has(physics.TagGoal) && c.canTriggerGoal {
		c.canTriggerGoal = false
		c.goalPending = true
	}
	if other.Tags.Has(physics.TagSafetyFloor) {
		c.hazardPending = true
	}
}

// Update runs one locomotion tick after the physics step. It does nothing
// until both the body and the camera are set.
func (c *Controller) Update(dt float32, in Input) {
	if !c.Ready() || !c.body.InWorld() {
		return
	}

	if c.hazardPending || c.body.Position.Y < c.Config.WorldBottom {
		c.Respawn()
		return
	}

	c.updateState(c.probeGround(), dt)

	jumpPressed := in.Jump && !c.jumpHeld
	c.jumpHeld = in.Jump
	if jumpPressed {
		c.TryJump()
	}

	dir := c.intendedDirection(in)
	c.applyMovement(dir, dt)
	c.updateFacing(dir, dt)

	if c.goalPending {
		c.goalPending = false
		c.OnGoalReached.Invoke()
	}
}

// probeGround casts five short rays down from the centre and four cardinal
// points around it.
func (c *Controller) probeGround() bool {
	if c.body.Velocity.Y > c.Config.GroundedMaxRise {
		return false
	}
	r := c.Config.Radius
	o := r * c.Config.GroundProbeOffset
	length := r + c.Config.GroundProbeMargin
	offsets := [5]rl.Vector3{{}, {X: o}, {X: -o}, {Z: o}, {Z: -o}}

	for _, off := range offsets {
		from := rl.Vector3Add(c.body.Position, off)
		to := rl.Vector3Subtract(from, rl.Vector3{Y: length})
		hit, ok := c.world.Raycast(from, to, physics.RayOptions{Mask: groundMask, Skip: c.body})
		if ok && hit.Distance > 0 && hit.Normal.Y > 0.5 {
			return true
		}
	}
	return false
}

func (c *Controller) updateState(grounded bool, dt float32) {
	switch {
	case grounded:
		if c.state != Grounded {
			c.jumpsRemaining = c.Config.MaxJumps
		}
		c.state = Grounded
		c.coyote = 0
	case c.state == Grounded:
		c.state = Coyote
		c.coyote = c.Config.CoyoteTime
	case c.state == Coyote:
		c.coyote -= dt
		if c.coyote <= 0 {
			c.coyote = 0
			c.state = Airborne
		}
	}
}

// TryJump attempts a jump. Every jump spends one of jumpsRemaining. Past
// the coyote window jumping needs MaxJumps of two or more.
func (c *Controller) TryJump() bool {
	if c.body == nil || c.jumpsRemaining <= 0 {
		return false
	}
	fromGround := c.state == Grounded || (c.state == Coyote && c.coyote > 0)
	if !fromGround && c.Config.MaxJumps < 2 {
		return false
	}

	v := c.body.Velocity
	v.Y = 0
	c.body.Velocity = v
	c.body.ApplyImpulse(rl.Vector3{Y: c.Config.JumpImpulse * c.body.Mass})

	c.jumpsRemaining--
	c.state = Airborne
	c.coyote = 0
	c.OnJump.Invoke(c.jumpsRemaining)
	return true
}

// intendedDirection resolves pressed keys against the camera basis
// projected onto the ground plane.
func (c *Controller) intendedDirection(in Input) rl.Vector3 {
	forward, right := c.camera.Basis()
	forward = flatten(forward)
	right = flatten(right)

	var dir rl.Vector3
	if in.Forward {
		dir = rl.Vector3Add(dir, forward)
	}
	if in.Backward {
		dir = rl.Vector3Subtract(dir, forward)
	}
	if in.Right {
		dir = rl.Vector3Add(dir, right)
	}
	if in.Left {
		dir = rl.Vector3Subtract(dir, right)
	}
	if rl.Vector3Length(dir) < 0.0001 {
		return rl.Vector3Zero()
	}
	return rl.Vector3Normalize(dir)
}

func (c *Controller) applyMovement(dir rl.Vector3, dt float32) {
	hasInput := dir != rl.Vector3Zero()
	target := rl.Vector3Scale(dir, c.Config.MoveSpeed)
	v := c.body.Velocity

	if c.state == Grounded {
		rate := c.Config.GroundBraking
		if hasInput {
			rate = c.Config.GroundConvergence
		}
		alpha := perTick(rate, dt)
		v.X += (target.X - v.X) * alpha
		v.Z += (target.Z - v.Z) * alpha
		c.body.Velocity = v
		return
	}

	if !hasInput {
		return
	}
	correction := rl.Vector3{X: target.X - v.X, Z: target.Z - v.Z}
	c.body.ApplyForce(rl.Vector3Scale(correction, c.body.Mass*c.Config.AirControl*c.Config.AirForceGain))
}

func (c *Controller) updateFacing(dir rl.Vector3, dt float32) {
	v := c.body.Velocity
	speed := float32(math.Hypot(float64(v.X), float64(v.Z)))

	var desired float32
	switch {
	case speed > c.Config.MinTurnSpeed:
		desired = float32(math.Atan2(float64(v.X), float64(v.Z)))
	case dir != rl.Vector3Zero():
		desired = float32(math.Atan2(float64(dir.X), float64(dir.Z)))
	default:
		return
	}
	t := float32(1 - math.Exp(float64(-c.Config.TurnRate*dt)))
	c.facingYaw = lerpAngle(c.facingYaw, desired, t)
}

// Respawn moves the player onto the nearest column, stops it and resets the
// jump state as if it had just landed.
func (c *Controller) Respawn() {
	if c.body == nil {
		return
	}
	pos := DefaultSpawn
	if c.terrain != nil {
		if col, ok := c.terrain.Nearest(c.body.Position.X, c.body.Position.Z); ok {
			pos = rl.Vector3Add(col.Top(), rl.Vector3{Y: c.Config.Radius + c.Config.RespawnClearance})
		}
	}
	log.Printf("Player: respawn at (%.1f, %.1f, %.1f) from y=%.1f", pos.X, pos.Y, pos.Z, c.body.Position.Y)
	c.body.Teleport(pos)
	c.resetGrounded()
	c.hazardPending = false
	c.OnFellOff.Invoke()
}

func (c *Controller) resetGrounded() {
	c.state = Grounded
	c.coyote = 0
	c.jumpsRemaining = c.Config.MaxJumps
	c.jumpHeld = false
}

func flatten(v rl.Vector3) rl.Vector3 {
	v.Y = 0
	if rl.Vector3Length(v) < 0.0001 {
		return rl.Vector3Zero()
	}
	return rl.Vector3Normalize(v)
}

// perTick converts a per-1/60 s fraction into one for a tick of dt seconds.
func perTick(rate, dt float32) float32 {
	if rate >= 1 {
		return 1
	}
	return float32(1 - math.Pow(float64(1-rate), float64(dt*60)))
}

// lerpAngle moves a toward b along the shorter arc.
func lerpAngle(a, b, t float32) float32 {
	diff := math.Mod(float64(b-a)+math.Pi, 2*math.Pi)
	if diff < 0 {
		diff += 2 * math.Pi
	}
	diff -= math.Pi
	return a + float32(diff)*t
}
