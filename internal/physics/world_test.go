package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func floorBox(w *World) *Body {
	floor := NewBox(rl.Vector3{X: 10, Y: 0.5, Z: 10})
	floor.Position = rl.Vector3{Y: -0.5}
	floor.Tags = TagSafetyFloor
	return w.AddBody(floor)
}

func TestStepSubStepping(t *testing.T) {
	w := NewWorld(DefaultConfig())

	if n := w.Step(w.FixedStep / 2); n != 0 {
		t.Errorf("Expected 0 sub-steps for half a step, got %d", n)
	}
	if n := w.Step(w.FixedStep / 2); n != 1 {
		t.Errorf("Expected accumulated time to run 1 sub-step, got %d", n)
	}
	if n := w.Step(1); n != w.MaxSubSteps {
		t.Errorf("Expected sub-steps capped at %d, got %d", w.MaxSubSteps, n)
	}
	// Leftover time past the cap is dropped.
	if n := w.Step(w.FixedStep / 2); n != 0 {
		t.Errorf("Expected dropped backlog, got %d sub-steps", n)
	}
	if n := w.Step(0); n != 0 {
		t.Errorf("Expected no sub-steps for zero delta, got %d", n)
	}
}

func TestGravityIntegration(t *testing.T) {
	w := NewWorld(DefaultConfig())
	ball := w.AddBody(NewSphere(0.5, 1))
	ball.Position = rl.Vector3{Y: 100}

	for i := 0; i < 60; i++ {
		w.Step(w.FixedStep)
	}

	if ball.Velocity.Y > -9.7 || ball.Velocity.Y < -9.9 {
		t.Errorf("Expected velocity near -9.82 after one second, got %f", ball.Velocity.Y)
	}
	if ball.Position.Y >= 100 {
		t.Errorf("Expected ball to fall, got y=%f", ball.Position.Y)
	}
}

func TestLinearDampingSlowsBody(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = rl.Vector3{}
	w := NewWorld(cfg)
	ball := w.AddBody(NewSphere(0.5, 1))
	ball.LinearDamping = 0.5
	ball.Velocity = rl.Vector3{X: 10}

	for i := 0; i < 60; i++ {
		w.Step(w.FixedStep)
	}

	// (1 - 0.5)^1 over one second
	if ball.Velocity.X < 4.9 || ball.Velocity.X > 5.1 {
		t.Errorf("Expected velocity near 5, got %f", ball.Velocity.X)
	}
}

func TestApplyForceLastsOneStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = rl.Vector3{}
	w := NewWorld(cfg)
	ball := w.AddBody(NewSphere(0.5, 2))

	ball.ApplyForce(rl.Vector3{X: 120})
	w.Step(w.FixedStep)
	w.Step(w.FixedStep)

	// a = F/m = 60, applied for one 1/60 s step
	if ball.Velocity.X < 0.99 || ball.Velocity.X > 1.01 {
		t.Errorf("Expected velocity 1, got %f", ball.Velocity.X)
	}
}

func TestSphereRestsOnBox(t *testing.T) {
	w := NewWorld(DefaultConfig())
	floorBox(w)
	ball := w.AddBody(NewSphere(0.5, 1))
	ball.Position = rl.Vector3{Y: 3}

	for i := 0; i < 240; i++ {
		w.Step(w.FixedStep)
	}

	if ball.Position.Y < 0.45 || ball.Position.Y > 0.55 {
		t.Errorf("Expected ball resting at y=0.5, got %f", ball.Position.Y)
	}
	if abs(ball.Velocity.Y) > 0.5 {
		t.Errorf("Expected ball settled, got vy=%f", ball.Velocity.Y)
	}
}

func TestSphereRestsOnPrism(t *testing.T) {
	w := NewWorld(DefaultConfig())
	pillar := NewPrism(1, 4)
	pillar.Position = rl.Vector3{Y: 2}
	pillar.Tags = TagTerrain
	w.AddBody(pillar)

	ball := w.AddBody(NewSphere(0.75, 1))
	ball.Position = rl.Vector3{Y: 6}

	for i := 0; i < 240; i++ {
		w.Step(w.FixedStep)
	}

	if ball.Position.Y < 4.7 || ball.Position.Y > 4.8 {
		t.Errorf("Expected ball resting on top at y=4.75, got %f", ball.Position.Y)
	}
	if abs(ball.Position.X) > 0.001 || abs(ball.Position.Z) > 0.001 {
		t.Errorf("Expected no horizontal drift, got (%f, %f)", ball.Position.X, ball.Position.Z)
	}
}

func TestSpherePushedOutOfPrismSide(t *testing.T) {
	w := NewWorld(DefaultConfig())
	w.Gravity = rl.Vector3{}
	pillar := NewPrism(1, 4)
	pillar.Position = rl.Vector3{Y: 2}
	w.AddBody(pillar)

	// The edge facing -Z sits at inradius 0.5 from the center.
	ball := w.AddBody(NewSphere(0.5, 1))
	ball.Position = rl.Vector3{Y: 2, Z: -0.8}
	w.Step(w.FixedStep)

	if ball.Position.Z > -0.999 || ball.Position.Z < -1.001 {
		t.Errorf("Expected ball pushed to z=-1, got %f", ball.Position.Z)
	}
}

func TestRestitutionBounces(t *testing.T) {
	w := NewWorld(DefaultConfig())
	wall := &Material{Name: "wall"}
	ballMat := &Material{Name: "ball"}
	w.SetContactMaterial(ballMat, wall, ContactMaterial{Friction: 0.1, Restitution: 0.4})

	floor := floorBox(w)
	floor.Material = wall
	ball := w.AddBody(NewSphere(0.5, 1))
	ball.Material = ballMat
	ball.Position = rl.Vector3{Y: 5}

	bounced := false
	for i := 0; i < 120; i++ {
		w.Step(w.FixedStep)
		if ball.Velocity.Y > 1 {
			bounced = true
			break
		}
	}
	if !bounced {
		t.Error("Expected ball to bounce off the floor")
	}
}

func TestContactMaterialLookupIsSymmetric(t *testing.T) {
	w := NewWorld(DefaultConfig())
	a := &Material{Name: "ball"}
	b := &Material{Name: "player"}
	w.SetContactMaterial(b, a, ContactMaterial{Friction: 0.2, Restitution: 0.7})

	x := &Body{Material: a}
	y := &Body{Material: b}
	if cm := w.ContactMaterialFor(x, y); cm.Restitution != 0.7 {
		t.Errorf("Expected restitution 0.7, got %f", cm.Restitution)
	}
	if cm := w.ContactMaterialFor(y, x); cm.Friction != 0.2 {
		t.Errorf("Expected friction 0.2, got %f", cm.Friction)
	}
	if cm := w.ContactMaterialFor(x, &Body{}); cm != w.DefaultContact {
		t.Errorf("Expected default contact, got %+v", cm)
	}
}

func TestSphereSphereExchangesMomentum(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = rl.Vector3{}
	w := NewWorld(cfg)
	a := w.AddBody(NewSphere(0.5, 1))
	b := w.AddBody(NewSphere(0.5, 1))
	a.Position = rl.Vector3{X: -0.6}
	b.Position = rl.Vector3{X: 0.6}
	a.Velocity = rl.Vector3{X: 5}
	b.Velocity = rl.Vector3{X: -5}

	for i := 0; i < 5; i++ {
		w.Step(w.FixedStep)
	}

	if a.Velocity.X > 0 || b.Velocity.X < 0 {
		t.Errorf("Expected spheres to separate, got a=%f b=%f", a.Velocity.X, b.Velocity.X)
	}
	total := a.Velocity.X + b.Velocity.X
	if abs(total) > 0.001 {
		t.Errorf("Expected momentum conserved, got %f", total)
	}
}

func TestCollisionEventsBeginAndSeparate(t *testing.T) {
	w := NewWorld(DefaultConfig())
	floor := floorBox(w)
	ball := w.AddBody(NewSphere(0.5, 1))
	ball.Tags = TagBall
	ball.Position = rl.Vector3{Y: 0.49}

	begins, contacts, separations := 0, 0, 0
	w.OnCollide.AddListener(func(c Contact) {
		contacts++
		if c.Begin {
			begins++
		}
		self, other, ok := c.Match(TagBall)
		if !ok || self != ball || other != floor {
			t.Errorf("Expected ball/floor contact, got %v/%v", c.A.Tags, c.B.Tags)
		}
	})
	w.OnSeparate.AddListener(func(c Contact) { separations++ })

	for i := 0; i < 10; i++ {
		w.Step(w.FixedStep)
	}
	if begins != 1 {
		t.Errorf("Expected 1 begin event, got %d", begins)
	}
	if contacts < 10 {
		t.Errorf("Expected a contact every step, got %d", contacts)
	}

	ball.Teleport(rl.Vector3{Y: 50})
	w.Step(w.FixedStep)
	if separations != 1 {
		t.Errorf("Expected 1 separation, got %d", separations)
	}
}

func TestRemoveDuringStepIsDeferred(t *testing.T) {
	w := NewWorld(DefaultConfig())
	floorBox(w)
	ball := w.AddBody(NewSphere(0.5, 1))
	ball.Position = rl.Vector3{Y: 0.49}

	countDuring := -1
	w.OnCollide.AddListener(func(c Contact) {
		if c.Involves(ball) {
			w.RemoveBody(ball)
			w.RemoveBody(ball)
			countDuring = w.BodyCount()
		}
	})

	w.Step(w.FixedStep)

	if countDuring != 2 {
		t.Errorf("Expected both bodies present during the step, got %d", countDuring)
	}
	if w.BodyCount() != 1 {
		t.Errorf("Expected ball removed after the step, got %d bodies", w.BodyCount())
	}
	if ball.InWorld() {
		t.Error("Ball should no longer be in the world")
	}
	if w.RemoveBody(ball) {
		t.Error("Removing an already removed body should be a no-op")
	}
}

func TestStaticGridFindsNeighbours(t *testing.T) {
	w := NewWorld(DefaultConfig())
	for i := 0; i < 20; i++ {
		p := NewPrism(1, 2)
		p.Position = rl.Vector3{X: float32(i) * 4, Y: 1}
		w.AddBody(p)
	}
	ball := w.AddBody(NewSphere(0.5, 1))
	ball.Position = rl.Vector3{X: 40, Y: 2.4}

	touched := 0
	w.OnCollide.AddListener(func(c Contact) { touched++ })
	w.Step(w.FixedStep)

	if touched != 1 {
		t.Errorf("Expected exactly one pillar contact, got %d", touched)
	}
}

func TestTagString(t *testing.T) {
	tags := TagTerrain | TagGoal
	if tags.String() != "terrain|goal" {
		t.Errorf("Expected terrain|goal, got %s", tags.String())
	}
	if !tags.Has(TagGoal) || tags.Has(TagPlayer) {
		t.Error("Has reported the wrong flags")
	}
	if !tags.Any(TagPlayer | TagTerrain) {
		t.Error("Any should match a shared flag")
	}
}
