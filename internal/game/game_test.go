package game

import (
	"math"
	"path/filepath"
	"testing"

	"pillarhop/internal/config"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestReloadTarget(t *testing.T) {
	if !reloadTarget(filepath.Join(config.Dir, config.DefaultFile), "") {
		t.Error("Expected the default settings file to trigger a reload")
	}
	if reloadTarget(filepath.Join(config.Dir, "other.yaml"), "") {
		t.Error("Expected unrelated YAML files to be ignored")
	}
	if !reloadTarget("/tmp/custom.yaml", "custom.yaml") {
		t.Error("Expected the explicit settings file to trigger a reload")
	}
	if reloadTarget("/tmp/game.yaml", "/tmp/custom.yaml") {
		t.Error("Expected the default file ignored when an explicit file is in use")
	}
}

func TestSegmentAlong(t *testing.T) {
	ray := rl.Ray{Position: rl.Vector3{X: 1, Y: 2, Z: 3}, Direction: rl.Vector3{Y: -4}}
	from, to := segmentAlong(ray, 10)
	if from != ray.Position {
		t.Errorf("Expected segment to start at %v, got %v", ray.Position, from)
	}
	want := rl.Vector3{X: 1, Y: -8, Z: 3}
	if !near(to.X, want.X) || !near(to.Y, want.Y) || !near(to.Z, want.Z) {
		t.Errorf("Expected segment end %v, got %v", want, to)
	}
}

func TestRingShape(t *testing.T) {
	r, a := ringShape(0)
	if r != ringMinRadius || a != 1 {
		t.Errorf("Expected a fresh ring at radius %f and full opacity, got %f and %f", float32(ringMinRadius), r, a)
	}
	r, a = ringShape(ringLifetime)
	if r != ringMaxRadius || a != 0 {
		t.Errorf("Expected a spent ring at radius %f and no opacity, got %f and %f", float32(ringMaxRadius), r, a)
	}
	r, _ = ringShape(ringLifetime * 4)
	if r != ringMaxRadius {
		t.Errorf("Expected radius clamped to %f, got %f", float32(ringMaxRadius), r)
	}
}

func TestRingsExpire(t *testing.T) {
	r := NewRenderer()
	r.AddBounce(rl.Vector3{}, 0)
	r.AddBounce(rl.Vector3{X: 1}, 0.5)

	r.Update(0.4)
	if len(r.rings) != 2 {
		t.Fatalf("Expected 2 live rings, got %d", len(r.rings))
	}
	r.Update(0.7)
	if len(r.rings) != 1 || r.rings[0].pos.X != 1 {
		t.Fatalf("Expected only the newer ring left, got %v", r.rings)
	}
	r.Update(2)
	if len(r.rings) != 0 {
		t.Errorf("Expected no rings, got %d", len(r.rings))
	}
}

func TestFacingVector(t *testing.T) {
	v := facingVector(0)
	if !near(v.X, 0) || !near(v.Z, 1) {
		t.Errorf("Expected yaw 0 to face +Z, got %v", v)
	}
	v = facingVector(math.Pi / 2)
	if !near(v.X, 1) || !near(v.Z, 0) {
		t.Errorf("Expected yaw pi/2 to face +X, got %v", v)
	}
}

func TestClampZoom(t *testing.T) {
	if clampZoom(1) != minDistance {
		t.Errorf("Expected zoom clamped to %d, got %f", minDistance, clampZoom(1))
	}
	if clampZoom(100) != maxDistance {
		t.Errorf("Expected zoom clamped to %d, got %f", maxDistance, clampZoom(100))
	}
	if clampZoom(20) != 20 {
		t.Errorf("Expected zoom 20 kept, got %f", clampZoom(20))
	}
}

func TestLivesText(t *testing.T) {
	if got := livesText(3); got != "Lives ooo" {
		t.Errorf("Expected \"Lives ooo\", got %q", got)
	}
	if got := livesText(0); got != "Lives -" {
		t.Errorf("Expected \"Lives -\", got %q", got)
	}
}
