package game

import (
	"log"

	"pillarhop/internal/player"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	keyOrbitSpeed  = 90 // degrees per second
	dragHeightGain = 0.05
	zoomStep       = 2
	minDistance    = 8
	maxDistance    = 60
	pickDistance   = 500
)

func readInput() player.Input {
	return player.Input{
		Forward:  rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
		Backward: rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
		Left:     rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft),
		Right:    rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight),
		Jump:     rl.IsKeyDown(rl.KeySpace),
	}
}

func (g *Game) handleKeys() {
	if rl.IsKeyPressed(rl.KeyEscape) || rl.IsKeyPressed(rl.KeyP) {
		g.Manager.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		g.DebugMode = !g.DebugMode
	}
	if rl.IsKeyPressed(rl.KeyF2) {
		g.Manager.World().Summary()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.ShowReach = !g.ShowReach
	}
	if (g.Manager.Won() || g.Manager.Over()) && rl.IsKeyPressed(rl.KeyR) {
		g.restart()
	}
}

func (g *Game) handleCamera(dt float32) {
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		g.Camera.Orbit(delta.X*g.Camera.OrbitSpeed, -delta.Y*dragHeightGain)
	}
	if rl.IsKeyDown(rl.KeyQ) {
		g.Camera.Orbit(-keyOrbitSpeed*dt, 0)
	}
	if rl.IsKeyDown(rl.KeyE) {
		g.Camera.Orbit(keyOrbitSpeed*dt, 0)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.Camera.Distance = clampZoom(g.Camera.Distance - wheel*zoomStep)
	}
}

func clampZoom(d float32) float32 {
	return min(max(d, minDistance), maxDistance)
}

// handleClick collects the cupcake under the cursor.
func (g *Game) handleClick() {
	if !g.Manager.Running() || !rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		return
	}
	ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), g.Camera.GetRaylibCamera())
	from, to := segmentAlong(ray, pickDistance)
	if points, ok := g.Manager.SelectRay(from, to); ok {
		log.Printf("Game: cupcake collected (+%d)", points)
	}
}

// segmentAlong turns a ray into a finite segment of the given length.
func segmentAlong(ray rl.Ray, length float32) (from, to rl.Vector3) {
	dir := rl.Vector3Normalize(ray.Direction)
	return ray.Position, rl.Vector3Add(ray.Position, rl.Vector3Scale(dir, length))
}

func (g *Game) restart() {
	if err := g.Manager.Restart(); err != nil {
		log.Printf("Game: restart: %v", err)
	}
}
