// Stress test timing the physics step with many balls on a generated level
package main

import (
	"flag"
	"fmt"
	"time"

	"pillarhop/internal/config"
	"pillarhop/internal/physics"
	"pillarhop/internal/props"
	"pillarhop/internal/terrain"
)

func main() {
	steps := flag.Int("steps", 120, "physics steps timed per ball count")
	size := flag.Int("size", 10, "terrain rows and columns")
	flag.Parse()

	cfg := config.Defaults()
	fmt.Printf("Terrain %dx%d | %d steps at %.4f s\n\n", *size, *size, *steps, cfg.Physics.FixedStep)

	// Test various ball counts
	testCounts := []int{50, 100, 250, 500, 1000, 2000}

	for _, count := range testCounts {
		testStep(cfg, *size, count, *steps)
	}
}

func testStep(cfg config.Game, size, count, steps int) {
	world := physics.NewWorld(cfg.Physics)
	terrainMat := &physics.Material{Name: "terrain"}
	ballMat := &physics.Material{Name: "ball"}
	world.SetContactMaterial(ballMat, terrainMat, cfg.Contacts.BallTerrain)

	gen := terrain.NewGenerator(world, terrainMat)
	columns, _ := gen.Generate(terrain.Options{
		Rows: size, Cols: size, ColumnBaseSize: 2, MaxHeight: 18, Spacing: 2, Seed: 42,
	})

	// Balls leave only through terrain contact, flushed after each step.
	ballCfg := cfg.Balls
	ballCfg.Interval = 0
	ballCfg.Lifetime = 0
	ballCfg.Seed = 42
	ballCfg.Material = ballMat
	balls := props.NewSpawner(props.Ball, world, gen.Index(), ballCfg)
	for i := 0; i < count; i++ {
		balls.Spawn()
	}

	contacts := 0
	world.OnCollide.AddListener(func(physics.Contact) { contacts++ })

	// Warm up
	world.Step(cfg.Physics.FixedStep)

	start := time.Now()
	var slowest time.Duration
	for i := 0; i < steps; i++ {
		stepStart := time.Now()
		world.Step(cfg.Physics.FixedStep)
		slowest = max(slowest, time.Since(stepStart))
		balls.Flush()
	}
	avg := time.Since(start) / time.Duration(steps)

	fmt.Printf("%5d balls on %3d columns: avg %9v | worst %9v | %6d contacts | %4d left\n",
		count, len(columns), avg.Round(time.Microsecond), slowest.Round(time.Microsecond),
		contacts, balls.Count())
}
