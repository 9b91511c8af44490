// Package level runs the game: it owns the physics world, the terrain, the
// player and the spawners, and advances them in a fixed order every frame.
package level

import (
	"context"
	"fmt"
	"log"
	"math"

	"pillarhop/internal/config"
	"pillarhop/internal/engine"
	"pillarhop/internal/physics"
	"pillarhop/internal/player"
	"pillarhop/internal/props"
	"pillarhop/internal/terrain"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Materials names the contact materials of every body family.
type Materials struct {
	Terrain, Player, Ball, Cupcake *physics.Material
}

func newMaterials() Materials {
	return Materials{
		Terrain: &physics.Material{Name: "terrain"},
		Player:  &physics.Material{Name: "player"},
		Ball:    &physics.Material{Name: "ball"},
		Cupcake: &physics.Material{Name: "cupcake"},
	}
}

type Manager struct {
	// UI events.
	OnPlayerHit        engine.Signal
	OnCupcakeCollected engine.Event[int]
	OnGoalReached      engine.Signal
	OnFellOff          engine.Signal
	OnLevelLoaded      engine.Event[int]
	OnGameOver         engine.Signal
	OnWin              engine.Signal
	OnScoreChanged     engine.Event[int]

	cfg       config.Game
	materials Materials
	world     *physics.World
	generator *terrain.Generator
	player    *player.Controller
	balls     *props.Spawner
	cupcakes  *props.Spawner

	input    player.Input
	level    int
	score    int
	hits     int
	ballRate float32

	paused  bool
	won     bool
	over    bool
	advance bool
	loaded  bool
}

// New builds the world described by cfg. No level is loaded until LoadLevel.
func New(cfg config.Game, cam player.CameraSource) *Manager {
	m := &Manager{
		cfg:       cfg,
		materials: newMaterials(),
		world:     physics.NewWorld(cfg.Physics),
	}
	m.applyContacts()

	m.generator = terrain.NewGenerator(m.world, m.materials.Terrain)
	m.player = player.New(m.world, m.materials.Player, cfg.Player)
	m.player.SetCamera(cam)
	m.balls = props.NewSpawner(props.Ball, m.world, m.generator.Index(), m.spawnerConfig(cfg.Balls, m.materials.Ball))
	m.cupcakes = props.NewSpawner(props.Cupcake, m.world, m.generator.Index(), m.spawnerConfig(cfg.Cupcakes, m.materials.Cupcake))

	m.player.OnGoalReached.AddListener(func() {
		m.advance = true
		m.OnGoalReached.Invoke()
	})
	m.player.OnFellOff.AddListener(m.OnFellOff.Invoke)
	m.balls.OnPlayerHit.AddListener(m.registerHit)
	m.cupcakes.OnCollected.AddListener(m.addScore)
	return m
}

func (m *Manager) spawnerConfig(cfg props.SpawnerConfig, mat *physics.Material) props.SpawnerConfig {
	cfg.Material = mat
	return cfg
}

func (m *Manager) applyContacts() {
	c := m.cfg.Contacts
	mats := m.materials
	m.world.SetContactMaterial(mats.Ball, mats.Terrain, c.BallTerrain)
	m.world.SetContactMaterial(mats.Cupcake, mats.Terrain, c.BallTerrain)
	m.world.SetContactMaterial(mats.Ball, mats.Player, c.BallPlayer)
	m.world.SetContactMaterial(mats.Player, mats.Terrain, c.PlayerTerrain)
}

// LoadLevel tears down the current level and builds level i.
func (m *Manager) LoadLevel(i int) error {
	if i < 0 || i >= len(m.cfg.Levels) {
		return fmt.Errorf("level: load %d: only %d levels", i, len(m.cfg.Levels))
	}
	if m.world.Stepping() {
		return fmt.Errorf("level: load %d: world is stepping", i)
	}
	lvl := m.cfg.Levels[i]

	m.balls.Clear()
	m.cupcakes.Clear()
	columns, goal := m.generator.Generate(lvl.Terrain)
	if len(columns) == 0 {
		return fmt.Errorf("level: load %d (%s): no columns generated", i, lvl.Name)
	}

	index := m.generator.Index()
	m.balls.SetColumns(index)
	m.cupcakes.SetColumns(index)
	m.player.SetTerrain(index)

	start, _ := index.Nearest(0, 0)
	m.balls.SetPlayer(m.player.SpawnOn(start))
	m.player.ResetGoalLatch()

	m.ballRate = m.cfg.Balls.Interval
	if m.ballRate > 0 {
		m.ballRate = 1 / m.ballRate
	}
	if lvl.BallRate > 0 {
		m.ballRate = lvl.BallRate
	}
	m.balls.SetRate(m.ballRate)

	m.level = i
	m.advance = false
	m.loaded = true
	log.Printf("Level: loaded %d/%d %q with %d columns, goal #%d, start #%d",
		i+1, len(m.cfg.Levels), lvl.Name, len(columns), goal, start.Index)
	m.OnLevelLoaded.Invoke(i)
	return nil
}

// Tick runs one frame: physics step, removal flush, gameplay updates and
// a pending level change, in that order. Nothing runs while paused, won or
// over.
func (m *Manager) Tick(dt float32) {
	if !m.Running() {
		return
	}

	m.world.Step(dt)

	m.balls.Flush()
	m.cupcakes.Flush()

	m.player.Update(dt, m.input)
	m.balls.Update(dt)
	m.cupcakes.Update(dt)

	if m.advance {
		m.advance = false
		m.nextLevel()
	}
}

func (m *Manager) nextLevel() {
	next := m.level + 1
	if next >= len(m.cfg.Levels) {
		m.won = true
		log.Printf("Level: all %d levels cleared, score %d", len(m.cfg.Levels), m.score)
		m.OnWin.Invoke()
		return
	}
	if err := m.LoadLevel(next); err != nil {
		log.Printf("Level: %v", err)
		m.won = true
		m.OnWin.Invoke()
	}
}

// Run ticks the game frames times with a fixed dt, or until the context is
// cancelled or the game ends. frames <= 0 runs until then. Returns the
// number of frames ticked.
func (m *Manager) Run(ctx context.Context, frames int, dt float32) (int, error) {
	n := 0
	for frames <= 0 || n < frames {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		default:
		}
		if m.won || m.over {
			return n, nil
		}
		m.Tick(dt)
		n++
	}
	return n, nil
}

func (m *Manager) registerHit() {
	if m.over {
		return
	}
	m.hits++
	m.OnPlayerHit.Invoke()
	if m.Lives() == 0 {
		m.over = true
		log.Printf("Level: game over after %d hits, score %d", m.hits, m.score)
		m.OnGameOver.Invoke()
	}
}

func (m *Manager) addScore(points int) {
	m.score += points
	m.OnCupcakeCollected.Invoke(points)
	m.OnScoreChanged.Invoke(m.score)
}

// Collect hands an explicitly selected cupcake to its spawner.
func (m *Manager) Collect(body *physics.Body) (int, bool) {
	return m.cupcakes.Collect(body)
}

// SelectRay collects the first cupcake along the segment from -> to.
func (m *Manager) SelectRay(from, to rl.Vector3) (int, bool) {
	return m.cupcakes.SelectRay(from, to)
}

func (m *Manager) Pause() { m.paused = true }
func (m *Manager) Resume() { m.paused = false }

func (m *Manager) TogglePause() {
	if m.won || m.over {
		return
	}
	m.paused = !m.paused
}

// Restart clears score and hits and loads the first level.
func (m *Manager) Restart() error {
	m.score = 0
	m.hits = 0
	m.won = false
	m.over = false
	m.paused = false
	m.OnScoreChanged.Invoke(0)
	return m.LoadLevel(0)
}

// SetBallRate changes the ball spawns per second until the next level load.
func (m *Manager) SetBallRate(perSecond float32) {
	if perSecond < 0 {
		perSecond = 0
	}
	m.ballRate = perSecond
	m.balls.SetRate(perSecond)
}

// ApplyTuning swaps in reloaded settings. Physics, player and spawner
// tuning apply at once; terrain changes apply on the next level load.
func (m *Manager) ApplyTuning(cfg config.Game) {
	rate := m.ballRate
	m.cfg = cfg
	m.world.Gravity = cfg.Physics.Gravity
	if cfg.Physics.FixedStep > 0 {
		m.world.FixedStep = cfg.Physics.FixedStep
	}
	if cfg.Physics.MaxSubSteps > 0 {
		m.world.MaxSubSteps = cfg.Physics.MaxSubSteps
	}
	m.applyContacts()
	m.player.ApplyTuning(cfg.Player)
	m.balls.SetConfig(m.spawnerConfig(cfg.Balls, m.materials.Ball))
	m.balls.SetRate(rate)
	m.cupcakes.SetConfig(m.spawnerConfig(cfg.Cupcakes, m.materials.Cupcake))
	if m.level >= len(cfg.Levels) {
		m.level = len(cfg.Levels) - 1
	}
	log.Printf("Level: tuning applied")
}

// Reach estimates how far and how high the player can get with every jump,
// for highlighting reachable columns.
func (m *Manager) Reach() (distance, rise float32) {
	p := m.player.Config
	g := float32(math.Abs(float64(m.world.Gravity.Y)))
	if g == 0 {
		g = 9.82
	}
	air := 2 * p.JumpImpulse / g
	rise = p.JumpImpulse * p.JumpImpulse / (2 * g) * float32(p.MaxJumps)
	distance = p.MoveSpeed * air * float32(p.MaxJumps)
	return distance, rise
}

// JumpableColumns lists the columns around the player within Reach.
func (m *Manager) JumpableColumns() []*terrain.Column {
	body := m.player.Body()
	if body == nil {
		return nil
	}
	distance, rise := m.Reach()
	return m.generator.Index().WithinRadius(body.Position.X, body.Position.Z, distance, rise)
}

// Close removes every body owned by the manager.
func (m *Manager) Close() {
	m.balls.Close()
	m.cupcakes.Close()
	m.player.Close()
	m.generator.Clear()
}

func (m *Manager) SetInput(in player.Input) { m.input = in }

// Running reports whether Tick advances the game.
func (m *Manager) Running() bool {
	return m.loaded && !m.paused && !m.won && !m.over
}

// Lives returns the lives left, never below zero.
func (m *Manager) Lives() int {
	return max(m.cfg.Lives-m.hits, 0)
}

func (m *Manager) Config() config.Game { return m.cfg }
func (m *Manager) World() *physics.World { return m.world }
func (m *Manager) Terrain() *terrain.Generator { return m.generator }
func (m *Manager) Player() *player.Controller { return m.player }
func (m *Manager) Balls() *props.Spawner { return m.balls }
func (m *Manager) Cupcakes() *props.Spawner { return m.cupcakes }
func (m *Manager) Level() int { return m.level }
func (m *Manager) LevelCount() int { return len(m.cfg.Levels) }
func (m *Manager) Score() int { return m.score }
func (m *Manager) Hits() int { return m.hits }
func (m *Manager) BallRate() float32 { return m.ballRate }
func (m *Manager) Paused() bool { return m.paused }
func (m *Manager) Won() bool { return m.won }
func (m *Manager) Over() bool { return m.over }
