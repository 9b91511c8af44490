package props

import (
	"log"
	"math/rand"

	"pillarhop/internal/engine"
	"pillarhop/internal/physics"
	"pillarhop/internal/terrain"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ColumnPicker supplies spawn columns.
type ColumnPicker interface {
	Random(r *rand.Rand) (*terrain.Column, bool)
}

type SpawnerConfig struct {
	Profiles []Profile `yaml:"profiles"`
	// Interval is the time between spawns in seconds. Zero stops spawning.
	Interval float32 `yaml:"interval"`
	Lifetime float32 `yaml:"lifetime"`
	// SpawnHeight is added to the column height.
	SpawnHeight float32 `yaml:"spawn_height"`
	// KillY removes props that fall below it.
	KillY float32 `yaml:"kill_y"`
	Seed  int64   `yaml:"seed"`

	Material *physics.Material `yaml:"-"`
}

func DefaultBallConfig() SpawnerConfig {
	return SpawnerConfig{
		Profiles:    DefaultBallProfiles(),
		Interval:    1,
		Lifetime:    15,
		SpawnHeight: 30,
		KillY:       -25,
		Seed:        1,
	}
}

func DefaultCupcakeConfig() SpawnerConfig {
	return SpawnerConfig{
		Profiles:    []Profile{DefaultCupcakeProfile()},
		Interval:    3,
		Lifetime:    15,
		SpawnHeight: 20,
		KillY:       -15,
		Seed:        2,
	}
}

// Prop is one live spawned body.
type Prop struct {
	ID        int
	Body      *physics.Body
	Profile   Profile
	SpawnTime float64
	Column    *terrain.Column
}

// Age returns how long the prop has existed at time now.
func (p *Prop) Age(now float64) float64 {
	return now - p.SpawnTime
}

// Spawner drops props onto random columns and retires them through a
// removal queue that is flushed after each physics step.
type Spawner struct {
	Kind Kind

	// OnPlayerHit fires once for every ball that strikes the player.
	OnPlayerHit engine.Signal
	// OnCollected carries the points of a collected cupcake.
	OnCollected engine.Event[int]
	// OnBounce carries the position where a ball hit the terrain.
	OnBounce engine.Event[rl.Vector3]

	cfg     SpawnerConfig
	world   *physics.World
	columns ColumnPicker
	rng     *rand.Rand
	player  *physics.Body

	props  []*Prop
	byBody map[*physics.Body]*Prop
	queue  *physics.RemovalQueue
	nextID int

	timer   float32
	elapsed float64

	pendingHits    int
	pendingBounces []rl.Vector3
	listener       engine.ListenerID
}

func NewSpawner(kind Kind, world *physics.World, columns ColumnPicker, cfg SpawnerConfig) *Spawner {
	s := &Spawner{
		Kind:    kind,
		cfg:     cfg,
		world:   world,
		columns: columns,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		byBody:  make(map[*physics.Body]*Prop),
		queue:   physics.NewRemovalQueue(),
	}
	s.listener = world.OnCollide.AddListener(s.HandleContact)
	return s
}

// Close removes every prop and stops listening to contacts.
func (s *Spawner) Close() {
	s.world.OnCollide.RemoveListener(s.listener)
	s.Clear()
}

func (s *Spawner) Config() SpawnerConfig { return s.cfg }

// SetConfig swaps the tuning. Live props keep their profiles.
func (s *Spawner) SetConfig(cfg SpawnerConfig) {
	if cfg.Material == nil {
		cfg.Material = s.cfg.Material
	}
	s.cfg = cfg
}

// SetRate sets spawns per second. Zero or less stops spawning.
func (s *Spawner) SetRate(perSecond float32) {
	if perSecond <= 0 {
		s.cfg.Interval = 0
		s.timer = 0
		return
	}
	s.cfg.Interval = 1 / perSecond
}

// Rate returns the spawns per second.
func (s *Spawner) Rate() float32 {
	if s.cfg.Interval <= 0 {
		return 0
	}
	return 1 / s.cfg.Interval
}

func (s *Spawner) SetPlayer(body *physics.Body) {
	s.player = body
}

// SetColumns replaces the spawn source, typically after a level load.
func (s *Spawner) SetColumns(columns ColumnPicker) {
	s.columns = columns
}

func (s *Spawner) Count() int { return len(s.props) }
func (s *Spawner) Props() []*Prop { return s.props }
func (s *Spawner) Pending() int { return s.queue.Len() }
func (s *Spawner) Elapsed() float64 { return s.elapsed }

// Owns reports whether body is a live prop of this spawner.
func (s *Spawner) Owns(body *physics.Body) bool {
	_, ok := s.byBody[body]
	return ok
}

// Update advances the spawn timer, retires expired or fallen props and
// emits the events recorded during the last physics step.
func (s *Spawner) Update(dt float32) {
	if dt > 0 {
		s.elapsed += float64(dt)
		if s.cfg.Interval > 0 {
			s.timer += dt
			for s.timer >= s.cfg.Interval {
				s.timer -= s.cfg.Interval
				s.Spawn()
			}
		}
	}

	for _, p := range s.props {
		expired := s.cfg.Lifetime > 0 && p.Age(s.elapsed) >= float64(s.cfg.Lifetime)
		if expired || p.Body.Position.Y < s.cfg.KillY {
			s.queue.Enqueue(p.Body)
		}
	}

	for ; s.pendingHits > 0; s.pendingHits-- {
		s.OnPlayerHit.Invoke()
	}
	for _, pos := range s.pendingBounces {
		s.OnBounce.Invoke(pos)
	}
	s.pendingBounces = s.pendingBounces[:0]
}

// Spawn drops one prop above a random column. Returns nil when there are
// no columns or no profiles.
func (s *Spawner) Spawn() *Prop {
	if s.columns == nil {
		return nil
	}
	col, ok := s.columns.Random(s.rng)
	if !ok {
		return nil
	}
	profile, ok := pickProfile(s.cfg.Profiles, s.rng)
	if !ok {
		return nil
	}
	profile.Kind = s.Kind

	body := physics.NewSphere(profile.Radius, profile.Mass)
	body.LinearDamping = profile.LinearDamping
	body.Material = s.cfg.Material
	body.Position = rl.Vector3{X: col.X, Y: col.Height + s.cfg.SpawnHeight, Z: col.Z}
	if s.Kind == Cupcake {
		body.Tags = physics.TagCupcake
		body.ApplyImpulse(rl.Vector3{
			X: (s.rng.Float32() - 0.5),
			Y: -0.5,
			Z: (s.rng.Float32() - 0.5),
		})
	} else {
		body.Tags = physics.TagBall
		body.Velocity = rl.Vector3{
			X: (s.rng.Float32() - 0.5) * 2,
			Y: -0.5 - s.rng.Float32(),
			Z: (s.rng.Float32() - 0.5) * 2,
		}
	}

	s.nextID++
	p := &Prop{ID: s.nextID, Body: body, Profile: profile, SpawnTime: s.elapsed, Column: col}
	body.UserData = p
	s.world.AddBody(body)
	s.props = append(s.props, p)
	s.byBody[body] = p
	return p
}

// HandleContact classifies contacts of this spawner's props. It runs inside
// the physics step and only queues removals.
func (s *Spawner) HandleContact(c physics.Contact) {
	if s.Kind != Ball {
		return
	}
	p, other := s.lookup(c)
	if p == nil || s.queue.Pending(p.Body) {
		return
	}
	switch {
	case other == s.player || other.Tags.Has(physics.TagPlayer):
		if s.queue.Enqueue(p.Body) {
			s.pendingHits++
		}
	case other.Tags.Any(physics.TagTerrain | physics.TagSafetyFloor):
		if s.queue.Enqueue(p.Body) {
			s.pendingBounces = append(s.pendingBounces, p.Body.Position)
		}
	}
}

func (s *Spawner) lookup(c physics.Contact) (*Prop, *physics.Body) {
	if p, ok := s.byBody[c.A]; ok {
		return p, c.B
	}
	if p, ok := s.byBody[c.B]; ok {
		return p, c.A
	}
	return nil, nil
}

// Collect retires a cupcake picked by the player and returns its points.
func (s *Spawner) Collect(body *physics.Body) (int, bool) {
	p, ok := s.byBody[body]
	if !ok || s.Kind != Cupcake || s.queue.Pending(body) {
		return 0, false
	}
	s.queue.Enqueue(body)
	s.OnCollected.Invoke(p.Profile.Points)
	return p.Profile.Points, true
}

// Pick returns the live prop hit first by the segment from -> to.
func (s *Spawner) Pick(from, to rl.Vector3) (*Prop, bool) {
	mask := physics.TagBall
	if s.Kind == Cupcake {
		mask = physics.TagCupcake
	}
	hit, ok := s.world.Raycast(from, to, physics.RayOptions{Mask: mask})
	if !ok {
		return nil, false
	}
	p, ok := s.byBody[hit.Body]
	if !ok || s.queue.Pending(p.Body) {
		return nil, false
	}
	return p, true
}

// SelectRay collects the cupcake hit first by the segment from -> to.
func (s *Spawner) SelectRay(from, to rl.Vector3) (int, bool) {
	p, ok := s.Pick(from, to)
	if !ok {
		return 0, false
	}
	return s.Collect(p.Body)
}

// Flush applies queued removals. Call it after the physics step.
func (s *Spawner) Flush() int {
	removed := len(s.queue.Flush(s.world))
	s.prune()
	return removed
}

// prune drops tracking for props whose body has left the world.
func (s *Spawner) prune() {
	kept := s.props[:0]
	for _, p := range s.props {
		if p.Body.InWorld() {
			kept = append(kept, p)
			continue
		}
		delete(s.byBody, p.Body)
	}
	clear(s.props[len(kept):])
	s.props = kept
}

// Clear removes every prop immediately. Must not be called during a step.
func (s *Spawner) Clear() {
	if len(s.props) > 0 {
		log.Printf("Spawner: clearing %d %ss", len(s.props), s.Kind)
	}
	for _, p := range s.props {
		s.world.RemoveBody(p.Body)
	}
	clear(s.props)
	s.props = s.props[:0]
	clear(s.byBody)
	s.queue.Reset()
	s.timer = 0
	s.pendingHits = 0
	s.pendingBounces = s.pendingBounces[:0]
}
