// Package config holds the tunable settings of the game and loads them from
// YAML, either embedded in the binary or from a config/ directory on disk.
package config

import (
	"errors"
	"fmt"

	"pillarhop/internal/physics"
	"pillarhop/internal/player"
	"pillarhop/internal/props"
	"pillarhop/internal/terrain"
)

type Level struct {
	Name    string          `yaml:"name"`
	Terrain terrain.Options `yaml:"terrain"`
	// BallRate overrides the ball spawns per second for this level when set.
	BallRate float32 `yaml:"ball_rate"`
}

// Contacts are the material responses between the prop, player and terrain
// bodies.
type Contacts struct {
	BallTerrain   physics.ContactMaterial `yaml:"ball_terrain"`
	BallPlayer    physics.ContactMaterial `yaml:"ball_player"`
	PlayerTerrain physics.ContactMaterial `yaml:"player_terrain"`
}

type Window struct {
	Width     int32  `yaml:"width"`
	Height    int32  `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int32  `yaml:"target_fps"`
}

type Game struct {
	Window   Window              `yaml:"window"`
	Physics  physics.Config      `yaml:"physics"`
	Contacts Contacts            `yaml:"contacts"`
	Player   player.Config       `yaml:"player"`
	Balls    props.SpawnerConfig `yaml:"balls"`
	Cupcakes props.SpawnerConfig `yaml:"cupcakes"`
	Lives    int                 `yaml:"lives"`
	Levels   []Level             `yaml:"levels"`
}

// Defaults returns the built-in settings. The embedded game.yaml carries the
// same values.
func Defaults() Game {
	return Game{
		Window:  Window{Width: 1280, Height: 720, Title: "pillarhop", TargetFPS: 60},
		Physics: physics.DefaultConfig(),
		Contacts: Contacts{
			BallTerrain:   physics.ContactMaterial{Friction: 0.1, Restitution: 0.4},
			BallPlayer:    physics.ContactMaterial{Friction: 0.2, Restitution: 0.7},
			PlayerTerrain: physics.ContactMaterial{Friction: 0.05, Restitution: 0},
		},
		Player:   player.DefaultConfig(),
		Balls:    props.DefaultBallConfig(),
		Cupcakes: props.DefaultCupcakeConfig(),
		Lives:    3,
		Levels: []Level{
			{
				Name: "meadow",
				Terrain: terrain.Options{
					Rows: 1, Cols: 1, ColumnBaseSize: 15, MaxHeight: 18, Spacing: 2, Seed: 1,
				},
			},
			{
				Name: "night",
				Terrain: terrain.Options{
					Rows: 2, Cols: 2, ColumnBaseSize: 12, MaxHeight: 22, Spacing: 2, Seed: 2,
					GoalPolicy: terrain.GoalFarCorner,
				},
				BallRate: 1.5,
			},
		},
	}
}

// Validate reports every setting that would leave the game unplayable.
func (g Game) Validate() error {
	var errs []error
	if g.Physics.FixedStep < 0 || g.Physics.MaxSubSteps < 0 {
		errs = append(errs, fmt.Errorf("config: physics: negative fixed step or sub-step cap"))
	}
	if g.Player.MaxJumps < 0 {
		errs = append(errs, fmt.Errorf("config: player: max_jumps %d", g.Player.MaxJumps))
	}
	if g.Player.Radius < 0 || g.Player.Mass < 0 {
		errs = append(errs, fmt.Errorf("config: player: negative radius or mass"))
	}
	if g.Lives <= 0 {
		errs = append(errs, fmt.Errorf("config: lives must be positive, got %d", g.Lives))
	}
	errs = append(errs, validateSpawner("balls", g.Balls)...)
	errs = append(errs, validateSpawner("cupcakes", g.Cupcakes)...)
	if len(g.Levels) == 0 {
		errs = append(errs, errors.New("config: no levels"))
	}
	for i, l := range g.Levels {
		if !l.Terrain.Valid() {
			errs = append(errs, fmt.Errorf("config: level %d (%s): invalid terrain %s", i, l.Name, l.Terrain))
		}
	}
	return errors.Join(errs...)
}

func validateSpawner(name string, cfg props.SpawnerConfig) []error {
	var errs []error
	if len(cfg.Profiles) == 0 {
		errs = append(errs, fmt.Errorf("config: %s: no profiles", name))
	}
	for _, p := range cfg.Profiles {
		if p.Radius <= 0 || p.Mass <= 0 {
			errs = append(errs, fmt.Errorf("config: %s: profile %q needs positive radius and mass", name, p.ID))
		}
	}
	if cfg.Interval < 0 || cfg.Lifetime < 0 {
		errs = append(errs, fmt.Errorf("config: %s: negative interval or lifetime", name))
	}
	return errs
}
