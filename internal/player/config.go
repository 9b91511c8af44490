package player

// Config holds the locomotion tuning of the player.
type Config struct {
	Radius        float32 `yaml:"radius"`
	Mass          float32 `yaml:"mass"`
	LinearDamping float32 `yaml:"linear_damping"`

	MoveSpeed float32 `yaml:"move_speed"`
	// GroundConvergence is the fraction of the horizontal velocity error
	// closed per 1/60 s while grounded with input held.
	GroundConvergence float32 `yaml:"ground_convergence"`
	// GroundBraking replaces GroundConvergence when no input is held.
	GroundBraking float32 `yaml:"ground_braking"`
	AirControl    float32 `yaml:"air_control"`
	AirForceGain  float32 `yaml:"air_force_gain"`

	JumpImpulse float32 `yaml:"jump_impulse"`
	MaxJumps    int     `yaml:"max_jumps"`
	CoyoteTime  float32 `yaml:"coyote_time"`

	// GroundProbeOffset places the four outer rays at this fraction of the radius.
	GroundProbeOffset float32 `yaml:"ground_probe_offset"`
	GroundProbeMargin float32 `yaml:"ground_probe_margin"`
	// GroundedMaxRise is the vertical speed above which the player cannot
	// count as grounded, so a fresh jump is not cancelled by the probe.
	GroundedMaxRise float32 `yaml:"grounded_max_rise"`

	TurnRate     float32 `yaml:"turn_rate"`
	MinTurnSpeed float32 `yaml:"min_turn_speed"`

	WorldBottom      float32 `yaml:"world_bottom"`
	RespawnClearance float32 `yaml:"respawn_clearance"`
}

func DefaultConfig() Config {
	return Config{
		Radius:            1.5,
		Mass:              1,
		LinearDamping:     0.1,
		MoveSpeed:         10,
		GroundConvergence: 0.25,
		GroundBraking:     0.35,
		AirControl:        0.3,
		AirForceGain:      10,
		JumpImpulse:       12,
		MaxJumps:          2,
		CoyoteTime:        0.15,
		GroundProbeOffset: 0.7,
		GroundProbeMargin: 0.15,
		GroundedMaxRise:   1,
		TurnRate:          10,
		MinTurnSpeed:      0.5,
		WorldBottom:       -25,
		RespawnClearance:  0.5,
	}
}

// WithDefaults fills fields left at zero from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	fill := func(v *float32, def float32) {
		if *v == 0 {
			*v = def
		}
	}
	fill(&c.Radius, d.Radius)
	fill(&c.Mass, d.Mass)
	fill(&c.MoveSpeed, d.MoveSpeed)
	fill(&c.GroundConvergence, d.GroundConvergence)
	fill(&c.GroundBraking, d.GroundBraking)
	fill(&c.AirControl, d.AirControl)
	fill(&c.AirForceGain, d.AirForceGain)
	fill(&c.JumpImpulse, d.JumpImpulse)
	fill(&c.CoyoteTime, d.CoyoteTime)
	fill(&c.GroundProbeOffset, d.GroundProbeOffset)
	fill(&c.GroundProbeMargin, d.GroundProbeMargin)
	fill(&c.GroundedMaxRise, d.GroundedMaxRise)
	fill(&c.TurnRate, d.TurnRate)
	fill(&c.MinTurnSpeed, d.MinTurnSpeed)
	fill(&c.WorldBottom, d.WorldBottom)
	fill(&c.RespawnClearance, d.RespawnClearance)
	if c.MaxJumps == 0 {
		c.MaxJumps = d.MaxJumps
	}
	return c
}
