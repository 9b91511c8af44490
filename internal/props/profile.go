package props

import "math/rand"

// Kind separates the two spawner families.
type Kind int

const (
	Ball Kind = iota
	Cupcake
)

func (k Kind) String() string {
	if k == Cupcake {
		return "cupcake"
	}
	return "ball"
}

// Profile is the physical make-up of one prop variant.
type Profile struct {
	ID            string  `yaml:"id"`
	Kind          Kind    `yaml:"-"`
	Radius        float32 `yaml:"radius"`
	Mass          float32 `yaml:"mass"`
	LinearDamping float32 `yaml:"linear_damping"`
	// Weight is the relative chance of this profile being picked.
	Weight int `yaml:"weight"`
	// Points is the score awarded on collection.
	Points int `yaml:"points"`
}

func DefaultBallProfiles() []Profile {
	return []Profile{
		{ID: "standard", Kind: Ball, Radius: 0.5, Mass: 1, LinearDamping: 0.5, Weight: 60},
		{ID: "heavy", Kind: Ball, Radius: 0.7, Mass: 3, LinearDamping: 0.2, Weight: 25},
		{ID: "light", Kind: Ball, Radius: 0.4, Mass: 0.5, LinearDamping: 0.6, Weight: 15},
	}
}

func DefaultCupcakeProfile() Profile {
	return Profile{ID: "cupcake", Kind: Cupcake, Radius: 0.8, Mass: 0.8, LinearDamping: 0.4, Weight: 1, Points: 10}
}

// pickProfile draws a profile with probability proportional to its weight.
// Profiles with no positive weight are never picked unless all are.
func pickProfile(profiles []Profile, r *rand.Rand) (Profile, bool) {
	if len(profiles) == 0 {
		return Profile{}, false
	}
	total := 0
	for _, p := range profiles {
		if p.Weight > 0 {
			total += p.Weight
		}
	}
	if total == 0 {
		return profiles[r.Intn(len(profiles))], true
	}
	roll := r.Intn(total)
	for _, p := range profiles {
		if p.Weight <= 0 {
			continue
		}
		if roll < p.Weight {
			return p, true
		}
		roll -= p.Weight
	}
	return profiles[len(profiles)-1], true
}
