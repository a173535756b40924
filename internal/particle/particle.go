package particle

import "github.com/san-kum/creatures/internal/geom"

// Force is the interaction from one particle toward a specific partner.
// It applies only while the partner is strictly inside (MinRadius, MaxRadius).
// Positive Attraction pulls toward the partner, negative pushes away.
type Force struct {
	MinRadius  float64 `json:"min_radius"`
	MaxRadius  float64 `json:"max_radius"`
	Attraction float64 `json:"attraction"`
}

// InRange reports whether a partner at distance d is affected by f.
func (f Force) InRange(d float64) bool {
	return d > f.MinRadius && d < f.MaxRadius
}

// Particle carries its outgoing forces indexed by partner. Forces[i] for the
// particle's own index is present but never read.
type Particle struct {
	Pos    geom.Vec `json:"pos"`
	Vel    geom.Vec `json:"vel"`
	Forces []Force  `json:"forces"`
}

func (p Particle) Clone() Particle {
	c := p
	c.Forces = make([]Force, len(p.Forces))
	copy(c.Forces, p.Forces)
	return c
}

// CloneAll deep-copies a particle set.
func CloneAll(ps []Particle) []Particle {
	out := make([]Particle, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
