package metrics

import (
	"github.com/san-kum/creatures/internal/geom"
	"github.com/san-kum/creatures/internal/particle"
)

// Cohesion is the fraction of observed steps in which every particle stayed
// within radius of the configuration's center. A creature that flies apart
// scores near 0.
type Cohesion struct {
	radius     float64
	violations int
	samples    int
}

func NewCohesion(radius float64) *Cohesion {
	return &Cohesion{radius: radius}
}

func (c *Cohesion) Name() string { return "cohesion" }

func (c *Cohesion) Observe(step int, baseline, trial []particle.Particle) {
	c.samples++
	center := Center(trial)
	for _, p := range trial {
		if geom.Mag(geom.Sub(p.Pos, center)) > c.radius {
			c.violations++
			break
		}
	}
}

func (c *Cohesion) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Cohesion) Reset() {
	c.violations = 0
	c.samples = 0
}

// Spread is the mean distance of the particles from their center at the
// latest step.
type Spread struct {
	value float64
}

func NewSpread() *Spread { return &Spread{} }

func (s *Spread) Name() string { return "spread" }

func (s *Spread) Observe(step int, baseline, trial []particle.Particle) {
	if len(trial) == 0 {
		s.value = 0
		return
	}
	center := Center(trial)
	sum := 0.0
	for _, p := range trial {
		sum += geom.Mag(geom.Sub(p.Pos, center))
	}
	s.value = sum / float64(len(trial))
}

func (s *Spread) Value() float64 { return s.value }
func (s *Spread) Reset()         { s.value = 0 }
