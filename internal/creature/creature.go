package creature

import (
	"github.com/san-kum/creatures/internal/config"
	"github.com/san-kum/creatures/internal/geom"
	"github.com/san-kum/creatures/internal/particle"
)

// Steps is the number of integration steps a creature is evaluated over.
const Steps = 600

type Creature struct {
	particles []particle.Particle
	trial     []particle.Particle
	domain    float64
	fitness   float64

	friction     float64
	creatureSize float64
}

// New takes a private copy of particles, evaluates it over Steps updates and
// returns the creature reset to its baseline. The particle set is not checked
// for physical plausibility; every particle must carry len(particles) forces.
func New(particles []particle.Particle, domain float64, cfg *config.Config) *Creature {
	c := &Creature{
		particles:    particle.CloneAll(particles),
		domain:       domain,
		friction:     cfg.Environment.Friction,
		creatureSize: cfg.Generation.CreatureSize,
	}
	c.trial = particle.CloneAll(c.particles)
	for i := 0; i < Steps; i++ {
		c.Update()
	}
	c.fitness = c.CurrentFitness()
	c.Reset()
	return c
}

func (c *Creature) Fitness() float64 { return c.fitness }
func (c *Creature) Domain() float64  { return c.domain }
func (c *Creature) Len() int         { return len(c.particles) }

// Particles returns a copy of the baseline configuration.
func (c *Creature) Particles() []particle.Particle { return particle.CloneAll(c.particles) }

// Trial returns a copy of the current trial configuration.
func (c *Creature) Trial() []particle.Particle { return particle.CloneAll(c.trial) }

// Reset discards the trial state and re-derives it from the baseline.
func (c *Creature) Reset() {
	c.trial = particle.CloneAll(c.particles)
}

// Update advances the trial configuration by one fixed step. All
// accelerations are computed from the positions at the start of the step.
func (c *Creature) Update() {
	acc := make([]geom.Vec, len(c.trial))
	for i := range c.trial {
		pt := &c.trial[i]
		for j := range c.trial {
			if i == j {
				continue
			}
			f := pt.Forces[j]
			d := geom.Sub(c.trial[j].Pos, pt.Pos)
			if f.InRange(geom.Mag(d)) {
				acc[i] = geom.Add(acc[i], geom.SetMag(d, f.Attraction))
			}
		}
	}

	damping := 1 - c.friction
	for i := range c.trial {
		pt := &c.trial[i]
		pt.Vel = geom.Scale(damping, geom.Add(pt.Vel, acc[i]))
		pt.Pos = geom.Add(pt.Pos, pt.Vel)
	}
}

// Simulate advances the trial configuration by steps updates for display.
// The fitness is unaffected.
func (c *Creature) Simulate(steps int) {
	for i := 0; i < steps; i++ {
		c.Update()
	}
}

// CurrentFitness is the magnitude of the summed per-particle displacement
// between trial and baseline. Particles moving in opposite directions cancel,
// so only net drift of the whole configuration scores.
// metrics.CenterDisplacement keeps the inactive center-of-mass alternative.
func (c *Creature) CurrentFitness() float64 {
	return geom.Mag(NetDisplacement(c.particles, c.trial))
}

// NetDisplacement sums trial[i].Pos - baseline[i].Pos over all particles.
func NetDisplacement(baseline, trial []particle.Particle) geom.Vec {
	var sum geom.Vec
	for i := range baseline {
		sum = geom.Add(sum, geom.Sub(trial[i].Pos, baseline[i].Pos))
	}
	return sum
}
