package particle

import (
	"math/rand/v2"

	"github.com/san-kum/creatures/internal/config"
	"github.com/san-kum/creatures/internal/geom"
)

// Generator draws random particles and forces and mutates them within the
// configured bounds. It is not safe for concurrent use since it shares the
// caller's rand.Rand.
type Generator struct {
	gen config.GenerationConfig
	mut config.MutationConfig
	rng *rand.Rand
}

func NewGenerator(cfg *config.Config, rng *rand.Rand) *Generator {
	return &Generator{gen: cfg.Generation, mut: cfg.Mutation, rng: rng}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) RandomForce() Force {
	minR := g.uniform(g.gen.RadiusMin, g.gen.RadiusMax)
	return Force{
		MinRadius:  minR,
		MaxRadius:  g.uniform(minR, g.gen.RadiusMax),
		Attraction: g.uniform(-g.gen.MaxAttraction, g.gen.MaxAttraction),
	}
}

// RandomParticle returns a particle with a random position and velocity and
// exactly n fresh forces.
func (g *Generator) RandomParticle(n int) Particle {
	pr, vr := g.gen.PositionRange, g.gen.VelocityRange
	p := Particle{
		Pos: geom.Vec{X: g.uniform(-pr, pr), Y: g.uniform(-pr, pr)},
		Vel: geom.Vec{X: g.uniform(-vr, vr), Y: g.uniform(-vr, vr)},
	}
	if n > 0 {
		p.Forces = make([]Force, n)
		for i := range p.Forces {
			p.Forces[i] = g.RandomForce()
		}
	}
	return p
}

// MutateParticle returns an independent copy of p in which every force is
// perturbed with probability ForceProb. Pos and Vel are carried unchanged.
func (g *Generator) MutateParticle(p Particle) Particle {
	out := p.Clone()
	for i := range out.Forces {
		if g.rng.Float64() < g.mut.ForceProb {
			out.Forces[i] = g.mutateForce(out.Forces[i])
		}
	}
	return out
}

// mutateForce nudges every field by a uniform step and clamps the result
// back into the generation bounds, keeping MinRadius <= MaxRadius.
func (g *Generator) mutateForce(f Force) Force {
	rs, as := g.mut.RadiusStep, g.mut.AttractionStep
	lo, hi := g.gen.RadiusMin, g.gen.RadiusMax

	f.MinRadius = clamp(f.MinRadius+g.uniform(-rs, rs), lo, hi)
	f.MaxRadius = clamp(f.MaxRadius+g.uniform(-rs, rs), lo, hi)
	if f.MaxRadius < f.MinRadius {
		f.MinRadius, f.MaxRadius = f.MaxRadius, f.MinRadius
	}
	f.Attraction = clamp(f.Attraction+g.uniform(-as, as), -g.gen.MaxAttraction, g.gen.MaxAttraction)
	return f
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
