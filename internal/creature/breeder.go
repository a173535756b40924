package creature

import (
	"math/rand/v2"

	"github.com/san-kum/creatures/internal/config"
	"github.com/san-kum/creatures/internal/particle"
)

// Breeder builds random and mutated creatures from one configuration and
// random source.
type Breeder struct {
	cfg *config.Config
	rng *rand.Rand
	gen *particle.Generator
}

func NewBreeder(cfg *config.Config, rng *rand.Rand) *Breeder {
	return &Breeder{
		cfg: cfg,
		rng: rng,
		gen: particle.NewGenerator(cfg, rng),
	}
}

func (b *Breeder) Config() *config.Config         { return b.cfg }
func (b *Breeder) Generator() *particle.Generator { return b.gen }

// Random draws a particle count uniformly from [MinParticles, MaxParticles]
// and evaluates a fresh random creature of that size. When MaxParticles is
// below MinParticles the count is MinParticles, floored at zero.
func (b *Breeder) Random(domain float64) *Creature {
	n := b.particleCount()
	particles := make([]particle.Particle, n)
	for i := range particles {
		particles[i] = b.gen.RandomParticle(n)
	}
	return New(particles, domain, b.cfg)
}

func (b *Breeder) particleCount() int {
	lo, hi := b.cfg.Generation.MinParticles, b.cfg.Generation.MaxParticles
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		return lo
	}
	return lo + b.rng.IntN(hi-lo+1)
}

// Mutate derives a new creature from c: every particle goes through
// MutateParticle, then one particle may be removed and one may be added.
// The source is never modified and the result is evaluated from scratch.
func (b *Breeder) Mutate(c *Creature) *Creature {
	mut, gen := b.cfg.Mutation, b.cfg.Generation

	particles := make([]particle.Particle, len(c.particles))
	for i, pt := range c.particles {
		particles[i] = b.gen.MutateParticle(pt)
	}

	if b.rng.Float64() < mut.DeletionProb && len(particles) > max(gen.MinParticles, 0) {
		particles = RemoveParticle(particles, b.rng.IntN(len(particles)))
	}
	if b.rng.Float64() < mut.AdditionProb && len(particles) < gen.MaxParticles {
		pt := b.gen.RandomParticle(len(particles) + 1)
		particles = AddParticle(particles, pt, b.gen.RandomForce)
	}
	return New(particles, c.domain, b.cfg)
}
