package creature_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/creatures/internal/config"
	"github.com/san-kum/creatures/internal/creature"
	"github.com/san-kum/creatures/internal/particle"
)

var _ = Describe("Breeder", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.DefaultConfig()
	})

	Describe("Random", func() {
		It("draws particle counts within the configured bounds", func() {
			b := newBreeder(21, cfg)
			seen := map[int]bool{}
			for i := 0; i < 300; i++ {
				c := b.Random(1)
				Expect(c.Len()).To(BeNumerically(">=", cfg.Generation.MinParticles))
				Expect(c.Len()).To(BeNumerically("<=", cfg.Generation.MaxParticles))
				expectSquare(c)
				seen[c.Len()] = true
			}
			Expect(seen).To(HaveKey(cfg.Generation.MinParticles))
			Expect(seen).To(HaveKey(cfg.Generation.MaxParticles))
		})

		It("uses the requested domain", func() {
			Expect(newBreeder(22, cfg).Random(4.25).Domain()).To(Equal(4.25))
		})

		It("falls back to min particles when the bounds are inverted", func() {
			cfg.Generation.MinParticles = 3
			cfg.Generation.MaxParticles = 1
			c := newBreeder(23, cfg).Random(1)
			Expect(c.Len()).To(Equal(3))
			expectSquare(c)
		})

		It("builds empty creatures when both bounds are zero", func() {
			cfg.Generation.MinParticles = 0
			cfg.Generation.MaxParticles = 0
			c := newBreeder(24, cfg).Random(1)
			Expect(c.Len()).To(Equal(0))
			Expect(c.Fitness()).To(Equal(0.0))
		})
	})

	Describe("Mutate", func() {
		It("keeps the force matrix square through repeated mutation", func() {
			cfg.Mutation.DeletionProb = 0.5
			cfg.Mutation.AdditionProb = 0.5
			b := newBreeder(31, cfg)
			c := b.Random(1)
			for i := 0; i < 200; i++ {
				c = b.Mutate(c)
				expectSquare(c)
				expectBaseline(c)
			}
		})

		It("stays within bounds when deletion and addition both trigger", func() {
			cfg.Mutation.DeletionProb = 1
			cfg.Mutation.AdditionProb = 1
			b := newBreeder(32, cfg)
			c := b.Random(1)
			for i := 0; i < 100; i++ {
				n := c.Len()
				c = b.Mutate(c)
				Expect(c.Len()).To(BeNumerically(">=", cfg.Generation.MinParticles))
				Expect(c.Len()).To(BeNumerically("<=", cfg.Generation.MaxParticles))
				// one removal then one addition, unless a bound blocks either
				Expect(c.Len()).To(BeNumerically("~", n, 1))
			}
		})

		It("never deletes below min particles", func() {
			cfg.Generation.MinParticles = 2
			cfg.Generation.MaxParticles = 2
			cfg.Mutation.DeletionProb = 1
			cfg.Mutation.AdditionProb = 0
			b := newBreeder(33, cfg)
			c := b.Random(1)
			for i := 0; i < 20; i++ {
				c = b.Mutate(c)
				Expect(c.Len()).To(Equal(2))
			}
		})

		It("leaves empty creatures empty when min particles is negative", func() {
			cfg.Generation.MinParticles = -1
			cfg.Generation.MaxParticles = -1
			cfg.Mutation.DeletionProb = 1
			cfg.Mutation.AdditionProb = 1
			b := newBreeder(38, cfg)
			c := b.Random(1)
			Expect(c.Len()).To(Equal(0))

			var child *creature.Creature
			Expect(func() { child = b.Mutate(c) }).NotTo(Panic())
			Expect(child.Len()).To(Equal(0))
			Expect(child.Fitness()).To(Equal(0.0))
		})

		It("deletes down to one particle when min particles is negative", func() {
			cfg.Generation.MinParticles = -1
			cfg.Generation.MaxParticles = 1
			cfg.Mutation.DeletionProb = 1
			cfg.Mutation.AdditionProb = 0
			b := newBreeder(39, cfg)
			cfg.Generation.MinParticles = 1
			c := b.Random(1)
			Expect(c.Len()).To(Equal(1))
			cfg.Generation.MinParticles = -1

			c = b.Mutate(c)
			Expect(c.Len()).To(Equal(0))
			Expect(func() { b.Mutate(c) }).NotTo(Panic())
		})

		It("never adds above max particles", func() {
			cfg.Generation.MinParticles = 4
			cfg.Generation.MaxParticles = 4
			cfg.Mutation.DeletionProb = 0
			cfg.Mutation.AdditionProb = 1
			b := newBreeder(34, cfg)
			c := b.Random(1)
			for i := 0; i < 20; i++ {
				c = b.Mutate(c)
				Expect(c.Len()).To(Equal(4))
			}
		})

		It("grows by exactly one when only addition triggers", func() {
			cfg.Mutation.DeletionProb = 0
			cfg.Mutation.AdditionProb = 1
			cfg.Generation.MinParticles = 3
			cfg.Generation.MaxParticles = 3
			b := newBreeder(35, cfg)
			parent := b.Random(1)

			cfg.Generation.MaxParticles = 10
			child := b.Mutate(parent)
			Expect(child.Len()).To(Equal(4))
			expectSquare(child)

			// existing particles keep their position; the newcomer is last
			pp, cp := parent.Particles(), child.Particles()
			for i := range pp {
				Expect(cp[i].Pos).To(Equal(pp[i].Pos))
			}
		})

		It("leaves the source creature untouched", func() {
			cfg.Mutation.ForceProb = 1
			cfg.Mutation.DeletionProb = 1
			cfg.Mutation.AdditionProb = 1
			b := newBreeder(36, cfg)
			parent := b.Random(7)
			before := parent.Particles()
			fitness := parent.Fitness()

			child := b.Mutate(parent)

			Expect(parent.Particles()).To(Equal(before))
			Expect(parent.Fitness()).To(Equal(fitness))
			Expect(child.Domain()).To(Equal(7.0))
		})

		It("copies positions and velocities through unchanged without resizing", func() {
			cfg.Mutation.DeletionProb = 0
			cfg.Mutation.AdditionProb = 0
			b := newBreeder(37, cfg)
			parent := b.Random(1)
			child := b.Mutate(parent)

			pp, cp := parent.Particles(), child.Particles()
			Expect(cp).To(HaveLen(len(pp)))
			for i := range pp {
				Expect(cp[i].Pos).To(Equal(pp[i].Pos))
				Expect(cp[i].Vel).To(Equal(pp[i].Vel))
			}
		})
	})
})

var _ = Describe("force matrix helpers", func() {
	It("removes a particle and its force column", func() {
		ps := creature.RemoveParticle(labelled(3), 1)

		Expect(ps).To(HaveLen(2))
		Expect(ps[0].Forces).To(HaveLen(2))
		Expect(ps[1].Forces).To(HaveLen(2))
		Expect(ps[0].Forces[0].Attraction).To(Equal(0.0))
		Expect(ps[0].Forces[1].Attraction).To(Equal(2.0))
		Expect(ps[1].Forces[0].Attraction).To(Equal(20.0))
		Expect(ps[1].Forces[1].Attraction).To(Equal(22.0))
		for _, pt := range ps {
			for _, f := range pt.Forces {
				Expect(int(f.Attraction) % 10).NotTo(Equal(1))
			}
		}
	})

	It("removes the last particle", func() {
		ps := creature.RemoveParticle(labelled(2), 1)
		Expect(ps).To(HaveLen(1))
		Expect(ps[0].Forces).To(HaveLen(1))
		Expect(ps[0].Forces[0].Attraction).To(Equal(0.0))
	})

	It("adds a particle and one force column", func() {
		next := 0.0
		newForce := func() particle.Force {
			next++
			return particle.Force{Attraction: -next}
		}
		pt := particle.Particle{Forces: make([]particle.Force, 4)}

		ps := creature.AddParticle(labelled(3), pt, newForce)

		Expect(ps).To(HaveLen(4))
		for i, p := range ps {
			Expect(p.Forces).To(HaveLen(4))
			if i < 3 {
				Expect(p.Forces[3].Attraction).To(Equal(-float64(i + 1)))
			}
		}
	})

	It("evaluates a resized set", func() {
		ps := creature.RemoveParticle(labelled(3), 1)
		c := creature.New(ps, 1, config.DefaultConfig())
		expectSquare(c)
	})
})

var _ = Describe("Spawn", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.DefaultConfig()
	})

	It("builds a reproducible batch", func() {
		a, err := creature.SpawnRandom(context.Background(), cfg, 100, 12, 4)
		Expect(err).NotTo(HaveOccurred())
		b, err := creature.SpawnRandom(context.Background(), cfg, 100, 12, 1)
		Expect(err).NotTo(HaveOccurred())

		Expect(a).To(HaveLen(12))
		for i := range a {
			Expect(a[i]).NotTo(BeNil())
			Expect(a[i].Fitness()).To(Equal(b[i].Fitness()))
			Expect(a[i].Particles()).To(Equal(b[i].Particles()))
		}
	})

	It("derives mutants without touching the parent", func() {
		parent := newBreeder(41, cfg).Random(2)
		before := parent.Particles()

		kids, err := creature.SpawnMutants(context.Background(), cfg, parent, 5, 8, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(kids).To(HaveLen(8))
		for _, k := range kids {
			Expect(k.Domain()).To(Equal(2.0))
			expectSquare(k)
		}
		Expect(parent.Particles()).To(Equal(before))
	})

	It("stops on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := creature.SpawnRandom(ctx, cfg, 1, 4, 2)
		Expect(err).To(MatchError(context.Canceled))
	})
})
