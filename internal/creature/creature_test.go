package creature_test

import (
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/creatures/internal/config"
	"github.com/san-kum/creatures/internal/creature"
	"github.com/san-kum/creatures/internal/geom"
	"github.com/san-kum/creatures/internal/particle"
)

func newBreeder(seed uint64, cfg *config.Config) *creature.Breeder {
	return creature.NewBreeder(cfg, rand.New(rand.NewPCG(seed, seed)))
}

// band builds a force active everywhere except at distance 0.
func band(attraction float64) particle.Force {
	return particle.Force{MinRadius: 0, MaxRadius: 1000, Attraction: attraction}
}

// labelled returns n particles whose force toward j from i has Attraction 10*i+j.
func labelled(n int) []particle.Particle {
	ps := make([]particle.Particle, n)
	for i := range ps {
		ps[i].Pos = geom.Vec{X: float64(i) * 10}
		ps[i].Forces = make([]particle.Force, n)
		for j := range ps[i].Forces {
			ps[i].Forces[j] = particle.Force{MinRadius: 0, MaxRadius: 1, Attraction: float64(10*i + j)}
		}
	}
	return ps
}

func expectSquare(c *creature.Creature) {
	for _, pt := range c.Particles() {
		ExpectWithOffset(1, pt.Forces).To(HaveLen(c.Len()))
	}
	for _, pt := range c.Trial() {
		ExpectWithOffset(1, pt.Forces).To(HaveLen(c.Len()))
	}
}

func expectBaseline(c *creature.Creature) {
	base, trial := c.Particles(), c.Trial()
	ExpectWithOffset(1, trial).To(HaveLen(len(base)))
	for i := range base {
		ExpectWithOffset(1, trial[i].Pos).To(Equal(base[i].Pos))
		ExpectWithOffset(1, trial[i].Vel).To(Equal(base[i].Vel))
	}
}

var _ = Describe("Creature", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.DefaultConfig()
	})

	Describe("construction", func() {
		It("is deterministic for an explicit particle set", func() {
			ps := newBreeder(1, cfg).Random(1).Particles()

			a := creature.New(ps, 1, cfg)
			b := creature.New(ps, 1, cfg)
			Expect(a.Fitness()).To(Equal(b.Fitness()))
		})

		It("leaves the trial state equal to the baseline", func() {
			for seed := uint64(0); seed < 20; seed++ {
				expectBaseline(newBreeder(seed, cfg).Random(1))
			}
		})

		It("keeps the domain it was given", func() {
			c := creature.New(labelled(2), 3.5, cfg)
			Expect(c.Domain()).To(Equal(3.5))
		})

		It("does not alias the caller's particles", func() {
			ps := labelled(3)
			c := creature.New(ps, 1, cfg)
			ps[0].Pos.X = 999
			ps[1].Forces[0].Attraction = -42

			base := c.Particles()
			Expect(base[0].Pos.X).To(Equal(0.0))
			Expect(base[1].Forces[0].Attraction).To(Equal(10.0))
		})

		It("hands out copies of its particle sets", func() {
			c := creature.New(labelled(2), 1, cfg)
			c.Particles()[0].Forces[1].Attraction = 77
			c.Trial()[0].Pos.X = 77
			Expect(c.Particles()[0].Forces[1].Attraction).To(Equal(1.0))
			Expect(c.Trial()[0].Pos.X).To(Equal(0.0))
		})
	})

	Describe("fitness", func() {
		It("is never negative", func() {
			b := newBreeder(7, cfg)
			c := b.Random(1)
			for i := 0; i < 30; i++ {
				Expect(c.Fitness()).To(BeNumerically(">=", 0))
				c = b.Mutate(c)
			}
		})

		It("is zero for a single resting particle", func() {
			ps := []particle.Particle{{Pos: geom.Vec{X: 3, Y: -2}, Forces: []particle.Force{band(1)}}}
			c := creature.New(ps, 1, cfg)
			Expect(c.Fitness()).To(Equal(0.0))

			c.Simulate(5000)
			Expect(c.CurrentFitness()).To(Equal(0.0))
		})

		It("is zero for an empty creature", func() {
			c := creature.New(nil, 1, cfg)
			Expect(c.Len()).To(Equal(0))
			Expect(c.Fitness()).To(Equal(0.0))
		})

		It("cancels for a symmetric pair that moves apart", func() {
			ps := []particle.Particle{
				{Pos: geom.Vec{X: -10}, Forces: []particle.Force{{}, band(-0.1)}},
				{Pos: geom.Vec{X: 10}, Forces: []particle.Force{band(-0.1), {}}},
			}
			c := creature.New(ps, 1, cfg)
			Expect(c.Fitness()).To(BeNumerically("<", 1e-9))

			c.Simulate(creature.Steps)
			trial := c.Trial()
			Expect(trial[0].Pos.X).To(BeNumerically("<", -20))
			Expect(trial[1].Pos.X).To(BeNumerically(">", 20))
		})

		It("rewards a pair that drifts as a whole", func() {
			// 0 chases 1 while 1 ignores 0, so the pair drifts right.
			ps := []particle.Particle{
				{Pos: geom.Vec{X: 0}, Forces: []particle.Force{{}, {MinRadius: 5, MaxRadius: 1000, Attraction: 0.05}}},
				{Pos: geom.Vec{X: 20}, Vel: geom.Vec{X: 0.5}, Forces: []particle.Force{{}, {}}},
			}
			c := creature.New(ps, 1, cfg)
			Expect(c.Fitness()).To(BeNumerically(">", 1))
		})

		It("ignores partners outside the force band", func() {
			ps := []particle.Particle{
				{Forces: []particle.Force{{}, {MinRadius: 50, MaxRadius: 60, Attraction: 1}}},
				{Pos: geom.Vec{X: 10}, Forces: []particle.Force{{MinRadius: 50, MaxRadius: 60, Attraction: 1}, {}}},
			}
			c := creature.New(ps, 1, cfg)
			Expect(c.Fitness()).To(Equal(0.0))
		})
	})

	Describe("Update", func() {
		It("applies acceleration, then friction, then moves", func() {
			cfg.Environment.Friction = 0.5
			ps := []particle.Particle{
				{Forces: []particle.Force{{}, band(2)}},
				{Pos: geom.Vec{X: 100}, Forces: []particle.Force{{}, {}}},
			}
			c := creature.New(ps, 1, cfg)
			c.Update()

			trial := c.Trial()
			Expect(trial[0].Vel.X).To(BeNumerically("~", 1, 1e-12))
			Expect(trial[0].Pos.X).To(BeNumerically("~", 1, 1e-12))
			Expect(trial[0].Pos.Y).To(Equal(0.0))
			Expect(trial[1].Pos).To(Equal(geom.Vec{X: 100}))
		})

		It("uses positions from the start of the step", func() {
			cfg.Environment.Friction = 0
			ps := []particle.Particle{
				{Forces: []particle.Force{{}, {MinRadius: 0, MaxRadius: 10, Attraction: 1}}},
				{Pos: geom.Vec{X: 9.5}, Forces: []particle.Force{{MinRadius: 0, MaxRadius: 10, Attraction: -1}, {}}},
			}
			c := creature.New(ps, 1, cfg)
			c.Update()

			// 0 moves toward 1 first; 1 must still see the old distance 9.5 and flee.
			trial := c.Trial()
			Expect(trial[0].Pos.X).To(BeNumerically("~", 1, 1e-12))
			Expect(trial[1].Pos.X).To(BeNumerically("~", 10.5, 1e-12))
		})
	})

	Describe("Reset and Simulate", func() {
		It("moves the trial state without touching fitness", func() {
			c := newBreeder(11, cfg).Random(1)
			fitness := c.Fitness()

			c.Simulate(creature.Steps)
			Expect(c.CurrentFitness()).To(Equal(fitness))
			Expect(c.Fitness()).To(Equal(fitness))

			c.Reset()
			expectBaseline(c)
			Expect(c.CurrentFitness()).To(Equal(0.0))
		})
	})

	Describe("Replay", func() {
		It("reproduces the fitness and records the trajectory", func() {
			c := newBreeder(12, cfg).Random(1)
			result := c.Replay(creature.Steps, nil)

			Expect(result.StepsTaken).To(Equal(creature.Steps))
			Expect(result.Positions).To(HaveLen(creature.Steps + 1))
			Expect(result.Displacement).To(HaveLen(creature.Steps + 1))
			Expect(result.Displacement[0]).To(Equal(0.0))
			Expect(result.Displacement[creature.Steps]).To(Equal(c.Fitness()))
			Expect(result.Positions[0]).To(HaveLen(c.Len()))
		})

		It("notifies observers on every step", func() {
			c := newBreeder(13, cfg).Random(1)
			obs := &countingObserver{}
			c.Replay(10, nil, obs)
			Expect(obs.steps).To(Equal([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
		})
	})

	Describe("Display", func() {
		It("scales positions by size over the reference size", func() {
			cfg.Generation.CreatureSize = 200
			ps := []particle.Particle{
				{Pos: geom.Vec{X: 20, Y: -40}, Forces: []particle.Force{{}}},
			}
			c := creature.New(ps, 1, cfg)

			dots := c.Display(300, 400, 100, true)
			Expect(dots).To(HaveLen(1))
			Expect(dots[0].X).To(Equal(310.0))
			Expect(dots[0].Y).To(Equal(380.0))
			Expect(dots[0].Radius).To(Equal(5.0))
			Expect(dots[0].Deleted).To(BeTrue())
		})

		It("draws the baseline right after construction", func() {
			c := newBreeder(14, cfg).Random(1)
			base := c.Particles()
			for i, d := range c.Display(0, 0, cfg.Generation.CreatureSize, false) {
				Expect(d.X).To(Equal(base[i].Pos.X))
				Expect(d.Y).To(Equal(base[i].Pos.Y))
			}
		})
	})
})

type countingObserver struct {
	steps []int
}

func (o *countingObserver) OnStep(step int, trial []particle.Particle) {
	o.steps = append(o.steps, step)
}
