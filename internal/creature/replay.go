package creature

import (
	"github.com/san-kum/creatures/internal/geom"
	"github.com/san-kum/creatures/internal/particle"
)

// Metric observes the trial configuration after each replayed step.
type Metric interface {
	Name() string
	Observe(step int, baseline, trial []particle.Particle)
	Value() float64
	Reset()
}

// Observer is notified after each replayed step.
type Observer interface {
	OnStep(step int, trial []particle.Particle)
}

type Result struct {
	// Positions[k] holds every particle position after step k; Positions[0]
	// is the baseline.
	Positions    [][]geom.Vec
	Displacement []float64
	Metrics      map[string]float64
	StepsTaken   int
}

// Replay resets the trial configuration and runs steps updates, recording
// the trajectory and feeding every metric after each step. The trial state is
// left at the final step, ready for Display. Replaying Steps steps reproduces
// the fitness exactly.
func (c *Creature) Replay(steps int, metrics []Metric, observers ...Observer) *Result {
	c.Reset()
	for _, m := range metrics {
		m.Reset()
	}

	result := &Result{
		Positions:    make([][]geom.Vec, 0, steps+1),
		Displacement: make([]float64, 0, steps+1),
		Metrics:      make(map[string]float64, len(metrics)),
	}
	result.Positions = append(result.Positions, positions(c.trial))
	result.Displacement = append(result.Displacement, 0)

	for i := 1; i <= steps; i++ {
		c.Update()
		for _, m := range metrics {
			m.Observe(i, c.particles, c.trial)
		}
		for _, obs := range observers {
			obs.OnStep(i, c.trial)
		}
		result.Positions = append(result.Positions, positions(c.trial))
		result.Displacement = append(result.Displacement, c.CurrentFitness())
		result.StepsTaken++
	}

	for _, m := range metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result
}

func positions(ps []particle.Particle) []geom.Vec {
	out := make([]geom.Vec, len(ps))
	for i, p := range ps {
		out[i] = p.Pos
	}
	return out
}
