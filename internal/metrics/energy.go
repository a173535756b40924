package metrics

import (
	"github.com/san-kum/creatures/internal/geom"
	"github.com/san-kum/creatures/internal/particle"
)

// KineticEnergy averages the total unit-mass kinetic energy over all
// observed steps.
type KineticEnergy struct {
	samples int
	total   float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(step int, baseline, trial []particle.Particle) {
	k.total += Kinetic(trial)
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// Kinetic returns sum(0.5 * |vel|^2) over ps.
func Kinetic(ps []particle.Particle) float64 {
	e := 0.0
	for _, p := range ps {
		v := geom.Mag(p.Vel)
		e += 0.5 * v * v
	}
	return e
}
