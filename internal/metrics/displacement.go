package metrics

import (
	"math"

	"github.com/san-kum/creatures/internal/creature"
	"github.com/san-kum/creatures/internal/geom"
	"github.com/san-kum/creatures/internal/particle"
)

// NetDisplacement reports the magnitude of the summed per-particle
// displacement at the latest step. It matches a creature's fitness when
// observed over a full evaluation run.
type NetDisplacement struct {
	value float64
}

func NewNetDisplacement() *NetDisplacement { return &NetDisplacement{} }

func (n *NetDisplacement) Name() string { return "net_displacement" }

func (n *NetDisplacement) Observe(step int, baseline, trial []particle.Particle) {
	n.value = geom.Mag(creature.NetDisplacement(baseline, trial))
}

func (n *NetDisplacement) Value() float64 { return n.value }
func (n *NetDisplacement) Reset()         { n.value = 0 }

// CenterDisplacement is the distance the center of mass moved, scaled by
// particleCount^massPower. It is an alternative fitness that is reported but
// never used to rank creatures.
type CenterDisplacement struct {
	massPower float64
	value     float64
}

func NewCenterDisplacement(massPower float64) *CenterDisplacement {
	return &CenterDisplacement{massPower: massPower}
}

func (c *CenterDisplacement) Name() string { return "center_displacement" }

func (c *CenterDisplacement) Observe(step int, baseline, trial []particle.Particle) {
	if len(baseline) == 0 {
		c.value = 0
		return
	}
	d := geom.Mag(geom.Sub(Center(trial), Center(baseline)))
	c.value = d * math.Pow(float64(len(baseline)), c.massPower)
}

func (c *CenterDisplacement) Value() float64 { return c.value }
func (c *CenterDisplacement) Reset()         { c.value = 0 }

// Center returns the mean particle position, or the origin for an empty set.
func Center(ps []particle.Particle) geom.Vec {
	if len(ps) == 0 {
		return geom.Vec{}
	}
	var sum geom.Vec
	for _, p := range ps {
		sum = geom.Add(sum, p.Pos)
	}
	return geom.Scale(1/float64(len(ps)), sum)
}
