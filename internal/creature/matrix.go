package creature

import "github.com/san-kum/creatures/internal/particle"

// RemoveParticle drops particle idx and the matching force column from every
// remaining particle. ps is modified in place and the shortened slice returned.
func RemoveParticle(ps []particle.Particle, idx int) []particle.Particle {
	ps = append(ps[:idx], ps[idx+1:]...)
	for i := range ps {
		ps[i].Forces = append(ps[i].Forces[:idx], ps[i].Forces[idx+1:]...)
	}
	return ps
}

// AddParticle appends one force column, drawn from newForce, to every
// existing particle and then appends pt as the new last row. pt must already
// carry len(ps)+1 forces.
func AddParticle(ps []particle.Particle, pt particle.Particle, newForce func() particle.Force) []particle.Particle {
	for i := range ps {
		ps[i].Forces = append(ps[i].Forces, newForce())
	}
	return append(ps, pt)
}
