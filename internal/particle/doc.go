// Package particle defines the point masses a creature is built from and
// the random generators and mutation operators over them.
//
//   - [Force]: directed attraction/repulsion rule active inside a radius band
//   - [Particle]: position, velocity and one outgoing Force per partner
//   - [Generator]: draws random forces and particles and mutates them
//
// All types are plain values. [Particle.Clone] is a structural copy, so a
// particle derived from another never shares its Forces slice.
package particle
