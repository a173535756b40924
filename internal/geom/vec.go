// Package geom holds the small set of 2D vector operations the particle
// physics needs on top of gonum's r2 package.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is the position and velocity type used throughout the simulation.
type Vec = r2.Vec

func Add(a, b Vec) Vec { return r2.Add(a, b) }
func Sub(a, b Vec) Vec { return r2.Sub(a, b) }

func Scale(f float64, v Vec) Vec { return r2.Scale(f, v) }

// Mag returns the Euclidean length of v.
func Mag(v Vec) float64 { return r2.Norm(v) }

// SetMag returns v rescaled to length m, keeping its direction. A negative m
// flips the direction. The zero vector has no direction and stays zero.
func SetMag(v Vec, m float64) Vec {
	n := r2.Norm(v)
	if n == 0 {
		return Vec{}
	}
	return r2.Scale(m/n, v)
}

// IsFinite reports whether both components are neither NaN nor Inf.
func IsFinite(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
