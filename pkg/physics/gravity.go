// pkg/physics/gravity.go
package physics

import "math"

// VolumeConstant is k in mass = k * r^3, the volume of a unit sphere.
const VolumeConstant = 4.0 / 3.0 * math.Pi

// MinDistanceSq is the squared separation below which a pair is treated as
// coincident and contributes no force.
const MinDistanceSq = 1e-12

// Mass derives a body's mass from its radius
func Mass(radius float64) float64 {
	return VolumeConstant * radius * radius * radius
}

// PairForce returns the Newtonian attraction exerted on a body at pos with
// mass m by a body at otherPos with mass otherMass.
func PairForce(pos Vector3, m float64, otherPos Vector3, otherMass float64, g float64) Vector3 {
	offset := otherPos.Sub(pos)
	distSq := offset.LenSqr()
	if distSq < MinDistanceSq {
		return Vector3{}
	}
	return Normalize(offset).Mul(g * m * otherMass / distSq)
}

// Attractor is one contributor to a net force sum
type Attractor struct {
	Position Vector3
	Mass     float64
}

// NetForce sums the pairwise forces on a body from every attractor. The
// body itself must not be in the list.
func NetForce(pos Vector3, m float64, attractors []Attractor, g float64) Vector3 {
	force := Vector3{}
	for _, a := range attractors {
		force = force.Add(PairForce(pos, m, a.Position, a.Mass, g))
	}
	return force
}

// Acceleration divides a net force by the mass it acts on.
func Acceleration(force Vector3, m float64) Vector3 {
	if m == 0 {
		return Vector3{}
	}
	return force.Mul(1 / m)
}
