// pkg/physics/vector.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3 is a 3D vector in world units. It is mgl64.Vec3, so Add, Sub, Mul,
// Dot, Len and LenSqr come from mathgl.
type Vector3 = mgl64.Vec3

// Vec3 builds a vector from its components.
func Vec3(x, y, z float64) Vector3 {
	return Vector3{x, y, z}
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Vector3) float64 {
	return b.Sub(a).Len()
}

// Direction returns the unit vector pointing from a to b, or the zero vector
// when the points coincide. mgl64's Normalize divides by zero in that case.
func Direction(a, b Vector3) Vector3 {
	d := b.Sub(a)
	length := d.Len()
	if length == 0 {
		return Vector3{}
	}
	return d.Mul(1 / length)
}

// Normalize returns v scaled to unit length, or the zero vector.
func Normalize(v Vector3) Vector3 {
	return Direction(Vector3{}, v)
}

// IsFinite reports whether every component is a finite number.
func IsFinite(v Vector3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
