// pkg/physics/collision.go
package physics

// ContactFactor scales a body's radius into its contact radius. Rendered
// spheres are radius*0.2 across, so bodies must overlap well before they
// count as touching.
const ContactFactor = 0.1

// Sphere represents a spherical collision shape
type Sphere struct {
	Center Vector3
	Radius float64
}

// ContactSphere returns the collision shape of a body with the given radius
func ContactSphere(center Vector3, radius float64) Sphere {
	return Sphere{Center: center, Radius: radius * ContactFactor}
}

// Collides checks if two spheres are colliding. Touching spheres do not
// collide; the test is strict.
func (s Sphere) Collides(other Sphere) bool {
	return Distance(s.Center, other.Center) < s.Radius+other.Radius
}

// CollisionResult contains information about a collision
type CollisionResult struct {
	Collided     bool
	Normal       Vector3
	Penetration  float64
	ContactPoint Vector3
}

// CheckCollision performs detailed collision detection between two spheres
func CheckCollision(a, b Sphere) CollisionResult {
	distance := Distance(a.Center, b.Center)
	if distance >= a.Radius+b.Radius {
		return CollisionResult{Collided: false}
	}

	normal := Direction(a.Center, b.Center)
	return CollisionResult{
		Collided:     true,
		Normal:       normal,
		Penetration:  a.Radius + b.Radius - distance,
		ContactPoint: a.Center.Add(normal.Mul(a.Radius)),
	}
}
