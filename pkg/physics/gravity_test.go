// pkg/physics/gravity_test.go
package physics

import (
	"math"
	"testing"
)

func TestMass(t *testing.T) {
	for _, r := range []float64{0.01, 0.5, 1, 2.5, 10} {
		want := 4.0 / 3.0 * math.Pi * r * r * r
		if got := Mass(r); math.Abs(got-want) > 1e-9*want {
			t.Errorf("Mass(%v) = %v, expected %v", r, got, want)
		}
	}
}

func TestPairForce_EqualAndOpposite(t *testing.T) {
	a, b := Vec3(-1, 0, 0), Vec3(1, 0, 0)
	m := Mass(1)

	fa := PairForce(a, m, b, m, 0.5)
	fb := PairForce(b, m, a, m, 0.5)

	if !fa.Add(fb).ApproxEqual(Vector3{}) {
		t.Errorf("forces not opposite: %v and %v", fa, fb)
	}
	want := 0.5 * m * m / 4
	if math.Abs(fa.Len()-want) > 1e-9 {
		t.Errorf("force magnitude = %v, expected %v", fa.Len(), want)
	}
	if fa.X() <= 0 {
		t.Errorf("force on left body should point +x, got %v", fa)
	}
}

func TestPairForce_CoincidentIsZero(t *testing.T) {
	p := Vec3(3, 3, 3)
	f := PairForce(p, 1, p, 1, 1)
	if f != (Vector3{}) {
		t.Errorf("coincident force = %v, expected zero", f)
	}
}

func TestNetForce(t *testing.T) {
	pos := Vec3(0, 0, 0)

	t.Run("no_attractors", func(t *testing.T) {
		if f := NetForce(pos, 1, nil, 1); f != (Vector3{}) {
			t.Errorf("NetForce() = %v, expected zero", f)
		}
	})

	t.Run("balanced", func(t *testing.T) {
		f := NetForce(pos, 1, []Attractor{
			{Position: Vec3(2, 0, 0), Mass: 3},
			{Position: Vec3(-2, 0, 0), Mass: 3},
		}, 1)
		if !f.ApproxEqual(Vector3{}) {
			t.Errorf("NetForce() = %v, expected zero", f)
		}
	})

	t.Run("sum_of_pairs", func(t *testing.T) {
		attractors := []Attractor{
			{Position: Vec3(1, 0, 0), Mass: 2},
			{Position: Vec3(0, 0, 2), Mass: 8},
		}
		f := NetForce(pos, 5, attractors, 0.1)
		want := PairForce(pos, 5, attractors[0].Position, 2, 0.1).
			Add(PairForce(pos, 5, attractors[1].Position, 8, 0.1))
		if !f.ApproxEqual(want) {
			t.Errorf("NetForce() = %v, expected %v", f, want)
		}
	})
}

func TestAcceleration(t *testing.T) {
	if a := Acceleration(Vec3(4, 0, 0), 2); !a.ApproxEqual(Vec3(2, 0, 0)) {
		t.Errorf("Acceleration() = %v, expected (2,0,0)", a)
	}
	if a := Acceleration(Vec3(4, 0, 0), 0); a != (Vector3{}) {
		t.Errorf("Acceleration() with zero mass = %v, expected zero", a)
	}
}
