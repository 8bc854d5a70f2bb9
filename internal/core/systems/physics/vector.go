package physics

import (
	"math"
	"math/rand"
)

// Vec2 is an immutable 2D vector. Every operation returns a new value.
// Callers must not feed NaN or Inf components.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Zero returns the zero vector.
func Zero() Vec2 { return Vec2{} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(k float64) Vec2 { return Vec2{X: v.X * k, Y: v.Y * k} }

// Div divides both components by k. When k is zero the vector is returned
// unchanged together with ErrDivisionByZero.
func (v Vec2) Div(k float64) (Vec2, error) {
	if k == 0 {
		return v, ErrDivisionByZero
	}
	return Vec2{X: v.X / k, Y: v.Y / k}, nil
}

func (v Vec2) Magnitude() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) MagnitudeSq() float64 { return v.X*v.X + v.Y*v.Y }

// Normalize returns the unit vector in the direction of v, or the zero vector
// when v has no length.
func (v Vec2) Normalize() Vec2 {
	m := v.Magnitude()
	if m == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / m, Y: v.Y / m}
}

// Limit rescales v so its magnitude does not exceed max. Direction is kept.
func (v Vec2) Limit(max float64) Vec2 {
	m2 := v.MagnitudeSq()
	if m2 <= max*max || m2 == 0 {
		return v
	}
	return v.Scale(max / math.Sqrt(m2))
}

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) DistanceTo(o Vec2) float64 { return math.Hypot(o.X-v.X, o.Y-v.Y) }

func (v Vec2) DistanceSq(o Vec2) float64 {
	dx, dy := o.X-v.X, o.Y-v.Y
	return dx*dx + dy*dy
}

// Angle returns atan2(y, x) in radians.
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Rotate rotates v counter-clockwise by theta radians.
func (v Vec2) Rotate(theta float64) Vec2 {
	sin, cos := math.Sincos(theta)
	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// FromAngle builds a vector of the given magnitude pointing at theta.
func FromAngle(theta, magnitude float64) Vec2 {
	sin, cos := math.Sincos(theta)
	return Vec2{X: cos * magnitude, Y: sin * magnitude}
}

// UnitFromAngle is FromAngle with magnitude 1.
func UnitFromAngle(theta float64) Vec2 { return FromAngle(theta, 1) }

// RandomUnit draws a uniformly distributed direction from rng. The generator
// is the simulation's shared source so replays stay reproducible.
func RandomUnit(rng *rand.Rand) Vec2 {
	return UnitFromAngle(rng.Float64() * 2 * math.Pi)
}
