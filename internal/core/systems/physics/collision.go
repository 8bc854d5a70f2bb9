package physics

import (
	"math"

	"github.com/zeusync/ecosim/internal/core/observability/log"
)

// Resolver performs circle-circle contact detection and a single discrete
// impulse pass per pair.
type Resolver struct {
	Restitution float64

	logger log.Log
}

// NewResolver creates a resolver with the given restitution coefficient.
// A nil logger is replaced by a silent one.
func NewResolver(restitution float64, logger log.Log) *Resolver {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Resolver{Restitution: restitution, logger: logger}
}

// CircleCircle reports whether a and b overlap.
func CircleCircle(a, b *Body) bool {
	return a.Position.DistanceTo(b.Position) < a.Radius+b.Radius
}

// Resolve separates two overlapping bodies and exchanges an impulse along the
// contact normal. Static-static pairs and coincident centres are skipped.
func (r *Resolver) Resolve(a, b *Body) {
	if a.Static && b.Static {
		return
	}

	delta := b.Position.Sub(a.Position)
	dist := delta.Magnitude()
	if dist == 0 {
		r.logger.Debug("Collision skipped",
			log.Error(ErrDegenerateGeometry),
			log.Float64("x", a.Position.X),
			log.Float64("y", a.Position.Y),
		)
		return
	}

	overlap := a.Radius + b.Radius - dist
	if overlap <= 0 {
		return
	}
	normal := delta.Scale(1 / dist)

	// Each body moves by the other's share of the total mass.
	switch {
	case a.Static:
		b.Position = b.Position.Add(normal.Scale(overlap))
	case b.Static:
		a.Position = a.Position.Sub(normal.Scale(overlap))
	default:
		total := a.Mass + b.Mass
		a.Position = a.Position.Sub(normal.Scale(overlap * b.Mass / total))
		b.Position = b.Position.Add(normal.Scale(overlap * a.Mass / total))
	}

	relVel := b.Velocity.Sub(a.Velocity).Dot(normal)
	if relVel >= 0 {
		return
	}

	invA, invB := a.InverseMass(), b.InverseMass()
	invSum := invA + invB
	if invSum == 0 {
		return
	}
	j := -(1 + r.Restitution) * relVel / invSum
	impulse := normal.Scale(j)

	if !a.Static {
		a.Velocity = a.Velocity.Sub(impulse.Scale(invA))
	}
	if !b.Static {
		b.Velocity = b.Velocity.Add(impulse.Scale(invB))
	}
}

// Collide resolves a and b if they overlap and reports whether they did.
func (r *Resolver) Collide(a, b *Body) bool {
	if !CircleCircle(a, b) {
		return false
	}
	r.Resolve(a, b)
	return true
}

// PointInCircle reports whether p lies inside or on b.
func PointInCircle(p Vec2, b *Body) bool {
	return p.DistanceTo(b.Position) <= b.Radius
}

// RaycastCircle returns the distance along the ray from origin to the near
// intersection with b. ok is false when the ray misses, points away, or the
// body's centre projects beyond maxDistance.
func RaycastCircle(origin, direction Vec2, b *Body, maxDistance float64) (dist float64, ok bool) {
	dir := direction.Normalize()
	if dir.IsZero() {
		return 0, false
	}

	toCentre := b.Position.Sub(origin)
	proj := toCentre.Dot(dir)
	if proj < 0 || proj > maxDistance {
		return 0, false
	}

	perpSq := toCentre.MagnitudeSq() - proj*proj
	r2 := b.Radius * b.Radius
	if perpSq > r2 {
		return 0, false
	}

	t := proj - math.Sqrt(r2-perpSq)
	if t < 0 {
		t = 0
	}
	return t, true
}
