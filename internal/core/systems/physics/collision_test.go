package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/ecosim/internal/core/observability/log"
)

func TestCircleCircle(t *testing.T) {
	a := mustBody(t, V(0, 0), 1, 5)
	b := mustBody(t, V(9, 0), 1, 5)
	require.True(t, CircleCircle(a, b))
	b.Position = V(10, 0)
	require.False(t, CircleCircle(a, b))
}

func TestResolveHeadOnElastic(t *testing.T) {
	r := NewResolver(1, nil)
	a := mustBody(t, V(0, 0), 2, 5)
	b := mustBody(t, V(8, 0), 3, 5)
	a.Velocity = V(4, 0)
	b.Velocity = V(-2, 0)
	before := a.Momentum().Add(b.Momentum())
	energy := a.KineticEnergy() + b.KineticEnergy()

	r.Resolve(a, b)

	after := a.Momentum().Add(b.Momentum())
	require.InDelta(t, before.X, after.X, 1e-9)
	require.InDelta(t, before.Y, after.Y, 1e-9)
	require.InDelta(t, energy, a.KineticEnergy()+b.KineticEnergy(), 1e-9)
	// separated: overlap 2 split by the other body's mass share
	require.InDelta(t, -2*3.0/5, a.Position.X, 1e-9)
	require.InDelta(t, 8+2*2.0/5, b.Position.X, 1e-9)
	require.InDelta(t, 10, a.Position.DistanceTo(b.Position), 1e-9)
}

func TestResolveMomentumRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	r := NewResolver(1, nil)
	for i := 0; i < 500; i++ {
		a := mustBody(t, V(rng.Float64()*10, rng.Float64()*10), 0.5+rng.Float64()*5, 5)
		b := mustBody(t, V(rng.Float64()*10, rng.Float64()*10), 0.5+rng.Float64()*5, 5)
		a.Velocity = V(rng.Float64()*10-5, rng.Float64()*10-5)
		b.Velocity = V(rng.Float64()*10-5, rng.Float64()*10-5)
		before := a.Momentum().Add(b.Momentum())

		r.Resolve(a, b)

		after := a.Momentum().Add(b.Momentum())
		require.InDelta(t, before.X, after.X, 1e-9)
		require.InDelta(t, before.Y, after.Y, 1e-9)
	}
}

func TestResolveStatic(t *testing.T) {
	r := NewResolver(0.8, nil)

	t.Run("StaticAbsorbsFullShare", func(t *testing.T) {
		wall, err := NewStaticBody(V(0, 0), 100, 5)
		require.NoError(t, err)
		b := mustBody(t, V(8, 0), 1, 5)
		b.Velocity = V(-3, 0)

		r.Resolve(wall, b)

		require.Equal(t, V(0, 0), wall.Position)
		require.Equal(t, Zero(), wall.Velocity)
		require.InDelta(t, 10, b.Position.X, 1e-9)
		require.InDelta(t, 3*0.8, b.Velocity.X, 1e-9)
	})

	t.Run("StaticStaticNoop", func(t *testing.T) {
		a, _ := NewStaticBody(V(0, 0), 1, 5)
		b, _ := NewStaticBody(V(1, 0), 1, 5)
		r.Resolve(a, b)
		require.Equal(t, V(0, 0), a.Position)
		require.Equal(t, V(1, 0), b.Position)
	})
}

func TestResolveSeparatingSkipsImpulse(t *testing.T) {
	r := NewResolver(1, nil)
	a := mustBody(t, V(0, 0), 1, 5)
	b := mustBody(t, V(8, 0), 1, 5)
	a.Velocity = V(-1, 0)
	b.Velocity = V(1, 0)

	r.Resolve(a, b)

	require.Equal(t, V(-1, 0), a.Velocity)
	require.Equal(t, V(1, 0), b.Velocity)
	require.InDelta(t, 10, a.Position.DistanceTo(b.Position), 1e-9)
}

func TestResolveZeroRelativeVelocity(t *testing.T) {
	r := NewResolver(1, nil)
	a := mustBody(t, V(0, 0), 1, 5)
	b := mustBody(t, V(8, 0), 1, 5)
	a.Velocity = V(2, 0)
	b.Velocity = V(2, 0)

	r.Resolve(a, b)

	require.Equal(t, V(2, 0), a.Velocity)
	require.Equal(t, V(2, 0), b.Velocity)
	require.False(t, math.IsNaN(a.Position.X))
}

func TestResolveCoincidentCentres(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := NewResolver(1, log.Wrap(zap.New(core), log.LevelDebug))
	a := mustBody(t, V(5, 5), 1, 5)
	b := mustBody(t, V(5, 5), 1, 5)
	a.Velocity = V(1, 0)

	r.Resolve(a, b)

	require.Equal(t, V(5, 5), a.Position)
	require.Equal(t, V(5, 5), b.Position)
	require.Equal(t, V(1, 0), a.Velocity)
	require.Equal(t, 1, logs.FilterMessage("Collision skipped").Len())
}

func TestCollide(t *testing.T) {
	r := NewResolver(1, nil)
	a := mustBody(t, V(0, 0), 1, 5)
	b := mustBody(t, V(20, 0), 1, 5)
	require.False(t, r.Collide(a, b))
	b.Position = V(9, 0)
	require.True(t, r.Collide(a, b))
}

func TestPointInCircle(t *testing.T) {
	b := mustBody(t, V(0, 0), 1, 5)
	require.True(t, PointInCircle(V(3, 4), b))
	require.True(t, PointInCircle(V(5, 0), b))
	require.False(t, PointInCircle(V(5, 0.1), b))
}

func TestRaycastCircle(t *testing.T) {
	b := mustBody(t, V(10, 0), 1, 2)

	d, ok := RaycastCircle(Zero(), V(1, 0), b, 100)
	require.True(t, ok)
	require.InDelta(t, 8, d, 1e-9)

	// unnormalised direction gives the same answer
	d, ok = RaycastCircle(Zero(), V(5, 0), b, 100)
	require.True(t, ok)
	require.InDelta(t, 8, d, 1e-9)

	_, ok = RaycastCircle(Zero(), V(-1, 0), b, 100)
	require.False(t, ok, "behind the origin")

	_, ok = RaycastCircle(Zero(), V(1, 0), b, 5)
	require.False(t, ok, "centre beyond max distance")

	_, ok = RaycastCircle(V(0, 3), V(1, 0), b, 100)
	require.False(t, ok, "passes above")

	d, ok = RaycastCircle(V(9, 0), V(1, 0), b, 100)
	require.True(t, ok)
	require.Zero(t, d, "origin inside the circle clamps to zero")
}

func BenchmarkCollisionPass(b *testing.B) {
	rng := rand.New(rand.NewSource(5))
	bodies := make([]*Body, 3000)
	for i := range bodies {
		bodies[i] = &Body{Position: V(rng.Float64()*2000, rng.Float64()*2000), Mass: 1, Radius: 6}
	}
	g := NewGrid(30)
	r := NewResolver(DefaultRestitution, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Clear()
		g.InsertAll(bodies)
		for _, a := range bodies {
			for _, o := range g.Neighbors(a) {
				r.Collide(a, o)
			}
		}
	}
}
