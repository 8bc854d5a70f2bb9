package physics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustBody(t *testing.T, pos Vec2, mass, radius float64) *Body {
	t.Helper()
	b, err := NewBody(pos, mass, radius)
	require.NoError(t, err)
	return b
}

func TestNewBodyValidation(t *testing.T) {
	_, err := NewBody(Zero(), 0, 1)
	require.ErrorIs(t, err, ErrInvalidBody)
	_, err = NewBody(Zero(), 1, -1)
	require.ErrorIs(t, err, ErrInvalidBody)

	s, err := NewStaticBody(V(1, 1), 5, 2)
	require.NoError(t, err)
	require.True(t, s.Static)
}

func TestApplyForceSuperposition(t *testing.T) {
	b := mustBody(t, Zero(), 2, 1)
	b.ApplyForce(V(2, 0))
	b.ApplyForce(V(0, 4))
	require.Equal(t, V(1, 2), b.Acceleration)
}

func TestApplyForceMasslessBody(t *testing.T) {
	b := &Body{Radius: 1, Acceleration: V(1, 1)}
	err := b.ApplyForce(V(5, 5))
	require.ErrorIs(t, err, ErrDivisionByZero)
	require.Equal(t, V(1, 1), b.Acceleration)
}

func TestStaticBodyIgnoresEverything(t *testing.T) {
	b, err := NewStaticBody(V(10, 10), 1, 1)
	require.NoError(t, err)

	b.ApplyForce(V(100, 100))
	b.Integrate(16, 1)
	b.ConstrainToBounds(5, 5, 0.5, 0.9)

	require.Equal(t, V(10, 10), b.Position)
	require.Equal(t, Zero(), b.Velocity)
	require.Equal(t, Zero(), b.Acceleration)
}

func TestIntegrateOrder(t *testing.T) {
	b := mustBody(t, Zero(), 1, 1)
	b.ApplyForce(V(1000, 0))

	// 500ms: v = 1000*0.5 = 500, drag 0.5 -> 250, position += 250*0.5*60.
	b.Integrate(500, 0.5)

	require.InDelta(t, 250, b.Velocity.X, eps)
	require.InDelta(t, 250*0.5*60, b.Position.X, eps)
	require.Equal(t, Zero(), b.Acceleration)
}

func TestIntegrateClampPreservesDirection(t *testing.T) {
	b := mustBody(t, Zero(), 1, 1)
	b.MaxSpeed = 5
	b.Velocity = V(30, 40)

	b.Integrate(1000/60.0, 1)

	require.InDelta(t, 5, b.Speed(), 1e-9)
	require.InDelta(t, 3, b.Velocity.X, 1e-9)
	require.InDelta(t, 4, b.Velocity.Y, 1e-9)
	// one 60Hz frame moves the body by exactly its velocity
	require.InDelta(t, 3, b.Position.X, 1e-9)
	require.InDelta(t, 4, b.Position.Y, 1e-9)
}

func TestConstrainToBounds(t *testing.T) {
	t.Run("LeftWall", func(t *testing.T) {
		b := mustBody(t, V(2, 50), 1, 5)
		b.Velocity = V(-4, 0)
		b.ConstrainToBounds(100, 100, 0.5, 0.95)
		require.Equal(t, 5.0, b.Position.X)
		require.Equal(t, 2.0, b.Velocity.X)
	})

	t.Run("RightWall", func(t *testing.T) {
		b := mustBody(t, V(99, 50), 1, 5)
		b.Velocity = V(4, 1)
		b.ConstrainToBounds(100, 100, 0.5, 0.95)
		require.Equal(t, 95.0, b.Position.X)
		require.Equal(t, -2.0, b.Velocity.X)
		require.Equal(t, 1.0, b.Velocity.Y)
	})

	t.Run("CeilingHasNoFriction", func(t *testing.T) {
		b := mustBody(t, V(50, 1), 1, 5)
		b.Velocity = V(10, -4)
		b.ConstrainToBounds(100, 100, 0.5, 0.95)
		require.Equal(t, 5.0, b.Position.Y)
		require.Equal(t, 2.0, b.Velocity.Y)
		require.Equal(t, 10.0, b.Velocity.X)
	})

	t.Run("FloorFriction", func(t *testing.T) {
		b := mustBody(t, V(50, 99), 1, 5)
		b.Velocity = V(10, 4)
		b.ConstrainToBounds(100, 100, 0.5, 0.95)
		require.Equal(t, 95.0, b.Position.Y)
		require.InDelta(t, -2.0, b.Velocity.Y, eps)
		require.InDelta(t, 9.5, b.Velocity.X, eps)
	})

	t.Run("FloorContactEveryTick", func(t *testing.T) {
		b := mustBody(t, V(50, 95), 1, 5)
		b.Velocity = V(10, 0)
		speed := 10.0
		for i := 0; i < 5; i++ {
			b.Position.Y = 95.5 // pressed into the floor again
			b.ConstrainToBounds(100, 100, 0.5, 0.95)
			speed *= 0.95
			require.InDelta(t, speed, b.Velocity.X, 1e-9)
		}
	})

	t.Run("Inside", func(t *testing.T) {
		b := mustBody(t, V(50, 50), 1, 5)
		b.Velocity = V(1, 1)
		b.ConstrainToBounds(100, 100, 0.5, 0.95)
		require.Equal(t, V(50, 50), b.Position)
		require.Equal(t, V(1, 1), b.Velocity)
	})
}

func TestBodyAccessors(t *testing.T) {
	b := mustBody(t, Zero(), 2, 1)
	b.Velocity = V(3, 4)
	require.Equal(t, 5.0, b.Speed())
	require.Equal(t, V(6, 8), b.Momentum())
	require.Equal(t, 25.0, b.KineticEnergy())
	require.Equal(t, 0.5, b.InverseMass())

	b.Static = true
	require.Zero(t, b.InverseMass())
}

func TestConfigNewBodyAndDrag(t *testing.T) {
	cfg := DefaultConfig()
	b, err := cfg.NewBody(V(1, 2), 1, 1)
	require.NoError(t, err)
	require.Equal(t, cfg.MaxVelocity, b.MaxSpeed)

	require.Equal(t, cfg.WaterDrag, cfg.Drag(MediumWater))
	require.Equal(t, cfg.AirDrag, cfg.Drag(MediumAir))
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.AirDrag = 1.5
	require.Error(t, bad.Validate())

	filled := Config{Gravity: 0}.WithDefaults()
	require.Equal(t, DefaultCellSize, filled.CellSize)
	require.Zero(t, filled.Gravity)
	require.Zero(t, filled.BounceCoefficient)
	require.Zero(t, filled.FrictionCoefficient)
	require.Zero(t, filled.Restitution)
	require.NoError(t, filled.Validate())
}

func TestWaterLevelMedium(t *testing.T) {
	m := WaterLevelMedium{Level: 300}
	require.Equal(t, MediumAir, m.MediumAt(0, 299))
	require.Equal(t, MediumWater, m.MediumAt(0, 300))
	require.Equal(t, MediumAir, WaterLevelMedium{}.MediumAt(0, 1e9))
	require.Equal(t, "water", MediumWater.String())
}
