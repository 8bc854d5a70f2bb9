package physics

import "fmt"

// framesPerSecond converts velocity into distance per 60Hz frame. Existing
// tuning constants depend on it regardless of the real tick length.
const framesPerSecond = 60

// Body is a circular rigid body. Static bodies never change position or
// velocity, whatever forces or collisions they receive.
//
// A Body is owned by the agent that created it; the grid and resolver only
// hold references for the duration of a tick.
type Body struct {
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2

	Mass   float64
	Radius float64
	Static bool

	// MaxSpeed caps |Velocity| after drag. Zero disables the cap.
	MaxSpeed float64
}

// NewBody creates a dynamic body at pos.
func NewBody(pos Vec2, mass, radius float64) (*Body, error) {
	if mass <= 0 {
		return nil, fmt.Errorf("%w: mass must be positive, got %v", ErrInvalidBody, mass)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidBody, radius)
	}
	return &Body{Position: pos, Mass: mass, Radius: radius}, nil
}

// NewStaticBody creates an immovable body at pos.
func NewStaticBody(pos Vec2, mass, radius float64) (*Body, error) {
	b, err := NewBody(pos, mass, radius)
	if err != nil {
		return nil, err
	}
	b.Static = true
	return b, nil
}

// ApplyForce accumulates f/mass into the acceleration. Several calls before
// Integrate add up. A massless dynamic body keeps its acceleration and the
// call reports ErrDivisionByZero for the caller to log.
func (b *Body) ApplyForce(f Vec2) error {
	if b.Static {
		return nil
	}
	a, err := f.Div(b.Mass)
	if err != nil {
		return fmt.Errorf("apply force: %w", err)
	}
	b.Acceleration = b.Acceleration.Add(a)
	return nil
}

// Integrate advances the body by deltaMs using semi-implicit Euler.
// mediumDrag is the velocity retention factor of the medium the body is in.
func (b *Body) Integrate(deltaMs, mediumDrag float64) {
	if b.Static {
		return
	}
	dt := deltaMs / 1000

	b.Velocity = b.Velocity.Add(b.Acceleration.Scale(dt))
	b.Velocity = b.Velocity.Scale(mediumDrag)
	if b.MaxSpeed > 0 {
		b.Velocity = b.Velocity.Limit(b.MaxSpeed)
	}
	b.Position = b.Position.Add(b.Velocity.Scale(dt * framesPerSecond))
	b.Acceleration = Vec2{}
}

// ConstrainToBounds keeps the circle inside [0,width]x[0,height]. Each crossed
// edge inverts the matching velocity component scaled by bounce; the bottom
// edge (y = height) also applies floor friction to the horizontal component.
func (b *Body) ConstrainToBounds(width, height, bounce, friction float64) {
	if b.Static {
		return
	}
	r := b.Radius

	if b.Position.X-r < 0 {
		b.Position.X = r
		b.Velocity.X = -b.Velocity.X * bounce
	} else if b.Position.X+r > width {
		b.Position.X = width - r
		b.Velocity.X = -b.Velocity.X * bounce
	}

	if b.Position.Y-r < 0 {
		b.Position.Y = r
		b.Velocity.Y = -b.Velocity.Y * bounce
	} else if b.Position.Y+r > height {
		b.Position.Y = height - r
		b.Velocity.Y = -b.Velocity.Y * bounce
		b.Velocity.X *= friction
	}
}

// InverseMass is zero for static bodies.
func (b *Body) InverseMass() float64 {
	if b.Static || b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

func (b *Body) Speed() float64 { return b.Velocity.Magnitude() }

func (b *Body) Momentum() Vec2 { return b.Velocity.Scale(b.Mass) }

func (b *Body) KineticEnergy() float64 { return 0.5 * b.Mass * b.Velocity.MagnitudeSq() }
