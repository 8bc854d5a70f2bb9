package physics

import "errors"

var (
	ErrDivisionByZero     = errors.New("division by zero")
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	ErrInvalidBody        = errors.New("invalid body")
)
