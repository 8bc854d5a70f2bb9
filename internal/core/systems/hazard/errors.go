package hazard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration marks programming or data errors: unknown kinds,
	// missing positions, malformed catalogs.
	ErrInvalidConfiguration = errors.New("invalid hazard configuration")

	ErrUnknownKind     = fmt.Errorf("%w: unknown hazard kind", ErrInvalidConfiguration)
	ErrMissingPosition = fmt.Errorf("%w: local hazard requires a position", ErrInvalidConfiguration)

	// ErrOnCooldown is expected during normal play: the request was valid but
	// the kind cannot fire yet. No hazard is created.
	ErrOnCooldown = errors.New("hazard kind on cooldown")
)
