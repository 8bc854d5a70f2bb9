package server

import "errors"

// Feed server errors
var (
	ErrServerNotRunning     = errors.New("server is not running")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrNoSnapshot           = errors.New("no snapshot published yet")
	ErrInvalidQuery         = errors.New("invalid query")
	ErrHazardNotFound       = errors.New("hazard not found")
)
