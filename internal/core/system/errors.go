package system

import "errors"

var (
	ErrSystemExists   = errors.New("system already registered")
	ErrSystemNotFound = errors.New("system not found")
	ErrNilBody        = errors.New("nil body")
)
