package config

import "errors"

var (
	// ErrNoTokenSignKey is returned when no token signing key was provided
	// by any configuration source.
	ErrNoTokenSignKey = errors.New("token sign key is required")

	// ErrInvalidWorkerSchedule is returned when a worker schedule value is
	// outside its accepted range.
	ErrInvalidWorkerSchedule = errors.New("invalid worker schedule")
)
