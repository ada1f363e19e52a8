package utils

import "time"

// Clock abstracts wall time so schedule-sensitive code (delivery due checks,
// backup windows) can be tested at fixed instants.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock reading the wall clock.
type SystemClock struct {
}

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now()
}
