// Package types provides core clock abstractions for time mocking
package types

import "time"

// Clock provides an abstraction over time operations for testing
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// After returns a channel that delivers the current time after the duration
	After(d time.Duration) <-chan time.Time
}

// RealClock implements Clock using standard time operations
type RealClock struct{}

// NewRealClock creates a new real clock
func NewRealClock() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// After returns a channel that delivers the current time after the duration
func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
