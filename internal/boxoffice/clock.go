package boxoffice

import "time"

// Clock abstracts time.Now so the sales window can be tested against a
// fixed instant.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock returns a Clock backed by the system wall clock.
func RealClock() Clock { return realClock{} }

// FixedClock always reports the same instant.  Set moves it.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) { c.T = t }
