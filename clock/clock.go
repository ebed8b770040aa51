package clock

import "time"

// Clock supplies the current time. All derived state in one request must be
// computed from a single Now() sample so the response is internally consistent.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. For tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// At is a convenience constructor for a Fixed clock.
func At(t time.Time) Fixed { return Fixed{T: t} }
