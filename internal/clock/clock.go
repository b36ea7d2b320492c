// Package clock supplies the current time and the deadline arithmetic used by
// the allocation engine. Everything here is a pure function of its inputs,
// except System which reads the wall clock.
package clock

import (
	"sync"
	"time"

	"stall-allocation/internal/models"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Expired reports whether an open session has reached its deadline.
// A session without a deadline never expires.
func Expired(s models.Session, now time.Time) bool {
	if !s.HasDeadline() {
		return false
	}
	return !now.Before(s.Deadline)
}

// Remaining returns the time left until deadline, floored at zero
func Remaining(deadline, now time.Time) time.Duration {
	if deadline.IsZero() {
		return 0
	}
	if d := deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Fake is a manually advanced clock for tests and simulations
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a Fake clock set to start
func NewFake(start time.Time) *Fake {
	return &Fake{now: start.UTC()}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Set moves the clock to t
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t.UTC()
}
