// Package clock abstracts the time source so countdown code can be driven
// deterministically in tests. Production code uses Real; tests use Fake and
// move time forward explicitly with Advance.
package clock

import "time"

// Clock is the time source used by the timekeeper and controller.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// NewTicker returns a Ticker delivering ticks every d. Panics if d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Ticker delivers periodic ticks on C. C has capacity 1; ticks that the
// reader is too slow to take are dropped, matching time.Ticker.
type Ticker struct {
	C <-chan time.Time

	stopFunc func()
}

// Stop turns off the ticker. C is not closed.
func (ticker *Ticker) Stop() { ticker.stopFunc() }

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) *Ticker {
	ticker := time.NewTicker(d)
	return &Ticker{C: ticker.C, stopFunc: ticker.Stop}
}
