package clock

import (
	"sync"
	"time"
)

// FakeClock is a Clock whose time only moves when Advance or Set is called.
// It is safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	tickers []*fakeTicker
	changed *sync.Cond
}

type fakeTicker struct {
	channel  chan time.Time
	interval time.Duration
	next     time.Time
	stopped  bool
}

// Fake returns a FakeClock frozen at initial.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{current: initial}
	clock.changed = sync.NewCond(&clock.mu)
	return clock
}

// Now returns the fake current time.
func (clock *FakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

// NewTicker registers a ticker that fires as Advance crosses its deadlines.
func (clock *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	clock.mu.Lock()
	defer clock.mu.Unlock()

	ticker := &fakeTicker{
		channel:  make(chan time.Time, 1),
		interval: d,
		next:     clock.current.Add(d),
	}
	clock.tickers = append(clock.tickers, ticker)
	clock.changed.Broadcast()

	return &Ticker{
		C: ticker.channel,
		stopFunc: func() {
			clock.mu.Lock()
			defer clock.mu.Unlock()
			ticker.stopped = true
			clock.changed.Broadcast()
		},
	}
}

// Advance moves time forward by d and fires every ticker deadline crossed on
// the way. Sends are non-blocking, so a slow reader sees at most one queued
// tick regardless of how far time jumped.
func (clock *FakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	clock.current = clock.current.Add(d)
	target := clock.current

	var active []*fakeTicker
	for _, ticker := range clock.tickers {
		if ticker.stopped {
			continue
		}
		for !ticker.next.After(target) {
			select {
			case ticker.channel <- target:
			default:
			}
			ticker.next = ticker.next.Add(ticker.interval)
		}
		active = append(active, ticker)
	}
	clock.tickers = active
	clock.mu.Unlock()
}

// Set jumps the clock to instant without firing any ticker, which models a
// host that was suspended and is now resuming.
func (clock *FakeClock) Set(instant time.Time) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.current = instant
	for _, ticker := range clock.tickers {
		for !ticker.next.After(instant) {
			ticker.next = ticker.next.Add(ticker.interval)
		}
	}
}

// ActiveTickers returns the number of tickers that have not been stopped.
func (clock *FakeClock) ActiveTickers() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.activeLocked()
}

// WaitForTickers blocks until exactly n tickers are active. It removes the
// race between a goroutine registering a ticker and a test advancing time.
func (clock *FakeClock) WaitForTickers(n int) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	for clock.activeLocked() != n {
		clock.changed.Wait()
	}
}

func (clock *FakeClock) activeLocked() int {
	count := 0
	for _, ticker := range clock.tickers {
		if !ticker.stopped {
			count++
		}
	}
	return count
}
