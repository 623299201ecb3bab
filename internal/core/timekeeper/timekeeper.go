package timekeeper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"focuskeeper/internal/clock"
)

// ErrSpawn indicates the background countdown context could not be created.
var ErrSpawn = errors.New("timekeeper: cannot create background context")

// Config contains runtime options for TimeKeeper.
type Config struct {
	Clock         clock.Clock
	CheckInterval time.Duration
	Logger        *slog.Logger
}

// TimeKeeper owns one absolute deadline in its own goroutine and reports the
// seconds left until it. Remaining time is always recomputed from the
// deadline and the current instant, so ticks lost to scheduling delays never
// accumulate as drift. All interaction happens through messages.
type TimeKeeper struct {
	clock         clock.Clock
	interval      time.Duration
	logger        *slog.Logger
	requests      chan Request
	notifications chan Notification
	done          chan struct{}
}

// Spawn starts the keeper goroutine. It runs until ctx is cancelled, after
// which Notifications is closed.
func Spawn(ctx context.Context, config Config) (*TimeKeeper, error) {
	if config.Clock == nil {
		return nil, fmt.Errorf("%w: no clock", ErrSpawn)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawn, err)
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	keeper := &TimeKeeper{
		clock:         config.Clock,
		interval:      config.CheckInterval,
		logger:        logger,
		requests:      make(chan Request),
		notifications: make(chan Notification),
		done:          make(chan struct{}),
	}
	go keeper.run(ctx)
	return keeper, nil
}

// Notifications returns the stream of tick and complete messages.
func (keeper *TimeKeeper) Notifications() <-chan Notification {
	return keeper.notifications
}

// Done is closed once the keeper goroutine has exited.
func (keeper *TimeKeeper) Done() <-chan struct{} {
	return keeper.done
}

// Send delivers request to the keeper. It returns once the keeper has taken
// the request, or immediately if the keeper has exited.
func (keeper *TimeKeeper) Send(request Request) {
	select {
	case keeper.requests <- request:
	case <-keeper.done:
	}
}

// Start replaces any running schedule with one counting to endTimestamp.
func (keeper *TimeKeeper) Start(endTimestamp int64, generation uint64) {
	keeper.Send(Request{Kind: RequestStart, EndTimestamp: endTimestamp, Generation: generation})
}

// Stop cancels the schedule. Safe to call when nothing is scheduled.
func (keeper *TimeKeeper) Stop() {
	keeper.Send(Request{Kind: RequestStop})
}

// Check emits one remaining-time tick without touching the schedule.
func (keeper *TimeKeeper) Check() {
	keeper.Send(Request{Kind: RequestCheck})
}

// schedule is the goroutine-local countdown; it is never shared.
type schedule struct {
	ticker     *clock.Ticker
	deadline   int64
	generation uint64
	pending    []Notification
}

func (keeper *TimeKeeper) run(ctx context.Context) {
	defer close(keeper.done)
	defer close(keeper.notifications)

	current := &schedule{}
	defer current.cancel()

	for {
		var out chan<- Notification
		var next Notification
		if len(current.pending) > 0 {
			out = keeper.notifications
			next = current.pending[0]
		}
		var tickC <-chan time.Time
		if current.ticker != nil {
			tickC = current.ticker.C
		}

		select {
		case <-ctx.Done():
			return
		case request := <-keeper.requests:
			keeper.handle(current, request)
		case <-tickC:
			keeper.evaluate(current)
		case out <- next:
			current.pending = current.pending[1:]
		}
	}
}

func (keeper *TimeKeeper) handle(current *schedule, request Request) {
	if !request.Valid() {
		keeper.logger.Debug("ignoring malformed request", "kind", request.Kind)
		return
	}

	switch request.Kind {
	case RequestStart:
		current.cancel()
		current.pending = nil
		current.deadline = request.EndTimestamp
		current.generation = request.Generation
		current.ticker = keeper.clock.NewTicker(keeper.interval)
		keeper.evaluate(current)
	case RequestStop:
		current.cancel()
		current.pending = nil
	case RequestCheck:
		if current.ticker != nil {
			keeper.evaluate(current)
		}
	}
}

// evaluate queues a tick for the current instant and, on reaching zero, the
// terminal completion, after which the schedule is cleared.
func (keeper *TimeKeeper) evaluate(current *schedule) {
	if current.ticker == nil {
		return
	}
	remaining := Remaining(current.deadline, keeper.clock.Now().UnixMilli())
	current.pending = append(current.pending, Notification{
		Kind:             NotificationTick,
		RemainingSeconds: remaining,
		Generation:       current.generation,
	})
	if remaining > 0 {
		return
	}
	current.pending = append(current.pending, Notification{
		Kind:       NotificationComplete,
		Generation: current.generation,
	})
	current.cancel()
}

func (current *schedule) cancel() {
	if current.ticker != nil {
		current.ticker.Stop()
		current.ticker = nil
	}
}
