package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"focuskeeper/internal/clock"
	"focuskeeper/internal/core/model"
	"focuskeeper/internal/core/timekeeper"
)

// StateStore persists the timer snapshot. Load reports found=false when no
// snapshot exists yet.
type StateStore interface {
	Load() (state model.TimerState, found bool, err error)
	Save(state model.TimerState) error
}

// SessionSink durably records finished focus intervals.
type SessionSink interface {
	Record(ctx context.Context, interval model.Interval) error
}

// Notifier shows a user-facing alert.
type Notifier interface {
	Notify(title, body string) error
}

// Options wires a Controller to its collaborators. Store is required.
type Options struct {
	Clock         clock.Clock
	Store         StateStore
	Sink          SessionSink
	Notifier      Notifier
	Config        model.TimerConfig
	Location      *time.Location
	CheckInterval time.Duration
	Logger        *slog.Logger
}

// sinkTimeout bounds a single SessionSink.Record call.
const sinkTimeout = 5 * time.Second

// Controller owns the timer state machine. It drives a TimeKeeper through
// messages, treats the keeper's notifications as the only source of
// remaining time while counting, and persists every mutation.
type Controller struct {
	mu       sync.Mutex
	clock    clock.Clock
	store    StateStore
	sink     SessionSink
	notifier Notifier
	config   model.TimerConfig
	location *time.Location
	logger   *slog.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	keeper   *timekeeper.TimeKeeper
	pumpDone chan struct{}

	state      model.TimerState
	generation uint64
	loaded     bool
	events     []chan Event
}

// New creates a Controller and its background TimeKeeper. Failing to create
// the keeper is fatal: without it the countdown is not background safe.
// Call Load before using the controller.
func New(options Options) (*Controller, error) {
	if options.Store == nil {
		return nil, errors.New("controller: state store is required")
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Location == nil {
		options.Location = time.Local
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(context.Background())
	keeper, err := timekeeper.Spawn(ctx, timekeeper.Config{
		Clock:         options.Clock,
		CheckInterval: options.CheckInterval,
		Logger:        logger.With("component", "timekeeper"),
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start timekeeper: %w", err)
	}

	controller := &Controller{
		clock:    options.Clock,
		store:    options.Store,
		sink:     options.Sink,
		notifier: options.Notifier,
		config:   options.Config,
		location: options.Location,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		keeper:   keeper,
		pumpDone: make(chan struct{}),
	}
	controller.state = model.DefaultState(options.Config, controller.dayKey(options.Clock.Now()))

	go controller.pump()
	return controller, nil
}

// Close stops the TimeKeeper and closes all observer channels.
func (controller *Controller) Close() {
	controller.cancel()
	<-controller.pumpDone

	controller.mu.Lock()
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Subscribe registers a new observer channel. Sends never block; a full
// channel misses events.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	controller.events = append(controller.events, ch)
	controller.mu.Unlock()
	return ch
}

// State returns a copy of the current timer state.
func (controller *Controller) State() model.TimerState {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state.Clone()
}

// UpdateConfig replaces durations and policies. An idle timer immediately
// shows the new duration for its mode; a running one keeps its deadline.
func (controller *Controller) UpdateConfig(config model.TimerConfig) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.config = config
	if controller.state.IsRunning {
		return
	}
	awaiting := controller.state.AwaitingAcknowledgement
	controller.enterModeLocked(controller.state.Mode)
	controller.state.AwaitingAcknowledgement = awaiting
	controller.commitLocked(EventStateChange, controller.clock.Now())
}

func (controller *Controller) pump() {
	defer close(controller.pumpDone)
	for notification := range controller.keeper.Notifications() {
		controller.HandleNotification(notification)
	}
}

func (controller *Controller) dayKey(now time.Time) string {
	return model.DayKey(now, controller.location)
}

// commitLocked persists the state and tells observers about it.
func (controller *Controller) commitLocked(eventType EventType, now time.Time) {
	controller.persistLocked()
	controller.emitLocked(Event{Type: eventType, At: now})
}

func (controller *Controller) persistLocked() {
	if err := controller.store.Save(controller.state.Clone()); err != nil {
		controller.logger.Warn("persist timer state", "error", err)
	}
}

func (controller *Controller) emitLocked(event Event) {
	event.State = controller.state.Clone()
	for _, ch := range controller.events {
		select {
		case ch <- event:
		default:
		}
	}
}
