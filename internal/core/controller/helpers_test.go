package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"focuskeeper/internal/clock"
	"focuskeeper/internal/core/model"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

const today = "2026-03-02"

func testConfig() model.TimerConfig {
	return model.TimerConfig{
		Focus:                25 * time.Minute,
		ShortBreak:           5 * time.Minute,
		LongBreak:            15 * time.Minute,
		LongBreakInterval:    4,
		NotificationsEnabled: true,
	}
}

type memoryStore struct {
	mu    sync.Mutex
	state model.TimerState
	found bool
	err   error
}

func (store *memoryStore) Load() (model.TimerState, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.err != nil {
		return model.TimerState{}, false, store.err
	}
	return store.state.Clone(), store.found, nil
}

func (store *memoryStore) Save(state model.TimerState) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state = state.Clone()
	store.found = true
	return nil
}

func (store *memoryStore) snapshot() model.TimerState {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state.Clone()
}

type recordingSink struct {
	mu        sync.Mutex
	intervals []model.Interval
	err       error
}

func (sink *recordingSink) Record(_ context.Context, interval model.Interval) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.intervals = append(sink.intervals, interval)
	return sink.err
}

func (sink *recordingSink) recorded() []model.Interval {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return append([]model.Interval(nil), sink.intervals...)
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
	fail   bool
}

func (notifier *recordingNotifier) Notify(title, _ string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.titles = append(notifier.titles, title)
	if notifier.fail {
		return errors.New("no notification daemon")
	}
	return nil
}

type harness struct {
	controller *Controller
	clock      *clock.FakeClock
	store      *memoryStore
	sink       *recordingSink
	notifier   *recordingNotifier
	events     <-chan Event
}

// newHarness builds a controller over store without loading it.
func newHarness(t *testing.T, store *memoryStore, config model.TimerConfig) *harness {
	t.Helper()
	fake := clock.Fake(epoch)
	sink := &recordingSink{}
	notifier := &recordingNotifier{}

	controller, err := New(Options{
		Clock:         fake,
		Store:         store,
		Sink:          sink,
		Notifier:      notifier,
		Config:        config,
		Location:      time.UTC,
		CheckInterval: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(controller.Close)

	return &harness{
		controller: controller,
		clock:      fake,
		store:      store,
		sink:       sink,
		notifier:   notifier,
		events:     controller.Subscribe(256),
	}
}

// loaded builds and loads a controller over an empty store.
func loaded(t *testing.T, config model.TimerConfig) *harness {
	t.Helper()
	h := newHarness(t, &memoryStore{}, config)
	require.NoError(t, h.controller.Load())
	return h
}

func (h *harness) waitFor(t *testing.T, match func(Event) bool) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-h.events:
			if match(event) {
				return event
			}
		case <-deadline:
			t.Fatal("timed out waiting for controller event")
			return Event{}
		}
	}
}

func (h *harness) waitForTick(t *testing.T, remaining int) Event {
	t.Helper()
	return h.waitFor(t, func(event Event) bool {
		return event.Type == EventTick && event.State.TimeRemainingSeconds == remaining
	})
}

func (h *harness) waitForCompletion(t *testing.T) Event {
	t.Helper()
	return h.waitFor(t, func(event Event) bool { return event.Type == EventCompleted })
}

func millis(instant time.Time) *int64 {
	return model.Millis(instant)
}
