package controller

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focuskeeper/internal/core/model"
)

func shortConfig() model.TimerConfig {
	return model.TimerConfig{
		Focus:                2 * time.Second,
		ShortBreak:           time.Second,
		LongBreak:            3 * time.Second,
		LongBreakInterval:    4,
		NotificationsEnabled: true,
	}
}

func completeFocus(t *testing.T, h *harness) Event {
	t.Helper()
	h.controller.Start()
	h.waitForTick(t, 2)
	h.clock.Advance(2 * time.Second)
	return h.waitForCompletion(t)
}

func TestCompletion_FocusToShortBreakAwaitsAcknowledgement(t *testing.T) {
	h := loaded(t, shortConfig())

	event := completeFocus(t, h)
	assert.Equal(t, model.ModeFocus, event.Finished)
	assert.Equal(t, model.ModeShortBreak, event.State.Mode)

	state := h.controller.State()
	assert.Equal(t, model.ModeShortBreak, state.Mode)
	assert.True(t, state.AwaitingAcknowledgement)
	assert.False(t, state.IsRunning)
	assert.Nil(t, state.TargetEndTimestamp)
	assert.Equal(t, 1, state.TimeRemainingSeconds)
	assert.Equal(t, 1, state.CompletedFocusCount)
	assert.Equal(t, 2, state.TotalWorkedSeconds)

	recorded := h.sink.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, model.ModeFocus, recorded[0].Mode)
	assert.Equal(t, 2, recorded[0].DurationSeconds)
	assert.True(t, recorded[0].StartedAt.Equal(epoch))
	assert.True(t, recorded[0].EndedAt.Equal(epoch.Add(2*time.Second)))
	assert.Equal(t, model.SourceCompleted, recorded[0].Metadata["source"])
	assert.Equal(t, today, recorded[0].DayKey)

	assert.Equal(t, []string{"Focus complete"}, h.notifier.titles)
	assert.True(t, h.store.snapshot().AwaitingAcknowledgement)
}

func TestCompletion_FiresExactlyOnce(t *testing.T) {
	h := loaded(t, shortConfig())
	completeFocus(t, h)

	h.clock.Advance(5 * time.Second)
	h.controller.Reconcile()

	quiet := time.After(100 * time.Millisecond)
	for waiting := true; waiting; {
		select {
		case event := <-h.events:
			if event.Type == EventCompleted {
				t.Fatalf("second completion: %+v", event)
			}
		case <-quiet:
			waiting = false
		}
	}
	assert.Len(t, h.sink.recorded(), 1)
	assert.Equal(t, 1, h.controller.State().CompletedFocusCount)
}

func TestCompletion_LongBreakOnInterval(t *testing.T) {
	store := &memoryStore{found: true, state: model.TimerState{
		Mode:                 model.ModeFocus,
		TimeRemainingSeconds: 2,
		DurationSeconds:      2,
		CompletedFocusCount:  3,
		DayKey:               today,
	}}
	h := newHarness(t, store, shortConfig())
	require.NoError(t, h.controller.Load())

	completeFocus(t, h)
	state := h.controller.State()
	assert.Equal(t, model.ModeLongBreak, state.Mode)
	assert.Equal(t, 4, state.CompletedFocusCount)
	assert.Equal(t, 3, state.TimeRemainingSeconds)
}

func TestCompletion_OtherCountsGiveShortBreak(t *testing.T) {
	for _, count := range []int{0, 1, 2, 4, 5, 6} {
		store := &memoryStore{found: true, state: model.TimerState{
			Mode:                 model.ModeFocus,
			TimeRemainingSeconds: 2,
			DurationSeconds:      2,
			CompletedFocusCount:  count,
			DayKey:               today,
		}}
		h := newHarness(t, store, shortConfig())
		require.NoError(t, h.controller.Load())

		completeFocus(t, h)
		assert.Equal(t, model.ModeShortBreak, h.controller.State().Mode, "count %d", count)
	}
}

func TestCompletion_AutoStartBreak(t *testing.T) {
	config := shortConfig()
	config.AutoStartBreaks = true
	h := loaded(t, config)

	completeFocus(t, h)
	state := h.controller.State()
	assert.Equal(t, model.ModeShortBreak, state.Mode)
	assert.True(t, state.Counting())
	assert.False(t, state.AwaitingAcknowledgement)
	require.NotNil(t, state.TargetEndTimestamp)
	assert.Equal(t, epoch.Add(3*time.Second).UnixMilli(), *state.TargetEndTimestamp)

	// The break ends and, without focus auto-start, waits for the user.
	h.waitForTick(t, 1)
	h.clock.Advance(time.Second)
	event := h.waitForCompletion(t)
	assert.Equal(t, model.ModeShortBreak, event.Finished)

	state = h.controller.State()
	assert.Equal(t, model.ModeFocus, state.Mode)
	assert.True(t, state.AwaitingAcknowledgement)
	assert.Equal(t, []string{"Focus complete", "Break over"}, h.notifier.titles)
	assert.Len(t, h.sink.recorded(), 1)
}

func TestCompletion_StartClearsAcknowledgement(t *testing.T) {
	h := loaded(t, shortConfig())
	completeFocus(t, h)
	require.True(t, h.controller.State().AwaitingAcknowledgement)

	h.controller.Start()
	state := h.controller.State()
	assert.False(t, state.AwaitingAcknowledgement)
	assert.True(t, state.Counting())
	assert.Equal(t, model.ModeShortBreak, state.Mode)
}

func TestCompletion_SinkFailureStillCounts(t *testing.T) {
	h := loaded(t, shortConfig())
	h.sink.err = errors.New("disk full")

	completeFocus(t, h)
	state := h.controller.State()
	assert.Equal(t, 1, state.CompletedFocusCount)
	assert.Equal(t, 2, state.TotalWorkedSeconds)
}

func TestCompletion_NotifierFailureIgnored(t *testing.T) {
	h := loaded(t, shortConfig())
	h.notifier.fail = true

	completeFocus(t, h)
	assert.Equal(t, model.ModeShortBreak, h.controller.State().Mode)
}

func TestCompletion_NotificationsDisabled(t *testing.T) {
	config := shortConfig()
	config.NotificationsEnabled = false
	h := loaded(t, config)

	completeFocus(t, h)
	assert.Empty(t, h.notifier.titles)
}
