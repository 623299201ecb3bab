package controller

import (
	"fmt"

	"focuskeeper/internal/core/model"
	"focuskeeper/internal/core/timekeeper"
)

// Load restores the persisted snapshot. A snapshot from another calendar day
// is discarded. A counting snapshot is re-derived from its deadline: with
// time left the keeper is re-armed, and with none the completion path runs
// once. Load only acts on its first call.
//
// A read error is returned after the controller has fallen back to a fresh
// state, so the caller may log it and carry on.
func (controller *Controller) Load() error {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.loaded {
		return nil
	}
	controller.loaded = true

	now := controller.clock.Now()
	today := controller.dayKey(now)

	snapshot, found, err := controller.store.Load()
	if err != nil {
		found = false
		err = fmt.Errorf("load timer state: %w", err)
	}
	if !found || snapshot.DayKey != today {
		if found {
			controller.logger.Info("discarding timer state from another day", "day", snapshot.DayKey, "today", today)
		}
		controller.state = model.DefaultState(controller.config, today)
		controller.commitLocked(EventStateChange, now)
		return err
	}

	state := sanitize(snapshot, controller.config)
	completedAway := false
	if state.Counting() {
		state.TimeRemainingSeconds = timekeeper.Remaining(*state.TargetEndTimestamp, now.UnixMilli())
		completedAway = state.TimeRemainingSeconds == 0
	}
	controller.state = state

	if state.Counting() && !completedAway {
		controller.logger.Info("resuming countdown", "mode", state.Mode, "remaining_seconds", state.TimeRemainingSeconds)
		controller.armLocked(*state.TargetEndTimestamp)
	}
	controller.commitLocked(EventStateChange, now)

	if completedAway {
		controller.completeLocked(now, model.SourceCompletedWhileAway)
	}
	return nil
}

// sanitize repairs a same-day snapshot so it satisfies the state invariants.
func sanitize(state model.TimerState, config model.TimerConfig) model.TimerState {
	state = state.Clone()
	if !state.Mode.Valid() {
		state.Mode = model.ModeFocus
	}
	if state.DurationSeconds <= 0 {
		state.DurationSeconds = config.DurationSeconds(state.Mode)
	}
	state.TimeRemainingSeconds = min(max(state.TimeRemainingSeconds, 0), state.DurationSeconds)
	state.TotalWorkedSeconds = max(state.TotalWorkedSeconds, 0)
	state.CompletedFocusCount = max(state.CompletedFocusCount, 0)

	if !state.IsRunning {
		state.IsPaused = false
	}
	if state.Counting() && state.TargetEndTimestamp == nil {
		state.IsPaused = true
	}
	if !state.Counting() {
		state.TargetEndTimestamp = nil
	}
	if !state.IsRunning {
		state.IntervalStartedAt = nil
		if state.TimeRemainingSeconds == 0 {
			state.TimeRemainingSeconds = state.DurationSeconds
		}
	}
	return state
}
