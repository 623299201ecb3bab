package controller

import (
	"context"
	"fmt"
	"time"

	"focuskeeper/internal/core/model"
	"focuskeeper/internal/core/timekeeper"
)

// Start begins the current interval. A paused timer is resumed and a
// counting timer is left alone. An idle timer re-reads its configured
// duration and, if the calendar day changed, starts over on a fresh day.
func (controller *Controller) Start() {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	now := controller.clock.Now()
	if !controller.state.IsRunning {
		controller.rolloverLocked(now)
	}
	controller.startLocked(now)
}

// Pause freezes the countdown. The keeper schedule is cancelled, so paused
// time never counts against the interval.
func (controller *Controller) Pause() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.pauseLocked(controller.clock.Now())
}

// Resume continues a paused countdown from its remaining time.
func (controller *Controller) Resume() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.resumeLocked(controller.clock.Now())
}

// Reset stops the timer and restores the current mode's full duration. Time
// already spent in a running or paused focus interval is credited.
func (controller *Controller) Reset() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.resetLocked(controller.clock.Now(), true)
}

// FinishEarly ends a focus interval before its deadline and records the
// time spent so far. It returns ErrFinishTooEarly, without changing any
// state, if less than a minute has elapsed.
func (controller *Controller) FinishEarly() (model.Interval, error) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	state := &controller.state
	if state.Mode != model.ModeFocus {
		return model.Interval{}, ErrNotFocus
	}

	now := controller.clock.Now()
	remaining := state.TimeRemainingSeconds
	if state.Counting() {
		remaining = timekeeper.Remaining(*state.TargetEndTimestamp, now.UnixMilli())
	}
	elapsed := state.DurationSeconds - remaining
	if elapsed < minFinishEarlySeconds {
		return model.Interval{}, fmt.Errorf("%w: %ds elapsed", ErrFinishTooEarly, max(elapsed, 0))
	}

	interval := model.Interval{
		Mode:            model.ModeFocus,
		DurationSeconds: elapsed,
		StartedAt:       intervalStart(*state, now, elapsed),
		EndedAt:         now,
		DayKey:          state.DayKey,
		Metadata:        map[string]string{"source": model.SourceFinishedEarly},
	}
	state.TotalWorkedSeconds += elapsed
	controller.recordLocked(interval)
	controller.resetLocked(now, false)
	return interval, nil
}

// SwitchMode moves to mode at its full configured duration, stopping any
// countdown in progress.
func (controller *Controller) SwitchMode(mode model.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.keeper.Stop()
	controller.enterModeLocked(mode)
	controller.commitLocked(EventStateChange, controller.clock.Now())
	return nil
}

// Reconcile is called when the host regains the foreground. A counting
// timer asks the keeper for a fresh reading instead of trusting anything
// cached on this side; an idle timer only checks for a new calendar day.
func (controller *Controller) Reconcile() {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if controller.state.Counting() {
		controller.keeper.Check()
		return
	}
	if !controller.state.IsRunning {
		controller.rolloverLocked(controller.clock.Now())
	}
}

// HandleNotification applies one keeper message. Malformed messages and
// messages from a superseded start are ignored.
func (controller *Controller) HandleNotification(notification timekeeper.Notification) {
	if !notification.Valid() {
		controller.logger.Debug("ignoring malformed notification", "kind", notification.Kind)
		return
	}

	controller.mu.Lock()
	defer controller.mu.Unlock()

	if notification.Generation != controller.generation || !controller.state.Counting() {
		controller.logger.Debug("ignoring stale notification",
			"kind", notification.Kind,
			"generation", notification.Generation,
			"current", controller.generation)
		return
	}

	now := controller.clock.Now()
	switch notification.Kind {
	case timekeeper.NotificationTick:
		controller.state.TimeRemainingSeconds = notification.RemainingSeconds
		controller.commitLocked(EventTick, now)
	case timekeeper.NotificationComplete:
		controller.completeLocked(now, model.SourceCompleted)
	}
}

func (controller *Controller) startLocked(now time.Time) {
	state := &controller.state
	if state.IsRunning {
		if state.IsPaused {
			controller.resumeLocked(now)
		}
		return
	}

	duration := controller.config.DurationSeconds(state.Mode)
	state.DurationSeconds = duration
	state.TimeRemainingSeconds = duration

	target := now.UnixMilli() + int64(duration)*1000
	state.TargetEndTimestamp = &target
	state.IntervalStartedAt = model.Millis(now)
	state.IsRunning = true
	state.IsPaused = false
	state.AwaitingAcknowledgement = false

	controller.armLocked(target)
	controller.commitLocked(EventStateChange, now)
}

func (controller *Controller) pauseLocked(now time.Time) {
	state := &controller.state
	if !state.Counting() {
		return
	}

	controller.keeper.Stop()
	remaining := timekeeper.Remaining(*state.TargetEndTimestamp, now.UnixMilli())
	if remaining == 0 {
		controller.completeLocked(now, model.SourceCompleted)
		return
	}

	state.TimeRemainingSeconds = remaining
	state.TargetEndTimestamp = nil
	state.IsPaused = true
	controller.commitLocked(EventStateChange, now)
}

func (controller *Controller) resumeLocked(now time.Time) {
	state := &controller.state
	if !state.IsRunning || !state.IsPaused {
		return
	}

	target := now.UnixMilli() + int64(state.TimeRemainingSeconds)*1000
	state.TargetEndTimestamp = &target
	state.IsPaused = false

	controller.armLocked(target)
	controller.commitLocked(EventStateChange, now)
}

func (controller *Controller) resetLocked(now time.Time, credit bool) {
	state := &controller.state
	if credit && state.IsRunning && state.Mode == model.ModeFocus {
		if state.Counting() {
			state.TimeRemainingSeconds = timekeeper.Remaining(*state.TargetEndTimestamp, now.UnixMilli())
		}
		state.TotalWorkedSeconds += state.ElapsedSeconds()
	}

	controller.keeper.Stop()
	controller.enterModeLocked(state.Mode)
	controller.commitLocked(EventStateChange, now)
}

// completeLocked finishes the current interval, advances the mode and either
// starts the next interval or waits for the user to start it.
func (controller *Controller) completeLocked(now time.Time, source string) {
	state := &controller.state
	endedAt := now
	if state.TargetEndTimestamp != nil {
		endedAt = time.UnixMilli(*state.TargetEndTimestamp)
	}

	finished := state.Mode
	state.TimeRemainingSeconds = 0
	state.TargetEndTimestamp = nil
	state.IsRunning = false
	state.IsPaused = false

	if finished == model.ModeFocus {
		state.CompletedFocusCount++
		state.TotalWorkedSeconds += state.DurationSeconds
		controller.recordLocked(model.Interval{
			Mode:            model.ModeFocus,
			DurationSeconds: state.DurationSeconds,
			StartedAt:       intervalStart(*state, endedAt, state.DurationSeconds),
			EndedAt:         endedAt,
			DayKey:          state.DayKey,
			Metadata:        map[string]string{"source": source},
		})
	}

	next := controller.config.NextMode(finished, state.CompletedFocusCount)
	controller.enterModeLocked(next)
	controller.logger.Info("interval complete", "finished", finished, "next", next, "source", source)
	controller.emitLocked(Event{Type: EventCompleted, Finished: finished, At: now})
	controller.notifyLocked(finished)

	if controller.config.AutoStart(next) {
		controller.startLocked(now)
		return
	}
	state.AwaitingAcknowledgement = true
	controller.commitLocked(EventStateChange, now)
}

// enterModeLocked puts the timer idle at the full configured length of mode.
func (controller *Controller) enterModeLocked(mode model.Mode) {
	duration := controller.config.DurationSeconds(mode)
	state := &controller.state
	state.Mode = mode
	state.DurationSeconds = duration
	state.TimeRemainingSeconds = duration
	state.IsRunning = false
	state.IsPaused = false
	state.TargetEndTimestamp = nil
	state.IntervalStartedAt = nil
	state.AwaitingAcknowledgement = false
}

// rolloverLocked replaces an idle state left over from an earlier day.
func (controller *Controller) rolloverLocked(now time.Time) bool {
	today := controller.dayKey(now)
	if controller.state.DayKey == today {
		return false
	}
	controller.logger.Info("starting a new day", "previous", controller.state.DayKey, "day", today)
	controller.state = model.DefaultState(controller.config, today)
	controller.commitLocked(EventStateChange, now)
	return true
}

func (controller *Controller) armLocked(target int64) {
	controller.generation++
	controller.keeper.Start(target, controller.generation)
}

func (controller *Controller) recordLocked(interval model.Interval) {
	if controller.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(controller.ctx, sinkTimeout)
	defer cancel()
	if err := controller.sink.Record(ctx, interval); err != nil {
		controller.logger.Warn("record focus interval",
			"error", err,
			"duration_seconds", interval.DurationSeconds)
	}
}

func (controller *Controller) notifyLocked(finished model.Mode) {
	if controller.notifier == nil || !controller.config.NotificationsEnabled {
		return
	}
	title, body := "Break over", "Ready to focus again?"
	if finished == model.ModeFocus {
		title, body = "Focus complete", "Time for a break."
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			controller.logger.Warn("notification panicked", "panic", recovered)
		}
	}()
	if err := controller.notifier.Notify(title, body); err != nil {
		controller.logger.Warn("show notification", "error", err)
	}
}

func intervalStart(state model.TimerState, end time.Time, elapsedSeconds int) time.Time {
	if state.IntervalStartedAt != nil {
		return time.UnixMilli(*state.IntervalStartedAt)
	}
	return end.Add(-time.Duration(elapsedSeconds) * time.Second)
}
