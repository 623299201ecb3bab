package model

import "time"

// Mode is the kind of interval being timed.
type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "short_break"
	ModeLongBreak  Mode = "long_break"
)

// Valid reports whether mode is one of the known modes.
func (mode Mode) Valid() bool {
	switch mode {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return true
	}
	return false
}

// Title is a human readable label for the mode.
func (mode Mode) Title() string {
	switch mode {
	case ModeShortBreak:
		return "Short break"
	case ModeLongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}

// TimerState is the single live timer value owned by the controller.
// TargetEndTimestamp is non-nil exactly when IsRunning && !IsPaused.
type TimerState struct {
	Mode                 Mode
	TimeRemainingSeconds int
	IsRunning            bool
	IsPaused             bool
	TargetEndTimestamp   *int64

	// DurationSeconds is the full length of the current interval.
	DurationSeconds int
	// IntervalStartedAt is the epoch-ms instant the current interval was
	// first started, kept across pauses.
	IntervalStartedAt *int64

	TotalWorkedSeconds      int
	CompletedFocusCount     int
	AwaitingAcknowledgement bool
	DayKey                  string
}

// DefaultState returns a fresh, idle focus state for dayKey.
func DefaultState(config TimerConfig, dayKey string) TimerState {
	duration := config.DurationSeconds(ModeFocus)
	return TimerState{
		Mode:                 ModeFocus,
		TimeRemainingSeconds: duration,
		DurationSeconds:      duration,
		DayKey:               dayKey,
	}
}

// Counting reports whether the timer is actively counting down.
func (state TimerState) Counting() bool {
	return state.IsRunning && !state.IsPaused
}

// ElapsedSeconds is the part of the current interval already consumed.
func (state TimerState) ElapsedSeconds() int {
	elapsed := state.DurationSeconds - state.TimeRemainingSeconds
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Clone returns a copy that shares no pointers with state.
func (state TimerState) Clone() TimerState {
	clone := state
	if state.TargetEndTimestamp != nil {
		target := *state.TargetEndTimestamp
		clone.TargetEndTimestamp = &target
	}
	if state.IntervalStartedAt != nil {
		started := *state.IntervalStartedAt
		clone.IntervalStartedAt = &started
	}
	return clone
}

// DayKey returns the local calendar date of instant in loc.
func DayKey(instant time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return instant.In(loc).Format(time.DateOnly)
}

// Millis returns a pointer to the epoch-ms value of instant.
func Millis(instant time.Time) *int64 {
	value := instant.UnixMilli()
	return &value
}
