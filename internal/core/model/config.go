package model

import "time"

// TimerConfig contains the durations and policies the controller reads at
// start and mode-switch time.
type TimerConfig struct {
	Focus      time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration

	// LongBreakInterval is the number of completed focus intervals between
	// long breaks.
	LongBreakInterval int

	AutoStartBreaks bool
	AutoStartFocus  bool

	NotificationsEnabled bool
}

// DefaultLongBreakInterval is used when a config carries a non-positive interval.
const DefaultLongBreakInterval = 4

// DurationSeconds returns the configured length of mode in whole seconds.
func (config TimerConfig) DurationSeconds(mode Mode) int {
	var duration time.Duration
	switch mode {
	case ModeShortBreak:
		duration = config.ShortBreak
	case ModeLongBreak:
		duration = config.LongBreak
	default:
		duration = config.Focus
	}
	if duration < time.Second {
		return 1
	}
	return int(duration / time.Second)
}

// NextMode returns the mode that follows a completed interval of mode, given
// the focus count after the completion has been counted.
func (config TimerConfig) NextMode(mode Mode, completedFocusCount int) Mode {
	if mode != ModeFocus {
		return ModeFocus
	}
	interval := config.LongBreakInterval
	if interval <= 0 {
		interval = DefaultLongBreakInterval
	}
	if completedFocusCount > 0 && completedFocusCount%interval == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

// AutoStart reports whether the transition into next starts counting at once.
func (config TimerConfig) AutoStart(next Mode) bool {
	if next == ModeFocus {
		return config.AutoStartFocus
	}
	return config.AutoStartBreaks
}
