package preferences

import (
	"time"

	"focuskeeper/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	FocusDuration      time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	LongBreakInterval  int

	AutoStartBreaks bool
	AutoStartFocus  bool

	NotificationsEnabled bool
}

// DefaultSettings returns default settings for FocusKeeper.
func DefaultSettings() Settings {
	return Settings{
		FocusDuration:        25 * time.Minute,
		ShortBreakDuration:   5 * time.Minute,
		LongBreakDuration:    15 * time.Minute,
		LongBreakInterval:    model.DefaultLongBreakInterval,
		AutoStartBreaks:      false,
		AutoStartFocus:       false,
		NotificationsEnabled: true,
	}
}

// TimerConfig converts settings to TimerConfig.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		Focus:                settings.FocusDuration,
		ShortBreak:           settings.ShortBreakDuration,
		LongBreak:            settings.LongBreakDuration,
		LongBreakInterval:    settings.LongBreakInterval,
		AutoStartBreaks:      settings.AutoStartBreaks,
		AutoStartFocus:       settings.AutoStartFocus,
		NotificationsEnabled: settings.NotificationsEnabled,
	}
}
