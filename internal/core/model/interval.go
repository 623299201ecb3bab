package model

import "time"

// Interval sources recorded in Interval.Metadata["source"].
const (
	SourceCompleted          = "completed"
	SourceFinishedEarly      = "finished_early"
	SourceCompletedWhileAway = "completed_while_away"
)

// Interval is a finished focus period handed to the session sink.
type Interval struct {
	ID              string
	Mode            Mode
	DurationSeconds int
	StartedAt       time.Time
	EndedAt         time.Time
	DayKey          string
	Metadata        map[string]string
}

// DurationMinutes returns the whole minutes covered by the interval.
func (interval Interval) DurationMinutes() int {
	return interval.DurationSeconds / 60
}
