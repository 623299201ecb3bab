package controller

import (
	"time"

	"focuskeeper/internal/core/model"
)

// EventType defines the type of controller event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventTick        EventType = "tick"
	EventCompleted   EventType = "completed"
)

// Event represents a controller update for observers. For EventCompleted,
// Finished is the mode that just ended and State is already in the next mode.
type Event struct {
	Type     EventType
	State    model.TimerState
	Finished model.Mode
	At       time.Time
}
