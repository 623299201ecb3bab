package controller

import "errors"

var (
	// ErrFinishTooEarly rejects finishing a focus interval before a minute
	// has elapsed. No state changes when it is returned.
	ErrFinishTooEarly = errors.New("at least one minute of focus is needed to finish early")

	// ErrNotFocus rejects operations only meaningful in focus mode.
	ErrNotFocus = errors.New("operation requires focus mode")

	// ErrUnknownMode rejects a switch to a mode that does not exist.
	ErrUnknownMode = errors.New("unknown timer mode")
)

// minFinishEarlySeconds is the least elapsed focus accepted by FinishEarly.
const minFinishEarlySeconds = 60
