// Package sessions records finished focus intervals in SQLite.
//
// Store implements the controller's SessionSink. Writes are idempotent on
// the interval ID, so a retried Record never produces a duplicate row.
// Reads serve day summaries: DayTotals and ListDay.
package sessions
