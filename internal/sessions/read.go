package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"focuskeeper/internal/core/model"
)

// Totals summarizes one day of recorded focus.
type Totals struct {
	DayKey         string
	Intervals      int
	FocusedSeconds int
}

// DayTotals returns the number of intervals and focused seconds for dayKey.
func (s *Store) DayTotals(ctx context.Context, dayKey string) (Totals, error) {
	totals := Totals{DayKey: dayKey}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0)
		FROM intervals
		WHERE day_key = ?
	`, dayKey).Scan(&totals.Intervals, &totals.FocusedSeconds)
	if err != nil {
		return Totals{}, fmt.Errorf("day totals: %w", err)
	}
	return totals, nil
}

// ListDay returns the intervals recorded for dayKey in the order they ended.
func (s *Store) ListDay(ctx context.Context, dayKey string) ([]model.Interval, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, duration_seconds, started_at, ended_at, day_key, metadata
		FROM intervals
		WHERE day_key = ?
		ORDER BY ended_at, id
	`, dayKey)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}
	defer rows.Close()

	var intervals []model.Interval
	for rows.Next() {
		var (
			interval     model.Interval
			mode         string
			startedAt    int64
			endedAt      int64
			metadataJSON string
		)
		if err := rows.Scan(&interval.ID, &mode, &interval.DurationSeconds, &startedAt, &endedAt, &interval.DayKey, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		interval.Mode = model.Mode(mode)
		interval.StartedAt = time.UnixMilli(startedAt)
		interval.EndedAt = time.UnixMilli(endedAt)
		if err := json.Unmarshal([]byte(metadataJSON), &interval.Metadata); err != nil {
			return nil, fmt.Errorf("decode interval metadata: %w", err)
		}
		intervals = append(intervals, interval)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}
	return intervals, nil
}
