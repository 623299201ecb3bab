package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"focuskeeper/internal/core/model"
)

// Record inserts a finished interval. An empty ID is filled with a UUIDv7;
// an ID that already exists is silently ignored.
func (s *Store) Record(ctx context.Context, interval model.Interval) error {
	if !interval.Mode.Valid() {
		return fmt.Errorf("record interval: invalid mode %q", interval.Mode)
	}
	if interval.DurationSeconds < 0 {
		return errors.New("record interval: negative duration")
	}
	if interval.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("record interval: generate id: %w", err)
		}
		interval.ID = id.String()
	}
	dayKey := interval.DayKey
	if dayKey == "" {
		dayKey = model.DayKey(interval.EndedAt, nil)
	}

	metadata := interval.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("record interval: marshal metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO intervals
		(id, mode, duration_seconds, duration_minutes, started_at, ended_at, day_key, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		interval.ID,
		string(interval.Mode),
		interval.DurationSeconds,
		interval.DurationMinutes(),
		interval.StartedAt.UnixMilli(),
		interval.EndedAt.UnixMilli(),
		dayKey,
		string(metadataJSON),
	)
	if err != nil {
		return fmt.Errorf("record interval: %w", err)
	}
	return nil
}
