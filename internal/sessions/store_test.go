package sessions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focuskeeper/internal/core/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func focusInterval(day string, start time.Time, seconds int) model.Interval {
	return model.Interval{
		Mode:            model.ModeFocus,
		DurationSeconds: seconds,
		StartedAt:       start,
		EndedAt:         start.Add(time.Duration(seconds) * time.Second),
		DayKey:          day,
		Metadata:        map[string]string{"source": model.SourceCompleted},
	}
}

func TestOpen_CreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	for i := 0; i < 3; i++ {
		store, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, store.Close())
	}
}

func TestRecord_AssignsUUIDv7(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, focusInterval("2026-03-02", start, 1500)))

	intervals, err := store.ListDay(ctx, "2026-03-02")
	require.NoError(t, err)
	require.Len(t, intervals, 1)

	parsed, err := uuid.Parse(intervals[0].ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.True(t, intervals[0].StartedAt.Equal(start))
	assert.Equal(t, 25, intervals[0].DurationMinutes())
	assert.Equal(t, model.SourceCompleted, intervals[0].Metadata["source"])
}

func TestRecord_DuplicateIDIgnored(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	interval := focusInterval("2026-03-02", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 600)
	interval.ID = "fixed-id"

	require.NoError(t, store.Record(ctx, interval))
	require.NoError(t, store.Record(ctx, interval))

	totals, err := store.DayTotals(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 1, totals.Intervals)
}

func TestRecord_RejectsInvalid(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	bad := focusInterval("2026-03-02", time.Now(), 60)
	bad.Mode = "nap"
	require.Error(t, store.Record(ctx, bad))

	negative := focusInterval("2026-03-02", time.Now(), 60)
	negative.DurationSeconds = -1
	require.Error(t, store.Record(ctx, negative))
}

func TestDayTotals(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	morning := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, focusInterval("2026-03-02", morning, 1500)))
	require.NoError(t, store.Record(ctx, focusInterval("2026-03-02", morning.Add(time.Hour), 300)))
	require.NoError(t, store.Record(ctx, focusInterval("2026-03-03", morning.Add(24*time.Hour), 1500)))

	totals, err := store.DayTotals(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, Totals{DayKey: "2026-03-02", Intervals: 2, FocusedSeconds: 1800}, totals)

	empty, err := store.DayTotals(ctx, "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Intervals)
	assert.Equal(t, 0, empty.FocusedSeconds)
}

func TestListDay_OrderedByEnd(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	morning := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, focusInterval("2026-03-02", morning.Add(2*time.Hour), 60)))
	require.NoError(t, store.Record(ctx, focusInterval("2026-03-02", morning, 120)))

	intervals, err := store.ListDay(ctx, "2026-03-02")
	require.NoError(t, err)
	require.Len(t, intervals, 2)
	assert.Equal(t, 120, intervals[0].DurationSeconds)
	assert.Equal(t, 60, intervals[1].DurationSeconds)
}
