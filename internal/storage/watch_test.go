package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focuskeeper/internal/ui/preferences"
)

func TestWatchSettings_ReloadsOnSave(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan preferences.Settings, 4)
	watchErr := make(chan error, 1)
	ready := make(chan struct{})
	go func() {
		close(ready)
		watchErr <- WatchSettings(ctx, dir, nil, func(settings preferences.Settings) {
			changes <- settings
		})
	}()
	<-ready

	settings := preferences.DefaultSettings()
	settings.FocusDuration = 45 * time.Minute

	// The watcher registers asynchronously; keep saving until it reports.
	deadline := time.After(5 * time.Second)
	for {
		require.NoError(t, SaveSettings(dir, settings))
		select {
		case got := <-changes:
			assert.Equal(t, 45*time.Minute, got.FocusDuration)
			cancel()
			require.NoError(t, <-watchErr)
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("settings change was not observed")
		}
	}
}

func TestWatchSettings_MissingDir(t *testing.T) {
	err := WatchSettings(context.Background(), "/nonexistent/focuskeeper", nil, func(preferences.Settings) {})
	require.Error(t, err)
}
