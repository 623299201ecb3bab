package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"focuskeeper/internal/core/model"
)

const stateFileName = "timer-state.yaml"

// stateRecord is the persisted snapshot layout shared by every StateStore.
type stateRecord struct {
	DayKey                  string `yaml:"day_key"`
	Mode                    string `yaml:"mode"`
	TimeRemainingSeconds    int    `yaml:"time_remaining_seconds"`
	DurationSeconds         int    `yaml:"duration_seconds"`
	IsRunning               bool   `yaml:"is_running"`
	IsPaused                bool   `yaml:"is_paused"`
	TargetEndTimestamp      *int64 `yaml:"target_end_timestamp"`
	IntervalStartedAt       *int64 `yaml:"interval_started_at"`
	TotalWorkedSeconds      int    `yaml:"total_worked_seconds"`
	CompletedFocusCount     int    `yaml:"completed_focus_count"`
	AwaitingAcknowledgement bool   `yaml:"awaiting_acknowledgement"`
}

func encodeState(state model.TimerState) ([]byte, error) {
	record := stateRecord{
		DayKey:                  state.DayKey,
		Mode:                    string(state.Mode),
		TimeRemainingSeconds:    state.TimeRemainingSeconds,
		DurationSeconds:         state.DurationSeconds,
		IsRunning:               state.IsRunning,
		IsPaused:                state.IsPaused,
		TargetEndTimestamp:      state.TargetEndTimestamp,
		IntervalStartedAt:       state.IntervalStartedAt,
		TotalWorkedSeconds:      state.TotalWorkedSeconds,
		CompletedFocusCount:     state.CompletedFocusCount,
		AwaitingAcknowledgement: state.AwaitingAcknowledgement,
	}
	serialized, err := yaml.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal timer state: %w", err)
	}
	return serialized, nil
}

func decodeState(rawData []byte) (model.TimerState, error) {
	var record stateRecord
	if err := yaml.Unmarshal(rawData, &record); err != nil {
		return model.TimerState{}, fmt.Errorf("parse timer state: %w", err)
	}
	if record.DayKey == "" {
		return model.TimerState{}, errors.New("parse timer state: missing day_key")
	}
	return model.TimerState{
		Mode:                    model.Mode(record.Mode),
		TimeRemainingSeconds:    record.TimeRemainingSeconds,
		DurationSeconds:         record.DurationSeconds,
		IsRunning:               record.IsRunning,
		IsPaused:                record.IsPaused,
		TargetEndTimestamp:      record.TargetEndTimestamp,
		IntervalStartedAt:       record.IntervalStartedAt,
		TotalWorkedSeconds:      record.TotalWorkedSeconds,
		CompletedFocusCount:     record.CompletedFocusCount,
		AwaitingAcknowledgement: record.AwaitingAcknowledgement,
		DayKey:                  record.DayKey,
	}, nil
}

// FileStateStore keeps the timer snapshot in a YAML file. Saves replace the
// file atomically; the last write wins.
type FileStateStore struct {
	path string
}

// NewFileStateStore returns a store writing timer-state.yaml under dataDir.
func NewFileStateStore(dataDir string) (*FileStateStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileStateStore{path: filepath.Join(dataDir, stateFileName)}, nil
}

// Path returns the snapshot file location.
func (store *FileStateStore) Path() string {
	return store.path
}

// Load reads the snapshot. found is false when no snapshot was saved yet.
func (store *FileStateStore) Load() (model.TimerState, bool, error) {
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.TimerState{}, false, nil
		}
		return model.TimerState{}, false, fmt.Errorf("read timer state: %w", err)
	}
	state, err := decodeState(rawData)
	if err != nil {
		return model.TimerState{}, false, err
	}
	return state, true, nil
}

// Save replaces the snapshot with state.
func (store *FileStateStore) Save(state model.TimerState) error {
	serialized, err := encodeState(state)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(store.path, serialized); err != nil {
		return fmt.Errorf("write timer state: %w", err)
	}
	return nil
}
