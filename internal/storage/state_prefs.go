package storage

import (
	"fyne.io/fyne/v2"

	"focuskeeper/internal/core/model"
)

// PreferencesStateKey is the fyne preference holding the timer snapshot.
const PreferencesStateKey = "timer_state"

// PreferencesStateStore keeps the timer snapshot in the fyne application
// preferences, which are read synchronously and flushed by fyne.
type PreferencesStateStore struct {
	prefs fyne.Preferences
}

// NewPreferencesStateStore wraps prefs, usually fyne.App.Preferences().
func NewPreferencesStateStore(prefs fyne.Preferences) *PreferencesStateStore {
	return &PreferencesStateStore{prefs: prefs}
}

// Load reads the snapshot. found is false when the key is unset.
func (store *PreferencesStateStore) Load() (model.TimerState, bool, error) {
	raw := store.prefs.String(PreferencesStateKey)
	if raw == "" {
		return model.TimerState{}, false, nil
	}
	state, err := decodeState([]byte(raw))
	if err != nil {
		return model.TimerState{}, false, err
	}
	return state, true, nil
}

// Save replaces the snapshot with state.
func (store *PreferencesStateStore) Save(state model.TimerState) error {
	serialized, err := encodeState(state)
	if err != nil {
		return err
	}
	store.prefs.SetString(PreferencesStateKey, string(serialized))
	return nil
}

// Clear removes the snapshot.
func (store *PreferencesStateStore) Clear() {
	store.prefs.RemoveValue(PreferencesStateKey)
}
