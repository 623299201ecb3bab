package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"focuskeeper/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggleRun   func()
	OnReset       func()
	OnFinishEarly func()
	OnSwitchMode  func(model.Mode)
	OnQuit        func()
}

// Manager handles system tray state. Its methods must run on the fyne main
// goroutine.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	totalsItem  *fyne.MenuItem
	runItem     *fyne.MenuItem
	resetItem   *fyne.MenuItem
	finishItem  *fyne.MenuItem
	modeItem    *fyne.MenuItem
	callbacks   Callbacks
	counting    bool
	initialized bool
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true
	manager.totalsItem = fyne.NewMenuItem(TotalsLine(model.TimerState{}), nil)
	manager.totalsItem.Disabled = true

	manager.runItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggleRun != nil {
			manager.callbacks.OnToggleRun()
		}
	})
	manager.resetItem = fyne.NewMenuItem("Reset", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})
	manager.finishItem = fyne.NewMenuItem("Finish focus early", func() {
		if manager.callbacks.OnFinishEarly != nil {
			manager.callbacks.OnFinishEarly()
		}
	})

	manager.modeItem = fyne.NewMenuItem("Switch to...", nil)
	manager.modeItem.ChildMenu = fyne.NewMenu("",
		manager.modeEntry(model.ModeFocus),
		manager.modeEntry(model.ModeShortBreak),
		manager.modeEntry(model.ModeLongBreak),
	)

	manager.refreshMenu()
	return manager
}

// SetState updates labels and enabled items from the timer state.
func (manager *Manager) SetState(state model.TimerState) {
	manager.statusItem.Label = StatusLine(state)
	manager.totalsItem.Label = TotalsLine(state)
	manager.runItem.Label = RunLabel(state)
	manager.resetItem.Disabled = !state.IsRunning
	manager.finishItem.Disabled = state.Mode != model.ModeFocus || !state.IsRunning

	counting := state.Counting()
	if manager.app != nil && (!manager.initialized || counting != manager.counting) {
		if counting {
			manager.app.SetSystemTrayIcon(theme.MediaPlayIcon())
		} else {
			manager.app.SetSystemTrayIcon(theme.MediaPauseIcon())
		}
	}
	manager.counting = counting
	manager.initialized = true
	manager.refreshMenu()
}

func (manager *Manager) modeEntry(mode model.Mode) *fyne.MenuItem {
	return fyne.NewMenuItem(mode.Title(), func() {
		if manager.callbacks.OnSwitchMode != nil {
			manager.callbacks.OnSwitchMode(mode)
		}
	})
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("FocusKeeper",
		manager.statusItem,
		manager.totalsItem,
		fyne.NewMenuItemSeparator(),
		manager.runItem,
		manager.resetItem,
		manager.finishItem,
		manager.modeItem,
		fyne.NewMenuItemSeparator(),
		manager.quitItem(),
	))
}

// quitItem replaces the quit entry fyne would otherwise append.
func (manager *Manager) quitItem() *fyne.MenuItem {
	item := fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	item.IsQuit = true
	return item
}

// StatusLine renders the mode and remaining time for the tray.
func StatusLine(state model.TimerState) string {
	status := fmt.Sprintf("%s %s", state.Mode.Title(), FormatRemaining(state.TimeRemainingSeconds))
	switch {
	case state.IsPaused:
		status += " (paused)"
	case state.AwaitingAcknowledgement:
		status += " (ready)"
	}
	return "Status: " + status
}

// TotalsLine renders today's counters.
func TotalsLine(state model.TimerState) string {
	return fmt.Sprintf("Today: %d focus, %s worked", state.CompletedFocusCount, FormatWorked(state.TotalWorkedSeconds))
}

// RunLabel names the action the run item performs next.
func RunLabel(state model.TimerState) string {
	switch {
	case state.IsPaused:
		return "Resume"
	case state.IsRunning:
		return "Pause"
	default:
		return "Start"
	}
}

// FormatRemaining renders seconds as MM:SS.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatWorked renders seconds as a short hours/minutes string.
func FormatWorked(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := seconds % 3600 / 60
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}
