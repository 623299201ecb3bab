package platform

import (
	"errors"

	"fyne.io/fyne/v2"
)

// ErrNoHost is returned when no fyne application backs the host.
var ErrNoHost = errors.New("no host application")

// Host adapts a fyne application to the facilities the timer controller
// consumes: the foreground-regained signal and user notifications.
type Host struct {
	app fyne.App
}

// NewHost wraps app.
func NewHost(app fyne.App) *Host {
	return &Host{app: app}
}

// OnForeground registers callback for every return to the foreground.
func (host *Host) OnForeground(callback func()) {
	if host.app == nil {
		return
	}
	host.app.Lifecycle().SetOnEnteredForeground(callback)
}

// Notify queues a desktop notification on the fyne main goroutine.
func (host *Host) Notify(title, body string) error {
	if host.app == nil {
		return ErrNoHost
	}
	notification := fyne.NewNotification(title, body)
	fyne.Do(func() {
		host.app.SendNotification(notification)
	})
	return nil
}
