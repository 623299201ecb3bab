package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/pflag"

	"focuskeeper/internal/clock"
	"focuskeeper/internal/core/controller"
	"focuskeeper/internal/core/model"
	"focuskeeper/internal/platform"
	"focuskeeper/internal/sessions"
	"focuskeeper/internal/storage"
	"focuskeeper/internal/ui/preferences"
	"focuskeeper/internal/ui/tray"
)

const appName = "FocusKeeper"

type options struct {
	configDir    string
	stateBackend string
	logLevel     string
}

func main() {
	opts := parseFlags()
	logger := newLogger(opts.logLevel)

	if err := run(opts, logger); err != nil {
		logger.Error("focuskeeper exited", "error", err)
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options
	pflag.StringVar(&opts.configDir, "config-dir", "", "directory for settings, timer state and session history (default: user config dir)")
	pflag.StringVar(&opts.stateBackend, "state-backend", "file", "timer state storage: file or preferences")
	pflag.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pflag.Parse()
	return opts
}

func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		slogLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))
}

func run(opts options, logger *slog.Logger) error {
	configDir := opts.configDir
	if configDir == "" {
		resolved, err := storage.ResolveConfigDir(appName)
		if err != nil {
			return err
		}
		configDir = resolved
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	guard, err := platform.AcquireSingleInstance(configDir)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info("another instance owns this config directory", "dir", configDir)
			return nil
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(configDir)
	if err != nil {
		logger.Warn("using default settings", "error", err)
	}

	fyneApp := app.NewWithID("com.focuskeeper.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("FocusKeeper is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	stateStore, err := openStateStore(opts.stateBackend, configDir, fyneApp)
	if err != nil {
		return err
	}

	sessionStore, err := sessions.Open(filepath.Join(configDir, "sessions.db"))
	if err != nil {
		return err
	}
	defer sessionStore.Close()

	host := platform.NewHost(fyneApp)
	timer, err := controller.New(controller.Options{
		Clock:    clock.Real(),
		Store:    stateStore,
		Sink:     sessionStore,
		Notifier: host,
		Config:   settings.TimerConfig(),
		Logger:   logger.With("component", "controller"),
	})
	if err != nil {
		return err
	}
	defer timer.Close()

	if err := timer.Load(); err != nil {
		logger.Warn("timer state could not be restored", "error", err)
	}
	host.OnForeground(timer.Reconcile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := storage.WatchSettings(ctx, configDir, logger.With("component", "settings"), func(updated preferences.Settings) {
			timer.UpdateConfig(updated.TimerConfig())
		})
		if err != nil {
			logger.Warn("settings hot reload disabled", "error", err)
		}
	}()

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnToggleRun: func() {
			state := timer.State()
			switch {
			case state.IsPaused:
				timer.Resume()
			case state.IsRunning:
				timer.Pause()
			default:
				timer.Start()
			}
		},
		OnReset: timer.Reset,
		OnFinishEarly: func() {
			if _, err := timer.FinishEarly(); err != nil {
				logger.Info("finish early rejected", "error", err)
				_ = host.Notify("Keep going", err.Error())
			}
		},
		OnSwitchMode: func(mode model.Mode) {
			if err := timer.SwitchMode(mode); err != nil {
				logger.Warn("switch mode", "error", err)
			}
		},
		OnQuit: func() {
			fyneApp.Quit()
		},
	})
	trayManager.SetState(timer.State())

	events := timer.Subscribe(16)
	go func() {
		for event := range events {
			state := event.State
			fyne.Do(func() {
				trayManager.SetState(state)
			})
		}
	}()

	fyneApp.Run()
	return nil
}

func openStateStore(backend, configDir string, fyneApp fyne.App) (controller.StateStore, error) {
	switch backend {
	case "file", "":
		return storage.NewFileStateStore(configDir)
	case "preferences":
		return storage.NewPreferencesStateStore(fyneApp.Preferences()), nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", backend)
	}
}
