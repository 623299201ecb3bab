package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focuskeeper/internal/ui/preferences"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	FocusMinutes         int   `yaml:"focus_minutes"`
	ShortBreakMinutes    int   `yaml:"short_break_minutes"`
	LongBreakMinutes     int   `yaml:"long_break_minutes"`
	LongBreakInterval    int   `yaml:"long_break_interval"`
	AutoStartBreaks      bool  `yaml:"auto_start_breaks"`
	AutoStartFocus       bool  `yaml:"auto_start_focus"`
	NotificationsEnabled *bool `yaml:"notifications_enabled,omitempty"`
}

// LoadSettings reads user preferences from settings.yaml in configDir.
// If the file does not exist, default settings are returned.
func LoadSettings(configDir string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(SettingsPath(configDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to settings.yaml in configDir.
func SaveSettings(configDir string, settings preferences.Settings) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	notifications := settings.NotificationsEnabled
	fileData := yamlSettings{
		FocusMinutes:         int(settings.FocusDuration / time.Minute),
		ShortBreakMinutes:    int(settings.ShortBreakDuration / time.Minute),
		LongBreakMinutes:     int(settings.LongBreakDuration / time.Minute),
		LongBreakInterval:    settings.LongBreakInterval,
		AutoStartBreaks:      settings.AutoStartBreaks,
		AutoStartFocus:       settings.AutoStartFocus,
		NotificationsEnabled: &notifications,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := writeFileAtomic(SettingsPath(configDir), serialized); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsPath returns the settings file location inside configDir.
func SettingsPath(configDir string) string {
	return filepath.Join(configDir, settingsFileName)
}

// ResolveConfigDir returns the per-user configuration directory for appName.
func ResolveConfigDir(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.FocusMinutes > 0 {
		settings.FocusDuration = time.Duration(fileData.FocusMinutes) * time.Minute
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreakDuration = time.Duration(fileData.ShortBreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreakDuration = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	if fileData.LongBreakInterval > 0 {
		settings.LongBreakInterval = fileData.LongBreakInterval
	}
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}

	settings.AutoStartBreaks = fileData.AutoStartBreaks
	settings.AutoStartFocus = fileData.AutoStartFocus
}

// writeFileAtomic replaces path with data so a crash never leaves a
// half-written file behind.
func writeFileAtomic(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tempPath := temp.Name()
	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return err
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}
	if err := os.Chmod(tempPath, 0o644); err != nil {
		os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, path)
}
