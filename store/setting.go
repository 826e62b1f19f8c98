package store

import (
	"context"
)

// Setting is a flat key-value entry in the settings partition. Values
// holding structure (e.g. the learning streak) are JSON strings.
type Setting struct {
	Name  string
	Value string
}

// FindSetting is the find condition for settings.
type FindSetting struct {
	Name *string
}

// Well-known setting names.
const (
	SettingKeyTheme         = "theme"
	SettingKeyDailyReminder = "daily-reminder"
	SettingKeyAudioEnabled  = "audio-enabled"
	SettingKeyStreak        = "streak"
	SettingKeyWeeklyGoal    = "weekly-goal"
	SettingKeyMonthlyGoal   = "monthly-goal"
	SettingKeyGamification  = "gamification"
	SettingKeySchemaVersion = "schema-version"
	SettingKeyLastSync      = "last-sync"
)

// UpsertSetting creates or replaces a setting.
func (s *Store) UpsertSetting(ctx context.Context, upsert *Setting) (*Setting, error) {
	setting, err := s.driver.UpsertSetting(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.settingCache.Set(upsert.Name, setting)
	return setting, nil
}

// ListSettings lists all settings.
func (s *Store) ListSettings(ctx context.Context, find *FindSetting) ([]*Setting, error) {
	return s.driver.ListSettings(ctx, find)
}

// GetSetting gets a single setting by name. Returns nil, nil when absent.
func (s *Store) GetSetting(ctx context.Context, name string) (*Setting, error) {
	if cached, ok := s.settingCache.Get(name); ok {
		if setting, ok := cached.(*Setting); ok {
			return setting, nil
		}
	}
	list, err := s.driver.ListSettings(ctx, &FindSetting{Name: &name})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	s.settingCache.Set(name, list[0])
	return list[0], nil
}
