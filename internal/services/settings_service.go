package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medcompanion/medcompanion/internal/models"
)

var (
	ErrInvalidTimezone     = errors.New("invalid timezone")
	ErrInvalidTheme        = errors.New("invalid theme")
	ErrSettingsSaveFailed  = errors.New("save settings failed")
	ErrSettingsLoadFailed  = errors.New("load settings failed")
	validSettingsThemeList = []string{"system", "light", "dark"}
)

type SettingsRepository interface {
	Load() (models.Settings, error)
	Save(settings *models.Settings) error
}

type SettingsService struct {
	settings SettingsRepository
}

type SettingsInput struct {
	Timezone             string `json:"timezone"`
	Use24HourClock       bool   `json:"use_24h_clock"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	AIEnabled            bool   `json:"ai_enabled"`
	Theme                string `json:"theme"`
}

func NewSettingsService(settings SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

func (service *SettingsService) Load() (models.Settings, error) {
	settings, err := service.settings.Load()
	if err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrSettingsLoadFailed, err)
	}
	return settings, nil
}

func (service *SettingsService) Update(input SettingsInput) (models.Settings, error) {
	timezone := strings.TrimSpace(input.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return models.Settings{}, ErrInvalidTimezone
	}

	theme := strings.TrimSpace(input.Theme)
	if theme == "" {
		theme = "system"
	}
	if !isValidTheme(theme) {
		return models.Settings{}, ErrInvalidTheme
	}

	settings, err := service.settings.Load()
	if err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrSettingsLoadFailed, err)
	}

	settings.Timezone = timezone
	settings.Use24HourClock = input.Use24HourClock
	settings.NotificationsEnabled = input.NotificationsEnabled
	settings.AIEnabled = input.AIEnabled
	settings.Theme = theme

	if err := service.settings.Save(&settings); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrSettingsSaveFailed, err)
	}
	return settings, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (service *SettingsService) Location() *time.Location {
	settings, err := service.settings.Load()
	if err != nil {
		return time.UTC
	}
	location, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func isValidTheme(theme string) bool {
	for _, candidate := range validSettingsThemeList {
		if theme == candidate {
			return true
		}
	}
	return false
}
