package models

import "time"

const settingsRowID = 1

// Settings is a single-row table created with defaults on first read.
type Settings struct {
	ID                   uint      `gorm:"primaryKey" json:"-"`
	Timezone             string    `gorm:"not null;default:UTC" json:"timezone"`
	Use24HourClock       bool      `gorm:"column:use_24_hour_clock;not null;default:false" json:"use_24h_clock"`
	NotificationsEnabled bool      `gorm:"not null;default:false" json:"notifications_enabled"`
	AIEnabled            bool      `gorm:"not null;default:false" json:"ai_enabled"`
	Theme                string    `gorm:"not null;default:system" json:"theme"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:       settingsRowID,
		Timezone: "UTC",
		Theme:    "system",
	}
}
