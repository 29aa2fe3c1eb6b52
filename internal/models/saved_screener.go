package models

import (
	"time"

	"gorm.io/datatypes"
)

type AlertFrequency string

const (
	AlertDaily   AlertFrequency = "daily"
	AlertWeekly  AlertFrequency = "weekly"
	AlertMonthly AlertFrequency = "monthly"
)

func (f AlertFrequency) Valid() bool {
	return f == AlertDaily || f == AlertWeekly || f == AlertMonthly
}

// SavedScreener is a named filter preset. Uniqueness is (user, option type,
// name); a call preset and a put preset may share a name.
type SavedScreener struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement"`
	UserID     string         `gorm:"type:text;not null;uniqueIndex:idx_saved_screeners_owner,priority:1"`
	OptionType string         `gorm:"type:varchar(8);not null;uniqueIndex:idx_saved_screeners_owner,priority:2"`
	Name       string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_saved_screeners_owner,priority:3"`
	Filters    datatypes.JSON `gorm:"type:jsonb;not null"`

	EmailEnabled   bool           `gorm:"not null;default:false"`
	Email          string         `gorm:"type:text"`
	Frequency      AlertFrequency `gorm:"type:varchar(16)"`
	LastNotifiedAt *time.Time     `gorm:"type:timestamptz"`

	IsDefault bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (SavedScreener) TableName() string {
	return "saved_screeners"
}
