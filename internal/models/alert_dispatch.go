package models

import "time"

// AlertDispatch records one sent (or failed) screener alert email.
type AlertDispatch struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ScreenerID uint64    `gorm:"not null;index"`
	Recipient  string    `gorm:"type:text;not null"`
	RowCount   int       `gorm:"not null"`
	Status     string    `gorm:"type:varchar(16);not null"`
	Error      string    `gorm:"type:text"`
	SentAt     time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (AlertDispatch) TableName() string {
	return "alert_dispatches"
}
