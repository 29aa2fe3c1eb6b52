package models

import "time"

// Subscription statuses as mirrored from the billing provider.
const (
	SubStatusActive            = "active"
	SubStatusTrialing          = "trialing"
	SubStatusPastDue           = "past_due"
	SubStatusPaused            = "paused"
	SubStatusCanceled          = "canceled"
	SubStatusIncompleteExpired = "incomplete_expired"
)

// Subscription is a read model of the billing provider's record, kept in
// sync by the provider's webhook. Billing itself lives outside this service.
type Subscription struct {
	ID               uint64     `gorm:"primaryKey;autoIncrement"`
	UserID           string     `gorm:"type:text;not null;index"`
	ProviderRef      string     `gorm:"type:text;uniqueIndex"`
	Status           string     `gorm:"type:varchar(32);not null"`
	CurrentPeriodEnd *time.Time `gorm:"type:timestamptz"`
	TrialEnd         *time.Time `gorm:"type:timestamptz"`
	CreatedAt        time.Time  `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt        time.Time  `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
