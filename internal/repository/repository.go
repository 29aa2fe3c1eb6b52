package repository

import (
	"context"
	"time"

	"screener/internal/models"
)

// Repository is the persistence surface for saved screeners and mirrored
// subscription records.
type Repository interface {
	InsertSavedScreener(ctx context.Context, item *models.SavedScreener) error
	UpdateSavedScreener(ctx context.Context, item *models.SavedScreener) error
	DeleteSavedScreener(ctx context.Context, id uint64) error
	GetSavedScreenerByID(ctx context.Context, id uint64) (*models.SavedScreener, error)
	GetSavedScreenerByName(ctx context.Context, userID, optionType, name string) (*models.SavedScreener, error)
	ListSavedScreeners(ctx context.Context, params ListSavedScreenersParams) ([]models.SavedScreener, error)
	CountSavedScreeners(ctx context.Context, params ListSavedScreenersParams) (int64, error)
	SetScreenerNotifiedAt(ctx context.Context, id uint64, at time.Time) error
	ListAlertScreeners(ctx context.Context) ([]models.SavedScreener, error)

	InsertAlertDispatch(ctx context.Context, item *models.AlertDispatch) error

	LatestSubscriptionByUserID(ctx context.Context, userID string) (*models.Subscription, error)
	UpsertSubscription(ctx context.Context, item *models.Subscription) error
}

type ListSavedScreenersParams struct {
	Limit      int
	Offset     int
	UserID     *string
	OptionType *string
	OrderBy    string
	Asc        *bool
}
