package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"screener/internal/models"
	"screener/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- saved screeners --------------------------------------------------------

func (s *Store) InsertSavedScreener(ctx context.Context, item *models.SavedScreener) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateSavedScreener(ctx context.Context, item *models.SavedScreener) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteSavedScreener(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.SavedScreener{}, id).Error
}

func (s *Store) GetSavedScreenerByID(ctx context.Context, id uint64) (*models.SavedScreener, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.SavedScreener
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetSavedScreenerByName(ctx context.Context, userID, optionType, name string) (*models.SavedScreener, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.SavedScreener
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("option_type = ?", optionType).
		Where("name = ?", name).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSavedScreeners(ctx context.Context, params repository.ListSavedScreenersParams) ([]models.SavedScreener, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyScreenerFilters(s.db.WithContext(ctx).Model(&models.SavedScreener{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.SavedScreener
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSavedScreeners(ctx context.Context, params repository.ListSavedScreenersParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	query := applyScreenerFilters(s.db.WithContext(ctx).Model(&models.SavedScreener{}), params)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) SetScreenerNotifiedAt(ctx context.Context, id uint64, at time.Time) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.SavedScreener{}).
		Where("id = ?", id).
		Update("last_notified_at", at).Error
}

func (s *Store) ListAlertScreeners(ctx context.Context) ([]models.SavedScreener, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.SavedScreener
	if err := s.db.WithContext(ctx).
		Where("email_enabled = ?", true).
		Where("email <> ''").
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func applyScreenerFilters(query *gorm.DB, params repository.ListSavedScreenersParams) *gorm.DB {
	if params.UserID != nil && strings.TrimSpace(*params.UserID) != "" {
		query = query.Where("user_id = ?", strings.TrimSpace(*params.UserID))
	}
	if params.OptionType != nil && strings.TrimSpace(*params.OptionType) != "" {
		query = query.Where("option_type = ?", strings.TrimSpace(*params.OptionType))
	}
	return query
}

// --- alert dispatches -------------------------------------------------------

func (s *Store) InsertAlertDispatch(ctx context.Context, item *models.AlertDispatch) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// --- subscriptions ----------------------------------------------------------

func (s *Store) LatestSubscriptionByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertSubscription(ctx context.Context, item *models.Subscription) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.ProviderRef) == "" {
		return s.db.WithContext(ctx).Create(item).Error
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_ref"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"current_period_end",
			"trial_end",
			"updated_at",
		}),
	}).Create(item).Error
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	col := strings.TrimSpace(orderBy)
	if col == "" {
		col = fallback
	}
	dir := "desc"
	if asc != nil && *asc {
		dir = "asc"
	}
	return query.Order(col + " " + dir)
}

func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
