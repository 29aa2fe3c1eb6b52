package service

import (
	"context"
	"sort"
	"time"

	"screener/internal/models"
	"screener/internal/repository"
)

// stubRepo is an in-memory Repository for service tests.
type stubRepo struct {
	nextID     uint64
	screeners  map[uint64]*models.SavedScreener
	subs       map[string]*models.Subscription
	dispatches []models.AlertDispatch
	subErr     error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		nextID:    1,
		screeners: map[uint64]*models.SavedScreener{},
		subs:      map[string]*models.Subscription{},
	}
}

func (r *stubRepo) InsertSavedScreener(ctx context.Context, item *models.SavedScreener) error {
	item.ID = r.nextID
	r.nextID++
	item.CreatedAt = time.Now().UTC()
	item.UpdatedAt = item.CreatedAt
	cp := *item
	r.screeners[item.ID] = &cp
	return nil
}

func (r *stubRepo) UpdateSavedScreener(ctx context.Context, item *models.SavedScreener) error {
	item.UpdatedAt = time.Now().UTC()
	cp := *item
	r.screeners[item.ID] = &cp
	return nil
}

func (r *stubRepo) DeleteSavedScreener(ctx context.Context, id uint64) error {
	delete(r.screeners, id)
	return nil
}

func (r *stubRepo) GetSavedScreenerByID(ctx context.Context, id uint64) (*models.SavedScreener, error) {
	item, ok := r.screeners[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *stubRepo) GetSavedScreenerByName(ctx context.Context, userID, optionType, name string) (*models.SavedScreener, error) {
	for _, item := range r.screeners {
		if item.UserID == userID && item.OptionType == optionType && item.Name == name {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListSavedScreeners(ctx context.Context, params repository.ListSavedScreenersParams) ([]models.SavedScreener, error) {
	var out []models.SavedScreener
	for _, item := range r.screeners {
		if params.UserID != nil && item.UserID != *params.UserID {
			continue
		}
		if params.OptionType != nil && item.OptionType != *params.OptionType {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) CountSavedScreeners(ctx context.Context, params repository.ListSavedScreenersParams) (int64, error) {
	items, _ := r.ListSavedScreeners(ctx, params)
	return int64(len(items)), nil
}

func (r *stubRepo) SetScreenerNotifiedAt(ctx context.Context, id uint64, at time.Time) error {
	if item, ok := r.screeners[id]; ok {
		item.LastNotifiedAt = &at
	}
	return nil
}

func (r *stubRepo) ListAlertScreeners(ctx context.Context) ([]models.SavedScreener, error) {
	var out []models.SavedScreener
	for _, item := range r.screeners {
		if item.EmailEnabled && item.Email != "" {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) InsertAlertDispatch(ctx context.Context, item *models.AlertDispatch) error {
	r.dispatches = append(r.dispatches, *item)
	return nil
}

func (r *stubRepo) LatestSubscriptionByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	if r.subErr != nil {
		return nil, r.subErr
	}
	return r.subs[userID], nil
}

func (r *stubRepo) UpsertSubscription(ctx context.Context, item *models.Subscription) error {
	cp := *item
	r.subs[item.UserID] = &cp
	return nil
}
