package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"screener/internal/filter"
	"screener/internal/models"
	"screener/internal/repository"
)

var (
	// ErrOverwriteRequired means a preset with the same name already exists
	// for this user and option type; the caller must confirm before the old
	// one is replaced.
	ErrOverwriteRequired = errors.New("screener name already exists")
	// ErrDefaultPreset means the operation is not allowed on a built-in
	// preset.
	ErrDefaultPreset = errors.New("default screeners cannot be modified")
	// ErrScreenerNotFound means no preset matched the id for this user.
	ErrScreenerNotFound = errors.New("screener not found")
)

// ScreenerService manages named filter presets.
type ScreenerService struct {
	repo   repository.Repository
	logger *zap.Logger
}

func NewScreenerService(repo repository.Repository, logger *zap.Logger) *ScreenerService {
	return &ScreenerService{repo: repo, logger: logger}
}

// SavedFilters is the JSON payload persisted with each preset: the full
// filter snapshot plus the legacy strike mode, enough to re-run the screen.
type SavedFilters struct {
	State      filter.State      `json:"state"`
	Sort       *filter.Sort      `json:"sort,omitempty"`
	StrikeMode filter.StrikeMode `json:"strikeMode,omitempty"`
}

type SaveScreenerParams struct {
	UserID  string
	Name    string
	Filters SavedFilters

	// ConfirmOverwrite replaces an existing preset of the same name instead
	// of failing.
	ConfirmOverwrite bool

	EmailEnabled bool
	Email        string
	Frequency    models.AlertFrequency
}

// Save stores a preset under (user, option type, name). A name collision
// within the same option type requires explicit confirmation; the overwrite
// then keeps the original row identity and creation time.
func (s *ScreenerService) Save(ctx context.Context, params SaveScreenerParams) (*models.SavedScreener, error) {
	if params.Name == "" {
		return nil, errors.New("screener name required")
	}
	if !params.Filters.State.Type.Valid() {
		return nil, fmt.Errorf("invalid option type %q", params.Filters.State.Type)
	}
	if params.EmailEnabled {
		if params.Email == "" {
			return nil, errors.New("alert email required")
		}
		if !params.Frequency.Valid() {
			return nil, fmt.Errorf("invalid alert frequency %q", params.Frequency)
		}
	}

	raw, err := json.Marshal(params.Filters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filters: %w", err)
	}
	optionType := string(params.Filters.State.Type)

	existing, err := s.repo.GetSavedScreenerByName(ctx, params.UserID, optionType, params.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.IsDefault {
			return nil, ErrDefaultPreset
		}
		if !params.ConfirmOverwrite {
			return nil, ErrOverwriteRequired
		}
		existing.Filters = datatypes.JSON(raw)
		existing.EmailEnabled = params.EmailEnabled
		existing.Email = params.Email
		existing.Frequency = params.Frequency
		if err := s.repo.UpdateSavedScreener(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	item := &models.SavedScreener{
		UserID:       params.UserID,
		OptionType:   optionType,
		Name:         params.Name,
		Filters:      datatypes.JSON(raw),
		EmailEnabled: params.EmailEnabled,
		Email:        params.Email,
		Frequency:    params.Frequency,
	}
	if err := s.repo.InsertSavedScreener(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ScreenerService) List(ctx context.Context, userID string, optionType *string, limit, offset int) ([]models.SavedScreener, int64, error) {
	params := repository.ListSavedScreenersParams{
		Limit:      limit,
		Offset:     offset,
		UserID:     &userID,
		OptionType: optionType,
	}
	items, err := s.repo.ListSavedScreeners(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountSavedScreeners(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *ScreenerService) Get(ctx context.Context, userID string, id uint64) (*models.SavedScreener, error) {
	item, err := s.repo.GetSavedScreenerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.UserID != userID {
		return nil, ErrScreenerNotFound
	}
	return item, nil
}

type UpdateScreenerParams struct {
	EmailEnabled *bool
	Email        *string
	Frequency    *models.AlertFrequency
	Name         *string
}

// Update patches a preset in place. Built-in presets accept notification
// changes only; their name and filters are fixed.
func (s *ScreenerService) Update(ctx context.Context, userID string, id uint64, params UpdateScreenerParams) (*models.SavedScreener, error) {
	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil && *params.Name != item.Name {
		if item.IsDefault {
			return nil, ErrDefaultPreset
		}
		if *params.Name == "" {
			return nil, errors.New("screener name required")
		}
		dup, err := s.repo.GetSavedScreenerByName(ctx, userID, item.OptionType, *params.Name)
		if err != nil {
			return nil, err
		}
		if dup != nil && dup.ID != item.ID {
			return nil, ErrOverwriteRequired
		}
		item.Name = *params.Name
	}
	if params.EmailEnabled != nil {
		item.EmailEnabled = *params.EmailEnabled
	}
	if params.Email != nil {
		item.Email = *params.Email
	}
	if params.Frequency != nil {
		if !params.Frequency.Valid() {
			return nil, fmt.Errorf("invalid alert frequency %q", *params.Frequency)
		}
		item.Frequency = *params.Frequency
	}
	if item.EmailEnabled && item.Email == "" {
		return nil, errors.New("alert email required")
	}
	if err := s.repo.UpdateSavedScreener(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ScreenerService) Delete(ctx context.Context, userID string, id uint64) error {
	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if item.IsDefault {
		return ErrDefaultPreset
	}
	return s.repo.DeleteSavedScreener(ctx, id)
}

// DecodeFilters parses a stored filter payload. An undecodable payload falls
// back to the defaults for the preset's option type rather than failing the
// read: a stale preset should degrade, not brick the screen.
func DecodeFilters(item *models.SavedScreener) SavedFilters {
	var out SavedFilters
	if err := json.Unmarshal(item.Filters, &out); err != nil || !out.State.Type.Valid() {
		out = SavedFilters{State: filter.NewState(filter.OptionType(item.OptionType))}
	}
	return out
}
