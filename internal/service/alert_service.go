package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"screener/internal/access"
	"screener/internal/models"
	"screener/internal/notification"
	"screener/internal/options"
	"screener/internal/repository"
)

// AlertService runs saved screeners with email alerts enabled and mails a
// digest of the current matches on the preset's schedule.
type AlertService struct {
	repo    repository.Repository
	search  *SearchService
	mailer  notification.Mailer
	logger  *zap.Logger
	maxRows int
	now     func() time.Time
}

func NewAlertService(repo repository.Repository, search *SearchService, mailer notification.Mailer, maxRows int, logger *zap.Logger) *AlertService {
	if maxRows <= 0 {
		maxRows = 20
	}
	return &AlertService{
		repo:    repo,
		search:  search,
		mailer:  mailer,
		logger:  logger,
		maxRows: maxRows,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Scan walks every alert-enabled preset and dispatches the ones that are due.
// One failing preset never blocks the rest of the scan.
func (s *AlertService) Scan(ctx context.Context) error {
	items, err := s.repo.ListAlertScreeners(ctx)
	if err != nil {
		return fmt.Errorf("failed to list alert screeners: %w", err)
	}
	now := s.now()
	for i := range items {
		item := &items[i]
		if !due(item, now) {
			continue
		}
		if err := s.dispatch(ctx, item); err != nil {
			if s.logger != nil {
				s.logger.Warn("alert dispatch failed",
					zap.Uint64("screener_id", item.ID),
					zap.Error(err))
			}
		}
	}
	return nil
}

// due applies the frequency schedule against the last successful dispatch.
// A preset that has never fired is always due.
func due(item *models.SavedScreener, now time.Time) bool {
	if item.LastNotifiedAt == nil {
		return true
	}
	var interval time.Duration
	switch item.Frequency {
	case models.AlertDaily:
		interval = 24 * time.Hour
	case models.AlertWeekly:
		interval = 7 * 24 * time.Hour
	case models.AlertMonthly:
		interval = 30 * 24 * time.Hour
	default:
		return false
	}
	return !now.Before(item.LastNotifiedAt.Add(interval))
}

func (s *AlertService) dispatch(ctx context.Context, item *models.SavedScreener) error {
	saved := DecodeFilters(item)
	res, err := s.search.Search(ctx, SearchRequest{
		State:      saved.State,
		Sort:       saved.Sort,
		StrikeMode: saved.StrikeMode,
		PageNo:     1,
		PageSize:   s.maxRows,
		User:       &access.AuthUser{ID: item.UserID, Email: item.Email},
	})

	record := &models.AlertDispatch{
		ScreenerID: item.ID,
		Recipient:  item.Email,
	}
	if err == nil {
		record.RowCount = len(res.Rows)
		msg := notification.Message{
			To:      item.Email,
			Subject: fmt.Sprintf("Screener alert: %s (%d matches)", item.Name, res.Total),
			Body:    digestBody(item.Name, res.Rows, res.Total),
		}
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		record.Status = "failed"
		record.Error = err.Error()
		if insertErr := s.repo.InsertAlertDispatch(ctx, record); insertErr != nil && s.logger != nil {
			s.logger.Warn("failed to record alert dispatch", zap.Error(insertErr))
		}
		return err
	}

	record.Status = "sent"
	if err := s.repo.InsertAlertDispatch(ctx, record); err != nil && s.logger != nil {
		s.logger.Warn("failed to record alert dispatch", zap.Error(err))
	}
	return s.repo.SetScreenerNotifiedAt(ctx, item.ID, s.now())
}

func digestBody(name string, rows []options.Option, total int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your screener %q currently matches %d contracts.\n\n", name, total)
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s strike %.2f exp %s premium %.2f yield %.2f%%\n",
			r.Symbol, r.Type, r.Strike, r.Expiration, r.Premium, r.YieldPercent)
	}
	if int64(len(rows)) < total {
		fmt.Fprintf(&b, "\n...and %d more.\n", total-int64(len(rows)))
	}
	return b.String()
}
