package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"screener/internal/filter"
	"screener/internal/models"
	"screener/internal/notification"
)

func TestDueSchedule(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	never := &models.SavedScreener{Frequency: models.AlertDaily}
	if !due(never, now) {
		t.Fatalf("never-notified preset must be due")
	}

	tests := []struct {
		freq models.AlertFrequency
		ago  time.Duration
		want bool
	}{
		{models.AlertDaily, 23 * time.Hour, false},
		{models.AlertDaily, 25 * time.Hour, true},
		{models.AlertWeekly, 6 * 24 * time.Hour, false},
		{models.AlertWeekly, 8 * 24 * time.Hour, true},
		{models.AlertMonthly, 29 * 24 * time.Hour, false},
		{models.AlertMonthly, 31 * 24 * time.Hour, true},
		{"", 100 * 24 * time.Hour, false},
	}
	for _, tt := range tests {
		at := now.Add(-tt.ago)
		item := &models.SavedScreener{Frequency: tt.freq, LastNotifiedAt: &at}
		if got := due(item, now); got != tt.want {
			t.Fatalf("due(%s, -%s) = %v, want %v", tt.freq, tt.ago, got, tt.want)
		}
	}
}

func TestScanDispatchesDuePresets(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	repo.subs["u1"] = &models.Subscription{UserID: "u1", Status: models.SubStatusActive}
	search, _ := newSearchFixture(t, repo, func() any { return manyRows(3) })

	var sent []notification.Message
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg notification.Message
		_ = json.NewDecoder(r.Body).Decode(&msg)
		sent = append(sent, msg)
	}))
	t.Cleanup(relay.Close)

	svc := NewScreenerService(repo, nil)
	params := saveParams("alerted", filter.Call)
	params.EmailEnabled = true
	params.Email = "trader@example.com"
	params.Frequency = models.AlertDaily
	item, err := svc.Save(ctx, params)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	// A second preset without alerts never fires.
	if _, err := svc.Save(ctx, saveParams("quiet", filter.Call)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	alerts := NewAlertService(repo, search, notification.Mailer{HTTP: relay.Client(), RelayURL: relay.URL}, 20, nil)
	if err := alerts.Scan(ctx); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if len(sent) != 1 || sent[0].To != "trader@example.com" {
		t.Fatalf("sent = %+v", sent)
	}
	if len(repo.dispatches) != 1 || repo.dispatches[0].Status != "sent" || repo.dispatches[0].RowCount != 3 {
		t.Fatalf("dispatch record = %+v", repo.dispatches)
	}
	if repo.screeners[item.ID].LastNotifiedAt == nil {
		t.Fatalf("last notified timestamp not set")
	}

	// Immediately rescanning sends nothing; the preset is no longer due.
	if err := alerts.Scan(ctx); err != nil {
		t.Fatalf("rescan failed: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("rescan must not redispatch, sent = %d", len(sent))
	}
}
