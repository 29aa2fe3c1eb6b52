package service

import (
	"context"
	"errors"
	"testing"

	"screener/internal/filter"
	"screener/internal/models"
)

func saveParams(name string, t filter.OptionType) SaveScreenerParams {
	return SaveScreenerParams{
		UserID:  "u1",
		Name:    name,
		Filters: SavedFilters{State: filter.NewState(t)},
	}
}

func TestSaveAndOverwriteConfirmation(t *testing.T) {
	ctx := context.Background()
	svc := NewScreenerService(newStubRepo(), nil)

	first, err := svc.Save(ctx, saveParams("weeklies", filter.Call))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	_, err = svc.Save(ctx, saveParams("weeklies", filter.Call))
	if !errors.Is(err, ErrOverwriteRequired) {
		t.Fatalf("duplicate name must require confirmation, got %v", err)
	}

	params := saveParams("weeklies", filter.Call)
	params.ConfirmOverwrite = true
	params.Filters.State.SetRange("yieldPercent", 2, 50)
	second, err := svc.Save(ctx, params)
	if err != nil {
		t.Fatalf("confirmed overwrite failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("overwrite must keep row identity: %d != %d", second.ID, first.ID)
	}
	got := DecodeFilters(second)
	if r := got.State.Range("yieldPercent"); r.Min != 2 || r.Max != 50 {
		t.Fatalf("overwritten filters not persisted: %+v", r)
	}
}

func TestSaveNameScopedPerOptionType(t *testing.T) {
	ctx := context.Background()
	svc := NewScreenerService(newStubRepo(), nil)

	if _, err := svc.Save(ctx, saveParams("income", filter.Call)); err != nil {
		t.Fatalf("call save failed: %v", err)
	}
	if _, err := svc.Save(ctx, saveParams("income", filter.Put)); err != nil {
		t.Fatalf("same name under put universe must not collide: %v", err)
	}
}

func TestSaveRejectsInvalidAlertConfig(t *testing.T) {
	ctx := context.Background()
	svc := NewScreenerService(newStubRepo(), nil)

	params := saveParams("alerted", filter.Call)
	params.EmailEnabled = true
	if _, err := svc.Save(ctx, params); err == nil {
		t.Fatalf("alerts without email must fail")
	}
	params.Email = "a@b.c"
	params.Frequency = "hourly"
	if _, err := svc.Save(ctx, params); err == nil {
		t.Fatalf("unknown frequency must fail")
	}
	params.Frequency = models.AlertDaily
	if _, err := svc.Save(ctx, params); err != nil {
		t.Fatalf("valid alert config failed: %v", err)
	}
}

func TestDefaultPresetProtection(t *testing.T) {
	ctx := context.Background()
	repo := newStubRepo()
	svc := NewScreenerService(repo, nil)

	item, err := svc.Save(ctx, saveParams("builtin", filter.Call))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	stored := repo.screeners[item.ID]
	stored.IsDefault = true

	if err := svc.Delete(ctx, "u1", item.ID); !errors.Is(err, ErrDefaultPreset) {
		t.Fatalf("default delete must be blocked, got %v", err)
	}
	newName := "renamed"
	if _, err := svc.Update(ctx, "u1", item.ID, UpdateScreenerParams{Name: &newName}); !errors.Is(err, ErrDefaultPreset) {
		t.Fatalf("default rename must be blocked, got %v", err)
	}

	// Notification settings stay editable on defaults.
	enabled := true
	email := "a@b.c"
	freq := models.AlertWeekly
	updated, err := svc.Update(ctx, "u1", item.ID, UpdateScreenerParams{
		EmailEnabled: &enabled,
		Email:        &email,
		Frequency:    &freq,
	})
	if err != nil {
		t.Fatalf("default notification update failed: %v", err)
	}
	if !updated.EmailEnabled || updated.Email != email || updated.Frequency != freq {
		t.Fatalf("notification patch not applied: %+v", updated)
	}
}

func TestGetScopedToOwner(t *testing.T) {
	ctx := context.Background()
	svc := NewScreenerService(newStubRepo(), nil)

	item, err := svc.Save(ctx, saveParams("mine", filter.Call))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := svc.Get(ctx, "someone-else", item.ID); !errors.Is(err, ErrScreenerNotFound) {
		t.Fatalf("foreign preset must not resolve, got %v", err)
	}
}

func TestDecodeFiltersFallsBackOnCorruptPayload(t *testing.T) {
	item := &models.SavedScreener{OptionType: "put", Filters: []byte("{broken")}
	got := DecodeFilters(item)
	if got.State.Type != filter.Put {
		t.Fatalf("corrupt payload must fall back to defaults for the stored type, got %+v", got.State)
	}
}
