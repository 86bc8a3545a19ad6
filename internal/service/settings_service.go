package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/iliyamo/room-reservation/internal/engine"
	"github.com/iliyamo/room-reservation/internal/model"
)

// SettingsStore persists availability settings.
type SettingsStore interface {
	Update(ctx context.Context, apply func(model.Settings) (model.Settings, error)) (model.Settings, error)
}

// SettingPatchInput is the per stay type body of a settings patch.  Only
// the supplied fields change.
type SettingPatchInput struct {
	AvailableDays *string `json:"availableDays" validate:"omitnil,weekmask"`
	CheckInTime   *string `json:"checkInTime" validate:"omitnil,datetime=15:04"`
	CheckOutTime  *string `json:"checkOutTime" validate:"omitnil,datetime=15:04"`
	WeekdayRate   *int64  `json:"weekdayRate" validate:"omitnil,min=0"`
	FridayRate    *int64  `json:"fridayRate" validate:"omitnil,min=0"`
	WeekendRate   *int64  `json:"weekendRate" validate:"omitnil,min=0"`
}

// SettingsService reads and patches the availability and pricing
// configuration.
type SettingsService struct {
	store SettingsStore
	cache SettingsProvider
}

// NewSettingsService returns a SettingsService.
func NewSettingsService(store SettingsStore, cache SettingsProvider) *SettingsService {
	return &SettingsService{store: store, cache: cache}
}

// Get returns one setting per stay type in a fixed order.
func (s *SettingsService) Get(ctx context.Context) ([]model.AvailabilitySetting, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, storageErr("load settings", err)
	}
	return snap.List(), nil
}

// Patch applies a partial patch keyed by stay type.  Every field of every
// entry is validated before anything is written, and all violations are
// reported together.
func (s *SettingsService) Patch(ctx context.Context, in map[string]SettingPatchInput) ([]model.AvailabilitySetting, error) {
	patches, err := parseSettingPatches(in)
	if err != nil {
		return nil, err
	}

	next, err := s.store.Update(ctx, func(cur model.Settings) (model.Settings, error) {
		for st, p := range patches {
			setting, ok := cur[st]
			if !ok {
				return nil, invalid(string(st), "has no settings row")
			}
			cur[st] = engine.ApplyPatch(setting, p)
		}
		return cur, nil
	})
	if err != nil {
		return nil, storageErr("update settings", err)
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		slog.Warn("settings cache invalidation failed", "err", err)
	}
	return next.List(), nil
}

func parseSettingPatches(in map[string]SettingPatchInput) (map[model.StayType]model.SettingPatch, error) {
	if len(in) == 0 {
		return nil, invalid("body", "must patch at least one stay type")
	}
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	out := make(map[model.StayType]model.SettingPatch, len(in))
	for _, key := range keys {
		st, err := model.ParseStayType(key)
		if err != nil {
			errs = append(errs, invalid(key, "is not a stay type"))
			continue
		}
		raw := in[key]
		if err := check(raw); err != nil {
			errs = append(errs, prefixFields(key, err))
			continue
		}
		out[st] = toSettingPatch(raw)
	}
	if err := merge(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func toSettingPatch(raw SettingPatchInput) model.SettingPatch {
	var p model.SettingPatch
	if raw.AvailableDays != nil {
		m, _ := model.ParseWeekMask(*raw.AvailableDays)
		p.AvailableDays = &m
	}
	if raw.CheckInTime != nil {
		t, _ := model.ParseTimeOfDay(*raw.CheckInTime)
		p.CheckInTime = &t
	}
	if raw.CheckOutTime != nil {
		t, _ := model.ParseTimeOfDay(*raw.CheckOutTime)
		p.CheckOutTime = &t
	}
	p.WeekdayRate, p.FridayRate, p.WeekendRate = raw.WeekdayRate, raw.FridayRate, raw.WeekendRate
	return p
}

func prefixFields(prefix string, err error) error {
	ve, ok := err.(*ValidationError)
	if !ok {
		return err
	}
	for i := range ve.Fields {
		ve.Fields[i].Field = prefix + "." + ve.Fields[i].Field
	}
	return ve
}
