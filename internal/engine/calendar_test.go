package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/model"
)

func settingsWith(st model.StayType, mask model.WeekMask) model.Settings {
	s := model.DefaultSetting(st)
	s.AvailableDays = mask
	return model.Settings{st: s}
}

func TestIsBookableFollowsMaskBit(t *testing.T) {
	start := model.NewDate(2024, time.January, 7) // Sunday
	for mask := model.WeekMask(0); mask <= model.AllDays; mask++ {
		settings := settingsWith(model.StayNightly, mask)
		for i := 0; i < 14; i++ {
			d := start.AddDays(i)
			want := mask&(1<<uint(d.Weekday())) != 0
			require.Equal(t, want, IsBookable(settings, model.StayNightly, d), "mask %s date %s", mask, d)
		}
	}
}

func TestIsBookableMissingStayType(t *testing.T) {
	settings := settingsWith(model.StayNightly, model.AllDays)
	require.False(t, IsBookable(settings, model.StayHourly, model.NewDate(2024, time.January, 10)))
	require.False(t, IsBookable(nil, model.StayNightly, model.NewDate(2024, time.January, 10)))
}

func TestRateTierOf(t *testing.T) {
	cases := map[time.Weekday]model.RateTier{
		time.Sunday:    model.TierWeekend,
		time.Monday:    model.TierWeekday,
		time.Tuesday:   model.TierWeekday,
		time.Wednesday: model.TierWeekday,
		time.Thursday:  model.TierWeekday,
		time.Friday:    model.TierFriday,
		time.Saturday:  model.TierWeekend,
	}
	start := model.NewDate(2024, time.January, 7)
	for i := 0; i < 28; i++ {
		d := start.AddDays(i)
		require.Equal(t, cases[d.Weekday()], RateTierOf(d), d.String())
	}
}

func TestSetDayBitIdempotent(t *testing.T) {
	s := model.DefaultSetting(model.StayHourly)
	once := SetDayBit(s, time.Tuesday, false)
	twice := SetDayBit(once, time.Tuesday, false)
	require.Equal(t, once, twice)
	require.Equal(t, "1101111", once.AvailableDays.String())

	back := SetDayBit(twice, time.Tuesday, true)
	require.Equal(t, model.AllDays, back.AvailableDays)
}

func TestSetRateIdempotent(t *testing.T) {
	s := model.DefaultSetting(model.StayNightly)
	once := SetRate(s, model.TierFriday, 90000)
	require.Equal(t, once, SetRate(once, model.TierFriday, 90000))
	require.Equal(t, int64(90000), once.Friday)
	require.Zero(t, once.Weekday)
	require.Zero(t, once.Weekend)
}

func TestApplyPatchChangesOnlySuppliedFields(t *testing.T) {
	before := model.AvailabilitySetting{
		StayType:      model.StayNightly,
		AvailableDays: model.AllDays,
		CheckInTime:   15 * 60,
		CheckOutTime:  11 * 60,
		RateTable:     model.RateTable{Weekday: 50000, Friday: 60000, Weekend: 70000},
	}
	mask, err := model.ParseWeekMask("0111110")
	require.NoError(t, err)
	friday := int64(65000)

	after := ApplyPatch(before, model.SettingPatch{AvailableDays: &mask, FridayRate: &friday})

	require.Equal(t, mask, after.AvailableDays)
	require.Equal(t, friday, after.Friday)
	require.Equal(t, before.CheckInTime, after.CheckInTime)
	require.Equal(t, before.CheckOutTime, after.CheckOutTime)
	require.Equal(t, before.Weekday, after.Weekday)
	require.Equal(t, before.Weekend, after.Weekend)

	require.Equal(t, before, ApplyPatch(before, model.SettingPatch{}))
}
