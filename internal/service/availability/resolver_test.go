package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonoflow/clinic-api/internal/model"
	apperrors "github.com/fonoflow/clinic-api/pkg/errors"
)

func granularConfig(duration int, days map[model.Weekday]model.DaySchedule) *model.WeeklyAvailability {
	return &model.WeeklyAvailability{
		SessionDuration: duration,
		Days:            days,
	}
}

func appointmentAt(t *testing.T, clock string) *model.Appointment {
	t.Helper()
	parsed, err := time.Parse("15:04", clock)
	require.NoError(t, err)
	return &model.Appointment{
		StartTime: time.Date(2026, 3, 2, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC),
	}
}

func TestComputeSlotsSingleRange(t *testing.T) {
	cfg := granularConfig(30, map[model.Weekday]model.DaySchedule{
		model.Monday: {Active: true, Ranges: []model.TimeRange{{Start: "08:00", End: "10:00"}}},
	})

	slots, err := ComputeSlots(cfg, model.Monday, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30"}, slots)
}

func TestComputeSlotsRemovesBookedTimes(t *testing.T) {
	cfg := granularConfig(30, map[model.Weekday]model.DaySchedule{
		model.Monday: {Active: true, Ranges: []model.TimeRange{{Start: "08:00", End: "10:00"}}},
	})

	slots, err := ComputeSlots(cfg, model.Monday, []*model.Appointment{appointmentAt(t, "09:00")})
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "08:30", "09:30"}, slots)
}

func TestComputeSlotsRangesAreIndependent(t *testing.T) {
	cfg := granularConfig(60, map[model.Weekday]model.DaySchedule{
		model.Tuesday: {Active: true, Ranges: []model.TimeRange{
			{Start: "09:00", End: "12:00"},
			{Start: "13:00", End: "15:00"},
		}},
	})

	slots, err := ComputeSlots(cfg, model.Tuesday, nil)
	require.NoError(t, err)
	// Nothing may bridge the 12:00-13:00 gap.
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "13:00", "14:00"}, slots)
}

func TestComputeSlotsInactiveDay(t *testing.T) {
	cfg := granularConfig(30, map[model.Weekday]model.DaySchedule{
		model.Monday: {Active: false, Ranges: []model.TimeRange{{Start: "08:00", End: "10:00"}}},
	})

	slots, err := ComputeSlots(cfg, model.Monday, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlotsUnconfiguredDay(t *testing.T) {
	cfg := granularConfig(30, map[model.Weekday]model.DaySchedule{
		model.Monday: {Active: true, Ranges: []model.TimeRange{{Start: "08:00", End: "10:00"}}},
	})

	slots, err := ComputeSlots(cfg, model.Sunday, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlotsBoundary(t *testing.T) {
	cfg := granularConfig(30, map[model.Weekday]model.DaySchedule{
		model.Friday: {Active: true, Ranges: []model.TimeRange{{Start: "09:00", End: "09:30"}}},
	})

	slots, err := ComputeSlots(cfg, model.Friday, nil)
	require.NoError(t, err)
	// A slot ending exactly at the range end fits; nothing may run past it.
	assert.Equal(t, []string{"09:00"}, slots)
}

func TestComputeSlotsLegacyEquivalence(t *testing.T) {
	legacy := &model.WeeklyAvailability{
		SessionDuration: 60,
		WorkingDays:     []model.Weekday{model.Wednesday},
		StartHour:       "08:00",
		EndHour:         "18:00",
		LunchStart:      "12:00",
		LunchEnd:        "13:00",
	}
	granular := granularConfig(60, map[model.Weekday]model.DaySchedule{
		model.Wednesday: {Active: true, Ranges: []model.TimeRange{
			{Start: "08:00", End: "12:00"},
			{Start: "13:00", End: "18:00"},
		}},
	})

	legacySlots, err := ComputeSlots(legacy, model.Wednesday, nil)
	require.NoError(t, err)
	granularSlots, err := ComputeSlots(granular, model.Wednesday, nil)
	require.NoError(t, err)

	assert.Equal(t, granularSlots, legacySlots)
	assert.Equal(t, []string{"08:00", "09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"}, legacySlots)
}

func TestComputeSlotsLegacyWithoutLunch(t *testing.T) {
	cfg := &model.WeeklyAvailability{
		SessionDuration: 45,
		WorkingDays:     []model.Weekday{model.Monday},
		StartHour:       "09:00",
		EndHour:         "12:00",
	}

	slots, err := ComputeSlots(cfg, model.Monday, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:45", "10:30", "11:15"}, slots)
}

func TestComputeSlotsGranularOverridesLegacy(t *testing.T) {
	cfg := &model.WeeklyAvailability{
		SessionDuration: 60,
		Days: map[model.Weekday]model.DaySchedule{
			model.Monday: {Active: true, Ranges: []model.TimeRange{{Start: "14:00", End: "16:00"}}},
		},
		WorkingDays: []model.Weekday{model.Monday},
		StartHour:   "08:00",
		EndHour:     "12:00",
	}

	slots, err := ComputeSlots(cfg, model.Monday, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00", "15:00"}, slots)
}

func TestComputeSlotsOverlappingRanges(t *testing.T) {
	cfg := granularConfig(60, map[model.Weekday]model.DaySchedule{
		model.Thursday: {Active: true, Ranges: []model.TimeRange{
			{Start: "10:00", End: "12:00"},
			{Start: "09:00", End: "11:00"},
		}},
	})

	slots, err := ComputeSlots(cfg, model.Thursday, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slots)
}

func TestComputeSlotsDeterminism(t *testing.T) {
	cfg := granularConfig(30, map[model.Weekday]model.DaySchedule{
		model.Monday: {Active: true, Ranges: []model.TimeRange{
			{Start: "08:00", End: "12:00"},
			{Start: "13:00", End: "17:00"},
		}},
	})
	existing := []*model.Appointment{appointmentAt(t, "08:30"), appointmentAt(t, "14:00")}

	first, err := ComputeSlots(cfg, model.Monday, existing)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ComputeSlots(cfg, model.Monday, existing)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeSlotsMalformedRange(t *testing.T) {
	cfg := granularConfig(30, map[model.Weekday]model.DaySchedule{
		model.Monday: {Active: true, Ranges: []model.TimeRange{{Start: "8h00", End: "10:00"}}},
	})

	_, err := ComputeSlots(cfg, model.Monday, nil)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrInvalidConfig, appErr.Code)
}

func TestComputeSlotsInvertedRange(t *testing.T) {
	cfg := granularConfig(30, map[model.Weekday]model.DaySchedule{
		model.Monday: {Active: true, Ranges: []model.TimeRange{{Start: "10:00", End: "08:00"}}},
	})

	_, err := ComputeSlots(cfg, model.Monday, nil)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrInvalidConfig, appErr.Code)
}

func TestComputeSlotsMalformedLegacyHours(t *testing.T) {
	cfg := &model.WeeklyAvailability{
		SessionDuration: 30,
		WorkingDays:     []model.Weekday{model.Monday},
		StartHour:       "nine",
		EndHour:         "12:00",
	}

	_, err := ComputeSlots(cfg, model.Monday, nil)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrInvalidConfig, appErr.Code)
}

func TestComputeSlotsNonPositiveDuration(t *testing.T) {
	cfg := granularConfig(0, map[model.Weekday]model.DaySchedule{
		model.Monday: {Active: true, Ranges: []model.TimeRange{{Start: "08:00", End: "10:00"}}},
	})

	_, err := ComputeSlots(cfg, model.Monday, nil)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrInvalidConfig, appErr.Code)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{" 09:15 ", 555, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		got, err := parseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
