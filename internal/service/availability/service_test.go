package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fonoflow/clinic-api/internal/model"
)

type stubConfigRepo struct {
	cfg      *model.WeeklyAvailability
	err      error
	getCalls int
	saved    *model.WeeklyAvailability
}

func (s *stubConfigRepo) Get(ctx context.Context) (*model.WeeklyAvailability, error) {
	s.getCalls++
	return s.cfg, s.err
}

func (s *stubConfigRepo) Save(ctx context.Context, cfg *model.WeeklyAvailability) error {
	s.saved = cfg
	s.cfg = cfg
	return nil
}

type stubApptRepo struct {
	forDay []*model.Appointment
	err    error
}

func (s *stubApptRepo) Create(ctx context.Context, a *model.Appointment) error { return nil }
func (s *stubApptRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, errors.New("not implemented")
}
func (s *stubApptRepo) Update(ctx context.Context, a *model.Appointment) error { return nil }
func (s *stubApptRepo) Delete(ctx context.Context, id uuid.UUID) error         { return nil }
func (s *stubApptRepo) List(ctx context.Context, f *model.AppointmentFilters) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubApptRepo) GetForDay(ctx context.Context, date time.Time) ([]*model.Appointment, error) {
	return s.forDay, s.err
}
func (s *stubApptRepo) CountInRange(ctx context.Context, from, to time.Time) (int, error) {
	return len(s.forDay), nil
}

// Monday, March 2nd 2026.
var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func testConfig() *model.WeeklyAvailability {
	return &model.WeeklyAvailability{
		SessionDuration: 30,
		Days: map[model.Weekday]model.DaySchedule{
			model.Monday: {Active: true, Ranges: []model.TimeRange{{Start: "08:00", End: "10:00"}}},
		},
	}
}

func TestForDateReturnsSlots(t *testing.T) {
	svc := NewService(&stubConfigRepo{cfg: testConfig()}, &stubApptRepo{}, time.Minute)

	day, err := svc.ForDate(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", day.Date)
	assert.Equal(t, model.Monday, day.Day)
	assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30"}, day.AvailableSlots)
	assert.Empty(t, day.Message)
}

func TestForDateRemovesBookedSlots(t *testing.T) {
	appts := []*model.Appointment{
		{StartTime: time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)},
	}
	svc := NewService(&stubConfigRepo{cfg: testConfig()}, &stubApptRepo{forDay: appts}, time.Minute)

	day, err := svc.ForDate(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00", "09:30"}, day.AvailableSlots)
}

func TestForDateMissingConfiguration(t *testing.T) {
	svc := NewService(&stubConfigRepo{}, &stubApptRepo{}, time.Minute)

	day, err := svc.ForDate(context.Background(), testDate)
	require.NoError(t, err)
	assert.Empty(t, day.AvailableSlots)
	assert.Equal(t, msgNoConfiguration, day.Message)
}

func TestForDateUnavailableDay(t *testing.T) {
	svc := NewService(&stubConfigRepo{cfg: testConfig()}, &stubApptRepo{}, time.Minute)

	// March 1st 2026 is a Sunday with no configured ranges.
	day, err := svc.ForDate(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, day.AvailableSlots)
	assert.Equal(t, msgDayUnavailable, day.Message)
}

func TestForDateConfigRepoError(t *testing.T) {
	svc := NewService(&stubConfigRepo{err: errors.New("db down")}, &stubApptRepo{}, time.Minute)

	_, err := svc.ForDate(context.Background(), testDate)
	require.Error(t, err)
}

func TestForDateCachesConfiguration(t *testing.T) {
	repo := &stubConfigRepo{cfg: testConfig()}
	svc := NewService(repo, &stubApptRepo{}, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := svc.ForDate(context.Background(), testDate)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.getCalls)
}

func TestSaveSettingsInvalidatesCache(t *testing.T) {
	repo := &stubConfigRepo{cfg: testConfig()}
	svc := NewService(repo, &stubApptRepo{}, time.Minute)

	_, err := svc.ForDate(context.Background(), testDate)
	require.NoError(t, err)

	_, err = svc.SaveSettings(context.Background(), &model.UpdateAvailabilityRequest{
		SessionDuration: 60,
		Days: map[model.Weekday]model.DaySchedule{
			model.Monday: {Active: true, Ranges: []model.TimeRange{{Start: "08:00", End: "11:00"}}},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, repo.saved)

	day, err := svc.ForDate(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00", "10:00"}, day.AvailableSlots)
	assert.Equal(t, 2, repo.getCalls)
}

func TestSaveSettingsRejectsMalformedRanges(t *testing.T) {
	repo := &stubConfigRepo{}
	svc := NewService(repo, &stubApptRepo{}, time.Minute)

	_, err := svc.SaveSettings(context.Background(), &model.UpdateAvailabilityRequest{
		SessionDuration: 30,
		Days: map[model.Weekday]model.DaySchedule{
			model.Monday: {Active: true, Ranges: []model.TimeRange{{Start: "10:00", End: "08:00"}}},
		},
	})
	require.Error(t, err)
	assert.Nil(t, repo.saved)
}

func TestGetDayAvailabilityRejectsBadSpecifier(t *testing.T) {
	svc := NewService(&stubConfigRepo{cfg: testConfig()}, &stubApptRepo{}, time.Minute)

	_, err := svc.GetDayAvailability(context.Background(), "someday")
	require.Error(t, err)
}
