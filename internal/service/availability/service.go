package availability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/internal/repository"
)

const configCacheKey = "weekly_availability"

const (
	msgNoConfiguration = "no availability configured yet"
	msgDayUnavailable  = "no bookable times for this day"
)

// Service resolves the bookable slots of a calendar date from the persisted
// weekly configuration and the day's existing appointments.
type Service struct {
	configRepo repository.AvailabilityRepository
	apptRepo   repository.AppointmentRepository
	cache      *cache.Cache
}

func NewService(configRepo repository.AvailabilityRepository, apptRepo repository.AppointmentRepository, cacheTTL time.Duration) *Service {
	return &Service{
		configRepo: configRepo,
		apptRepo:   apptRepo,
		cache:      cache.New(cacheTTL, 2*cacheTTL),
	}
}

// GetDayAvailability resolves a caller-supplied date specifier and computes
// that day's free slots.
func (s *Service) GetDayAvailability(ctx context.Context, specifier string) (*model.DayAvailability, error) {
	date, err := ResolveDateSpecifier(specifier, time.Now())
	if err != nil {
		return nil, err
	}
	return s.ForDate(ctx, date)
}

// ForDate computes the free slots of one calendar date. The configuration
// and the day's appointments are independent reads issued concurrently.
func (s *Service) ForDate(ctx context.Context, date time.Time) (*model.DayAvailability, error) {
	day := model.WeekdayOf(date)
	result := &model.DayAvailability{
		Date:           date.Format("2006-01-02"),
		Day:            day,
		AvailableSlots: []string{},
	}

	var (
		wg      sync.WaitGroup
		cfg     *model.WeeklyAvailability
		appts   []*model.Appointment
		cfgErr  error
		apptErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		cfg, cfgErr = s.loadConfig(ctx)
	}()
	go func() {
		defer wg.Done()
		appts, apptErr = s.apptRepo.GetForDay(ctx, date)
	}()
	wg.Wait()

	if cfgErr != nil {
		return nil, fmt.Errorf("failed to load availability configuration: %w", cfgErr)
	}
	if apptErr != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", apptErr)
	}

	// A missing configuration is a normal state for a fresh install, not
	// an error.
	if cfg == nil {
		result.Message = msgNoConfiguration
		return result, nil
	}

	slots, err := ComputeSlots(cfg, day, appts)
	if err != nil {
		return nil, err
	}

	result.AvailableSlots = slots
	if len(slots) == 0 {
		result.Message = msgDayUnavailable
	}
	return result, nil
}

// GetSettings returns the stored configuration, or nil when none was saved.
func (s *Service) GetSettings(ctx context.Context) (*model.WeeklyAvailability, error) {
	return s.loadConfig(ctx)
}

// SaveSettings replaces the stored configuration and drops the cached
// snapshot so the next query sees the new schedule.
func (s *Service) SaveSettings(ctx context.Context, req *model.UpdateAvailabilityRequest) (*model.WeeklyAvailability, error) {
	cfg := &model.WeeklyAvailability{
		SessionDuration: req.SessionDuration,
		Days:            req.Days,
	}

	// Reject unparsable schedules up front instead of storing a
	// configuration every slot query would fail on.
	for _, day := range model.WeekdayOrder {
		if _, err := effectiveRanges(cfg, day); err != nil {
			return nil, err
		}
	}

	if err := s.configRepo.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save availability configuration: %w", err)
	}
	s.cache.Delete(configCacheKey)
	return cfg, nil
}

func (s *Service) loadConfig(ctx context.Context) (*model.WeeklyAvailability, error) {
	if cached, ok := s.cache.Get(configCacheKey); ok {
		return cached.(*model.WeeklyAvailability), nil
	}

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		s.cache.Set(configCacheKey, cfg, cache.DefaultExpiration)
	}
	return cfg, nil
}
