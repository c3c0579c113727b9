package availability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fonoflow/clinic-api/internal/model"
	"github.com/fonoflow/clinic-api/pkg/errors"
)

// span is a half-open bookable window in minutes since midnight.
type span struct {
	start int
	end   int
}

// parseClock parses a 24-hour "HH:MM" string into minutes since midnight.
func parseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return hour*60 + minute, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// effectiveRanges resolves the bookable windows of one weekday from the
// configuration, preferring the granular per-day schedule and falling back
// to the legacy flat fields. A day present in neither yields no ranges and
// no error. The legacy lunch window is normalized into separate morning and
// afternoon ranges here, so the slot generator only ever sees canonical
// windows.
func effectiveRanges(cfg *model.WeeklyAvailability, day model.Weekday) ([]span, error) {
	if ds, ok := cfg.Days[day]; ok {
		if !ds.Active || len(ds.Ranges) == 0 {
			return nil, nil
		}
		spans := make([]span, 0, len(ds.Ranges))
		for _, r := range ds.Ranges {
			start, err := parseClock(r.Start)
			if err != nil {
				return nil, errors.NewInvalidConfiguration(fmt.Sprintf("range start for %s", day), err)
			}
			end, err := parseClock(r.End)
			if err != nil {
				return nil, errors.NewInvalidConfiguration(fmt.Sprintf("range end for %s", day), err)
			}
			if start >= end {
				return nil, errors.NewInvalidConfiguration(
					fmt.Sprintf("range %s-%s for %s does not start before it ends", r.Start, r.End, day), nil)
			}
			spans = append(spans, span{start: start, end: end})
		}
		sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
		return spans, nil
	}

	return legacyRanges(cfg, day)
}

func legacyRanges(cfg *model.WeeklyAvailability, day model.Weekday) ([]span, error) {
	working := false
	for _, d := range cfg.WorkingDays {
		if d == day {
			working = true
			break
		}
	}
	if !working {
		return nil, nil
	}

	start, err := parseClock(cfg.StartHour)
	if err != nil {
		return nil, errors.NewInvalidConfiguration("legacy start hour", err)
	}
	end, err := parseClock(cfg.EndHour)
	if err != nil {
		return nil, errors.NewInvalidConfiguration("legacy end hour", err)
	}
	if start >= end {
		return nil, errors.NewInvalidConfiguration(
			fmt.Sprintf("legacy hours %s-%s do not start before they end", cfg.StartHour, cfg.EndHour), nil)
	}

	if cfg.LunchStart == "" || cfg.LunchEnd == "" {
		return []span{{start: start, end: end}}, nil
	}

	lunchStart, err := parseClock(cfg.LunchStart)
	if err != nil {
		return nil, errors.NewInvalidConfiguration("legacy lunch start", err)
	}
	lunchEnd, err := parseClock(cfg.LunchEnd)
	if err != nil {
		return nil, errors.NewInvalidConfiguration("legacy lunch end", err)
	}

	spans := make([]span, 0, 2)
	if start < lunchStart {
		spans = append(spans, span{start: start, end: lunchStart})
	}
	if lunchEnd < end {
		spans = append(spans, span{start: lunchEnd, end: end})
	}
	return spans, nil
}

// ComputeSlots returns the ascending bookable "HH:MM" start times of one
// weekday: each range is discretized independently in sessionDuration steps,
// slots that would run past their range's end are dropped, and candidates
// whose time-of-day matches an existing appointment are removed.
func ComputeSlots(cfg *model.WeeklyAvailability, day model.Weekday, existing []*model.Appointment) ([]string, error) {
	if cfg.SessionDuration <= 0 {
		return nil, errors.NewInvalidConfiguration(
			fmt.Sprintf("session duration %d must be positive", cfg.SessionDuration), nil)
	}

	spans, err := effectiveRanges(cfg, day)
	if err != nil {
		return nil, err
	}

	booked := make(map[string]struct{}, len(existing))
	for _, apt := range existing {
		booked[apt.ClockTime()] = struct{}{}
	}

	seen := make(map[string]struct{})
	slots := make([]string, 0)
	for _, sp := range spans {
		for t := sp.start; t+cfg.SessionDuration <= sp.end; t += cfg.SessionDuration {
			slot := formatClock(t)
			if _, dup := seen[slot]; dup {
				continue
			}
			seen[slot] = struct{}{}
			if _, taken := booked[slot]; taken {
				continue
			}
			slots = append(slots, slot)
		}
	}

	// Ranges walked in start order already keep this sorted except when
	// windows overlap; stored ranges are not guaranteed disjoint.
	sort.Strings(slots)
	return slots, nil
}
