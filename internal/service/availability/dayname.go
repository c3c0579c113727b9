package availability

import (
	"strings"
	"time"

	"github.com/fonoflow/clinic-api/pkg/errors"
)

// AcceptedDateFormats is surfaced to callers when a specifier cannot be
// resolved.
var AcceptedDateFormats = []string{
	"YYYY-MM-DD",
	"weekday name (segunda..domingo, monday..sunday)",
	"hoje/today",
	"amanha/tomorrow",
}

// Chat input arrives with inconsistent accents; fold them before matching.
var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o",
	"ú", "u",
	"ç", "c",
)

var weekdayNames = map[string]time.Weekday{
	"segunda": time.Monday,
	"terca":   time.Tuesday,
	"quarta":  time.Wednesday,
	"quinta":  time.Thursday,
	"sexta":   time.Friday,
	"sabado":  time.Saturday,
	"domingo": time.Sunday,

	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ResolveDateSpecifier turns a caller-supplied date token into a calendar
// date. Accepted inputs are an ISO date, a weekday name, or a relative
// token; weekday names always resolve to the next future occurrence, so a
// weekday named on that same weekday means a full week ahead.
func ResolveDateSpecifier(specifier string, now time.Time) (time.Time, error) {
	token := accentFolder.Replace(strings.ToLower(strings.TrimSpace(specifier)))
	token = strings.TrimSuffix(token, "-feira")

	if date, err := time.ParseInLocation("2006-01-02", token, now.Location()); err == nil {
		return date, nil
	}

	today := startOfDay(now)
	switch token {
	case "hoje", "today":
		return today, nil
	case "amanha", "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	if target, ok := weekdayNames[token]; ok {
		delta := (int(target) - int(now.Weekday()) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		return today.AddDate(0, 0, delta), nil
	}

	return time.Time{}, errors.NewInvalidDateSpecifier(specifier, AcceptedDateFormats)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
