package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/fonoflow/clinic-api/pkg/errors"
)

// Monday, March 2nd 2026, mid-afternoon.
var reference = time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)

func TestResolveDateSpecifierISODate(t *testing.T) {
	date, err := ResolveDateSpecifier("2026-03-10", reference)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", date.Format("2006-01-02"))
}

func TestResolveDateSpecifierRelativeTokens(t *testing.T) {
	for _, token := range []string{"hoje", "today", "HOJE"} {
		date, err := ResolveDateSpecifier(token, reference)
		require.NoError(t, err, token)
		assert.Equal(t, "2026-03-02", date.Format("2006-01-02"), token)
	}
	for _, token := range []string{"amanha", "amanhã", "tomorrow"} {
		date, err := ResolveDateSpecifier(token, reference)
		require.NoError(t, err, token)
		assert.Equal(t, "2026-03-03", date.Format("2006-01-02"), token)
	}
}

func TestResolveDateSpecifierWeekdayNames(t *testing.T) {
	tests := []struct {
		specifier string
		want      string
	}{
		{"terca", "2026-03-03"},
		{"terça", "2026-03-03"},
		{"terça-feira", "2026-03-03"},
		{"quarta", "2026-03-04"},
		{"sábado", "2026-03-07"},
		{"domingo", "2026-03-08"},
		{"friday", "2026-03-06"},
	}
	for _, tt := range tests {
		date, err := ResolveDateSpecifier(tt.specifier, reference)
		require.NoError(t, err, tt.specifier)
		assert.Equal(t, tt.want, date.Format("2006-01-02"), tt.specifier)
	}
}

func TestResolveDateSpecifierSameWeekdayAdvancesFullWeek(t *testing.T) {
	// The reference date is a Monday; "monday" means a week from now,
	// never today.
	for _, token := range []string{"segunda", "segunda-feira", "monday"} {
		date, err := ResolveDateSpecifier(token, reference)
		require.NoError(t, err, token)
		assert.Equal(t, "2026-03-09", date.Format("2006-01-02"), token)
	}
}

func TestResolveDateSpecifierStripsTimeOfDay(t *testing.T) {
	date, err := ResolveDateSpecifier("quinta", reference)
	require.NoError(t, err)
	assert.Equal(t, 0, date.Hour())
	assert.Equal(t, 0, date.Minute())
}

func TestResolveDateSpecifierRejectsUnknownTokens(t *testing.T) {
	for _, specifier := range []string{"", "someday", "03/10/2026", "2026-13-40"} {
		_, err := ResolveDateSpecifier(specifier, reference)
		require.Error(t, err, specifier)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr, specifier)
		assert.Equal(t, apperrors.ErrInvalidDate, appErr.Code, specifier)
		assert.Contains(t, appErr.Message, "YYYY-MM-DD", specifier)
	}
}
