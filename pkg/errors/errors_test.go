package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewNotFound("patient", nil), http.StatusNotFound},
		{NewBadRequest("slot 09:00 is already booked", nil), http.StatusBadRequest},
		{NewInvalidDateSpecifier("someday", []string{"YYYY-MM-DD"}), http.StatusBadRequest},
		{NewInvalidConfiguration("range start after end", nil), http.StatusUnprocessableEntity},
		{Unauthorized(nil), http.StatusUnauthorized},
		{NewInternal(errors.New("boom")), http.StatusInternalServerError},
		{&AppError{Code: ErrForbidden, Message: "forbidden"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestInvalidDateSpecifierMessageListsFormats(t *testing.T) {
	err := NewInvalidDateSpecifier("03/10/2026", []string{"YYYY-MM-DD", "weekday name", "hoje", "amanhã"})
	assert.Contains(t, err.Message, `"03/10/2026"`)
	assert.Contains(t, err.Message, "YYYY-MM-DD")
	assert.Contains(t, err.Message, "hoje")
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternal(fmt.Errorf("failed to load configuration: %w", cause))

	require.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, error(err), &appErr)
	assert.Equal(t, ErrInternal, appErr.Code)
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := NewBadRequest("bad payload", errors.New("eof"))
	assert.Equal(t, "bad payload: eof", err.Error())

	bare := NewBadRequest("bad payload", nil)
	assert.Equal(t, "bad payload", bare.Error())
}
