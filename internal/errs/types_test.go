package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBadRequestError_DefaultCode(t *testing.T) {
	err := NewBadRequestError("Duplicate username: abe", false, nil, nil, nil)

	assert.Equal(t, "BAD_REQUEST", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "Duplicate username: abe", err.Error())
}

func TestNewBadRequestError_CustomCode(t *testing.T) {
	code := "USER_ALREADY_EXISTS"
	fields := []FieldError{{Field: "username", Error: "is taken"}}

	err := NewBadRequestError("taken", true, &code, fields, nil)

	assert.Equal(t, code, err.Code)
	assert.True(t, err.Override)
	assert.Equal(t, fields, err.Errors)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("No user: ghost", false, nil)

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
}

func TestNewInternalServerError_HidesCause(t *testing.T) {
	err := NewInternalServerError()

	assert.Equal(t, "INTERNAL_SERVER_ERROR", err.Code)
	assert.Equal(t, "Internal Server Error", err.Message)
	assert.False(t, err.Override)
}

func TestHTTPError_IsMatchesStatus(t *testing.T) {
	wrapped := fmt.Errorf("authenticate: %w", NewUnauthorizedError("Invalid username/password", false))

	assert.True(t, errors.Is(wrapped, &HTTPError{Status: http.StatusUnauthorized}))
	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(wrapped, &HTTPError{Status: http.StatusNotFound}))
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, http.StatusNotFound, StatusOf(NewNotFoundError("x", false, nil)))
	require.Equal(t, 0, StatusOf(errors.New("plain")))
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}
