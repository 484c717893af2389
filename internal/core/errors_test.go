// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   Kind
	}{
		{"not found", fmt.Errorf("get: %w", ErrNotFound), http.StatusNotFound, KindNotFound},
		{"duplicate", fmt.Errorf("insert: %w", ErrDuplicateKey), http.StatusBadRequest, KindConflict},
		{"invalid state", ErrInvalidState, http.StatusBadRequest, KindInvalidState},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest, KindValidation},
		{"forbidden", ErrForbidden, http.StatusForbidden, KindForbidden},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, KindUnauthenticated},
		{"expired", ErrTokenExpired, http.StatusUnauthorized, KindUnauthenticated},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, KindStoreFailure},
		{"already app error", RateLimitedError(3), http.StatusTooManyRequests, KindRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err, "book")
			assert.Equal(t, tt.status, appErr.Status)
			assert.Equal(t, tt.kind, appErr.Kind)
		})
	}
}

func TestNotFoundMessageNamesResource(t *testing.T) {
	appErr := ToAppError(ErrNotFound, "book")
	assert.Equal(t, "book not found", appErr.Message)
}

func TestJSONErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	JSONError(rec, InvalidStateError("only approved books can be returned"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, KindInvalidState, body.Kind)
	assert.Equal(t, "only approved books can be returned", body.Message)
}

func TestStoreFailureMessageExposure(t *testing.T) {
	t.Cleanup(func() { SetExposeStoreErrors(true) })

	cause := errors.New("relation books does not exist")

	SetExposeStoreErrors(true)
	exposed := ToAppError(cause, "book")
	assert.Equal(t, cause.Error(), exposed.Message)
	assert.ErrorIs(t, exposed, ErrStoreFailure)

	SetExposeStoreErrors(false)
	hidden := ToAppError(cause, "book")
	assert.Equal(t, "internal server error", hidden.Message)
}
