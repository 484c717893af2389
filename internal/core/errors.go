// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrRateLimited  = errors.New("rate limited")
	ErrStoreFailure = errors.New("store failure")
)

// Kind is the stable machine-readable half of every error body.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInvalidState    Kind = "invalid_state"
	KindValidation      Kind = "validation"
	KindRateLimited     Kind = "rate_limited"
	KindStoreFailure    Kind = "store_failure"
)

type AppError struct {
	Err     error
	Message string
	Status  int
	Kind    Kind
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, kind Kind) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Status:  status,
		Kind:    kind,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, KindUnauthenticated)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, KindForbidden)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		KindNotFound,
	)
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrDuplicateKey, message, http.StatusBadRequest, KindConflict)
}

func DuplicateError(field string) *AppError {
	return ConflictError(field + " already exists")
}

func InvalidStateError(message string) *AppError {
	return NewAppError(ErrInvalidState, message, http.StatusBadRequest, KindInvalidState)
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, KindValidation)
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "token expired", http.StatusUnauthorized, KindUnauthenticated)
}

func RateLimitedError(retryAfterSeconds int) *AppError {
	return NewAppError(
		ErrRateLimited,
		fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfterSeconds),
		http.StatusTooManyRequests,
		KindRateLimited,
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "invalid token", http.StatusUnauthorized, KindUnauthenticated)
}

func StoreFailureError(err error, expose bool) *AppError {
	message := "internal server error"
	if expose && err != nil {
		message = err.Error()
	}
	return NewAppError(
		fmt.Errorf("%w: %w", ErrStoreFailure, err),
		message,
		http.StatusInternalServerError,
		KindStoreFailure,
	)
}

// ToAppError maps the sentinel taxonomy onto its HTTP shape. Anything
// unrecognised is a store failure.
func ToAppError(err error, resource string) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFoundError(resource)
	case errors.Is(err, ErrDuplicateKey):
		return DuplicateError(resource)
	case errors.Is(err, ErrInvalidState):
		return InvalidStateError("invalid state transition")
	case errors.Is(err, ErrInvalidInput):
		return ValidationError("invalid input")
	case errors.Is(err, ErrForbidden):
		return ForbiddenError("")
	case errors.Is(err, ErrUnauthorized):
		return UnauthorizedError("")
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	default:
		return StoreFailureError(err, exposeStoreErrors)
	}
}
