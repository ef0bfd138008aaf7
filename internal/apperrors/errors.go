package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
// Cross-tenant lookups also resolve to this error so existence is never confirmed.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// It is a validation failure from the caller's point of view.
var ErrDuplicate = fmt.Errorf("%w: resource already exists", ErrValidation)

// ErrInvalidTransition indicates a lifecycle transition that is not allowed from the current status.
var ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrValidation)

// ErrForbidden indicates that the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrStaleState indicates that the persisted status or version changed since the caller read it.
var ErrStaleState = errors.New("stale document state")

// ErrUnbalancedLedger indicates that generated account lines do not balance.
var ErrUnbalancedLedger = errors.New("ledger is not balanced")

// ErrLocked indicates a mutation attempted on a frozen document.
var ErrLocked = errors.New("document is locked")

// ErrConflict indicates a generic state conflict.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// AppError carries an error kind together with enough structure to render a useful message.
type AppError struct {
	Code       int
	Message    string
	Field      string
	ResourceID string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with an explicit status code.
func NewAppError(code int, message string, err error) *AppError {
	if err == nil {
		err = ErrInternal
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationFailedError reports a malformed or conflicting input field.
func NewValidationFailedError(field, message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Field: field, Err: ErrValidation}
}

// NewDuplicateError reports a uniqueness violation on the given field.
func NewDuplicateError(field, value string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("%s '%s' already exists", field, value),
		Field:   field,
		Err:     ErrDuplicate,
	}
}

// NewInvalidTransitionError reports a transition outside the allowed predecessor set.
func NewInvalidTransitionError(resourceID, from, to string) *AppError {
	return &AppError{
		Code:       http.StatusBadRequest,
		Message:    fmt.Sprintf("cannot move from %s to %s", from, to),
		Field:      "status",
		ResourceID: resourceID,
		Err:        ErrInvalidTransition,
	}
}

// NewNotFoundError reports a missing (or invisible) resource.
func NewNotFoundError(resource, id string) *AppError {
	return &AppError{
		Code:       http.StatusNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		ResourceID: id,
		Err:        ErrNotFound,
	}
}

// NewForbiddenError reports a denied permission.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

// NewStaleStateError reports an optimistic concurrency failure.
func NewStaleStateError(resourceID, expected, actual string) *AppError {
	msg := "document was modified concurrently, re-fetch and retry"
	if expected != "" && actual != "" {
		msg = fmt.Sprintf("expected status %s but document is %s, re-fetch and retry", expected, actual)
	}
	return &AppError{
		Code:       http.StatusConflict,
		Message:    msg,
		Field:      "fromStatus",
		ResourceID: resourceID,
		Err:        ErrStaleState,
	}
}

// NewUnbalancedLedgerError reports a posting whose debits and credits differ.
func NewUnbalancedLedgerError(resourceID, debits, credits string) *AppError {
	return &AppError{
		Code:       http.StatusUnprocessableEntity,
		Message:    fmt.Sprintf("debits %s do not equal credits %s", debits, credits),
		ResourceID: resourceID,
		Err:        ErrUnbalancedLedger,
	}
}

// NewLockedError reports a mutation attempted on a document in a protected status.
func NewLockedError(resourceID, status string) *AppError {
	return &AppError{
		Code:       http.StatusLocked,
		Message:    fmt.Sprintf("document is %s and can no longer be modified", status),
		Field:      "status",
		ResourceID: resourceID,
		Err:        ErrLocked,
	}
}

// HTTPStatus maps an error to the response code used by the handlers.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrStaleState), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnbalancedLedger):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrLocked):
		return http.StatusLocked
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
