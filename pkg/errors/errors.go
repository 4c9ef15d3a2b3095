package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError carries an HTTP-shaped status code so transport layers can map
// failures without re-classifying them.
type StatusError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("status %d: %s: %s", e.Code, e.Message, e.Reason)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

func NewStatusError(code int, message string) *StatusError {
	return &StatusError{
		Code:    code,
		Message: message,
	}
}

func (e *StatusError) WithReason(reason string) *StatusError {
	return &StatusError{
		Code:    e.Code,
		Message: e.Message,
		Reason:  reason,
	}
}

// NewNoContentError marks an operation that was a harmless no-op.
func NewNoContentError(message string) *StatusError {
	return NewStatusError(http.StatusNoContent, message)
}

// NewValidationError marks malformed or non-conforming input.
func NewValidationError(message string) *StatusError {
	return NewStatusError(http.StatusBadRequest, message)
}

// NewAuthError marks a requester that is not authenticated or not authorized.
func NewAuthError(message string) *StatusError {
	return NewStatusError(http.StatusUnauthorized, message)
}

// NewForbiddenError marks a valid request that conflicts with a data
// constraint, e.g. a composite-uniqueness clash.
func NewForbiddenError(message string) *StatusError {
	return NewStatusError(http.StatusForbidden, message)
}

// NewNotFoundError marks an absent referenced document.
func NewNotFoundError(message string) *StatusError {
	return NewStatusError(http.StatusNotFound, message)
}

// NewLogicError marks a well-formed request whose data is semantically
// invalid per domain rules.
func NewLogicError(message string) *StatusError {
	return NewStatusError(http.StatusTeapot, message)
}

// NewDependencyError marks a failed downstream call.
func NewDependencyError(message string) *StatusError {
	return NewStatusError(http.StatusFailedDependency, message)
}

// NewInternalError marks a programming or configuration defect, e.g. a
// malformed validation rule. Never downgrade these to validation errors.
func NewInternalError(message string) *StatusError {
	return NewStatusError(http.StatusInternalServerError, message)
}

// NewServiceError marks a required collaborator that is unavailable.
func NewServiceError(message string) *StatusError {
	return NewStatusError(http.StatusServiceUnavailable, message)
}

// CodeOf returns the status code of err, or 0 when err is not a StatusError.
func CodeOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

func IsNoContent(err error) bool  { return CodeOf(err) == http.StatusNoContent }
func IsValidation(err error) bool { return CodeOf(err) == http.StatusBadRequest }
func IsAuth(err error) bool       { return CodeOf(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool  { return CodeOf(err) == http.StatusForbidden }
func IsNotFound(err error) bool   { return CodeOf(err) == http.StatusNotFound }
func IsLogic(err error) bool      { return CodeOf(err) == http.StatusTeapot }
func IsDependency(err error) bool { return CodeOf(err) == http.StatusFailedDependency }
func IsInternal(err error) bool   { return CodeOf(err) == http.StatusInternalServerError }
func IsService(err error) bool    { return CodeOf(err) == http.StatusServiceUnavailable }
