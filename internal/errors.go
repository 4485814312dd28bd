package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidTimestamp ErrorCode = "INVALID_TIMESTAMP"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"

	ErrCodeEmployeeNotFound  ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeTimeEntryNotFound ErrorCode = "TIME_ENTRY_NOT_FOUND"
	ErrCodeAdminNotFound     ErrorCode = "ADMIN_NOT_FOUND"

	ErrCodeAlreadyClockedIn       ErrorCode = "ALREADY_CLOCKED_IN"
	ErrCodeNoOpenEntry            ErrorCode = "NO_OPEN_ENTRY"
	ErrCodePinInUse               ErrorCode = "PIN_IN_USE"
	ErrCodeAdminDuplicate         ErrorCode = "ADMIN_DUPLICATE"
	ErrCodePinAllocationExhausted ErrorCode = "PIN_ALLOCATION_EXHAUSTED"

	ErrCodeAdminExists       ErrorCode = "ADMIN_EXISTS"
	ErrCodeEntryAccessDenied ErrorCode = "ENTRY_ACCESS_DENIED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidPin         ErrorCode = "INVALID_PIN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so wrapped copies of the package sentinels still
// satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// WithCause returns a copy so shared sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrInvalidInput     = NewValidationError("Invalid input", ErrCodeInvalidInput)
	ErrInvalidTimestamp = NewValidationError("Invalid date format. Use ISO 8601 timestamps", ErrCodeInvalidTimestamp)

	ErrEmployeeNotFound  = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrTimeEntryNotFound = NewNotFoundError("Time entry not found", ErrCodeTimeEntryNotFound)
	ErrAdminNotFound     = NewNotFoundError("Admin not found", ErrCodeAdminNotFound)

	ErrAlreadyClockedIn       = NewConflictError("Already clocked in. Please clock out first.", ErrCodeAlreadyClockedIn)
	ErrNoOpenEntry            = NewConflictError("No active clock-in found", ErrCodeNoOpenEntry)
	ErrPinInUse               = NewConflictError("PIN already in use by another employee", ErrCodePinInUse)
	ErrAdminDuplicate         = NewConflictError("Username or email already exists", ErrCodeAdminDuplicate)
	ErrPinAllocationExhausted = NewConflictError("Could not allocate a unique PIN", ErrCodePinAllocationExhausted)

	ErrAdminExists       = NewForbiddenError("Admin already exists. Only one admin is allowed.", ErrCodeAdminExists)
	ErrEntryAccessDenied = NewForbiddenError("You can only manage your own time entries", ErrCodeEntryAccessDenied)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid credentials", ErrCodeInvalidCredentials)
	ErrInvalidPin         = NewUnauthorizedError("Invalid PIN", ErrCodeInvalidPin)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
