package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	errors "github.com/frahmantamala/calong-tick/internal"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DateLayout = "2006-01-02"

var (
	once     sync.Once
	validate *validator.Validate

	pinPattern = regexp.MustCompile(`^[0-9]{6}$`)
)

// Validator returns the shared validator with json tag names and the
// domain tags (pin, date) registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
			return IsPin(fl.Field().String())
		})
		_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(DateLayout, fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// Struct validates s and converts any failures into a single validation
// AppError carrying one detail per offending field.
func Struct(s interface{}) *errors.AppError {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	return MapValidationError(err)
}

func MapValidationError(err error) *errors.AppError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.ErrInvalidInput.WithCause(err)
	}

	details := make([]errors.ValidationError, 0, len(verrs))
	for _, e := range verrs {
		details = append(details, errors.ValidationError{
			Field:   e.Field(),
			Message: messageFor(e),
			Code:    string(codeFor(e)),
		})
	}

	return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
		WithDetails(errors.ValidationErrors{Errors: details})
}

func IsPin(s string) bool {
	return pinPattern.MatchString(s)
}

// ParseTimestamp parses an RFC 3339 instant supplied under field.
func ParseTimestamp(field, value string) (time.Time, *errors.AppError) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fieldError(field,
			fmt.Sprintf("%s must be an ISO 8601 timestamp", formatFieldName(field)),
			errors.ErrCodeInvalidTimestamp)
	}
	return t, nil
}

// ParseDate parses a YYYY-MM-DD calendar date supplied under field.
func ParseDate(field, value string) (time.Time, *errors.AppError) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fieldError(field,
			fmt.Sprintf("%s must be a date in YYYY-MM-DD format", formatFieldName(field)),
			errors.ErrCodeInvalidDate)
	}
	return t, nil
}

// DateRange parses start and end dates and rejects a range that ends
// before it starts.
func DateRange(start, end string) (time.Time, time.Time, *errors.AppError) {
	from, appErr := ParseDate("start_date", start)
	if appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}
	to, appErr := ParseDate("end_date", end)
	if appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fieldError("end_date", "End Date must not be before Start Date", errors.ErrCodeInvalidDate)
	}
	return from, to, nil
}

// fieldError is a single-field validation failure whose top-level code is
// the specific one, so callers can match it with errors.Is.
func fieldError(field, message string, code errors.ErrorCode) *errors.AppError {
	appErr := errors.NewValidationFieldError(field, message, code)
	appErr.Code = code
	return appErr
}

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

func messageFor(e validator.FieldError) string {
	field := formatFieldName(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "pin":
		return fmt.Sprintf("%s must be a 6-digit number", field)
	case "date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(e.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min", "gte":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max", "lte":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func codeFor(e validator.FieldError) errors.ErrorCode {
	switch e.Tag() {
	case "date":
		return errors.ErrCodeInvalidDate
	case "required":
		return errors.ErrCodeValidationFailed
	default:
		return errors.ErrCodeInvalidInput
	}
}
