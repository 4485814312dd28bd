package report

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/frahmantamala/calong-tick/internal"
	"github.com/frahmantamala/calong-tick/internal/core/common/validation"
)

func (f Filter) Validate() error {
	if err := validation.Struct(f); err != nil {
		return err
	}
	return nil
}

// ParseFilter reads the summary filter from URL query values.
func ParseFilter(values url.Values) (Filter, error) {
	var f Filter

	if v := strings.TrimSpace(values.Get("employee_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return f, internal.NewValidationFieldError("employee_id", "Employee Id must be a positive integer", internal.ErrCodeInvalidID)
		}
		f.EmployeeID = &id
	}

	f.Period = strings.ToLower(strings.TrimSpace(values.Get("period")))

	for _, p := range []struct {
		key string
		dst **int
	}{{"week", &f.Week}, {"month", &f.Month}, {"year", &f.Year}} {
		v := strings.TrimSpace(values.Get(p.key))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, internal.NewValidationFieldError(p.key, p.key+" must be an integer", internal.ErrCodeInvalidInput)
		}
		*p.dst = &n
	}

	return f, f.Validate()
}
