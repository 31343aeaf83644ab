package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/churchmanager/scheduler/internal/app/models"
	"github.com/churchmanager/scheduler/internal/pkg/apperrors"
)

// ParseDate parses a YYYY-MM-DD date as UTC midnight
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidationFailed, value)
	}
	return d, nil
}

// ParseOptionalDate returns nil for an empty value
func ParseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseDates parses every value, failing on the first invalid one
func ParseDates(values []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := ParseDate(v)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// ParseUUID parses an identifier, reporting name in the error
func ParseUUID(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s %q", apperrors.ErrValidationFailed, name, value)
	}
	return id, nil
}

// ParseOptionalUUID returns nil for an empty value
func ParseOptionalUUID(name, value string) (*uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := ParseUUID(name, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// DateRange parses start and end and checks their order
func DateRange(start, end string) (time.Time, time.Time, error) {
	s, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date must be after or equal to start date", apperrors.ErrValidationFailed)
	}
	return s, e, nil
}
