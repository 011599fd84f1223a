package service

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	appErrors "github.com/noah-isme/slp-caseload/pkg/errors"
)

const dateLayout = "2006-01-02"

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"}

// parseDate parses a YYYY-MM-DD form value.
func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrInvalidDateTime.Code, appErrors.ErrInvalidDateTime.Status, appErrors.ErrInvalidDateTime.Message)
	}
	return t, nil
}

// parseOptionalDate treats blank input as absent.
func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseClock accepts 24-hour HH:MM[:SS] or 12-hour "3:04 PM" times.
func parseClock(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, appErrors.Clone(appErrors.ErrInvalidDateTime, appErrors.ErrInvalidDateTime.Message)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// lookupError maps sql.ErrNoRows to a 404 and anything else to a 500.
func lookupError(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return internalError(err, "failed to load "+what)
}

// mutationError is lookupError for writes.
func mutationError(err error, what, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return internalError(err, "failed to "+action+" "+what)
}

func optionalString(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
