package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/mileage-tracker/internal/domain"
)

// Form parsing helpers. Every stringly-typed field is coerced exactly once
// here, at the boundary; failures come back as domain.ErrValidation with a
// message naming the field, which the handlers surface as a danger flash.

// floatField parses a required numeric field.
func floatField(form url.Values, name string) (float64, error) {
	v, err := strconv.ParseFloat(form.Get(name), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a numeric value", domain.ErrValidation, name)
	}
	return v, nil
}

// optFloatField parses an optional numeric field; blank means nil.
func optFloatField(form url.Values, name string) (*float64, error) {
	raw := form.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a numeric value", domain.ErrValidation, name)
	}
	return &v, nil
}

// optIntField parses an optional integer field; blank means nil.
func optIntField(form url.Values, name string) (*int, error) {
	raw := form.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a whole number", domain.ErrValidation, name)
	}
	return &v, nil
}

// optStringField returns a pointer to the trimmed-nothing raw value,
// or nil when the field is blank.
func optStringField(form url.Values, name string) *string {
	raw := form.Get(name)
	if raw == "" {
		return nil
	}
	return &raw
}

// dateField parses an optional "2006-01-02" field, defaulting to today.
func dateField(form url.Values, name string) (time.Time, error) {
	raw := form.Get(name)
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", domain.ErrValidation, name)
	}
	return d, nil
}

// idFormField parses the posted trip_id field as a UUID.
func idFormField(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PostForm.Get("trip_id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: trip_id must be a valid identifier", domain.ErrValidation)
	}
	return id, nil
}

// intQueryParam parses an integer query parameter, using fallback when the
// parameter is absent or malformed.
func intQueryParam(form url.Values, name string, fallback int) int {
	v, err := strconv.Atoi(form.Get(name))
	if err != nil {
		return fallback
	}
	return v
}
