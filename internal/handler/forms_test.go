package handler

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mileage-tracker/internal/domain"
)

func TestFloatField(t *testing.T) {
	v, err := floatField(url.Values{"odometer_start": {"1000.5"}}, "odometer_start")
	require.NoError(t, err)
	assert.Equal(t, 1000.5, v)

	_, err = floatField(url.Values{"odometer_start": {"abc"}}, "odometer_start")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "odometer_start")

	_, err = floatField(url.Values{}, "odometer_start")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestOptFloatField(t *testing.T) {
	v, err := optFloatField(url.Values{"miles": {"42.5"}}, "miles")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 42.5, *v)

	v, err = optFloatField(url.Values{}, "miles")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = optFloatField(url.Values{"miles": {"forty"}}, "miles")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestOptIntField(t *testing.T) {
	v, err := optIntField(url.Values{"start_odo": {"1000"}}, "start_odo")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 1000, *v)

	v, err = optIntField(url.Values{"start_odo": {""}}, "start_odo")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = optIntField(url.Values{"start_odo": {"10.5"}}, "start_odo")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestOptStringField(t *testing.T) {
	v := optStringField(url.Values{"start_location": {"Office"}}, "start_location")
	require.NotNil(t, v)
	assert.Equal(t, "Office", *v)

	assert.Nil(t, optStringField(url.Values{}, "start_location"))
}

func TestDateField(t *testing.T) {
	d, err := dateField(url.Values{"day": {"2026-03-14"}}, "day")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC), d)

	// Blank defaults to today at midnight UTC.
	d, err = dateField(url.Values{}, "day")
	require.NoError(t, err)
	now := time.Now().UTC()
	assert.Equal(t, now.Year(), d.Year())
	assert.Equal(t, now.Month(), d.Month())
	assert.Zero(t, d.Hour())

	_, err = dateField(url.Values{"day": {"03/14/2026"}}, "day")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestIntQueryParam(t *testing.T) {
	assert.Equal(t, 2025, intQueryParam(url.Values{"year": {"2025"}}, "year", 2026))
	assert.Equal(t, 2026, intQueryParam(url.Values{}, "year", 2026))
	assert.Equal(t, 2026, intQueryParam(url.Values{"year": {"not-a-year"}}, "year", 2026))
}
