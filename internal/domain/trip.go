// Package domain contains the core data types for the mileage tracker.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip lifecycle states. A trip is created started and transitions exactly
// once to completed, which is when the derived fields are filled in.
const (
	TripStarted   = "started"
	TripCompleted = "completed"
)

// Trip represents a single officiating assignment with odometer readings
// and payment. Date and Time stay strings ("2006-01-02", "15:04") because
// they are opaque form fields; only the year/month prefixes are ever parsed.
type Trip struct {
	ID            uuid.UUID
	Date          string
	Time          string
	Sport         string
	Venue         string
	HomeTeam      string
	AwayTeam      string
	OdometerStart float64
	OdometerEnd   *float64 // nil while started
	LevelOfPlay   *string  // nil while started
	Miles         *float64 // derived: OdometerEnd - OdometerStart, never clamped
	AmountPaid    *float64 // nil while started
	Status        string
	ArchivedYear  *int // nil means current; set by year archival
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Year returns the four-digit year prefix of the trip's date string,
// or 0 if the date does not parse.
func (t Trip) Year() int {
	d, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return 0
	}
	return d.Year()
}

// MonthName returns the English month name of the trip's date ("January"),
// or "" if the date does not parse. Used as the export sheet name.
func (t Trip) MonthName() string {
	d, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return ""
	}
	return d.Month().String()
}

// TripTotals is the aggregate over current completed trips shown on the
// totals page and the export summary sheet.
type TripTotals struct {
	Miles   float64
	Revenue float64
}
