package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkDay lifecycle states.
const (
	WorkDayStarted = "started"
	WorkDayEnded   = "ended"
)

// DefaultUserID marks rows for the single user of this tracker.
// Kept as a column so a later multi-user migration does not need a rewrite.
const DefaultUserID = 1

// WorkDay represents one shift: a calendar day with optional odometer
// readings and an ordered list of named stop segments.
// At most one WorkDay may be in the started state at any time.
type WorkDay struct {
	ID              uuid.UUID
	UserID          int
	Day             time.Time // date only; time component is always midnight UTC
	Status          string
	StartOdo        *int
	EndOdo          *int
	TotalMiles      *int // manual override when odometers were not recorded
	StartLocation   *string
	TripExplanation *string
	Segments        []WorkSegment // ordered by Seq ascending
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WorkSegment is a single named stop within a work day. Seq defines the
// traversal order; overwriting a day's segments renumbers from zero.
type WorkSegment struct {
	ID           uuid.UUID
	WorkDayID    uuid.UUID
	Seq          int
	LocationName string
}

// ComputeTotalMiles prefers end-start when both odometers are present
// (never negative); otherwise the manual total; otherwise zero.
func (d WorkDay) ComputeTotalMiles() int {
	if d.StartOdo != nil && d.EndOdo != nil {
		if m := *d.EndOdo - *d.StartOdo; m > 0 {
			return m
		}
		return 0
	}
	if d.TotalMiles != nil {
		return *d.TotalMiles
	}
	return 0
}

// SegmentPath joins the segment names in sequence order into the
// human-readable path shown in lists and exports ("Office to Depot to Home").
func (d WorkDay) SegmentPath() string {
	names := make([]string, 0, len(d.Segments))
	for _, s := range d.Segments {
		names = append(names, s.LocationName)
	}
	return strings.Join(names, " to ")
}
