package domain

import (
	"time"

	"github.com/google/uuid"
)

// PreparedTrip is a template for a future trip, filled in ahead of game day.
// Consuming it spawns a started Trip with these fields and deletes the
// template in the same transaction.
type PreparedTrip struct {
	ID           uuid.UUID
	Date         string
	Time         string
	Sport        string
	Venue        string
	HomeTeam     string
	AwayTeam     string
	ArchivedYear *int
	CreatedAt    time.Time
}
