package handler

import (
	"errors"
	"strings"

	"github.com/pkordes/mileage-tracker/internal/domain"
)

// sentinel prefixes every layer stamps onto wrapped errors, e.g.
// "service.TripService.Finish: conflict: invalid trip ID or the trip is
// already completed". The flash should show only the human-readable tail.
var messagePrefixes = []string{
	"conflict: ",
	"validation error: ",
}

// userMessage extracts the user-facing part of a wrapped ErrConflict or
// ErrValidation. Falls back to a generic message for anything else so
// internal wrapping chains never leak to the browser.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	if !errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrValidation) {
		return "Something went wrong. Please try again."
	}

	msg := err.Error()
	for _, prefix := range messagePrefixes {
		if i := strings.LastIndex(msg, prefix); i >= 0 {
			return msg[i+len(prefix):]
		}
	}
	return msg
}

// isUserError reports whether err should be shown to the user as a flash
// rather than logged as a server failure.
func isUserError(err error) bool {
	return errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound)
}
