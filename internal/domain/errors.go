package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404 or a warning flash, depending on the route.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, non-numeric odometer).
// Handlers should redisplay the form with a danger flash.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an operation conflicts with the current
// lifecycle state: finishing a trip that is not started, ending a work day
// that is not started, starting a work day while another is active, or an
// end odometer below the start odometer.
// Handlers should report it as a danger flash without applying any mutation.
var ErrConflict = errors.New("conflict")
