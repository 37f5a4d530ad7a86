package service

import (
	"errors"

	"github.com/pkordes/mileage-tracker/internal/domain"
)

// isNotFound reports whether err wraps domain.ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
