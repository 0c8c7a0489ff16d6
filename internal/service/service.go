// Package service holds the storefront use cases on top of the repositories.
package service

import (
	"fmt"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
)

// invalid builds a validation error that callers can match with domain.ErrInvalidInput.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

type Clock func() time.Time
