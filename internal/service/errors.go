package service

import (
	"errors"
	"fmt"
)

var (
	ErrMissingPhone           = errors.New("phone is required")
	ErrInvalidPhone           = errors.New("phone must be an australian mobile number")
	ErrBotSuspected           = errors.New("submission rejected")
	ErrPersistence            = errors.New("failed to save signup")
	ErrPersistenceUnavailable = errors.New("persistence is not configured")
)

// DeliveryError is returned when a message of a sequence exhausts its retry budget.
// Messages before Index were delivered; messages after it were never attempted.
type DeliveryError struct {
	Index    int
	Attempts int
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("message %d failed after %d attempts: %v", e.Index+1, e.Attempts, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
