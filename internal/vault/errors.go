package vault

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidAmount     = errors.New("Amount must be a positive number")
	ErrStakeNotFound     = errors.New("No stake account found")
	ErrNothingToWithdraw = errors.New("Stake balance is zero")
)

// InsufficientStakeError is returned when a release or slash asks for more
// than the owner's stake balance holds.
type InsufficientStakeError struct {
	Required  float64
	Available float64
}

func (e *InsufficientStakeError) Error() string {
	return fmt.Sprintf("Insufficient stake: required %.2f, available %.2f", e.Required, e.Available)
}

// InsufficientBonusPoolError is the solvency guard: a bonus payout larger than
// the pool's available balance is refused before any state changes.
type InsufficientBonusPoolError struct {
	Required  float64
	Available float64
}

func (e *InsufficientBonusPoolError) Error() string {
	return fmt.Sprintf("Insufficient bonus pool: required %.2f, available %.2f", e.Required, e.Available)
}

// EmergencyWindowError is returned when the self-service withdraw is attempted
// before the verification window plus grace period has elapsed.
type EmergencyWindowError struct {
	AvailableAt time.Time
}

func (e *EmergencyWindowError) Error() string {
	return fmt.Sprintf("Emergency withdraw not available until %s", e.AvailableAt.UTC().Format(time.RFC3339))
}
