package ledger

import (
	"errors"
	"fmt"
	"time"

	"landtoken-backend/internal/domain"
)

var (
	ErrAssetNotFound  = errors.New("Asset not found")
	ErrInvalidAmount  = errors.New("Amount must be a positive number")
	ErrSelfTransfer   = errors.New("Cannot transfer to the same holder")
	ErrAssetNotActive = errors.New("Transfers are locked until the asset is verified")
)

// InsufficientBalanceError is returned when a transfer or burn exceeds the
// sender's balance.
type InsufficientBalanceError struct {
	Requested domain.TokenAmount
	Available domain.TokenAmount
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient balance: requested %s, available %s", e.Requested, e.Available)
}

// OwnerLockError is returned when the original owner would drop below the
// ownership floor inside the lock window.
type OwnerLockError struct {
	Floor       domain.TokenAmount
	Balance     domain.TokenAmount
	Requested   domain.TokenAmount
	LockedUntil time.Time
}

func (e *OwnerLockError) Error() string {
	return fmt.Sprintf("Owner lock active: balance %s minus %s would fall below floor %s (locked until %s)",
		e.Balance, e.Requested, e.Floor, e.LockedUntil.UTC().Format(time.RFC3339))
}
