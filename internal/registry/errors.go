package registry

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound      = errors.New("Property record not found")
	ErrDuplicateRecord     = errors.New("Property is already registered")
	ErrIdentityBlacklisted = errors.New("Property identity is permanently blacklisted")
	ErrDecisionInProgress  = errors.New("A decision is already in progress for this record")
	ErrNotVerified         = errors.New("Asset reference missing on verified record")
	ErrInvalidSurveyNumber = errors.New("Survey number is required")
	ErrInvalidLocation     = errors.New("Location is required")
	ErrInvalidDocumentRef  = errors.New("Document reference is required")
	ErrInvalidCoordinates  = errors.New("Coordinates are out of range")
	ErrInvalidArea         = errors.New("Area must be a positive number")
	ErrInvalidValuation    = errors.New("Valuation must be a positive number")
	ErrInvalidRegisteredAt = errors.New("Registration date is required")
)

// InvalidTransitionError is returned for any transition outside the fixed
// table; terminal states are idempotently refused through it.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("Invalid status transition from %s to %s", e.From, e.To)
}

// CollateralShortfallError is returned when the pledged collateral is below
// the 5% minimum of the valuation.
type CollateralShortfallError struct {
	Required float64
	Pledged  float64
}

func (e *CollateralShortfallError) Error() string {
	return fmt.Sprintf("Collateral below minimum: required %.2f, pledged %.2f", e.Required, e.Pledged)
}
