package minter

import (
	"errors"
	"math"

	"landtoken-backend/internal/domain"
)

// Allocation split: 51% to the owner, 2.5% platform fee, the rest (including
// the integer-division remainder) to the public share. The three shares always
// sum exactly to TotalSupply.
const (
	ownerShareNum = 51
	ownerShareDen = 100
	platformNum   = 25
	platformDen   = 1000
)

var ErrInvalidValuation = errors.New("Valuation must yield at least one token")

// Allocation is the fixed token split derived from a valuation.
type Allocation struct {
	TotalSupply domain.TokenAmount `json:"total_supply"`
	OwnerShare  domain.TokenAmount `json:"owner_share"`
	PlatformFee domain.TokenAmount `json:"platform_fee"`
	PublicShare domain.TokenAmount `json:"public_share"`
}

// ComputeAllocation derives the split: totalSupply = floor(valuation/unitPrice)
// whole tokens in 18-decimal base units, owner and fee shares floored, public
// share absorbing the remainder.
func ComputeAllocation(valuation, unitPrice float64) (Allocation, error) {
	if valuation <= 0 || unitPrice <= 0 {
		return Allocation{}, ErrInvalidValuation
	}
	whole := int64(math.Floor(valuation / unitPrice))
	if whole <= 0 {
		return Allocation{}, ErrInvalidValuation
	}

	total := domain.WholeTokens(whole)
	owner := total.Percent(ownerShareNum, ownerShareDen)
	fee := total.Percent(platformNum, platformDen)
	public := total.Sub(owner).Sub(fee)

	return Allocation{
		TotalSupply: total,
		OwnerShare:  owner,
		PlatformFee: fee,
		PublicShare: public,
	}, nil
}
