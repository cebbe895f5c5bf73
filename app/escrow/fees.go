package escrow

import (
	"math"
	"os"
	"strconv"
)

// FeePolicy computes the platform charge deducted from the seller payout.
// The transaction amount always stays equal to the offer amount; the
// charge is carried separately on the transaction row.
type FeePolicy struct {
	Percent float64
	Flat    int64
}

// DefaultFeePolicy is applied when no fee settings are configured.
var DefaultFeePolicy = FeePolicy{Percent: 1.5, Flat: 0}

// LoadFeePolicy reads ESCROW_FEE_PERCENT and ESCROW_FEE_FLAT from the
// environment, falling back to DefaultFeePolicy per field.
func LoadFeePolicy() FeePolicy {
	p := DefaultFeePolicy
	if v := os.Getenv("ESCROW_FEE_PERCENT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			p.Percent = f
		}
	}
	if v := os.Getenv("ESCROW_FEE_FLAT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			p.Flat = n
		}
	}
	return p
}

// Charge returns the fee in minor units for an offer amount, rounded to
// the nearest unit and never exceeding the amount itself.
func (p FeePolicy) Charge(amount int64) int64 {
	charge := int64(math.Round(float64(amount)*p.Percent/100)) + p.Flat
	if charge > amount {
		charge = amount
	}
	if charge < 0 {
		charge = 0
	}
	return charge
}
