package payments

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
)

// minorUnitExponent is the number of decimal places between major and minor
// units (two for cent-based currencies).
const minorUnitExponent = 2

var minorUnitFactor = decimal.New(1, minorUnitExponent)

// ToMinorUnits converts a major-unit amount into integer minor units,
// rounding to the nearest unit. The amount must be strictly positive.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a positive value")
	}
	minor := amount.Mul(minorUnitFactor).Round(0)
	if !minor.IsInteger() || !minor.BigInt().IsInt64() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount out of range")
	}
	return minor.IntPart(), nil
}

// ToMajorUnits converts integer minor units back to an exact major-unit
// decimal. ToMajorUnits(ToMinorUnits(x)) == x for any x with at most two
// decimal places.
func ToMajorUnits(minorUnits int64) decimal.Decimal {
	return decimal.New(minorUnits, -minorUnitExponent)
}
