package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

// maxAmount mirrors the NUMERIC(14,2) column bound.
var maxAmount = decimal.RequireFromString("999999999999.99")

// ValidateAmount accepts strictly positive values with at most two fractional digits.
func ValidateAmount(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return apperr.Newf(apperr.KindValidation, "%s must be greater than zero", field)
	}

	return validateScale(field, d)
}

// ValidateBalance accepts zero or positive values with at most two fractional digits.
func ValidateBalance(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return apperr.Newf(apperr.KindValidation, "%s cannot be negative", field)
	}

	return validateScale(field, d)
}

func validateScale(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(2)) {
		return apperr.Newf(apperr.KindValidation, "%s has more than two decimal places", field)
	}

	if d.GreaterThan(maxAmount) {
		return apperr.Newf(apperr.KindValidation, "%s is too large", field)
	}

	return nil
}
