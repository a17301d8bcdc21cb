package loan

import (
	"loan-ledger-service/internal/domain/apperror"

	"github.com/shopspring/decimal"
)

// Column limits: money is decimal(18,2), interest_rate decimal(9,6).
const (
	MoneyPlaces = 2
	RatePlaces  = 6
)

var (
	moneyLimit = decimal.New(1, 16)
	rateLimit  = decimal.New(1, 3)
)

func fitsPlaces(d decimal.Decimal, places int32) bool { return d.Equal(d.Round(places)) }

// CheckAmount validates a strictly positive money value that must be stored
// without rounding.
func CheckAmount(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return apperror.Validation(field, "must be greater than 0")
	}
	return checkMoney(field, d)
}

func checkOptionalMoney(field string, d decimal.NullDecimal) error {
	if !d.Valid {
		return nil
	}
	if d.Decimal.IsNegative() {
		return apperror.Validation(field, "must not be negative")
	}
	return checkMoney(field, d.Decimal)
}

func checkMoney(field string, d decimal.Decimal) error {
	if !fitsPlaces(d, MoneyPlaces) {
		return apperror.Validation(field, "must have at most 2 decimal places")
	}
	if d.Abs().GreaterThanOrEqual(moneyLimit) {
		return apperror.Validation(field, "must be less than "+moneyLimit.String())
	}
	return nil
}

// CheckRate validates an annual rate (fraction, 0.1 = 10%).
func CheckRate(field string, d decimal.Decimal) error {
	switch {
	case d.IsNegative():
		return apperror.Validation(field, "must not be negative")
	case !fitsPlaces(d, RatePlaces):
		return apperror.Validation(field, "must have at most 6 decimal places")
	case d.GreaterThanOrEqual(rateLimit):
		return apperror.Validation(field, "must be less than "+rateLimit.String())
	}
	return nil
}
