// Package amortization computes fixed monthly payments for an amortizing loan.
//
// All arithmetic is decimal: the monthly rate and every intermediate product are
// rounded half-up to workScale fractional digits, so identical inputs give
// identical outputs everywhere.
package amortization

import (
	"loan-ledger-service/internal/domain/apperror"

	"github.com/shopspring/decimal"
)

const (
	workScale  int32 = 28
	moneyScale int32 = 2
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

func validate(principal, annualRate decimal.Decimal, termMonths int) error {
	if termMonths <= 0 {
		return apperror.New(apperror.KindInvalidTerm, "term_months", "must be greater than 0")
	}
	if annualRate.IsNegative() {
		return apperror.New(apperror.KindInvalidRate, "interest_rate", "must not be negative")
	}
	if !principal.IsPositive() {
		return apperror.New(apperror.KindInvalidPrincipal, "principal", "must be greater than 0")
	}
	return nil
}

// MonthlyRate is annualRate / 12 at working precision.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.DivRound(twelve, workScale)
}

// compound returns base^n by square-and-multiply, rounding every product.
func compound(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for n > 0 {
		if n%2 == 1 {
			result = result.Mul(base).Round(workScale)
		}
		n /= 2
		if n > 0 {
			base = base.Mul(base).Round(workScale)
		}
	}
	return result
}

// MonthlyPayment returns the fixed payment that retires principal over
// termMonths at annualRate (a fraction, 0.12 for 12%), rounded half-up to cents.
// A zero rate degrades to straight-line principal / termMonths.
func MonthlyPayment(principal, annualRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if err := validate(principal, annualRate, termMonths); err != nil {
		return decimal.Zero, err
	}
	n := decimal.NewFromInt(int64(termMonths))
	r := MonthlyRate(annualRate)
	if r.IsZero() {
		return principal.DivRound(n, workScale).Round(moneyScale), nil
	}
	f := compound(one.Add(r), termMonths)
	num := principal.Mul(r).Mul(f)
	return num.DivRound(f.Sub(one), workScale).Round(moneyScale), nil
}

// Installment is one row of a repayment schedule.
type Installment struct {
	Month     int             `json:"month"`
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"`
}

// Schedule expands the amortization into monthly rows. Interest is charged on
// the running balance; the final row pays off whatever cent drift remains so
// the closing balance is exactly zero.
func Schedule(principal, annualRate decimal.Decimal, termMonths int) ([]Installment, error) {
	payment, err := MonthlyPayment(principal, annualRate, termMonths)
	if err != nil {
		return nil, err
	}
	r := MonthlyRate(annualRate)
	balance := principal
	rows := make([]Installment, 0, termMonths)
	for m := 1; m <= termMonths; m++ {
		interest := balance.Mul(r).Round(moneyScale)
		princ := payment.Sub(interest)
		pay := payment
		if m == termMonths || princ.GreaterThan(balance) {
			princ = balance
			pay = balance.Add(interest)
		}
		balance = balance.Sub(princ)
		rows = append(rows, Installment{
			Month:     m,
			Payment:   pay,
			Principal: princ,
			Interest:  interest,
			Balance:   balance,
		})
		if balance.IsZero() {
			break
		}
	}
	return rows, nil
}
