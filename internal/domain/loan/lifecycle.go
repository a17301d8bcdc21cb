package loan

import (
	"time"

	"loan-ledger-service/internal/domain/amortization"
	"loan-ledger-service/internal/domain/apperror"
	"loan-ledger-service/pkg/id"

	"github.com/shopspring/decimal"
)

// Draft carries the applicant-supplied fields of a new application.
type Draft struct {
	LoanType        Type
	RequestedAmount decimal.Decimal
	AssetsValue     decimal.NullDecimal
	MonthlyIncome   decimal.NullDecimal
	Sponsor         Sponsor
}

// NewApplication validates d and returns a pending loan owned by ownerID.
// Nothing is persisted.
func NewApplication(ownerID uint64, d Draft, now time.Time) (*Loan, error) {
	if ownerID == 0 {
		return nil, apperror.Validation("applicant", "is required")
	}
	if !d.LoanType.Valid() {
		return nil, apperror.Validation("loan_type", "must be one of home, car, education, business")
	}
	if err := CheckAmount("requested_amount", d.RequestedAmount); err != nil {
		return nil, err
	}
	if err := checkOptionalMoney("assets_value", d.AssetsValue); err != nil {
		return nil, err
	}
	if err := checkOptionalMoney("monthly_income", d.MonthlyIncome); err != nil {
		return nil, err
	}
	now = now.UTC()
	return &Loan{
		LoanID:          id.NewID32(),
		ApplicantID:     ownerID,
		LoanType:        d.LoanType,
		RequestedAmount: d.RequestedAmount,
		AmountPaid:      decimal.Zero,
		Status:          StatusPending,
		AssetsValue:     d.AssetsValue,
		MonthlyIncome:   d.MonthlyIncome,
		Sponsor:         d.Sponsor,
		StatusUpdatedAt: now,
		CreatedAt:       now,
	}, nil
}

// Terms are the administrator's approval parameters. Missing values are
// reported as validation errors.
type Terms struct {
	ApprovedAmount decimal.NullDecimal
	AnnualRate     decimal.NullDecimal
	TermMonths     *int
}

// validate also rejects values the loan columns would round, so the stored
// rate is the one the monthly payment was computed from.
func (t Terms) validate() error {
	if !t.ApprovedAmount.Valid {
		return apperror.Validation("approved_amount", "is required")
	}
	if err := CheckAmount("approved_amount", t.ApprovedAmount.Decimal); err != nil {
		return err
	}
	if !t.AnnualRate.Valid {
		return apperror.Validation("interest_rate", "is required")
	}
	if err := CheckRate("interest_rate", t.AnnualRate.Decimal); err != nil {
		return err
	}
	switch {
	case t.TermMonths == nil:
		return apperror.Validation("term_months", "is required")
	case *t.TermMonths <= 0:
		return apperror.Validation("term_months", "must be greater than 0")
	}
	return nil
}

// CanDecide reports whether the loan's current status admits the decision.
// It looks at neither the caller nor the terms.
func (l *Loan) CanDecide(to Status) error {
	switch to {
	case StatusApproved:
		if l.Status != StatusPending {
			return apperror.IllegalTransition("cannot approve a loan in status " + string(l.Status))
		}
	case StatusRejected:
		if l.Status != StatusPending {
			return apperror.IllegalTransition("cannot reject a loan in status " + string(l.Status))
		}
	case StatusContractRejected:
		return l.canRejectContract()
	default:
		return apperror.Validation("decision", "must be one of approved, rejected, contract_rejected")
	}
	return nil
}

// Decide applies an administrative decision. Every check runs before the first
// field is written, so a failed decision leaves l untouched.
func (l *Loan) Decide(to Status, t Terms, now time.Time) error {
	if err := l.CanDecide(to); err != nil {
		return err
	}
	switch to {
	case StatusApproved:
		return l.approve(t, now)
	case StatusRejected:
		l.setStatus(StatusRejected, now)
		return nil
	}
	return l.rejectContract(now)
}

func (l *Loan) approve(t Terms, now time.Time) error {
	if err := t.validate(); err != nil {
		return err
	}
	payment, err := amortization.MonthlyPayment(t.ApprovedAmount.Decimal, t.AnnualRate.Decimal, *t.TermMonths)
	if err != nil {
		return err
	}
	term := *t.TermMonths
	l.ApprovedAmount = t.ApprovedAmount
	l.InterestRate = t.AnnualRate
	l.TermMonths = &term
	l.MonthlyPayment = decimal.NewNullDecimal(payment)
	l.OutstandingBalance = decimal.NewNullDecimal(t.ApprovedAmount.Decimal)
	l.setStatus(StatusApproved, now)
	return nil
}

func (l *Loan) canRejectContract() error {
	if l.Status != StatusApproved {
		return apperror.IllegalTransition("cannot reject the contract of a loan in status " + string(l.Status))
	}
	if l.ContractAccepted != nil && *l.ContractAccepted {
		return apperror.IllegalTransition("contract already accepted")
	}
	return nil
}

func (l *Loan) rejectContract(now time.Time) error {
	if err := l.canRejectContract(); err != nil {
		return err
	}
	declined := false
	l.ContractAccepted = &declined
	l.setStatus(StatusContractRejected, now)
	return nil
}

// RespondToContract records the applicant's answer to the offered terms.
// Declining is the approved -> contract_rejected transition.
func (l *Loan) RespondToContract(accept bool, now time.Time) error {
	if !accept {
		return l.rejectContract(now)
	}
	if l.Status != StatusApproved {
		return apperror.IllegalTransition("cannot accept the contract of a loan in status " + string(l.Status))
	}
	if l.ContractAccepted != nil {
		return apperror.IllegalTransition("contract already answered")
	}
	accepted := true
	l.ContractAccepted = &accepted
	return nil
}

func (l *Loan) setStatus(s Status, now time.Time) {
	l.Status = s
	l.StatusUpdatedAt = now.UTC()
}

// PaymentEffect is the ledger outcome of one payment.
type PaymentEffect struct {
	Applied            decimal.Decimal
	AmountPaid         decimal.Decimal
	OutstandingBalance decimal.Decimal
	// Overpaid is set when the payment exceeded the remaining balance; the full
	// amount is still booked.
	Overpaid bool
}

// ApplyPayment books amount against the loan: amount paid grows by the full
// amount, the outstanding balance shrinks and is clamped at zero.
func (l *Loan) ApplyPayment(amount decimal.Decimal) (PaymentEffect, error) {
	if err := CheckAmount("amount", amount); err != nil {
		return PaymentEffect{}, err
	}
	if l.Status != StatusApproved || !l.OutstandingBalance.Valid {
		return PaymentEffect{}, apperror.New(apperror.KindLoanNotPayable, "status", "loan in status "+string(l.Status)+" does not accept payments")
	}
	balance := l.OutstandingBalance.Decimal.Sub(amount)
	overpaid := balance.IsNegative()
	if overpaid {
		balance = decimal.Zero
	}
	l.AmountPaid = l.AmountPaid.Add(amount)
	l.OutstandingBalance = decimal.NewNullDecimal(balance)
	return PaymentEffect{
		Applied:            amount,
		AmountPaid:         l.AmountPaid,
		OutstandingBalance: balance,
		Overpaid:           overpaid,
	}, nil
}
