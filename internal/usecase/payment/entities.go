package payment

import (
	"time"

	domain "loan-ledger-service/internal/domain/payment"

	"github.com/shopspring/decimal"
)

type RecordInput struct {
	LoanID       string          `json:"loan_id"`
	Amount       decimal.Decimal `json:"amount"`
	PayerContact string          `json:"payer_contact"`
}

type PaymentDTO struct {
	PaymentID    string          `json:"payment_id"`
	LoanID       string          `json:"loan_id"`
	Amount       decimal.Decimal `json:"amount"`
	PayerContact string          `json:"payer_contact,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Receipt is the ledger state right after a payment was booked.
type Receipt struct {
	Payment            PaymentDTO      `json:"payment"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	Overpaid           bool            `json:"overpaid"`
	Settled            bool            `json:"settled"`
}

// Reconciliation compares a loan's stored amount paid with the sum of its payments.
type Reconciliation struct {
	LoanID        string          `json:"loan_id"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentsTotal decimal.Decimal `json:"payments_total"`
	PaymentCount  int             `json:"payment_count"`
	Drift         decimal.Decimal `json:"drift"`
	Consistent    bool            `json:"consistent"`
}

// toDTO needs the loan's public id; p.Loan is used when loanID is empty.
func toDTO(p *domain.Payment, loanID string) PaymentDTO {
	if loanID == "" && p.Loan != nil {
		loanID = p.Loan.LoanID
	}
	return PaymentDTO{
		PaymentID:    p.PaymentID,
		LoanID:       loanID,
		Amount:       p.Amount,
		PayerContact: p.PayerContact,
		CreatedAt:    p.CreatedAt,
	}
}
