package payment

import (
	"time"

	"loan-ledger-service/internal/domain/access"
	"loan-ledger-service/internal/domain/loan"

	"github.com/shopspring/decimal"
)

// Payment is an immutable ledger entry against a loan.
type Payment struct {
	ID           uint64          `gorm:"primaryKey;column:id"`
	PaymentID    string          `gorm:"column:payment_id;size:32;not null;uniqueIndex:ux_payments_payment_id"`
	LoanID       uint64          `gorm:"column:loan_id;not null;index:idx_payments_loan_created,priority:1"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null"`
	PayerContact string          `gorm:"column:payer_contact;size:64"`
	CreatedAt    time.Time       `gorm:"column:created_at;index:idx_payments_loan_created,priority:2"`

	Loan *loan.Loan `gorm:"foreignKey:LoanID;references:ID"`
}

func (Payment) TableName() string { return "payments" }

// OwnershipTrail: a payment is owned through its loan.
func (p *Payment) OwnershipTrail() access.Trail {
	if p == nil || p.Loan == nil {
		return access.Trail{}
	}
	return access.Trail{Via: p.Loan}
}
