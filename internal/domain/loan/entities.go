package loan

import (
	"time"

	"loan-ledger-service/internal/domain/access"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending          Status = "pending"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusContractRejected Status = "contract_rejected"
)

type Type string

const (
	TypeHome      Type = "home"
	TypeCar       Type = "car"
	TypeEducation Type = "education"
	TypeBusiness  Type = "business"
)

// Types is the closed set of loan categories.
var Types = []Type{TypeHome, TypeCar, TypeEducation, TypeBusiness}

func (t Type) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

// Sponsor is descriptive only.
type Sponsor struct {
	Name       string `gorm:"column:sponsor_name;size:255"`
	Address    string `gorm:"column:sponsor_address;size:255"`
	NationalID string `gorm:"column:sponsor_national_id;size:20"`
	Phone      string `gorm:"column:sponsor_phone;size:13"`
	Email      string `gorm:"column:sponsor_email;size:255"`
}

// Loan is a loan application. ApprovedAmount, InterestRate, TermMonths,
// MonthlyPayment and OutstandingBalance are all NULL until approval and all set
// after it.
type Loan struct {
	ID                 uint64              `gorm:"primaryKey;column:id"`
	LoanID             string              `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_loans_loan_id"`
	ApplicantID        uint64              `gorm:"column:applicant_id;not null;index:idx_loans_applicant"`
	LoanType           Type                `gorm:"column:loan_type;size:20;not null"`
	RequestedAmount    decimal.Decimal     `gorm:"column:requested_amount;type:decimal(18,2);not null"`
	ApprovedAmount     decimal.NullDecimal `gorm:"column:approved_amount;type:decimal(18,2)"`
	InterestRate       decimal.NullDecimal `gorm:"column:interest_rate;type:decimal(9,6)"`
	TermMonths         *int                `gorm:"column:term_months"`
	MonthlyPayment     decimal.NullDecimal `gorm:"column:monthly_payment;type:decimal(18,2)"`
	OutstandingBalance decimal.NullDecimal `gorm:"column:outstanding_balance;type:decimal(18,2)"`
	AmountPaid         decimal.Decimal     `gorm:"column:amount_paid;type:decimal(18,2);not null"`
	Status             Status              `gorm:"column:status;size:20;not null;index:idx_loans_status"`
	ContractAccepted   *bool               `gorm:"column:contract_accepted"`
	AssetsValue        decimal.NullDecimal `gorm:"column:assets_value;type:decimal(18,2)"`
	MonthlyIncome      decimal.NullDecimal `gorm:"column:monthly_income;type:decimal(18,2)"`
	Sponsor            Sponsor             `gorm:"embedded"`
	StatusUpdatedAt    time.Time           `gorm:"column:status_updated_at"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Loan) TableName() string { return "loans" }

// OwnershipTrail: a loan is owned by its applicant.
func (l *Loan) OwnershipTrail() access.Trail {
	if l == nil {
		return access.Trail{}
	}
	return access.Trail{OwnerID: l.ApplicantID}
}

// Settled is a read-only view: approved and nothing left to repay.
func (l *Loan) Settled() bool {
	return l.Status == StatusApproved && l.OutstandingBalance.Valid && l.OutstandingBalance.Decimal.IsZero()
}

// HasTerms reports whether the approval fields are set.
func (l *Loan) HasTerms() bool {
	return l.ApprovedAmount.Valid && l.InterestRate.Valid && l.TermMonths != nil && l.MonthlyPayment.Valid
}
