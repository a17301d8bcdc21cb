package loan

import (
	"time"

	domain "loan-ledger-service/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type SponsorInput struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

type SubmitInput struct {
	LoanType        string              `json:"loan_type"`
	RequestedAmount decimal.Decimal     `json:"requested_amount"`
	AssetsValue     decimal.NullDecimal `json:"assets_value"`
	MonthlyIncome   decimal.NullDecimal `json:"monthly_income"`
	Sponsor         SponsorInput        `json:"sponsor"`
}

// Draft converts the input into the domain's application draft.
func (in SubmitInput) Draft() domain.Draft {
	return domain.Draft{
		LoanType:        domain.Type(in.LoanType),
		RequestedAmount: in.RequestedAmount,
		AssetsValue:     in.AssetsValue,
		MonthlyIncome:   in.MonthlyIncome,
		Sponsor: domain.Sponsor{
			Name:       in.Sponsor.Name,
			Address:    in.Sponsor.Address,
			NationalID: in.Sponsor.NationalID,
			Phone:      in.Sponsor.Phone,
			Email:      in.Sponsor.Email,
		},
	}
}

type DecideInput struct {
	LoanID         string              `json:"-"`
	Decision       string              `json:"decision"`
	ApprovedAmount decimal.NullDecimal `json:"approved_amount"`
	InterestRate   decimal.NullDecimal `json:"interest_rate"`
	TermMonths     *int                `json:"term_months"`
	Note           string              `json:"note"`
}

type LoanDTO struct {
	LoanID             string           `json:"loan_id"`
	LoanType           string           `json:"loan_type"`
	Status             string           `json:"status"`
	RequestedAmount    decimal.Decimal  `json:"requested_amount"`
	ApprovedAmount     *decimal.Decimal `json:"approved_amount"`
	InterestRate       *decimal.Decimal `json:"interest_rate"`
	TermMonths         *int             `json:"term_months"`
	MonthlyPayment     *decimal.Decimal `json:"monthly_payment"`
	OutstandingBalance *decimal.Decimal `json:"outstanding_balance"`
	AmountPaid         decimal.Decimal  `json:"amount_paid"`
	ContractAccepted   *bool            `json:"contract_accepted"`
	Settled            bool             `json:"settled"`
	AssetsValue        *decimal.Decimal `json:"assets_value,omitempty"`
	MonthlyIncome      *decimal.Decimal `json:"monthly_income,omitempty"`
	Sponsor            *SponsorInput    `json:"sponsor,omitempty"`
	StatusUpdatedAt    time.Time        `json:"status_updated_at"`
	CreatedAt          time.Time        `json:"created_at"`
}

type DecisionDTO struct {
	DecisionID string    `json:"decision_id"`
	Outcome    string    `json:"outcome"`
	Note       string    `json:"note,omitempty"`
	DecidedAt  time.Time `json:"decided_at"`
}

func ptr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func ToDTO(l *domain.Loan) *LoanDTO {
	dto := &LoanDTO{
		LoanID:             l.LoanID,
		LoanType:           string(l.LoanType),
		Status:             string(l.Status),
		RequestedAmount:    l.RequestedAmount,
		ApprovedAmount:     ptr(l.ApprovedAmount),
		InterestRate:       ptr(l.InterestRate),
		TermMonths:         l.TermMonths,
		MonthlyPayment:     ptr(l.MonthlyPayment),
		OutstandingBalance: ptr(l.OutstandingBalance),
		AmountPaid:         l.AmountPaid,
		ContractAccepted:   l.ContractAccepted,
		Settled:            l.Settled(),
		AssetsValue:        ptr(l.AssetsValue),
		MonthlyIncome:      ptr(l.MonthlyIncome),
		StatusUpdatedAt:    l.StatusUpdatedAt,
		CreatedAt:          l.CreatedAt,
	}
	if l.Sponsor != (domain.Sponsor{}) {
		dto.Sponsor = &SponsorInput{
			Name:       l.Sponsor.Name,
			Address:    l.Sponsor.Address,
			NationalID: l.Sponsor.NationalID,
			Phone:      l.Sponsor.Phone,
			Email:      l.Sponsor.Email,
		}
	}
	return dto
}
