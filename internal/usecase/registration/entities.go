package registration

import (
	"loan-ledger-service/internal/domain/attachment"
	applicantuc "loan-ledger-service/internal/usecase/applicant"
	loanuc "loan-ledger-service/internal/usecase/loan"

	"github.com/shopspring/decimal"
)

// Input is the flat register-and-apply form: applicant, loan, sponsor, and two
// optional base64 photos.
type Input struct {
	applicantuc.RegisterInput

	LoanType        string              `json:"loan_type"`
	RequestedAmount decimal.Decimal     `json:"requested_amount"`
	AssetsValue     decimal.NullDecimal `json:"assets_value"`
	MonthlyIncome   decimal.NullDecimal `json:"monthly_income"`

	SponsorName       string `json:"sponsor_name"`
	SponsorAddress    string `json:"sponsor_address"`
	SponsorNationalID string `json:"sponsor_national_id"`
	SponsorPhone      string `json:"sponsor_phone"`
	SponsorEmail      string `json:"sponsor_email"`

	ProfilePhoto string `json:"profile_photo"`
	SponsorPhoto string `json:"sponsor_photo"`
}

func (in Input) loanInput() loanuc.SubmitInput {
	return loanuc.SubmitInput{
		LoanType:        in.LoanType,
		RequestedAmount: in.RequestedAmount,
		AssetsValue:     in.AssetsValue,
		MonthlyIncome:   in.MonthlyIncome,
		Sponsor: loanuc.SponsorInput{
			Name:       in.SponsorName,
			Address:    in.SponsorAddress,
			NationalID: in.SponsorNationalID,
			Phone:      in.SponsorPhone,
			Email:      in.SponsorEmail,
		},
	}
}

// AttachmentOutcome reports what happened to one optional photo.
type AttachmentOutcome struct {
	Kind         attachment.Kind `json:"kind"`
	Saved        bool            `json:"saved"`
	AttachmentID string          `json:"attachment_id,omitempty"`
	Reason       string          `json:"reason,omitempty"`
}

type Result struct {
	Applicant   *applicantuc.ApplicantDTO `json:"applicant"`
	Loan        *loanuc.LoanDTO           `json:"loan"`
	Token       *applicantuc.TokenDTO     `json:"token,omitempty"`
	Attachments []AttachmentOutcome       `json:"attachments"`
}
