package applicant

import (
	"time"

	domain "loan-ledger-service/internal/domain/applicant"
)

type RegisterInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	NationalID string `json:"national_id"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ApplicantDTO struct {
	ApplicantID string    `json:"applicant_id"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email,omitempty"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	NationalID  string    `json:"national_id,omitempty"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

type TokenDTO struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Applicant   *ApplicantDTO `json:"applicant"`
}

func ToDTO(a *domain.Applicant) *ApplicantDTO {
	return &ApplicantDTO{
		ApplicantID: a.ApplicantID,
		Username:    a.Username,
		FullName:    a.FullName(),
		Email:       a.Email,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Phone:       a.Phone,
		Address:     a.Address,
		NationalID:  a.NationalID,
		IsAdmin:     a.IsAdmin,
		CreatedAt:   a.CreatedAt,
	}
}
