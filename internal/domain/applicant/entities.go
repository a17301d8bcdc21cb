package applicant

import (
	"time"

	"loan-ledger-service/internal/domain/access"
)

// Applicant is the identity that owns loan applications.
// IsAdmin is the only role flag the engine looks at.
type Applicant struct {
	ID           uint64    `gorm:"primaryKey;column:id"`
	ApplicantID  string    `gorm:"column:applicant_id;size:32;not null;uniqueIndex:ux_applicants_applicant_id"`
	Username     string    `gorm:"column:username;size:150;not null;uniqueIndex:ux_applicants_username"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	Email        string    `gorm:"column:email;size:255"`
	FirstName    string    `gorm:"column:first_name;size:150"`
	LastName     string    `gorm:"column:last_name;size:150"`
	Phone        string    `gorm:"column:phone;size:13"`
	Address      string    `gorm:"column:address;size:255"`
	NationalID   string    `gorm:"column:national_id;size:20"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Applicant) TableName() string { return "applicants" }

// OwnershipTrail: an applicant owns itself.
func (a *Applicant) OwnershipTrail() access.Trail {
	if a == nil {
		return access.Trail{}
	}
	return access.Trail{OwnerID: a.ID}
}

// Actor is the access view of this applicant.
func (a *Applicant) Actor() access.Actor {
	return access.Actor{ID: a.ID, ApplicantID: a.ApplicantID, IsAdmin: a.IsAdmin}
}

// FullName falls back to the username when no name was given.
func (a *Applicant) FullName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.FirstName != "":
		return a.FirstName
	case a.LastName != "":
		return a.LastName
	}
	return a.Username
}
