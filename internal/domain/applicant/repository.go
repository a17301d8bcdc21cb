package applicant

import "context"

type Repository interface {
	// Create fails with a duplicate error when the username is taken.
	Create(ctx context.Context, a *Applicant) error
	GetByID(ctx context.Context, id uint64) (*Applicant, error)
	GetByApplicantID(ctx context.Context, applicantID string) (*Applicant, error)
	GetByUsername(ctx context.Context, username string) (*Applicant, error)
	List(ctx context.Context) ([]Applicant, error)
}
