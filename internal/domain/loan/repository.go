package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row until the surrounding transaction ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	List(ctx context.Context) ([]Loan, error)
	ListByApplicant(ctx context.Context, applicantID uint64) ([]Loan, error)

	// UpdateDecision writes status, contract and approval fields only if the
	// stored status still equals from; otherwise ErrStaleStatus.
	UpdateDecision(ctx context.Context, l *Loan, from Status) error
	// UpdateLedger writes amount_paid and outstanding_balance of an approved loan.
	UpdateLedger(ctx context.Context, l *Loan) error
}
