package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	// GetByPaymentID loads the payment together with its loan.
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	// ListByLoanID returns the loan's payments oldest first.
	ListByLoanID(ctx context.Context, loanID uint64) ([]Payment, error)
	// ListByApplicant and List preload each payment's loan.
	ListByApplicant(ctx context.Context, applicantID uint64) ([]Payment, error)
	List(ctx context.Context) ([]Payment, error)
}
