package decision

import "context"

type Repository interface {
	// Create a decision row (DB uniqueness ensures one per loan and outcome)
	Create(ctx context.Context, d *Decision) error

	// ListByLoanID returns the loan's decisions oldest first
	ListByLoanID(ctx context.Context, loanID uint64) ([]Decision, error)
}
