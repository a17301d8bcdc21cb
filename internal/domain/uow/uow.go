package uow

import (
	"context"

	"loan-ledger-service/internal/domain/applicant"
	"loan-ledger-service/internal/domain/decision"
	"loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/domain/payment"
)

// Repos are bound to one transaction.
type Repos struct {
	Applicants applicant.Repository
	Loans      loan.Repository
	Payments   payment.Repository
	Decisions  decision.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
