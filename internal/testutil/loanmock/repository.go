package loanmock

import (
	"context"

	domain "loan-ledger-service/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes succeed.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListFn                 func(ctx context.Context) ([]domain.Loan, error)
	ListByApplicantFn      func(ctx context.Context, applicantID uint64) ([]domain.Loan, error)
	UpdateDecisionFn       func(ctx context.Context, l *domain.Loan, from domain.Status) error
	UpdateLedgerFn         func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByApplicant(ctx context.Context, applicantID uint64) ([]domain.Loan, error) {
	if m.ListByApplicantFn != nil {
		return m.ListByApplicantFn(ctx, applicantID)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateDecision(ctx context.Context, l *domain.Loan, from domain.Status) error {
	if m.UpdateDecisionFn != nil {
		return m.UpdateDecisionFn(ctx, l, from)
	}
	return nil
}

func (m *Repo) UpdateLedger(ctx context.Context, l *domain.Loan) error {
	if m.UpdateLedgerFn != nil {
		return m.UpdateLedgerFn(ctx, l)
	}
	return nil
}
