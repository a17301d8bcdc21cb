package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	applicantDomain "loan-ledger-service/internal/domain/applicant"
	decisionDomain "loan-ledger-service/internal/domain/decision"
	loanDomain "loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/domain/uow"
	"loan-ledger-service/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func makeDecision(loanNumericID, by uint64, outcome loanDomain.Status) *decisionDomain.Decision {
	return &decisionDomain.Decision{
		DecisionID: id.NewID32(),
		LoanID:     loanNumericID,
		Outcome:    outcome,
		DecidedBy:  by,
		DecidedAt:  time.Now().UTC(),
	}
}

// ----------------------------- Tests -----------------------------

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	owner := seedApplicant(t, gdb, "alice")

	guow := NewGormUoW(gdb)
	l := makeLoan(owner.ID, "1000")
	var d *decisionDomain.Decision

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if l.ID == 0 {
			t.Fatalf("loan auto ID not set")
		}
		d = makeDecision(l.ID, owner.ID, loanDomain.StatusRejected)
		return r.Decisions.Create(ctx, d)
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := NewLoanRepository(gdb).GetByLoanID(ctx, l.LoanID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	ds, err := NewDecisionRepository(gdb).ListByLoanID(ctx, l.ID)
	if err != nil || len(ds) != 1 || ds[0].DecisionID != d.DecisionID {
		t.Fatalf("decision not visible after commit: %+v, %v", ds, err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(gdb)
	sentinel := errors.New("boom")
	a := &applicantDomain.Applicant{ApplicantID: id.NewID32(), Username: "ghost", PasswordHash: "x"}
	var l *loanDomain.Loan

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Applicants.Create(ctx, a); err != nil {
			return err
		}
		l = makeLoan(a.ID, "1000")
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		return sentinel // force rollback
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	if _, err := NewApplicantRepository(gdb).GetByUsername(ctx, "ghost"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected applicant not found after rollback, got %v", err)
	}
	if _, err := NewLoanRepository(gdb).GetByLoanID(ctx, l.LoanID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected loan not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx_Commit(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	owner := seedApplicant(t, gdb, "alice")
	seed := seedLoan(t, gdb, owner.ID, "2000")

	guow := NewGormUoW(gdb)
	var d *decisionDomain.Decision
	if err := guow.WithinLoanTx(ctx, seed.LoanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l == nil || l.LoanID != seed.LoanID || l.Status != loanDomain.StatusPending {
			t.Fatalf("unexpected loan passed to fn: %+v", l)
		}
		if err := l.Decide(loanDomain.StatusRejected, loanDomain.Terms{}, time.Now()); err != nil {
			return err
		}
		if err := r.Loans.UpdateDecision(ctx, l, loanDomain.StatusPending); err != nil {
			return err
		}
		d = makeDecision(l.ID, owner.ID, l.Status)
		return r.Decisions.Create(ctx, d)
	}); err != nil {
		t.Fatalf("WithinLoanTx commit err: %v", err)
	}

	got, err := NewLoanRepository(gdb).GetByLoanID(ctx, seed.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID post-commit: %v", err)
	}
	if got.Status != loanDomain.StatusRejected {
		t.Fatalf("loan status not updated, got=%s", got.Status)
	}
	ds, err := NewDecisionRepository(gdb).ListByLoanID(ctx, got.ID)
	if err != nil || len(ds) != 1 || ds[0].Outcome != loanDomain.StatusRejected {
		t.Fatalf("decision trail = %+v, err=%v", ds, err)
	}
}

func TestGormUoW_WithinLoanTx_Rollback(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	owner := seedApplicant(t, gdb, "alice")
	seed := seedApprovedLoan(t, gdb, owner.ID, "3000")

	guow := NewGormUoW(gdb)
	sentinel := errors.New("stop")

	_ = guow.WithinLoanTx(ctx, seed.LoanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if _, err := l.ApplyPayment(decimal.NewFromInt(100)); err != nil {
			return err
		}
		if err := r.Loans.UpdateLedger(ctx, l); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	got, err := NewLoanRepository(gdb).GetByLoanID(ctx, seed.LoanID)
	if err != nil {
		t.Fatalf("post-rollback GetByLoanID: %v", err)
	}
	if !got.AmountPaid.IsZero() || !got.OutstandingBalance.Decimal.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("ledger changed despite rollback: paid=%s outstanding=%s", got.AmountPaid, got.OutstandingBalance.Decimal)
	}
}

func TestGormUoW_WithinLoanTx_LoanNotFound(t *testing.T) {
	guow := NewGormUoW(openTestDB(t))

	err := guow.WithinLoanTx(context.Background(), "ffffffffffffffffffffffffffffffff", func(r uow.Repos, l *loanDomain.Loan) error {
		t.Fatalf("callback should not be called when loan missing")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDecisionUniquePerOutcome(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	owner := seedApplicant(t, gdb, "alice")
	l := seedLoan(t, gdb, owner.ID, "100")
	repo := NewDecisionRepository(gdb)

	if err := repo.Create(ctx, makeDecision(l.ID, owner.ID, loanDomain.StatusApproved)); err != nil {
		t.Fatalf("first decision: %v", err)
	}
	if err := repo.Create(ctx, makeDecision(l.ID, owner.ID, loanDomain.StatusApproved)); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}
