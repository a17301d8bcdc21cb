package mysql

import (
	"context"
	"testing"
	"time"

	applicantDomain "loan-ledger-service/internal/domain/applicant"
	loanDomain "loan-ledger-service/internal/domain/loan"
	"loan-ledger-service/internal/infrastructure/db"
	"loan-ledger-service/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the full schema.
// One connection only: every new :memory: connection is a fresh database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenGormWithDialector(sqlite.Open(":memory:"), db.Options{LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seedApplicant(t *testing.T, gdb *gorm.DB, username string) *applicantDomain.Applicant {
	t.Helper()
	a := &applicantDomain.Applicant{
		ApplicantID:  id.NewID32(),
		Username:     username,
		PasswordHash: "x",
	}
	if err := NewApplicantRepository(gdb).Create(context.Background(), a); err != nil {
		t.Fatalf("seed applicant: %v", err)
	}
	return a
}

func makeLoan(ownerID uint64, amount string) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:          id.NewID32(),
		ApplicantID:     ownerID,
		LoanType:        loanDomain.TypeCar,
		RequestedAmount: decimal.RequireFromString(amount),
		AmountPaid:      decimal.Zero,
		Status:          loanDomain.StatusPending,
		StatusUpdatedAt: time.Now().UTC(),
	}
}

func seedLoan(t *testing.T, gdb *gorm.DB, ownerID uint64, amount string) *loanDomain.Loan {
	t.Helper()
	l := makeLoan(ownerID, amount)
	if err := NewLoanRepository(gdb).Create(context.Background(), l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}

// seedApprovedLoan stores a loan already approved for its requested amount.
func seedApprovedLoan(t *testing.T, gdb *gorm.DB, ownerID uint64, amount string) *loanDomain.Loan {
	t.Helper()
	l := makeLoan(ownerID, amount)
	term := 12
	if err := l.Decide(loanDomain.StatusApproved, loanDomain.Terms{
		ApprovedAmount: decimal.NewNullDecimal(l.RequestedAmount),
		AnnualRate:     decimal.NewNullDecimal(decimal.RequireFromString("0.1")),
		TermMonths:     &term,
	}, time.Now()); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := NewLoanRepository(gdb).Create(context.Background(), l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}
