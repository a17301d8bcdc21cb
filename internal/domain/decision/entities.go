package decision

import (
	"time"

	"loan-ledger-service/internal/domain/loan"
)

// Decision is the audit row written alongside every status transition of a
// loan. At most one row exists per (loan, outcome).
type Decision struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	DecisionID string `gorm:"column:decision_id;type:char(32);not null;uniqueIndex:ux_decisions_decision_id"`
	// FK to loans.id (numeric)
	LoanID    uint64      `gorm:"column:loan_id;not null;uniqueIndex:ux_decisions_loan_outcome,priority:1"`
	Outcome   loan.Status `gorm:"column:outcome;size:20;not null;uniqueIndex:ux_decisions_loan_outcome,priority:2"`
	DecidedBy uint64      `gorm:"column:decided_by;not null"`
	Note      string      `gorm:"column:note;type:text"`
	DecidedAt time.Time   `gorm:"column:decided_at;not null"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (Decision) TableName() string { return "decisions" }
