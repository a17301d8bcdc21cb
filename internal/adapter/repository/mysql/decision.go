package mysql

import (
	"context"

	decisionDomain "loan-ledger-service/internal/domain/decision"

	"gorm.io/gorm"
)

type DecisionRepository struct{ db *gorm.DB }

func NewDecisionRepository(db *gorm.DB) *DecisionRepository { return &DecisionRepository{db: db} }

func (r *DecisionRepository) Create(ctx context.Context, d *decisionDomain.Decision) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DecisionRepository) ListByLoanID(ctx context.Context, loanNumericID uint64) ([]decisionDomain.Decision, error) {
	var out []decisionDomain.Decision
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("decided_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
