package mysql

import (
	"context"

	paymentDomain "loan-ledger-service/internal/domain/payment"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

// Create never touches the associated loan; the ledger updates it explicitly.
func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	err := r.db.WithContext(ctx).
		Preload("Loan").
		Where("payment_id = ?", paymentID).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PaymentRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *PaymentRepository) ListByApplicant(ctx context.Context, applicantID uint64) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).
		Preload("Loan").
		Joins("JOIN loans ON loans.id = payments.loan_id").
		Where("loans.applicant_id = ?", applicantID).
		Order("payments.created_at ASC, payments.id ASC").
		Find(&out).Error
	return out, err
}

func (r *PaymentRepository) List(ctx context.Context) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).Preload("Loan").Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}
