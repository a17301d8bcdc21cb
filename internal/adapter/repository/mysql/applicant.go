package mysql

import (
	"context"
	"errors"

	applicantDomain "loan-ledger-service/internal/domain/applicant"
	"loan-ledger-service/internal/domain/apperror"

	"gorm.io/gorm"
)

type ApplicantRepository struct{ db *gorm.DB }

func NewApplicantRepository(db *gorm.DB) *ApplicantRepository { return &ApplicantRepository{db: db} }

// Create relies on the unique username index; the gorm connection must be
// opened with TranslateError so the driver error surfaces as ErrDuplicatedKey.
func (r *ApplicantRepository) Create(ctx context.Context, a *applicantDomain.Applicant) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Duplicate("username", "is already taken")
	}
	return err
}

func (r *ApplicantRepository) GetByID(ctx context.Context, id uint64) (*applicantDomain.Applicant, error) {
	var out applicantDomain.Applicant
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ApplicantRepository) GetByApplicantID(ctx context.Context, applicantID string) (*applicantDomain.Applicant, error) {
	var out applicantDomain.Applicant
	if err := r.db.WithContext(ctx).Where("applicant_id = ?", applicantID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ApplicantRepository) GetByUsername(ctx context.Context, username string) (*applicantDomain.Applicant, error) {
	var out applicantDomain.Applicant
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ApplicantRepository) List(ctx context.Context) ([]applicantDomain.Applicant, error) {
	var out []applicantDomain.Applicant
	err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}
