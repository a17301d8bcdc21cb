package mysql

import (
	"context"

	attachmentDomain "loan-ledger-service/internal/domain/attachment"

	"gorm.io/gorm"
)

type AttachmentRepository struct{ db *gorm.DB }

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Save(ctx context.Context, a *attachmentDomain.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AttachmentRepository) ListByOwner(ctx context.Context, kind attachmentDomain.Kind, ownerID uint64) ([]attachmentDomain.Attachment, error) {
	var out []attachmentDomain.Attachment
	err := r.db.WithContext(ctx).
		Where("kind = ? AND owner_id = ?", kind, ownerID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}
