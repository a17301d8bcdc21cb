package attachment

import (
	"context"
	"time"
)

type Kind string

const (
	KindProfilePhoto Kind = "applicant_profile"
	KindSponsorPhoto Kind = "loan_sponsor"
)

// Attachment is a stored image belonging to an applicant or a loan.
type Attachment struct {
	ID           uint64    `gorm:"primaryKey;column:id"`
	AttachmentID string    `gorm:"column:attachment_id;size:32;not null;uniqueIndex:ux_attachments_attachment_id"`
	Kind         Kind      `gorm:"column:kind;size:32;not null;index:idx_attachments_owner,priority:1"`
	OwnerID      uint64    `gorm:"column:owner_id;not null;index:idx_attachments_owner,priority:2"`
	ContentType  string    `gorm:"column:content_type;size:64;not null"`
	Data         []byte    `gorm:"column:data;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Attachment) TableName() string { return "attachments" }

// Store saves attachments. Callers treat failures as non-fatal.
type Store interface {
	Save(ctx context.Context, a *Attachment) error
	ListByOwner(ctx context.Context, kind Kind, ownerID uint64) ([]Attachment, error)
}
