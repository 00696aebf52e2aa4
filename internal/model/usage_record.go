package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageRecord is one redemption against a gifticon. Records are append-only:
// the balance on the card can change again later, but the snapshot taken
// here never does.
type UsageRecord struct {
	ID             uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	GifticonID     string    `json:"gifticon_id" gorm:"size:20;not null;index"`
	UsedAmount     int64     `json:"used_amount" gorm:"not null"`
	RemainingAfter int64     `json:"remaining_after" gorm:"not null"`
	UsedAt         time.Time `json:"used_at" gorm:"not null;index"`
	UsedBy         string    `json:"used_by,omitempty" gorm:"size:100"`
	Memo           string    `json:"memo,omitempty" gorm:"size:255"`
	PaymentMethod  string    `json:"payment_method,omitempty" gorm:"size:50"`
	Location       string    `json:"location,omitempty" gorm:"size:100"`
	CreatedAt      time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *UsageRecord) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
