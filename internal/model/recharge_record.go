package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RechargeRecord is one recharge of a gifticon. Recharge history lives in
// its own append-only table rather than an array embedded in the card
// record, so the card row stays bounded no matter how often it is topped up.
type RechargeRecord struct {
	ID              uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	GifticonID      string    `json:"gifticon_id" gorm:"size:20;not null;index"`
	Amount          int64     `json:"amount" gorm:"not null"`
	RechargedBy     string    `json:"recharged_by,omitempty" gorm:"size:100"`
	PaymentMethod   string    `json:"payment_method,omitempty" gorm:"size:50"`
	BeforeAmount    int64     `json:"before_amount" gorm:"not null"`
	AfterAmount     int64     `json:"after_amount" gorm:"not null"`
	BeforeRemaining int64     `json:"before_remaining" gorm:"not null"`
	AfterRemaining  int64     `json:"after_remaining" gorm:"not null"`
	RechargedAt     time.Time `json:"recharged_at" gorm:"not null;index"`
	CreatedAt       time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (r *RechargeRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
