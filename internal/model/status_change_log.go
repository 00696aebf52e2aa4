package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusChangeAction identifies what kind of administrative event a
// StatusChangeLog records.
type StatusChangeAction string

const (
	ActionBlock    StatusChangeAction = "block"
	ActionUnblock  StatusChangeAction = "unblock"
	ActionRecharge StatusChangeAction = "recharge"
)

// StatusChangeLog is one block, unblock or recharge event. The previous and
// new status snapshots are the *derived* statuses at the time of the change,
// so the log stays meaningful for dispute resolution even after the card
// moves on.
type StatusChangeLog struct {
	ID             uuid.UUID          `json:"id" gorm:"type:char(36);primaryKey"`
	GifticonID     string             `json:"gifticon_id" gorm:"size:20;not null;index"`
	Action         StatusChangeAction `json:"action" gorm:"type:varchar(20);not null;index"`
	Reason         string             `json:"reason,omitempty" gorm:"size:255"`
	PerformedBy    string             `json:"performed_by,omitempty" gorm:"size:100"`
	PerformedAt    time.Time          `json:"performed_at" gorm:"not null;index"`
	PreviousStatus Status             `json:"previous_status" gorm:"type:varchar(20);not null"`
	NewStatus      Status             `json:"new_status" gorm:"type:varchar(20);not null"`
	CreatedAt      time.Time          `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (l *StatusChangeLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
