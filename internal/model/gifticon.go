package model

import (
	"time"
)

// Gifticon represents a stored-value gift card. Balance fields are whole
// Korean won; the record is mutated only through the ledger service, never
// deleted.
type Gifticon struct {
	ID               string     `json:"id" gorm:"primaryKey;size:20"`
	FaceValue        int64      `json:"face_value" gorm:"not null"`
	RemainingBalance int64      `json:"remaining_balance" gorm:"not null"`
	TotalRedeemed    int64      `json:"total_redeemed" gorm:"not null;default:0"`
	TotalRecharged   int64      `json:"total_recharged" gorm:"not null;default:0"`
	RedemptionCount  int        `json:"redemption_count" gorm:"not null;default:0"`
	RechargeCount    int        `json:"recharge_count" gorm:"not null;default:0"`
	Status           Status     `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	IsBlocked        bool       `json:"is_blocked" gorm:"default:false;index"`
	BlockReason      string     `json:"block_reason,omitempty" gorm:"size:255"`
	BlockedBy        string     `json:"blocked_by,omitempty" gorm:"size:100"`
	BlockedAt        *time.Time `json:"blocked_at,omitempty"`
	PurchaserName    string     `json:"purchaser_name" gorm:"size:100;not null"`
	PurchaserPhone   string     `json:"purchaser_phone" gorm:"size:20;not null;index"`
	Notes            string     `json:"notes,omitempty" gorm:"size:200"`
	SecurityHash     string     `json:"-" gorm:"size:64;not null"`
	CreatedBy        string     `json:"created_by,omitempty" gorm:"size:100;index"`
	// Version is the optimistic concurrency token. Every conditional update
	// matches on it and increments it.
	Version   int64     `json:"-" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
}
