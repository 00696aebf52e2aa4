package model

import "time"

// Status is the coarse lifecycle label of a gifticon. The persisted column
// only ever holds active, used or cancelled; expired and suspended are
// derived at read time by ResolveStatus.
type Status string

const (
	StatusActive    Status = "active"
	StatusUsed      Status = "used"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
	StatusSuspended Status = "suspended"
)

// ResolveStatus derives the effective status of a gifticon from its persisted
// fields and the current time. This is the only place expiration and
// eligibility labels are computed; listings, lookups and the redeem/recharge
// precondition checks all go through it.
//
// Precedence: a block overrides everything, expiry overrides balance.
// Expiration is a view fact: it is never written back to the status column,
// which is what allows a recharge to reactivate an expired card.
func ResolveStatus(persisted Status, remainingBalance int64, expiresAt time.Time, isBlocked bool, now time.Time) Status {
	if isBlocked {
		return StatusSuspended
	}
	if expiresAt.Before(now) {
		return StatusExpired
	}
	if remainingBalance <= 0 {
		return StatusUsed
	}
	if persisted == StatusCancelled {
		return StatusCancelled
	}
	return StatusActive
}
