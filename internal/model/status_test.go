package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(1, 0, 0)
	past := now.AddDate(0, 0, -1)

	tests := []struct {
		name      string
		persisted Status
		remaining int64
		expiresAt time.Time
		isBlocked bool
		expected  Status
	}{
		{"active card", StatusActive, 5000, future, false, StatusActive},
		{"zero balance reads used", StatusActive, 0, future, false, StatusUsed},
		{"stale used status with balance reads active", StatusUsed, 5000, future, false, StatusActive},
		{"past expiry reads expired", StatusActive, 5000, past, false, StatusExpired},
		{"block overrides expiry", StatusActive, 5000, past, true, StatusSuspended},
		{"block overrides zero balance", StatusUsed, 0, future, true, StatusSuspended},
		{"expiry overrides zero balance", StatusUsed, 0, past, false, StatusExpired},
		{"cancelled passes through", StatusCancelled, 5000, future, false, StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveStatus(tt.persisted, tt.remaining, tt.expiresAt, tt.isBlocked, now)
			assert.Equal(t, tt.expected, got)
		})
	}
}
