package model

import (
	"time"
)

type LoginCode struct {
	ID        string    `db:"id"`
	AccountID string    `db:"account_id"`
	Code      string    `db:"code"` // 6 decimal digits, never zero-padded
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
}

func (c *LoginCode) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
