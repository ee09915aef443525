package model

import (
	"time"
)

type SharingLink struct {
	ID        string     `db:"id"`
	AccountID string     `db:"account_id"`
	Token     string     `db:"token"`
	ExpiresAt *time.Time `db:"expires_at"` // Nullable: nil means the link never expires
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
}

// Usable reports whether the link grants access: active and not expired.
// Every code path that accepts a share token must go through this predicate.
func (l *SharingLink) Usable() bool {
	if !l.IsActive {
		return false
	}
	return l.ExpiresAt == nil || l.ExpiresAt.After(time.Now())
}
