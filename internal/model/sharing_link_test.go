package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSharingLinkUsable(t *testing.T) {
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name string
		link SharingLink
		want bool
	}{
		{"active with future expiry", SharingLink{IsActive: true, ExpiresAt: &future}, true},
		{"active without expiry", SharingLink{IsActive: true, ExpiresAt: nil}, true},
		{"active but expired", SharingLink{IsActive: true, ExpiresAt: &past}, false},
		{"revoked with future expiry", SharingLink{IsActive: false, ExpiresAt: &future}, false},
		{"revoked without expiry", SharingLink{IsActive: false, ExpiresAt: nil}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.Usable())
		})
	}
}
